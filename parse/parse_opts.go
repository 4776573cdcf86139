package parse

import "github.com/leeola/tanc/token"

type parseOpts struct {
	maxDepth int
	tokens   *[]token.Token
}

const defaultMaxDepth = 512

type ParseOption func(*parseOpts)

// ParseMaxDepth bounds the nesting depth of expressions.
func ParseMaxDepth(n int) ParseOption {
	return func(o *parseOpts) { o.maxDepth = n }
}

// ParseTokens stores the token stream of the parsed document in *dst.
func ParseTokens(dst *[]token.Token) ParseOption {
	return func(o *parseOpts) { o.tokens = dst }
}
