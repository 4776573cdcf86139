package lsp

import (
	"context"
	"unicode/utf16"

	"go.lsp.dev/protocol"

	"github.com/leeola/tanc/parse"
	"github.com/leeola/tanc/token"
)

var semanticLegend = protocol.SemanticTokensLegend{
	TokenTypes: []protocol.SemanticTokenTypes{
		protocol.SemanticTokenComment,
		protocol.SemanticTokenKeyword,
		protocol.SemanticTokenString,
		protocol.SemanticTokenNumber,
		protocol.SemanticTokenOperator,
		protocol.SemanticTokenProperty,
	},
	TokenModifiers: []protocol.SemanticTokenModifiers{},
}

// indices into semanticLegend.TokenTypes
const (
	semComment uint32 = iota
	semKeyword
	semString
	semNumber
	semOperator
	semProperty
)

type tokenInfo struct {
	line      uint32
	character uint32
	length    uint32
	tokenType uint32
}

func (s *Server) SemanticTokensFull(ctx context.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	doc := s.docs.get(string(params.TextDocument.URI))
	if doc == nil {
		return &protocol.SemanticTokens{Data: []uint32{}}, nil
	}
	return &protocol.SemanticTokens{
		Data: encodeTokens(collectSemanticTokens(doc, nil)),
	}, nil
}

func (s *Server) SemanticTokensRange(ctx context.Context, params *protocol.SemanticTokensRangeParams) (*protocol.SemanticTokens, error) {
	doc := s.docs.get(string(params.TextDocument.URI))
	if doc == nil {
		return &protocol.SemanticTokens{Data: []uint32{}}, nil
	}
	return &protocol.SemanticTokens{
		Data: encodeTokens(collectSemanticTokens(doc, &params.Range)),
	}, nil
}

// collectSemanticTokens classifies the tokens of doc, restricted to the
// lines of within if it is non nil.  Tokens spanning lines are split at
// line ends.
func collectSemanticTokens(doc *document, within *protocol.Range) []tokenInfo {
	src := []byte(doc.content)
	var toks []token.Token
	root, err := parse.Parse(src, parse.ParseTokens(&toks))
	if err != nil {
		toks, err = token.Tokenize(nil, src)
		if err != nil {
			return nil
		}
	}
	props := map[*token.Token]bool{}
	if root != nil {
		markProperties(root, props)
	}

	var (
		res       []tokenInfo
		line      uint32
		lineStart int
	)
	for i := range toks {
		t := &toks[i]
		typ, ok := classify(t, props)
		if ok {
			off, ln, ls := t.Offset(), line, lineStart
			for j, c := range t.Bytes {
				if c != '\n' {
					continue
				}
				res = appendInfo(res, src, ln, ls, off, t.Offset()+j, typ)
				ln++
				ls = t.Offset() + j + 1
				off = ls
			}
			res = appendInfo(res, src, ln, ls, off, t.End(), typ)
		}
		for j, c := range t.Bytes {
			if c == '\n' {
				line++
				lineStart = t.Offset() + j + 1
			}
		}
	}
	if within == nil {
		return res
	}
	var filtered []tokenInfo
	for _, ti := range res {
		if ti.line >= within.Start.Line && ti.line <= within.End.Line {
			filtered = append(filtered, ti)
		}
	}
	return filtered
}

func appendInfo(res []tokenInfo, src []byte, line uint32, lineStart, start, end int, typ uint32) []tokenInfo {
	if end <= start {
		return res
	}
	return append(res, tokenInfo{
		line:      line,
		character: utf16Len(src[lineStart:start]),
		length:    utf16Len(src[start:end]),
		tokenType: typ,
	})
}

func utf16Len(d []byte) uint32 {
	var n int
	for _, r := range string(d) {
		n += utf16.RuneLen(r)
	}
	return uint32(n)
}

func classify(t *token.Token, props map[*token.Token]bool) (uint32, bool) {
	if props[t] {
		return semProperty, true
	}
	switch t.Type {
	case token.TComment:
		return semComment, true
	case token.TKeyword:
		return semKeyword, true
	case token.TString, token.TIndString, token.TPath, token.TURI:
		return semString, true
	case token.TInteger, token.TFloat:
		return semNumber, true
	case token.TOp:
		return semOperator, true
	}
	return 0, false
}

// markProperties records the attribute name tokens of bindings and
// inherit statements.
func markProperties(n *parse.Node, props map[*token.Token]bool) {
	switch n.Kind {
	case parse.NAttrPath:
		for _, a := range n.Nodes() {
			if t := a.FirstToken(); t != nil {
				props[t] = true
			}
		}
		return
	case parse.NInherit:
		for _, a := range n.Nodes() {
			if a.Kind == parse.NInheritFrom {
				markProperties(a, props)
				continue
			}
			if t := a.FirstToken(); t != nil {
				props[t] = true
			}
		}
		return
	}
	for _, c := range n.Nodes() {
		markProperties(c, props)
	}
}

func encodeTokens(infos []tokenInfo) []uint32 {
	tokens := make([]uint32, 0, len(infos)*5)
	var prevLine, prevChar uint32
	for _, ti := range infos {
		deltaLine := ti.line - prevLine
		deltaChar := ti.character
		if deltaLine == 0 {
			deltaChar = ti.character - prevChar
		}
		tokens = append(tokens, deltaLine, deltaChar, ti.length, ti.tokenType, 0)
		prevLine = ti.line
		prevChar = ti.character
	}
	return tokens
}
