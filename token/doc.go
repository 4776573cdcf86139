// Package token provides lossless tokenization of Nix-style attribute-set
// sources.
//
// [Tokenize] splits bytes into [Token]s.  Every input byte belongs to exactly
// one token: whitespace and comments are kept as [TWhitespace] and
// [TComment] tokens so that documentation and position bookkeeping can be
// recovered from the token stream.
//
// [CommentText] strips comment markers from a [TComment] token.
package token
