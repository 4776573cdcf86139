package token

import (
	"fmt"
	"strings"
)

type TokenType int

const (
	TWhitespace TokenType = iota
	TComment
	TIdent
	TKeyword
	TString
	TIndString
	TInteger
	TFloat
	TPath
	TURI
	TLCurl
	TRCurl
	TLSquare
	TRSquare
	TLParen
	TRParen
	TAssign
	TSemicolon
	TColon
	TComma
	TDot
	TEllipsis
	TAt
	TQuestion
	TOp
)

func (t TokenType) String() string {
	return map[TokenType]string{
		TWhitespace: "TWhitespace",
		TComment:    "TComment",
		TIdent:      "TIdent",
		TKeyword:    "TKeyword",
		TString:     "TString",
		TIndString:  "TIndString",
		TInteger:    "TInteger",
		TFloat:      "TFloat",
		TPath:       "TPath",
		TURI:        "TURI",
		TLCurl:      "TLCurl",
		TRCurl:      "TRCurl",
		TLSquare:    "TLSquare",
		TRSquare:    "TRSquare",
		TLParen:     "TLParen",
		TRParen:     "TRParen",
		TAssign:     "TAssign",
		TSemicolon:  "TSemicolon",
		TColon:      "TColon",
		TComma:      "TComma",
		TDot:        "TDot",
		TEllipsis:   "TEllipsis",
		TAt:         "TAt",
		TQuestion:   "TQuestion",
		TOp:         "TOp",
	}[t]
}

// Trivia reports whether tokens of type t carry no syntax.
func (t TokenType) Trivia() bool {
	return t == TWhitespace || t == TComment
}

type Token struct {
	Type  TokenType
	Pos   *Pos
	Bytes []byte
}

// Offset is the byte offset of the first byte of t.
func (t *Token) Offset() int {
	return t.Pos.I
}

// End is the byte offset just past the last byte of t.
func (t *Token) End() int {
	return t.Pos.I + len(t.Bytes)
}

func (t *Token) Info() string {
	return fmt.Sprintf("%s %s", t.Type, t.Pos.String())
}

// String returns the value denoted by t: strings are unquoted and comments
// have their markers removed.  Other tokens are returned verbatim.
func (t *Token) String() string {
	switch t.Type {
	case TString:
		return QuotedToString(t.Bytes)
	case TIndString:
		return IndentedToString(t.Bytes)
	case TComment:
		return CommentText(t.Bytes)
	default:
		return string(t.Bytes)
	}
}

// Is reports whether t is the keyword or operator kw.
func (t *Token) Is(kw string) bool {
	return (t.Type == TKeyword || t.Type == TOp || t.Type == TIdent) && string(t.Bytes) == kw
}

// QuotedToString unquotes a double quoted string token.
func QuotedToString(d []byte) string {
	if len(d) < 2 {
		return ""
	}
	d = d[1 : len(d)-1]
	var sb strings.Builder
	for i := 0; i < len(d); i++ {
		c := d[i]
		if c != '\\' || i+1 == len(d) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch d[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		default:
			sb.WriteByte(d[i])
		}
	}
	return sb.String()
}

// IndentedToString returns the value of a '' string token: escapes are
// resolved and the common leading indentation of non-blank lines is
// removed, as is a first line consisting only of whitespace.
func IndentedToString(d []byte) string {
	if len(d) < 4 {
		return ""
	}
	d = d[2 : len(d)-2]
	var sb strings.Builder
	for i := 0; i < len(d); i++ {
		if d[i] == '\'' && i+2 < len(d) && d[i+1] == '\'' {
			switch d[i+2] {
			case '\'':
				sb.WriteString("''")
				i += 2
				continue
			case '$':
				sb.WriteByte('$')
				i += 2
				continue
			case '\\':
				if i+3 < len(d) {
					switch d[i+3] {
					case 'n':
						sb.WriteByte('\n')
					case 't':
						sb.WriteByte('\t')
					case 'r':
						sb.WriteByte('\r')
					default:
						sb.WriteByte(d[i+3])
					}
					i += 3
					continue
				}
			}
		}
		sb.WriteByte(d[i])
	}
	lines := strings.Split(sb.String(), "\n")
	if len(lines) > 1 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	indent := -1
	for _, ln := range lines {
		if strings.TrimSpace(ln) == "" {
			continue
		}
		n := len(ln) - len(strings.TrimLeft(ln, " "))
		if indent == -1 || n < indent {
			indent = n
		}
	}
	for i, ln := range lines {
		if len(ln) >= indent && indent > 0 {
			lines[i] = ln[indent:]
		} else if strings.TrimSpace(ln) == "" {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}
