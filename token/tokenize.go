package token

import (
	"bytes"
	"unicode/utf8"
)

// Tokenize appends the tokens of src to dst.  The concatenation of the
// returned tokens' Bytes is src.
func Tokenize(dst []Token, src []byte) ([]Token, error) {
	pd := NewPosDoc(src)
	if off := invalidUTF8(src); off != -1 {
		return nil, NewTokenizeErr(ErrBadUTF8, pd.Pos(off))
	}
	i, n := 0, len(src)
	for i < n {
		tt, sz, err := tokenizeOne(src, i, pd)
		if err != nil {
			return nil, err
		}
		dst = append(dst, Token{
			Type:  tt,
			Pos:   pd.Pos(i),
			Bytes: src[i : i+sz],
		})
		i += sz
	}
	return dst, nil
}

func invalidUTF8(d []byte) int {
	for i := 0; i < len(d); {
		r, sz := utf8.DecodeRune(d[i:])
		if r == utf8.RuneError && sz <= 1 {
			return i
		}
		i += sz
	}
	return -1
}

func tokenizeOne(d []byte, i int, pd *PosDoc) (TokenType, int, error) {
	n := len(d)
	c := d[i]
	next := byte(0)
	if i+1 < n {
		next = d[i+1]
	}
	switch {
	case isSpace(c):
		j := i + 1
		for j < n && isSpace(d[j]) {
			j++
		}
		return TWhitespace, j - i, nil
	case c == '#':
		j := bytes.IndexByte(d[i:], '\n')
		if j == -1 {
			j = n - i
		}
		return TComment, j, nil
	case c == '/' && next == '*':
		j := bytes.Index(d[i+2:], []byte("*/"))
		if j == -1 {
			return 0, 0, unterminatedErr("comment", pd.Pos(i))
		}
		return TComment, j + 4, nil
	case c == '"':
		return scanString(d, i, pd)
	case c == '\'' && next == '\'':
		return scanIndString(d, i, pd)
	case c == '~' && next == '/':
		return scanPath(d, i, pd)
	case c == '$':
		return 0, 0, unsupportedErr("antiquotation", pd.Pos(i))
	}
	if pathAhead(d, i) {
		return scanPath(d, i, pd)
	}
	switch {
	case isDigit(c), c == '.' && isDigit(next):
		return scanNumber(d, i, pd)
	case isIdentStart(c):
		return scanIdent(d, i)
	case c == '<':
		j := i + 1
		for j < n && (isPathChar(d[j]) || d[j] == '/') {
			j++
		}
		if j > i+1 && j < n && d[j] == '>' {
			return TPath, j + 1 - i, nil
		}
	}
	return scanPunct(d, i, pd)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// pathAhead reports whether a path literal such as ./a, a/b or /a starts
// at i.
func pathAhead(d []byte, i int) bool {
	j := i
	for j < len(d) && isPathChar(d[j]) {
		j++
	}
	return j+1 < len(d) && d[j] == '/' && isPathChar(d[j+1])
}

func scanPath(d []byte, i int, pd *PosDoc) (TokenType, int, error) {
	n := len(d)
	j := i
	if d[j] == '~' {
		j++
	}
	for j < n && (isPathChar(d[j]) || d[j] == '/') {
		j++
	}
	if j+1 < n && d[j] == '$' && d[j+1] == '{' {
		return 0, 0, unsupportedErr("path interpolation", pd.Pos(j))
	}
	return TPath, j - i, nil
}

func scanString(d []byte, i int, pd *PosDoc) (TokenType, int, error) {
	n := len(d)
	j := i + 1
	for j < n {
		switch d[j] {
		case '\\':
			j += 2
			continue
		case '"':
			return TString, j + 1 - i, nil
		case '$':
			if j+1 < n && d[j+1] == '{' {
				return 0, 0, unsupportedErr("string interpolation", pd.Pos(j))
			}
		}
		j++
	}
	return 0, 0, unterminatedErr("string", pd.Pos(i))
}

func scanIndString(d []byte, i int, pd *PosDoc) (TokenType, int, error) {
	n := len(d)
	j := i + 2
	for j < n {
		if d[j] == '\'' && j+1 < n && d[j+1] == '\'' {
			if j+2 < n && (d[j+2] == '\'' || d[j+2] == '$') {
				j += 3
				continue
			}
			if j+2 < n && d[j+2] == '\\' {
				j += 4
				continue
			}
			return TIndString, j + 2 - i, nil
		}
		if d[j] == '$' && j+1 < n && d[j+1] == '{' {
			return 0, 0, unsupportedErr("string interpolation", pd.Pos(j))
		}
		j++
	}
	return 0, 0, unterminatedErr("indented string", pd.Pos(i))
}

func scanNumber(d []byte, i int, pd *PosDoc) (TokenType, int, error) {
	n := len(d)
	j := i
	tt := TInteger
	for j < n && isDigit(d[j]) {
		j++
	}
	if j+1 < n && d[j] == '.' && isDigit(d[j+1]) {
		tt = TFloat
		j++
		for j < n && isDigit(d[j]) {
			j++
		}
		if j < n && (d[j] == 'e' || d[j] == 'E') {
			k := j + 1
			if k < n && (d[k] == '+' || d[k] == '-') {
				k++
			}
			if k < n && isDigit(d[k]) {
				j = k
				for j < n && isDigit(d[j]) {
					j++
				}
			}
		}
	}
	if j < n && isIdentStart(d[j]) {
		return 0, 0, NewTokenizeErr(ErrNumber, pd.Pos(j))
	}
	return tt, j - i, nil
}

func scanIdent(d []byte, i int) (TokenType, int, error) {
	n := len(d)
	j := i + 1
	for j < n && isIdentChar(d[j]) {
		j++
	}
	if j+1 < n && d[j] == ':' && isURIChar(d[j+1]) && isScheme(d[i:j]) {
		k := j + 1
		for k < n && isURIChar(d[k]) {
			k++
		}
		return TURI, k - i, nil
	}
	if IsKeyword(string(d[i:j])) {
		return TKeyword, j - i, nil
	}
	return TIdent, j - i, nil
}

func isScheme(d []byte) bool {
	if len(d) == 0 || d[0] == '_' {
		return false
	}
	for _, c := range d {
		if !isSchemeChar(c) {
			return false
		}
	}
	return true
}

var twoCharOps = []string{"->", "++", "//", "&&", "||", "==", "!=", "<=", ">="}

func scanPunct(d []byte, i int, pd *PosDoc) (TokenType, int, error) {
	for _, op := range twoCharOps {
		if bytes.HasPrefix(d[i:], []byte(op)) {
			return TOp, 2, nil
		}
	}
	switch d[i] {
	case '{':
		return TLCurl, 1, nil
	case '}':
		return TRCurl, 1, nil
	case '[':
		return TLSquare, 1, nil
	case ']':
		return TRSquare, 1, nil
	case '(':
		return TLParen, 1, nil
	case ')':
		return TRParen, 1, nil
	case '=':
		return TAssign, 1, nil
	case ';':
		return TSemicolon, 1, nil
	case ':':
		return TColon, 1, nil
	case ',':
		return TComma, 1, nil
	case '@':
		return TAt, 1, nil
	case '?':
		return TQuestion, 1, nil
	case '.':
		if bytes.HasPrefix(d[i:], []byte("...")) {
			return TEllipsis, 3, nil
		}
		return TDot, 1, nil
	case '+', '-', '*', '/', '<', '>', '!':
		return TOp, 1, nil
	}
	r, _ := utf8.DecodeRune(d[i:])
	return 0, 0, UnexpectedErr(string(r), pd.Pos(i))
}
