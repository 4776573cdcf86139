package token

var keywords = map[string]bool{
	"rec":     true,
	"let":     true,
	"in":      true,
	"inherit": true,
	"with":    true,
	"if":      true,
	"then":    true,
	"else":    true,
	"assert":  true,
}

// IsKeyword reports whether s is a reserved word.  "or" is not reserved:
// it is an identifier everywhere except after a selection.
func IsKeyword(s string) bool {
	return keywords[s]
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '\'' || c == '-'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isPathChar(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '.' || c == '-' || c == '+'
}

func isURIChar(c byte) bool {
	if isIdentStart(c) || isDigit(c) {
		return true
	}
	switch c {
	case '%', '/', '?', ':', '@', '&', '=', '+', '$', ',', '-', '.', '!', '~', '*', '\'':
		return true
	}
	return false
}

func isSchemeChar(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '+' || c == '-' || c == '.'
}

// IsIdent reports whether s can be written as a bare identifier.
func IsIdent(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentChar(s[i]) {
			return false
		}
	}
	return !IsKeyword(s)
}
