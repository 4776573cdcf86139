package token

import "strings"

// CommentText returns the content of a comment with its markers removed.
//
// For line comments the '#' and a single following space are dropped.  For
// block comments each line is trimmed, a leading '*' decoration is
// dropped and blank leading and trailing lines are removed.
func CommentText(d []byte) string {
	s := string(d)
	if strings.HasPrefix(s, "#") {
		s = strings.TrimPrefix(s[1:], " ")
		return strings.TrimRight(s, " \t\r")
	}
	if !strings.HasPrefix(s, "/*") {
		return s
	}
	s = strings.TrimSuffix(s[2:], "*/")
	lines := strings.Split(s, "\n")
	res := make([]string, 0, len(lines))
	for _, ln := range lines {
		ln = strings.TrimSpace(ln)
		if strings.HasPrefix(ln, "*") {
			ln = strings.TrimSpace(ln[1:])
		}
		res = append(res, ln)
	}
	for len(res) > 0 && res[0] == "" {
		res = res[1:]
	}
	for len(res) > 0 && res[len(res)-1] == "" {
		res = res[:len(res)-1]
	}
	return strings.Join(res, "\n")
}
