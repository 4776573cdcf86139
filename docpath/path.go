// Package docpath names declarations by their place in the nesting of
// attribute sets, independently of source positions.
//
// The string form of a path concatenates its segments:
//
//	{}          an anonymous attribute set
//	.name       a named member; quoted when name is not an identifier
//	[n]         the n'th element of a list
//
// so that `{}.services{}.nginx` names the binding nginx inside the set
// bound to services in the root set.
package docpath

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/leeola/tanc/token"
)

var ErrBadPath = errors.New("bad path")

type Kind int

const (
	AttrSet Kind = iota
	Ident
	Index
)

func (k Kind) String() string {
	switch k {
	case AttrSet:
		return "AttrSet"
	case Ident:
		return "Ident"
	case Index:
		return "Index"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

type Segment struct {
	Kind  Kind
	Name  string
	Index int
}

func AttrSetSeg() Segment {
	return Segment{Kind: AttrSet}
}

func IdentSeg(name string) Segment {
	return Segment{Kind: Ident, Name: name}
}

func IndexSeg(i int) Segment {
	return Segment{Kind: Index, Index: i}
}

func (s Segment) Compare(o Segment) int {
	if c := cmp.Compare(s.Kind, o.Kind); c != 0 {
		return c
	}
	switch s.Kind {
	case Ident:
		return strings.Compare(s.Name, o.Name)
	case Index:
		return cmp.Compare(s.Index, o.Index)
	}
	return 0
}

func (s Segment) String() string {
	switch s.Kind {
	case AttrSet:
		return "{}"
	case Ident:
		if token.IsIdent(s.Name) {
			return "." + s.Name
		}
		return "." + strconv.Quote(s.Name)
	case Index:
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	return "?"
}

type Path []Segment

func (p Path) Equal(o Path) bool {
	return slices.Equal(p, o)
}

// Compare orders paths segment by segment; a prefix sorts first.
func (p Path) Compare(o Path) int {
	return slices.CompareFunc(p, o, Segment.Compare)
}

// Child returns a new path extending p by s.  p is not modified.
func (p Path) Child(s Segment) Path {
	res := make(Path, len(p), len(p)+1)
	copy(res, p)
	return append(res, s)
}

// Parent returns p without its last segment, or nil if p is empty.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1:len(p)-1]
}

func (p Path) Last() (Segment, bool) {
	if len(p) == 0 {
		return Segment{}, false
	}
	return p[len(p)-1], true
}

func (p Path) String() string {
	var sb strings.Builder
	for _, s := range p {
		sb.WriteString(s.String())
	}
	return sb.String()
}

func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Path) UnmarshalText(d []byte) error {
	q, err := Parse(string(d))
	if err != nil {
		return err
	}
	*p = q
	return nil
}

// Parse parses the string form of a path.  The empty string is the empty
// path.
func Parse(s string) (Path, error) {
	var res Path
	i := 0
	for i < len(s) {
		switch s[i] {
		case '{':
			if !strings.HasPrefix(s[i:], "{}") {
				return nil, fmt.Errorf("%w %q: unmatched '{' at %d", ErrBadPath, s, i)
			}
			res = append(res, AttrSetSeg())
			i += 2
		case '[':
			j := strings.IndexByte(s[i:], ']')
			if j == -1 {
				return nil, fmt.Errorf("%w %q: unmatched '[' at %d", ErrBadPath, s, i)
			}
			n, err := strconv.Atoi(s[i+1 : i+j])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w %q: bad index at %d", ErrBadPath, s, i)
			}
			res = append(res, IndexSeg(n))
			i += j + 1
		case '.':
			name, n, err := parseName(s[i+1:])
			if err != nil {
				return nil, fmt.Errorf("%w %q: %w at %d", ErrBadPath, s, err, i+1)
			}
			res = append(res, IdentSeg(name))
			i += 1 + n
		default:
			return nil, fmt.Errorf("%w %q: unexpected %q at %d", ErrBadPath, s, s[i], i)
		}
	}
	return res, nil
}

func parseName(s string) (string, int, error) {
	if strings.HasPrefix(s, `"`) {
		q, err := strconv.QuotedPrefix(s)
		if err != nil {
			return "", 0, err
		}
		name, _ := strconv.Unquote(q)
		return name, len(q), nil
	}
	n := strings.IndexAny(s, ".{[")
	if n == -1 {
		n = len(s)
	}
	if !token.IsIdent(s[:n]) {
		return "", 0, fmt.Errorf("bad identifier %q", s[:n])
	}
	return s[:n], n, nil
}
