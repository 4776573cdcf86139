package correlate

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/leeola/tanc/docpath"
	"github.com/leeola/tanc/parse"
	"github.com/leeola/tanc/posindex"
	"github.com/leeola/tanc/token"
)

// Entry is a documented declaration.
type Entry struct {
	Path  docpath.Path
	Range posindex.Range
	Text  string
}

type Result struct {
	// Entries are in source order of declaration start.
	Entries []Entry
	// Decls counts every declaration, documented or not.
	Decls int
}

type walker struct {
	src       []byte
	line      uint32
	lineStart int
	seen      map[string]bool
	res       *Result
}

// Walk correlates the comments of root, parsed from src, with the
// declarations they precede.
func Walk(root *parse.Node, src []byte) (*Result, error) {
	w := &walker{
		src:  src,
		seen: map[string]bool{},
		res:  &Result{},
	}
	if root.Kind != parse.NRoot {
		return nil, unsupported(root)
	}
	var buf []string
	for _, c := range root.Children {
		if c.Token != nil {
			w.token(c.Token, &buf)
			continue
		}
		if err := w.value(c.Node, nil, &buf); err != nil {
			return nil, err
		}
	}
	return w.res, nil
}

// pos returns the position of byte offset off, which must lie on the
// cursor's line.
func (w *walker) pos(off int) posindex.Position {
	return posindex.Position{Line: w.line, Character: w.col(w.lineStart, off)}
}

// ahead returns the position of off, at or after the cursor, leaving the
// cursor in place.
func (w *walker) ahead(off int) posindex.Position {
	line, ls := w.line, w.lineStart
	for i := w.lineStart; i < off; i++ {
		if w.src[i] == '\n' {
			line++
			ls = i + 1
		}
	}
	return posindex.Position{Line: line, Character: w.col(ls, off)}
}

func (w *walker) col(ls, off int) uint32 {
	var n int
	for _, r := range string(w.src[ls:off]) {
		n += utf16.RuneLen(r)
	}
	return uint32(n)
}

// token consumes t: comments go to buf and newlines move the cursor.
func (w *walker) token(t *token.Token, buf *[]string) {
	if t.Type == token.TComment {
		*buf = append(*buf, token.CommentText(t.Bytes))
	}
	for i, c := range t.Bytes {
		if c == '\n' {
			w.line++
			w.lineStart = t.Offset() + i + 1
		}
	}
}

// skip consumes every token below n without interpreting it.  Comments
// go to buf.
func (w *walker) skip(n *parse.Node, buf *[]string) {
	n.Tokens(func(t *token.Token) bool {
		w.token(t, buf)
		return true
	})
}

// take empties buf, returning whether it held anything and the joined
// text.
func take(buf *[]string) (string, bool) {
	if len(*buf) == 0 {
		return "", false
	}
	s := strings.Join(*buf, "\n")
	*buf = nil
	return s, true
}

func (w *walker) declare(p docpath.Path, r posindex.Range, buf *[]string, at *token.Token) error {
	k := p.String()
	if w.seen[k] {
		return fmt.Errorf("%w %s at %s", ErrDuplicatePath, k, at.Pos)
	}
	w.seen[k] = true
	w.res.Decls++
	if text, ok := take(buf); ok {
		w.res.Entries = append(w.res.Entries, Entry{Path: p, Range: r, Text: text})
	}
	return nil
}

// value walks an expression in position path.  Comments in buf precede
// the expression.
func (w *walker) value(n *parse.Node, path docpath.Path, buf *[]string) error {
	switch n.Kind {
	case parse.NAttrSet:
		return w.attrSet(n, path, buf)
	case parse.NList:
		return w.list(n, path, buf)
	case parse.NParen:
		for _, c := range n.Children {
			if c.Token != nil {
				w.token(c.Token, buf)
				continue
			}
			if err := w.value(c.Node, path, buf); err != nil {
				return err
			}
		}
		return nil
	case parse.NIdent, parse.NString, parse.NLiteral, parse.NSelect:
		w.skip(n, buf)
		return nil
	default:
		return unsupported(n)
	}
}

func (w *walker) attrSet(n *parse.Node, path docpath.Path, buf *[]string) error {
	first, last := n.FirstToken(), n.LastToken()
	r := posindex.Range{Start: w.pos(first.Offset()), End: w.ahead(last.End())}
	path = path.Child(docpath.AttrSetSeg())
	if err := w.declare(path, r, buf, first); err != nil {
		return err
	}
	var inner []string
	for _, c := range n.Children {
		if c.Token != nil {
			w.token(c.Token, &inner)
			continue
		}
		var err error
		switch c.Node.Kind {
		case parse.NBinding:
			err = w.binding(c.Node, path, &inner)
		case parse.NInherit:
			err = w.inherit(c.Node, path, &inner)
		default:
			err = unsupported(c.Node)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// binding declares the path of its attrpath, `a.b = v;` declaring
// path.a.b.  Comments between the '=' and an attribute set value document
// the set.
func (w *walker) binding(n *parse.Node, path docpath.Path, buf *[]string) error {
	first, last := n.FirstToken(), n.LastToken()
	r := posindex.Range{Start: w.pos(first.Offset()), End: w.ahead(last.End())}
	var inner []string
	for i, c := range n.Children {
		if c.Token != nil {
			w.token(c.Token, &inner)
			continue
		}
		if i == 0 {
			if c.Node.Kind != parse.NAttrPath {
				return unsupported(c.Node)
			}
			for _, a := range c.Node.Nodes() {
				seg, err := attrSeg(a)
				if err != nil {
					return err
				}
				path = path.Child(seg)
			}
			if err := w.declare(path, r, buf, first); err != nil {
				return err
			}
			w.skip(c.Node, &inner)
			continue
		}
		if err := w.value(c.Node, path, &inner); err != nil {
			return err
		}
	}
	return nil
}

// inherit declares each inherited name with the range of its token.  The
// comments preceding the statement document every name.
func (w *walker) inherit(n *parse.Node, path docpath.Path, buf *[]string) error {
	text, ok := take(buf)
	var inner []string
	for _, c := range n.Children {
		if c.Token != nil {
			w.token(c.Token, &inner)
			continue
		}
		switch c.Node.Kind {
		case parse.NInheritFrom:
			for _, from := range c.Node.Nodes() {
				if k := from.Kind; k != parse.NIdent && k != parse.NSelect {
					return unsupported(from)
				}
			}
			w.skip(c.Node, &inner)
		case parse.NIdent, parse.NString:
			seg, err := attrSeg(c.Node)
			if err != nil {
				return err
			}
			t := c.Node.FirstToken()
			r := posindex.Range{Start: w.pos(t.Offset()), End: w.ahead(t.End())}
			var doc []string
			if ok {
				doc = []string{text}
			}
			if err := w.declare(path.Child(seg), r, &doc, t); err != nil {
				return err
			}
			w.skip(c.Node, &inner)
		default:
			return unsupported(c.Node)
		}
	}
	return nil
}

// list walks its elements in positions path[0], path[1], ...  Comments
// before an element document it when it is an attribute set.
func (w *walker) list(n *parse.Node, path docpath.Path, buf *[]string) error {
	*buf = nil
	var (
		inner []string
		i     int
	)
	for _, c := range n.Children {
		if c.Token != nil {
			w.token(c.Token, &inner)
			continue
		}
		if err := w.value(c.Node, path.Child(docpath.IndexSeg(i)), &inner); err != nil {
			return err
		}
		inner = nil
		i++
	}
	return nil
}

func attrSeg(n *parse.Node) (docpath.Segment, error) {
	t := n.FirstToken()
	switch {
	case n.Kind == parse.NIdent && t != nil:
		return docpath.IdentSeg(string(t.Bytes)), nil
	case n.Kind == parse.NString && t != nil && t.Type == token.TString:
		return docpath.IdentSeg(token.QuotedToString(t.Bytes)), nil
	}
	return docpath.Segment{}, unsupported(n)
}
