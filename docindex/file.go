package docindex

import (
	"fmt"

	"github.com/leeola/tanc/correlate"
	"github.com/leeola/tanc/docpath"
	"github.com/leeola/tanc/parse"
	"github.com/leeola/tanc/posindex"
)

// Entry is a documented declaration of a file.
type Entry struct {
	Path  docpath.Path
	Range posindex.Range
	Doc   *Doc
}

type FileIndex struct {
	pos     *posindex.Index[*Entry]
	paths   map[string]*Entry
	entries []Entry
	decls   int
}

// NewFileIndex parses src and indexes its documented declarations.
func NewFileIndex(src []byte, options ...Option) (*FileIndex, error) {
	return newFileIndex(src, buildOpts(options))
}

func newFileIndex(src []byte, o *opts) (*FileIndex, error) {
	root, err := parse.Parse(src, o.parseOpts...)
	if err != nil {
		return nil, err
	}
	res, err := correlate.Walk(root, src)
	if err != nil {
		return nil, err
	}
	f := &FileIndex{
		pos:     posindex.New[*Entry](),
		paths:   make(map[string]*Entry, len(res.Entries)),
		entries: make([]Entry, len(res.Entries)),
		decls:   res.Decls,
	}
	for i, ce := range res.Entries {
		text := ce.Text
		e := &f.entries[i]
		*e = Entry{Path: ce.Path, Range: ce.Range, Doc: &Doc{Text: &text}}
		if err := f.pos.Insert(e.Range, e); err != nil {
			return nil, fmt.Errorf("%s: %w", e.Path, err)
		}
		f.paths[e.Path.String()] = e
	}
	return f, nil
}

// DocAt returns the documentation of the innermost documented
// declaration containing p, or nil.
func (f *FileIndex) DocAt(p posindex.Position) *Doc {
	if e := f.EntryAt(p); e != nil {
		return e.Doc
	}
	return nil
}

// EntryAt returns the innermost documented declaration containing p, or
// nil.
func (f *FileIndex) EntryAt(p posindex.Position) *Entry {
	e, _ := f.pos.Get(p)
	return e
}

// DocAtPath returns the documentation of the declaration at p, or nil.
func (f *FileIndex) DocAtPath(p docpath.Path) *Doc {
	if e := f.paths[p.String()]; e != nil {
		return e.Doc
	}
	return nil
}

// Entries returns the documented declarations in source order.  The
// result must not be modified.
func (f *FileIndex) Entries() []Entry {
	return f.entries
}

// Decls returns the number of declarations in the file, documented or
// not.
func (f *FileIndex) Decls() int {
	return f.decls
}
