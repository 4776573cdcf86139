// Package docindex holds the documentation of source files, queryable by
// position and by [docpath.Path].
//
// A [FileIndex] is built once from the full text of one file and never
// changes.  A [RepositoryIndex] maps (revision, file path) keys to file
// indices.  Inserting a file replaces its previous index wholesale; if
// the new text fails to index the previous index stays in place.
//
// Readers of a RepositoryIndex see a consistent snapshot and never wait
// on writers.
package docindex

// Doc is the documentation of a declaration.
type Doc struct {
	Text *string
}

func (d *Doc) String() string {
	if d == nil || d.Text == nil {
		return ""
	}
	return *d.Text
}
