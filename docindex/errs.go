package docindex

import (
	"fmt"

	"github.com/leeola/tanc/correlate"
	"github.com/leeola/tanc/parse"
	"github.com/leeola/tanc/posindex"
)

// Errors callers may test for with errors.Is.
var (
	ErrParse             = parse.ErrParse
	ErrUnsupportedSyntax = correlate.ErrUnsupportedSyntax
	ErrDuplicatePath     = correlate.ErrDuplicatePath
	ErrOverlap           = posindex.ErrOverlap
)

// FileErr is an indexing failure of one file.
type FileErr struct {
	Key FileKey
	Err error
}

func (e *FileErr) Unwrap() error {
	return e.Err
}

func (e *FileErr) Error() string {
	return fmt.Sprintf("%s: %v", e.Key, e.Err)
}
