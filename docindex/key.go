package docindex

import (
	"cmp"
	"strings"
)

// FileKey identifies a file at a revision.  A nil Revision stands for the
// working copy and sorts before every revision.
type FileKey struct {
	Revision *string
	FilePath string
}

func NewFileKey(filePath string, revision *string) FileKey {
	if revision != nil {
		r := *revision
		revision = &r
	}
	return FileKey{Revision: revision, FilePath: filePath}
}

func (k FileKey) Compare(o FileKey) int {
	switch {
	case k.Revision == nil && o.Revision != nil:
		return -1
	case k.Revision != nil && o.Revision == nil:
		return 1
	case k.Revision != nil:
		if c := strings.Compare(*k.Revision, *o.Revision); c != 0 {
			return c
		}
	}
	return cmp.Compare(k.FilePath, o.FilePath)
}

func (k FileKey) String() string {
	if k.Revision == nil {
		return k.FilePath
	}
	return *k.Revision + ":" + k.FilePath
}

// mapKey is the comparable form of a FileKey.
type mapKey struct {
	hasRev bool
	rev    string
	path   string
}

func (k FileKey) mapKey() mapKey {
	if k.Revision == nil {
		return mapKey{path: k.FilePath}
	}
	return mapKey{hasRev: true, rev: *k.Revision, path: k.FilePath}
}
