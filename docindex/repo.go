package docindex

import (
	"context"
	"maps"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/leeola/tanc/docpath"
	"github.com/leeola/tanc/posindex"
)

// RepositoryIndex maps file keys to file indices.  It is safe for
// concurrent use.
type RepositoryIndex struct {
	mu   sync.Mutex // serialises writers
	snap atomic.Pointer[snapshot]
	opts *opts
}

// snapshot is never modified once published.
type snapshot struct {
	files map[mapKey]*fileEntry
}

type fileEntry struct {
	key   FileKey
	index *FileIndex
}

func New(options ...Option) *RepositoryIndex {
	x := &RepositoryIndex{opts: buildOpts(options)}
	x.snap.Store(&snapshot{files: map[mapKey]*fileEntry{}})
	return x
}

// Insert indexes src as the content of filePath at revision, replacing
// any previous index for that key.  On error the previous index is kept.
func (x *RepositoryIndex) Insert(filePath string, revision *string, src []byte) error {
	key := NewFileKey(filePath, revision)
	f, err := newFileIndex(src, x.opts)
	if err != nil {
		x.opts.log.Debug("index failed", "file", key.String(), "error", err)
		return err
	}
	x.swap(func(files map[mapKey]*fileEntry) {
		files[key.mapKey()] = &fileEntry{key: key, index: f}
	})
	x.opts.log.Debug("indexed", "file", key.String(), "docs", len(f.entries), "decls", f.decls)
	return nil
}

// Source is the content of one file at a revision.
type Source struct {
	FilePath string
	Revision *string
	Src      []byte
}

// InsertAll indexes srcs concurrently.  Either every source is indexed
// and swapped in together, or none is and the first error is returned.
func (x *RepositoryIndex) InsertAll(ctx context.Context, srcs []Source) error {
	res := make([]*FileIndex, len(srcs))
	g, ctx := errgroup.WithContext(ctx)
	n := x.opts.workers
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(n)
	for i := range srcs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := newFileIndex(srcs[i].Src, x.opts)
			if err != nil {
				return &FileErr{Key: NewFileKey(srcs[i].FilePath, srcs[i].Revision), Err: err}
			}
			res[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		x.opts.log.Debug("index failed", "error", err)
		return err
	}
	x.swap(func(files map[mapKey]*fileEntry) {
		for i := range srcs {
			key := NewFileKey(srcs[i].FilePath, srcs[i].Revision)
			files[key.mapKey()] = &fileEntry{key: key, index: res[i]}
		}
	})
	x.opts.log.Debug("indexed", "files", len(srcs))
	return nil
}

// Remove drops the index of a file, reporting whether there was one.
func (x *RepositoryIndex) Remove(filePath string, revision *string) bool {
	mk := NewFileKey(filePath, revision).mapKey()
	if _, ok := x.snap.Load().files[mk]; !ok {
		return false
	}
	var found bool
	x.swap(func(files map[mapKey]*fileEntry) {
		_, found = files[mk]
		delete(files, mk)
	})
	return found
}

// swap publishes a modified copy of the current snapshot.
func (x *RepositoryIndex) swap(f func(map[mapKey]*fileEntry)) {
	x.mu.Lock()
	defer x.mu.Unlock()
	files := maps.Clone(x.snap.Load().files)
	f(files)
	x.snap.Store(&snapshot{files: files})
}

// File returns the index of a file, or nil.
func (x *RepositoryIndex) File(filePath string, revision *string) *FileIndex {
	e := x.snap.Load().files[NewFileKey(filePath, revision).mapKey()]
	if e == nil {
		return nil
	}
	return e.index
}

// DocAt returns the documentation at p in a file, or nil if there is
// none or the file is not indexed.
func (x *RepositoryIndex) DocAt(filePath string, revision *string, p posindex.Position) *Doc {
	f := x.File(filePath, revision)
	if f == nil {
		return nil
	}
	return f.DocAt(p)
}

// DocAtPath returns the documentation of the declaration at p in a file,
// or nil.
func (x *RepositoryIndex) DocAtPath(filePath string, revision *string, p docpath.Path) *Doc {
	f := x.File(filePath, revision)
	if f == nil {
		return nil
	}
	return f.DocAtPath(p)
}

// Keys returns the indexed file keys in order.
func (x *RepositoryIndex) Keys() []FileKey {
	files := x.snap.Load().files
	res := make([]FileKey, 0, len(files))
	for _, e := range files {
		res = append(res, e.key)
	}
	slices.SortFunc(res, FileKey.Compare)
	return res
}
