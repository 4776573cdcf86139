package posindex

import (
	"fmt"
	"slices"
	"sort"
)

type Index[V any] struct {
	top level[V]
	n   int
}

type entry[V any] struct {
	rng      Range
	value    V
	children level[V]
}

// level holds sibling entries: pairwise disjoint and sorted by keyLess.
type level[V any] struct {
	D []*entry[V]
}

func New[V any]() *Index[V] {
	return &Index[V]{}
}

// Len returns the number of entries in x.
func (x *Index[V]) Len() int {
	return x.n
}

// Insert adds v under r.  The entry is placed below the tightest existing
// range strictly containing r; existing entries at that level which r
// strictly contains become its children.
func (x *Index[V]) Insert(r Range, v V) error {
	if r.Empty() {
		return fmt.Errorf("%w: %s", ErrInvalidRange, r)
	}
	l := &x.top
	for {
		e := l.container(r)
		if e == nil {
			break
		}
		if e.rng == r {
			return &OverlapErr{New: r, Existing: e.rng}
		}
		l = &e.children
	}
	if err := l.adopt(r, v); err != nil {
		return err
	}
	x.n++
	return nil
}

// Get returns the value of the innermost range containing p.
func (x *Index[V]) Get(p Position) (V, bool) {
	var (
		res   V
		found bool
	)
	l := &x.top
	for {
		e := l.find(p)
		if e == nil {
			return res, found
		}
		res, found = e.value, true
		l = &e.children
	}
}

// All calls f on every entry, parents before children and siblings in
// source order, until f returns false.
func (x *Index[V]) All(f func(Range, V) bool) bool {
	return x.top.all(f)
}

// container returns the entry of l covering r, if any.
func (l *level[V]) container(r Range) *entry[V] {
	i := sort.Search(len(l.D), func(i int) bool {
		return !keyLess(l.D[i].rng, r)
	})
	if i == len(l.D) {
		return nil
	}
	if e := l.D[i]; e.rng.Covers(r) {
		return e
	}
	return nil
}

// find returns the entry of l containing p, if any.
func (l *level[V]) find(p Position) *entry[V] {
	i := sort.Search(len(l.D), func(i int) bool {
		return p.Less(l.D[i].rng.End)
	})
	if i < len(l.D) && l.D[i].rng.Contains(p) {
		return l.D[i]
	}
	return nil
}

// adopt inserts r into l, which has no entry covering r.  Entries of l
// intersecting r must lie within r and are moved below the new entry.
func (l *level[V]) adopt(r Range, v V) error {
	lo := sort.Search(len(l.D), func(i int) bool {
		return r.Start.Less(l.D[i].rng.End)
	})
	hi := lo
	for hi < len(l.D) && l.D[hi].rng.Start.Less(r.End) {
		if !r.Covers(l.D[hi].rng) {
			return &OverlapErr{New: r, Existing: l.D[hi].rng}
		}
		hi++
	}
	e := &entry[V]{rng: r, value: v}
	e.children.D = slices.Clone(l.D[lo:hi])
	l.D = slices.Replace(l.D, lo, hi, e)
	return nil
}

func (l *level[V]) all(f func(Range, V) bool) bool {
	for _, e := range l.D {
		if !f(e.rng, e.value) {
			return false
		}
		if !e.children.all(f) {
			return false
		}
	}
	return true
}
