// Package posindex provides an index of values keyed by possibly nested
// source ranges.
//
// [Index] stores a forest of entries.  Each entry owns a [Range], a value
// and the entries whose ranges nest strictly inside its own.  Ranges at the
// same level never partially overlap: inserting a range that straddles the
// boundary of an existing one fails with [ErrOverlap].
//
// A point query returns the value of the innermost range containing the
// point.  Ranges are half open, so a point on the boundary shared by two
// adjacent ranges belongs to the later one.
//
// Each level is kept sorted by range end, ties broken by reverse range
// start, so both insertion and lookup binary search their way down the
// nesting levels.
package posindex
