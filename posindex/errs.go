package posindex

import (
	"errors"
	"fmt"
)

var (
	ErrOverlap      = errors.New("overlapping ranges")
	ErrInvalidRange = errors.New("invalid range")
)

// OverlapErr reports an insertion whose range partially overlaps, or
// duplicates, an existing range.
type OverlapErr struct {
	New, Existing Range
}

func (e *OverlapErr) Unwrap() error {
	return ErrOverlap
}

func (e *OverlapErr) Error() string {
	if e.New == e.Existing {
		return fmt.Sprintf("%s: duplicate range %s", ErrOverlap, e.New)
	}
	return fmt.Sprintf("%s: %s partially overlaps %s", ErrOverlap, e.New, e.Existing)
}
