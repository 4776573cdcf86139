package posindex

import "fmt"

// Position is a zero based (line, character) point.  Character counts
// UTF-16 code units from the start of the line.
type Position struct {
	Line      uint32
	Character uint32
}

func (p Position) Compare(o Position) int {
	switch {
	case p.Line < o.Line:
		return -1
	case p.Line > o.Line:
		return 1
	case p.Character < o.Character:
		return -1
	case p.Character > o.Character:
		return 1
	}
	return 0
}

func (p Position) Less(o Position) bool {
	return p.Compare(o) < 0
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// Range is the half open span [Start, End).
type Range struct {
	Start Position
	End   Position
}

// Empty reports whether r contains no points.
func (r Range) Empty() bool {
	return !r.Start.Less(r.End)
}

// Contains reports whether Start <= p < End.
func (r Range) Contains(p Position) bool {
	return !p.Less(r.Start) && p.Less(r.End)
}

// Covers reports whether o lies within r.  Equal ranges cover each other.
func (r Range) Covers(o Range) bool {
	return !o.Start.Less(r.Start) && !r.End.Less(o.End)
}

// Disjoint reports whether r and o share no point.
func (r Range) Disjoint(o Range) bool {
	return !o.Start.Less(r.End) || !r.Start.Less(o.End)
}

func (r Range) String() string {
	return fmt.Sprintf("[%s, %s)", r.Start, r.End)
}

// keyLess orders ranges by end, then by reverse start.  Among ranges
// sharing an end the widest comes first.
func keyLess(a, b Range) bool {
	if c := a.End.Compare(b.End); c != 0 {
		return c < 0
	}
	return b.Start.Less(a.Start)
}
