package glyphs

import (
	"fmt"

	"github.com/npillmayer/typecase/core"
)

// CharIndex is the position of a character (code-point) within a text.
// It is not a byte offset.
type CharIndex int

// Range is a half-open range of characters [Begin, Begin+Length).
type Range struct {
	Begin  CharIndex
	Length int
}

// NewRange creates a range with a given start and length.
func NewRange(begin CharIndex, length int) Range {
	return Range{Begin: begin, Length: length}
}

// RangeTo creates a range [begin, end).
func RangeTo(begin, end CharIndex) Range {
	return Range{Begin: begin, Length: int(end - begin)}
}

// End returns the first character index after r.
func (r Range) End() CharIndex {
	return r.Begin + CharIndex(r.Length)
}

// IsEmpty is true for ranges without characters.
func (r Range) IsEmpty() bool {
	return r.Length <= 0
}

// Contains is true if r covers character i.
func (r Range) Contains(i CharIndex) bool {
	return i >= r.Begin && i < r.End()
}

// Intersect returns the overlap of r and other. If they do not overlap, an
// empty range positioned at r.Begin is returned.
func (r Range) Intersect(other Range) Range {
	b, e := r.Begin, r.End()
	if other.Begin > b {
		b = other.Begin
	}
	if other.End() < e {
		e = other.End()
	}
	if e <= b {
		return Range{Begin: r.Begin}
	}
	return RangeTo(b, e)
}

// Shift moves a range by delta characters.
func (r Range) Shift(delta int) Range {
	return Range{Begin: r.Begin + CharIndex(delta), Length: r.Length}
}

// Valid returns true if r lies within a text of n characters.
func (r Range) Valid(n int) bool {
	return r.Begin >= 0 && r.Length >= 0 && int(r.End()) <= n
}

// Check panics if r does not lie within a text of n characters.
func (r Range) Check(n int) {
	core.Precondition(r.Valid(n), "invalid range %v for text of %d characters", r, n)
}

func (r Range) String() string {
	return fmt.Sprintf("[%d..%d)", r.Begin, r.End())
}
