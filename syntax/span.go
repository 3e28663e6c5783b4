// Package syntax holds source location types shared by the lexer and parser.
package syntax

import "fmt"

// Span represents a location range in source code. Lines are 1-indexed,
// columns are 0-indexed at line start, offsets are byte offsets into the
// source. A span's end is never lexically before its start.
type Span struct {
	StartLine   uint16
	StartCol    uint16
	StartOffset uint32
	EndLine     uint16
	EndCol      uint16
	EndOffset   uint32
}

// Expand returns a copy of s whose end is moved to the end of other.
func (s Span) Expand(other Span) Span {
	s.EndLine = other.EndLine
	s.EndCol = other.EndCol
	s.EndOffset = other.EndOffset
	return s
}

// Contains reports whether other lies fully within s.
func (s Span) Contains(other Span) bool {
	return other.StartOffset >= s.StartOffset && other.EndOffset <= s.EndOffset
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", s.StartLine, s.StartCol, s.EndLine, s.EndCol)
}
