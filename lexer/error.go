package lexer

import "fmt"

// Error is a lex-level syntax error. It carries the position at which
// tokenization failed so the parser can propagate it verbatim.
type Error struct {
	Detail string
	Span   Span
}

func (e *Error) Error() string {
	return fmt.Sprintf("syntax error: %s (line %d)", e.Detail, e.Span.StartLine)
}
