package parser

import "fmt"

// Error is a parse failure: an error kind, a human-readable detail and an
// optional source location. A Line of zero means the location has not been
// attached yet; the top-level drivers fill it in before returning, so
// callers always observe a located error.
type Error struct {
	Kind   string
	Detail string
	Name   string
	Line   uint16
}

func (e *Error) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("%s: %s (in %s:%d)", e.Kind, e.Detail, e.Name, e.Line)
}

// HasLocation reports whether a source location has been attached.
func (e *Error) HasLocation() bool {
	return e.Line != 0
}

func syntaxError(detail string) *Error {
	return &Error{Kind: "SyntaxError", Detail: detail}
}
