package parser

import (
	"github.com/youguanxinqing/minijinja/lexer"
)

// tokenStream adapts the lazy lexer to the single-token lookahead the
// grammar needs. The slot is filled on first peek and reused until the
// token is consumed. There is exactly one cursor: the stream is not
// reentrant and must not be shared.
type tokenStream struct {
	lex      *lexer.Lexer
	buffered *lexer.Token
	pending  *Error
	filled   bool
	lastSpan Span
}

func newTokenStream(source string, inExpr bool) *tokenStream {
	return &tokenStream{lex: lexer.New(source, inExpr)}
}

func (s *tokenStream) fill() {
	if s.filled {
		return
	}
	tok, err := s.lex.Next()
	if err != nil {
		// Lexer failures propagate verbatim, keeping the lexer's own
		// location.
		if lexErr, ok := err.(*lexer.Error); ok {
			s.pending = &Error{
				Kind:   "SyntaxError",
				Detail: lexErr.Detail,
				Line:   lexErr.Span.StartLine,
			}
		} else {
			s.pending = syntaxError(err.Error())
		}
	}
	s.buffered = tok
	s.filled = true
}

// next consumes and returns the next token, or nil at end of input.
func (s *tokenStream) next() (*lexer.Token, *Error) {
	s.fill()
	if s.pending != nil {
		err := s.pending
		s.pending = nil
		s.filled = false
		return nil, err
	}
	tok := s.buffered
	s.buffered = nil
	s.filled = false
	if tok != nil {
		s.lastSpan = tok.Span
	}
	return tok, nil
}

// current returns the lookahead token without consuming it, or nil at end
// of input. A lexer failure surfaces here just as it would on next.
func (s *tokenStream) current() (*lexer.Token, *Error) {
	s.fill()
	if s.pending != nil {
		return nil, s.pending
	}
	return s.buffered, nil
}

// expandSpan returns a span covering start through the last consumed
// token.
func (s *tokenStream) expandSpan(start Span) Span {
	return start.Expand(s.lastSpan)
}

// currentSpan returns the span of the lookahead token if one is buffered,
// otherwise the span of the last consumed token. Productions use it for
// their start span and the drivers use it as the error-location fallback.
func (s *tokenStream) currentSpan() Span {
	if s.filled && s.buffered != nil {
		return s.buffered.Span
	}
	s.fill()
	if s.buffered != nil {
		return s.buffered.Span
	}
	return s.lastSpan
}
