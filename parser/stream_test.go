package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youguanxinqing/minijinja/lexer"
)

func TestStreamPeekDoesNotConsume(t *testing.T) {
	s := newTokenStream("1 + 2", true)

	first, err := s.current()
	require.Nil(t, err)
	require.NotNil(t, first)
	assert.Equal(t, lexer.TokenInt, first.Type)

	again, err := s.current()
	require.Nil(t, err)
	assert.Same(t, first, again)

	consumed, err := s.next()
	require.Nil(t, err)
	assert.Same(t, first, consumed)

	op, err := s.current()
	require.Nil(t, err)
	assert.Equal(t, lexer.TokenPlus, op.Type)
}

func TestStreamEndOfInput(t *testing.T) {
	s := newTokenStream("x", true)

	tok, err := s.next()
	require.Nil(t, err)
	require.NotNil(t, tok)

	tok, err = s.next()
	require.Nil(t, err)
	assert.Nil(t, tok)

	tok, err = s.current()
	require.Nil(t, err)
	assert.Nil(t, tok)
}

func TestStreamExpandSpan(t *testing.T) {
	s := newTokenStream("foo bar baz", true)

	start := s.currentSpan()
	s.next()
	s.next()
	s.next()

	span := s.expandSpan(start)
	assert.Equal(t, uint32(0), span.StartOffset)
	assert.Equal(t, uint32(11), span.EndOffset)
}

func TestStreamLexerErrorOnPeek(t *testing.T) {
	s := newTokenStream("a @", true)

	tok, err := s.next()
	require.Nil(t, err)
	require.NotNil(t, tok)

	// The failure must surface on peek, not get mistaken for end of
	// input.
	_, err = s.current()
	require.NotNil(t, err)
	assert.Equal(t, "SyntaxError", err.Kind)
	assert.Contains(t, err.Detail, "unexpected character")
	assert.Equal(t, uint16(1), err.Line)
}
