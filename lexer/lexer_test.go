package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenize(t *testing.T, source string, inExpr bool) []Token {
	t.Helper()
	lex := New(source, inExpr)
	var rv []Token
	for {
		tok, err := lex.Next()
		require.NoError(t, err)
		if tok == nil {
			return rv
		}
		rv = append(rv, *tok)
	}
}

func types(tokens []Token) []TokenType {
	rv := make([]TokenType, 0, len(tokens))
	for _, tok := range tokens {
		rv = append(rv, tok.Type)
	}
	return rv
}

func TestTokenizeTemplate(t *testing.T) {
	tokens := tokenize(t, "Hello {{ name }}!", false)

	require.Equal(t, []TokenType{
		TokenTemplateData,
		TokenVariableStart,
		TokenIdent,
		TokenVariableEnd,
		TokenTemplateData,
	}, types(tokens))

	assert.Equal(t, "Hello ", tokens[0].Value)
	assert.Equal(t, "name", tokens[2].Value)
	assert.Equal(t, "!", tokens[4].Value)
}

func TestTokenizeBlock(t *testing.T) {
	tokens := tokenize(t, "{% if x %}y{% endif %}", false)

	require.Equal(t, []TokenType{
		TokenBlockStart,
		TokenIdent,
		TokenIdent,
		TokenBlockEnd,
		TokenTemplateData,
		TokenBlockStart,
		TokenIdent,
		TokenBlockEnd,
	}, types(tokens))

	assert.Equal(t, "if", tokens[1].Value)
	assert.Equal(t, "endif", tokens[6].Value)
}

func TestTrailingNewlineStripped(t *testing.T) {
	tokens := tokenize(t, "Hello\n", false)
	require.Len(t, tokens, 1)
	assert.Equal(t, "Hello", tokens[0].Value)

	// Only one trailing newline is removed.
	tokens = tokenize(t, "Hello\n\n", false)
	require.Len(t, tokens, 1)
	assert.Equal(t, "Hello\n", tokens[0].Value)
}

func TestComments(t *testing.T) {
	tokens := tokenize(t, "a{# a comment #}b", false)

	require.Equal(t, []TokenType{TokenTemplateData, TokenTemplateData}, types(tokens))
	assert.Equal(t, "a", tokens[0].Value)
	assert.Equal(t, "b", tokens[1].Value)
}

func TestUnclosedComment(t *testing.T) {
	lex := New("a{# never closed", false)

	tok, err := lex.Next()
	require.NoError(t, err)
	assert.Equal(t, TokenTemplateData, tok.Type)

	_, err = lex.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected end of comment")
}

func TestWhitespaceTrim(t *testing.T) {
	tokens := tokenize(t, "Hello   {{- name -}}   world", false)

	require.Equal(t, []TokenType{
		TokenTemplateData,
		TokenVariableStart,
		TokenIdent,
		TokenVariableEnd,
		TokenTemplateData,
	}, types(tokens))

	assert.Equal(t, "Hello", tokens[0].Value)
	assert.Equal(t, "world", tokens[4].Value)
}

func TestCommentTrim(t *testing.T) {
	tokens := tokenize(t, "a{# note -#}   b", false)

	require.Equal(t, []TokenType{TokenTemplateData, TokenTemplateData}, types(tokens))
	assert.Equal(t, "b", tokens[1].Value)
}

func TestTokenizeExpr(t *testing.T) {
	tokens := tokenize(t, "1 + 2.5 * name", true)

	require.Equal(t, []TokenType{
		TokenInt,
		TokenPlus,
		TokenFloat,
		TokenMul,
		TokenIdent,
	}, types(tokens))

	assert.Equal(t, "1", tokens[0].Value)
	assert.Equal(t, "2.5", tokens[2].Value)
	assert.Equal(t, "name", tokens[4].Value)
}

func TestTwoCharOperators(t *testing.T) {
	tokens := tokenize(t, "** // == != <= >=", true)

	require.Equal(t, []TokenType{
		TokenPow,
		TokenFloorDiv,
		TokenEq,
		TokenNe,
		TokenLe,
		TokenGe,
	}, types(tokens))
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		source string
		typ    TokenType
	}{
		{"42", TokenInt},
		{"42.5", TokenFloat},
		{"1e3", TokenFloat},
		{"1E3", TokenFloat},
		{"1.5e-2", TokenFloat},
		{"1e+10", TokenFloat},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			tokens := tokenize(t, tt.source, true)
			require.Len(t, tokens, 1)
			assert.Equal(t, tt.typ, tokens[0].Type)
			assert.Equal(t, tt.source, tokens[0].Value)
		})
	}
}

func TestDotAfterIntIsAttribute(t *testing.T) {
	// 1.x is subscript syntax, not a malformed float.
	tokens := tokenize(t, "1.x", true)
	require.Equal(t, []TokenType{TokenInt, TokenDot, TokenIdent}, types(tokens))
}

func TestStrings(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{`"hello"`, "hello"},
		{`'hello'`, "hello"},
		{`"he said \"hi\""`, `he said "hi"`},
		{`"line\nbreak"`, "line\nbreak"},
		{`"tab\there"`, "tab\there"},
		{`"back\\slash"`, `back\slash`},
		{`"unknown \q escape"`, `unknown \q escape`},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			tokens := tokenize(t, tt.source, true)
			require.Len(t, tokens, 1)
			assert.Equal(t, TokenString, tokens[0].Type)
			assert.Equal(t, tt.want, tokens[0].Value)
		})
	}
}

func TestUnterminatedString(t *testing.T) {
	lex := New(`"never closed`, true)
	_, err := lex.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected end of string")
}

func TestUnexpectedCharacter(t *testing.T) {
	lex := New("@", true)
	_, err := lex.Next()
	require.Error(t, err)

	lexErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Contains(t, lexErr.Detail, "unexpected character")
	assert.Equal(t, uint16(1), lexErr.Span.StartLine)
}

func TestBracesInsideVariableTag(t *testing.T) {
	// A closing brace of a map literal must not terminate the tag even
	// when it is immediately followed by }}.
	tokens := tokenize(t, "{{ {'a': 1}}}", false)

	require.Equal(t, []TokenType{
		TokenVariableStart,
		TokenBraceOpen,
		TokenString,
		TokenColon,
		TokenInt,
		TokenBraceClose,
		TokenVariableEnd,
	}, types(tokens))
}

func TestSpans(t *testing.T) {
	tokens := tokenize(t, "ab {{ cd }}", false)

	data := tokens[0]
	assert.Equal(t, uint16(1), data.Span.StartLine)
	assert.Equal(t, uint16(0), data.Span.StartCol)
	assert.Equal(t, uint32(0), data.Span.StartOffset)
	assert.Equal(t, uint32(3), data.Span.EndOffset)

	ident := tokens[2]
	assert.Equal(t, "cd", ident.Value)
	assert.Equal(t, uint32(6), ident.Span.StartOffset)
	assert.Equal(t, uint32(8), ident.Span.EndOffset)
	assert.Equal(t, uint16(6), ident.Span.StartCol)
}

func TestMultilineSpans(t *testing.T) {
	tokens := tokenize(t, "a\nb\n{{ x }}", false)

	require.Equal(t, []TokenType{
		TokenTemplateData,
		TokenVariableStart,
		TokenIdent,
		TokenVariableEnd,
	}, types(tokens))

	ident := tokens[2]
	assert.Equal(t, uint16(3), ident.Span.StartLine)
	assert.Equal(t, uint16(3), ident.Span.StartCol)
}
