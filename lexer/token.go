// Package lexer provides lazy tokenization of template source.
package lexer

import (
	"fmt"

	"github.com/youguanxinqing/minijinja/syntax"
)

// TokenType represents the type of a token.
type TokenType int

const (
	// Template data (raw text between tags)
	TokenTemplateData TokenType = iota

	// Delimiters
	TokenVariableStart // {{
	TokenVariableEnd   // }}
	TokenBlockStart    // {%
	TokenBlockEnd      // %}

	// Literals
	TokenIdent  // identifier
	TokenString // "string" or 'string'
	TokenInt    // 123
	TokenFloat  // 123.45

	// Operators
	TokenPlus     // +
	TokenMinus    // -
	TokenMul      // *
	TokenDiv      // /
	TokenFloorDiv // //
	TokenMod      // %
	TokenPow      // **
	TokenTilde    // ~

	// Comparison
	TokenEq // ==
	TokenNe // !=
	TokenLt // <
	TokenLe // <=
	TokenGt // >
	TokenGe // >=

	// Assignment
	TokenAssign // =

	// Punctuation
	TokenDot          // .
	TokenComma        // ,
	TokenColon        // :
	TokenPipe         // |
	TokenParenOpen    // (
	TokenParenClose   // )
	TokenBracketOpen  // [
	TokenBracketClose // ]
	TokenBraceOpen    // {
	TokenBraceClose   // }
)

// Span represents a location range in source code.
type Span = syntax.Span

// Token is a single lexical unit with its source span. Tokens are
// immutable once produced; Value holds the decoded text for identifiers,
// strings, numbers and template data.
type Token struct {
	Type  TokenType
	Value string
	Span  Span
}

// String returns a debug representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Type, t.Value)
}

var tokenTypeNames = map[TokenType]string{
	TokenTemplateData:  "TemplateData",
	TokenVariableStart: "VariableStart",
	TokenVariableEnd:   "VariableEnd",
	TokenBlockStart:    "BlockStart",
	TokenBlockEnd:      "BlockEnd",
	TokenIdent:         "Ident",
	TokenString:        "Str",
	TokenInt:           "Int",
	TokenFloat:         "Float",
	TokenPlus:          "Plus",
	TokenMinus:         "Minus",
	TokenMul:           "Mul",
	TokenDiv:           "Div",
	TokenFloorDiv:      "FloorDiv",
	TokenMod:           "Mod",
	TokenPow:           "Pow",
	TokenTilde:         "Tilde",
	TokenEq:            "Eq",
	TokenNe:            "Ne",
	TokenLt:            "Lt",
	TokenLe:            "Le",
	TokenGt:            "Gt",
	TokenGe:            "Ge",
	TokenAssign:        "Assign",
	TokenDot:           "Dot",
	TokenComma:         "Comma",
	TokenColon:         "Colon",
	TokenPipe:          "Pipe",
	TokenParenOpen:     "ParenOpen",
	TokenParenClose:    "ParenClose",
	TokenBracketOpen:   "BracketOpen",
	TokenBracketClose:  "BracketClose",
	TokenBraceOpen:     "BraceOpen",
	TokenBraceClose:    "BraceClose",
}

func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", t)
}
