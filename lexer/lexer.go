package lexer

import (
	"fmt"
	"strings"
)

// Delimiters of the template syntax.
const (
	blockStart   = "{%"
	blockEnd     = "%}"
	varStart     = "{{"
	varEnd       = "}}"
	commentStart = "{#"
	commentEnd   = "#}"
)

type lexerState int

const (
	stateTemplate lexerState = iota
	stateVariable
	stateBlock
	stateExpr
)

type startMarker int

const (
	markerVariable startMarker = iota
	markerBlock
	markerComment
)

type pendingMarker struct {
	marker startMarker
	length int
}

// Lexer tokenizes template source code. Tokens are produced lazily, one
// Next call at a time; the Lexer holds a single logical cursor and must
// not be shared between goroutines.
type Lexer struct {
	source    string
	pos       int
	line      uint16 // 1-indexed
	col       uint16 // 0-indexed at line start
	start     int
	startLine uint16
	startCol  uint16

	stack                 []lexerState
	pendingStartMarker    *pendingMarker
	trimLeadingWhitespace bool
	parenBalance          int
}

// New creates a Lexer for the given source. With inExpr set the whole
// source is lexed as a single expression: no {{ }} or {% %} delimiters are
// expected and end of input simply ends the stream.
func New(source string, inExpr bool) *Lexer {
	state := stateTemplate
	if inExpr {
		state = stateExpr
	} else {
		// One trailing newline is not template data.
		source = strings.TrimSuffix(source, "\n")
		source = strings.TrimSuffix(source, "\r")
	}
	return &Lexer{
		source: source,
		line:   1,
		stack:  []lexerState{state},
	}
}

// Next returns the next token, or nil at end of input.
func (l *Lexer) Next() (*Token, error) {
	for {
		if l.atEnd() {
			return nil, nil
		}

		var tok *Token
		var cont bool
		var err error

		switch l.currentState() {
		case stateTemplate:
			tok, cont, err = l.tokenizeRoot()
		case stateVariable:
			tok, cont, err = l.tokenizeInTag(stateVariable)
		case stateBlock:
			tok, cont, err = l.tokenizeInTag(stateBlock)
		case stateExpr:
			tok, cont, err = l.tokenizeInTag(stateExpr)
		}

		if err != nil {
			return nil, err
		}
		if cont {
			continue
		}
		return tok, nil
	}
}

func (l *Lexer) currentState() lexerState {
	return l.stack[len(l.stack)-1]
}

func (l *Lexer) pushState(s lexerState) {
	l.stack = append(l.stack, s)
}

func (l *Lexer) popState() {
	if len(l.stack) > 1 {
		l.stack = l.stack[:len(l.stack)-1]
	}
}

// tokenizeRoot handles the template-data state.
func (l *Lexer) tokenizeRoot() (*Token, bool, error) {
	if pm := l.pendingStartMarker; pm != nil {
		l.pendingStartMarker = nil
		return l.handleStartMarker(pm.marker, pm.length)
	}

	if l.trimLeadingWhitespace {
		l.trimLeadingWhitespace = false
		l.skipWhitespace()
	}

	l.markStart()

	offset, marker, length, trim := l.findStartMarker()
	if offset < 0 {
		// No marker found, the rest is template data.
		if l.pos < len(l.source) {
			text := l.advance(len(l.source) - l.pos)
			tok := l.makeToken(TokenTemplateData, text)
			return &tok, false, nil
		}
		return nil, false, nil
	}

	l.pendingStartMarker = &pendingMarker{marker: marker, length: length}

	lead := l.rest()[:offset]
	if trim {
		lead = strings.TrimRight(lead, " \t\n\r")
	}
	l.advance(len(lead))
	span := l.span()
	l.advance(offset - len(lead))

	if lead == "" {
		return nil, true, nil
	}
	tok := Token{Type: TokenTemplateData, Value: lead, Span: span}
	return &tok, false, nil
}

// findStartMarker locates the next {{, {% or {# in the unread source.
// It returns the marker offset relative to the cursor, the marker kind,
// the marker length (3 when a `-` trim flag follows) and whether the
// preceding template data should be right-trimmed.
func (l *Lexer) findStartMarker() (int, startMarker, int, bool) {
	rest := l.rest()
	offset := 0
	for {
		idx := strings.IndexByte(rest[offset:], '{')
		if idx < 0 {
			return -1, 0, 0, false
		}
		idx += offset
		if idx+1 < len(rest) {
			var marker startMarker
			switch rest[idx+1] {
			case '{':
				marker = markerVariable
			case '%':
				marker = markerBlock
			case '#':
				marker = markerComment
			default:
				offset = idx + 1
				continue
			}
			length := 2
			trim := false
			if idx+2 < len(rest) && rest[idx+2] == '-' {
				length = 3
				trim = true
			}
			return idx, marker, length, trim
		}
		offset = idx + 1
	}
}

func (l *Lexer) handleStartMarker(marker startMarker, length int) (*Token, bool, error) {
	switch marker {
	case markerComment:
		rest := l.rest()[length:]
		endIdx := strings.Index(rest, commentEnd)
		if endIdx < 0 {
			l.advance(len(l.rest()))
			return nil, false, l.syntaxError("unexpected end of comment")
		}
		if endIdx > 0 && rest[endIdx-1] == '-' {
			l.trimLeadingWhitespace = true
		}
		l.advance(length + endIdx + len(commentEnd))
		return nil, true, nil

	case markerVariable:
		l.markStart()
		l.advance(length)
		l.pushState(stateVariable)
		tok := l.makeToken(TokenVariableStart, varStart)
		return &tok, false, nil

	default: // markerBlock
		l.markStart()
		l.advance(length)
		l.pushState(stateBlock)
		tok := l.makeToken(TokenBlockStart, blockStart)
		return &tok, false, nil
	}
}

// tokenizeInTag handles tokens inside {% %}, {{ }} or an expression-only
// source.
func (l *Lexer) tokenizeInTag(state lexerState) (*Token, bool, error) {
	l.skipWhitespace()
	if l.atEnd() {
		return nil, false, nil
	}

	l.markStart()
	rest := l.rest()

	// End markers only close the tag outside of parens and brackets.
	if l.parenBalance == 0 && state != stateExpr {
		trim := 0
		if rest[0] == '-' && len(rest) > 1 {
			trim = 1
		}
		switch state {
		case stateBlock:
			if strings.HasPrefix(rest[trim:], blockEnd) {
				l.popState()
				l.advance(trim + len(blockEnd))
				tok := l.makeToken(TokenBlockEnd, rest[:trim]+blockEnd)
				l.trimLeadingWhitespace = trim > 0
				return &tok, false, nil
			}
		case stateVariable:
			if strings.HasPrefix(rest[trim:], varEnd) {
				l.popState()
				l.advance(trim + len(varEnd))
				tok := l.makeToken(TokenVariableEnd, rest[:trim]+varEnd)
				l.trimLeadingWhitespace = trim > 0
				return &tok, false, nil
			}
		}
	}

	if len(rest) >= 2 {
		var typ TokenType = -1
		switch rest[:2] {
		case "//":
			typ = TokenFloorDiv
		case "**":
			typ = TokenPow
		case "==":
			typ = TokenEq
		case "!=":
			typ = TokenNe
		case ">=":
			typ = TokenGe
		case "<=":
			typ = TokenLe
		}
		if typ != -1 {
			value := rest[:2]
			l.advance(2)
			tok := l.makeToken(typ, value)
			return &tok, false, nil
		}
	}

	ch := rest[0]
	if typ, ok := singleCharTokens[ch]; ok {
		switch ch {
		case '(', '[', '{':
			l.parenBalance++
		case ')', ']', '}':
			l.parenBalance--
		}
		l.advance(1)
		tok := l.makeToken(typ, string(ch))
		return &tok, false, nil
	}

	switch {
	case ch == '"' || ch == '\'':
		return l.lexString(ch)
	case isDigit(ch):
		return l.lexNumber()
	case isIdentStart(ch):
		return l.lexIdent()
	}

	return nil, false, l.syntaxError(fmt.Sprintf("unexpected character %q", ch))
}

var singleCharTokens = map[byte]TokenType{
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenMul,
	'/': TokenDiv,
	'%': TokenMod,
	'~': TokenTilde,
	'<': TokenLt,
	'>': TokenGt,
	'=': TokenAssign,
	'.': TokenDot,
	',': TokenComma,
	':': TokenColon,
	'|': TokenPipe,
	'(': TokenParenOpen,
	')': TokenParenClose,
	'[': TokenBracketOpen,
	']': TokenBracketClose,
	'{': TokenBraceOpen,
	'}': TokenBraceClose,
}

// lexString lexes a string literal delimited by quote.
func (l *Lexer) lexString(quote byte) (*Token, bool, error) {
	l.advance(1)

	var sb strings.Builder
	for !l.atEnd() {
		ch := l.rest()[0]
		switch ch {
		case quote:
			l.advance(1)
			tok := l.makeToken(TokenString, sb.String())
			return &tok, false, nil
		case '\\':
			l.advance(1)
			if l.atEnd() {
				return nil, false, l.syntaxError("unexpected end of string")
			}
			escaped := l.rest()[0]
			l.advance(1)
			switch escaped {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\', '\'', '"':
				sb.WriteByte(escaped)
			default:
				// Unknown escape, keep both characters.
				sb.WriteByte('\\')
				sb.WriteByte(escaped)
			}
		default:
			sb.WriteByte(ch)
			l.advance(1)
		}
	}
	return nil, false, l.syntaxError("unexpected end of string")
}

// lexNumber lexes an integer or float literal.
func (l *Lexer) lexNumber() (*Token, bool, error) {
	rest := l.rest()
	n := 0
	for n < len(rest) && isDigit(rest[n]) {
		n++
	}

	isFloat := false
	if n+1 < len(rest) && rest[n] == '.' && isDigit(rest[n+1]) {
		isFloat = true
		n++
		for n < len(rest) && isDigit(rest[n]) {
			n++
		}
	}
	if n < len(rest) && (rest[n] == 'e' || rest[n] == 'E') {
		m := n + 1
		if m < len(rest) && (rest[m] == '+' || rest[m] == '-') {
			m++
		}
		if m < len(rest) && isDigit(rest[m]) {
			isFloat = true
			n = m
			for n < len(rest) && isDigit(rest[n]) {
				n++
			}
		}
	}

	value := l.advance(n)
	typ := TokenInt
	if isFloat {
		typ = TokenFloat
	}
	tok := l.makeToken(typ, value)
	return &tok, false, nil
}

// lexIdent lexes an identifier.
func (l *Lexer) lexIdent() (*Token, bool, error) {
	rest := l.rest()
	n := 0
	for n < len(rest) && isIdentPart(rest[n]) {
		n++
	}
	value := l.advance(n)
	tok := l.makeToken(TokenIdent, value)
	return &tok, false, nil
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.source)
}

func (l *Lexer) rest() string {
	return l.source[l.pos:]
}

func (l *Lexer) advance(n int) string {
	end := l.pos + n
	if end > len(l.source) {
		end = len(l.source)
	}
	skipped := l.source[l.pos:end]
	for i := 0; i < len(skipped); i++ {
		if skipped[i] == '\n' {
			l.line++
			l.col = 0
		} else {
			l.col++
		}
	}
	l.pos = end
	return skipped
}

func (l *Lexer) markStart() {
	l.start = l.pos
	l.startLine = l.line
	l.startCol = l.col
}

func (l *Lexer) span() Span {
	return Span{
		StartLine:   l.startLine,
		StartCol:    l.startCol,
		StartOffset: uint32(l.start),
		EndLine:     l.line,
		EndCol:      l.col,
		EndOffset:   uint32(l.pos),
	}
}

func (l *Lexer) makeToken(typ TokenType, value string) Token {
	return Token{Type: typ, Value: value, Span: l.span()}
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() {
		c := l.rest()[0]
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			break
		}
		l.advance(1)
	}
}

func (l *Lexer) syntaxError(msg string) error {
	return &Error{Detail: msg, Span: l.span()}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
