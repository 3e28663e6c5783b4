package parser

import (
	"fmt"
	"strconv"

	"github.com/youguanxinqing/minijinja/lexer"
	"github.com/youguanxinqing/minijinja/value"
)

const maxRecursion = 150

// Identifiers that can never be used as assignment targets. Both casings
// of each keyword are individually reserved; there is no general case
// folding.
var reservedNames = map[string]bool{
	"true": true, "True": true,
	"false": true, "False": true,
	"none": true, "None": true,
	"loop": true,
}

// Parser drives the grammar over a token stream. A Parser handles exactly
// one source and is not reusable.
type Parser struct {
	filename string
	stream   *tokenStream
	depth    int
}

func newParser(source, filename string, inExpr bool) *Parser {
	return &Parser{
		filename: filename,
		stream:   newTokenStream(source, inExpr),
	}
}

// Parse parses a template and returns the root node. Errors always carry
// a location: the parser attaches the filename and the stream's best-known
// line to any error that bubbles up without one.
func Parse(source, filename string) (*Template, error) {
	p := newParser(source, filename, false)
	tmpl, err := p.parse()
	if err != nil {
		return nil, p.attachLocation(err)
	}
	return tmpl, nil
}

// ParseExpr parses a standalone expression. The source is lexed in
// expression-only mode: no {{ }} or {% %} delimiters are expected.
func ParseExpr(source string) (Expr, error) {
	p := newParser(source, "<expression>", true)
	expr, err := p.parseExpr()
	if err != nil {
		return nil, p.attachLocation(err)
	}
	return expr, nil
}

func (p *Parser) parse() (*Template, *Error) {
	// Prime the stream so the root span starts at the first token.
	span := p.stream.currentSpan()
	children, err := p.subparse(func(*lexer.Token) bool { return false })
	if err != nil {
		return nil, err
	}
	return &Template{
		Children: children,
		span:     p.stream.expandSpan(span),
	}, nil
}

func (p *Parser) attachLocation(err *Error) *Error {
	if !err.HasLocation() {
		err.Line = p.stream.currentSpan().StartLine
	}
	if err.Name == "" {
		err.Name = p.filename
	}
	return err
}

// --- Token helpers ---

func tokenDescription(tok *lexer.Token) string {
	switch tok.Type {
	case lexer.TokenIdent:
		return "identifier"
	case lexer.TokenString:
		return "string"
	case lexer.TokenInt:
		return "integer"
	case lexer.TokenFloat:
		return "float"
	case lexer.TokenTemplateData:
		return "template data"
	case lexer.TokenBlockEnd:
		return "end of block"
	case lexer.TokenVariableEnd:
		return "end of variable block"
	default:
		return fmt.Sprintf("`%s`", tok.Value)
	}
}

func (p *Parser) unexpected(tok *lexer.Token, expected string) *Error {
	return syntaxError(fmt.Sprintf("unexpected %s, expected %s", tokenDescription(tok), expected))
}

func (p *Parser) unexpectedEOF(expected string) *Error {
	return syntaxError(fmt.Sprintf("unexpected end of input, expected %s", expected))
}

// expectAny consumes the next token, failing only at end of input.
func (p *Parser) expectAny(expected string) (*lexer.Token, *Error) {
	tok, err := p.stream.next()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, p.unexpectedEOF(expected)
	}
	return tok, nil
}

func (p *Parser) expect(typ lexer.TokenType, expected string) (*lexer.Token, *Error) {
	tok, err := p.expectAny(expected)
	if err != nil {
		return nil, err
	}
	if tok.Type != typ {
		return nil, p.unexpected(tok, expected)
	}
	return tok, nil
}

func (p *Parser) expectIdent(expected string) (string, Span, *Error) {
	tok, err := p.expect(lexer.TokenIdent, expected)
	if err != nil {
		return "", Span{}, err
	}
	return tok.Value, tok.Span, nil
}

func (p *Parser) expectKeyword(kw string, expected string) *Error {
	tok, err := p.expectAny(expected)
	if err != nil {
		return err
	}
	if tok.Type != lexer.TokenIdent || tok.Value != kw {
		return p.unexpected(tok, expected)
	}
	return nil
}

func (p *Parser) matchesToken(typ lexer.TokenType) (bool, *Error) {
	tok, err := p.stream.current()
	if err != nil {
		return false, err
	}
	return tok != nil && tok.Type == typ, nil
}

func (p *Parser) matchesKeyword(kw string) (bool, *Error) {
	tok, err := p.stream.current()
	if err != nil {
		return false, err
	}
	return tok != nil && tok.Type == lexer.TokenIdent && tok.Value == kw, nil
}

// skipToken consumes the lookahead if it has the given type.
func (p *Parser) skipToken(typ lexer.TokenType) (bool, *Error) {
	ok, err := p.matchesToken(typ)
	if err != nil || !ok {
		return false, err
	}
	p.stream.next()
	return true, nil
}

func (p *Parser) skipKeyword(kw string) (bool, *Error) {
	ok, err := p.matchesKeyword(kw)
	if err != nil || !ok {
		return false, err
	}
	p.stream.next()
	return true, nil
}

// --- Expression grammar ---
//
// One method per precedence level, loosest first. Each level parses its
// operands at the next tighter level and folds same-level operators
// left-associatively, expanding the node span from the left operand's
// start to the last consumed token.

func (p *Parser) parseExpr() (Expr, *Error) {
	p.depth++
	if p.depth > maxRecursion {
		return nil, syntaxError("template exceeds maximum recursion limits")
	}
	defer func() { p.depth-- }()
	return p.parseOr()
}

func (p *Parser) parseOr() (Expr, *Error) {
	span := p.stream.currentSpan()
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		ok, err := p.skipKeyword("or")
		if err != nil {
			return nil, err
		}
		if !ok {
			return left, nil
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinOp{Op: BinOpScOr, Left: left, Right: right, span: p.stream.expandSpan(span)}
	}
}

func (p *Parser) parseAnd() (Expr, *Error) {
	span := p.stream.currentSpan()
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for {
		ok, err := p.skipKeyword("and")
		if err != nil {
			return nil, err
		}
		if !ok {
			return left, nil
		}
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &BinOp{Op: BinOpScAnd, Left: left, Right: right, span: p.stream.expandSpan(span)}
	}
}

func (p *Parser) parseNot() (Expr, *Error) {
	span := p.stream.currentSpan()
	ok, err := p.skipKeyword("not")
	if err != nil {
		return nil, err
	}
	if ok {
		expr, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: UnaryNot, Expr: expr, span: p.stream.expandSpan(span)}, nil
	}
	return p.parseCompare()
}

var compareOps = map[lexer.TokenType]BinOpKind{
	lexer.TokenEq: BinOpEq,
	lexer.TokenNe: BinOpNe,
	lexer.TokenLt: BinOpLt,
	lexer.TokenLe: BinOpLte,
	lexer.TokenGt: BinOpGt,
	lexer.TokenGe: BinOpGte,
}

// parseCompare folds comparison chains as ordinary nested binaries:
// a < b < c parses as (a<b)<c, not as Python-style pairwise chaining.
func (p *Parser) parseCompare() (Expr, *Error) {
	span := p.stream.currentSpan()
	left, err := p.parseMath1()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.stream.current()
		if err != nil {
			return nil, err
		}
		if tok == nil {
			return left, nil
		}
		op, ok := compareOps[tok.Type]
		if !ok {
			return left, nil
		}
		p.stream.next()
		right, err := p.parseMath1()
		if err != nil {
			return nil, err
		}
		left = &BinOp{Op: op, Left: left, Right: right, span: p.stream.expandSpan(span)}
	}
}

func (p *Parser) parseMath1() (Expr, *Error) {
	span := p.stream.currentSpan()
	left, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	for {
		var op BinOpKind
		if ok, err := p.skipToken(lexer.TokenPlus); err != nil {
			return nil, err
		} else if ok {
			op = BinOpAdd
		} else if ok, err := p.skipToken(lexer.TokenMinus); err != nil {
			return nil, err
		} else if ok {
			op = BinOpSub
		} else {
			return left, nil
		}
		right, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		left = &BinOp{Op: op, Left: left, Right: right, span: p.stream.expandSpan(span)}
	}
}

func (p *Parser) parseConcat() (Expr, *Error) {
	span := p.stream.currentSpan()
	left, err := p.parseMath2()
	if err != nil {
		return nil, err
	}
	for {
		ok, err := p.skipToken(lexer.TokenTilde)
		if err != nil {
			return nil, err
		}
		if !ok {
			return left, nil
		}
		right, err := p.parseMath2()
		if err != nil {
			return nil, err
		}
		left = &BinOp{Op: BinOpConcat, Left: left, Right: right, span: p.stream.expandSpan(span)}
	}
}

var math2Ops = map[lexer.TokenType]BinOpKind{
	lexer.TokenMul:      BinOpMul,
	lexer.TokenDiv:      BinOpDiv,
	lexer.TokenFloorDiv: BinOpFloorDiv,
	lexer.TokenMod:      BinOpRem,
}

func (p *Parser) parseMath2() (Expr, *Error) {
	span := p.stream.currentSpan()
	left, err := p.parsePow()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.stream.current()
		if err != nil {
			return nil, err
		}
		if tok == nil {
			return left, nil
		}
		op, ok := math2Ops[tok.Type]
		if !ok {
			return left, nil
		}
		p.stream.next()
		right, err := p.parsePow()
		if err != nil {
			return nil, err
		}
		left = &BinOp{Op: op, Left: left, Right: right, span: p.stream.expandSpan(span)}
	}
}

// parsePow folds ** left-associatively like every other binary level.
func (p *Parser) parsePow() (Expr, *Error) {
	span := p.stream.currentSpan()
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		ok, err := p.skipToken(lexer.TokenPow)
		if err != nil {
			return nil, err
		}
		if !ok {
			return left, nil
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinOp{Op: BinOpPow, Left: left, Right: right, span: p.stream.expandSpan(span)}
	}
}

func (p *Parser) parseUnary() (Expr, *Error) {
	span := p.stream.currentSpan()
	expr, err := p.parseUnaryOnly()
	if err != nil {
		return nil, err
	}
	expr, err = p.parsePostfix(expr, span)
	if err != nil {
		return nil, err
	}
	return p.parseFilterExpr(expr, span)
}

func (p *Parser) parseUnaryOnly() (Expr, *Error) {
	span := p.stream.currentSpan()
	ok, err := p.skipToken(lexer.TokenMinus)
	if err != nil {
		return nil, err
	}
	if ok {
		expr, err := p.parseUnaryOnly()
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: UnaryNeg, Expr: expr, span: p.stream.expandSpan(span)}, nil
	}
	return p.parsePrimary()
}

// parsePostfix chains attribute access, subscripting and calls onto a
// primary expression. All three repeat and interleave; every node is
// anchored at the base expression's start so spans nest.
func (p *Parser) parsePostfix(expr Expr, span Span) (Expr, *Error) {
	for {
		if ok, err := p.skipToken(lexer.TokenDot); err != nil {
			return nil, err
		} else if ok {
			name, _, err := p.expectIdent("identifier")
			if err != nil {
				return nil, err
			}
			expr = &GetAttr{Expr: expr, Name: name, span: p.stream.expandSpan(span)}
			continue
		}
		if ok, err := p.skipToken(lexer.TokenBracketOpen); err != nil {
			return nil, err
		} else if ok {
			subscript, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.TokenBracketClose, "`]`"); err != nil {
				return nil, err
			}
			expr = &GetItem{Expr: expr, SubscriptExpr: subscript, span: p.stream.expandSpan(span)}
			continue
		}
		if ok, err := p.matchesToken(lexer.TokenParenOpen); err != nil {
			return nil, err
		} else if ok {
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			expr = &Call{Expr: expr, Args: args, span: p.stream.expandSpan(span)}
			continue
		}
		return expr, nil
	}
}

// parseFilterExpr chains |name(args) filters and `is name(args)` tests.
// Both bind looser than any postfix operation.
func (p *Parser) parseFilterExpr(expr Expr, span Span) (Expr, *Error) {
	for {
		if ok, err := p.skipToken(lexer.TokenPipe); err != nil {
			return nil, err
		} else if ok {
			name, _, err := p.expectIdent("identifier")
			if err != nil {
				return nil, err
			}
			args, err := p.parseOptionalArgs()
			if err != nil {
				return nil, err
			}
			expr = &Filter{Name: name, Expr: expr, Args: args, span: p.stream.expandSpan(span)}
			continue
		}
		if ok, err := p.skipKeyword("is"); err != nil {
			return nil, err
		} else if ok {
			name, _, err := p.expectIdent("identifier")
			if err != nil {
				return nil, err
			}
			args, err := p.parseOptionalArgs()
			if err != nil {
				return nil, err
			}
			expr = &Test{Name: name, Expr: expr, Args: args, span: p.stream.expandSpan(span)}
			continue
		}
		return expr, nil
	}
}

func (p *Parser) parseOptionalArgs() ([]Expr, *Error) {
	ok, err := p.matchesToken(lexer.TokenParenOpen)
	if err != nil || !ok {
		return nil, err
	}
	return p.parseArgs()
}

// parseArgs parses a parenthesized argument list. Arguments are separated
// by commas; a leading or trailing comma is rejected.
func (p *Parser) parseArgs() ([]Expr, *Error) {
	var args []Expr
	if _, err := p.expect(lexer.TokenParenOpen, "`(`"); err != nil {
		return nil, err
	}
	for {
		ok, err := p.matchesToken(lexer.TokenParenClose)
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		if len(args) > 0 {
			if _, err := p.expect(lexer.TokenComma, "`,`"); err != nil {
				return nil, err
			}
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	if _, err := p.expect(lexer.TokenParenClose, "`)`"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parsePrimary() (Expr, *Error) {
	p.depth++
	if p.depth > maxRecursion {
		return nil, syntaxError("template exceeds maximum recursion limits")
	}
	defer func() { p.depth-- }()

	tok, err := p.expectAny("expression")
	if err != nil {
		return nil, err
	}
	span := tok.Span

	switch tok.Type {
	case lexer.TokenIdent:
		switch tok.Value {
		case "true", "True":
			return &Const{Value: value.FromBool(true), span: span}, nil
		case "false", "False":
			return &Const{Value: value.FromBool(false), span: span}, nil
		case "none", "None":
			return &Const{Value: value.None(), span: span}, nil
		default:
			return &Var{ID: tok.Value, span: span}, nil
		}

	case lexer.TokenString:
		return &Const{Value: value.FromString(tok.Value), span: span}, nil

	case lexer.TokenInt:
		val, convErr := strconv.ParseInt(tok.Value, 10, 64)
		if convErr != nil {
			return nil, syntaxError(fmt.Sprintf("invalid integer %s", tok.Value))
		}
		return &Const{Value: value.FromInt(val), span: span}, nil

	case lexer.TokenFloat:
		val, convErr := strconv.ParseFloat(tok.Value, 64)
		if convErr != nil {
			return nil, syntaxError(fmt.Sprintf("invalid float %s", tok.Value))
		}
		return &Const{Value: value.FromFloat(val), span: span}, nil

	case lexer.TokenParenOpen:
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenParenClose, "`)`"); err != nil {
			return nil, err
		}
		return expr, nil

	case lexer.TokenBracketOpen:
		return p.parseListExpr(span)

	case lexer.TokenBraceOpen:
		return p.parseMapExpr(span)

	default:
		return nil, p.unexpected(tok, "expression")
	}
}

func (p *Parser) parseListExpr(span Span) (Expr, *Error) {
	var items []Expr
	for {
		ok, err := p.matchesToken(lexer.TokenBracketClose)
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		if len(items) > 0 {
			if _, err := p.expect(lexer.TokenComma, "`,`"); err != nil {
				return nil, err
			}
		}
		item, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if _, err := p.expect(lexer.TokenBracketClose, "`]`"); err != nil {
		return nil, err
	}
	return &List{Items: items, span: p.stream.expandSpan(span)}, nil
}

func (p *Parser) parseMapExpr(span Span) (Expr, *Error) {
	var keys, values []Expr
	for {
		ok, err := p.matchesToken(lexer.TokenBraceClose)
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		if len(keys) > 0 {
			if _, err := p.expect(lexer.TokenComma, "`,`"); err != nil {
				return nil, err
			}
		}
		key, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenColon, "`:`"); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
		values = append(values, val)
	}
	if _, err := p.expect(lexer.TokenBraceClose, "`}`"); err != nil {
		return nil, err
	}
	return &Map{Keys: keys, Values: values, span: p.stream.expandSpan(span)}, nil
}

// --- Statement grammar ---

// parseStmt dispatches on the keyword after {%. The opening marker has
// already been consumed and the keyword is the lookahead token.
func (p *Parser) parseStmt() (Stmt, *Error) {
	p.depth++
	if p.depth > maxRecursion {
		return nil, syntaxError("template exceeds maximum recursion limits")
	}
	defer func() { p.depth-- }()

	tok, err := p.expectAny("block keyword")
	if err != nil {
		return nil, err
	}
	span := tok.Span

	if tok.Type != lexer.TokenIdent {
		return nil, syntaxError("unknown block")
	}

	switch tok.Value {
	case "for":
		stmt, err := p.parseForStmt()
		if err != nil {
			return nil, err
		}
		stmt.span = p.stream.expandSpan(span)
		return stmt, nil

	case "if":
		stmt, err := p.parseIfCond()
		if err != nil {
			return nil, err
		}
		stmt.span = p.stream.expandSpan(span)
		return stmt, nil

	case "with":
		stmt, err := p.parseWithBlock()
		if err != nil {
			return nil, err
		}
		stmt.span = p.stream.expandSpan(span)
		return stmt, nil

	case "block":
		stmt, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.span = p.stream.expandSpan(span)
		return stmt, nil

	case "extends":
		stmt, err := p.parseExtends()
		if err != nil {
			return nil, err
		}
		stmt.span = p.stream.expandSpan(span)
		return stmt, nil

	case "autoescape":
		stmt, err := p.parseAutoEscape()
		if err != nil {
			return nil, err
		}
		stmt.span = p.stream.expandSpan(span)
		return stmt, nil

	default:
		return nil, syntaxError("unknown block")
	}
}

// parseAssignTarget parses an identifier that is about to be bound,
// rejecting reserved names.
func (p *Parser) parseAssignTarget() (string, *Error) {
	target, _, err := p.expectIdent("identifier")
	if err != nil {
		return "", err
	}
	if reservedNames[target] {
		return "", syntaxError(fmt.Sprintf("cannot assign to reserved variable name %s", target))
	}
	return target, nil
}

func (p *Parser) parseForStmt() (*ForLoop, *Error) {
	target, err := p.parseAssignTarget()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("in", "in"); err != nil {
		return nil, err
	}
	iter, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenBlockEnd, "end of block"); err != nil {
		return nil, err
	}
	body, err := p.subparse(func(tok *lexer.Token) bool {
		return tok.Type == lexer.TokenIdent && tok.Value == "endfor"
	})
	if err != nil {
		return nil, err
	}
	if _, err := p.stream.next(); err != nil {
		return nil, err
	}
	return &ForLoop{Target: target, Iter: iter, Body: body}, nil
}

// parseIfCond is a single state machine over {condition, true body,
// false body}. An elif re-enters the production without consuming new
// block markers and lands in the false branch as a nested IfCond.
func (p *Parser) parseIfCond() (*IfCond, *Error) {
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenBlockEnd, "end of block"); err != nil {
		return nil, err
	}
	trueBody, err := p.subparse(func(tok *lexer.Token) bool {
		return tok.Type == lexer.TokenIdent &&
			(tok.Value == "endif" || tok.Value == "else" || tok.Value == "elif")
	})
	if err != nil {
		return nil, err
	}

	var falseBody []Stmt
	tok, err := p.stream.next()
	if err != nil {
		return nil, err
	}
	if tok != nil && tok.Type == lexer.TokenIdent {
		switch tok.Value {
		case "else":
			if _, err := p.expect(lexer.TokenBlockEnd, "end of block"); err != nil {
				return nil, err
			}
			falseBody, err = p.subparse(func(tok *lexer.Token) bool {
				return tok.Type == lexer.TokenIdent && tok.Value == "endif"
			})
			if err != nil {
				return nil, err
			}
			if _, err := p.stream.next(); err != nil {
				return nil, err
			}

		case "elif":
			span := tok.Span
			nested, err := p.parseIfCond()
			if err != nil {
				return nil, err
			}
			nested.span = p.stream.expandSpan(span)
			falseBody = []Stmt{nested}
		}
	}

	return &IfCond{Expr: expr, TrueBody: trueBody, FalseBody: falseBody}, nil
}

func (p *Parser) parseWithBlock() (*WithBlock, *Error) {
	var assignments []Assignment
	for {
		ok, err := p.matchesToken(lexer.TokenBlockEnd)
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		if len(assignments) > 0 {
			if _, err := p.expect(lexer.TokenComma, "comma"); err != nil {
				return nil, err
			}
		}
		target, err := p.parseAssignTarget()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenAssign, "assignment operator"); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, Assignment{Target: target, Expr: expr})
	}

	if _, err := p.expect(lexer.TokenBlockEnd, "end of block"); err != nil {
		return nil, err
	}
	body, err := p.subparse(func(tok *lexer.Token) bool {
		return tok.Type == lexer.TokenIdent && tok.Value == "endwith"
	})
	if err != nil {
		return nil, err
	}
	if _, err := p.stream.next(); err != nil {
		return nil, err
	}
	return &WithBlock{Assignments: assignments, Body: body}, nil
}

func (p *Parser) parseBlock() (*Block, *Error) {
	name, _, err := p.expectIdent("identifier")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenBlockEnd, "end of block"); err != nil {
		return nil, err
	}
	body, err := p.subparse(func(tok *lexer.Token) bool {
		return tok.Type == lexer.TokenIdent && tok.Value == "endblock"
	})
	if err != nil {
		return nil, err
	}
	if _, err := p.stream.next(); err != nil {
		return nil, err
	}

	// An optional bare name after endblock must match the opening name.
	trailing, err := p.stream.current()
	if err != nil {
		return nil, err
	}
	if trailing != nil && trailing.Type == lexer.TokenIdent {
		if trailing.Value != name {
			return nil, syntaxError(fmt.Sprintf(
				"mismatching name on block. Got `%s`, expected `%s`", trailing.Value, name))
		}
		p.stream.next()
	}

	return &Block{Name: name, Body: body}, nil
}

func (p *Parser) parseExtends() (*Extends, *Error) {
	name, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &Extends{Name: name}, nil
}

func (p *Parser) parseAutoEscape() (*AutoEscape, *Error) {
	enabled, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenBlockEnd, "end of block"); err != nil {
		return nil, err
	}
	body, err := p.subparse(func(tok *lexer.Token) bool {
		return tok.Type == lexer.TokenIdent && tok.Value == "endautoescape"
	})
	if err != nil {
		return nil, err
	}
	if _, err := p.stream.next(); err != nil {
		return nil, err
	}
	return &AutoEscape{Enabled: enabled, Body: body}, nil
}

// subparse consumes a statement list until endCheck matches the keyword
// after a {% marker. The terminator keyword itself is left for the
// caller, which consumes it along with the closing %}.
func (p *Parser) subparse(endCheck func(*lexer.Token) bool) ([]Stmt, *Error) {
	var stmts []Stmt
	for {
		tok, err := p.stream.next()
		if err != nil {
			return nil, err
		}
		if tok == nil {
			return stmts, nil
		}

		switch tok.Type {
		case lexer.TokenTemplateData:
			stmts = append(stmts, &EmitRaw{Raw: tok.Value, span: tok.Span})

		case lexer.TokenVariableStart:
			span := tok.Span
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, &EmitExpr{Expr: expr, span: p.stream.expandSpan(span)})
			if _, err := p.expect(lexer.TokenVariableEnd, "end of variable block"); err != nil {
				return nil, err
			}

		case lexer.TokenBlockStart:
			current, err := p.stream.current()
			if err != nil {
				return nil, err
			}
			if current == nil {
				return nil, syntaxError("unexpected end of input, expected keyword")
			}
			if endCheck(current) {
				return stmts, nil
			}
			stmt, err := p.parseStmt()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, stmt)
			if _, err := p.expect(lexer.TokenBlockEnd, "end of block"); err != nil {
				return nil, err
			}

		default:
			// The lexer only emits the three cases above at statement
			// level.
			return nil, syntaxError(fmt.Sprintf("unexpected %s", tokenDescription(tok)))
		}
	}
}
