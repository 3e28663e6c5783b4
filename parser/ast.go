// Package parser turns template source text into a typed, spanned AST.
package parser

import (
	"github.com/youguanxinqing/minijinja/syntax"
	"github.com/youguanxinqing/minijinja/value"
)

// Span represents a location range in source code.
type Span = syntax.Span

// Node is the interface implemented by all AST nodes. Every node's span
// covers its own source text including all of its children.
type Node interface {
	node()
	Span() Span
}

// Stmt represents a statement node.
type Stmt interface {
	Node
	stmt()
}

// Expr represents an expression node.
type Expr interface {
	Node
	expr()
}

// --- Statement Types ---

// Template is the root node of a parsed template.
type Template struct {
	Children []Stmt
	span     Span
}

func (t *Template) node()      {}
func (t *Template) stmt()      {}
func (t *Template) Span() Span { return t.span }

// EmitRaw outputs a literal run of template text.
type EmitRaw struct {
	Raw  string
	span Span
}

func (e *EmitRaw) node()      {}
func (e *EmitRaw) stmt()      {}
func (e *EmitRaw) Span() Span { return e.span }

// EmitExpr outputs the result of an expression.
type EmitExpr struct {
	Expr Expr
	span Span
}

func (e *EmitExpr) node()      {}
func (e *EmitExpr) stmt()      {}
func (e *EmitExpr) Span() Span { return e.span }

// ForLoop represents a for loop.
type ForLoop struct {
	Target string
	Iter   Expr
	Body   []Stmt
	span   Span
}

func (f *ForLoop) node()      {}
func (f *ForLoop) stmt()      {}
func (f *ForLoop) Span() Span { return f.span }

// IfCond represents an if/elif/else condition. FalseBody is empty when
// there is neither else nor elif; an elif appears as a single nested
// IfCond in FalseBody.
type IfCond struct {
	Expr      Expr
	TrueBody  []Stmt
	FalseBody []Stmt
	span      Span
}

func (i *IfCond) node()      {}
func (i *IfCond) stmt()      {}
func (i *IfCond) Span() Span { return i.span }

// Assignment is one `target = expr` binding of a with block.
type Assignment struct {
	Target string
	Expr   Expr
}

// WithBlock represents a with block.
type WithBlock struct {
	Assignments []Assignment
	Body        []Stmt
	span        Span
}

func (w *WithBlock) node()      {}
func (w *WithBlock) stmt()      {}
func (w *WithBlock) Span() Span { return w.span }

// Block represents a named template-inheritance block.
type Block struct {
	Name string
	Body []Stmt
	span Span
}

func (b *Block) node()      {}
func (b *Block) stmt()      {}
func (b *Block) Span() Span { return b.span }

// Extends declares the parent template. It has no body and no end tag.
type Extends struct {
	Name Expr
	span Span
}

func (e *Extends) node()      {}
func (e *Extends) stmt()      {}
func (e *Extends) Span() Span { return e.span }

// AutoEscape represents an autoescape block.
type AutoEscape struct {
	Enabled Expr
	Body    []Stmt
	span    Span
}

func (a *AutoEscape) node()      {}
func (a *AutoEscape) stmt()      {}
func (a *AutoEscape) Span() Span { return a.span }

// --- Expression Types ---

// Var represents a variable reference.
type Var struct {
	ID   string
	span Span
}

func (v *Var) node()      {}
func (v *Var) expr()      {}
func (v *Var) Span() Span { return v.span }

// Const represents a literal constant.
type Const struct {
	Value value.Value
	span  Span
}

func (c *Const) node()      {}
func (c *Const) expr()      {}
func (c *Const) Span() Span { return c.span }

// UnaryOpKind represents the kind of a unary operator.
type UnaryOpKind int

const (
	UnaryNot UnaryOpKind = iota
	UnaryNeg
)

func (k UnaryOpKind) String() string {
	switch k {
	case UnaryNot:
		return "Not"
	case UnaryNeg:
		return "Neg"
	}
	return "?"
}

// UnaryOp represents a unary operation.
type UnaryOp struct {
	Op   UnaryOpKind
	Expr Expr
	span Span
}

func (u *UnaryOp) node()      {}
func (u *UnaryOp) expr()      {}
func (u *UnaryOp) Span() Span { return u.span }

// BinOpKind represents the kind of a binary operator. ScAnd and ScOr are
// short-circuiting at evaluation time; the parser only records the kind.
type BinOpKind int

const (
	BinOpEq BinOpKind = iota
	BinOpNe
	BinOpLt
	BinOpLte
	BinOpGt
	BinOpGte
	BinOpScAnd
	BinOpScOr
	BinOpAdd
	BinOpSub
	BinOpMul
	BinOpDiv
	BinOpFloorDiv
	BinOpRem
	BinOpPow
	BinOpConcat
)

func (k BinOpKind) String() string {
	switch k {
	case BinOpEq:
		return "Eq"
	case BinOpNe:
		return "Ne"
	case BinOpLt:
		return "Lt"
	case BinOpLte:
		return "Lte"
	case BinOpGt:
		return "Gt"
	case BinOpGte:
		return "Gte"
	case BinOpScAnd:
		return "ScAnd"
	case BinOpScOr:
		return "ScOr"
	case BinOpAdd:
		return "Add"
	case BinOpSub:
		return "Sub"
	case BinOpMul:
		return "Mul"
	case BinOpDiv:
		return "Div"
	case BinOpFloorDiv:
		return "FloorDiv"
	case BinOpRem:
		return "Rem"
	case BinOpPow:
		return "Pow"
	case BinOpConcat:
		return "Concat"
	}
	return "?"
}

// BinOp represents a binary operation.
type BinOp struct {
	Op    BinOpKind
	Left  Expr
	Right Expr
	span  Span
}

func (b *BinOp) node()      {}
func (b *BinOp) expr()      {}
func (b *BinOp) Span() Span { return b.span }

// GetAttr represents attribute access (x.y).
type GetAttr struct {
	Expr Expr
	Name string
	span Span
}

func (g *GetAttr) node()      {}
func (g *GetAttr) expr()      {}
func (g *GetAttr) Span() Span { return g.span }

// GetItem represents subscript access (x[y]).
type GetItem struct {
	Expr          Expr
	SubscriptExpr Expr
	span          Span
}

func (g *GetItem) node()      {}
func (g *GetItem) expr()      {}
func (g *GetItem) Span() Span { return g.span }

// Call represents a call (f(a, b)).
type Call struct {
	Expr Expr
	Args []Expr
	span Span
}

func (c *Call) node()      {}
func (c *Call) expr()      {}
func (c *Call) Span() Span { return c.span }

// Filter represents a filter application (expr|name(args)).
type Filter struct {
	Name string
	Expr Expr
	Args []Expr
	span Span
}

func (f *Filter) node()      {}
func (f *Filter) expr()      {}
func (f *Filter) Span() Span { return f.span }

// Test represents a test application (expr is name(args)).
type Test struct {
	Name string
	Expr Expr
	Args []Expr
	span Span
}

func (t *Test) node()      {}
func (t *Test) expr()      {}
func (t *Test) Span() Span { return t.span }

// List represents a list literal.
type List struct {
	Items []Expr
	span  Span
}

func (l *List) node()      {}
func (l *List) expr()      {}
func (l *List) Span() Span { return l.span }

// Map represents a map literal. Keys and Values are parallel; duplicate
// or non-literal keys are not checked at parse time.
type Map struct {
	Keys   []Expr
	Values []Expr
	span   Span
}

func (m *Map) node()      {}
func (m *Map) expr()      {}
func (m *Map) Span() Span { return m.span }
