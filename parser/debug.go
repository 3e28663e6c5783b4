package parser

import (
	"fmt"
	"strings"
)

// FormatSpan formats a span the way AST dumps embed it: " @ line:col-line:col".
func FormatSpan(s Span) string {
	return fmt.Sprintf(" @ %d:%d-%d:%d", s.StartLine, s.StartCol, s.EndLine, s.EndCol)
}

// DebugString returns an indented structural dump of a node. Field names
// are snake_case and every node is suffixed with its span.
func DebugString(n Node, indent int) string {
	ind := strings.Repeat("    ", indent)
	ind1 := strings.Repeat("    ", indent+1)
	ind2 := strings.Repeat("    ", indent+2)

	switch v := n.(type) {
	case *Template:
		var sb strings.Builder
		sb.WriteString("Template {\n")
		sb.WriteString(ind1)
		sb.WriteString("children: ")
		sb.WriteString(debugStmtList(v.Children, indent+1))
		sb.WriteString(",\n")
		sb.WriteString(ind)
		sb.WriteString("}")
		sb.WriteString(FormatSpan(v.span))
		return sb.String()

	case *EmitRaw:
		return fmt.Sprintf("EmitRaw {\n%sraw: %q,\n%s}%s", ind1, v.Raw, ind, FormatSpan(v.span))

	case *EmitExpr:
		var sb strings.Builder
		sb.WriteString("EmitExpr {\n")
		sb.WriteString(ind1)
		sb.WriteString("expr: ")
		sb.WriteString(DebugString(v.Expr, indent+1))
		sb.WriteString(",\n")
		sb.WriteString(ind)
		sb.WriteString("}")
		sb.WriteString(FormatSpan(v.span))
		return sb.String()

	case *ForLoop:
		var sb strings.Builder
		sb.WriteString("ForLoop {\n")
		sb.WriteString(ind1)
		sb.WriteString(fmt.Sprintf("target: %q,\n", v.Target))
		sb.WriteString(ind1)
		sb.WriteString("iter: ")
		sb.WriteString(DebugString(v.Iter, indent+1))
		sb.WriteString(",\n")
		sb.WriteString(ind1)
		sb.WriteString("body: ")
		sb.WriteString(debugStmtList(v.Body, indent+1))
		sb.WriteString(",\n")
		sb.WriteString(ind)
		sb.WriteString("}")
		sb.WriteString(FormatSpan(v.span))
		return sb.String()

	case *IfCond:
		var sb strings.Builder
		sb.WriteString("IfCond {\n")
		sb.WriteString(ind1)
		sb.WriteString("expr: ")
		sb.WriteString(DebugString(v.Expr, indent+1))
		sb.WriteString(",\n")
		sb.WriteString(ind1)
		sb.WriteString("true_body: ")
		sb.WriteString(debugStmtList(v.TrueBody, indent+1))
		sb.WriteString(",\n")
		sb.WriteString(ind1)
		sb.WriteString("false_body: ")
		sb.WriteString(debugStmtList(v.FalseBody, indent+1))
		sb.WriteString(",\n")
		sb.WriteString(ind)
		sb.WriteString("}")
		sb.WriteString(FormatSpan(v.span))
		return sb.String()

	case *WithBlock:
		var sb strings.Builder
		sb.WriteString("WithBlock {\n")
		sb.WriteString(ind1)
		if len(v.Assignments) == 0 {
			sb.WriteString("assignments: [],\n")
		} else {
			sb.WriteString("assignments: [\n")
			for _, a := range v.Assignments {
				sb.WriteString(ind2)
				sb.WriteString("(\n")
				sb.WriteString(strings.Repeat("    ", indent+3))
				sb.WriteString(fmt.Sprintf("%q,\n", a.Target))
				sb.WriteString(strings.Repeat("    ", indent+3))
				sb.WriteString(DebugString(a.Expr, indent+3))
				sb.WriteString(",\n")
				sb.WriteString(ind2)
				sb.WriteString("),\n")
			}
			sb.WriteString(ind1)
			sb.WriteString("],\n")
		}
		sb.WriteString(ind1)
		sb.WriteString("body: ")
		sb.WriteString(debugStmtList(v.Body, indent+1))
		sb.WriteString(",\n")
		sb.WriteString(ind)
		sb.WriteString("}")
		sb.WriteString(FormatSpan(v.span))
		return sb.String()

	case *Block:
		var sb strings.Builder
		sb.WriteString("Block {\n")
		sb.WriteString(ind1)
		sb.WriteString(fmt.Sprintf("name: %q,\n", v.Name))
		sb.WriteString(ind1)
		sb.WriteString("body: ")
		sb.WriteString(debugStmtList(v.Body, indent+1))
		sb.WriteString(",\n")
		sb.WriteString(ind)
		sb.WriteString("}")
		sb.WriteString(FormatSpan(v.span))
		return sb.String()

	case *Extends:
		var sb strings.Builder
		sb.WriteString("Extends {\n")
		sb.WriteString(ind1)
		sb.WriteString("name: ")
		sb.WriteString(DebugString(v.Name, indent+1))
		sb.WriteString(",\n")
		sb.WriteString(ind)
		sb.WriteString("}")
		sb.WriteString(FormatSpan(v.span))
		return sb.String()

	case *AutoEscape:
		var sb strings.Builder
		sb.WriteString("AutoEscape {\n")
		sb.WriteString(ind1)
		sb.WriteString("enabled: ")
		sb.WriteString(DebugString(v.Enabled, indent+1))
		sb.WriteString(",\n")
		sb.WriteString(ind1)
		sb.WriteString("body: ")
		sb.WriteString(debugStmtList(v.Body, indent+1))
		sb.WriteString(",\n")
		sb.WriteString(ind)
		sb.WriteString("}")
		sb.WriteString(FormatSpan(v.span))
		return sb.String()

	case *Var:
		return fmt.Sprintf("Var {\n%sid: %q,\n%s}%s", ind1, v.ID, ind, FormatSpan(v.span))

	case *Const:
		return fmt.Sprintf("Const {\n%svalue: %s,\n%s}%s", ind1, v.Value.Repr(), ind, FormatSpan(v.span))

	case *UnaryOp:
		var sb strings.Builder
		sb.WriteString("UnaryOp {\n")
		sb.WriteString(ind1)
		sb.WriteString(fmt.Sprintf("op: %s,\n", v.Op))
		sb.WriteString(ind1)
		sb.WriteString("expr: ")
		sb.WriteString(DebugString(v.Expr, indent+1))
		sb.WriteString(",\n")
		sb.WriteString(ind)
		sb.WriteString("}")
		sb.WriteString(FormatSpan(v.span))
		return sb.String()

	case *BinOp:
		var sb strings.Builder
		sb.WriteString("BinOp {\n")
		sb.WriteString(ind1)
		sb.WriteString(fmt.Sprintf("op: %s,\n", v.Op))
		sb.WriteString(ind1)
		sb.WriteString("left: ")
		sb.WriteString(DebugString(v.Left, indent+1))
		sb.WriteString(",\n")
		sb.WriteString(ind1)
		sb.WriteString("right: ")
		sb.WriteString(DebugString(v.Right, indent+1))
		sb.WriteString(",\n")
		sb.WriteString(ind)
		sb.WriteString("}")
		sb.WriteString(FormatSpan(v.span))
		return sb.String()

	case *GetAttr:
		var sb strings.Builder
		sb.WriteString("GetAttr {\n")
		sb.WriteString(ind1)
		sb.WriteString("expr: ")
		sb.WriteString(DebugString(v.Expr, indent+1))
		sb.WriteString(",\n")
		sb.WriteString(ind1)
		sb.WriteString(fmt.Sprintf("name: %q,\n", v.Name))
		sb.WriteString(ind)
		sb.WriteString("}")
		sb.WriteString(FormatSpan(v.span))
		return sb.String()

	case *GetItem:
		var sb strings.Builder
		sb.WriteString("GetItem {\n")
		sb.WriteString(ind1)
		sb.WriteString("expr: ")
		sb.WriteString(DebugString(v.Expr, indent+1))
		sb.WriteString(",\n")
		sb.WriteString(ind1)
		sb.WriteString("subscript_expr: ")
		sb.WriteString(DebugString(v.SubscriptExpr, indent+1))
		sb.WriteString(",\n")
		sb.WriteString(ind)
		sb.WriteString("}")
		sb.WriteString(FormatSpan(v.span))
		return sb.String()

	case *Call:
		var sb strings.Builder
		sb.WriteString("Call {\n")
		sb.WriteString(ind1)
		sb.WriteString("expr: ")
		sb.WriteString(DebugString(v.Expr, indent+1))
		sb.WriteString(",\n")
		sb.WriteString(ind1)
		sb.WriteString("args: ")
		sb.WriteString(debugExprList(v.Args, indent+1))
		sb.WriteString(",\n")
		sb.WriteString(ind)
		sb.WriteString("}")
		sb.WriteString(FormatSpan(v.span))
		return sb.String()

	case *Filter:
		var sb strings.Builder
		sb.WriteString("Filter {\n")
		sb.WriteString(ind1)
		sb.WriteString(fmt.Sprintf("name: %q,\n", v.Name))
		sb.WriteString(ind1)
		sb.WriteString("expr: ")
		sb.WriteString(DebugString(v.Expr, indent+1))
		sb.WriteString(",\n")
		sb.WriteString(ind1)
		sb.WriteString("args: ")
		sb.WriteString(debugExprList(v.Args, indent+1))
		sb.WriteString(",\n")
		sb.WriteString(ind)
		sb.WriteString("}")
		sb.WriteString(FormatSpan(v.span))
		return sb.String()

	case *Test:
		var sb strings.Builder
		sb.WriteString("Test {\n")
		sb.WriteString(ind1)
		sb.WriteString(fmt.Sprintf("name: %q,\n", v.Name))
		sb.WriteString(ind1)
		sb.WriteString("expr: ")
		sb.WriteString(DebugString(v.Expr, indent+1))
		sb.WriteString(",\n")
		sb.WriteString(ind1)
		sb.WriteString("args: ")
		sb.WriteString(debugExprList(v.Args, indent+1))
		sb.WriteString(",\n")
		sb.WriteString(ind)
		sb.WriteString("}")
		sb.WriteString(FormatSpan(v.span))
		return sb.String()

	case *List:
		var sb strings.Builder
		sb.WriteString("List {\n")
		sb.WriteString(ind1)
		sb.WriteString("items: ")
		sb.WriteString(debugExprList(v.Items, indent+1))
		sb.WriteString(",\n")
		sb.WriteString(ind)
		sb.WriteString("}")
		sb.WriteString(FormatSpan(v.span))
		return sb.String()

	case *Map:
		var sb strings.Builder
		sb.WriteString("Map {\n")
		sb.WriteString(ind1)
		sb.WriteString("keys: ")
		sb.WriteString(debugExprList(v.Keys, indent+1))
		sb.WriteString(",\n")
		sb.WriteString(ind1)
		sb.WriteString("values: ")
		sb.WriteString(debugExprList(v.Values, indent+1))
		sb.WriteString(",\n")
		sb.WriteString(ind)
		sb.WriteString("}")
		sb.WriteString(FormatSpan(v.span))
		return sb.String()

	default:
		return fmt.Sprintf("<%T>", n)
	}
}

func debugStmtList(stmts []Stmt, indent int) string {
	if len(stmts) == 0 {
		return "[]"
	}
	ind1 := strings.Repeat("    ", indent+1)
	ind := strings.Repeat("    ", indent)
	var sb strings.Builder
	sb.WriteString("[\n")
	for _, s := range stmts {
		sb.WriteString(ind1)
		sb.WriteString(DebugString(s, indent+1))
		sb.WriteString(",\n")
	}
	sb.WriteString(ind)
	sb.WriteString("]")
	return sb.String()
}

func debugExprList(exprs []Expr, indent int) string {
	if len(exprs) == 0 {
		return "[]"
	}
	ind1 := strings.Repeat("    ", indent+1)
	ind := strings.Repeat("    ", indent)
	var sb strings.Builder
	sb.WriteString("[\n")
	for _, e := range exprs {
		sb.WriteString(ind1)
		sb.WriteString(DebugString(e, indent+1))
		sb.WriteString(",\n")
	}
	sb.WriteString(ind)
	sb.WriteString("]")
	return sb.String()
}
