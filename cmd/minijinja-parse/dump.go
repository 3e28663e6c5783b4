package main

import (
	"fmt"

	"github.com/youguanxinqing/minijinja/parser"
	"github.com/youguanxinqing/minijinja/syntax"
)

// nodeToMap converts a syntax tree to nested maps for json/yaml output.
// Every node carries a "kind" discriminator and its source span.
func nodeToMap(n parser.Node) map[string]any {
	switch v := n.(type) {
	case *parser.Template:
		return nodeMap("template", v.Span(), map[string]any{
			"children": stmtsToMaps(v.Children),
		})
	case *parser.EmitRaw:
		return nodeMap("emit_raw", v.Span(), map[string]any{
			"raw": v.Raw,
		})
	case *parser.EmitExpr:
		return nodeMap("emit_expr", v.Span(), map[string]any{
			"expr": nodeToMap(v.Expr),
		})
	case *parser.ForLoop:
		return nodeMap("for_loop", v.Span(), map[string]any{
			"target": v.Target,
			"iter":   nodeToMap(v.Iter),
			"body":   stmtsToMaps(v.Body),
		})
	case *parser.IfCond:
		return nodeMap("if_cond", v.Span(), map[string]any{
			"expr":       nodeToMap(v.Expr),
			"true_body":  stmtsToMaps(v.TrueBody),
			"false_body": stmtsToMaps(v.FalseBody),
		})
	case *parser.WithBlock:
		assignments := make([]map[string]any, 0, len(v.Assignments))
		for _, a := range v.Assignments {
			assignments = append(assignments, map[string]any{
				"target": a.Target,
				"expr":   nodeToMap(a.Expr),
			})
		}
		return nodeMap("with_block", v.Span(), map[string]any{
			"assignments": assignments,
			"body":        stmtsToMaps(v.Body),
		})
	case *parser.Block:
		return nodeMap("block", v.Span(), map[string]any{
			"name": v.Name,
			"body": stmtsToMaps(v.Body),
		})
	case *parser.Extends:
		return nodeMap("extends", v.Span(), map[string]any{
			"name": nodeToMap(v.Name),
		})
	case *parser.AutoEscape:
		return nodeMap("auto_escape", v.Span(), map[string]any{
			"enabled": nodeToMap(v.Enabled),
			"body":    stmtsToMaps(v.Body),
		})
	case *parser.Var:
		return nodeMap("var", v.Span(), map[string]any{
			"id": v.ID,
		})
	case *parser.Const:
		return nodeMap("const", v.Span(), map[string]any{
			"value": v.Value.Interface(),
		})
	case *parser.UnaryOp:
		return nodeMap("unary_op", v.Span(), map[string]any{
			"op":   v.Op.String(),
			"expr": nodeToMap(v.Expr),
		})
	case *parser.BinOp:
		return nodeMap("bin_op", v.Span(), map[string]any{
			"op":    v.Op.String(),
			"left":  nodeToMap(v.Left),
			"right": nodeToMap(v.Right),
		})
	case *parser.GetAttr:
		return nodeMap("get_attr", v.Span(), map[string]any{
			"expr": nodeToMap(v.Expr),
			"name": v.Name,
		})
	case *parser.GetItem:
		return nodeMap("get_item", v.Span(), map[string]any{
			"expr":           nodeToMap(v.Expr),
			"subscript_expr": nodeToMap(v.SubscriptExpr),
		})
	case *parser.Call:
		return nodeMap("call", v.Span(), map[string]any{
			"expr": nodeToMap(v.Expr),
			"args": exprsToMaps(v.Args),
		})
	case *parser.Filter:
		return nodeMap("filter", v.Span(), map[string]any{
			"name": v.Name,
			"expr": nodeToMap(v.Expr),
			"args": exprsToMaps(v.Args),
		})
	case *parser.Test:
		return nodeMap("test", v.Span(), map[string]any{
			"name": v.Name,
			"expr": nodeToMap(v.Expr),
			"args": exprsToMaps(v.Args),
		})
	case *parser.List:
		return nodeMap("list", v.Span(), map[string]any{
			"items": exprsToMaps(v.Items),
		})
	case *parser.Map:
		return nodeMap("map", v.Span(), map[string]any{
			"keys":   exprsToMaps(v.Keys),
			"values": exprsToMaps(v.Values),
		})
	default:
		return map[string]any{"kind": fmt.Sprintf("%T", n)}
	}
}

func nodeMap(kind string, span syntax.Span, fields map[string]any) map[string]any {
	m := map[string]any{
		"kind": kind,
		"span": spanToMap(span),
	}
	for k, v := range fields {
		m[k] = v
	}
	return m
}

func spanToMap(s syntax.Span) map[string]any {
	return map[string]any{
		"start_line":   s.StartLine,
		"start_col":    s.StartCol,
		"start_offset": s.StartOffset,
		"end_line":     s.EndLine,
		"end_col":      s.EndCol,
		"end_offset":   s.EndOffset,
	}
}

func stmtsToMaps(stmts []parser.Stmt) []map[string]any {
	rv := make([]map[string]any, 0, len(stmts))
	for _, s := range stmts {
		rv = append(rv, nodeToMap(s))
	}
	return rv
}

func exprsToMaps(exprs []parser.Expr) []map[string]any {
	rv := make([]map[string]any, 0, len(exprs))
	for _, e := range exprs {
		rv = append(rv, nodeToMap(e))
	}
	return rv
}
