package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youguanxinqing/minijinja/parser"
)

func TestRenderNodeFormats(t *testing.T) {
	tmpl, err := parser.Parse("Hello {{ name }}!", "test.html")
	require.NoError(t, err)

	t.Run("debug", func(t *testing.T) {
		out, err := renderNode(tmpl, "debug")
		require.NoError(t, err)
		assert.Contains(t, out, "Template {")
		assert.Contains(t, out, `raw: "Hello "`)
	})

	t.Run("json", func(t *testing.T) {
		out, err := renderNode(tmpl, "json")
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, "template", decoded["kind"])
		children, ok := decoded["children"].([]any)
		require.True(t, ok)
		assert.Len(t, children, 3)
	})

	t.Run("yaml", func(t *testing.T) {
		out, err := renderNode(tmpl, "yaml")
		require.NoError(t, err)
		assert.Contains(t, out, "kind: template")
		assert.Contains(t, out, "kind: emit_expr")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := renderNode(tmpl, "xml")
		require.Error(t, err)
	})
}

func TestNodeToMapCoversExprs(t *testing.T) {
	expr, err := parser.ParseExpr("items[0].name|join(', ') is defined and {'a': [1.5, none]} or not -x")
	require.NoError(t, err)

	data, jsonErr := json.Marshal(nodeToMap(expr))
	require.NoError(t, jsonErr)

	for _, kind := range []string{
		"bin_op", "unary_op", "get_item", "get_attr",
		"filter", "test", "map", "list", "const", "var",
	} {
		assert.Contains(t, string(data), `"kind":"`+kind+`"`)
	}
}

func TestASTCommandWithMemFs(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "t.html", []byte("Hello {{ name }}!"), 0o644))

	me := &ASTHandler{format: "json", fs: fs}
	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	require.NoError(t, me.Run(context.Background(), cmd, "t.html"))
	assert.Contains(t, buf.String(), `"kind": "emit_raw"`)

	require.Error(t, me.Run(context.Background(), cmd, "missing.html"))
}

func TestTokensCommandWithMemFs(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "t.html", []byte("{{ x }}"), 0o644))

	me := &TokensHandler{fs: fs}
	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	require.NoError(t, me.Run(context.Background(), cmd, "t.html"))
	assert.Contains(t, buf.String(), "Ident(\"x\")")
}
