package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/youguanxinqing/minijinja/parser"
)

// ASTHandler parses a template file and prints the syntax tree.
type ASTHandler struct {
	format string
	fs     afero.Fs
}

func NewASTCommand() *cobra.Command {
	me := &ASTHandler{fs: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:   "ast <template-file>",
		Short: "parse a template file and dump its syntax tree",
		Args:  cobra.ExactArgs(1),
	}

	cmd.Flags().StringVar(&me.format, "format", "debug", "output format: debug, json or yaml")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd, args[0])
	}

	return cmd
}

func (me *ASTHandler) Run(ctx context.Context, cmd *cobra.Command, path string) error {
	source, err := afero.ReadFile(me.fs, path)
	if err != nil {
		return errors.Errorf("failed to read template: %w", err)
	}

	start := time.Now()
	tmpl, err := parser.Parse(string(source), path)
	if err != nil {
		return errors.Errorf("failed to parse template: %w", err)
	}
	zerolog.Ctx(ctx).Debug().
		Str("template", path).
		Dur("elapsed", time.Since(start)).
		Msg("parsed template")

	out, err := renderNode(tmpl, me.format)
	if err != nil {
		return err
	}
	cmd.Println(out)
	return nil
}

// renderNode serializes a node in one of the supported output formats.
func renderNode(node parser.Node, format string) (string, error) {
	switch format {
	case "debug":
		return parser.DebugString(node, 0), nil
	case "json":
		data, err := json.MarshalIndent(nodeToMap(node), "", "  ")
		if err != nil {
			return "", errors.Errorf("failed to encode syntax tree: %w", err)
		}
		return string(data), nil
	case "yaml":
		data, err := yaml.Marshal(nodeToMap(node))
		if err != nil {
			return "", errors.Errorf("failed to encode syntax tree: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}
