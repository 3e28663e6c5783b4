package main

import (
	"context"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/youguanxinqing/minijinja/parser"
)

// ExprHandler parses a standalone expression from the command line.
type ExprHandler struct {
	format string
}

func NewExprCommand() *cobra.Command {
	me := &ExprHandler{}

	cmd := &cobra.Command{
		Use:   "expr <expression>",
		Short: "parse a standalone expression and dump its syntax tree",
		Args:  cobra.ExactArgs(1),
	}

	cmd.Flags().StringVar(&me.format, "format", "debug", "output format: debug, json or yaml")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd, args[0])
	}

	return cmd
}

func (me *ExprHandler) Run(ctx context.Context, cmd *cobra.Command, source string) error {
	expr, err := parser.ParseExpr(source)
	if err != nil {
		return errors.Errorf("failed to parse expression: %w", err)
	}

	out, err := renderNode(expr, me.format)
	if err != nil {
		return err
	}
	cmd.Println(out)
	return nil
}
