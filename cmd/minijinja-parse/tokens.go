package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/youguanxinqing/minijinja/lexer"
)

// TokensHandler tokenizes a template file and prints one token per line.
type TokensHandler struct {
	asExpr bool
	fs     afero.Fs
}

func NewTokensCommand() *cobra.Command {
	me := &TokensHandler{fs: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:   "tokens <template-file>",
		Short: "tokenize a template file and dump the token stream",
		Args:  cobra.ExactArgs(1),
	}

	cmd.Flags().BoolVar(&me.asExpr, "expr", false, "tokenize in expression mode")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd, args[0])
	}

	return cmd
}

func (me *TokensHandler) Run(ctx context.Context, cmd *cobra.Command, path string) error {
	source, err := afero.ReadFile(me.fs, path)
	if err != nil {
		return errors.Errorf("failed to read template: %w", err)
	}

	lex := lexer.New(string(source), me.asExpr)
	count := 0
	for {
		tok, err := lex.Next()
		if err != nil {
			return errors.Errorf("failed to tokenize template: %w", err)
		}
		if tok == nil {
			break
		}
		count++
		cmd.Println(fmt.Sprintf("%s%s", tok, formatTokenSpan(tok.Span)))
	}
	zerolog.Ctx(ctx).Debug().
		Str("template", path).
		Int("tokens", count).
		Msg("tokenized template")

	return nil
}

func formatTokenSpan(s lexer.Span) string {
	return fmt.Sprintf(" @ %d:%d-%d:%d", s.StartLine, s.StartCol, s.EndLine, s.EndCol)
}
