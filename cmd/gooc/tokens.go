package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/darragh-downey/goo/lexer"
	"github.com/darragh-downey/goo/token"
)

func newTokensCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "dump the token stream for a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			lx := lexer.New(args[0], src)
			for {
				tok := lx.NextToken()
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", tok.Pos, tok)
				if tok.Kind == token.EOF {
					return nil
				}
			}
		},
	}
}
