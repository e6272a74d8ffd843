package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/darragh-downey/goo/check"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "lex, parse, and type-check a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			unit, rep, err := parseFile(args[0])
			if err != nil {
				return err
			}

			checker := check.NewChecker(rep, zap.NewNop())
			checker.Check(unit)

			for _, d := range rep.Diagnostics() {
				fmt.Fprintln(cmd.ErrOrStderr(), d.String())
			}
			if rep.HasErrors() {
				return fmt.Errorf("check failed with %d diagnostic(s)", rep.Len())
			}
			return nil
		},
	}
}
