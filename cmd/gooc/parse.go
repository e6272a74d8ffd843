package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/darragh-downey/goo/ast"
	"github.com/darragh-downey/goo/lexer"
	"github.com/darragh-downey/goo/parser"
	"github.com/darragh-downey/goo/report"
	"github.com/darragh-downey/goo/token"
)

func newParseCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "dump the AST for a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			unit, rep, err := parseFile(args[0])
			if err != nil {
				return err
			}
			printUnit(cmd.OutOrStdout(), unit)
			for _, d := range rep.Diagnostics() {
				fmt.Fprintln(cmd.ErrOrStderr(), d.String())
			}
			if rep.HasErrors() {
				return fmt.Errorf("parse failed with errors")
			}
			return nil
		},
	}
}

// parseFile lexes and parses path, collecting both lexer and parser
// diagnostics into a single report.Report.
func parseFile(path string) (*ast.Unit, *report.Report, error) {
	src, err := readSource(path)
	if err != nil {
		return nil, nil, err
	}

	rep := &report.Report{}
	lx := lexer.New(path, src)
	lx.SetErrorCallback(func(pos token.Position, message string) {
		rep.Error(report.LexerError, message, report.At(report.Position{
			File: pos.File, Line: pos.Line, Column: pos.Column,
		}))
	})
	ctx := ast.NewContext()
	p := parser.New(lx, ctx, rep)
	unit := p.ParseUnit()
	return unit, rep, nil
}
