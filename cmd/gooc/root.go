package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/darragh-downey/goo/runtime/alloc"
	"github.com/darragh-downey/goo/runtime/channel"
)

// diagnosticStyle enumerates the values --diagnostics accepts. Only
// simple is actually rendered today (report.Diagnostic.String() has no
// color or width-aware layout); monochrome and colored are accepted now
// so a future report renderer has a stable flag surface to grow into,
// rather than an unused one.
var diagnosticStyles = map[string]bool{
	"simple":     true,
	"monochrome": true,
	"colored":    true,
}

// allocStrategies maps the --alloc-on-failure flag's accepted spellings
// onto runtime/alloc.Strategy, the same failure-strategy enum every
// allocator variant in runtime/alloc shares.
var allocStrategies = map[string]alloc.Strategy{
	"return-null": alloc.ReturnNull,
	"panic":       alloc.Panic,
	"retry":       alloc.Retry,
}

type rootOptions struct {
	diagnostics  string
	allocFailure string
	poolWorkers  int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "gooc",
		Short:         "gooc runs the lexer, parser, and checker over a source file",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&opts.diagnostics, "diagnostics", "simple",
		"diagnostic rendering style: simple|monochrome|colored")
	cmd.PersistentFlags().StringVar(&opts.allocFailure, "alloc-on-failure", "return-null",
		"default allocator failure strategy for runtime/alloc consumers: return-null|panic|retry")
	cmd.PersistentFlags().IntVar(&opts.poolWorkers, "pool-workers", 4,
		"worker count for runtime/channel's thread pool")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !diagnosticStyles[opts.diagnostics] {
			return fmt.Errorf("unsupported --diagnostics value %q (want simple, monochrome, or colored)", opts.diagnostics)
		}
		if _, ok := allocStrategies[opts.allocFailure]; !ok {
			return fmt.Errorf("unsupported --alloc-on-failure value %q (want return-null, panic, or retry)", opts.allocFailure)
		}
		if opts.poolWorkers < 1 || opts.poolWorkers > channel.MaxPoolSize {
			return fmt.Errorf("--pool-workers must be between 1 and %d", channel.MaxPoolSize)
		}
		return nil
	}

	cmd.AddCommand(newTokensCmd(opts), newParseCmd(opts), newCheckCmd(opts))
	return cmd
}
