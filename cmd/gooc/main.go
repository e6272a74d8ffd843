// Command gooc is the frontend driver: it runs the lexer, parser, and
// checker over a source file and prints whichever stage the subcommand
// asks for. It exists to give the frontend an entry point a reader can
// run end to end; it is not a general build driver, since no code
// generation backend exists in core scope.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
