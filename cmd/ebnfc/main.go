// Command ebnfc compiles a grammar description (spec.md §2) into the Go
// source of a standalone recursive-descent parser (spec.md §4.4), or checks
// one for diagnostics without emitting code.
//
// Usage mirrors the prior design's llxgen in spirit (flag names, defaults, a
// one-line usage string per flag) but is built on cobra's subcommand
// structure rather than the stdlib flag package, since this CLI has two
// distinct verbs (generate, check) where the prior design's had one.
package main

import "os"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SilenceUsage = true
	root.SilenceErrors = true

	err := root.Execute()
	switch {
	case err == nil:
		return 0
	case isExitCoder(err):
		return err.(exitCoder).ExitCode()
	default:
		root.PrintErrln(err)
		return exitUsageError
	}
}
