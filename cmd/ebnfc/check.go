package main

import (
	"github.com/spf13/cobra"
)

// newCheckCmd runs lex -> parse -> resolve and reports diagnostics without
// emitting code (SPEC_FULL.md's "ebnfc check" supplement), useful for
// editor integration and CI grammar linting.
func newCheckCmd() *cobra.Command {
	var verbose string

	cmd := &cobra.Command{
		Use:   "check <grammar-file>",
		Short: "Validate a grammar description and report diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := resolveVerbosity(verbose)
			if err != nil {
				return err
			}

			_, _, sink, err := compileGrammar(args[0], level, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if sink.Failed() {
				return compileError(errGrammarDiagnostics)
			}
			return nil
		},
	}

	addVerboseFlag(cmd, &verbose)
	return cmd
}
