package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/colebrook/ebnfc/codegen"
)

func newGenerateCmd() *cobra.Command {
	var outPath, verbose string

	cmd := &cobra.Command{
		Use:   "generate <grammar-file>",
		Short: "Compile a grammar description into a standalone parser's Go source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := resolveVerbosity(verbose)
			if err != nil {
				return err
			}
			if outPath == "" {
				return usageError(errMissingOut)
			}

			g, fs, sink, err := compileGrammar(args[0], level, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			src := codegen.Generate(g, fs, sink)
			if sink.Failed() {
				return compileError(errGrammarDiagnostics)
			}

			if err := os.WriteFile(outPath, src, 0o644); err != nil {
				return ioError(err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output path for the generated parser's Go source (required)")
	addVerboseFlag(cmd, &verbose)
	return cmd
}

var errMissingOut = staticError("--out is required")
var errGrammarDiagnostics = staticError("grammar has errors; see diagnostics above")

type staticError string

func (e staticError) Error() string { return string(e) }
