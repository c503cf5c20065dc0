package main

import (
	"github.com/spf13/cobra"

	"github.com/colebrook/ebnfc/diag"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ebnfc",
		Short: "Compile grammar descriptions into standalone Go parsers",
	}

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newCheckCmd())
	return root
}

// addVerboseFlag is shared by both subcommands (spec.md §6's `--verbose`).
func addVerboseFlag(cmd *cobra.Command, dest *string) {
	cmd.Flags().StringVarP(dest, "verbose", "v", diag.Error.String(),
		"diagnostic verbosity: error, warning, success, debug1, info, debug2, debug3, all")
}

func resolveVerbosity(level string) (diag.Level, error) {
	l, ok := diag.ParseLevel(level)
	if !ok {
		return 0, usageError(errUnknownVerbosity(level))
	}
	return l, nil
}

type errUnknownVerbosity string

func (e errUnknownVerbosity) Error() string {
	return "unknown --verbose level " + string(e)
}
