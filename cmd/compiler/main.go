package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version info, set by ldflags during release builds.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var jsonOut bool
	root := &cobra.Command{
		Use:           "pac <root-dir>",
		Short:         "pac compiles a small ML-family language to JavaScript",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			if runBuild(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], jsonOut) != 0 {
				return errBuildFailed
			}
			return nil
		},
	}
	root.Flags().BoolVar(&jsonOut, "json", false, "emit diagnostics as JSON instead of rendered text")
	root.AddCommand(newBuildCmd())
	root.AddCommand(newReplCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "pac %s (commit %s, built %s)\n", Version, Commit, BuildTime)
			return nil
		},
	}
}
