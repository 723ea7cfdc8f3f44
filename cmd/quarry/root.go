package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/quarry/pkg/cli"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configFile string
	logLevel   string
	output     string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "quarry",
		Short: "Quarry - composable, instrumented queries over a product catalog",
		Long: `Quarry runs composable catalog queries against SQLite or PostgreSQL
through a repository that logs, measures and traces every call.

Configuration is read from an optional YAML file and QUARRY_* environment
variables, which take precedence over the file.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file path (defaults and QUARRY_* variables when empty)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", string(cli.FormatAuto), "output format: auto, text, json, csv")

	cmd.AddCommand(
		newVersionCmd(opts),
		newValidateCmd(opts),
		newMigrateCmd(opts),
		newQueryCmd(opts),
		newExplainCmd(opts),
		newServeCmd(opts),
	)
	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return cli.ExitCode(err)
	}
	return cli.ExitOK
}
