package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/quarry/pkg/catalog"
	"mercator-hq/quarry/pkg/cli"
	"mercator-hq/quarry/pkg/telemetry/health"
	"mercator-hq/quarry/pkg/telemetry/logging"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	var connect bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		Long: `Load the configuration file and environment overrides and report every
invalid setting.

With --connect the data source is also opened and checked: the database must
answer and the catalog tables must exist.

Examples:
  # Check a file
  quarry validate --config quarry.yaml

  # Also check the database
  quarry validate --config quarry.yaml --connect`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, opts, connect)
		},
	}
	cmd.Flags().BoolVar(&connect, "connect", false, "open the data source and check the schema")
	return cmd
}

func runValidate(cmd *cobra.Command, opts *rootOptions, connect bool) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	source := opts.configFile
	if source == "" {
		source = "defaults"
	}
	fmt.Fprintf(out, "✓ Configuration valid (%s)\n", source)
	fmt.Fprintf(out, "  Data source: %s %s\n", cfg.DataSource.Driver, logging.RedactDSN(cfg.DataSource.DSN))
	fmt.Fprintf(out, "  Listen address: %s\n", cfg.Server.ListenAddress)

	if !connect {
		return nil
	}

	a, err := opts.openApp(cmd.Context(), cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
	checker.RegisterCheck("database", health.DatabaseCheck(a.db))
	checker.RegisterCheck("schema", health.SchemaCheck(a.db, catalog.ProductsTable, catalog.CategoriesTable))

	status := checker.CheckReadiness(cmd.Context())
	for _, name := range checker.ListChecks() {
		result := status.Checks[name]
		mark := "✓"
		if result.Status != health.StatusOK {
			mark = "✗"
		}
		fmt.Fprintf(out, "%s %s: %s\n", mark, name, describe(result))
	}

	if !status.Ready() {
		return cli.NewCommandError("validate", fmt.Errorf("data source is %s", status.Status))
	}
	return nil
}

func describe(r health.CheckResult) string {
	if r.Message != "" {
		return r.Message
	}
	return string(r.Status)
}
