package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"mercator-hq/quarry/pkg/catalog"
	"mercator-hq/quarry/pkg/catalog/queries"
	"mercator-hq/quarry/pkg/cli"
	"mercator-hq/quarry/pkg/repository"
	"mercator-hq/quarry/pkg/telemetry/logging"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the catalog schema",
		Long: `Create or update the products and categories tables in the configured
data source. With --seed the sample catalog is inserted in one transaction;
rows that already exist are left alone.

Examples:
  # Create the tables in ./quarry.db
  quarry migrate

  # Create and seed a PostgreSQL database
  QUARRY_DATASOURCE_DRIVER=pgx QUARRY_DATASOURCE_DSN=postgres://... quarry migrate --seed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logging.WithCommand(cmd.Context(), "migrate")

			a, err := opts.openApp(ctx, cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			start := time.Now()

			if err := catalog.Migrate(ctx, a.db); err != nil {
				return cli.NewCommandError("migrate", err)
			}
			fmt.Fprintf(out, "✓ Schema migrated (%s)\n", english.Plural(len(catalog.Models()), "table", ""))

			if seed {
				if err := a.seed(ctx); err != nil {
					return cli.NewCommandError("migrate", err)
				}
				fmt.Fprintln(out, "✓ Catalog seeded")
			}

			stats, err := repository.GetContext(ctx, a.repo, queries.CatalogStats{})
			if err != nil {
				return cli.NewCommandError("migrate", err)
			}
			fmt.Fprintf(out, "  %s in %s (%s)\n",
				english.Plural(int(stats.Products), "product", ""),
				english.Plural(int(stats.Categories), "category", "categories"),
				time.Since(start).Round(time.Millisecond),
			)
			a.logger.InfoContext(ctx, "Migration complete", "products", stats.Products, "categories", stats.Categories)
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "insert the sample catalog")
	return cmd
}
