package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/quarry/pkg/catalog"
	"mercator-hq/quarry/pkg/catalog/queries"
	"mercator-hq/quarry/pkg/cli"
	"mercator-hq/quarry/pkg/query"
	"mercator-hq/quarry/pkg/repository"
	"mercator-hq/quarry/pkg/telemetry/logging"
)

// productsFlags selects the products query variant.
type productsFlags struct {
	names     []string
	projected bool
	first     bool
	skip      int
	take      int
	async     bool
}

func (f productsFlags) validate(cmd *cobra.Command) error {
	switch {
	case f.first && f.paged(cmd):
		return cli.NewConfigError("first", "cannot be combined with --skip or --take")
	case f.skip < 0:
		return cli.NewConfigError("skip", "must be non-negative")
	case f.take < 0:
		return cli.NewConfigError("take", "must be non-negative")
	}
	return nil
}

func (f productsFlags) paged(cmd *cobra.Command) bool {
	return cmd.Flags().Changed("skip") || cmd.Flags().Changed("take")
}

func newQueryCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a catalog query",
		Long: `Run one of the catalog queries through the repository and print the
result as a table, JSON or CSV.`,
	}
	cmd.AddCommand(
		newQueryProductsCmd(opts),
		newQuerySummaryCmd(opts),
		newQueryStatsCmd(opts),
	)
	return cmd
}

func newQueryProductsCmd(opts *rootOptions) *cobra.Command {
	var flags productsFlags

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products by name, cheapest first",
		Long: `List the products with the given names ordered by price. Without --name
the query matches bananas and apples.

Examples:
  # Bananas and apples as a table
  quarry query products

  # Name, price and category of the cheapest match
  quarry query products --name Cherry --name Apple --projected --first

  # Second page of three, as CSV
  quarry query products --name Apple,Banana,Cherry --skip 3 --take 3 -o csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(cmd); err != nil {
				return err
			}
			if len(flags.names) == 0 {
				flags.names = queries.BananasOrApples
			}
			return runQuery(cmd, opts, "query products", func(ctx context.Context, repo *repository.Repository) (any, error) {
				return runProducts(ctx, repo, flags, flags.paged(cmd))
			})
		},
	}

	cmd.Flags().StringSliceVarP(&flags.names, "name", "n", nil, "product names to match (repeatable, comma separated)")
	cmd.Flags().BoolVar(&flags.projected, "projected", false, "return name, price and category name")
	cmd.Flags().BoolVar(&flags.first, "first", false, "return only the cheapest match")
	cmd.Flags().IntVar(&flags.skip, "skip", 0, "rows to skip")
	cmd.Flags().IntVar(&flags.take, "take", 0, "rows to return (0 for all)")
	cmd.Flags().BoolVar(&flags.async, "async", false, "run the query on its own goroutine")
	return cmd
}

func runProducts(ctx context.Context, repo *repository.Repository, f productsFlags, paged bool) (any, error) {
	plain := queries.ByNames{Names: f.names}
	projected := queries.ByNamesProjected{Names: f.names}
	page := query.Pagination{Skip: f.skip, Take: f.take}

	switch {
	case f.first && f.projected:
		return repository.Get(ctx, repo, queries.ByNamesFirst{Names: f.names})
	case f.first:
		return repository.Get(ctx, repo, query.FirstOrDefault[catalog.Product, catalog.Product](plain))
	case paged && f.projected:
		return repository.Get(ctx, repo, query.Page[catalog.Product, catalog.ProductProjection](projected, page))
	case paged:
		return repository.Get(ctx, repo, query.Page[catalog.Product, catalog.Product](plain, page))
	case f.projected && f.async:
		return repository.GetAsync(ctx, repo, queries.ByNamesList{Names: f.names}).Await(ctx)
	case f.projected:
		return repository.GetList(ctx, repo, projected)
	case f.async:
		return repository.GetListAsync(ctx, repo, plain).Await(ctx)
	default:
		return repository.GetList(ctx, repo, plain)
	}
}

func newQuerySummaryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Product count and average price per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, opts, "query summary", func(ctx context.Context, repo *repository.Repository) (any, error) {
				return repository.GetContextList(ctx, repo, queries.CategorySummaries{})
			})
		},
	}
}

func newQueryStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count products and categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, opts, "query stats", func(ctx context.Context, repo *repository.Repository) (any, error) {
				return repository.GetContext(ctx, repo, queries.CatalogStats{})
			})
		},
	}
}

// runQuery opens the data source, runs fn and prints its result. Paged
// results print their items; the total goes to the log.
func runQuery(cmd *cobra.Command, opts *rootOptions, name string, fn func(context.Context, *repository.Repository) (any, error)) error {
	formatter, err := opts.formatter(cmd)
	if err != nil {
		return err
	}

	ctx := logging.WithCommand(cmd.Context(), name)
	a, err := opts.openApp(ctx, cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := fn(ctx, a.repo)
	if err != nil {
		return cli.NewCommandError(name, err)
	}

	switch page := result.(type) {
	case query.PageResult[catalog.Product]:
		a.logger.InfoContext(ctx, "Page loaded", "total", page.Total, "skip", page.Skip, "take", page.Take)
		result = page.Items
	case query.PageResult[catalog.ProductProjection]:
		a.logger.InfoContext(ctx, "Page loaded", "total", page.Total, "skip", page.Skip, "take", page.Take)
		result = page.Items
	}

	if err := formatter.FormatTo(cmd.OutOrStdout(), result); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
