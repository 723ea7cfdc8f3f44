package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/quarry/pkg/catalog"
	"mercator-hq/quarry/pkg/catalog/queries"
	"mercator-hq/quarry/pkg/query"
	"mercator-hq/quarry/pkg/queryable"
)

func newExplainCmd(opts *rootOptions) *cobra.Command {
	var (
		names     []string
		projected bool
		skip      int
		take      int
	)

	cmd := &cobra.Command{
		Use:   "explain [products|summary]",
		Short: "Print the SQL a query would run",
		Long: `Render the statement a catalog query compiles to, with its arguments
inlined, without running it. The data source is opened only to select the SQL
dialect.

Examples:
  quarry explain products --name Apple --projected
  quarry explain products --skip 10 --take 5
  quarry explain summary`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"products", "summary"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "products"
			if len(args) == 1 {
				target = args[0]
			}
			if len(names) == 0 {
				names = queries.BananasOrApples
			}

			a, err := opts.openApp(cmd.Context(), cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			var sql string
			switch target {
			case "summary":
				sql = query.ApplyContext(a.db.Source(), queries.CategorySummaries{}).SQL()
			default:
				sql = explainProducts(queryable.From[catalog.Product](a.db.Source()), names, projected, skip, take)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), sql)
			return err
		},
	}

	cmd.Flags().StringSliceVarP(&names, "name", "n", nil, "product names to match (repeatable, comma separated)")
	cmd.Flags().BoolVar(&projected, "projected", false, "explain the projected variant")
	cmd.Flags().IntVar(&skip, "skip", 0, "rows to skip")
	cmd.Flags().IntVar(&take, "take", 0, "rows to return (0 for all)")
	return cmd
}

// explainProducts renders the products query with an optional window.
func explainProducts(src queryable.Queryable[catalog.Product], names []string, projected bool, skip, take int) string {
	if projected {
		q := query.Apply(src, queries.ByNamesProjected{Names: names})
		return window(q, skip, take).SQL()
	}
	q := query.Apply(src, queries.ByNames{Names: names})
	return window(q, skip, take).SQL()
}

func window[T any](q queryable.Queryable[T], skip, take int) queryable.Queryable[T] {
	if skip > 0 {
		q = q.Skip(skip)
	}
	if take > 0 {
		q = q.Take(take)
	}
	return q
}
