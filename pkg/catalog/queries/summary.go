package queries

import (
	"context"

	"mercator-hq/quarry/pkg/catalog"
	"mercator-hq/quarry/pkg/query"
	"mercator-hq/quarry/pkg/queryable"
)

// CategorySummaries lists every category with its product count and average
// price, ordered by category name. Categories without products are included
// with a zero count.
type CategorySummaries struct{}

// Apply implements query.ContextQuery.
func (CategorySummaries) Apply(src queryable.Source) queryable.Queryable[catalog.CategorySummary] {
	categories := queryable.From[catalog.Category](src).
		Joins("LEFT JOIN products ON products.category_id = categories.id").
		Group("categories.id").
		Group("categories.name").
		OrderBy("categories.name")

	return queryable.Project[catalog.Category, catalog.CategorySummary](categories,
		"categories.name AS name",
		"COUNT(products.id) AS product_count",
		"COALESCE(AVG(products.price), 0) AS average_price",
	)
}

// Name implements query.Named.
func (CategorySummaries) Name() string { return "categories.summaries" }

// CatalogStats counts products and categories.
type CatalogStats struct{}

// Execute implements query.ContextTerminal.
func (CatalogStats) Execute(ctx context.Context, src queryable.Source) (catalog.Stats, error) {
	products, err := queryable.From[catalog.Product](src).Count(ctx)
	if err != nil {
		return catalog.Stats{}, err
	}
	categories, err := queryable.From[catalog.Category](src).Count(ctx)
	if err != nil {
		return catalog.Stats{}, err
	}
	return catalog.Stats{Products: products, Categories: categories}, nil
}

// Name implements query.Named.
func (CatalogStats) Name() string { return "catalog.stats" }

var (
	_ query.ContextQuery[catalog.CategorySummary] = CategorySummaries{}
	_ query.ContextTerminal[catalog.Stats]        = CatalogStats{}
)
