package queries

import (
	"context"

	"mercator-hq/quarry/pkg/catalog"
	"mercator-hq/quarry/pkg/query"
	"mercator-hq/quarry/pkg/queryable"
)

// BananasOrApples is the name list of the sample rule.
var BananasOrApples = []string{"Banana", "Apple"}

// projectionColumns select a catalog.ProductProjection from products joined
// to categories.
var projectionColumns = []string{
	"products.name AS name",
	"products.price AS price",
	"categories.name AS category_name",
}

const joinCategories = "JOIN categories ON categories.id = products.category_id"

// ByNames keeps products whose name is in Names, cheapest first. Products
// with equal prices are ordered by id. An empty Names matches nothing.
type ByNames struct {
	Names []string
}

// Apply implements query.Query.
func (q ByNames) Apply(src queryable.Queryable[catalog.Product]) queryable.Queryable[catalog.Product] {
	return src.
		Where("products.name IN ?", q.names()).
		OrderBy("products.price").
		OrderBy("products.id")
}

// Name implements query.Named.
func (ByNames) Name() string { return "products.by_names" }

// names returns a copy of Names.
func (q ByNames) names() []string {
	return append([]string(nil), q.Names...)
}

// ByNamesProjected is ByNames projected onto catalog.ProductProjection.
type ByNamesProjected struct {
	Names []string
}

// Apply implements query.Query.
func (q ByNamesProjected) Apply(src queryable.Queryable[catalog.Product]) queryable.Queryable[catalog.ProductProjection] {
	filtered := ByNames(q).Apply(src).Joins(joinCategories)
	return queryable.Project[catalog.Product, catalog.ProductProjection](filtered, projectionColumns...)
}

// Name implements query.Named.
func (ByNamesProjected) Name() string { return "products.by_names_projected" }

// ByNamesList materializes ByNamesProjected into a slice.
type ByNamesList struct {
	Names []string
}

// Execute implements query.Terminal.
func (q ByNamesList) Execute(ctx context.Context, src queryable.Queryable[catalog.Product]) ([]catalog.ProductProjection, error) {
	return ByNamesProjected(q).Apply(src).ToList(ctx)
}

// Name implements query.Named.
func (ByNamesList) Name() string { return "products.by_names_list" }

// ByNamesFirst returns the cheapest product matching Names, projected, or nil
// when none match.
type ByNamesFirst struct {
	Names []string
}

// Execute implements query.Terminal.
func (q ByNamesFirst) Execute(ctx context.Context, src queryable.Queryable[catalog.Product]) (*catalog.ProductProjection, error) {
	return ByNamesProjected(q).Apply(src).FirstOrDefault(ctx)
}

// Name implements query.Named.
func (ByNamesFirst) Name() string { return "products.by_names_first" }

// PriceBetween keeps products priced within [Min, Max], cheapest first.
type PriceBetween struct {
	Min float64
	Max float64
}

// Apply implements query.Query.
func (q PriceBetween) Apply(src queryable.Queryable[catalog.Product]) queryable.Queryable[catalog.Product] {
	return src.
		Where("products.price BETWEEN ? AND ?", q.Min, q.Max).
		OrderBy("products.price").
		OrderBy("products.id")
}

// Name implements query.Named.
func (PriceBetween) Name() string { return "products.price_between" }

// InCategory keeps products of one category.
type InCategory struct {
	CategoryID int64
}

// Apply implements query.Query.
func (q InCategory) Apply(src queryable.Queryable[catalog.Product]) queryable.Queryable[catalog.Product] {
	return src.Where("products.category_id = ?", q.CategoryID)
}

// Name implements query.Named.
func (InCategory) Name() string { return "products.in_category" }

// BananasOrApplesOrderedByPrice returns the sample rule as a composable query.
func BananasOrApplesOrderedByPrice() ByNames {
	return ByNames{Names: BananasOrApples}
}

// BananasOrApplesProjected returns the sample rule as a projecting query.
func BananasOrApplesProjected() ByNamesProjected {
	return ByNamesProjected{Names: BananasOrApples}
}

// BananasOrApplesList returns the sample rule as a materializing list query.
func BananasOrApplesList() ByNamesList {
	return ByNamesList{Names: BananasOrApples}
}

// BananasOrApplesFirst returns the sample rule as a first-or-default query.
func BananasOrApplesFirst() ByNamesFirst {
	return ByNamesFirst{Names: BananasOrApples}
}

// Compile-time checks that each rule has the shape it claims.
var (
	_ query.Query[catalog.Product, catalog.Product]                = ByNames{}
	_ query.Query[catalog.Product, catalog.ProductProjection]      = ByNamesProjected{}
	_ query.Terminal[catalog.Product, []catalog.ProductProjection] = ByNamesList{}
	_ query.Terminal[catalog.Product, *catalog.ProductProjection]  = ByNamesFirst{}
	_ query.Query[catalog.Product, catalog.Product]                = PriceBetween{}
	_ query.Query[catalog.Product, catalog.Product]                = InCategory{}
)
