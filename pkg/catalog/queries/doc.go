// Package queries contains the query objects over the catalog.
//
// The sample rule "products named Apple or Banana, cheapest first" is
// available in every shape:
//
//	ByNames           query.Query[Product, Product]
//	ByNamesProjected  query.Query[Product, ProductProjection]
//	ByNamesList       query.Terminal[Product, []ProductProjection]
//	ByNamesFirst      query.Terminal[Product, *ProductProjection]
//
// CategorySummaries and CatalogStats operate on the whole data source and
// join or count across both catalog tables.
//
// All query objects are plain values. They hold no state beyond their
// parameters and can be shared between goroutines.
package queries
