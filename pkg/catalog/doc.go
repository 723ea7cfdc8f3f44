// Package catalog holds the sample domain used by quarry: products that belong
// to categories, plus the read-only projections derived from them.
//
// Migrate creates the tables and Seed inserts one category ("Fruit") with
// three products (Apple 10, Banana 15, Cherry 8). The concrete query objects
// over these models live in the queries subpackage.
package catalog
