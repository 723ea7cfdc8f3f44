package catalog

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mercator-hq/quarry/pkg/datasource"
	"mercator-hq/quarry/pkg/queryable"
)

// FruitCategoryID is the id of the seeded "Fruit" category.
const FruitCategoryID int64 = 1

// Models returns the catalog models in dependency order.
func Models() []any {
	return []any{&Category{}, &Product{}}
}

// Migrate creates or updates the catalog tables.
func Migrate(ctx context.Context, db *datasource.DB) error {
	return db.Migrate(ctx, Models()...)
}

// SeedCategories returns the categories inserted by Seed.
func SeedCategories() []Category {
	return []Category{
		{ID: FruitCategoryID, Name: "Fruit"},
	}
}

// SeedProducts returns the products inserted by Seed.
func SeedProducts() []Product {
	return []Product{
		{ID: 1, Name: "Apple", Price: 10, CategoryID: FruitCategoryID},
		{ID: 2, Name: "Banana", Price: 15, CategoryID: FruitCategoryID},
		{ID: 3, Name: "Cherry", Price: 8, CategoryID: FruitCategoryID},
	}
}

// Seed inserts the sample catalog. Rows that already exist are left alone,
// so Seed can run on every start.
func Seed(ctx context.Context, src queryable.Source) error {
	// Each insert needs its own statement: a shared one keeps the first
	// model's schema and associations.
	insert := func(rows any) error {
		return src.DB().WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Session(&gorm.Session{}).
			Create(rows).Error
	}

	categories := SeedCategories()
	if err := insert(&categories); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	products := SeedProducts()
	if err := insert(&products); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	return nil
}
