package catalog

// Category groups products.
type Category struct {
	ID       int64     `gorm:"primaryKey" json:"id"`
	Name     string    `gorm:"not null;uniqueIndex" json:"name"`
	Products []Product `json:"products,omitempty"`
}

// Product is a priced item belonging to one category.
type Product struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"not null;index" json:"name"`
	Price      float64   `gorm:"not null" json:"price"`
	CategoryID int64     `gorm:"not null;index" json:"category_id"`
	Category   *Category `json:"category,omitempty"`
}

// ProductProjection is the read-only view of a product with its category
// name flattened in.
type ProductProjection struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	CategoryName string  `json:"category_name"`
}

// CategorySummary aggregates the products of one category.
type CategorySummary struct {
	Name         string  `json:"name"`
	ProductCount int64   `json:"product_count"`
	AveragePrice float64 `json:"average_price"`
}

// Stats counts the rows of every catalog collection.
type Stats struct {
	Products   int64 `json:"products"`
	Categories int64 `json:"categories"`
}

// Table and column names used in raw query fragments.
const (
	ProductsTable   = "products"
	CategoriesTable = "categories"
)
