package models

import "time"

// ProductStatus is the publication state of a product
type ProductStatus string

const (
	StatusDraft     ProductStatus = "DRAFT"
	StatusPublished ProductStatus = "PUBLISHED"
	StatusArchived  ProductStatus = "ARCHIVED"
)

// Product is a furniture item of the storefront catalog
type Product struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Slug          string        `json:"slug"`
	Description   string        `json:"description,omitempty"`
	Dimensions    string        `json:"dimensions,omitempty"`
	Price         float64       `json:"price"`
	StockQuantity *int          `json:"stock_quantity,omitempty"`
	Status        ProductStatus `json:"status,omitempty"`
	IsFeatured    bool          `json:"is_featured"`
	Category      string        `json:"category,omitempty"`
	Materials     []string      `json:"materials,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// ProductPage is one page of a filtered product listing
type ProductPage struct {
	Products  []Product
	TotalRows int
	Offset    int
	Limit     int
}
