// Package catalog provides the product table of the storefront: its column
// descriptors and the sources that list filtered products.
package catalog

import (
	"github.com/dafoggo/klinh-admin/internal/filter"
	"github.com/dafoggo/klinh-admin/internal/models"
)

// CategoryOptions are the furniture categories of the storefront
var CategoryOptions = []models.Option{
	{Value: "chairs", Label: "Chairs", Icon: "🪑"},
	{Value: "tables", Label: "Tables", Icon: "▭"},
	{Value: "sofas", Label: "Sofas", Icon: "🛋"},
	{Value: "beds", Label: "Beds", Icon: "🛏"},
	{Value: "storage", Label: "Storage", Icon: "▤"},
	{Value: "lighting", Label: "Lighting", Icon: "💡"},
}

// StatusOptions are the publication states of a product
var StatusOptions = []models.Option{
	{Value: string(models.StatusDraft), Label: "Draft"},
	{Value: string(models.StatusPublished), Label: "Published"},
	{Value: string(models.StatusArchived), Label: "Archived"},
}

// ProductColumns returns the columns of the product table in display order
func ProductColumns() []models.Column {
	return []models.Column{
		{ID: "name", EnableFilter: true, Meta: models.ColumnMeta{
			Variant: models.VariantText, Label: "Name", Placeholder: "Search names...",
		}},
		{ID: "slug", EnableFilter: true, Meta: models.ColumnMeta{
			Label: "Slug", Placeholder: "Search slugs...",
		}},
		{ID: "price", EnableFilter: true, Meta: models.ColumnMeta{
			Variant: models.VariantRange, Label: "Price", Unit: "$",
		}},
		{ID: "stock_quantity", EnableFilter: true, Meta: models.ColumnMeta{
			Variant: models.VariantNumber, Label: "Stock", Placeholder: "Quantity",
		}},
		{ID: "status", EnableFilter: true, Meta: models.ColumnMeta{
			Variant: models.VariantSelect, Label: "Status", Options: cloneOptions(StatusOptions),
		}},
		{ID: "category", EnableFilter: true, Meta: models.ColumnMeta{
			Variant: models.VariantMultiSelect, Label: "Category", Options: cloneOptions(CategoryOptions),
		}},
		{ID: "is_featured", EnableFilter: true, Meta: models.ColumnMeta{
			Variant: models.VariantBoolean, Label: "Featured",
		}},
		{ID: "created_at", EnableFilter: true, Meta: models.ColumnMeta{
			Variant: models.VariantDate, Label: "Created",
		}},
		{ID: "updated_at", EnableFilter: true, Meta: models.ColumnMeta{
			Variant: models.VariantDateRange, Label: "Updated",
		}},
		{ID: "description", Meta: models.ColumnMeta{Label: "Description"}},
	}
}

// FilterableIDs returns the ids of the filterable columns
func FilterableIDs(columns []models.Column) []string {
	var ids []string
	for _, col := range models.FilterableColumns(columns) {
		ids = append(ids, col.ID)
	}
	return ids
}

// ProductFields exposes a product to the in-memory filter matcher
func ProductFields(p models.Product) filter.Fields {
	return filter.Fields{
		"id":             p.ID,
		"name":           p.Name,
		"slug":           p.Slug,
		"description":    p.Description,
		"dimensions":     p.Dimensions,
		"price":          p.Price,
		"stock_quantity": p.StockQuantity,
		"status":         string(p.Status),
		"is_featured":    p.IsFeatured,
		"category":       p.Category,
		"created_at":     p.CreatedAt,
		"updated_at":     p.UpdatedAt,
	}
}

// WithOptionCounts returns columns whose options carry the number of products
// holding each value
func WithOptionCounts(columns []models.Column, products []models.Product) []models.Column {
	out := make([]models.Column, len(columns))
	for i, col := range columns {
		out[i] = col
		if len(col.Meta.Options) == 0 {
			continue
		}
		opts := cloneOptions(col.Meta.Options)
		for j := range opts {
			opts[j].Count = 0
			for _, p := range products {
				if v, ok := ProductFields(p)[col.ID].(string); ok && v == opts[j].Value {
					opts[j].Count++
				}
			}
		}
		out[i].Meta.Options = opts
	}
	return out
}

func cloneOptions(opts []models.Option) []models.Option {
	out := make([]models.Option, len(opts))
	copy(out, opts)
	return out
}
