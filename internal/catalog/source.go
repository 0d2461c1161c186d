package catalog

import (
	"context"

	"github.com/dafoggo/klinh-admin/internal/models"
)

// Query selects one page of products
type Query struct {
	Filters []models.FilterEntry
	Offset  int
	Limit   int
}

// Source lists products matching a filter state
type Source interface {
	List(ctx context.Context, q Query) (models.ProductPage, error)
	Close()
}
