package catalog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dafoggo/klinh-admin/internal/filter"
	"github.com/dafoggo/klinh-admin/internal/models"
)

// MemorySource serves products held in memory
type MemorySource struct {
	mu       sync.RWMutex
	products []models.Product
	matcher  *filter.Matcher
}

// NewMemorySource creates a source over the given products
func NewMemorySource(products []models.Product) *MemorySource {
	return &MemorySource{
		products: products,
		matcher:  filter.NewMatcher(),
	}
}

// Products returns every product, unfiltered
func (s *MemorySource) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

// List implements Source. Products are ordered newest first.
func (s *MemorySource) List(ctx context.Context, q Query) (models.ProductPage, error) {
	if err := ctx.Err(); err != nil {
		return models.ProductPage{}, err
	}

	s.mu.RLock()
	var matched []models.Product
	for _, p := range s.products {
		if s.matcher.Match(q.Filters, ProductFields(p)) {
			matched = append(matched, p)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	page := models.ProductPage{TotalRows: len(matched), Offset: q.Offset, Limit: q.Limit}
	start := q.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if q.Limit > 0 && start+q.Limit < end {
		end = start + q.Limit
	}
	page.Products = matched[start:end]
	return page, nil
}

// Close implements Source
func (s *MemorySource) Close() {}

func stock(n int) *int {
	return &n
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 10, 0, 0, 0, time.UTC)
}

// SampleProducts returns the demo catalog used when no database is configured
func SampleProducts() []models.Product {
	return []models.Product{
		{ID: "p-001", Name: "Oak Dining Chair", Slug: "oak-dining-chair", Description: "Solid oak with a woven seat", Dimensions: "45x52x82 cm",
			Price: 129, StockQuantity: stock(24), Status: models.StatusPublished, IsFeatured: true, Category: "chairs",
			Materials: []string{"oak", "paper cord"}, CreatedAt: day(2024, time.January, 8), UpdatedAt: day(2024, time.March, 2)},
		{ID: "p-002", Name: "Walnut Coffee Table", Slug: "walnut-coffee-table", Description: "Low table with rounded corners", Dimensions: "110x60x40 cm",
			Price: 349, StockQuantity: stock(7), Status: models.StatusPublished, Category: "tables",
			Materials: []string{"walnut"}, CreatedAt: day(2024, time.January, 15), UpdatedAt: day(2024, time.February, 20)},
		{ID: "p-003", Name: "Linen Three-Seater Sofa", Slug: "linen-three-seater-sofa", Dimensions: "210x92x78 cm",
			Price: 1290, StockQuantity: stock(3), Status: models.StatusPublished, IsFeatured: true, Category: "sofas",
			Materials: []string{"linen", "beech"}, CreatedAt: day(2024, time.February, 1), UpdatedAt: day(2024, time.April, 11)},
		{ID: "p-004", Name: "Rattan Lounge Chair", Slug: "rattan-lounge-chair", Description: "Hand woven rattan",
			Price: 289, StockQuantity: stock(0), Status: models.StatusArchived, Category: "chairs",
			Materials: []string{"rattan"}, CreatedAt: day(2023, time.October, 3), UpdatedAt: day(2024, time.January, 5)},
		{ID: "p-005", Name: "Pine Bunk Bed", Slug: "pine-bunk-bed", Dimensions: "200x100x160 cm",
			Price: 540, StockQuantity: stock(5), Status: models.StatusDraft, Category: "beds",
			Materials: []string{"pine"}, CreatedAt: day(2024, time.March, 14), UpdatedAt: day(2024, time.March, 14)},
		{ID: "p-006", Name: "Ash Bookshelf", Slug: "ash-bookshelf", Description: "Five open shelves",
			Price: 215, StockQuantity: stock(12), Status: models.StatusPublished, Category: "storage",
			Materials: []string{"ash"}, CreatedAt: day(2024, time.March, 15), UpdatedAt: day(2024, time.April, 1)},
		{ID: "p-007", Name: "Brass Floor Lamp", Slug: "brass-floor-lamp",
			Price: 179.5, Status: models.StatusPublished, IsFeatured: true, Category: "lighting",
			Materials: []string{"brass", "linen"}, CreatedAt: day(2024, time.April, 2), UpdatedAt: day(2024, time.April, 2)},
		{ID: "p-008", Name: "Teak Outdoor Table", Slug: "teak-outdoor-table", Dimensions: "180x90x75 cm",
			Price: 820, StockQuantity: stock(2), Status: models.StatusPublished, Category: "tables",
			Materials: []string{"teak"}, CreatedAt: day(2024, time.April, 20), UpdatedAt: day(2024, time.May, 3)},
		{ID: "p-009", Name: "Velvet Accent Chair", Slug: "velvet-accent-chair", Description: "Curved back, brass legs",
			Price: 399, StockQuantity: stock(9), Status: models.StatusDraft, Category: "chairs",
			Materials: []string{"velvet", "brass"}, CreatedAt: day(2024, time.May, 9), UpdatedAt: day(2024, time.May, 9)},
		{ID: "p-010", Name: "Oak Platform Bed", Slug: "oak-platform-bed", Dimensions: "160x200x35 cm",
			Price: 990, StockQuantity: stock(4), Status: models.StatusPublished, IsFeatured: true, Category: "beds",
			Materials: []string{"oak"}, CreatedAt: day(2024, time.May, 21), UpdatedAt: day(2024, time.June, 2)},
		{ID: "p-011", Name: "Ceramic Table Lamp", Slug: "ceramic-table-lamp",
			Price: 89, StockQuantity: stock(31), Status: models.StatusPublished, Category: "lighting",
			Materials: []string{"ceramic"}, CreatedAt: day(2024, time.June, 6), UpdatedAt: day(2024, time.June, 6)},
		{ID: "p-012", Name: "Modular Corner Sofa", Slug: "modular-corner-sofa", Description: "Five modules, removable covers",
			Price: 2150, StockQuantity: stock(1), Status: models.StatusPublished, Category: "sofas",
			Materials: []string{"wool", "pine"}, CreatedAt: day(2024, time.June, 18), UpdatedAt: day(2024, time.July, 1)},
		{ID: "p-013", Name: "Birch Sideboard", Slug: "birch-sideboard", Dimensions: "160x45x80 cm",
			Price: 640, StockQuantity: stock(6), Status: models.StatusDraft, Category: "storage",
			Materials: []string{"birch"}, CreatedAt: day(2024, time.July, 4), UpdatedAt: day(2024, time.July, 4)},
		{ID: "p-014", Name: "Stackable Cafe Chair", Slug: "stackable-cafe-chair",
			Price: 75, StockQuantity: stock(120), Status: models.StatusPublished, Category: "chairs",
			Materials: []string{"steel"}, CreatedAt: day(2024, time.July, 19), UpdatedAt: day(2024, time.August, 2)},
		{ID: "p-015", Name: "Marble Side Table", Slug: "marble-side-table",
			Price: 310, Status: models.StatusArchived, Category: "tables",
			Materials: []string{"marble", "steel"}, CreatedAt: day(2023, time.November, 27), UpdatedAt: day(2024, time.February, 14)},
		{ID: "p-016", Name: "Paper Pendant Light", Slug: "paper-pendant-light", Description: "Rice paper shade",
			Price: 59, StockQuantity: stock(44), Status: models.StatusPublished, IsFeatured: true, Category: "lighting",
			Materials: []string{"paper", "bamboo"}, CreatedAt: day(2024, time.August, 12), UpdatedAt: day(2024, time.August, 12)},
	}
}
