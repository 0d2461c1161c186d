package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dafoggo/klinh-admin/internal/db/connection"
	"github.com/dafoggo/klinh-admin/internal/filter"
	"github.com/dafoggo/klinh-admin/internal/logging"
	"github.com/dafoggo/klinh-admin/internal/models"
)

const productColumnsSQL = `id, name, slug, COALESCE(description, ''), COALESCE(dimensions, ''), price,
stock_quantity, status, is_featured, COALESCE(category, ''), COALESCE(materials, '{}'), created_at, updated_at`

// PostgresSource lists products from a PostgreSQL table
type PostgresSource struct {
	pool    *connection.Pool
	builder *filter.Builder
	table   string
	log     logging.Logger
}

// NewPostgresSource creates a source reading table through pool
func NewPostgresSource(pool *connection.Pool, table string, log logging.Logger) *PostgresSource {
	if table == "" {
		table = "products"
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &PostgresSource{
		pool:    pool,
		builder: filter.NewBuilder(),
		table:   table,
		log:     log,
	}
}

// BuildQueries returns the page and count statements for q
func (s *PostgresSource) BuildQueries(q Query) (selectSQL, countSQL string, args []interface{}, err error) {
	where, args, err := s.builder.BuildWhere(q.Filters)
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to build filter clause: %w", err)
	}

	from := "FROM " + pgx.Identifier{s.table}.Sanitize()
	if where != "" {
		from += " " + where
	}
	countSQL = "SELECT COUNT(*) " + from
	selectSQL = fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC", productColumnsSQL, from)
	if q.Limit > 0 {
		selectSQL += fmt.Sprintf(" LIMIT %d", q.Limit)
	}
	if q.Offset > 0 {
		selectSQL += fmt.Sprintf(" OFFSET %d", q.Offset)
	}
	return selectSQL, countSQL, args, nil
}

// List implements Source
func (s *PostgresSource) List(ctx context.Context, q Query) (models.ProductPage, error) {
	selectSQL, countSQL, args, err := s.BuildQueries(q)
	if err != nil {
		return models.ProductPage{}, err
	}
	s.log.Debug("listing products", "sql", selectSQL, "args", len(args))

	total, err := s.pool.QueryInt(ctx, countSQL, args...)
	if err != nil {
		return models.ProductPage{}, fmt.Errorf("failed to count products: %w", err)
	}

	page := models.ProductPage{TotalRows: total, Offset: q.Offset, Limit: q.Limit}
	err = s.pool.Query(ctx, func(rows pgx.Rows) error {
		var p models.Product
		var status string
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Dimensions, &p.Price,
			&p.StockQuantity, &status, &p.IsFeatured, &p.Category, &p.Materials, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return err
		}
		p.Status = models.ProductStatus(status)
		page.Products = append(page.Products, p)
		return nil
	}, selectSQL, args...)
	if err != nil {
		return models.ProductPage{}, fmt.Errorf("failed to list products: %w", err)
	}
	return page, nil
}

// Close implements Source
func (s *PostgresSource) Close() {
	s.pool.Close()
}
