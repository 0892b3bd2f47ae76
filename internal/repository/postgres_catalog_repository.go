package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bcod/campus-market/internal/domain"
)

// Sortable product columns. Anything else falls back to id to keep the ORDER
// BY clause out of user control.
var productSortColumns = map[string]string{
	"id":    "id",
	"name":  "name",
	"price": "price",
}

// PostgresCatalogRepository implements CatalogRepository using PostgreSQL
type PostgresCatalogRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCatalogRepository creates a new PostgresCatalogRepository
func NewPostgresCatalogRepository(pool *pgxpool.Pool) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{pool: pool}
}

// CreateProduct persists a new product
func (r *PostgresCatalogRepository) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `
		INSERT INTO products (name, description, image, quantity, price, discount, category_id, seller_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		p.Name, p.Description, p.Image, p.Quantity, p.Price, p.Discount,
		p.CategoryID, p.SellerID, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetProductByID retrieves a product by id
func (r *PostgresCatalogRepository) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT id, name, description, image, quantity, price, discount, category_id, seller_id, created_at, updated_at
		FROM products
		WHERE id = $1
	`
	p := &domain.Product{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Image, &p.Quantity,
		&p.Price, &p.Discount, &p.CategoryID, &p.SellerID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// UpdateProduct persists changes to a product
func (r *PostgresCatalogRepository) UpdateProduct(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = time.Now()
	_, err := r.pool.Exec(ctx, `
		UPDATE products
		SET name = $2, description = $3, image = $4, quantity = $5, price = $6,
		    discount = $7, category_id = $8, updated_at = $9
		WHERE id = $1
	`, p.ID, p.Name, p.Description, p.Image, p.Quantity, p.Price, p.Discount, p.CategoryID, p.UpdatedAt)
	return err
}

// DeleteProduct removes a product
func (r *PostgresCatalogRepository) DeleteProduct(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	return err
}

// ListProducts returns one page of products matching the query
func (r *PostgresCatalogRepository) ListProducts(ctx context.Context, q ProductQuery) (*domain.ProductPage, error) {
	if q.PageSize <= 0 {
		q.PageSize = 10
	}
	if q.PageNumber < 0 {
		q.PageNumber = 0
	}

	where := `WHERE ($1 = '' OR name ILIKE '%' || $1 || '%') AND ($2 = 0 OR category_id = $2)`

	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM products `+where, q.Keyword, q.CategoryID,
	).Scan(&total); err != nil {
		return nil, err
	}

	sortCol, ok := productSortColumns[q.SortBy]
	if !ok {
		sortCol = "id"
	}
	direction := "ASC"
	if q.SortOrder == "desc" {
		direction = "DESC"
	}

	query := fmt.Sprintf(`
		SELECT id, name, description, image, quantity, price, discount, category_id, seller_id, created_at, updated_at
		FROM products %s
		ORDER BY %s %s
		LIMIT $3 OFFSET $4
	`, where, sortCol, direction)

	rows, err := r.pool.Query(ctx, query, q.Keyword, q.CategoryID, q.PageSize, q.PageNumber*q.PageSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		p := &domain.Product{}
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Image, &p.Quantity,
			&p.Price, &p.Discount, &p.CategoryID, &p.SellerID,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalPages := int((total + int64(q.PageSize) - 1) / int64(q.PageSize))
	return &domain.ProductPage{
		Content:       products,
		PageNumber:    q.PageNumber,
		PageSize:      q.PageSize,
		TotalElements: total,
		TotalPages:    totalPages,
		LastPage:      q.PageNumber >= totalPages-1,
	}, nil
}

// GetCategoryByID retrieves a category by id
func (r *PostgresCatalogRepository) GetCategoryByID(ctx context.Context, id int64) (*domain.Category, error) {
	c := &domain.Category{}
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM categories WHERE id = $1`, id).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// ListCategories returns all categories
func (r *PostgresCatalogRepository) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		c := &domain.Category{}
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
