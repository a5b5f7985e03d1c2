package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dfryer1193/catalog/catalog/domain"
	"github.com/dfryer1193/catalog/shared/db"
)

var _ domain.ProductRepository = (*SQLiteProductRepository)(nil)

// SQLiteProductRepository implements domain.ProductRepository using SQL database (SQLite)
type SQLiteProductRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewProductRepository creates a new SQLiteProductRepository from a standard sql.DB
func NewProductRepository(sqlDB *sql.DB) *SQLiteProductRepository {
	return &SQLiteProductRepository{
		db: sqlDB,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

const productColumns = `id, product_name, details, image, size, color, category, created_at, updated_at`

const insertProductQuery = `
	INSERT INTO products (product_name, details, image, size, color, category, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

// CreateProduct inserts a new row and returns it with its assigned id and timestamps
func (r *SQLiteProductRepository) CreateProduct(ctx context.Context, fields domain.ProductFields) (*domain.Product, error) {
	var created *domain.Product

	err := db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		now := r.now()

		executor := db.GetExecutor(txCtx, r.db)
		res, err := executor.ExecContext(txCtx, insertProductQuery,
			fields.ProductName,
			fields.Details,
			nullableString(fields.Image),
			fields.Size,
			fields.Color,
			fields.Category,
			now,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert product: %w", err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get product id: %w", err)
		}

		created, err = r.getProduct(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

const getProductQuery = `SELECT ` + productColumns + ` FROM products WHERE id = ?`

// GetProduct retrieves a single product by id
func (r *SQLiteProductRepository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return r.getProduct(ctx, id)
}

func (r *SQLiteProductRepository) getProduct(ctx context.Context, id int64) (*domain.Product, error) {
	executor := db.GetExecutor(ctx, r.db)

	var row productRow
	err := row.scan(executor.QueryRowContext(ctx, getProductQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", domain.ErrProductNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return row.toDomain(), nil
}

const updateProductQuery = `
	UPDATE products SET
		product_name = ?,
		details = ?,
		image = ?,
		size = ?,
		color = ?,
		category = ?,
		updated_at = ?
	WHERE id = ?
`

// UpdateProduct overwrites every writable column and returns the row as stored
func (r *SQLiteProductRepository) UpdateProduct(ctx context.Context, id int64, fields domain.ProductFields) (*domain.Product, error) {
	var updated *domain.Product

	err := db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		executor := db.GetExecutor(txCtx, r.db)
		res, err := executor.ExecContext(txCtx, updateProductQuery,
			fields.ProductName,
			fields.Details,
			nullableString(fields.Image),
			fields.Size,
			fields.Color,
			fields.Category,
			r.now(),
			id,
		)
		if err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check updated rows: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: %d", domain.ErrProductNotFound, id)
		}

		updated, err = r.getProduct(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

const deleteProductQuery = `DELETE FROM products WHERE id = ?`

// DeleteProduct removes a product row
func (r *SQLiteProductRepository) DeleteProduct(ctx context.Context, id int64) error {
	executor := db.GetExecutor(ctx, r.db)
	res, err := executor.ExecContext(ctx, deleteProductQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %d", domain.ErrProductNotFound, id)
	}

	return nil
}

const listProductsQuery = `
	SELECT ` + productColumns + `
	FROM products
	ORDER BY created_at DESC, id DESC
`

// ListNewestFirst retrieves every product, newest first.
// Rows created within the same instant fall back to descending id.
func (r *SQLiteProductRepository) ListNewestFirst(ctx context.Context) ([]*domain.Product, error) {
	executor := db.GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, listProductsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]*domain.Product, 0)
	for rows.Next() {
		var row productRow
		if err := row.scan(rows); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, row.toDomain())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows: %w", err)
	}

	return products, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type scanner interface {
	Scan(dest ...any) error
}

// productRow is a private struct used to scan database rows
type productRow struct {
	ID          int64          `db:"id"`
	ProductName string         `db:"product_name"`
	Details     string         `db:"details"`
	Image       sql.NullString `db:"image"`
	Size        string         `db:"size"`
	Color       string         `db:"color"`
	Category    string         `db:"category"`
	CreatedAt   sql.NullTime   `db:"created_at"`
	UpdatedAt   sql.NullTime   `db:"updated_at"`
}

func (pr *productRow) scan(s scanner) error {
	return s.Scan(
		&pr.ID,
		&pr.ProductName,
		&pr.Details,
		&pr.Image,
		&pr.Size,
		&pr.Color,
		&pr.Category,
		&pr.CreatedAt,
		&pr.UpdatedAt,
	)
}

// toDomain converts a productRow to a domain.Product, handling nullable columns
func (pr *productRow) toDomain() *domain.Product {
	p := &domain.Product{
		ID:          pr.ID,
		ProductName: pr.ProductName,
		Details:     pr.Details,
		Size:        pr.Size,
		Color:       pr.Color,
		Category:    pr.Category,
	}

	if pr.Image.Valid {
		p.Image = pr.Image.String
	}
	if pr.CreatedAt.Valid {
		p.CreatedAt = pr.CreatedAt.Time
	}
	if pr.UpdatedAt.Valid {
		p.UpdatedAt = pr.UpdatedAt.Time
	}

	return p
}
