package domain

import (
	"context"
	"time"
)

// Product is a catalog entry. Image holds the stored name of its picture in
// the image store, or "" when the product has none.
type Product struct {
	ID          int64
	ProductName string
	Details     string
	Image       string
	Size        string
	Color       string
	Category    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasImage reports whether the product references a stored image.
func (p *Product) HasImage() bool {
	return p.Image != ""
}

// ProductFields is the complete set of writable columns of a product.
type ProductFields struct {
	ProductName string
	Details     string
	Image       string
	Size        string
	Color       string
	Category    string
}

// Fields returns the writable columns of p.
func (p *Product) Fields() ProductFields {
	return ProductFields{
		ProductName: p.ProductName,
		Details:     p.Details,
		Image:       p.Image,
		Size:        p.Size,
		Color:       p.Color,
		Category:    p.Category,
	}
}

// ProductChanges describes an update. Unset fields keep their current value.
type ProductChanges struct {
	ProductName Optional[string]
	Details     Optional[string]
	Size        Optional[string]
	Color       Optional[string]
	Category    Optional[string]
}

// ApplyTo resolves the changes against an existing set of fields.
func (c ProductChanges) ApplyTo(current ProductFields) ProductFields {
	return ProductFields{
		ProductName: c.ProductName.Or(current.ProductName),
		Details:     c.Details.Or(current.Details),
		Image:       current.Image,
		Size:        c.Size.Or(current.Size),
		Color:       c.Color.Or(current.Color),
		Category:    c.Category.Or(current.Category),
	}
}

type ProductRepository interface {
	CreateProduct(ctx context.Context, fields ProductFields) (*Product, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)

	// UpdateProduct overwrites every column with fields and returns the stored row
	UpdateProduct(ctx context.Context, id int64, fields ProductFields) (*Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	// ListNewestFirst returns all products ordered by creation time descending
	ListNewestFirst(ctx context.Context) ([]*Product, error)
}
