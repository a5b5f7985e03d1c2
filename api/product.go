package api

import (
	"strings"
	"time"

	"github.com/dfryer1193/catalog/catalog/domain"
)

type Product struct {
	ID          int64   `json:"id"`
	ProductName string  `json:"product_name"`
	Details     string  `json:"details"`
	Image       *string `json:"image"`
	ImageURL    *string `json:"image_url"`
	Size        string  `json:"size"`
	Color       string  `json:"color"`
	Category    string  `json:"category"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// Response is the envelope every API reply is wrapped in
type Response struct {
	Status  bool              `json:"status"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// ImageURL joins an asset URL prefix and a stored image name
func ImageURL(assetURL, storedName string) string {
	return strings.TrimSuffix(assetURL, "/") + "/" + storedName
}

func NewProduct(p *domain.Product, assetURL string) Product {
	out := Product{
		ID:          p.ID,
		ProductName: p.ProductName,
		Details:     p.Details,
		Size:        p.Size,
		Color:       p.Color,
		Category:    p.Category,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.UTC().Format(time.RFC3339),
	}

	if p.HasImage() {
		image := p.Image
		url := ImageURL(assetURL, p.Image)
		out.Image = &image
		out.ImageURL = &url
	}

	return out
}

func NewProducts(products []*domain.Product, assetURL string) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		out = append(out, NewProduct(p, assetURL))
	}
	return out
}
