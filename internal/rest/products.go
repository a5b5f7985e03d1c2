package rest

import (
	"context"
	"strconv"

	"github.com/dfryer1193/catalog/catalog/application"
	"github.com/dfryer1193/catalog/catalog/domain"
	"github.com/gin-gonic/gin"
)

// ProductService is the product lifecycle as the handlers use it
type ProductService interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	FindProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, fields domain.ProductFields, upload *domain.ImageUpload) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, changes domain.ProductChanges, upload *domain.ImageUpload) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

var _ ProductService = (*application.ProductService)(nil)

// ProductHandler serves products both as HTML pages and as JSON
type ProductHandler struct {
	products  ProductService
	details   application.DetailsRenderer
	flashes   *Flashes
	validator *productValidator
	assetURL  string
}

func NewProductHandler(products ProductService, details application.DetailsRenderer, flashes *Flashes, assetURL string) *ProductHandler {
	return &ProductHandler{
		products:  products,
		details:   details,
		flashes:   flashes,
		validator: newProductValidator(),
		assetURL:  assetURL,
	}
}

// productID parses the :id route parameter. Anything that is not a positive
// integer cannot name a product.
func productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
