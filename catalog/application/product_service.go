package application

import (
	"context"
	"fmt"

	"github.com/dfryer1193/catalog/catalog/domain"
	"github.com/rs/zerolog/log"
)

// ProductService is the only component that touches both the image store and
// the product repository. File and row operations are not atomic together: a
// failure between them can leave an orphaned file or a dangling image name.
// Concurrent mutations of the same product are not serialized.
type ProductService struct {
	repo   domain.ProductRepository
	images domain.ImageStore
}

func NewProductService(repo domain.ProductRepository, images domain.ImageStore) *ProductService {
	return &ProductService{
		repo:   repo,
		images: images,
	}
}

// ListProducts returns every product, newest first
func (s *ProductService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.repo.ListNewestFirst(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *ProductService) FindProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

// CreateProduct stores the upload, if any, then inserts the row referencing it.
// fields.Image is ignored; the image name always comes from the store.
func (s *ProductService) CreateProduct(ctx context.Context, fields domain.ProductFields, upload *domain.ImageUpload) (*domain.Product, error) {
	fields.Image = ""

	if upload != nil {
		storedName, err := s.images.Save(ctx, upload.OriginalName, upload.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to store product image: %w", err)
		}
		fields.Image = storedName
	}

	p, err := s.repo.CreateProduct(ctx, fields)
	if err != nil {
		if fields.Image != "" {
			log.Warn().Err(err).Str("image", fields.Image).Msg("Product insert failed, stored image is orphaned")
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	log.Info().Int64("product_id", p.ID).Str("image", p.Image).Msg("Created product")
	return p, nil
}

// UpdateProduct applies changes on top of the stored product. A new upload
// replaces the current image file; without one the image name is kept as is.
// The returned product is reloaded from the repository.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, changes domain.ProductChanges, upload *domain.ImageUpload) (*domain.Product, error) {
	existing, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := changes.ApplyTo(existing.Fields())

	if upload != nil {
		if err := s.images.Delete(ctx, existing.Image); err != nil {
			return nil, fmt.Errorf("failed to remove previous product image: %w", err)
		}

		storedName, err := s.images.Save(ctx, upload.OriginalName, upload.Content)
		if err != nil {
			if existing.HasImage() {
				log.Warn().Int64("product_id", id).Str("image", existing.Image).Msg("Previous image removed but replacement failed to store")
			}
			return nil, fmt.Errorf("failed to store product image: %w", err)
		}
		fields.Image = storedName
	}

	updated, err := s.repo.UpdateProduct(ctx, id, fields)
	if err != nil {
		if upload != nil {
			log.Warn().Err(err).Int64("product_id", id).Str("image", fields.Image).Msg("Product update failed, stored image is orphaned")
		}
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}

	log.Info().Int64("product_id", id).Str("image", updated.Image).Msg("Updated product")
	return updated, nil
}

// DeleteProduct removes the product's image file, then its row
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	existing, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	if existing.HasImage() {
		if err := s.images.Delete(ctx, existing.Image); err != nil {
			return fmt.Errorf("failed to remove product image: %w", err)
		}
	}

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}

	log.Info().Int64("product_id", id).Msg("Deleted product")
	return nil
}
