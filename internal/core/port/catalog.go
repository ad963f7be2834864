package port

import (
	"context"
	"squarepad/internal/core/domain"
)

type Catalog interface {
	// ProductImages returns the variant image list for a product, ordered
	// by the catalog's own image order. Returns ErrProductNotFound when the
	// product does not exist; an existing product with no images yields an
	// empty slice.
	ProductImages(ctx context.Context, accessToken, productID string) ([]domain.ProductImage, error)
}
