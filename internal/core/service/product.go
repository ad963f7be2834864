package service

import (
	"context"
	"fmt"
	"strings"

	"squarepad/internal/core/domain"
	"squarepad/internal/core/port"

	"github.com/rs/zerolog/log"
)

// Product resolves a product id plus image index to a concrete source image
// URL using the external catalog, then the regular pipeline takes over.
type Product struct {
	tokens      port.TokenStore
	refresher   *TokenRefresher
	catalog     port.Catalog
	urlTemplate string
}

func NewProduct(tokens port.TokenStore, refresher *TokenRefresher, catalog port.Catalog,
	cfg domain.Config) *Product {
	return &Product{
		tokens:      tokens,
		refresher:   refresher,
		catalog:     catalog,
		urlTemplate: cfg.ImageURLTemplate,
	}
}

// Resolve maps (product, index) to an image URL. An out-of-range index
// clamps to the last available image to tolerate feed drift; a product with
// no images at all is a distinct condition from a missing product.
func (p *Product) Resolve(ctx context.Context, claims *domain.Claims, productID string, index int) (string, error) {
	token, err := p.tokens.Get(ctx, claims.AuthorizedAppID)
	if err != nil {
		return "", err
	}

	token, refreshed, err := p.refresher.EnsureFresh(ctx, token)
	if err != nil {
		return "", err
	}
	if refreshed {
		if err := p.tokens.Save(ctx, claims.AuthorizedAppID, token); err != nil {
			log.Warn().Err(err).Str("appId", claims.AuthorizedAppID).Msg("could not persist refreshed token")
		}
	}

	images, err := p.catalog.ProductImages(ctx, token.AccessToken, productID)
	if err != nil {
		return "", err
	}

	if len(images) == 0 {
		return "", domain.ErrNoImages
	}

	if index < 0 {
		index = 0
	}
	if index > len(images)-1 {
		index = len(images) - 1
	}

	if p.urlTemplate == "" {
		return "", domain.ErrResolverUnavailable
	}

	imageURL := strings.NewReplacer(
		"{merchantId}", claims.MerchantID,
		"{imageId}", images[index].ImageID,
	).Replace(p.urlTemplate)

	if strings.Contains(imageURL, "{") {
		return "", fmt.Errorf("image url template has unresolved placeholders: %s", p.urlTemplate)
	}

	return imageURL, nil
}
