package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"squarepad/internal/core/domain"

	"github.com/rs/zerolog/log"
)

const listProductImagesQuery = `query listProductsWithImages($id: String!) {
  listProduct(id: { eq: $id }, pagination: { page: 1, limit: 1 }) {
    data {
      id
      variants {
        id
        images {
          imageId
          isMain
          order
        }
      }
    }
  }
}`

// GraphQL queries the catalog's admin API for product image metadata.
type GraphQL struct {
	endpoint string
	client   *http.Client
}

func NewGraphQL(cfg domain.Config) *GraphQL {
	return &GraphQL{
		endpoint: cfg.GraphAPIURL,
		client:   &http.Client{},
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type productImagesResponse struct {
	Data struct {
		ListProduct struct {
			Data []struct {
				ID       string `json:"id"`
				Variants []struct {
					ID     string `json:"id"`
					Images []struct {
						ImageID string `json:"imageId"`
						IsMain  bool   `json:"isMain"`
						Order   int    `json:"order"`
					} `json:"images"`
				} `json:"variants"`
			} `json:"data"`
		} `json:"listProduct"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// ProductImages fetches the product's variant images, deduplicated across
// variants and ordered by the catalog's image order.
func (g *GraphQL) ProductImages(ctx context.Context, accessToken, productID string) ([]domain.ProductImage, error) {
	request := graphQLRequest{
		Query:     listProductImagesQuery,
		Variables: map[string]any{"id": productID},
	}

	payloadBuf := new(bytes.Buffer)
	if err := json.NewEncoder(payloadBuf).Encode(request); err != nil {
		return nil, fmt.Errorf("error encoding catalog request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, payloadBuf)
	if err != nil {
		return nil, fmt.Errorf("error creating catalog request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	res, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading catalog response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		log.Error().Int("status", res.StatusCode).Str("productId", productID).Msg("catalog returned failure status")
		return nil, fmt.Errorf("catalog returned status %d", res.StatusCode)
	}

	var result productImagesResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("error unmarshalling catalog response: %w", err)
	}

	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("catalog query failed: %s", result.Errors[0].Message)
	}

	products := result.Data.ListProduct.Data
	if len(products) == 0 {
		return nil, domain.ErrProductNotFound
	}

	seen := make(map[string]*domain.ProductImage)
	var images []*domain.ProductImage
	for _, variant := range products[0].Variants {
		for _, img := range variant.Images {
			if img.ImageID == "" {
				continue
			}
			if entry, ok := seen[img.ImageID]; ok {
				entry.IsMain = entry.IsMain || img.IsMain
				if img.Order < entry.Order {
					entry.Order = img.Order
				}
				continue
			}
			entry := &domain.ProductImage{ImageID: img.ImageID, IsMain: img.IsMain, Order: img.Order}
			seen[img.ImageID] = entry
			images = append(images, entry)
		}
	}

	sort.SliceStable(images, func(i, j int) bool { return images[i].Order < images[j].Order })

	out := make([]domain.ProductImage, len(images))
	for i, img := range images {
		out[i] = *img
	}

	return out, nil
}
