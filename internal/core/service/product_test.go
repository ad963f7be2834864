package service

import (
	"context"
	"testing"
	"time"

	"squarepad/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTokenStore struct {
	token    *domain.AuthToken
	getErr   error
	saveErr  error
	saved    *domain.AuthToken
	savedKey string
}

func (m *mockTokenStore) Get(_ context.Context, _ string) (*domain.AuthToken, error) {
	return m.token, m.getErr
}

func (m *mockTokenStore) Save(_ context.Context, appID string, token *domain.AuthToken) error {
	m.savedKey = appID
	m.saved = token
	return m.saveErr
}

type mockCatalog struct {
	images       []domain.ProductImage
	err          error
	gotToken     string
	gotProductID string
}

func (m *mockCatalog) ProductImages(_ context.Context, accessToken, productID string) ([]domain.ProductImage, error) {
	m.gotToken = accessToken
	m.gotProductID = productID
	return m.images, m.err
}

const urlTemplate = "https://cdn.example.com/{merchantId}/{imageId}/image.webp"

func productService(tokens *mockTokenStore, cat *mockCatalog, template string) *Product {
	refresher := NewTokenRefresher(&mockOAuth{})
	refresher.now = frozen(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))

	return NewProduct(tokens, refresher, cat, domain.Config{ImageURLTemplate: template})
}

func validToken() *domain.AuthToken {
	return &domain.AuthToken{
		AccessToken: "access",
		ExpireDate:  time.Date(2026, 8, 30, 13, 0, 0, 0, time.UTC),
	}
}

func claims() *domain.Claims {
	return &domain.Claims{MerchantID: "merchant-1", AuthorizedAppID: "app-1"}
}

func TestProductResolve(t *testing.T) {
	images := []domain.ProductImage{
		{ImageID: "img-a", Order: 0},
		{ImageID: "img-b", Order: 1},
		{ImageID: "img-c", Order: 2},
	}

	tests := []struct {
		name  string
		index int
		want  string
	}{
		{name: "first image by default", index: 0, want: "https://cdn.example.com/merchant-1/img-a/image.webp"},
		{name: "explicit index", index: 1, want: "https://cdn.example.com/merchant-1/img-b/image.webp"},
		{name: "out of range clamps to last", index: 9, want: "https://cdn.example.com/merchant-1/img-c/image.webp"},
		{name: "negative clamps to first", index: -1, want: "https://cdn.example.com/merchant-1/img-a/image.webp"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tokens := &mockTokenStore{token: validToken()}
			cat := &mockCatalog{images: images}

			got, err := productService(tokens, cat, urlTemplate).Resolve(t.Context(), claims(), "prod-1", tc.index)
			require.NoError(t, err)

			assert.Equal(t, tc.want, got)
			assert.Equal(t, "access", cat.gotToken)
			assert.Equal(t, "prod-1", cat.gotProductID)
		})
	}
}

func TestProductResolveTokenNotFound(t *testing.T) {
	tokens := &mockTokenStore{getErr: domain.ErrTokenNotFound}

	_, err := productService(tokens, &mockCatalog{}, urlTemplate).Resolve(t.Context(), claims(), "prod-1", 0)
	require.ErrorIs(t, err, domain.ErrTokenNotFound)
}

func TestProductResolveNoImages(t *testing.T) {
	tokens := &mockTokenStore{token: validToken()}
	cat := &mockCatalog{images: []domain.ProductImage{}}

	_, err := productService(tokens, cat, urlTemplate).Resolve(t.Context(), claims(), "prod-1", 0)
	require.ErrorIs(t, err, domain.ErrNoImages)
}

func TestProductResolveProductNotFound(t *testing.T) {
	tokens := &mockTokenStore{token: validToken()}
	cat := &mockCatalog{err: domain.ErrProductNotFound}

	_, err := productService(tokens, cat, urlTemplate).Resolve(t.Context(), claims(), "prod-1", 0)
	require.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductResolveWithoutTemplate(t *testing.T) {
	tokens := &mockTokenStore{token: validToken()}
	cat := &mockCatalog{images: []domain.ProductImage{{ImageID: "img-a"}}}

	_, err := productService(tokens, cat, "").Resolve(t.Context(), claims(), "prod-1", 0)
	require.ErrorIs(t, err, domain.ErrResolverUnavailable)
}

func TestProductResolvePersistsRefreshedToken(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	tokens := &mockTokenStore{token: &domain.AuthToken{
		AccessToken:  "stale",
		RefreshToken: "refresh-me",
		ExpireDate:   now.Add(-time.Minute),
	}}
	cat := &mockCatalog{images: []domain.ProductImage{{ImageID: "img-a"}}}

	refresher := NewTokenRefresher(&mockOAuth{token: &domain.AuthToken{
		AccessToken: "fresh",
		ExpiresIn:   3600,
	}})
	refresher.now = frozen(now)

	p := NewProduct(tokens, refresher, cat, domain.Config{ImageURLTemplate: urlTemplate})

	_, err := p.Resolve(t.Context(), claims(), "prod-1", 0)
	require.NoError(t, err)

	require.NotNil(t, tokens.saved)
	assert.Equal(t, "app-1", tokens.savedKey)
	assert.Equal(t, "fresh", tokens.saved.AccessToken)
	assert.Equal(t, "fresh", cat.gotToken, "catalog query uses the refreshed credential")
}
