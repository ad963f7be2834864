package port

import (
	"context"
	"squarepad/internal/core/domain"
)

type TokenStore interface {
	// Get loads the token stored for an authorized app id. Returns
	// ErrTokenNotFound when no token has been persisted for the id.
	Get(ctx context.Context, appID string) (*domain.AuthToken, error)
	// Save persists a token under the authorized app id.
	Save(ctx context.Context, appID string, token *domain.AuthToken) error
}

type OAuthClient interface {
	// Refresh exchanges a refresh token for a new credential. The returned
	// token carries ExpiresIn; the caller derives ExpireDate from its own
	// clock.
	Refresh(ctx context.Context, refreshToken string) (*domain.AuthToken, error)
}
