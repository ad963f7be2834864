package service

import (
	"context"
	"fmt"
	"time"

	"squarepad/internal/core/domain"
	"squarepad/internal/core/port"

	"github.com/rs/zerolog/log"
)

// TokenRefresher keeps stored OAuth tokens usable. Expiry handling is an
// explicit check-then-refresh, never a hidden mutation of a shared token.
type TokenRefresher struct {
	oauth port.OAuthClient
	now   func() time.Time
}

func NewTokenRefresher(oauth port.OAuthClient) *TokenRefresher {
	return &TokenRefresher{oauth: oauth, now: time.Now}
}

// EnsureFresh returns the token to use and whether it was refreshed. A
// still-valid token passes through untouched; an expired one is exchanged
// for a new credential with a freshly computed expiry.
func (r *TokenRefresher) EnsureFresh(ctx context.Context, token *domain.AuthToken) (*domain.AuthToken, bool, error) {
	now := r.now()
	if !token.Expired(now) {
		return token, false, nil
	}

	refreshed, err := r.oauth.Refresh(ctx, token.RefreshToken)
	if err != nil {
		return nil, false, fmt.Errorf("failed to refresh expired token: %w", err)
	}

	refreshed.ExpireDate = now.Add(time.Duration(refreshed.ExpiresIn) * time.Second)

	log.Info().Time("expireDate", refreshed.ExpireDate).Msg("refreshed expired auth token")

	return refreshed, true, nil
}
