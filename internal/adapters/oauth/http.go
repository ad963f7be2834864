package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"squarepad/internal/core/domain"
)

// HTTP exchanges refresh tokens against the catalog's OAuth token endpoint.
type HTTP struct {
	tokenURL     string
	clientID     string
	clientSecret string
	client       *http.Client
}

func NewHTTP(cfg domain.Config) *HTTP {
	return &HTTP{
		tokenURL:     cfg.OAuthTokenURL,
		clientID:     cfg.OAuthClientID,
		clientSecret: cfg.OAuthClientSecret,
		client:       &http.Client{},
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// Refresh performs the refresh_token grant. The caller derives ExpireDate
// from ExpiresIn and its own clock.
func (h *HTTP) Refresh(ctx context.Context, refreshToken string) (*domain.AuthToken, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	form.Set("client_id", h.clientID)
	form.Set("client_secret", h.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("error creating refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("refresh request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading refresh response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token endpoint returned status %d", res.StatusCode)
	}

	var result tokenResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("error unmarshalling refresh response: %w", err)
	}

	if result.AccessToken == "" {
		return nil, errors.New("token endpoint returned no access token")
	}

	return &domain.AuthToken{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		TokenType:    result.TokenType,
		ExpiresIn:    result.ExpiresIn,
	}, nil
}
