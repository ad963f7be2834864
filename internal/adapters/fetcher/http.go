package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"squarepad/internal/core/domain"

	"github.com/rs/zerolog/log"
)

// HTTP retrieves remote resources fully into memory with a hard timeout and
// a cap on the actual number of downloaded bytes. Content-Length is not
// trusted; the limit is enforced while reading.
type HTTP struct {
	client   *http.Client
	maxBytes int64
	timeout  time.Duration
}

func NewHTTP(cfg domain.Config) *HTTP {
	return &HTTP{
		client:   &http.Client{},
		maxBytes: cfg.MaxInputBytes,
		timeout:  cfg.FetchTimeout,
	}
}

// Fetch downloads the resource at url. The request is actively cancelled
// once the timeout elapses.
func (h *HTTP) Fetch(ctx context.Context, url string) (*domain.Resource, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	res, err := h.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.ErrFetchTimeout
		}
		return nil, fmt.Errorf("error executing request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return nil, &domain.StatusError{Code: res.StatusCode}
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, h.maxBytes+1))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.ErrFetchTimeout
		}
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if int64(len(buf)) > h.maxBytes {
		log.Warn().Str("url", url).Int64("limit", h.maxBytes).Msg("download exceeded size limit")
		return nil, domain.ErrPayloadTooLarge
	}

	lastModified := res.Header.Get("Last-Modified")
	if lastModified == "" {
		lastModified = time.Now().UTC().Format(http.TimeFormat)
	}

	return &domain.Resource{Bytes: buf, LastModified: lastModified}, nil
}

// FetchFeed downloads a feed document as text with a plain GET. The feed is
// expected to change upstream independently, so no validators are recorded.
func (h *HTTP) FetchFeed(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSourceUnreachable, err)
	}

	res, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSourceUnreachable, err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		log.Error().Str("url", url).Int("status", res.StatusCode).Msg("feed source returned failure status")
		return "", fmt.Errorf("%w: status %d", domain.ErrSourceUnreachable, res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSourceUnreachable, err)
	}

	return string(body), nil
}
