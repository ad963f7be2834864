package port

import (
	"context"
	"squarepad/internal/core/domain"
)

type Fetcher interface {
	// Fetch retrieves a remote resource fully into memory, honoring the
	// configured timeout and size cap.
	Fetch(ctx context.Context, url string) (*domain.Resource, error)
}

type FeedSource interface {
	// FetchFeed retrieves a feed document as text with a plain GET. Any
	// failure to reach or read the source maps to ErrSourceUnreachable.
	FetchFeed(ctx context.Context, url string) (string, error)
}
