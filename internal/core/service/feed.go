package service

import (
	"context"
	"fmt"

	"squarepad/internal/core/feed"
	"squarepad/internal/core/port"

	"github.com/rs/zerolog/log"
)

// Feed fetches a product feed and rewrites its image links to point at the
// square transformation endpoint. The rewritten feed defers rendering to
// later, independent requests.
type Feed struct {
	source   port.FeedSource
	rewriter *feed.Rewriter
}

func NewFeed(source port.FeedSource, rewriter *feed.Rewriter) *Feed {
	return &Feed{source: source, rewriter: rewriter}
}

func (f *Feed) Transform(ctx context.Context, sourceURL, origin string, params feed.PassThrough) (string, error) {
	document, err := f.source.FetchFeed(ctx, sourceURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch feed: %w", err)
	}

	rewritten := f.rewriter.Rewrite(document, origin, params)

	log.Debug().
		Str("source", sourceURL).
		Int("documentBytes", len(document)).
		Msg("rewrote feed image links")

	return rewritten, nil
}
