package service

import (
	"context"
	"fmt"

	"squarepad/internal/core/domain"
	"squarepad/internal/core/port"

	"github.com/rs/zerolog/log"
)

// Square runs the transformation pipeline for a single image URL:
// fetch, render, fingerprint. No retries; failures surface to the caller.
type Square struct {
	fetcher  port.Fetcher
	renderer port.Renderer
}

func NewSquare(fetcher port.Fetcher, renderer port.Renderer) *Square {
	return &Square{fetcher: fetcher, renderer: renderer}
}

func (s *Square) Render(ctx context.Context, sourceURL string, spec domain.RenderSpec) (*domain.RenderedImage, error) {
	resource, err := s.fetcher.Fetch(ctx, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source image: %w", err)
	}

	rendered, err := s.renderer.Render(ctx, resource.Bytes, spec)
	if err != nil {
		return nil, fmt.Errorf("failed to render square image: %w", err)
	}

	log.Debug().
		Str("source", sourceURL).
		Int("inputBytes", len(resource.Bytes)).
		Int("outputBytes", len(rendered)).
		Str("format", string(spec.Format)).
		Msg("rendered square image")

	return &domain.RenderedImage{
		Bytes:        rendered,
		MIME:         spec.Format.MIME(),
		ETag:         domain.Fingerprint(rendered),
		LastModified: resource.LastModified,
	}, nil
}
