package port

import (
	"context"
	"squarepad/internal/core/domain"
)

type Renderer interface {
	// Render decodes the input bytes and produces a square rendition
	// encoded in the requested format.
	Render(ctx context.Context, data []byte, spec domain.RenderSpec) ([]byte, error)
}
