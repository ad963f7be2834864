package renderer

import (
	"bytes"
	"context"
	"fmt"
	"image"

	// Register decoders for the formats a feed may reference.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"squarepad/internal/core/domain"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/avif"
	"github.com/gen2brain/webp"
	"github.com/rs/zerolog/log"
)

const (
	jpegQuality = 88
	webpQuality = 80
	avifQuality = 55
)

// Square produces exact target×target renditions: the source is scaled
// uniformly so its longer edge equals the target, then pasted onto a canvas
// filled with the background color at the requested anchor.
type Square struct{}

func NewSquare() *Square {
	return &Square{}
}

func (s *Square) Render(_ context.Context, data []byte, spec domain.RenderSpec) ([]byte, error) {
	img, sourceFormat, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDecode, err)
	}

	bounds := img.Bounds()
	log.Debug().
		Str("sourceFormat", sourceFormat).
		Int("width", bounds.Dx()).
		Int("height", bounds.Dy()).
		Int("targetSize", spec.Size).
		Msg("decoded source image")

	var scaled *image.NRGBA
	if bounds.Dx() >= bounds.Dy() {
		scaled = imaging.Resize(img, spec.Size, 0, imaging.Lanczos)
	} else {
		scaled = imaging.Resize(img, 0, spec.Size, imaging.Lanczos)
	}

	canvas := imaging.New(spec.Size, spec.Size, spec.Background)
	canvas = imaging.Paste(canvas, scaled, anchorPoint(spec.Alignment, spec.Size, scaled.Rect.Dx(), scaled.Rect.Dy()))

	var buf bytes.Buffer
	switch spec.Format {
	case domain.FormatPNG:
		err = imaging.Encode(&buf, canvas, imaging.PNG)
	case domain.FormatWebP:
		err = webp.Encode(&buf, canvas, webp.Options{Quality: webpQuality})
	case domain.FormatAVIF:
		err = avif.Encode(&buf, canvas, avif.Options{Quality: avifQuality})
	default:
		err = imaging.Encode(&buf, canvas, imaging.JPEG, imaging.JPEGQuality(jpegQuality))
	}
	if err != nil {
		return nil, fmt.Errorf("error encoding %s output: %w", spec.Format, err)
	}

	return buf.Bytes(), nil
}

// anchorPoint maps the alignment to the paste position on the canvas. The
// scaled image always spans the canvas fully in one dimension, so only the
// other one moves.
func anchorPoint(align domain.Alignment, canvas, width, height int) image.Point {
	x := (canvas - width) / 2
	y := (canvas - height) / 2

	switch align {
	case domain.AlignTop:
		y = 0
	case domain.AlignBottom:
		y = canvas - height
	case domain.AlignLeft:
		x = 0
	case domain.AlignRight:
		x = canvas - width
	case domain.AlignCenter:
	}

	return image.Pt(x, y)
}
