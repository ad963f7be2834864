package domain

import (
	"image/color"
	"math"
	"strconv"
	"strings"
)

// MinSize is the smallest square edge the renderer will produce. The upper
// bound and default are configurable, the floor is not.
const MinSize = 128

type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
	FormatAVIF Format = "avif"
)

func (f Format) MIME() string {
	return "image/" + string(f)
}

type Alignment string

const (
	AlignCenter Alignment = "center"
	AlignTop    Alignment = "top"
	AlignBottom Alignment = "bottom"
	AlignLeft   Alignment = "left"
	AlignRight  Alignment = "right"
)

// Clamp parses raw as a number and clamps it to [min, max]. Empty or
// non-finite input yields the fallback.
func Clamp(raw string, min, max, fallback int) int {
	if raw == "" {
		return fallback
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return fallback
	}

	return int(math.Max(float64(min), math.Min(float64(max), value)))
}

// ParseBackground turns a 6-hex-digit RGB string, with or without a leading
// hash, into an opaque color. Anything malformed falls back to white.
func ParseBackground(raw string) color.NRGBA {
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	value := strings.ToLower(strings.TrimPrefix(raw, "#"))
	if len(value) != 6 {
		return white
	}

	parsed, err := strconv.ParseUint(value, 16, 32)
	if err != nil {
		return white
	}

	return color.NRGBA{
		R: uint8(parsed >> 16),
		G: uint8(parsed >> 8),
		B: uint8(parsed),
		A: 0xff,
	}
}

// ParseAlignment maps the align parameter to a canvas anchor, defaulting to
// center for anything unrecognized.
func ParseAlignment(raw string) Alignment {
	switch Alignment(strings.ToLower(raw)) {
	case AlignTop:
		return AlignTop
	case AlignBottom:
		return AlignBottom
	case AlignLeft:
		return AlignLeft
	case AlignRight:
		return AlignRight
	default:
		return AlignCenter
	}
}

// NegotiateFormat decides the output encoding. An explicit known override
// wins; "auto" consults the Accept header for avif then webp; everything
// else, including unknown overrides, degrades to jpeg.
func NegotiateFormat(override, accept string) Format {
	requested := strings.ToLower(override)
	if requested != "" && requested != "auto" {
		switch Format(requested) {
		case FormatPNG, FormatWebP, FormatAVIF:
			return Format(requested)
		default:
			return FormatJPEG
		}
	}

	if strings.Contains(accept, "image/avif") {
		return FormatAVIF
	}
	if strings.Contains(accept, "image/webp") {
		return FormatWebP
	}

	return FormatJPEG
}
