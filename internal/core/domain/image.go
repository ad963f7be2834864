package domain

import (
	"crypto/md5" // cache validation only, not a security boundary
	"encoding/hex"
	"fmt"
	"image/color"
)

// Resource is a remote file pulled fully into memory.
type Resource struct {
	Bytes        []byte
	LastModified string
}

// RenderSpec carries the normalized transformation parameters.
type RenderSpec struct {
	Size       int
	Background color.NRGBA
	Alignment  Alignment
	Format     Format
}

// RenderedImage is the encoded square output plus its cache validators.
type RenderedImage struct {
	Bytes        []byte
	MIME         string
	ETag         string
	LastModified string
}

// ProductImage is one entry of a product's variant image list.
type ProductImage struct {
	ImageID string
	IsMain  bool
	Order   int
}

// Fingerprint derives the strong cache validator from rendered bytes,
// quoted so it can be used verbatim as an ETag header value.
func Fingerprint(data []byte) string {
	sum := md5.Sum(data)
	return fmt.Sprintf("%q", hex.EncodeToString(sum[:]))
}
