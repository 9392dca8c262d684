package texture

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/draw"
)

// Thumbnail downsizes an image to fit within maxW x maxH, preserving
// aspect ratio. Images already within bounds are returned unchanged.
// CatmullRom resampling keeps tile swatches legible at small sizes.
func Thumbnail(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxW && h <= maxH {
		return img
	}

	scale := float64(maxW) / float64(w)
	if s := float64(maxH) / float64(h); s < scale {
		scale = s
	}
	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// DecodeDataURI decodes a base64 "data:image/..." URI back into an image.
// The renderer uses this to sample pattern tiles out of a composited
// document without reaching for the network.
func DecodeDataURI(uri string) (image.Image, error) {
	const marker = ";base64,"
	if !strings.HasPrefix(uri, "data:image/") {
		return nil, fmt.Errorf("texture: not an image data URI")
	}
	i := strings.Index(uri, marker)
	if i < 0 {
		return nil, fmt.Errorf("texture: data URI is not base64")
	}
	raw, err := base64.StdEncoding.DecodeString(uri[i+len(marker):])
	if err != nil {
		return nil, fmt.Errorf("texture: data URI: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("texture: data URI: %w", err)
	}
	return img, nil
}
