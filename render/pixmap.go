// Package render rasterizes a composited SVG document on the CPU.
//
// It covers exactly the subset of SVG the kitchen illustrations use:
// paths, basic shapes, group transforms, flat fills and the pattern
// resources the compositor installs. Rendering happens at a fixed logical
// resolution independent of any on-screen size, which keeps thumbnails
// and PDF previews reproducible.
package render

import (
	"image"
	"image/png"
	"io"

	surface "github.com/kitchenlab/surface"
)

// Pixmap is a rectangular RGBA pixel buffer, the target of rasterization.
type Pixmap struct {
	width  int
	height int
	data   []uint8 // RGBA, 4 bytes per pixel
}

// NewPixmap creates a pixmap with the given dimensions.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int { return p.width }

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int { return p.height }

// SetPixel sets the color of a single pixel. Out-of-bounds writes are
// dropped.
func (p *Pixmap) SetPixel(x, y int, c surface.RGBA) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i+0] = clampByte(c.R * 255)
	p.data[i+1] = clampByte(c.G * 255)
	p.data[i+2] = clampByte(c.B * 255)
	p.data[i+3] = clampByte(c.A * 255)
}

// BlendPixel composites a color over the existing pixel.
func (p *Pixmap) BlendPixel(x, y int, c surface.RGBA) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	if c.A >= 1 {
		p.SetPixel(x, y, c)
		return
	}
	if c.A <= 0 {
		return
	}
	i := (y*p.width + x) * 4
	inv := 1 - c.A
	r := c.R*c.A + float64(p.data[i+0])/255*inv
	g := c.G*c.A + float64(p.data[i+1])/255*inv
	b := c.B*c.A + float64(p.data[i+2])/255*inv
	a := c.A + float64(p.data[i+3])/255*inv
	p.data[i+0] = clampByte(r * 255)
	p.data[i+1] = clampByte(g * 255)
	p.data[i+2] = clampByte(b * 255)
	p.data[i+3] = clampByte(a * 255)
}

// GetPixel returns the color of a single pixel.
func (p *Pixmap) GetPixel(x, y int) surface.RGBA {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return surface.RGBA{}
	}
	i := (y*p.width + x) * 4
	return surface.RGBA{
		R: float64(p.data[i+0]) / 255,
		G: float64(p.data[i+1]) / 255,
		B: float64(p.data[i+2]) / 255,
		A: float64(p.data[i+3]) / 255,
	}
}

// Clear fills the entire pixmap with a color.
func (p *Pixmap) Clear(c surface.RGBA) {
	r := clampByte(c.R * 255)
	g := clampByte(c.G * 255)
	b := clampByte(c.B * 255)
	a := clampByte(c.A * 255)
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = r
		p.data[i+1] = g
		p.data[i+2] = b
		p.data[i+3] = a
	}
}

// ToImage converts the pixmap to an image.RGBA.
func (p *Pixmap) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// EncodePNG writes the pixmap as PNG.
func (p *Pixmap) EncodePNG(w io.Writer) error {
	return png.Encode(w, p.ToImage())
}

// clampByte restricts a value to [0, 255] and converts to uint8.
func clampByte(x float64) uint8 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return uint8(x)
}
