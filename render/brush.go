package render

import (
	"math"

	surface "github.com/kitchenlab/surface"
)

// Brush supplies the paint color at a point. Points are in the local
// user space of the element being filled, which is also the space
// pattern cells repeat in (patternUnits="userSpaceOnUse").
type Brush interface {
	ColorAt(p Point) surface.RGBA
}

// SolidBrush paints one color everywhere.
type SolidBrush struct {
	Color surface.RGBA
}

// ColorAt implements Brush.
func (b SolidBrush) ColorAt(Point) surface.RGBA { return b.Color }

// TileBrush repeats a pre-rendered cell across user space, anchored at
// the origin. One cell pixel covers one user unit, matching how the
// compositor sizes pattern cells to the tile's natural pixel dimensions.
type TileBrush struct {
	Cell *Pixmap
}

// ColorAt implements Brush.
func (b TileBrush) ColorAt(p Point) surface.RGBA {
	w := b.Cell.Width()
	h := b.Cell.Height()
	if w == 0 || h == 0 {
		return surface.RGBA{}
	}
	x := int(math.Floor(p.X)) % w
	if x < 0 {
		x += w
	}
	y := int(math.Floor(p.Y)) % h
	if y < 0 {
		y += h
	}
	return b.Cell.GetPixel(x, y)
}

// transformedBrush samples an underlying brush through a device-to-user
// transform, so the scanline filler can work purely in device pixels.
type transformedBrush struct {
	brush Brush
	inv   Matrix
}

func (b transformedBrush) ColorAt(p Point) surface.RGBA {
	return b.brush.ColorAt(b.inv.Apply(p))
}
