package render

import (
	"math"
	"sort"
)

// FillRule selects the inside test for overlapping contours.
type FillRule int

const (
	// NonZero is the SVG default fill rule.
	NonZero FillRule = iota
	// EvenOdd corresponds to fill-rule="evenodd".
	EvenOdd
)

// ParseFillRule maps a fill-rule attribute value to a FillRule.
func ParseFillRule(s string) FillRule {
	if s == "evenodd" {
		return EvenOdd
	}
	return NonZero
}

// edge is a non-horizontal segment normalized so y0 < y1, with the
// winding direction of the original orientation.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dir    int
}

// crossing is one scanline intersection.
type crossing struct {
	x   float64
	dir int
}

// FillContours rasterizes closed contours given in device space into
// dst, sampling the brush at every covered pixel center. Contours are
// closed implicitly from last point back to first.
func FillContours(dst *Pixmap, contours []Contour, rule FillRule, brush Brush) {
	edges, minY, maxY := buildEdges(contours)
	if len(edges) == 0 {
		return
	}

	y0 := int(math.Floor(minY))
	y1 := int(math.Ceil(maxY))
	if y0 < 0 {
		y0 = 0
	}
	if y1 > dst.Height() {
		y1 = dst.Height()
	}

	var xs []crossing
	for y := y0; y < y1; y++ {
		yc := float64(y) + 0.5
		xs = xs[:0]
		for _, e := range edges {
			if yc < e.y0 || yc >= e.y1 {
				continue
			}
			x := e.x0 + (yc-e.y0)*(e.x1-e.x0)/(e.y1-e.y0)
			xs = append(xs, crossing{x: x, dir: e.dir})
		}
		if len(xs) < 2 {
			continue
		}
		sort.Slice(xs, func(i, j int) bool { return xs[i].x < xs[j].x })

		winding := 0
		for i := 0; i < len(xs)-1; i++ {
			winding += xs[i].dir
			inside := winding != 0
			if rule == EvenOdd {
				inside = winding%2 != 0
			}
			if !inside {
				continue
			}
			fillSpan(dst, xs[i].x, xs[i+1].x, y, yc, brush)
		}
	}
}

// fillSpan paints the pixels whose centers fall in [xa, xb) on row y.
func fillSpan(dst *Pixmap, xa, xb float64, y int, yc float64, brush Brush) {
	x0 := int(math.Ceil(xa - 0.5))
	x1 := int(math.Ceil(xb - 0.5))
	if x0 < 0 {
		x0 = 0
	}
	if x1 > dst.Width() {
		x1 = dst.Width()
	}
	for x := x0; x < x1; x++ {
		dst.BlendPixel(x, y, brush.ColorAt(Point{X: float64(x) + 0.5, Y: yc}))
	}
}

// buildEdges converts contours into scanline edges and reports the
// vertical extent of the geometry.
func buildEdges(contours []Contour) ([]edge, float64, float64) {
	var edges []edge
	minY := math.Inf(1)
	maxY := math.Inf(-1)
	for _, c := range contours {
		n := len(c)
		if n < 3 {
			continue
		}
		for i := 0; i < n; i++ {
			a := c[i]
			b := c[(i+1)%n]
			if a.Y == b.Y {
				continue
			}
			e := edge{x0: a.X, y0: a.Y, x1: b.X, y1: b.Y, dir: 1}
			if a.Y > b.Y {
				e = edge{x0: b.X, y0: b.Y, x1: a.X, y1: a.Y, dir: -1}
			}
			edges = append(edges, e)
			minY = math.Min(minY, e.y0)
			maxY = math.Max(maxY, e.y1)
		}
	}
	return edges, minY, maxY
}
