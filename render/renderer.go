package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	surface "github.com/kitchenlab/surface"
	"github.com/kitchenlab/surface/svgdom"
	"github.com/kitchenlab/surface/texture"
)

// Default output resolution. Capture happens at a fixed logical size so
// previews and PDF exports come out identical regardless of where the
// document is rendered.
const (
	DefaultWidth  = 1200
	DefaultHeight = 800
)

// Options controls rasterization of a document.
type Options struct {
	// Width and Height of the output pixmap in pixels. Zero values take
	// the defaults.
	Width  int
	Height int

	// Background is painted before the document. The zero value leaves
	// the pixmap transparent.
	Background surface.RGBA

	// Fallback viewport for artwork without a usable viewBox.
	Fallback svgdom.Viewport
}

// Render rasterizes a document into a pixmap. The viewport is scaled
// uniformly to fit the output and centered on both axes.
func Render(doc *svgdom.Document, opts Options) (*Pixmap, error) {
	if doc == nil {
		return nil, fmt.Errorf("render: nil document")
	}
	w := opts.Width
	if w <= 0 {
		w = DefaultWidth
	}
	h := opts.Height
	if h <= 0 {
		h = DefaultHeight
	}

	dst := NewPixmap(w, h)
	if opts.Background.A > 0 {
		dst.Clear(opts.Background)
	}

	vp := doc.ResolveViewport(opts.Fallback)
	scale := math.Min(float64(w)/vp.Width, float64(h)/vp.Height)
	tx := (float64(w)-vp.Width*scale)/2 - vp.MinX*scale
	ty := (float64(h)-vp.Height*scale)/2 - vp.MinY*scale
	device := Translate(tx, ty).Mul(Scale(scale, scale))

	r := &renderer{doc: doc, dst: dst, patterns: make(map[string]Brush)}
	r.walk(doc.Root(), device)
	return dst, nil
}

// renderer carries per-pass state: the target pixmap and the pattern
// brushes already built for this document.
type renderer struct {
	doc      *svgdom.Document
	dst      *Pixmap
	patterns map[string]Brush
}

// walk paints the subtree under n. m maps the local user space at n's
// parent to device pixels.
func (r *renderer) walk(n svgdom.NodeID, m Matrix) {
	tag := r.doc.Tag(n)
	if tag == "defs" {
		return
	}
	if v, ok := r.doc.StyleProp(n, "display"); ok && v == "none" {
		return
	}
	if t, ok := r.doc.Attr(n, "transform"); ok {
		m = m.Mul(ParseTransform(t))
	}

	if r.doc.IsDrawable(n) {
		r.paint(n, m)
		return
	}
	for _, c := range r.doc.Children(n) {
		r.walk(c, m)
	}
}

// paint fills one drawable leaf.
func (r *renderer) paint(n svgdom.NodeID, m Matrix) {
	brush, ok := r.brushFor(n)
	if !ok {
		return
	}
	contours := r.contoursFor(n)
	if len(contours) == 0 {
		return
	}

	device := make([]Contour, len(contours))
	for i, c := range contours {
		dc := make(Contour, len(c))
		for j, p := range c {
			dc[j] = m.Apply(p)
		}
		device[i] = dc
	}

	rule := NonZero
	if v, ok := r.doc.Attr(n, "fill-rule"); ok {
		rule = ParseFillRule(v)
	}
	FillContours(r.dst, device, rule, transformedBrush{brush: brush, inv: m.Invert()})
}

// brushFor resolves the element's effective fill into a brush. The
// element's own fill attribute wins, then its inline style, then the
// nearest ancestor with a fill; fill="none" yields no brush, and an
// element with no fill anywhere inherits the SVG default black.
func (r *renderer) brushFor(n svgdom.NodeID) (Brush, bool) {
	raw, found := rawFill(r.doc, n)
	if !found {
		return SolidBrush{Color: surface.RGBA{A: 1}}, true
	}
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "" || raw == "none":
		return nil, false
	case strings.HasPrefix(raw, "url(#") && strings.HasSuffix(raw, ")"):
		id := raw[len("url(#") : len(raw)-1]
		b, err := r.patternBrush(id)
		if err != nil {
			surface.Logger().Warn("unresolvable fill reference",
				"ref", raw, "error", err)
			return nil, false
		}
		return b, true
	}
	if hex, ok := surface.NormalizeHex(raw); ok {
		return SolidBrush{Color: surface.Hex(hex)}, true
	}
	return nil, false
}

// rawFill finds the first declared fill value on the element or its
// ancestors, without interpreting it.
func rawFill(doc *svgdom.Document, n svgdom.NodeID) (string, bool) {
	for cur := n; cur != svgdom.InvalidNode; cur = doc.Parent(cur) {
		if v, ok := doc.Attr(cur, "fill"); ok {
			return v, true
		}
		if v, ok := doc.StyleProp(cur, "fill"); ok {
			return v, true
		}
	}
	return "", false
}

// patternBrush builds (or reuses) a tiling brush from a <pattern>
// resource by rendering the pattern's children into one repeat cell.
func (r *renderer) patternBrush(id string) (Brush, error) {
	if b, ok := r.patterns[id]; ok {
		return b, nil
	}
	pat := r.doc.ByID(id)
	if pat == svgdom.InvalidNode || r.doc.Tag(pat) != "pattern" {
		return nil, fmt.Errorf("render: no pattern %q", id)
	}
	cw := int(math.Ceil(attrFloat(r.doc, pat, "width", 0)))
	ch := int(math.Ceil(attrFloat(r.doc, pat, "height", 0)))
	if cw <= 0 || ch <= 0 {
		return nil, fmt.Errorf("render: pattern %q has no cell size", id)
	}

	cell := NewPixmap(cw, ch)
	for _, c := range r.doc.Children(pat) {
		switch r.doc.Tag(c) {
		case "rect":
			r.cellRect(cell, c)
		case "image":
			if err := r.cellImage(cell, c); err != nil {
				return nil, err
			}
		}
	}

	b := TileBrush{Cell: cell}
	r.patterns[id] = b
	return b, nil
}

// cellRect paints a flat rectangle child into a pattern cell.
func (r *renderer) cellRect(cell *Pixmap, n svgdom.NodeID) {
	raw, _ := r.doc.Attr(n, "fill")
	hex, ok := surface.NormalizeHex(raw)
	if !ok {
		return
	}
	col := surface.Hex(hex)
	x0 := int(math.Floor(attrFloat(r.doc, n, "x", 0)))
	y0 := int(math.Floor(attrFloat(r.doc, n, "y", 0)))
	x1 := x0 + int(math.Ceil(attrFloat(r.doc, n, "width", 0)))
	y1 := y0 + int(math.Ceil(attrFloat(r.doc, n, "height", 0)))
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			cell.BlendPixel(x, y, col)
		}
	}
}

// cellImage copies an embedded data-URI image child into a pattern
// cell. Cells are sized to the image's natural dimensions, so the copy
// is pixel for pixel.
func (r *renderer) cellImage(cell *Pixmap, n svgdom.NodeID) error {
	href, ok := r.doc.Attr(n, "href")
	if !ok {
		href, ok = r.doc.Attr(n, "xlink:href")
	}
	if !ok {
		return fmt.Errorf("render: pattern image has no href")
	}
	img, err := texture.DecodeDataURI(href)
	if err != nil {
		return fmt.Errorf("render: pattern image: %w", err)
	}
	b := img.Bounds()
	for y := 0; y < b.Dy() && y < cell.Height(); y++ {
		for x := 0; x < b.Dx() && x < cell.Width(); x++ {
			cr, cg, cb, ca := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			cell.SetPixel(x, y, surface.RGBA{
				R: float64(cr) / 65535,
				G: float64(cg) / 65535,
				B: float64(cb) / 65535,
				A: float64(ca) / 65535,
			})
		}
	}
	return nil
}

// contoursFor converts a drawable leaf's geometry into contours.
func (r *renderer) contoursFor(n svgdom.NodeID) []Contour {
	doc := r.doc
	switch doc.Tag(n) {
	case "path":
		d, _ := doc.Attr(n, "d")
		return ParsePathData(d)
	case "rect":
		w := attrFloat(doc, n, "width", 0)
		h := attrFloat(doc, n, "height", 0)
		if w <= 0 || h <= 0 {
			return nil
		}
		return []Contour{rectContour(
			attrFloat(doc, n, "x", 0), attrFloat(doc, n, "y", 0), w, h)}
	case "circle":
		rad := attrFloat(doc, n, "r", 0)
		if rad <= 0 {
			return nil
		}
		return []Contour{ellipseContour(
			attrFloat(doc, n, "cx", 0), attrFloat(doc, n, "cy", 0), rad, rad)}
	case "ellipse":
		rx := attrFloat(doc, n, "rx", 0)
		ry := attrFloat(doc, n, "ry", 0)
		if rx <= 0 || ry <= 0 {
			return nil
		}
		return []Contour{ellipseContour(
			attrFloat(doc, n, "cx", 0), attrFloat(doc, n, "cy", 0), rx, ry)}
	case "polygon", "polyline":
		pts, _ := doc.Attr(n, "points")
		c := pointsContour(pts)
		if len(c) < 3 {
			return nil
		}
		return []Contour{c}
	}
	// Lines have no fillable interior.
	return nil
}

// attrFloat parses a numeric attribute, tolerating a "px" suffix.
func attrFloat(doc *svgdom.Document, n svgdom.NodeID, name string, def float64) float64 {
	raw, ok := doc.Attr(n, name)
	if !ok {
		return def
	}
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "px")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}
