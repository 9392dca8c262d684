package svgdom

import (
	"fmt"
	"strconv"
	"strings"
)

// Viewport is the logical coordinate box of the artwork.
type Viewport struct {
	MinX, MinY    float64
	Width, Height float64
}

// DefaultViewport is used when the artwork declares neither a viewBox nor
// usable width/height attributes. The dimensions match the reference
// illustration; override via the compositor options if a variant needs
// something else.
var DefaultViewport = Viewport{Width: 1200, Height: 800}

// ResolveViewport determines the artwork's viewport: an explicit viewBox
// wins, then the root width/height attributes, then the fallback.
func (d *Document) ResolveViewport(fallback Viewport) Viewport {
	if vb, ok := d.Attr(d.root, "viewBox"); ok {
		if vp, err := parseViewBox(vb); err == nil {
			return vp
		}
	}
	w, wok := d.lengthAttr(d.root, "width")
	h, hok := d.lengthAttr(d.root, "height")
	if wok && hok && w > 0 && h > 0 {
		return Viewport{Width: w, Height: h}
	}
	if fallback.Width <= 0 || fallback.Height <= 0 {
		return DefaultViewport
	}
	return fallback
}

// SetViewport writes the viewport back to the root viewBox attribute.
func (d *Document) SetViewport(vp Viewport) {
	d.SetAttr(d.root, "viewBox", fmt.Sprintf("%s %s %s %s",
		trimFloat(vp.MinX), trimFloat(vp.MinY),
		trimFloat(vp.Width), trimFloat(vp.Height)))
}

// Pad expands the viewport by the given fraction of its width and height
// on each side. The configurator applies a 0.15 expansion once at scene
// load to visually zoom the composed illustration out.
func (vp Viewport) Pad(fraction float64) Viewport {
	dx := vp.Width * fraction
	dy := vp.Height * fraction
	return Viewport{
		MinX:   vp.MinX - dx,
		MinY:   vp.MinY - dy,
		Width:  vp.Width + 2*dx,
		Height: vp.Height + 2*dy,
	}
}

func parseViewBox(s string) (Viewport, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
	if len(fields) != 4 {
		return Viewport{}, fmt.Errorf("svgdom: viewBox %q: want 4 numbers", s)
	}
	var vals [4]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Viewport{}, fmt.Errorf("svgdom: viewBox %q: %w", s, err)
		}
		vals[i] = v
	}
	if vals[2] <= 0 || vals[3] <= 0 {
		return Viewport{}, fmt.Errorf("svgdom: viewBox %q: non-positive size", s)
	}
	return Viewport{MinX: vals[0], MinY: vals[1], Width: vals[2], Height: vals[3]}, nil
}

// lengthAttr parses a numeric attribute, tolerating a "px" suffix.
func (d *Document) lengthAttr(id NodeID, name string) (float64, bool) {
	raw, ok := d.Attr(id, name)
	if !ok {
		return 0, false
	}
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "px")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
