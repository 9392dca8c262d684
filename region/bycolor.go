package region

import (
	surface "github.com/kitchenlab/surface"
	"github.com/kitchenlab/surface/svgdom"
)

// ByColor resolves regions by classifying every drawable leaf element's
// effective fill color against a per-scene reference palette.
type ByColor struct {
	Scene   string
	Palette Palette
}

// Resolve implements Strategy. Elements are visited in document order.
//
// An element belongs to a category when its normalized effective fill
// exactly equals one of the category's reference colors. Backsplash
// additionally takes any light element whose color is not claimed by a
// sibling category; this is a known lossy approximation for variants
// authored without backsplash reference colors, kept as-is deliberately.
func (s *ByColor) Resolve(doc *svgdom.Document, cat surface.Category) []svgdom.NodeID {
	refs := s.Palette.referenceSet(cat)
	var regions []svgdom.NodeID
	for _, n := range doc.DrawableLeaves() {
		hex, ok := EffectiveFill(doc, n)
		if !ok {
			continue
		}
		if refs[hex] {
			regions = append(regions, n)
			continue
		}
		if cat == surface.Backsplash && s.Palette.lightOrphan(hex) {
			regions = append(regions, n)
		}
	}
	if len(regions) == 0 {
		surface.Logger().Warn("no regions classified",
			"scene", s.Scene, "category", cat, "strategy", "color")
	}
	return regions
}

// EffectiveFill computes an element's effective fill color, normalized to
// "#rrggbb" lowercase. Checked in order: the element's own fill attribute,
// its inline style, then inherited fill from ancestor elements — the first
// ancestor with a resolvable fill wins. Returns false when no resolvable
// fill exists anywhere up the chain (unfilled element, "none", gradient or
// pattern references).
func EffectiveFill(doc *svgdom.Document, n svgdom.NodeID) (string, bool) {
	for cur := n; cur != svgdom.InvalidNode; cur = doc.Parent(cur) {
		if v, ok := doc.Attr(cur, "fill"); ok {
			if hex, ok := surface.NormalizeHex(v); ok {
				return hex, true
			}
			// An explicit but non-color fill (none, url(#...)) on the
			// element itself still blocks inheritance of a usable color.
			if cur == n {
				return "", false
			}
		}
		if v, ok := doc.StyleProp(cur, "fill"); ok {
			if hex, ok := surface.NormalizeHex(v); ok {
				return hex, true
			}
			if cur == n {
				return "", false
			}
		}
	}
	return "", false
}
