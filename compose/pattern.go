package compose

import (
	"strconv"

	surface "github.com/kitchenlab/surface"
	"github.com/kitchenlab/surface/svgdom"
	"github.com/kitchenlab/surface/texture"
)

// Pattern resources live in the document's shared <defs> section, keyed
// by material id, so repeated application of the same material reuses one
// resource instance instead of duplicating it. The cache is part of the
// LoadedScene and dies with it on scene switch: the replacement document
// has a fresh defs section and stale node handles must never leak into it.

// groutCell is the repeat cell size of the synthetic floor grid, and
// groutLine the thickness of its grout lines, both in user units.
const (
	groutCell = 64
	groutLine = 2
)

// ensureImagePattern installs the repeating-fill resource for a tiled
// material, or returns the already-installed one. The repeat cell is
// sized to the image's natural pixel dimensions; an arbitrary fixed cell
// would resample the tile and produce visible seams. The image itself is
// embedded as a data URI so snapshots stay self-contained.
func (c *Compositor) ensureImagePattern(ls *LoadedScene, mat surface.Material, dec *texture.Decoded) string {
	patID := "pat-" + mat.ID
	if _, ok := ls.patterns[mat.ID]; ok {
		return patID
	}

	w := strconv.Itoa(dec.Width)
	h := strconv.Itoa(dec.Height)
	pat := ls.Doc.AppendChild(ls.Doc.Defs(), "pattern",
		svgdom.Attr{Name: "id", Value: patID},
		svgdom.Attr{Name: "patternUnits", Value: "userSpaceOnUse"},
		svgdom.Attr{Name: "width", Value: w},
		svgdom.Attr{Name: "height", Value: h},
	)
	ls.Doc.AppendChild(pat, "image",
		svgdom.Attr{Name: "href", Value: dec.DataURI()},
		svgdom.Attr{Name: "width", Value: w},
		svgdom.Attr{Name: "height", Value: h},
	)

	ls.patterns[mat.ID] = pat
	surface.Logger().Debug("pattern installed",
		"material", mat.ID, "cell", w+"x"+h)
	return patID
}

// ensureGroutPattern installs the synthetic grid pattern for a flat floor
// material: one horizontal and one vertical grout line per cell over a
// transparent base, the grout color computed by darkening the base fill.
// The base color itself stays on the region, so the overlay adds only
// the lines and regions painted later still occlude the floor normally.
func (c *Compositor) ensureGroutPattern(ls *LoadedScene, mat surface.Material, baseHex string) string {
	key := "grout:" + mat.ID
	patID := "pat-grout-" + mat.ID
	if _, ok := ls.patterns[key]; ok {
		return patID
	}

	groutHex := surface.GroutColor(surface.Hex(baseHex)).HexString()
	cell := strconv.Itoa(groutCell)
	line := strconv.Itoa(groutLine)

	pat := ls.Doc.AppendChild(ls.Doc.Defs(), "pattern",
		svgdom.Attr{Name: "id", Value: patID},
		svgdom.Attr{Name: "patternUnits", Value: "userSpaceOnUse"},
		svgdom.Attr{Name: "width", Value: cell},
		svgdom.Attr{Name: "height", Value: cell},
	)
	ls.Doc.AppendChild(pat, "rect",
		svgdom.Attr{Name: "width", Value: cell},
		svgdom.Attr{Name: "height", Value: line},
		svgdom.Attr{Name: "fill", Value: groutHex},
	)
	ls.Doc.AppendChild(pat, "rect",
		svgdom.Attr{Name: "width", Value: line},
		svgdom.Attr{Name: "height", Value: cell},
		svgdom.Attr{Name: "fill", Value: groutHex},
	)

	ls.patterns[key] = pat
	return patID
}

// applyGroutOverlay lays the grid pattern over freshly flat-filled floor
// regions. Each region gets one overlay element cloned from its geometry;
// reapplication retargets the existing overlay instead of stacking a new
// one, keeping the pass idempotent.
func (c *Compositor) applyGroutOverlay(ls *LoadedScene, mat surface.Material, regions []svgdom.NodeID, baseHex string) {
	patID := c.ensureGroutPattern(ls, mat, baseHex)
	ref := "url(#" + patID + ")"

	for _, n := range regions {
		overlay, ok := ls.grout[n]
		if !ok {
			overlay = c.cloneGeometry(ls, n)
			if overlay == svgdom.InvalidNode {
				continue
			}
			ls.grout[n] = overlay
		}
		ls.Doc.SetAttr(overlay, "fill", ref)
		ls.Doc.SetStyleProp(overlay, "fill", ref)
	}
}

// hideGroutOverlays blanks every installed floor overlay. Called when a
// non-flat floor material is applied: the overlays belong to the
// previous flat fill and must not survive on top of a tile pattern. The
// nodes stay in place so a later flat fill can retarget them.
func (c *Compositor) hideGroutOverlays(ls *LoadedScene) {
	for _, overlay := range ls.grout {
		ls.Doc.SetAttr(overlay, "fill", "none")
		ls.Doc.SetStyleProp(overlay, "fill", "none")
	}
}

// cloneGeometry copies a region element's tag and geometry attributes
// into a sibling inserted directly after the original, so the overlay
// draws over its region but under every region serialized later.
// Identity and paint attributes are not carried over.
func (c *Compositor) cloneGeometry(ls *LoadedScene, n svgdom.NodeID) svgdom.NodeID {
	var attrs []svgdom.Attr
	for _, a := range ls.Doc.Attrs(n) {
		switch a.Name {
		case "id", "fill", "style", "class":
			continue
		}
		attrs = append(attrs, a)
	}
	return ls.Doc.InsertAfter(n, ls.Doc.Tag(n), attrs...)
}
