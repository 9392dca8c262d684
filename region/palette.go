package region

import surface "github.com/kitchenlab/surface"

// Palette is the versioned classification data for one illustration
// variant: the reference fill colors each category was authored with, and
// the luminance floor for the backsplash light-color heuristic.
//
// Reference sets must be disjoint across categories; adding a new
// illustration variant is a data change here, not a code change.
type Palette struct {
	Reference map[surface.Category][]string

	// LightMin is the minimum luminance for the backsplash catch-all:
	// "light color, and not a reference color of any sibling category".
	LightMin float64
}

// referenceSet returns the normalized reference colors of one category.
func (p Palette) referenceSet(cat surface.Category) map[string]bool {
	set := make(map[string]bool)
	for _, c := range p.Reference[cat] {
		if hex, ok := surface.NormalizeHex(c); ok {
			set[hex] = true
		}
	}
	return set
}

// lightOrphan reports whether a color qualifies for the backsplash
// catch-all heuristic: light, and not a reference color of any category.
func (p Palette) lightOrphan(hex string) bool {
	if surface.Hex(hex).Luminance() < p.LightMin {
		return false
	}
	for _, colors := range p.Reference {
		for _, c := range colors {
			if n, ok := surface.NormalizeHex(c); ok && n == hex {
				return false
			}
		}
	}
	return true
}

// sceneIdentifiers maps legacy scenes to their explicit per-category
// element id lists. kitchen-a is the reference illustration; its surfaces
// were exported with stable ids.
var sceneIdentifiers = map[string]map[surface.Category][]string{
	"kitchen-a": {
		surface.Countertop: idRange("countertop-surface-", 4, 21),
		surface.Backsplash: idRange("backsplash-tile-", 1, 12),
		surface.Cabinet: append(
			idRange("cabinet-door-", 1, 10),
			idRange("cabinet-frame-", 1, 4)...),
		surface.Floor: idRange("floor-board-", 1, 8),
		surface.Background: {
			"wall-backdrop",
			"window-sky",
		},
	},
}

// scenePalettes maps color-classified scenes to their authored palettes.
// kitchen-b was exported without stable ids; these literals are the exact
// fills its layers were drawn with.
var scenePalettes = map[string]Palette{
	"kitchen-b": {
		Reference: map[surface.Category][]string{
			surface.Cabinet:    {"#8b5a2b", "#7a4e26", "#916036"},
			surface.Countertop: {"#d8d8d2", "#bfbfb8"},
			surface.Floor:      {"#a98c6f", "#97795c"},
			surface.Background: {"#e8f0f4", "#dce8ee"},
			surface.Backsplash: {"#f0e6d8"},
		},
		LightMin: 0.8,
	},
}

// defaultPalette serves scenes with no registered table entry.
var defaultPalette = Palette{
	Reference: map[surface.Category][]string{
		surface.Cabinet:    {"#8b5a2b", "#7a4e26"},
		surface.Countertop: {"#d8d8d2"},
		surface.Floor:      {"#a98c6f"},
		surface.Background: {"#e8f0f4"},
		surface.Backsplash: {"#f0e6d8"},
	},
	LightMin: 0.8,
}
