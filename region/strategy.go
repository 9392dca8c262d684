// Package region resolves which drawable elements of a loaded artwork
// document belong to which surface category.
//
// Two strategies exist because the illustration variants were authored
// with different conventions: legacy scenes carry stable element ids, the
// newer ones are classified by each element's effective fill color. The
// strategy is selected once per scene at load time and attached to the
// loaded document by the compositor.
package region

import (
	surface "github.com/kitchenlab/surface"
	"github.com/kitchenlab/surface/svgdom"
)

// Strategy resolves the ordered region list for one category.
//
// Resolve re-walks the document on every call and returns node handles in
// document order; the handles are only valid for the document instance
// passed in. A category with no matches yields an empty slice, never an
// error: it simply means "nothing to paint" for that scene.
type Strategy interface {
	// Resolve returns the drawable regions of the given category.
	Resolve(doc *svgdom.Document, cat surface.Category) []svgdom.NodeID
}

// ForScene selects the resolution strategy for a scene id.
//
// Scenes with a registered identifier map use id-based resolution; scenes
// with a registered palette use color classification. Unknown scenes fall
// back to color classification with the default palette, so a new
// illustration variant works without a code change and gets precise the
// moment its table entry lands.
func ForScene(sceneID string) Strategy {
	if ids, ok := sceneIdentifiers[sceneID]; ok {
		return &ByIdentifier{Scene: sceneID, IDs: ids}
	}
	if pal, ok := scenePalettes[sceneID]; ok {
		return &ByColor{Scene: sceneID, Palette: pal}
	}
	return &ByColor{Scene: sceneID, Palette: defaultPalette}
}
