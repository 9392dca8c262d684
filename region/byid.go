package region

import (
	"strconv"

	surface "github.com/kitchenlab/surface"
	"github.com/kitchenlab/surface/svgdom"
)

// ByIdentifier resolves regions through a fixed, explicit list of element
// identifiers per category. Regions are exactly the elements matching
// those identifiers, in listed order.
type ByIdentifier struct {
	Scene string
	IDs   map[surface.Category][]string
}

// Resolve implements Strategy. Identifiers absent from the document are
// logged and skipped, never fatal: illustrations get retouched and an id
// dropping out must not break the whole composite.
func (s *ByIdentifier) Resolve(doc *svgdom.Document, cat surface.Category) []svgdom.NodeID {
	ids := s.IDs[cat]
	regions := make([]svgdom.NodeID, 0, len(ids))
	for _, id := range ids {
		n := doc.ByID(id)
		if n == svgdom.InvalidNode {
			surface.Logger().Warn("region id missing from artwork",
				"scene", s.Scene, "category", cat, "id", id)
			continue
		}
		regions = append(regions, n)
	}
	if len(regions) == 0 {
		surface.Logger().Warn("no regions resolved",
			"scene", s.Scene, "category", cat, "strategy", "id")
	}
	return regions
}

// idRange expands prefix plus an inclusive numeric range into explicit
// identifiers, matching how the illustrations number their elements
// (e.g. countertop-surface-4 .. countertop-surface-21).
func idRange(prefix string, from, to int) []string {
	out := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, prefix+strconv.Itoa(i))
	}
	return out
}
