package surface

import "fmt"

// Category identifies one of the five paintable surface groups of the
// kitchen illustration.
type Category string

// The five surface categories.
const (
	Countertop Category = "countertop"
	Backsplash Category = "backsplash"
	Cabinet    Category = "cabinet"
	Floor      Category = "floor"
	Background Category = "background"
)

// LayerOrder is the fixed compositing order: later categories visually
// occlude earlier ones when regions geometrically overlap (cabinet doors
// are painted after countertops so a shared boundary resolves to the
// cabinet's material).
var LayerOrder = [5]Category{Background, Floor, Countertop, Backsplash, Cabinet}

// Valid reports whether c is one of the five known categories.
func (c Category) Valid() bool {
	switch c {
	case Countertop, Backsplash, Cabinet, Floor, Background:
		return true
	}
	return false
}

// MaterialKind distinguishes flat-color materials from tiled-image ones.
type MaterialKind string

// Material kinds.
const (
	FlatColor  MaterialKind = "flat-color"
	TiledImage MaterialKind = "tiled-image"
)

// Material is one selectable surface finish. Immutable once loaded.
//
// For FlatColor materials, Value holds a hex color string. For TiledImage
// materials, Value holds an image reference resolved against the
// configured asset base path (absolute http(s) references pass through).
type Material struct {
	ID       string       `json:"id"`
	Label    string       `json:"label"`
	Category Category     `json:"category"`
	Kind     MaterialKind `json:"kind"`
	Value    string       `json:"value"`
	Order    int          `json:"order"`
}

// Validate checks the structural invariants of a loaded material.
func (m Material) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("material: empty id")
	}
	if !m.Category.Valid() {
		return fmt.Errorf("material %q: unknown category %q", m.ID, m.Category)
	}
	switch m.Kind {
	case FlatColor:
		if _, ok := NormalizeHex(m.Value); !ok {
			return fmt.Errorf("material %q: invalid color %q", m.ID, m.Value)
		}
	case TiledImage:
		if m.Value == "" {
			return fmt.Errorf("material %q: empty image reference", m.ID)
		}
	default:
		return fmt.Errorf("material %q: unknown kind %q", m.ID, m.Kind)
	}
	return nil
}

// Scene describes one illustration variant: a reference to its vector
// artwork and a flag marking the default variant. Immutable after load.
type Scene struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Artwork string `json:"artwork"`
	Default bool   `json:"default"`
	Order   int    `json:"order"`
}

// Theme is a named preset bundle of one material id per category.
type Theme struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Materials map[Category]string `json:"materials"`
	Order     int                 `json:"order"`
}

// Selection holds the current category to material-id assignments.
// An empty string means "nothing selected" for that category.
type Selection struct {
	Countertop string `json:"countertop"`
	Backsplash string `json:"backsplash"`
	Cabinet    string `json:"cabinet"`
	Floor      string `json:"floor"`
	Background string `json:"background"`
}

// Get returns the material id assigned to the given category.
func (s Selection) Get(c Category) string {
	switch c {
	case Countertop:
		return s.Countertop
	case Backsplash:
		return s.Backsplash
	case Cabinet:
		return s.Cabinet
	case Floor:
		return s.Floor
	case Background:
		return s.Background
	}
	return ""
}

// Set assigns a material id to the given category. Unknown categories are
// ignored.
func (s *Selection) Set(c Category, materialID string) {
	switch c {
	case Countertop:
		s.Countertop = materialID
	case Backsplash:
		s.Backsplash = materialID
	case Cabinet:
		s.Cabinet = materialID
	case Floor:
		s.Floor = materialID
	case Background:
		s.Background = materialID
	}
}

// Fingerprint returns a stable key identifying this selection on the given
// scene. Structurally identical selections produce identical fingerprints,
// which the compositor uses to skip redundant composite passes.
func (s Selection) Fingerprint(sceneID string) string {
	return sceneID + "|" +
		s.Background + "|" + s.Floor + "|" +
		s.Countertop + "|" + s.Backsplash + "|" + s.Cabinet
}

// FromTheme builds a selection from a theme bundle. Missing categories
// remain empty.
func FromTheme(t Theme) Selection {
	var s Selection
	for _, c := range LayerOrder {
		if id, ok := t.Materials[c]; ok {
			s.Set(c, id)
		}
	}
	return s
}
