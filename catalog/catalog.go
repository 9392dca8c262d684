// Package catalog loads and serves the material, scene and theme lists.
//
// Each list is fetched as a remote JSON document at startup; on any fetch
// failure the bundled default dataset ships the configurator in a usable
// state. The loaded catalog is immutable for the process lifetime.
package catalog

import (
	"errors"
	"sort"

	surface "github.com/kitchenlab/surface"
)

// ErrNoScenes is returned when a catalog ends up with an empty scene list.
var ErrNoScenes = errors.New("catalog: no scenes available")

// Catalog is the immutable set of selectable materials, scenes and themes.
type Catalog struct {
	materials []surface.Material
	scenes    []surface.Scene
	themes    []surface.Theme

	materialByID map[string]int
	sceneByID    map[string]int
	themeByID    map[string]int
}

// newCatalog indexes the given records. Slices are sorted ascending by
// their order field; insertion order in the source is not authoritative.
func newCatalog(materials []surface.Material, scenes []surface.Scene, themes []surface.Theme) *Catalog {
	sort.SliceStable(materials, func(i, j int) bool { return materials[i].Order < materials[j].Order })
	sort.SliceStable(scenes, func(i, j int) bool { return scenes[i].Order < scenes[j].Order })
	sort.SliceStable(themes, func(i, j int) bool { return themes[i].Order < themes[j].Order })

	c := &Catalog{
		materials:    materials,
		scenes:       scenes,
		themes:       themes,
		materialByID: make(map[string]int, len(materials)),
		sceneByID:    make(map[string]int, len(scenes)),
		themeByID:    make(map[string]int, len(themes)),
	}
	for i, m := range materials {
		if _, dup := c.materialByID[m.ID]; !dup {
			c.materialByID[m.ID] = i
		}
	}
	for i, s := range scenes {
		if _, dup := c.sceneByID[s.ID]; !dup {
			c.sceneByID[s.ID] = i
		}
	}
	for i, t := range themes {
		if _, dup := c.themeByID[t.ID]; !dup {
			c.themeByID[t.ID] = i
		}
	}
	return c
}

// Materials returns all materials sorted by display order.
func (c *Catalog) Materials() []surface.Material { return c.materials }

// Scenes returns all scenes sorted by display order.
func (c *Catalog) Scenes() []surface.Scene { return c.scenes }

// Themes returns all themes sorted by display order.
func (c *Catalog) Themes() []surface.Theme { return c.themes }

// Material looks up a material by id.
func (c *Catalog) Material(id string) (surface.Material, bool) {
	i, ok := c.materialByID[id]
	if !ok {
		return surface.Material{}, false
	}
	return c.materials[i], true
}

// MaterialsFor returns the materials of one category in display order.
func (c *Catalog) MaterialsFor(cat surface.Category) []surface.Material {
	var out []surface.Material
	for _, m := range c.materials {
		if m.Category == cat {
			out = append(out, m)
		}
	}
	return out
}

// Scene looks up a scene by id.
func (c *Catalog) Scene(id string) (surface.Scene, bool) {
	i, ok := c.sceneByID[id]
	if !ok {
		return surface.Scene{}, false
	}
	return c.scenes[i], true
}

// DefaultScene returns the scene flagged as default, or the first scene by
// order when none is flagged.
func (c *Catalog) DefaultScene() (surface.Scene, error) {
	for _, s := range c.scenes {
		if s.Default {
			return s, nil
		}
	}
	if len(c.scenes) == 0 {
		return surface.Scene{}, ErrNoScenes
	}
	return c.scenes[0], nil
}

// Theme looks up a theme by id.
func (c *Catalog) Theme(id string) (surface.Theme, bool) {
	i, ok := c.themeByID[id]
	if !ok {
		return surface.Theme{}, false
	}
	return c.themes[i], true
}

// ValidateSelection checks that every non-empty selection field references
// a material whose category matches the field.
func (c *Catalog) ValidateSelection(sel surface.Selection) error {
	for _, cat := range surface.LayerOrder {
		id := sel.Get(cat)
		if id == "" {
			continue
		}
		m, ok := c.Material(id)
		if !ok {
			return errors.New("catalog: unknown material id " + id)
		}
		if m.Category != cat {
			return errors.New("catalog: material " + id + " is not a " + string(cat) + " material")
		}
	}
	return nil
}
