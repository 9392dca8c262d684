package compose

import (
	"testing"

	surface "github.com/kitchenlab/surface"
)

var nordic = surface.Theme{
	ID: "nordic",
	Materials: map[surface.Category]string{
		surface.Countertop: "marble",
		surface.Backsplash: "tile-white",
		surface.Cabinet:    "ash",
		surface.Floor:      "oak",
		surface.Background: "cream",
	},
}

func TestSession_ApplyThemeAtomic(t *testing.T) {
	s := NewSession("kitchen-a")
	s.ApplyTheme(nordic)

	sel := s.Selection()
	for cat, want := range nordic.Materials {
		if got := sel.Get(cat); got != want {
			t.Errorf("%s = %q, want %q", cat, got, want)
		}
	}
	if id, ok := s.Theme(); !ok || id != "nordic" {
		t.Errorf("Theme() = %q, %v", id, ok)
	}
	if s.IsCustom() {
		t.Error("theme application must clear the custom marker")
	}
}

func TestSession_DirectPickClearsTheme(t *testing.T) {
	s := NewSession("kitchen-a")
	s.ApplyTheme(nordic)
	s.SetMaterial(surface.Countertop, "granite")

	if _, ok := s.Theme(); ok {
		t.Error("direct pick must clear the named-theme marker")
	}
	if !s.IsCustom() {
		t.Error("direct pick must mark the selection custom")
	}
	// No reverse matching: picking the theme's own value back still
	// leaves the selection custom.
	s.SetMaterial(surface.Countertop, "marble")
	if _, ok := s.Theme(); ok {
		t.Error("system must not reverse-match selections to themes")
	}
}

func TestSession_SceneSwitchKeepsSelection(t *testing.T) {
	s := NewSession("kitchen-a")
	s.ApplyTheme(nordic)
	fpA := s.Fingerprint()

	s.SetScene("kitchen-b")
	if s.Selection().Get(surface.Floor) != "oak" {
		t.Error("selection must carry over a scene switch")
	}
	if s.Fingerprint() == fpA {
		t.Error("fingerprint must incorporate the scene id")
	}
}
