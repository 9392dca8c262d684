package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	surface "github.com/kitchenlab/surface"
)

func TestLoad_BundledDefaults(t *testing.T) {
	cat, err := Load(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(cat.Materials()) == 0 || len(cat.Scenes()) == 0 || len(cat.Themes()) == 0 {
		t.Fatal("bundled defaults produced an empty catalog")
	}
	for _, m := range cat.Materials() {
		if err := m.Validate(); err != nil {
			t.Errorf("bundled material invalid: %v", err)
		}
	}

	def, err := cat.DefaultScene()
	if err != nil {
		t.Fatalf("DefaultScene: %v", err)
	}
	if def.ID != "kitchen-a" {
		t.Errorf("default scene = %q, want kitchen-a", def.ID)
	}
}

func TestLoad_RemoteSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/textures.json":
			// Wrapped object shape.
			w.Write([]byte(`{"textures":[
				{"id":"remote-top","label":"Remote","category":"countertop","kind":"flat-color","value":"#123456","order":2},
				{"id":"remote-first","label":"First","category":"countertop","kind":"flat-color","value":"#654321","order":1}
			]}`))
		case "/scenes.json":
			// Bare array shape.
			w.Write([]byte(`[
				{"id":"loft","name":"Loft","artwork":"scenes/loft.svg","default":false,"order":5},
				{"id":"studio","name":"Studio","artwork":"scenes/studio.svg","default":false,"order":1}
			]`))
		case "/themes.json":
			w.Write([]byte(`[]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	cat, err := Load(context.Background(), Options{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Records sorted ascending by order, not source order.
	mats := cat.Materials()
	if len(mats) != 2 || mats[0].ID != "remote-first" || mats[1].ID != "remote-top" {
		t.Errorf("materials not sorted by order: %+v", mats)
	}

	// No default flag: first by order wins.
	def, err := cat.DefaultScene()
	if err != nil {
		t.Fatalf("DefaultScene: %v", err)
	}
	if def.ID != "studio" {
		t.Errorf("default scene = %q, want studio", def.ID)
	}
}

func TestLoad_RemoteFailureFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	cat, err := Load(context.Background(), Options{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("Load must degrade, not fail: %v", err)
	}
	if _, ok := cat.Material("marble"); !ok {
		t.Error("fallback catalog missing bundled material")
	}
}

func TestLoad_MalformedRemoteFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unexpected": true}`))
	}))
	defer srv.Close()

	cat, err := Load(context.Background(), Options{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cat.Scenes()) == 0 {
		t.Error("fallback scenes missing")
	}
}

func TestValidateSelection(t *testing.T) {
	cat, err := Load(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		name    string
		sel     surface.Selection
		wantErr bool
	}{
		{
			name: "valid full selection",
			sel: surface.Selection{
				Countertop: "marble", Backsplash: "tile-white",
				Cabinet: "ash", Floor: "oak", Background: "cream",
			},
		},
		{
			name: "empty fields allowed",
			sel:  surface.Selection{Countertop: "marble"},
		},
		{
			name:    "unknown id",
			sel:     surface.Selection{Countertop: "no-such"},
			wantErr: true,
		},
		{
			name:    "category mismatch",
			sel:     surface.Selection{Countertop: "oak"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cat.ValidateSelection(tt.sel)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSelection() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMaterialsFor(t *testing.T) {
	cat, err := Load(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	floors := cat.MaterialsFor(surface.Floor)
	if len(floors) == 0 {
		t.Fatal("no floor materials in bundled defaults")
	}
	for _, m := range floors {
		if m.Category != surface.Floor {
			t.Errorf("MaterialsFor(floor) returned %s material %q", m.Category, m.ID)
		}
	}
}
