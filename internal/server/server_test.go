package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kitchenlab/surface/catalog"
	"github.com/kitchenlab/surface/compose"
	"github.com/kitchenlab/surface/export"
	"github.com/kitchenlab/surface/internal/config"
	"github.com/kitchenlab/surface/texture"
)

// memArtwork serves fixture SVG by reference.
type memArtwork map[string]string

func (m memArtwork) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	svg, ok := m[ref]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(strings.NewReader(svg)), nil
}

const kitchenASVG = `<svg viewBox="0 0 100 100">
	<rect id="floor-board-1" x="0" y="60" width="100" height="40" fill="#9a9a9a"/>
	<rect id="countertop-surface-4" x="10" y="40" width="80" height="10" fill="#d8d8d2"/>
	<rect id="cabinet-door-1" x="10" y="50" width="30" height="10" fill="#8b5a2b"/>
	<rect id="backsplash-tile-1" x="10" y="30" width="80" height="10" fill="#f0e6d8"/>
	<rect id="wall-backdrop" x="0" y="0" width="100" height="30" fill="#e8f0f4"/>
</svg>`

const kitchenBSVG = `<svg viewBox="0 0 100 100">
	<rect x="0" y="60" width="100" height="40" fill="#a98c6f"/>
	<rect x="0" y="0" width="100" height="30" fill="#e8f0f4"/>
</svg>`

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cat, err := catalog.Load(context.Background(), catalog.Options{})
	if err != nil {
		t.Fatal(err)
	}
	textures := texture.NewLoader("/nonexistent", nil)
	comp := compose.NewCompositor(compose.Options{
		Artwork: memArtwork{
			"scenes/kitchen-a.svg": kitchenASVG,
			"scenes/kitchen-b.svg": kitchenBSVG,
		},
		Textures:  textures,
		Materials: cat,
	})
	exp := &export.Exporter{Compositor: comp, Materials: cat, Textures: textures}

	cfg := config.Load()
	s := New(cfg, cat, comp, exp)
	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}
	return s
}

func doJSON(t *testing.T, s *Server, method, path string, wantStatus int) map[string]any {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s = %d, want %d (body %s)", method, path, resp.StatusCode, wantStatus, body)
	}
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("%s %s: decode: %v", method, path, err)
	}
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	live := doJSON(t, s, http.MethodGet, "/health/live", http.StatusOK)
	if live["status"] != "alive" {
		t.Errorf("live status = %v", live["status"])
	}
	ready := doJSON(t, s, http.MethodGet, "/health/ready", http.StatusOK)
	if ready["scene"] != "kitchen-a" {
		t.Errorf("ready scene = %v, want kitchen-a", ready["scene"])
	}
}

func TestListEndpoints(t *testing.T) {
	s := newTestServer(t)

	tex := doJSON(t, s, http.MethodGet, "/api/v1/textures", http.StatusOK)
	if n := len(tex["textures"].([]any)); n != 15 {
		t.Errorf("textures = %d, want 15", n)
	}

	filtered := doJSON(t, s, http.MethodGet, "/api/v1/textures?category=floor", http.StatusOK)
	for _, raw := range filtered["textures"].([]any) {
		m := raw.(map[string]any)
		if m["category"] != "floor" {
			t.Errorf("filtered list contains %v", m["category"])
		}
	}

	doJSON(t, s, http.MethodGet, "/api/v1/textures?category=ceiling", http.StatusBadRequest)

	scenes := doJSON(t, s, http.MethodGet, "/api/v1/scenes", http.StatusOK)
	if n := len(scenes["scenes"].([]any)); n != 2 {
		t.Errorf("scenes = %d, want 2", n)
	}
	themes := doJSON(t, s, http.MethodGet, "/api/v1/themes", http.StatusOK)
	if n := len(themes["themes"].([]any)); n != 3 {
		t.Errorf("themes = %d, want 3", n)
	}
}

func TestSelectionFlow(t *testing.T) {
	s := newTestServer(t)

	st := doJSON(t, s, http.MethodPut, "/api/v1/selection/floor/oak", http.StatusOK)
	sel := st["selection"].(map[string]any)
	if sel["floor"] != "oak" {
		t.Errorf("floor = %v, want oak", sel["floor"])
	}
	if st["custom"] != true {
		t.Error("direct pick must mark the state custom")
	}

	doJSON(t, s, http.MethodPut, "/api/v1/selection/floor/missing", http.StatusNotFound)
	doJSON(t, s, http.MethodPut, "/api/v1/selection/roof/oak", http.StatusBadRequest)
	// oak is a floor material.
	doJSON(t, s, http.MethodPut, "/api/v1/selection/cabinet/oak", http.StatusUnprocessableEntity)
}

func TestThemeFlow(t *testing.T) {
	s := newTestServer(t)

	st := doJSON(t, s, http.MethodPut, "/api/v1/theme/nordic", http.StatusOK)
	if st["theme"] != "nordic" {
		t.Errorf("theme = %v, want nordic", st["theme"])
	}
	sel := st["selection"].(map[string]any)
	if sel["countertop"] != "marble" || sel["floor"] != "oak" {
		t.Errorf("selection = %v, want full nordic bundle", sel)
	}

	// A direct pick afterwards drops the theme marker.
	st = doJSON(t, s, http.MethodPut, "/api/v1/selection/floor/terracotta", http.StatusOK)
	if _, ok := st["theme"]; ok {
		t.Error("theme marker must clear on direct pick")
	}

	doJSON(t, s, http.MethodPut, "/api/v1/theme/brutalist", http.StatusNotFound)
}

func TestSceneSwitch(t *testing.T) {
	s := newTestServer(t)

	doJSON(t, s, http.MethodPut, "/api/v1/theme/nordic", http.StatusOK)
	st := doJSON(t, s, http.MethodPut, "/api/v1/scene/kitchen-b", http.StatusOK)
	if st["scene"] != "kitchen-b" {
		t.Errorf("scene = %v, want kitchen-b", st["scene"])
	}
	sel := st["selection"].(map[string]any)
	if sel["floor"] != "oak" {
		t.Error("selection must survive the scene switch")
	}

	doJSON(t, s, http.MethodPut, "/api/v1/scene/kitchen-z", http.StatusNotFound)
}

func TestSceneSwitch_LoadFailureKeepsCurrent(t *testing.T) {
	s := newTestServer(t)

	// kitchen-b artwork removed from the source: the switch fails and the
	// previous scene keeps serving.
	s.comp = compose.NewCompositor(compose.Options{
		Artwork:   memArtwork{"scenes/kitchen-a.svg": kitchenASVG},
		Textures:  texture.NewLoader("", nil),
		Materials: s.cat,
	})
	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}
	s.exp.Compositor = s.comp

	doJSON(t, s, http.MethodPut, "/api/v1/scene/kitchen-b", http.StatusBadGateway)
	ready := doJSON(t, s, http.MethodGet, "/health/ready", http.StatusOK)
	if ready["scene"] != "kitchen-a" {
		t.Errorf("scene after failed switch = %v, want kitchen-a", ready["scene"])
	}
}

func TestPreviewAndExportEndpoints(t *testing.T) {
	s := newTestServer(t)
	doJSON(t, s, http.MethodPut, "/api/v1/theme/nordic", http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/preview.png?width=64&height=64", nil)
	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("preview status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("preview Content-Type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if len(body) == 0 || string(body[1:4]) != "PNG" {
		t.Error("preview body is not a PNG")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/export.pdf", nil)
	resp, err = s.App().Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export status = %d", resp.StatusCode)
	}
	body, _ = io.ReadAll(resp.Body)
	if !strings.HasPrefix(string(body), "%PDF-") {
		t.Error("export body is not a PDF")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/snapshot.svg", nil)
	resp, err = s.App().Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	svg, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(svg), "#c2a077") {
		t.Error("snapshot does not contain the applied oak fill")
	}
}
