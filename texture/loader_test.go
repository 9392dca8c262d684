package texture

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// pngBytes encodes a solid-color test image.
func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		base string
		ref  string
		want string
	}{
		{
			name: "absolute http passes through",
			base: "/assets",
			ref:  "http://cdn.example.com/granite.png",
			want: "http://cdn.example.com/granite.png",
		},
		{
			name: "relative against url base",
			base: "https://example.com/assets/",
			ref:  "textures/granite.png",
			want: "https://example.com/assets/textures/granite.png",
		},
		{
			name: "relative against directory base",
			base: "/srv/assets",
			ref:  "textures/granite.png",
			want: "/srv/assets/textures/granite.png",
		},
		{
			name: "empty base",
			base: "",
			ref:  "granite.png",
			want: "granite.png",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLoader(tt.base, nil)
			if got := l.Resolve(tt.ref); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}

func TestLoad_HTTP(t *testing.T) {
	data := pngBytes(t, 64, 32, color.RGBA{R: 200, G: 100, B: 50, A: 255})
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write(data)
	}))
	defer srv.Close()

	l := NewLoader(srv.URL, nil)
	d, err := l.Load(context.Background(), "textures/granite.png")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Width != 64 || d.Height != 32 {
		t.Errorf("decoded size = %dx%d, want 64x32", d.Width, d.Height)
	}
	if d.Format != "png" {
		t.Errorf("format = %q", d.Format)
	}

	// Second load is served from cache.
	if _, err := l.Load(context.Background(), "textures/granite.png"); err != nil {
		t.Fatalf("cached Load: %v", err)
	}
	if hits != 1 {
		t.Errorf("server hits = %d, want 1", hits)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "oak.png")
	if err := os.WriteFile(file, pngBytes(t, 16, 16, color.White), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(dir, nil)
	d, err := l.Load(context.Background(), "oak.png")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Width != 16 {
		t.Errorf("width = %d", d.Width)
	}
}

func TestLoad_Failures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing.png":
			http.NotFound(w, r)
		case "/garbage.png":
			w.Write([]byte("not an image"))
		}
	}))
	defer srv.Close()

	l := NewLoader(srv.URL, nil)
	if _, err := l.Load(context.Background(), "missing.png"); err == nil {
		t.Error("expected error for 404")
	}
	if _, err := l.Load(context.Background(), "garbage.png"); err == nil {
		t.Error("expected error for undecodable payload")
	}
}

func TestDataURIRoundTrip(t *testing.T) {
	d := &Decoded{
		Format: "png",
		Data:   pngBytes(t, 8, 8, color.RGBA{R: 10, G: 20, B: 30, A: 255}),
	}
	img, err := DecodeDataURI(d.DataURI())
	if err != nil {
		t.Fatalf("DecodeDataURI: %v", err)
	}
	if img.Bounds().Dx() != 8 {
		t.Errorf("decoded width = %d", img.Bounds().Dx())
	}
}

func TestDecodeDataURI_Invalid(t *testing.T) {
	for _, uri := range []string{
		"",
		"http://example.com/x.png",
		"data:image/png;base64,!!!",
		"data:text/plain;base64,aGk=",
	} {
		if _, err := DecodeDataURI(uri); err == nil {
			t.Errorf("DecodeDataURI(%q): expected error", uri)
		}
	}
}

func TestThumbnail(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 200))
	thumb := Thumbnail(src, 100, 100)
	b := thumb.Bounds()
	if b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("thumbnail = %dx%d, want 100x50", b.Dx(), b.Dy())
	}

	small := image.NewRGBA(image.Rect(0, 0, 20, 20))
	if got := Thumbnail(small, 100, 100); got != small {
		t.Error("image within bounds must be returned unchanged")
	}
}
