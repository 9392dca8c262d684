// Package texture loads and decodes the tiled material images.
//
// References from the material catalog are relative paths resolved against
// a configurable base (an HTTP URL or a local directory); absolute
// http(s) references pass through unchanged. Decoded images are cached,
// since the pixel data is immutable and shared freely across documents.
package texture

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	// Decoders for the formats texture assets ship in.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	surface "github.com/kitchenlab/surface"
	"github.com/kitchenlab/surface/cache"
)

// Decoded is a fetched and decoded texture image. The raw encoded bytes
// are kept alongside the pixels so snapshots can embed the texture as a
// data URI without re-encoding.
type Decoded struct {
	Image  image.Image
	Width  int
	Height int
	Format string // "png", "jpeg", "webp"
	Data   []byte
}

// DataURI returns the texture as a self-contained data URI.
func (d *Decoded) DataURI() string {
	return "data:image/" + d.Format + ";base64," +
		base64.StdEncoding.EncodeToString(d.Data)
}

// Loader fetches, decodes and caches texture images.
type Loader struct {
	basePath string
	client   *http.Client
	images   *cache.LRU[string, *Decoded]
}

// NewLoader creates a loader resolving relative references against
// basePath. A nil client gets a 15 second timeout; asset fetches that
// fail degrade to a fallback fill at the compositor level, they must not
// hang a composite pass indefinitely.
func NewLoader(basePath string, client *http.Client) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Loader{
		basePath: basePath,
		client:   client,
		images:   cache.NewLRU[string, *Decoded](0),
	}
}

// Resolve maps a material image reference to a fetchable location.
// Absolute http(s) references pass through unchanged.
func (l *Loader) Resolve(ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if l.basePath == "" {
		return ref
	}
	if strings.HasPrefix(l.basePath, "http://") || strings.HasPrefix(l.basePath, "https://") {
		return strings.TrimSuffix(l.basePath, "/") + "/" + strings.TrimPrefix(ref, "/")
	}
	return path.Join(l.basePath, ref)
}

// Load fetches and decodes a texture, consulting the cache first.
func (l *Loader) Load(ctx context.Context, ref string) (*Decoded, error) {
	resolved := l.Resolve(ref)
	return l.images.GetOrCreate(resolved, func() (*Decoded, error) {
		data, err := l.fetch(ctx, resolved)
		if err != nil {
			return nil, fmt.Errorf("texture %s: %w", ref, err)
		}
		img, format, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("texture %s: decode: %w", ref, err)
		}
		b := img.Bounds()
		d := &Decoded{
			Image:  img,
			Width:  b.Dx(),
			Height: b.Dy(),
			Format: format,
			Data:   data,
		}
		surface.Logger().Debug("texture decoded",
			"ref", ref, "format", format, "size", fmt.Sprintf("%dx%d", d.Width, d.Height))
		return d, nil
	})
}

func (l *Loader) fetch(ctx context.Context, location string) ([]byte, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return nil, err
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("status %s", resp.Status)
		}
		return io.ReadAll(resp.Body)
	}
	return os.ReadFile(location)
}
