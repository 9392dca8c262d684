package catalog

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	surface "github.com/kitchenlab/surface"
)

//go:embed defaults/*.json
var defaultsFS embed.FS

// Source file names, both remote (relative to the data base URL) and
// bundled (under defaults/).
const (
	texturesFile = "textures.json"
	scenesFile   = "scenes.json"
	themesFile   = "themes.json"
)

// Options configures catalog loading.
type Options struct {
	// BaseURL is the remote location of the catalog JSON documents.
	// Empty means "bundled defaults only", skipping the network entirely.
	BaseURL string

	// Client is the HTTP client for catalog fetches. Defaults to a client
	// with a 10 second timeout.
	Client *http.Client
}

// Load builds a catalog from the remote source, falling back to the
// bundled defaults per document on any fetch or decode failure. Fallback
// is silent towards the caller; it is logged at Warn level.
func Load(ctx context.Context, opts Options) (*Catalog, error) {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	materials, err := loadRecords[surface.Material](ctx, client, opts.BaseURL, texturesFile, "textures")
	if err != nil {
		return nil, err
	}
	scenes, err := loadRecords[surface.Scene](ctx, client, opts.BaseURL, scenesFile, "scenes")
	if err != nil {
		return nil, err
	}
	themes, err := loadRecords[surface.Theme](ctx, client, opts.BaseURL, themesFile, "themes")
	if err != nil {
		return nil, err
	}

	cat := newCatalog(materials, scenes, themes)
	surface.Logger().Info("catalog loaded",
		"materials", len(materials), "scenes", len(scenes), "themes", len(themes))
	return cat, nil
}

// loadRecords fetches one catalog document, degrading to the bundled copy.
// An error is only returned when the bundled copy itself cannot be decoded,
// which indicates a broken build rather than a runtime condition.
func loadRecords[T any](ctx context.Context, client *http.Client, baseURL, file, field string) ([]T, error) {
	if baseURL != "" {
		data, err := fetch(ctx, client, baseURL+"/"+file)
		if err == nil {
			records, derr := decodeRecords[T](data, field)
			if derr == nil {
				return records, nil
			}
			err = derr
		}
		surface.Logger().Warn("catalog fetch failed, using bundled defaults",
			"file", file, "error", err)
	}

	data, err := defaultsFS.ReadFile("defaults/" + file)
	if err != nil {
		return nil, fmt.Errorf("catalog: bundled %s: %w", file, err)
	}
	records, err := decodeRecords[T](data, field)
	if err != nil {
		return nil, fmt.Errorf("catalog: bundled %s: %w", file, err)
	}
	return records, nil
}

func fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// decodeRecords accepts either a bare ordered sequence of records, or an
// object with a named field containing that sequence.
func decodeRecords[T any](data []byte, field string) ([]T, error) {
	var bare []T
	if err := json.Unmarshal(data, &bare); err == nil {
		return bare, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("neither array nor object: %w", err)
	}
	raw, ok := wrapped[field]
	if !ok {
		return nil, fmt.Errorf("object has no %q field", field)
	}
	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	return records, nil
}
