package compose

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"time"
)

// ArtworkSource opens a scene's vector artwork for parsing.
type ArtworkSource interface {
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
}

// artworkSource resolves references the same way texture references are
// resolved: absolute http(s) passes through, anything else is joined to
// the base, which may itself be a URL or a local directory.
type artworkSource struct {
	base   string
	client *http.Client
}

// NewArtworkSource creates an ArtworkSource over the given base location.
// A nil client gets a 15 second timeout.
func NewArtworkSource(base string, client *http.Client) ArtworkSource {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &artworkSource{base: base, client: client}
}

func (s *artworkSource) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	location := ref
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") && s.base != "" {
		if strings.HasPrefix(s.base, "http://") || strings.HasPrefix(s.base, "https://") {
			location = strings.TrimSuffix(s.base, "/") + "/" + strings.TrimPrefix(ref, "/")
		} else {
			location = path.Join(s.base, ref)
		}
	}

	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return nil, err
		}
		resp, err := s.client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			resp.Body.Close()
			return nil, fmt.Errorf("artwork %s: status %s", ref, resp.Status)
		}
		return resp.Body, nil
	}

	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("artwork %s: %w", ref, err)
	}
	return f, nil
}
