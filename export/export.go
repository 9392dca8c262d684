// Package export renders the composited scene out of the application:
// rasterized PNG previews and a printable PDF summary of the current
// configuration.
//
// Exports re-parse the compositor's snapshot rather than touching the
// live document, so a long-running PDF build never holds up composite
// passes. The snapshot is self-contained (pattern tiles are embedded as
// data URIs), which is what makes that split safe.
package export

import (
	"fmt"
	"io"
	"strings"

	surface "github.com/kitchenlab/surface"
	"github.com/kitchenlab/surface/compose"
	"github.com/kitchenlab/surface/render"
	"github.com/kitchenlab/surface/svgdom"
	"github.com/kitchenlab/surface/texture"
)

// Exporter produces previews and PDF summaries from the compositor's
// currently loaded scene.
type Exporter struct {
	// Compositor supplies the snapshot and the loaded scene. Required.
	Compositor *compose.Compositor

	// Materials resolves selected material ids to their definitions for
	// the PDF swatch list. Required for PDF export.
	Materials compose.MaterialSource

	// Textures loads tile images for PDF swatches. Required for PDF
	// export of selections that include tiled materials.
	Textures *texture.Loader
}

// PreviewPNG renders the current composition to PNG at the given pixel
// size. Zero dimensions take the renderer defaults.
func (e *Exporter) PreviewPNG(w io.Writer, width, height int) error {
	pm, err := e.renderCurrent(width, height)
	if err != nil {
		return err
	}
	return pm.EncodePNG(w)
}

// renderCurrent rasterizes the compositor's snapshot over a white
// background.
func (e *Exporter) renderCurrent(width, height int) (*render.Pixmap, error) {
	svg, err := e.Compositor.Snapshot()
	if err != nil {
		return nil, err
	}
	doc, err := svgdom.Parse(strings.NewReader(svg))
	if err != nil {
		return nil, fmt.Errorf("export: reparse snapshot: %w", err)
	}
	return render.Render(doc, render.Options{
		Width:      width,
		Height:     height,
		Background: surface.Hex("#ffffff"),
	})
}
