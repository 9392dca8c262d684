package export

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"

	surface "github.com/kitchenlab/surface"
	"github.com/kitchenlab/surface/compose"
	"github.com/kitchenlab/surface/render"
	"github.com/kitchenlab/surface/texture"
)

// Page layout in millimeters, A4 landscape.
const (
	pageMargin  = 15.0
	previewMaxW = 180.0
	previewMaxH = 120.0
	swatchSize  = 12.0
	swatchStep  = 16.0
)

// PDF writes a one-page summary of the current configuration: the
// rendered scene, one swatch per selected surface, and an export
// reference id. Any failure is terminal for the export as a whole; the
// sole tolerated degradation is a swatch tile that cannot be fetched,
// which falls back to the neutral fill the compositor itself uses.
func (e *Exporter) PDF(ctx context.Context, w io.Writer, sel surface.Selection) error {
	ls := e.Compositor.Current()
	if ls == nil {
		return compose.ErrSceneNotLoaded
	}

	pm, err := e.renderCurrent(render.DefaultWidth, render.DefaultHeight)
	if err != nil {
		return fmt.Errorf("export: preview render: %w", err)
	}
	var preview bytes.Buffer
	if err := pm.EncodePNG(&preview); err != nil {
		return fmt.Errorf("export: preview encode: %w", err)
	}

	exportID := uuid.NewString()

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Kitchen configuration", false)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Kitchen configuration", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 6,
		fmt.Sprintf("%s, exported %s", ls.Scene.Name, time.Now().Format("2 January 2006")),
		"", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	imgOpts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("preview", imgOpts, &preview)
	iw, ih := fitBox(float64(pm.Width()), float64(pm.Height()), previewMaxW, previewMaxH)
	top := pdf.GetY()
	pdf.ImageOptions("preview", pageMargin, top, iw, ih, false, imgOpts, 0, "")

	// Swatch column to the right of the preview.
	x := pageMargin + iw + 12
	y := top
	pdf.SetFont("Helvetica", "", 9)
	for _, cat := range surface.LayerOrder {
		id := sel.Get(cat)
		if id == "" {
			continue
		}
		mat, ok := e.Materials.Material(id)
		if !ok {
			surface.Logger().Warn("export selection references unknown material",
				"category", cat, "material", id)
			continue
		}
		if err := e.swatch(ctx, pdf, x, y, mat); err != nil {
			return err
		}
		pdf.SetXY(x+swatchSize+4, y+1)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(0, 4, titleCase(string(cat)), "", 2, "L", false, 0, "")
		pdf.SetX(x + swatchSize + 4)
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 4, mat.Label, "", 0, "L", false, 0, "")
		y += swatchStep
	}

	pdf.SetY(-18)
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(150, 150, 150)
	pdf.CellFormat(0, 4, "Reference "+exportID, "", 0, "L", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("export: pdf: %w", err)
	}
	surface.Logger().Info("pdf exported",
		"scene", ls.Scene.ID, "reference", exportID)
	return nil
}

// swatch draws one material sample square: the flat color, or a
// thumbnail of the tile image for tiled materials.
func (e *Exporter) swatch(ctx context.Context, pdf *fpdf.Fpdf, x, y float64, mat surface.Material) error {
	pdf.SetDrawColor(200, 200, 200)

	if mat.Kind == surface.TiledImage {
		dec, err := e.Textures.Load(ctx, mat.Value)
		if err != nil {
			surface.Logger().Warn("swatch tile unavailable, using fallback fill",
				"material", mat.ID, "error", err)
			fillSwatch(pdf, x, y, compose.FallbackFill)
			return nil
		}
		var buf bytes.Buffer
		if err := encodeThumbnail(&buf, dec); err != nil {
			return fmt.Errorf("export: swatch %s: %w", mat.ID, err)
		}
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("swatch-"+mat.ID, opts, &buf)
		pdf.ImageOptions("swatch-"+mat.ID, x, y, swatchSize, swatchSize, false, opts, 0, "")
		pdf.Rect(x, y, swatchSize, swatchSize, "D")
		return nil
	}

	hex, ok := surface.NormalizeHex(mat.Value)
	if !ok {
		hex = compose.FallbackFill
	}
	fillSwatch(pdf, x, y, hex)
	return nil
}

func fillSwatch(pdf *fpdf.Fpdf, x, y float64, hex string) {
	col := surface.Hex(hex)
	pdf.SetFillColor(int(col.R*255), int(col.G*255), int(col.B*255))
	pdf.Rect(x, y, swatchSize, swatchSize, "FD")
}

// encodeThumbnail writes a small PNG of a decoded tile.
func encodeThumbnail(w io.Writer, dec *texture.Decoded) error {
	return png.Encode(w, texture.Thumbnail(dec.Image, 96, 96))
}

// fitBox scales (w, h) uniformly to fit within (maxW, maxH).
func fitBox(w, h, maxW, maxH float64) (float64, float64) {
	scale := maxW / w
	if s := maxH / h; s < scale {
		scale = s
	}
	if scale > 1 {
		scale = 1
	}
	return w * scale, h * scale
}

// titleCase upper-cases the first byte of an ASCII identifier.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-32) + s[1:]
	}
	return s
}
