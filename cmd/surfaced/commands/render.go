package commands

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	surface "github.com/kitchenlab/surface"
	"github.com/kitchenlab/surface/catalog"
	"github.com/kitchenlab/surface/compose"
	"github.com/kitchenlab/surface/export"
	"github.com/kitchenlab/surface/svgdom"
	"github.com/kitchenlab/surface/texture"
)

// render: compose one configuration and write it to disk, no server.
func renderCmd() *cobra.Command {
	var (
		sceneID string
		themeID string
		picks   []string
		pngOut  string
		pdfOut  string
		width   int
		height  int
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a configuration to PNG or PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			if pngOut == "" && pdfOut == "" {
				return fmt.Errorf("nothing to do: pass --png and/or --pdf")
			}
			ctx := cmd.Context()
			client := &http.Client{Timeout: cfg.FetchTimeout}

			cat, err := catalog.Load(ctx, catalog.Options{
				BaseURL: cfg.CatalogURL,
				Client:  client,
			})
			if err != nil {
				return err
			}

			scene, err := cat.DefaultScene()
			if err != nil {
				return err
			}
			if sceneID != "" {
				s, ok := cat.Scene(sceneID)
				if !ok {
					return fmt.Errorf("unknown scene %q", sceneID)
				}
				scene = s
			}

			sess := compose.NewSession(scene.ID)
			if themeID != "" {
				theme, ok := cat.Theme(themeID)
				if !ok {
					return fmt.Errorf("unknown theme %q", themeID)
				}
				sess.ApplyTheme(theme)
			}
			for _, pick := range picks {
				c, id, ok := strings.Cut(pick, "=")
				if !ok {
					return fmt.Errorf("bad --set %q, want category=material", pick)
				}
				catName := surface.Category(c)
				if !catName.Valid() {
					return fmt.Errorf("unknown category %q", c)
				}
				if _, ok := cat.Material(id); !ok {
					return fmt.Errorf("unknown material %q", id)
				}
				sess.SetMaterial(catName, id)
			}
			if err := cat.ValidateSelection(sess.Selection()); err != nil {
				return err
			}

			textures := texture.NewLoader(cfg.AssetBase, client)
			comp := compose.NewCompositor(compose.Options{
				Artwork:   compose.NewArtworkSource(cfg.ArtworkBase, client),
				Textures:  textures,
				Materials: cat,
				FallbackViewport: svgdom.Viewport{
					Width:  float64(cfg.ViewportWidth),
					Height: float64(cfg.ViewportHeight),
				},
			})
			ls, err := comp.LoadScene(ctx, scene)
			if err != nil {
				return err
			}
			if err := comp.ApplyAll(ctx, ls, sess.Selection()); err != nil {
				return err
			}

			exp := &export.Exporter{Compositor: comp, Materials: cat, Textures: textures}
			if pngOut != "" {
				if err := writeTo(pngOut, func(f *os.File) error {
					return exp.PreviewPNG(f, width, height)
				}); err != nil {
					return err
				}
				fmt.Println("wrote", pngOut)
			}
			if pdfOut != "" {
				if err := writeTo(pdfOut, func(f *os.File) error {
					return exp.PDF(ctx, f, sess.Selection())
				}); err != nil {
					return err
				}
				fmt.Println("wrote", pdfOut)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sceneID, "scene", "", "scene id (default: the catalog default)")
	cmd.Flags().StringVar(&themeID, "theme", "", "theme id to apply first")
	cmd.Flags().StringArrayVar(&picks, "set", nil, "category=material override, repeatable")
	cmd.Flags().StringVar(&pngOut, "png", "", "write a PNG preview to this path")
	cmd.Flags().StringVar(&pdfOut, "pdf", "", "write a PDF summary to this path")
	cmd.Flags().IntVar(&width, "width", 0, "PNG width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "PNG height in pixels")
	return cmd
}

func writeTo(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
