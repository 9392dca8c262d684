package commands

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/kitchenlab/surface/catalog"
	"github.com/kitchenlab/surface/compose"
	"github.com/kitchenlab/surface/export"
	"github.com/kitchenlab/surface/internal/server"
	"github.com/kitchenlab/surface/svgdom"
	"github.com/kitchenlab/surface/texture"
)

// serve: run the HTTP service until interrupted.
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the configurator HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := &http.Client{Timeout: cfg.FetchTimeout}

			cat, err := catalog.Load(ctx, catalog.Options{
				BaseURL: cfg.CatalogURL,
				Client:  client,
			})
			if err != nil {
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
			exp := &export.Exporter{
				Compositor: comp,
				Materials:  cat,
				Textures:   textures,
			}

			srv := server.New(cfg, cat, comp, exp)
			if err := srv.Bootstrap(ctx); err != nil {
				return err
			}
			return srv.Listen()
		},
	}
}
