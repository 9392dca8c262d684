// Package server exposes the configurator over HTTP: catalog listing,
// selection and theme changes, scene switching, and preview/PDF export.
package server

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	surface "github.com/kitchenlab/surface"
	"github.com/kitchenlab/surface/catalog"
	"github.com/kitchenlab/surface/compose"
	"github.com/kitchenlab/surface/export"
	"github.com/kitchenlab/surface/internal/config"
)

// Server wires the catalog, compositor, session and exporter behind a
// fiber application.
type Server struct {
	cfg  *config.Config
	cat  *catalog.Catalog
	comp *compose.Compositor
	sess *compose.Session
	exp  *export.Exporter
	app  *fiber.App
}

// New assembles the HTTP layer. Call Bootstrap before Listen to load the
// default scene.
func New(cfg *config.Config, cat *catalog.Catalog, comp *compose.Compositor, exp *export.Exporter) *Server {
	s := &Server{
		cfg:  cfg,
		cat:  cat,
		comp: comp,
		sess: compose.NewSession(""),
		exp:  exp,
	}

	app := fiber.New(fiber.Config{
		AppName:      "surfaced",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
	}))

	app.Get("/health/live", s.handleLive)
	app.Get("/health/ready", s.handleReady)

	api := app.Group("/api/v1")
	api.Get("/textures", s.handleTextures)
	api.Get("/scenes", s.handleScenes)
	api.Get("/themes", s.handleThemes)
	api.Get("/state", s.handleState)
	api.Put("/scene/:id", s.handleSetScene)
	api.Put("/selection/:category/:material", s.handleSetMaterial)
	api.Put("/theme/:id", s.handleApplyTheme)
	api.Get("/preview.png", s.handlePreview)
	api.Get("/export.pdf", s.handleExport)
	api.Get("/snapshot.svg", s.handleSnapshot)

	s.app = app
	return s
}

// App returns the underlying fiber application, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

// Bootstrap loads the catalog's default scene and runs the first
// composite pass, leaving the service ready to answer previews.
func (s *Server) Bootstrap(ctx context.Context) error {
	scene, err := s.cat.DefaultScene()
	if err != nil {
		return err
	}
	ls, err := s.comp.LoadScene(ctx, scene)
	if err != nil {
		return fmt.Errorf("server: default scene: %w", err)
	}
	s.sess.SetScene(scene.ID)
	if err := s.comp.ApplyAll(ctx, ls, s.sess.Selection()); err != nil {
		return fmt.Errorf("server: initial pass: %w", err)
	}
	surface.Logger().Info("service ready",
		"scene", scene.ID, "env", s.cfg.Environment)
	return nil
}

// Listen starts serving on the configured port. Blocks until shutdown.
func (s *Server) Listen() error {
	return s.app.Listen(":" + s.cfg.Port)
}

// recomposite replays the session's selection onto the current document.
func (s *Server) recomposite(ctx context.Context) error {
	ls := s.comp.Current()
	if ls == nil {
		return compose.ErrSceneNotLoaded
	}
	return s.comp.ApplyAll(ctx, ls, s.sess.Selection())
}
