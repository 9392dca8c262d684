package server

import (
	"bytes"
	"strconv"

	"github.com/gofiber/fiber/v3"

	surface "github.com/kitchenlab/surface"
)

func (s *Server) handleLive(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

func (s *Server) handleReady(c fiber.Ctx) error {
	ls := s.comp.Current()
	if ls == nil {
		return c.Status(fiber.StatusServiceUnavailable).
			JSON(fiber.Map{"status": "loading"})
	}
	return c.JSON(fiber.Map{"status": "ready", "scene": ls.Scene.ID})
}

func (s *Server) handleTextures(c fiber.Ctx) error {
	if q := c.Query("category"); q != "" {
		cat := surface.Category(q)
		if !cat.Valid() {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": "unknown category " + q})
		}
		return c.JSON(fiber.Map{"textures": s.cat.MaterialsFor(cat)})
	}
	return c.JSON(fiber.Map{"textures": s.cat.Materials()})
}

func (s *Server) handleScenes(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"scenes": s.cat.Scenes()})
}

func (s *Server) handleThemes(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"themes": s.cat.Themes()})
}

func (s *Server) handleState(c fiber.Ctx) error {
	return c.JSON(s.state())
}

// state snapshots the session for API responses.
func (s *Server) state() fiber.Map {
	st := fiber.Map{
		"scene":     s.sess.SceneID(),
		"selection": s.sess.Selection(),
		"custom":    s.sess.IsCustom(),
	}
	if id, ok := s.sess.Theme(); ok {
		st["theme"] = id
	}
	return st
}

// handleSetScene switches the illustration variant. The selection
// carries over and is replayed onto the fresh document. A failed load
// leaves the previous scene installed and serving.
func (s *Server) handleSetScene(c fiber.Ctx) error {
	scene, ok := s.cat.Scene(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).
			JSON(fiber.Map{"error": "unknown scene " + c.Params("id")})
	}

	ls, err := s.comp.LoadScene(c.Context(), scene)
	if err != nil {
		surface.Logger().Warn("scene load failed, keeping current scene",
			"scene", scene.ID, "error", err)
		return c.Status(fiber.StatusBadGateway).
			JSON(fiber.Map{"error": "scene artwork unavailable"})
	}
	s.sess.SetScene(scene.ID)

	if err := s.comp.ApplyAll(c.Context(), ls, s.sess.Selection()); err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(s.state())
}

func (s *Server) handleSetMaterial(c fiber.Ctx) error {
	cat := surface.Category(c.Params("category"))
	if !cat.Valid() {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "unknown category " + c.Params("category")})
	}
	mat, ok := s.cat.Material(c.Params("material"))
	if !ok {
		return c.Status(fiber.StatusNotFound).
			JSON(fiber.Map{"error": "unknown material " + c.Params("material")})
	}
	if mat.Category != cat {
		return c.Status(fiber.StatusUnprocessableEntity).
			JSON(fiber.Map{"error": "material " + mat.ID + " is not a " + string(cat) + " material"})
	}

	s.sess.SetMaterial(cat, mat.ID)
	if err := s.recomposite(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(s.state())
}

func (s *Server) handleApplyTheme(c fiber.Ctx) error {
	theme, ok := s.cat.Theme(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).
			JSON(fiber.Map{"error": "unknown theme " + c.Params("id")})
	}

	s.sess.ApplyTheme(theme)
	if err := s.recomposite(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(s.state())
}

func (s *Server) handlePreview(c fiber.Ctx) error {
	width, _ := strconv.Atoi(c.Query("width"))
	height, _ := strconv.Atoi(c.Query("height"))

	var buf bytes.Buffer
	if err := s.exp.PreviewPNG(&buf, width, height); err != nil {
		return s.exportError(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(buf.Bytes())
}

func (s *Server) handleExport(c fiber.Ctx) error {
	var buf bytes.Buffer
	if err := s.exp.PDF(c.Context(), &buf, s.sess.Selection()); err != nil {
		return s.exportError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition,
		`attachment; filename="kitchen-`+s.sess.SceneID()+`.pdf"`)
	return c.Send(buf.Bytes())
}

func (s *Server) handleSnapshot(c fiber.Ctx) error {
	svg, err := s.comp.Snapshot()
	if err != nil {
		return s.exportError(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/svg+xml")
	return c.SendString(svg)
}

func (s *Server) exportError(c fiber.Ctx, err error) error {
	if s.comp.Current() == nil {
		return c.Status(fiber.StatusServiceUnavailable).
			JSON(fiber.Map{"error": "no scene loaded"})
	}
	return c.Status(fiber.StatusInternalServerError).
		JSON(fiber.Map{"error": err.Error()})
}
