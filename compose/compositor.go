// Package compose implements the surface compositor: it loads a scene's
// artwork into a mutable in-memory document, resolves the regions of each
// surface category, and paints selected materials onto them as flat fills
// or shared tiled pattern resources.
//
// The compositor owns the document of the currently loaded scene
// exclusively. Composite passes are serialized: a later-arriving selection
// change is applied after the current pass finishes, never interleaved
// with it, and a snapshot taken after a pass reflects exactly that
// selection.
package compose

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	surface "github.com/kitchenlab/surface"
	"github.com/kitchenlab/surface/region"
	"github.com/kitchenlab/surface/svgdom"
	"github.com/kitchenlab/surface/texture"
)

var (
	// ErrSceneNotLoaded is returned when no scene has been loaded yet.
	ErrSceneNotLoaded = errors.New("compose: no scene loaded")

	// ErrStaleDocument is returned when an operation targets a document
	// that has been replaced by a scene switch.
	ErrStaleDocument = errors.New("compose: document has been replaced")
)

// FallbackFill is painted onto a category's regions when its texture
// image cannot be fetched or decoded.
const FallbackFill = "#cccccc"

// ViewportPad is the fraction of width/height added on each side of the
// artwork viewport at load time, visually zooming the composed scene out.
// Applied once per load, never re-derived per composite.
const ViewportPad = 0.15

// MaterialSource supplies material lookups by id. *catalog.Catalog
// satisfies it.
type MaterialSource interface {
	Material(id string) (surface.Material, bool)
}

// Options configures a Compositor.
type Options struct {
	// Artwork opens scene artwork references. Required.
	Artwork ArtworkSource

	// Textures loads tiled material images. Required for tiled materials.
	Textures *texture.Loader

	// Materials resolves material ids during ApplyAll. Required.
	Materials MaterialSource

	// StrategyFor overrides region strategy selection. Defaults to
	// region.ForScene.
	StrategyFor func(sceneID string) region.Strategy

	// FallbackViewport is used when artwork declares no usable viewport.
	// Zero means svgdom.DefaultViewport.
	FallbackViewport svgdom.Viewport

	// ViewportPadding overrides ViewportPad. Nil keeps the default; a
	// pointer to zero disables the padding entirely.
	ViewportPadding *float64
}

// LoadedScene is one scene's artwork loaded into memory, together with
// the per-category region lists resolved against it and the pattern
// resources installed so far. All of it is discarded on scene switch.
type LoadedScene struct {
	Scene surface.Scene
	Doc   *svgdom.Document

	regions  map[surface.Category][]svgdom.NodeID
	patterns map[string]svgdom.NodeID        // material id -> <pattern> node
	grout    map[svgdom.NodeID]svgdom.NodeID // floor region -> overlay node
}

// Regions returns the resolved regions of one category. The returned
// slice must not be modified.
func (ls *LoadedScene) Regions(cat surface.Category) []svgdom.NodeID {
	return ls.regions[cat]
}

// PatternCount returns the number of installed pattern resources.
func (ls *LoadedScene) PatternCount() int { return len(ls.patterns) }

// Compositor applies materials to the regions of the loaded scene.
type Compositor struct {
	artwork     ArtworkSource
	textures    *texture.Loader
	materials   MaterialSource
	strategyFor func(string) region.Strategy
	fallbackVP  svgdom.Viewport
	pad         float64

	mu          sync.Mutex
	current     *LoadedScene
	lastApplied string // fingerprint of the last completed pass
}

// NewCompositor creates a compositor from options.
func NewCompositor(opts Options) *Compositor {
	strategyFor := opts.StrategyFor
	if strategyFor == nil {
		strategyFor = region.ForScene
	}
	pad := ViewportPad
	if opts.ViewportPadding != nil {
		pad = *opts.ViewportPadding
		if pad < 0 {
			pad = 0
		}
	}
	fb := opts.FallbackViewport
	if fb.Width <= 0 || fb.Height <= 0 {
		fb = svgdom.DefaultViewport
	}
	return &Compositor{
		artwork:     opts.Artwork,
		textures:    opts.Textures,
		materials:   opts.Materials,
		strategyFor: strategyFor,
		fallbackVP:  fb,
		pad:         pad,
	}
}

// LoadScene fetches and parses a scene's artwork, resolves every
// category's regions against the fresh document, applies the viewport
// padding, and installs the result as the current scene. The previous
// document and its pattern cache are discarded wholesale.
//
// A fetch or parse failure is fatal to this load: the error is returned
// and the previously loaded scene, if any, stays installed.
func (c *Compositor) LoadScene(ctx context.Context, scene surface.Scene) (*LoadedScene, error) {
	rc, err := c.artwork.Open(ctx, scene.Artwork)
	if err != nil {
		return nil, fmt.Errorf("compose: scene %s: %w", scene.ID, err)
	}
	doc, err := svgdom.Parse(rc)
	rc.Close()
	if err != nil {
		return nil, fmt.Errorf("compose: scene %s: %w", scene.ID, err)
	}

	doc.SetViewport(doc.ResolveViewport(c.fallbackVP).Pad(c.pad))
	c.embedImages(ctx, doc)

	// Regions are resolved once against the pristine document. The color
	// strategy classifies authored fills, so resolution must happen
	// before any material is painted; the snapshot also keeps
	// ApplyMaterial idempotent across repeated passes.
	strategy := c.strategyFor(scene.ID)
	regions := make(map[surface.Category][]svgdom.NodeID, len(surface.LayerOrder))
	for _, cat := range surface.LayerOrder {
		regions[cat] = strategy.Resolve(doc, cat)
	}

	ls := &LoadedScene{
		Scene:    scene,
		Doc:      doc,
		regions:  regions,
		patterns: make(map[string]svgdom.NodeID),
		grout:    make(map[svgdom.NodeID]svgdom.NodeID),
	}

	c.mu.Lock()
	c.current = ls
	c.lastApplied = ""
	c.mu.Unlock()

	surface.Logger().Info("scene loaded", "scene", scene.ID, "nodes", doc.Len())
	return ls, nil
}

// embedImages rewrites <image> references authored in the artwork to
// data URIs, so snapshots are self-contained like the pattern images the
// compositor installs itself. A reference that cannot be fetched stays
// external and is logged; it does not fail the load.
func (c *Compositor) embedImages(ctx context.Context, doc *svgdom.Document) {
	if c.textures == nil {
		return
	}
	doc.Walk(doc.Root(), func(n svgdom.NodeID) bool {
		if doc.Tag(n) != "image" {
			return true
		}
		name := "href"
		ref, ok := doc.Attr(n, name)
		if !ok {
			name = "xlink:href"
			ref, ok = doc.Attr(n, name)
		}
		if !ok || ref == "" || strings.HasPrefix(ref, "data:") {
			return true
		}
		dec, err := c.textures.Load(ctx, ref)
		if err != nil {
			surface.Logger().Warn("artwork image left as external reference",
				"ref", ref, "error", err)
			return true
		}
		doc.SetAttr(n, name, dec.DataURI())
		return true
	})
}

// Current returns the currently loaded scene, or nil.
func (c *Compositor) Current() *LoadedScene {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// ApplyMaterial paints one material onto the regions of one category.
// It is idempotent: repeated application of the same material yields the
// same document state and does not duplicate pattern resources.
func (c *Compositor) ApplyMaterial(ctx context.Context, ls *LoadedScene, cat surface.Category, mat surface.Material) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkCurrent(ls); err != nil {
		return err
	}
	// The fingerprint describes the last completed full pass; a partial
	// mutation invalidates it, or the next ApplyAll would skip a
	// selection the document no longer matches.
	c.lastApplied = ""
	return c.applyMaterialLocked(ctx, ls, cat, mat)
}

// ApplyAll paints a full selection in the fixed layering order:
// background, floor, countertop, backsplash, cabinet. Later categories
// visually occlude earlier ones where regions overlap.
//
// Structurally identical back-to-back selections are de-duplicated via
// the selection fingerprint and skipped entirely.
func (c *Compositor) ApplyAll(ctx context.Context, ls *LoadedScene, sel surface.Selection) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkCurrent(ls); err != nil {
		return err
	}

	fp := sel.Fingerprint(ls.Scene.ID)
	if fp == c.lastApplied {
		surface.Logger().Debug("composite pass skipped, selection unchanged",
			"scene", ls.Scene.ID)
		return nil
	}

	for _, cat := range surface.LayerOrder {
		id := sel.Get(cat)
		if id == "" {
			continue
		}
		mat, ok := c.materials.Material(id)
		if !ok {
			surface.Logger().Warn("selection references unknown material",
				"category", cat, "material", id)
			continue
		}
		if err := c.applyMaterialLocked(ctx, ls, cat, mat); err != nil {
			return err
		}
	}

	c.lastApplied = fp
	return nil
}

// Snapshot serializes the current document. Because passes and snapshots
// share the compositor lock, a snapshot taken after ApplyAll returns
// reflects exactly that selection, and image references (authored and
// pattern alike) are embedded as data URIs, so the result is
// self-contained.
func (c *Compositor) Snapshot() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return "", ErrSceneNotLoaded
	}
	return c.current.Doc.String(), nil
}

// checkCurrent guards mutation of documents that have been replaced by a
// scene switch: a pass racing a load must not paint the discarded tree.
func (c *Compositor) checkCurrent(ls *LoadedScene) error {
	if c.current == nil {
		return ErrSceneNotLoaded
	}
	if ls == nil || ls.Doc.Stamp() != c.current.Doc.Stamp() {
		return ErrStaleDocument
	}
	return nil
}

// applyMaterialLocked dispatches on material kind. Caller holds c.mu.
func (c *Compositor) applyMaterialLocked(ctx context.Context, ls *LoadedScene, cat surface.Category, mat surface.Material) error {
	if mat.Category != cat {
		return fmt.Errorf("compose: material %s is %s, not %s", mat.ID, mat.Category, cat)
	}
	regions := ls.regions[cat]
	if len(regions) == 0 {
		// Nothing to paint for this scene; not an error.
		surface.Logger().Debug("no regions for category",
			"scene", ls.Scene.ID, "category", cat)
		return nil
	}

	switch mat.Kind {
	case surface.FlatColor:
		hex, ok := surface.NormalizeHex(mat.Value)
		if !ok {
			return fmt.Errorf("compose: material %s: invalid color %q", mat.ID, mat.Value)
		}
		c.applyFlat(ls, regions, hex)
		if cat == surface.Floor {
			c.applyGroutOverlay(ls, mat, regions, hex)
		}
		return nil

	case surface.TiledImage:
		if cat == surface.Floor {
			// Grout overlays belong to a flat floor fill; a tile (or its
			// fallback) must not keep the previous color's grid on top.
			c.hideGroutOverlays(ls)
		}
		return c.applyTiled(ctx, ls, mat, regions)

	default:
		return fmt.Errorf("compose: material %s: unknown kind %q", mat.ID, mat.Kind)
	}
}

// applyFlat clears any prior fill and sets the new one on both the fill
// attribute and the inline style property. Both must be written: some
// rendering paths prioritize inline style over the attribute, and a
// leftover style fill would shadow the attribute silently.
func (c *Compositor) applyFlat(ls *LoadedScene, regions []svgdom.NodeID, value string) {
	for _, n := range regions {
		ls.Doc.RemoveAttr(n, "fill")
		ls.Doc.RemoveStyleProp(n, "fill")
		ls.Doc.SetAttr(n, "fill", value)
		ls.Doc.SetStyleProp(n, "fill", value)
	}
}

// applyTiled installs (or reuses) the material's shared pattern resource
// and points every region's fill at it. An image fetch or decode failure
// degrades to the neutral fallback fill for these regions and does not
// abort the rest of the composite pass.
func (c *Compositor) applyTiled(ctx context.Context, ls *LoadedScene, mat surface.Material, regions []svgdom.NodeID) error {
	dec, err := c.textures.Load(ctx, mat.Value)
	if err != nil {
		surface.Logger().Warn("texture unavailable, using fallback fill",
			"material", mat.ID, "error", err)
		c.applyFlat(ls, regions, FallbackFill)
		return nil
	}

	pat := c.ensureImagePattern(ls, mat, dec)
	ref := "url(#" + pat + ")"
	c.applyFlat(ls, regions, ref)
	return nil
}
