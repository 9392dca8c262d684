// Package surface implements the core engine of a kitchen surface
// configurator: a user assigns materials (flat colors or tiled images) to
// five named surface categories of a 2D vector illustration, and the engine
// recolors or retextures the matching regions of the artwork, keeping the
// result reproducible for thumbnailing and PDF export.
//
// # Overview
//
// The root package holds the shared domain model (materials, scenes, themes,
// selections) and the color math used throughout the engine. The actual
// machinery lives in sub-packages:
//
//   - svgdom: the in-memory vector document with stable node handles
//   - catalog: material/scene/theme loading with bundled fallbacks
//   - region: resolving which document nodes belong to which category
//   - compose: the surface compositor applying materials to regions
//   - render: CPU rasterization of a composited document
//   - export: preview capture and PDF assembly
//
// # Logging
//
// The engine produces no log output by default. Call SetLogger to enable
// structured logging for all sub-packages.
package surface

// Version is the current version of the engine.
const Version = "0.3.0"
