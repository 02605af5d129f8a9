// Package render converts rendered views between output formats.
//
// Diagrams are produced as SVG by the [dot] subpackage. [ToPDF] and
// [ToPNG] convert that SVG with the external rsvg-convert tool from librsvg:
//
//	svg, err := dot.RenderSVG(ctx, src)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// Install librsvg with `brew install librsvg` (macOS) or
// `apt install librsvg2-bin` (Debian, Ubuntu).
//
// [dot]: github.com/fadel-segaf-developer/Topology-Visualizer/pkg/render/dot
package render
