// Package dot renders the current view of a topology as a Graphviz diagram.
//
// [ToDOT] converts a [view.Scene] into DOT source: nodes are boxes accented
// by type, edges take their intent color, and anything the search, filters
// or focus dims is drawn faded. [RenderSVG] lays the DOT out in-process with
// go-graphviz; PDF and PNG go through [render.ToPDF] and [render.ToPNG].
//
//	scene := engine.Scene()
//	src := dot.ToDOT(scene, dot.Options{})
//	svg, err := dot.RenderSVG(ctx, src)
//
// [render.ToPDF]: github.com/fadel-segaf-developer/Topology-Visualizer/pkg/render.ToPDF
// [render.ToPNG]: github.com/fadel-segaf-developer/Topology-Visualizer/pkg/render.ToPNG
package dot
