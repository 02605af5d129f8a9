// Package layout positions topology nodes on a canvas.
//
// # Overview
//
// Layout is delegated to an [Adapter]. The [Graphviz] adapter runs the dot
// engine in-process through go-graphviz and reads node centres back from its
// "plain" output. Whatever the adapter does, [Run] always produces a usable
// result: when the adapter fails, times out or panics, the deterministic
// [Grid] fallback is used and the failure is returned as a non-fatal
// LAYOUT_FAILED warning.
//
//	res, warn := layout.Run(ctx, layout.NewGraphviz(), topo)
//	if warn != nil {
//	    logger.Warn("layout fell back to grid", "err", warn)
//	}
//	layout.Apply(topo, res)
//
// # Geometry
//
// Positions are top-left corners in canvas units. Adapter output is shifted
// by [Margin] on both axes and the canvas is never smaller than
// [MinWidth] x [MinHeight].
package layout
