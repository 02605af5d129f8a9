// Package view holds the interactive view state of a loaded topology.
//
// An [Engine] owns one normalized topology, its lookup index and the state a
// user changes while exploring: the active level, the drilldown focus,
// selection, hover, search and filters. Everything the presentation layer
// draws is derived from that state by pure queries.
//
// # Explicit Recompute
//
// Mutators only change state. Derived visibility is memoised and dropped by
// every mutation; callers either read it through [Engine.Visibility], which
// recomputes on demand, or batch mutations with [Engine.Dispatch]:
//
//	err := eng.Dispatch(
//	    view.Drill("orders"),
//	    view.Search("checkout"),
//	)
//	scene := eng.Scene()
//
// # Levels and Drilldown
//
// A node is level-active when its level equals the active level and it
// matches the drilldown focus. High nodes are never scoped. Medium nodes are
// scoped to the focused high node. Low nodes are scoped to the focused medium
// node, directly or through one intervening node, or to the low focus when
// one is set.
//
// An Engine is not safe for concurrent use. Servers guard it with a mutex.
package view
