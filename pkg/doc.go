// Package pkg holds the libraries behind topoviz, a viewer for
// multi-resolution system topologies.
//
// # Overview
//
// A topology document lists nodes at three levels (high: systems, medium:
// modules, low: components) joined by parent links and typed edges. The
// libraries turn such a document into an interactive, level-by-level view:
//
//	JSON / YAML document (file, URL, stdin, GitHub)
//	         ↓
//	    [source] + [schema]   (read and optionally validate)
//	         ↓
//	    [topology]            (normalize, index, export)
//	         ↓
//	    [view]                (level, drilldown, search, filters, selection)
//	         ↓
//	    [layout]              (Graphviz or grid placement)
//	         ↓
//	    [render], [inspect]   (DOT/SVG/PDF/PNG, detail panels)
//
// # Packages
//
// [topology] - The data model. Normalize repairs arbitrary input into a
// consistent document (default metadata, unique ids, inferred parents,
// broken cycles) and records a diagnostic for every repair. Index answers
// node, child and edge lookups.
//
// [view] - The view-state engine. Commands change the active level, the
// drilldown focus, search, filters, selection and node placement; the engine
// derives which nodes and edges are visible and how they are highlighted.
//
// [layout] - Layout adapters. Graphviz dot is the default; the grid adapter
// is used when Graphviz fails or times out. Pinned nodes keep their place.
//
// [render] and [render/dot] - DOT generation, SVG through Graphviz, and PDF
// and PNG conversion.
//
// [inspect] - The node detail panel with markdown details rendered to HTML.
//
// [pipeline] - The load → layout → view → render pipeline shared by the CLI
// and the HTTP server, with layouts cached by input.
//
// [source], [schema], [forge/github] - Document loading, JSON Schema
// validation and the GitHub repository exporter.
//
// [cache], [httputil], [observability], [errors], [util], [buildinfo] -
// Supporting infrastructure.
//
// # Quick Start
//
//	eng := view.New()
//	if err := eng.Load(data); err != nil {
//	    return err
//	}
//	eng.RunLayout(ctx, layout.GridAdapter{})
//	err := eng.Dispatch(view.Drill("payments"), view.Search("queue"))
//	scene := eng.Scene()
//
// # Testing
//
//	go test ./...            # All tests
//	go test -short ./...     # Skip Graphviz rendering
//
// [topology]: https://pkg.go.dev/github.com/fadel-segaf-developer/Topology-Visualizer/pkg/topology
// [view]: https://pkg.go.dev/github.com/fadel-segaf-developer/Topology-Visualizer/pkg/view
// [layout]: https://pkg.go.dev/github.com/fadel-segaf-developer/Topology-Visualizer/pkg/layout
// [render]: https://pkg.go.dev/github.com/fadel-segaf-developer/Topology-Visualizer/pkg/render
// [render/dot]: https://pkg.go.dev/github.com/fadel-segaf-developer/Topology-Visualizer/pkg/render/dot
// [inspect]: https://pkg.go.dev/github.com/fadel-segaf-developer/Topology-Visualizer/pkg/inspect
// [pipeline]: https://pkg.go.dev/github.com/fadel-segaf-developer/Topology-Visualizer/pkg/pipeline
// [source]: https://pkg.go.dev/github.com/fadel-segaf-developer/Topology-Visualizer/pkg/source
// [schema]: https://pkg.go.dev/github.com/fadel-segaf-developer/Topology-Visualizer/pkg/schema
// [forge/github]: https://pkg.go.dev/github.com/fadel-segaf-developer/Topology-Visualizer/pkg/forge/github
// [cache]: https://pkg.go.dev/github.com/fadel-segaf-developer/Topology-Visualizer/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/fadel-segaf-developer/Topology-Visualizer/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/fadel-segaf-developer/Topology-Visualizer/pkg/observability
// [errors]: https://pkg.go.dev/github.com/fadel-segaf-developer/Topology-Visualizer/pkg/errors
// [util]: https://pkg.go.dev/github.com/fadel-segaf-developer/Topology-Visualizer/pkg/util
// [buildinfo]: https://pkg.go.dev/github.com/fadel-segaf-developer/Topology-Visualizer/pkg/buildinfo
package pkg
