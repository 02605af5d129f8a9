package dot

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	errs "github.com/fadel-segaf-developer/Topology-Visualizer/pkg/errors"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/util"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/view"
)

// Options configures DOT generation.
type Options struct {
	// Detailed adds the node type and summary below the label.
	Detailed bool

	// HideFiltered drops nodes and edges that do not match the search and
	// filters instead of drawing them faded.
	HideFiltered bool

	// Legend appends a cluster listing the intents in use.
	Legend bool
}

const dimmedColor = "#cbd5e1"

// accents colors nodes by type. The mapping is stable across runs.
var accents = []string{"#0ea5e9", "#22c55e", "#f97316", "#a855f7", "#ec4899", "#14b8a6", "#eab308", "#6366f1"}

// ToDOT converts a scene to Graphviz DOT source.
func ToDOT(sc *view.Scene, opts Options) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", sc.Name)
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	drawn := make(map[string]bool, len(sc.Nodes))
	for _, n := range sc.Nodes {
		if opts.HideFiltered && !n.Matches {
			continue
		}
		drawn[n.Node.ID] = true
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Node.ID, strings.Join(nodeAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	used := make(map[string]bool)
	for _, e := range sc.Edges {
		if !drawn[e.Edge.From] || !drawn[e.Edge.To] || (opts.HideFiltered && e.Filtered) {
			continue
		}
		used[e.Edge.Intent] = true
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Edge.From, e.Edge.To, strings.Join(edgeAttrs(e), ", "))
	}

	if opts.Legend && len(used) > 0 {
		buf.WriteString("\n  subgraph cluster_legend {\n")
		buf.WriteString("    label=\"Intents\";\n    style=dashed;\n")
		for i, entry := range sc.Legend {
			if !used[entry.Intent] {
				continue
			}
			fmt.Fprintf(&buf, "    \"legend_%d\" [label=%q, shape=plaintext, style=\"\", fontcolor=%q];\n", i, entry.Label, entry.Color)
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n view.SceneNode, detailed bool) []string {
	label := n.Node.DisplayLabel()
	if detailed {
		parts := []string{label, n.Node.Type}
		if n.Node.Summary != "" {
			parts = append(parts, util.Truncate(n.Node.Summary, 60))
		}
		label = strings.Join(parts, "\n")
	}

	accent := Accent(n.Node.Type)
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("color=%q", accent),
	}
	if n.Node.Level != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", string(n.Node.Level)+" "+n.Node.Type))
	}
	switch {
	case n.Selected:
		attrs = append(attrs, "penwidth=3", fmt.Sprintf("fillcolor=%q", accent+"33"))
	case n.Hovered || n.Connected:
		attrs = append(attrs, "penwidth=2")
	}
	if n.Dimmed {
		attrs = append(attrs, fmt.Sprintf("fontcolor=%q", dimmedColor), fmt.Sprintf("color=%q", dimmedColor))
	}
	if n.Node.Pinned() {
		attrs = append(attrs, "peripheries=2")
	}
	return attrs
}

func edgeAttrs(e view.SceneEdge) []string {
	color := e.Color
	if e.Dimmed {
		color = dimmedColor
	}
	attrs := []string{fmt.Sprintf("color=%q", color)}
	if e.Edge.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Edge.Label), fmt.Sprintf("fontcolor=%q", color))
	}
	if e.Active {
		attrs = append(attrs, "penwidth=2.5")
	}
	if e.Filtered {
		attrs = append(attrs, "style=dashed")
	}
	return attrs
}

// Accent returns the stable accent color for a node type.
func Accent(nodeType string) string {
	h := fnv.New32a()
	h.Write([]byte(nodeType))
	return accents[h.Sum32()%uint32(len(accents))]
}

// RenderSVG lays out DOT source with Graphviz and returns SVG.
func RenderSVG(ctx context.Context, src string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errs.Wrap(errs.ErrCodeLayoutFailed, err, "render svg")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz svg element, which sizes in points,
// with one sized in pixels matching the viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
