package layout

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"
)

// pointsPerInch converts graphviz inches to canvas units.
const pointsPerInch = 72.0

// Graphviz lays nodes out left to right with the dot engine.
type Graphviz struct {
	// NodeSep and RankSep are the gaps between nodes in a rank and between
	// ranks, in canvas units.
	NodeSep float64
	RankSep float64
}

// NewGraphviz returns the adapter with the default spacing.
func NewGraphviz() *Graphviz {
	return &Graphviz{NodeSep: 80, RankSep: 120}
}

// Name implements Adapter.
func (g *Graphviz) Name() string { return "graphviz" }

// Layout implements Adapter.
func (g *Graphviz) Layout(ctx context.Context, boxes []Box, links []Link) (*Result, error) {
	if len(boxes) == 0 {
		return Grid(nil), nil
	}
	dot, names := g.toDOT(boxes, links)

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	graph, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer graph.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.Format("plain"), &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return parsePlain(buf.Bytes(), names, boxes)
}

// toDOT writes the layout graph. Nodes get synthetic names so that ids never
// need escaping; names maps them back.
func (g *Graphviz) toDOT(boxes []Box, links []Link) (string, map[string]string) {
	names := make(map[string]string, len(boxes))
	byID := make(map[string]string, len(boxes))

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	fmt.Fprintf(&buf, "  nodesep=%.3f;\n", g.NodeSep/pointsPerInch)
	fmt.Fprintf(&buf, "  ranksep=%.3f;\n", g.RankSep/pointsPerInch)
	buf.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n\n")

	for i, b := range boxes {
		name := "n" + strconv.Itoa(i)
		names[name] = b.ID
		byID[b.ID] = name
		fmt.Fprintf(&buf, "  %s [width=%.3f, height=%.3f];\n", name, b.Width/pointsPerInch, b.Height/pointsPerInch)
	}
	buf.WriteString("\n")
	for _, l := range links {
		from, okFrom := byID[l.From]
		to, okTo := byID[l.To]
		if !okFrom || !okTo {
			continue
		}
		fmt.Fprintf(&buf, "  %s -> %s;\n", from, to)
	}
	buf.WriteString("}\n")
	return buf.String(), names
}

// parsePlain reads graphviz "plain" output. Coordinates there are node
// centres in inches with the origin at the bottom left.
func parsePlain(out []byte, names map[string]string, boxes []Box) (*Result, error) {
	sizes := make(map[string]Box, len(boxes))
	for _, b := range boxes {
		sizes[b.ID] = b
	}

	var graphW, graphH float64
	type centre struct{ x, y float64 }
	centres := make(map[string]centre, len(boxes))

	sc := bufio.NewScanner(bytes.NewReader(out))
scan:
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "graph":
			if len(fields) < 4 {
				return nil, fmt.Errorf("malformed graph line %q", sc.Text())
			}
			w, errW := strconv.ParseFloat(fields[2], 64)
			h, errH := strconv.ParseFloat(fields[3], 64)
			if errW != nil || errH != nil {
				return nil, fmt.Errorf("malformed graph line %q", sc.Text())
			}
			graphW, graphH = w, h
		case "node":
			if len(fields) < 4 {
				return nil, fmt.Errorf("malformed node line %q", sc.Text())
			}
			id, ok := names[fields[1]]
			if !ok {
				continue
			}
			x, errX := strconv.ParseFloat(fields[2], 64)
			y, errY := strconv.ParseFloat(fields[3], 64)
			if errX != nil || errY != nil {
				return nil, fmt.Errorf("malformed node line %q", sc.Text())
			}
			centres[id] = centre{x: x, y: y}
		case "stop":
			break scan
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if graphW == 0 && graphH == 0 {
		return nil, fmt.Errorf("graphviz produced no graph bounds")
	}

	res := &Result{
		Width:  max(graphW*pointsPerInch+2*Margin, MinWidth),
		Height: max(graphH*pointsPerInch+2*Margin, MinHeight),
		Nodes:  make(map[string]Rect, len(centres)),
	}
	for id, c := range centres {
		b := sizes[id]
		res.Nodes[id] = Rect{
			X:      c.x*pointsPerInch - b.Width/2 + Margin,
			Y:      (graphH-c.y)*pointsPerInch - b.Height/2 + Margin,
			Width:  b.Width,
			Height: b.Height,
		}
	}
	return res, nil
}
