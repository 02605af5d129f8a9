package layout

import (
	"context"
	"math"
)

// Grid geometry.
const (
	gridColGap    = 320
	gridRowGap    = 180
	gridPerColumn = 4
	gridOrigin    = 120
)

// Grid places boxes column by column, four per column, in input order. It
// is deterministic and cannot fail. An empty input yields an empty
// MinWidth x MinHeight canvas.
func Grid(boxes []Box) *Result {
	res := &Result{
		Width:  MinWidth,
		Height: MinHeight,
		Nodes:  make(map[string]Rect, len(boxes)),
		Engine: "grid",
	}
	if len(boxes) == 0 {
		return res
	}
	for i, b := range boxes {
		col, row := i/gridPerColumn, i%gridPerColumn
		res.Nodes[b.ID] = Rect{
			X:      float64(gridOrigin + col*gridColGap),
			Y:      float64(gridOrigin + row*gridRowGap),
			Width:  b.Width,
			Height: b.Height,
		}
	}
	columns := math.Ceil(float64(len(boxes)) / gridPerColumn)
	res.Width = columns*gridColGap + 400
	res.Height = gridPerColumn*gridRowGap + 400
	return res
}

// GridAdapter is an Adapter that always uses Grid.
type GridAdapter struct{}

// Name implements Adapter.
func (GridAdapter) Name() string { return "grid" }

// Layout implements Adapter.
func (GridAdapter) Layout(_ context.Context, boxes []Box, _ []Link) (*Result, error) {
	return Grid(boxes), nil
}
