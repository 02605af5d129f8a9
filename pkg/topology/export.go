package topology

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/util"
)

// Export returns a copy of t ready to be saved and re-imported. Each node's
// runtime position and size are folded into integer layout hints, keeping
// the pinned flag, and the runtime fields are removed.
func Export(t *Topology) (*Topology, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	tree, err := Decode(data)
	if err != nil {
		return nil, err
	}
	out := Normalize(tree)
	out.Diagnostics = nil

	for _, n := range out.Nodes {
		if n.Position != nil {
			width, height := float64(DefaultNodeWidth), float64(DefaultNodeHeight)
			if n.Size != nil && n.Size.Width > 0 {
				width = n.Size.Width
			}
			if n.Size != nil && n.Size.Height > 0 {
				height = n.Size.Height
			}
			hint := &LayoutHint{}
			if n.Layout != nil {
				hint.Fixed = n.Layout.Fixed
			}
			hint.X = rounded(n.Position.X)
			hint.Y = rounded(n.Position.Y)
			hint.Width = rounded(width)
			hint.Height = rounded(height)
			n.Layout = hint
		}
		n.Position = nil
		n.Size = nil
	}
	return out, nil
}

// MarshalExport exports t and encodes it as indented JSON.
func MarshalExport(t *Topology) ([]byte, error) {
	out, err := Export(t)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := writeTo(out, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportFilename returns the file name an export of t is saved under.
func ExportFilename(t *Topology) string {
	slug := util.Slugify(t.Meta.Name)
	if slug == "" {
		slug = "topology"
	}
	return slug + ".json"
}

func rounded(f float64) *float64 {
	r := math.Round(f)
	return &r
}
