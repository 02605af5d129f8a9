// Package topology defines the multi-resolution topology document and the
// normalizer that turns any decoded document into a structurally valid one.
//
// # Overview
//
// A topology is a set of nodes at three levels of detail (high, medium, low)
// joined by directed, intent-labelled edges. Nodes form a containment
// hierarchy through their parent and children fields: a medium node usually
// lives under a high node and a low node under a medium node.
//
// # Normalization
//
// [Normalize] accepts anything decoded from JSON or YAML and never fails. It
// fills defaults, coerces invalid values, repairs dangling references and
// infers missing parents from edges:
//
//	raw, err := topology.Decode(data)
//	if err != nil {
//	    return err
//	}
//	t := topology.Normalize(raw)
//	for _, d := range t.Diagnostics {
//	    log.Warn(d.Message, "node", d.NodeID)
//	}
//
// Normalization is idempotent: normalizing an already normalized document
// yields an equal document.
//
// # Lookup
//
// [NewIndex] builds the id, adjacency and containment maps used by the view
// engine. The index is rebuilt in full whenever a document is loaded.
//
// # Export
//
// [Export] folds runtime positions and sizes back into rounded layout hints
// so that an exported document re-imports to the same picture.
package topology
