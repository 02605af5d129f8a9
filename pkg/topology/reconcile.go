package topology

import "slices"

// reconcile repairs the containment hierarchy in place.
//
// The passes run in a fixed order:
//  1. drop parent references to unknown nodes and filter children lists
//  2. break parent cycles present in the input
//  3. back-fill child.parent from explicit children lists
//  4. infer missing parents from edges to a node one level up
//  5. make parent and children agree in both directions
//
// Explicit parents are never overwritten and no pass creates a cycle.
func (n *normalizer) reconcile() {
	for _, node := range n.t.Nodes {
		if node.Parent != "" && (n.byID[node.Parent] == nil || node.Parent == node.ID) {
			node.Parent = ""
		}
		node.Children = slices.DeleteFunc(node.Children, func(id string) bool {
			return id == node.ID || n.byID[id] == nil
		})
	}

	n.breakCycles()

	for _, node := range n.t.Nodes {
		for _, id := range node.Children {
			child := n.byID[id]
			if child.Parent == "" && !n.isAncestor(child.ID, node.ID) {
				child.Parent = node.ID
			}
		}
	}

	n.inferParents()

	for _, node := range n.t.Nodes {
		if node.Parent == "" {
			continue
		}
		parent := n.byID[node.Parent]
		if !slices.Contains(parent.Children, node.ID) {
			parent.Children = append(parent.Children, node.ID)
		}
	}
	for _, node := range n.t.Nodes {
		node.Children = slices.DeleteFunc(node.Children, func(id string) bool {
			return n.byID[id].Parent != node.ID
		})
	}

	for i, e := range n.t.Edges {
		if n.byID[e.From] == nil || n.byID[e.To] == nil {
			n.diag(DiagDanglingEdge, "", "edges[%d] %s -> %s references a missing node and is never shown", i, e.From, e.To)
		}
	}
}

// inferParents gives each parentless medium or low node the first node one
// level up that shares an edge with it, in edge order.
func (n *normalizer) inferParents() {
	for _, node := range n.t.Nodes {
		want, ok := node.Level.Parent()
		if !ok || node.Parent != "" {
			continue
		}

		var candidates []string
		for _, e := range n.t.Edges {
			var other string
			switch node.ID {
			case e.From:
				other = e.To
			case e.To:
				other = e.From
			default:
				continue
			}
			peer := n.byID[other]
			if peer == nil || peer.Level != want || slices.Contains(candidates, other) {
				continue
			}
			candidates = append(candidates, other)
		}

		for _, id := range candidates {
			if n.isAncestor(node.ID, id) {
				continue
			}
			node.Parent = id
			parent := n.byID[id]
			if !slices.Contains(parent.Children, node.ID) {
				parent.Children = append(parent.Children, node.ID)
			}
			break
		}
		if node.Parent != "" && len(candidates) > 1 {
			n.t.Diagnostics = append(n.t.Diagnostics, Diagnostic{
				Kind:       DiagAmbiguousParent,
				NodeID:     node.ID,
				Candidates: candidates,
				Message:    "several " + string(want) + " nodes share an edge with " + node.ID + "; parent set to " + node.Parent,
			})
		}
	}
}

// breakCycles clears the parent of the first node, in document order, that
// closes a parent cycle.
func (n *normalizer) breakCycles() {
	for _, node := range n.t.Nodes {
		if n.onCycle(node) {
			n.diag(DiagParentCycle, node.ID, "parent %q of %q closes a cycle and was dropped", node.Parent, node.ID)
			node.Parent = ""
		}
	}
}

// onCycle reports whether following parents from node leads back to it.
func (n *normalizer) onCycle(node *Node) bool {
	seen := make(map[string]bool)
	for cur := n.byID[node.Parent]; cur != nil; cur = n.byID[cur.Parent] {
		if cur.ID == node.ID {
			return true
		}
		if seen[cur.ID] {
			return false
		}
		seen[cur.ID] = true
	}
	return false
}

// isAncestor reports whether candidate is id itself or lies on id's parent
// chain.
func (n *normalizer) isAncestor(candidate, id string) bool {
	seen := make(map[string]bool)
	for cur := n.byID[id]; cur != nil && !seen[cur.ID]; cur = n.byID[cur.Parent] {
		if cur.ID == candidate {
			return true
		}
		seen[cur.ID] = true
	}
	return false
}
