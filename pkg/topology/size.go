package topology

import "unicode/utf8"

// AutoWidth estimates a node width that fits its content. An explicit
// positive layout or size width wins; otherwise the default width grows
// with long labels and summaries, many or long tags, many metrics and many
// insights, clamped to [DefaultNodeWidth, MaxAutoNodeWidth].
func AutoWidth(n *Node) float64 {
	if n.Layout != nil && n.Layout.Width != nil && *n.Layout.Width > 0 {
		return *n.Layout.Width
	}
	if n.Size != nil && n.Size.Width > 0 {
		return n.Size.Width
	}

	width := float64(DefaultNodeWidth)
	if l := utf8.RuneCountInString(n.Label); l > 22 {
		width += min(80, float64(l-22)*3)
	}
	summary := utf8.RuneCountInString(n.Summary)
	if summary > 90 {
		width += 40
	}
	if summary > 140 {
		width += 40
	}
	if len(n.Tags) > 3 {
		width += min(180, float64(len(n.Tags)-3)*36)
	}
	longest := 0
	for _, tag := range n.Tags {
		longest = max(longest, utf8.RuneCountInString(tag))
	}
	if longest > 14 {
		width += min(140, float64(longest-14)*6)
	}
	if len(n.Metrics) > 2 {
		width += min(120, float64(len(n.Metrics)-2)*24)
	}
	if len(n.Insights) > 1 {
		width += min(100, float64(len(n.Insights)-1)*24)
	}
	return min(MaxAutoNodeWidth, max(width, DefaultNodeWidth))
}

// EnsureLayout gives n a size and a position if it has none. The size comes
// from AutoWidth and the layout height hint; the position comes from the
// layout hint, defaulting to the origin.
func EnsureLayout(n *Node) {
	if n.Size == nil {
		n.Size = &Size{}
	}
	if n.Size.Width <= 0 {
		n.Size.Width = AutoWidth(n)
	}
	if n.Size.Height <= 0 {
		n.Size.Height = DefaultNodeHeight
		if n.Layout != nil && n.Layout.Height != nil && *n.Layout.Height > 0 {
			n.Size.Height = *n.Layout.Height
		}
	}
	if n.Position == nil {
		n.Position = &Point{}
		if n.Layout != nil {
			if n.Layout.X != nil {
				n.Position.X = *n.Layout.X
			}
			if n.Layout.Y != nil {
				n.Position.Y = *n.Layout.Y
			}
		}
	}
}

// EnsureAll runs EnsureLayout on every node of t.
func (t *Topology) EnsureAll() {
	for _, n := range t.Nodes {
		EnsureLayout(n)
	}
}
