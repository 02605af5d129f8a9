package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/inspect"
)

var (
	panelBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
	panelHeadingStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGray)
	panelLabelStyle   = lipgloss.NewStyle().Foreground(colorGray)
)

// renderPanel draws a node detail panel as a bordered box. A width of zero
// lets the box size itself to its content.
func renderPanel(p *inspect.Panel, width int) string {
	var b strings.Builder

	title := StyleTitle.Render(p.Title) + "  " + levelBadge(p.Level)
	if p.Pinned {
		title += " " + StyleWarning.Render("pinned")
	}
	b.WriteString(title + "\n")
	b.WriteString(StyleDim.Render(p.ID+" · "+p.Type) + "\n")
	if p.Status != nil && p.Status.Label != "" {
		b.WriteString(toneStyle(p.Status.Tone).Render("● "+p.Status.Label) + "\n")
	}
	if p.Summary != "" {
		b.WriteString("\n" + p.Summary + "\n")
	}

	if len(p.Focus) > 0 {
		labels := make([]string, len(p.Focus))
		for i, f := range p.Focus {
			labels[i] = f.Label
		}
		panelSection(&b, "Focus")
		b.WriteString(StyleDim.Render(strings.Join(labels, " "+iconArrow+" ")) + "\n")
	}

	if p.Contained != nil {
		panelSection(&b, p.Contained.Title)
		for _, item := range p.Contained.Items {
			b.WriteString("  " + item.Label + "\n")
		}
		if p.Contained.More > 0 {
			b.WriteString(StyleDim.Render(fmt.Sprintf("  +%d more", p.Contained.More)) + "\n")
		}
		if p.DrillLabel != "" {
			b.WriteString(StyleDim.Render("  "+p.DrillLabel+" (d)") + "\n")
		}
	}

	if len(p.Metrics) > 0 {
		panelSection(&b, "Metrics")
		for _, m := range p.Metrics {
			b.WriteString("  " + panelLabelStyle.Render(m.Label+":") + " " + m.Value + "\n")
		}
	}
	if len(p.Tags) > 0 {
		panelSection(&b, "Tags")
		b.WriteString("  " + strings.Join(p.Tags, ", ") + "\n")
	}

	if len(p.Inputs) > 0 || len(p.Outputs) > 0 {
		panelSection(&b, "Connections")
		for _, n := range p.Inputs {
			b.WriteString("  ← " + n.Label + " " + swatch(n.Color, StyleDim.Render(n.IntentLabel)) + "\n")
		}
		for _, n := range p.Outputs {
			b.WriteString("  → " + n.Label + " " + swatch(n.Color, StyleDim.Render(n.IntentLabel)) + "\n")
		}
	}

	if len(p.Source) > 0 {
		panelSection(&b, "Source")
		for _, f := range p.Source {
			value := f.Value
			if f.Code {
				value = StyleHighlight.Render(value)
			}
			b.WriteString("  " + panelLabelStyle.Render(f.Label+":") + " " + value + "\n")
		}
	}
	if len(p.Links) > 0 {
		panelSection(&b, "Links")
		for _, l := range p.Links {
			b.WriteString("  " + l.Label + " " + StyleLink.Render(l.URL) + "\n")
		}
	}

	writeWork(&b, "Issues", p.Issues)
	writeWork(&b, "Pull requests", p.PRs)

	if len(p.Insights) > 0 {
		panelSection(&b, "Insights")
		for _, in := range p.Insights {
			b.WriteString(fmt.Sprintf("  %s %s %s\n", StyleHighlight.Render(in.Kind), StyleDim.Render("("+in.Confidence+")"), in.Text))
			for _, a := range in.Actions {
				b.WriteString(StyleDim.Render("    - "+a) + "\n")
			}
		}
	}

	if p.Details != "" {
		panelSection(&b, "Details")
		b.WriteString(p.Details + "\n")
	}

	box := panelBoxStyle
	if width > 0 {
		box = box.Width(width)
	}
	return box.Render(strings.TrimRight(b.String(), "\n"))
}

// toneStyle colors a status by its tone.
func toneStyle(tone string) lipgloss.Style {
	switch strings.ToLower(tone) {
	case "ok", "good", "success", "positive":
		return StyleSuccess
	case "warn", "warning", "caution":
		return StyleWarning
	case "bad", "error", "danger", "critical":
		return lipgloss.NewStyle().Foreground(colorRed)
	case "info":
		return lipgloss.NewStyle().Foreground(colorBlue)
	}
	return StyleDim
}

func panelSection(b *strings.Builder, title string) {
	b.WriteString("\n" + panelHeadingStyle.Render(title) + "\n")
}

func writeWork(b *strings.Builder, title string, items []inspect.WorkItem) {
	if len(items) == 0 {
		return
	}
	panelSection(b, title)
	for _, it := range items {
		line := "  #" + it.Number + " " + it.Title
		if it.State != "" {
			line += " " + StyleDim.Render("["+it.State+"]")
		}
		if len(it.Labels) > 0 {
			line += " " + StyleDim.Render(strings.Join(it.Labels, ", "))
		}
		b.WriteString(line + "\n")
	}
}
