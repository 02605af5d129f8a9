package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/inspect"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/topology"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/view"
)

// List styles
var (
	listDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	listErrorStyle = lipgloss.NewStyle().Foreground(colorRed)
	listInputStyle = lipgloss.NewStyle().Foreground(colorCyan)
)

const exploreHelp = "↑/↓ move  ⏎ select  d drill  ⌫ up  1/2/3 level  / search  p pin  c clear  q quit"

// =============================================================================
// ExploreModel - Interactive topology browser
// =============================================================================

// ExploreModel is the bubbletea model for browsing a topology level by
// level. Every key maps to a view engine command; the list always shows the
// level-active nodes of the current scene.
type ExploreModel struct {
	eng *view.Engine

	Nodes  []view.SceneNode
	Cursor int
	Offset int
	Height int
	Width  int

	searching bool
	input     string
	panel     *inspect.Panel
	err       error
}

// NewExploreModel creates an explorer over eng.
func NewExploreModel(eng *view.Engine) ExploreModel {
	m := ExploreModel{eng: eng, Height: 15}
	m.refresh()
	return m
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg), nil
		}
		return m.updateBrowse(msg)
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ExploreModel) updateSearch(msg tea.KeyMsg) ExploreModel {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.input = ""
	case tea.KeyEnter:
		m.searching = false
		m.dispatch(view.Search(m.input))
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.input += string(msg.Runes)
	}
	return m
}

func (m ExploreModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "enter", " ":
		if n := m.current(); n != nil {
			m.dispatch(view.Select(n.ID))
		}
	case "d", "right", "l":
		if n := m.current(); n != nil {
			m.dispatch(view.Drill(n.ID))
		}
	case "backspace", "left", "h":
		m.up()
	case "1":
		m.dispatch(view.ActivateLevel(topology.LevelHigh))
	case "2":
		m.dispatch(view.ActivateLevel(topology.LevelMedium))
	case "3":
		m.dispatch(view.ActivateLevel(topology.LevelLow))
	case "/":
		m.searching = true
		m.input = m.eng.State().SearchTerm
	case "p":
		if n := m.current(); n != nil {
			if n.Pinned() {
				m.dispatch(view.Unpin(n.ID))
			} else {
				m.dispatch(view.Pin(n.ID))
			}
		}
	case "c":
		m.dispatch(
			view.Search(""),
			view.FilterBy(view.FilterType, view.FilterAll),
			view.FilterBy(view.FilterTag, view.FilterAll),
			view.FilterBy(view.FilterIntent, view.FilterAll),
		)
	case "esc":
		m.dispatch(view.Select(""))
	}
	return m, nil
}

// up leaves the current focus and returns to the coarser level.
func (m *ExploreModel) up() {
	st := m.eng.State()
	switch st.ActiveLevel {
	case topology.LevelLow:
		m.dispatch(view.ClearFocus(topology.LevelLow), view.ActivateLevel(topology.LevelMedium))
	case topology.LevelMedium:
		m.dispatch(view.ClearFocus(topology.LevelMedium), view.ActivateLevel(topology.LevelHigh))
	}
}

func (m *ExploreModel) dispatch(cmds ...view.Command) {
	follow := ""
	if n := m.current(); n != nil {
		follow = n.ID
	}
	before := m.eng.State().SelectedNodeID
	m.err = m.eng.Dispatch(cmds...)
	if sel := m.eng.State().SelectedNodeID; sel != before && sel != "" {
		follow = sel
	}
	m.refresh()
	m.focus(follow)
}

// refresh rebuilds the list and the panel from the scene.
func (m *ExploreModel) refresh() {
	m.Nodes = m.eng.Scene().Nodes
	if m.Cursor >= len(m.Nodes) {
		m.Cursor = max(len(m.Nodes)-1, 0)
	}
	m.scroll()

	m.panel = nil
	if p, ok := inspect.Selected(m.eng); ok {
		m.panel = p
	}
}

// focus moves the cursor to id when it is listed.
func (m *ExploreModel) focus(id string) {
	for i, n := range m.Nodes {
		if n.Node.ID == id {
			m.Cursor = i
			m.scroll()
			return
		}
	}
}

func (m *ExploreModel) move(delta int) {
	next := m.Cursor + delta
	if next < 0 || next >= len(m.Nodes) {
		return
	}
	m.Cursor = next
	m.scroll()
	m.eng.HoverNode(m.Nodes[next].Node.ID)
	m.Nodes = m.eng.Scene().Nodes
}

func (m *ExploreModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m ExploreModel) current() *topology.Node {
	if m.Cursor < 0 || m.Cursor >= len(m.Nodes) {
		return nil
	}
	return m.Nodes[m.Cursor].Node
}

func (m ExploreModel) View() string {
	var b strings.Builder

	st := m.eng.State()
	b.WriteString(StyleTitle.Render(m.eng.Topology().Meta.Name) + "  " + levelBadge(st.ActiveLevel))
	if path := m.eng.DrilldownPath(); len(path) > 0 {
		labels := make([]string, len(path))
		for i, n := range path {
			labels[i] = n.DisplayLabel()
		}
		b.WriteString("  " + StyleDim.Render(strings.Join(labels, " "+iconArrow+" ")))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(exploreHelp))
	b.WriteString("\n\n")

	list := m.renderList()
	if m.panel != nil {
		width := 48
		if m.Width > 0 {
			width = max(m.Width-lipgloss.Width(list)-4, 32)
		}
		list = lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", renderPanel(m.panel, width))
	}
	b.WriteString(list)
	b.WriteString("\n\n")

	switch {
	case m.searching:
		b.WriteString(listInputStyle.Render("/" + m.input + "█"))
	case m.err != nil:
		b.WriteString(listErrorStyle.Render(iconError + " " + m.err.Error()))
	default:
		status := fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.Nodes)), len(m.Nodes))
		if st.SearchTerm != "" {
			status += "  search: " + st.SearchTerm
		}
		b.WriteString(listDimStyle.Render(status))
	}
	return b.String()
}

func (m ExploreModel) renderList() string {
	if len(m.Nodes) == 0 {
		return listDimStyle.Render("  No nodes at this level")
	}
	end := min(m.Offset+m.Height, len(m.Nodes))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i].Node
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		pin := ""
		if n.Pinned() {
			pin = "●"
		}
		tags := strings.Join(n.Tags, ", ")
		if len(tags) > 24 {
			tags = tags[:23] + "…"
		}
		rows = append(rows, []string{cursor, n.DisplayLabel(), n.Type, tags, pin})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Type", "Tags", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Nodes) {
				return lipgloss.NewStyle()
			}
			sn := m.Nodes[idx]
			base := lipgloss.NewStyle()
			if col == 2 || col == 3 {
				base = base.Foreground(colorGray)
			}
			switch {
			case idx == m.Cursor:
				return base.Foreground(colorCyan).Bold(true)
			case sn.Selected:
				return base.Foreground(colorGreen).Bold(true)
			case sn.Dimmed || !sn.Matches:
				return base.Foreground(colorDim)
			case sn.Connected:
				return base.Foreground(colorBlue)
			}
			return base
		})

	return t.Render()
}
