package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/jyotish/pkg/dasha"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listActiveStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// DashaBrowserModel - Interactive dasha tree
// =============================================================================

// dashaRow is one visible line of the flattened tree.
type dashaRow struct {
	period dasha.Period
	depth  int
	path   string // child indices from the root, e.g. "3.0.4"
}

// DashaBrowserModel is the bubbletea model for browsing a dasha timeline.
// Periods start collapsed except for the chain active at Now.
type DashaBrowserModel struct {
	Periods  []dasha.Period
	Now      time.Time
	Expanded map[string]bool
	Cursor   int
	Height   int
	Offset   int

	rows []dashaRow
}

// NewDashaBrowserModel creates a browser with the active chain expanded and
// the cursor on its innermost period.
func NewDashaBrowserModel(periods []dasha.Period, now time.Time) DashaBrowserModel {
	m := DashaBrowserModel{
		Periods:  periods,
		Now:      now,
		Expanded: map[string]bool{},
		Height:   15,
	}

	var active string
	level := periods
	path := ""
	for len(level) > 0 {
		idx := -1
		for i, p := range level {
			if p.Contains(now) {
				idx = i
				break
			}
		}
		if idx < 0 {
			break
		}
		path = joinPath(path, idx)
		active = path
		if len(level[idx].Children) > 0 {
			m.Expanded[path] = true
		}
		level = level[idx].Children
	}
	// The innermost active period stays collapsed.
	delete(m.Expanded, active)

	m.rebuild()
	for i, r := range m.rows {
		if r.path == active {
			m.Cursor = i
		}
	}
	m.scroll()
	return m
}

func joinPath(parent string, idx int) string {
	if parent == "" {
		return strconv.Itoa(idx)
	}
	return parent + "." + strconv.Itoa(idx)
}

// rebuild flattens the expanded parts of the tree.
func (m *DashaBrowserModel) rebuild() {
	m.rows = nil
	var walk func(ps []dasha.Period, depth int, parent string)
	walk = func(ps []dasha.Period, depth int, parent string) {
		for i, p := range ps {
			path := joinPath(parent, i)
			m.rows = append(m.rows, dashaRow{period: p, depth: depth, path: path})
			if m.Expanded[path] {
				walk(p.Children, depth+1, path)
			}
		}
	}
	walk(m.Periods, 1, "")
	if m.Cursor >= len(m.rows) {
		m.Cursor = max(len(m.rows)-1, 0)
	}
}

func (m *DashaBrowserModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// Rows returns the number of visible rows.
func (m DashaBrowserModel) Rows() int { return len(m.rows) }

func (m DashaBrowserModel) Init() tea.Cmd {
	return nil
}

func (m DashaBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.rows)-1 {
				m.Cursor++
			}
		case "enter", " ", "right", "l":
			if len(m.rows) == 0 {
				return m, nil
			}
			r := m.rows[m.Cursor]
			if len(r.period.Children) > 0 {
				m.Expanded[r.path] = !m.Expanded[r.path]
				m.rebuild()
			}
		case "left", "h":
			if len(m.rows) == 0 {
				return m, nil
			}
			r := m.rows[m.Cursor]
			if m.Expanded[r.path] {
				delete(m.Expanded, r.path)
				m.rebuild()
			} else if i := strings.LastIndex(r.path, "."); i >= 0 {
				parent := r.path[:i]
				delete(m.Expanded, parent)
				m.rebuild()
				for j, row := range m.rows {
					if row.path == parent {
						m.Cursor = j
					}
				}
			}
		}
		m.scroll()
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
		m.scroll()
	}
	return m, nil
}

func (m DashaBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Vimshottari Dasha"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ expand  ← collapse  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.rows))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.rows[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		fold := "  "
		if len(r.period.Children) > 0 {
			fold = "+ "
			if m.Expanded[r.path] {
				fold = "- "
			}
		}
		lord := strings.Repeat("  ", r.depth-1) + fold + string(r.period.Lord)
		rows = append(rows, []string{
			cursor, lord, levelName(r.depth),
			r.period.Start.Format(dateLayout), r.period.End.Format(dateLayout),
			formatYears(r.period.Duration()),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Lord", "Level", "Start", "End", "Years").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.rows) {
				return lipgloss.NewStyle()
			}
			switch {
			case idx == m.Cursor:
				return listSelectedStyle
			case m.rows[idx].period.Contains(m.Now):
				return listActiveStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.rows))))

	return b.String()
}

// formatYears renders a duration in Vimshottari years.
func formatYears(d time.Duration) string {
	return strconv.FormatFloat(float64(d)/float64(dasha.Year), 'f', 2, 64)
}
