package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/stacklayout/pkg/options"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailBoxStyle    = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// =============================================================================
// OptionListModel - Interactive option catalog browser
// =============================================================================

// OptionListModel is the bubbletea model for browsing the option catalog.
// Typing filters options by ID; the selected option's details are shown
// below the list.
type OptionListModel struct {
	All     []options.Option
	Visible []options.Option
	Filter  string
	Cursor  int
	Offset  int
	Height  int
}

// NewOptionListModel creates a browser over opts.
func NewOptionListModel(opts []options.Option) OptionListModel {
	return OptionListModel{
		All:     opts,
		Visible: opts,
		Height:  12,
	}
}

func (m OptionListModel) Init() tea.Cmd {
	return nil
}

func (m OptionListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			m.moveCursor(-1)
		case tea.KeyDown:
			m.moveCursor(1)
		case tea.KeyBackspace:
			if m.Filter != "" {
				m.Filter = m.Filter[:len(m.Filter)-1]
				m.applyFilter()
			}
		case tea.KeyRunes:
			m.Filter += string(msg.Runes)
			m.applyFilter()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, 5)
	}
	return m, nil
}

func (m *OptionListModel) moveCursor(delta int) {
	next := m.Cursor + delta
	if next < 0 || next >= len(m.Visible) {
		return
	}
	m.Cursor = next
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m *OptionListModel) applyFilter() {
	m.Cursor, m.Offset = 0, 0
	if m.Filter == "" {
		m.Visible = m.All
		return
	}
	needle := strings.ToLower(m.Filter)
	m.Visible = nil
	for _, o := range m.All {
		if strings.Contains(strings.ToLower(o.ID), needle) {
			m.Visible = append(m.Visible, o)
		}
	}
}

// Selected returns the option under the cursor.
func (m OptionListModel) Selected() (options.Option, bool) {
	if m.Cursor >= len(m.Visible) {
		return options.Option{}, false
	}
	return m.Visible[m.Cursor], true
}

func (m OptionListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Layout Options"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("type to filter  ↑/↓ navigate  esc quit"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("filter: ") + StyleValue.Render(m.Filter))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Visible))
	for i := m.Offset; i < end; i++ {
		o := m.Visible[i]
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + o.ID))
		} else {
			b.WriteString(listNormalStyle.Render("  " + o.ID))
		}
		b.WriteString("\n")
	}
	if len(m.Visible) == 0 {
		b.WriteString(listDimStyle.Render("  no matching options"))
		b.WriteString("\n")
	}

	if o, ok := m.Selected(); ok {
		b.WriteString("\n")
		b.WriteString(detailBoxStyle.Render(optionDetail(o)))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.Visible)), len(m.Visible))))
	return b.String()
}

func optionDetail(o options.Option) string {
	lines := []string{
		StyleHighlight.Render(o.ID),
		StyleDim.Render("targets: ") + joinTargets(o.Targets),
		StyleDim.Render("default: ") + formatValue(o.Default),
	}
	if o.Description != "" {
		lines = append(lines, "", o.Description)
	}
	return strings.Join(lines, "\n")
}
