// Package radarview shows the radar chart as braille cells with a legend.
package radarview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/selfrpg/internal/constants"
	"github.com/julianstephens/selfrpg/internal/logger"
	"github.com/julianstephens/selfrpg/internal/models"
	"github.com/julianstephens/selfrpg/internal/radar"
)

const (
	legendWidth = 22
	minCols     = 10
	minRows     = 5
)

var (
	gridStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	dataStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Italic(true)
	legendStyle = lipgloss.NewStyle().PaddingLeft(2)
)

// Model caches the last rendered frame. Call SetData or SetSize to redraw.
type Model struct {
	attrs  []models.Attribute
	width  int
	height int
	frame  string
}

func New(attrs []models.Attribute, width, height int) Model {
	m := Model{attrs: attrs, width: width, height: height}
	m.render()
	return m
}

func (m *Model) SetData(attrs []models.Attribute) {
	m.attrs = attrs
	m.render()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.render()
}

// Dimensions returns the braille grid size used for the current frame.
func (m Model) Dimensions() (cols, rows int) {
	cols = m.width - legendWidth
	rows = m.height
	// Terminal cells are about twice as tall as wide; keep the chart square.
	if cols > rows*2 {
		cols = rows * 2
	}
	if cols < minCols {
		cols = minCols
	}
	if rows < minRows {
		rows = minRows
	}
	return cols, rows
}

func (m *Model) render() {
	cols, rows := m.Dimensions()
	b, err := radar.RenderBraille(m.attrs, cols, rows)
	if err != nil {
		logger.Error("Failed to render radar", "error", err)
		m.frame = mutedStyle.Render("radar unavailable: " + err.Error())
		return
	}
	if b.Chart.Placeholder {
		m.frame = lipgloss.Place(max(m.width, 1), max(m.height, 1), lipgloss.Center, lipgloss.Center,
			mutedStyle.Render(constants.RadarPlaceholder))
		return
	}

	chart := b.Render(func(kind radar.CellKind, s string) string {
		switch kind {
		case radar.CellGrid:
			return gridStyle.Render(s)
		case radar.CellData:
			return dataStyle.Render(s)
		default:
			return s
		}
	})

	var legend strings.Builder
	for i, a := range radar.Axes(m.attrs) {
		fmt.Fprintf(&legend, "%s %s  Lv.%d\n", a.IconOrDefault(),
			radar.Truncate(a.Name, constants.RadarNameMaxLen), b.Chart.Levels[i])
	}
	m.frame = lipgloss.JoinHorizontal(lipgloss.Center, chart, legendStyle.Render(strings.TrimRight(legend.String(), "\n")))
}

func (m Model) View() string {
	return m.frame
}
