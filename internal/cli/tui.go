package cli

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/chartcore/pkg/chart"
	"github.com/matzehuels/chartcore/pkg/core/plot"
	"github.com/matzehuels/chartcore/pkg/errors"
	"github.com/matzehuels/chartcore/pkg/pipeline"
	"github.com/matzehuels/chartcore/pkg/snapshot"
)

const (
	exploreStep     = 5.0  // pointer step in pixels
	exploreBigStep  = 25.0 // pointer step with shift held
	exploreMapWidth = 48   // columns of the pointer map
)

var (
	exploreHintStyle = lipgloss.NewStyle().Foreground(colorMuted)
	exploreErrStyle  = lipgloss.NewStyle().Foreground(colorFail)
	exploreMapStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorMuted)
)

// =============================================================================
// ExploreModel - Interactive pointer simulator
// =============================================================================

// ExploreModel is the bubbletea model that moves a pointer over a chart and
// shows the resolved focus state after every move.
type ExploreModel struct {
	ctx    context.Context
	runner *pipeline.Runner
	chart  *chart.Chart
	radius float64

	Pointer plot.Pointer
	Doc     snapshot.Document
	Err     error

	// dragFrom is the x where the current drag started.
	dragFrom *float64
}

// NewExploreModel creates a model over c with the pointer at the center of
// the grid.
func NewExploreModel(ctx context.Context, runner *pipeline.Runner, c *chart.Chart, radius float64) (ExploreModel, error) {
	snap, err := c.Snapshot()
	if err != nil {
		return ExploreModel{}, err
	}
	m := ExploreModel{
		ctx:     ctx,
		runner:  runner,
		chart:   c,
		radius:  radius,
		Doc:     snapshot.Export(snap),
		Pointer: plot.Pointer{X: snap.Grid.Width / 2, Y: snap.Grid.Height / 2, Active: true},
	}
	m.refresh()
	return m, nil
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.Pointer.Released = false
	m.Pointer.SourceX = nil
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "h":
		m.move(-exploreStep, 0)
	case "right", "l":
		m.move(exploreStep, 0)
	case "up", "k":
		m.move(0, -exploreStep)
	case "down", "j":
		m.move(0, exploreStep)
	case "shift+left", "H":
		m.move(-exploreBigStep, 0)
	case "shift+right", "L":
		m.move(exploreBigStep, 0)
	case "shift+up", "K":
		m.move(0, -exploreBigStep)
	case "shift+down", "J":
		m.move(0, exploreBigStep)
	case " ", "space":
		m.Pointer.Active = !m.Pointer.Active
		m.dragFrom = nil
	case "enter":
		if m.dragFrom == nil {
			x := m.Pointer.X
			m.dragFrom = &x
		} else {
			m.Pointer.Released = true
			m.Pointer.SourceX = m.dragFrom
			m.dragFrom = nil
		}
	default:
		return m, nil
	}
	m.refresh()
	return m, nil
}

// move shifts the pointer and keeps it on the grid.
func (m *ExploreModel) move(dx, dy float64) {
	g := m.Doc.Grid
	m.Pointer.Active = true
	m.Pointer.X = math.Max(0, math.Min(g.Width, m.Pointer.X+dx))
	m.Pointer.Y = math.Max(0, math.Min(g.Height, m.Pointer.Y+dy))
}

// refresh hovers the chart at the current pointer.
func (m *ExploreModel) refresh() {
	snap, err := m.runner.Focus(m.ctx, m.chart, m.Pointer, m.radius)
	if err != nil {
		m.Err = err
		return
	}
	m.Err = nil
	m.Doc = snapshot.Export(snap)
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Explore"))
	b.WriteString("\n")
	b.WriteString(exploreHintStyle.Render("←↑↓→ move  shift faster  space toggle  ⏎ drag  q quit"))
	b.WriteString("\n\n")

	b.WriteString(exploreMapStyle.Render(m.pointerMap()))
	b.WriteString("\n")

	if m.Err != nil {
		b.WriteString(markError + " " + exploreErrStyle.Render(errors.UserMessage(m.Err)))
		b.WriteString("\n")
		return b.String()
	}
	for _, line := range focusLines(m.Doc) {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if m.dragFrom != nil {
		b.WriteString(exploreHintStyle.Render(fmt.Sprintf("dragging from x=%s", formatValue(*m.dragFrom))))
		b.WriteString("\n")
	}
	return b.String()
}

// pointerMap draws the canvas scaled to a character grid with the grid area,
// the datum focus points and the pointer. Focus points and the pointer are
// grid-relative.
func (m ExploreModel) pointerMap() string {
	w, h := m.Doc.Width, m.Doc.Height
	if w <= 0 || h <= 0 {
		return ""
	}
	cols := exploreMapWidth
	rows := int(math.Max(4, math.Round(float64(cols)*h/w/2)))
	cell := func(x, y float64) (int, int) {
		c := int(math.Floor(x / w * float64(cols)))
		r := int(math.Floor(y / h * float64(rows)))
		return min(max(c, 0), cols-1), min(max(r, 0), rows-1)
	}

	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", cols))
	}
	g := m.Doc.Grid
	c0, r0 := cell(g.X, g.Y)
	c1, r1 := cell(g.X+g.Width, g.Y+g.Height)
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			grid[r][c] = '·'
		}
	}
	for _, s := range m.Doc.Series {
		for _, d := range s.Datums {
			if !d.Defined {
				continue
			}
			c, r := cell(g.X+d.Focus.X, g.Y+d.Focus.Y)
			grid[r][c] = 'o'
		}
	}
	for _, ref := range m.Doc.Hovered.Datums {
		d := m.Doc.Series[ref.Series].Datums[ref.Datum]
		c, r := cell(g.X+d.Focus.X, g.Y+d.Focus.Y)
		grid[r][c] = '●'
	}
	if m.Pointer.Active {
		c, r := cell(g.X+m.Pointer.X, g.Y+m.Pointer.Y)
		grid[r][c] = '+'
	}

	lines := make([]string, rows)
	for r := range grid {
		lines[r] = string(grid[r])
	}
	return strings.Join(lines, "\n")
}
