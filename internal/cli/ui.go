package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/chartcore/pkg/snapshot"
)

// =============================================================================
// Styles
// =============================================================================

// ANSI 256 palette.
var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorFail   = lipgloss.Color("167")
	colorCmd    = lipgloss.Color("75")
	colorValue  = lipgloss.Color("255")
	colorLabel  = lipgloss.Color("245")
	colorMuted  = lipgloss.Color("240")
)

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleDim     = lipgloss.NewStyle().Foreground(colorMuted)
	StyleValue   = lipgloss.NewStyle().Foreground(colorValue)
	StyleSuccess = lipgloss.NewStyle().Foreground(colorOK)

	styleLabel       = lipgloss.NewStyle().Foreground(colorLabel).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorCmd)
	styleTableHeader = lipgloss.NewStyle().Foreground(colorLabel).Bold(true)
	styleTableBorder = lipgloss.NewStyle().Foreground(colorMuted)
	styleCell        = lipgloss.NewStyle().Padding(0, 1)
)

// Status markers, each rendered in its own color.
var (
	markSuccess = StyleSuccess.Render("✓")
	markError   = lipgloss.NewStyle().Foreground(colorFail).Render("✗")
	markInfo    = lipgloss.NewStyle().Foreground(colorLabel).Render("›")
	markArrow   = StyleDim.Render("→")
)

const (
	iconCached = "cached"
	iconFresh  = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printMarked(mark, format string, args ...any) {
	fmt.Println(mark + " " + fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { printMarked(markSuccess, format, args...) }
func printError(format string, args ...any)   { printMarked(markError, format, args...) }
func printInfo(format string, args ...any)    { printMarked(markInfo, format, args...) }

// printDetail prints an indented, muted line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Println("  " + markArrow + " " + StyleValue.Render(path))
}

func keyValue(key, value string) string {
	return styleLabel.Render(key) + " " + StyleValue.Render(value)
}

func printKeyValue(key, value string) {
	fmt.Println(keyValue(key, value))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints snapshot statistics on a single line.
func printStats(seriesCount, datumCount int, cached bool) {
	fmt.Println(statsLine(seriesCount, datumCount, cached))
}

func statsLine(seriesCount, datumCount int, cached bool) string {
	status := StyleDim.Render(iconFresh)
	if cached {
		status = StyleSuccess.Render(iconCached)
	}
	sep := StyleDim.Render(" · ")
	return "  " + StyleDim.Render(fmt.Sprintf("%d series", seriesCount)) +
		sep + StyleDim.Render(fmt.Sprintf("%d datums", datumCount)) +
		sep + status
}

// =============================================================================
// Snapshot Tables
// =============================================================================

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			return styleCell
		})
}

// seriesRows summarizes each series of doc.
func seriesRows(doc snapshot.Document) [][]string {
	rows := make([][]string, 0, len(doc.Series))
	for _, s := range doc.Series {
		defined := 0
		for _, d := range s.Datums {
			if d.Defined {
				defined++
			}
		}
		rows = append(rows, []string{
			strconv.Itoa(s.Index),
			s.Label,
			s.Type,
			fmt.Sprintf("%d/%d", defined, len(s.Datums)),
			s.PrimaryAxisID + " × " + s.SecondaryAxisID,
			s.Style.Color,
		})
	}
	return rows
}

func printSeriesTable(doc snapshot.Document) {
	if doc.Empty || len(doc.Series) == 0 {
		printInfo("No data")
		return
	}
	rows := seriesRows(doc)
	t := newTable("#", "Series", "Type", "Defined", "Axes", "Color").Rows(rows...)
	// Tint the color column with the series' own color.
	t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == -1:
			return styleTableHeader
		case col == 5 && row < len(rows) && rows[row][5] != "":
			return styleCell.Foreground(lipgloss.Color(rows[row][5]))
		}
		return styleCell
	})
	fmt.Println(t.Render())
}

// axisRows summarizes each axis of doc, primary axes first.
func axisRows(doc snapshot.Document) [][]string {
	axes := append(append([]snapshot.Axis{}, doc.PrimaryAxes...), doc.SecondaryAxes...)
	rows := make([][]string, 0, len(axes))
	for _, a := range axes {
		role := "secondary"
		if a.Primary {
			role = "primary"
		}
		if a.Stacked {
			role += ", stacked"
		}
		rows = append(rows, []string{
			a.ID,
			role,
			string(a.Type),
			string(a.Position),
			formatDomain(a),
			strconv.Itoa(len(a.Ticks)),
		})
	}
	return rows
}

func printAxesTable(doc snapshot.Document) {
	rows := axisRows(doc)
	if len(rows) == 0 {
		return
	}
	fmt.Println(newTable("Axis", "Role", "Type", "Position", "Domain", "Ticks").Rows(rows...).Render())
}

func formatDomain(a snapshot.Axis) string {
	if len(a.Domain.Values) > 0 {
		return fmt.Sprintf("%d values", len(a.Domain.Values))
	}
	return fmt.Sprintf("%s … %s", formatValue(a.Domain.Min), formatValue(a.Domain.Max))
}

// formatValue renders a snapshot value compactly.
func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "—"
	case float64:
		return strconv.FormatFloat(v, 'g', 6, 64)
	default:
		return fmt.Sprint(v)
	}
}

// =============================================================================
// Focus Display
// =============================================================================

// focusLines describes the pointer-driven state of doc.
func focusLines(doc snapshot.Document) []string {
	var lines []string
	add := func(key, value string) {
		lines = append(lines, keyValue(key, value))
	}

	p := doc.Pointer
	add("pointer", fmt.Sprintf("(%s, %s)", formatValue(p.X), formatValue(p.Y)))

	if !doc.Hovered.Active || len(doc.Hovered.Datums) == 0 {
		add("hovered", "none")
	} else {
		names := make([]string, 0, len(doc.Hovered.Datums))
		for _, ref := range doc.Hovered.Datums {
			names = append(names, refLabel(doc, ref))
		}
		add("hovered", strings.Join(names, ", "))
	}

	if t := doc.Tooltip; t != nil && t.Show && t.Focused != nil {
		anchor := fmt.Sprintf("(%s, %s)", formatValue(t.Focused.X), formatValue(t.Focused.Y))
		if t.Datum != nil {
			anchor += " on " + refLabel(doc, *t.Datum)
		}
		add("tooltip", anchor)
	} else {
		add("tooltip", "hidden")
	}

	for _, c := range []struct {
		name   string
		cursor *snapshot.Cursor
	}{{"primary", doc.Cursors.Primary}, {"secondary", doc.Cursors.Secondary}} {
		if c.cursor == nil || !c.cursor.Show {
			add(c.name, "hidden")
			continue
		}
		add(c.name, fmt.Sprintf("%s = %s at %s", c.cursor.Axis, formatValue(c.cursor.Value), formatValue(c.cursor.Position)))
	}

	if sel := doc.Selection; sel != nil {
		add("selection", fmt.Sprintf("%s … %s", formatValue(sel.Start), formatValue(sel.End)))
	}
	return lines
}

func printFocus(doc snapshot.Document) {
	fmt.Println(StyleTitle.Render("Focus"))
	for _, line := range focusLines(doc) {
		fmt.Println(line)
	}
}

// refLabel names a datum as "series[index] (primary, secondary)".
func refLabel(doc snapshot.Document, ref snapshot.Ref) string {
	if ref.Series < 0 || ref.Series >= len(doc.Series) {
		return "?"
	}
	s := doc.Series[ref.Series]
	if ref.Datum < 0 || ref.Datum >= len(s.Datums) {
		return s.Label + "[?]"
	}
	d := s.Datums[ref.Datum]
	return fmt.Sprintf("%s[%d] (%s, %s)", s.Label, ref.Datum, formatValue(d.Primary), formatValue(d.Secondary))
}
