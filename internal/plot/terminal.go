package plot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/manuelbieri/shelegia-motta-2021/internal/models"
)

const (
	termColumns = 56
	termRows    = 22
)

// cellColors assigns ANSI colors to region labels in first-seen order.
var cellColors = []lipgloss.Color{"4", "2", "1", "5", "3", "6", "8", "13"}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	legendStyle = lipgloss.NewStyle().Faint(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// RenderTerminal draws the figure as a colored character grid with a legend.
// The grid samples the classifier of the figure's regions cell by cell, so
// curved or split regions come out right regardless of polygon shapes.
func RenderTerminal(fig Figure) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fig.Title))
	sb.WriteString("\n\n")

	colors := map[string]lipgloss.Color{}
	order := []string{}
	pick := func(label string) lipgloss.Color {
		if c, ok := colors[label]; ok {
			return c
		}
		c := cellColors[len(order)%len(cellColors)]
		colors[label] = c
		order = append(order, label)
		return c
	}

	// Top to bottom so F grows upward on screen
	for row := termRows - 1; row >= 0; row-- {
		f := fig.FMax * (float64(row) + 0.5) / termRows
		for col := 0; col < termColumns; col++ {
			a := fig.AMax * (float64(col) + 0.5) / termColumns
			label := labelAt(fig, a, f)
			style := lipgloss.NewStyle().Foreground(pick(label))
			sb.WriteString(style.Render("█"))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	for _, label := range order {
		swatch := lipgloss.NewStyle().Foreground(colors[label]).Render("██")
		sb.WriteString(fmt.Sprintf("%s %s\n", swatch, legendStyle.Render(label)))
	}
	return sb.String()
}

// labelAt finds the region containing a point. Regions are rectangles, so a
// bounds check suffices.
func labelAt(fig Figure, a, f float64) string {
	for _, region := range fig.Regions {
		minA, maxA := region.Points[0].A, region.Points[0].A
		minF, maxF := region.Points[0].F, region.Points[0].F
		for _, p := range region.Points[1:] {
			if p.A < minA {
				minA = p.A
			}
			if p.A > maxA {
				maxA = p.A
			}
			if p.F < minF {
				minF = p.F
			}
			if p.F > maxF {
				maxF = p.F
			}
		}
		if a >= minA && a <= maxA && f >= minF && f <= maxF {
			return region.Label
		}
	}
	return ""
}

// ThresholdTable renders both threshold families as a bordered table.
func ThresholdTable(m models.Model) string {
	th := m.Thresholds()

	t := newTable("threshold", "value")
	for _, key := range sortedKeys(th.Assets) {
		t.Row(key, formatValue(th.Assets[key]))
	}
	for _, key := range sortedKeys(th.CopyingCosts) {
		t.Row(key, formatValue(th.CopyingCosts[key]))
	}
	return t.Render()
}

// PayoffTable renders the surplus split per market configuration.
func PayoffTable(m models.Model) string {
	payoffs := m.Payoffs()

	t := newTable("market", "pi(I)", "pi(E)", "CS", "W")
	for _, config := range models.MarketConfigs {
		p := payoffs[config]
		t.Row(string(config),
			formatValue(p.PiI), formatValue(p.PiE),
			formatValue(p.CS), formatValue(p.W))
	}
	return t.Render()
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

// formatValue renders a payoff or threshold with stable rounding.
func formatValue(v float64) string {
	return decimal.NewFromFloat(v).Round(4).String()
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
