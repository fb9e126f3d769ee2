package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Bar is one column of a chart
type Bar struct {
	Label string
	Value uint8
}

// ChartStyle controls BarChart rendering
type ChartStyle struct {
	Height   int // rows of bars
	Max      int // value of a full-height bar
	ColWidth int

	Full rune
	Half rune
	Axis rune
	Grid rune

	BarColor  func(v uint8) lipgloss.Color // nil: no color
	AxisColor lipgloss.Color
}

// DefaultChartStyle fits MIDI velocities in 8 rows
func DefaultChartStyle() ChartStyle {
	return ChartStyle{
		Height:   8,
		Max:      127,
		ColWidth: 5,
		Full:     '█',
		Half:     '▄',
		Axis:     '│',
		Grid:     '┈',
	}
}

// BarChart renders vertical bars with a y axis and labels under each bar
func BarChart(bars []Bar, st ChartStyle) string {
	if st.Height <= 0 {
		st.Height = 1
	}
	if st.Max <= 0 {
		st.Max = 1
	}
	if st.ColWidth < 2 {
		st.ColWidth = 2
	}

	axisStyle := lipgloss.NewStyle().Foreground(st.AxisColor)
	barWidth := st.ColWidth - 1

	// Height of each bar in half rows
	halves := make([]int, len(bars))
	for i, b := range bars {
		halves[i] = (int(b.Value)*st.Height*2 + st.Max/2) / st.Max
	}

	var lines []string
	for row := 0; row < st.Height; row++ {
		level := st.Height - row // 1-based from the bottom

		var line strings.Builder
		line.WriteString(axisStyle.Render(fmt.Sprintf("%3s%c", yLabel(row, st), st.Axis)))

		for i, b := range bars {
			var cell string
			switch {
			case halves[i] >= level*2:
				cell = strings.Repeat(string(st.Full), barWidth)
			case halves[i] == level*2-1:
				cell = strings.Repeat(string(st.Half), barWidth)
			case row == 0 || row == st.Height/2:
				cell = axisStyle.Render(strings.Repeat(string(st.Grid), barWidth))
			default:
				cell = strings.Repeat(" ", barWidth)
			}
			if st.BarColor != nil && halves[i] >= level*2-1 {
				cell = lipgloss.NewStyle().Foreground(st.BarColor(b.Value)).Render(cell)
			}
			line.WriteString(" ")
			line.WriteString(cell)
		}
		lines = append(lines, line.String())
	}

	// x axis and labels
	lines = append(lines, axisStyle.Render(fmt.Sprintf("%3d└%s", 0, strings.Repeat("─", len(bars)*st.ColWidth))))
	var labels strings.Builder
	labels.WriteString("    ")
	for _, b := range bars {
		labels.WriteString(" ")
		labels.WriteString(fmt.Sprintf("%-*s", barWidth, truncate(b.Label, barWidth)))
	}
	lines = append(lines, strings.TrimRight(labels.String(), " "))

	return strings.Join(lines, "\n")
}

func yLabel(row int, st ChartStyle) string {
	switch row {
	case 0:
		return fmt.Sprint(st.Max)
	case st.Height / 2:
		return fmt.Sprint(st.Max / 2)
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
