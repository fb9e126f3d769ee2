package widgets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarChartHeights(t *testing.T) {
	st := DefaultChartStyle()
	out := BarChart([]Bar{{"C4", 127}, {"D4", 0}, {"Eb4", 64}}, st)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, st.Height+2)

	// Full bar fills every row; the half-velocity bar fills the bottom half
	barWidth := st.ColWidth - 1
	full := strings.Repeat(string(st.Full), barWidth)
	column := func(line string, i int) string {
		cols := strings.SplitN(line, string(st.Axis), 2)
		require.Len(t, cols, 2)
		cells := []rune(cols[1])
		start := 1 + i*st.ColWidth
		return string(cells[start : start+barWidth])
	}

	var first, third int
	for _, line := range lines[:st.Height] {
		if column(line, 0) == full {
			first++
		}
		if column(line, 2) == full {
			third++
		}
	}
	assert.Equal(t, st.Height, first)
	assert.Equal(t, st.Height/2, third)

	assert.Equal(t, "     C4   D4   Eb4", lines[len(lines)-1])
	assert.Contains(t, lines[0], "127")
}

func TestBarChartEmpty(t *testing.T) {
	out := BarChart(nil, DefaultChartStyle())
	assert.NotContains(t, out, "█")
	assert.Contains(t, out, "0└")
}

func TestBarChartHalfCell(t *testing.T) {
	st := DefaultChartStyle()
	st.Height = 1
	st.Max = 100
	out := BarChart([]Bar{{"A4", 50}}, st)
	assert.Contains(t, out, strings.Repeat(string(st.Half), st.ColWidth-1))
}

func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "Db-1", truncate("Db-1", 4))
	assert.Equal(t, "abcd", truncate("abcdef", 4))
}

func TestRenderKeyHelp(t *testing.T) {
	out := RenderKeyHelp([]KeyBinding{{"enter", "generar"}, {"esc", "salir"}})
	assert.Equal(t, "enter generar · esc salir", out)
}
