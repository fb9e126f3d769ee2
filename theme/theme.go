package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	Bar      rune // █ full bar cell
	BarTop   rune // ▄ half cell at the top of a bar
	Axis     rune // │ y axis
	Grid     rune // ┈ dashed grid line
	Cursor   rune // ▏ text cursor
	Selected rune // ● chosen instrument
	Option   rune // ○ other instruments
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Bar:      '█',
			BarTop:   '▄',
			Axis:     '│',
			Grid:     '┈',
			Cursor:   '▏',
			Selected: '●',
			Option:   '○',
		},
	}
}

// Role is a UI color slot. A palette may name its colors after roles;
// otherwise the role falls back to a position along the palette.
type Role struct {
	Name string
	Pos  float64
}

var (
	RoleBG      = Role{"night", 0.0}
	RoleAccent  = Role{"bg", 0.2}
	RoleMuted   = Role{"sky", 0.4}
	RoleFG      = Role{"secondary", 0.6}
	RoleBar     = Role{"bar", 0.8}
	RoleWarning = Role{"gold", 1.0}
)

// Resolve returns the color for r
func (t *Theme) Resolve(r Role) lipgloss.Color {
	if c, ok := t.Palette.Named(r.Name); ok {
		return hex(c)
	}
	return hex(t.Palette.Lookup(r.Pos))
}

func (t *Theme) BG() lipgloss.Color      { return t.Resolve(RoleBG) }
func (t *Theme) FG() lipgloss.Color      { return t.Resolve(RoleFG) }
func (t *Theme) Accent() lipgloss.Color  { return t.Resolve(RoleAccent) }
func (t *Theme) Muted() lipgloss.Color   { return t.Resolve(RoleMuted) }
func (t *Theme) Bar() lipgloss.Color     { return t.Resolve(RoleBar) }
func (t *Theme) Warning() lipgloss.Color { return t.Resolve(RoleWarning) }

// Velocity colors a bar: soft notes toward the accent, loud toward gold
func (t *Theme) Velocity(v uint8) lipgloss.Color {
	norm := float64(v) / 127
	return t.Color(RoleAccent.Pos + norm*(RoleWarning.Pos-RoleAccent.Pos))
}

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return hex(t.Palette.Lookup(norm))
}

// Styles are the text styles of the main screen
type Styles struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Dim      lipgloss.Style
	Warn     lipgloss.Style
	Selected lipgloss.Style
	Input    lipgloss.Style
}

func (t *Theme) Styles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(t.FG()),
		Label:    lipgloss.NewStyle().Foreground(t.Accent()),
		Dim:      lipgloss.NewStyle().Foreground(t.Muted()),
		Warn:     lipgloss.NewStyle().Foreground(t.Warning()),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(t.Warning()),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Accent()).
			Padding(0, 1),
	}
}

func hex(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
