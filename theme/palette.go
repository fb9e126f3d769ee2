package theme

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

//go:embed palettes/*.gpl
var palettes embed.FS

type RGB [3]uint8

// Palette is an ordered GIMP palette. Names holds the optional color name
// of each entry ("" when the line had none).
type Palette struct {
	Name   string
	Colors []RGB
	Names  []string
}

// DefaultPalette is the built-in blue palette
func DefaultPalette() *Palette {
	f, err := palettes.Open("palettes/salmo.gpl")
	if err != nil {
		panic(fmt.Sprintf("embedded palette: %v", err))
	}
	defer f.Close()

	p, err := ParseGPL(f, "salmo.gpl")
	if err != nil {
		panic(fmt.Sprintf("embedded palette: %v", err))
	}
	return p
}

// LoadGPL reads a GIMP palette file
func LoadGPL(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseGPL(f, path)
}

// ParseGPL parses GIMP palette text. Header lines are optional; a color
// line is "R G B [name]" with components in 0..255.
func ParseGPL(r io.Reader, source string) (*Palette, error) {
	p := &Palette{}
	scanner := bufio.NewScanner(r)

	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "", line[0] == '#', line == "GIMP Palette":
			continue
		case strings.HasPrefix(line, "Name:"):
			p.Name = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
			continue
		case strings.HasPrefix(line, "Columns:"):
			continue
		}

		c, name, err := parseColorLine(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", source, lineNo, err)
		}
		p.Colors = append(p.Colors, c)
		p.Names = append(p.Names, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(p.Colors) == 0 {
		return nil, fmt.Errorf("no colors found in palette %s", source)
	}
	return p, nil
}

func parseColorLine(line string) (RGB, string, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return RGB{}, "", fmt.Errorf("want R G B, got %q", line)
	}

	var c RGB
	for i := range c {
		v, err := strconv.ParseUint(fields[i], 10, 8)
		if err != nil {
			return RGB{}, "", fmt.Errorf("component %q: %w", fields[i], err)
		}
		c[i] = uint8(v)
	}
	return c, strings.Join(fields[3:], " "), nil
}

// Named returns the first color whose name matches, ignoring case
func (p *Palette) Named(name string) (RGB, bool) {
	for i, n := range p.Names {
		if strings.EqualFold(n, name) {
			return p.Colors[i], true
		}
	}
	return RGB{}, false
}

// Lookup blends the two colors around norm (0..1), clamping outside
func (p *Palette) Lookup(norm float64) RGB {
	last := len(p.Colors) - 1
	switch {
	case norm <= 0 || last == 0:
		return p.Colors[0]
	case norm >= 1:
		return p.Colors[last]
	}

	pos := norm * float64(last)
	i := int(pos)
	return blend(p.Colors[i], p.Colors[i+1], pos-float64(i))
}

func blend(a, b RGB, t float64) RGB {
	var out RGB
	for i := range out {
		out[i] = uint8(float64(a[i]) + (float64(b[i])-float64(a[i]))*t)
	}
	return out
}
