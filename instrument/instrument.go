package instrument

import (
	"fmt"
	"strings"
)

// Instrument is the selector value sent to the generation service
type Instrument string

const (
	Piano   Instrument = "Piano"
	Guitar  Instrument = "Guitar"
	Violin  Instrument = "Violin"
	Flute   Instrument = "Flute"
	Trumpet Instrument = "Trumpet"
	Organ   Instrument = "Organ"
)

// Default is the selector's initial value
const Default = Piano

// All lists the selector options in display order
var All = []Instrument{Piano, Guitar, Violin, Flute, Trumpet, Organ}

// Valid reports whether i is one of the selector options
func (i Instrument) Valid() bool {
	for _, v := range All {
		if v == i {
			return true
		}
	}
	return false
}

// Next returns the option after i, wrapping around
func (i Instrument) Next() Instrument {
	return All[(i.index()+1)%len(All)]
}

// Prev returns the option before i, wrapping around
func (i Instrument) Prev() Instrument {
	return All[(i.index()+len(All)-1)%len(All)]
}

func (i Instrument) index() int {
	for n, v := range All {
		if v == i {
			return n
		}
	}
	return 0
}

// Parse matches a selector name case-insensitively
func Parse(s string) (Instrument, error) {
	for _, v := range All {
		if strings.EqualFold(string(v), strings.TrimSpace(s)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown instrument %q", s)
}

// Program is a General MIDI program number (0-127)
type Program uint8

// Soundfont names of the General MIDI programs the voices know about
var programs = map[string]Program{
	"acoustic_grand_piano":  0,
	"church_organ":          19,
	"acoustic_guitar_nylon": 24,
	"violin":                40,
	"trumpet":               56,
	"flute":                 73,
}

// DefaultSoundfont is the voice loaded at startup
const DefaultSoundfont = "acoustic_guitar_nylon"

// Soundfont returns the soundfont name for a selector option
func (i Instrument) Soundfont() string {
	switch i {
	case Piano:
		return "acoustic_grand_piano"
	case Guitar:
		return "acoustic_guitar_nylon"
	case Violin:
		return "violin"
	case Flute:
		return "flute"
	case Trumpet:
		return "trumpet"
	case Organ:
		return "church_organ"
	}
	return DefaultSoundfont
}

// ProgramFor looks up the General MIDI program for a soundfont name
func ProgramFor(soundfont string) (Program, bool) {
	p, ok := programs[soundfont]
	return p, ok
}
