package sequencer

import (
	"bytes"
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Step is one note of a composed melody
type Step struct {
	Note     uint8
	Velocity uint8
	Ticks    uint32 // length, in ticks of Resolution
}

// Resolution is the tick resolution of composed files
const Resolution = smf.MetricTicks(960)

// Compose writes a single-track Standard MIDI File that plays steps one
// after another on channel 0 with the given instrument program.
func Compose(bpm float64, program uint8, steps ...Step) ([]byte, error) {
	sm := smf.New()
	sm.TimeFormat = Resolution

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(bpm))
	tr.Add(0, midi.ProgramChange(0, program))
	for _, s := range steps {
		tr.Add(0, midi.NoteOn(0, s.Note, s.Velocity))
		tr.Add(s.Ticks, midi.NoteOff(0, s.Note))
	}
	tr.Close(0)

	if err := sm.Add(tr); err != nil {
		return nil, fmt.Errorf("add track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := sm.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write smf: %w", err)
	}
	return buf.Bytes(), nil
}
