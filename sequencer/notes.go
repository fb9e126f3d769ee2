package sequencer

import "fmt"

// Flats, like the browser player the payloads were written for
var noteNames = [12]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

// NoteName returns the scientific pitch name of a MIDI note (60 -> C4)
func NoteName(note uint8) string {
	return fmt.Sprintf("%s%d", noteNames[note%12], int(note)/12-1)
}
