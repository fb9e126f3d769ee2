package sequencer

// Event is emitted by a Sequencer while it plays. It is one of NoteOn or
// EndOfSequence.
type Event interface {
	isEvent()
}

// NoteOn is a note-on message. Velocity 0 is passed through unchanged;
// listeners decide whether to treat it as a note-off.
type NoteOn struct {
	Note     uint8
	Name     string // scientific pitch, C4 = 60
	Velocity uint8
	Channel  uint8
}

// EndOfSequence is the last event of a complete playback
type EndOfSequence struct{}

func (NoteOn) isEvent()        {}
func (EndOfSequence) isEvent() {}
