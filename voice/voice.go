package voice

import (
	"context"
	"fmt"
	"time"

	"go-salmo/debug"
	"go-salmo/instrument"
)

// Voice renders notes at "now" with a linear gain
type Voice interface {
	Name() string
	Play(note uint8, gain float64) error
	Silence() error
	Close() error
}

// Backend selects a Voice implementation
type Backend string

const (
	BackendMIDI  Backend = "midi"  // external synth on a MIDI output port
	BackendSynth Backend = "synth" // built-in tone generator on the speaker
	BackendNull  Backend = "null"  // records triggers, makes no sound
)

// ParseBackend validates a backend name
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(s); b {
	case BackendMIDI, BackendSynth, BackendNull:
		return b, nil
	}
	return "", fmt.Errorf("unknown voice backend %q", s)
}

// DefaultNoteLength is how long a triggered note sounds
const DefaultNoteLength = 600 * time.Millisecond

// Options configure Open
type Options struct {
	Backend    Backend
	PortName   string // MIDI output port, substring match; first port if empty
	Soundfont  string // e.g. acoustic_guitar_nylon
	NoteLength time.Duration
}

// InitError is returned when the instrument voice could not be set up
type InitError struct {
	Backend Backend
	Err     error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("init %s voice: %v", e.Backend, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// Open initializes the configured voice. It may block on driver setup, so
// the UI calls it from a command.
func Open(ctx context.Context, opts Options) (Voice, error) {
	if opts.Soundfont == "" {
		opts.Soundfont = instrument.DefaultSoundfont
	}
	if opts.NoteLength <= 0 {
		opts.NoteLength = DefaultNoteLength
	}

	program, ok := instrument.ProgramFor(opts.Soundfont)
	if !ok {
		return nil, &InitError{Backend: opts.Backend, Err: fmt.Errorf("unknown soundfont %q", opts.Soundfont)}
	}

	var (
		v   Voice
		err error
	)
	switch opts.Backend {
	case BackendMIDI:
		v, err = OpenMIDI(ctx, opts.PortName, program, opts.NoteLength)
	case BackendSynth:
		v, err = OpenSynth(program, opts.NoteLength)
	case BackendNull:
		v = NewRecorder()
	default:
		err = fmt.Errorf("unknown backend %q", opts.Backend)
	}
	if err != nil {
		return nil, &InitError{Backend: opts.Backend, Err: err}
	}

	debug.Log("voice", "ready %s soundfont=%s program=%d", v.Name(), opts.Soundfont, program)
	return v, nil
}
