package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go-salmo/debug"
	"go-salmo/sequencer"
)

// State of the bridge
type State int

const (
	Idle State = iota
	Loaded
	Playing
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loaded:
		return "loaded"
	case Playing:
		return "playing"
	case Finished:
		return "finished"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ErrNotLoaded is returned by Start when nothing is loaded
var ErrNotLoaded = errors.New("no sequence loaded")

// PlaybackLoadError wraps a MIDI parse failure
type PlaybackLoadError struct {
	Err error
}

func (e *PlaybackLoadError) Error() string {
	return fmt.Sprintf("load midi: %v", e.Err)
}

func (e *PlaybackLoadError) Unwrap() error {
	return e.Err
}

// Voice renders notes. Implemented by the voice package.
type Voice interface {
	Play(note uint8, gain float64) error
	Silence() error
	Close() error
}

// Gain maps MIDI velocity linearly onto voice gain: 100 -> 1.0, 127 -> 1.27
func Gain(velocity uint8) float64 {
	return float64(velocity) / 100
}

// Bridge feeds a sequencer into a voice and reports notes and state changes.
// Only one sequence is alive at a time: Load tears down the previous one.
type Bridge struct {
	voice Voice
	clock sequencer.Clock

	mu     sync.Mutex
	state  State
	seqNo  int
	seq    *sequencer.Sequencer
	cancel context.CancelFunc
	done   chan struct{}

	onNote  func(seqNo int, n sequencer.NoteOn)
	onState func(seqNo int, s State)
}

// New creates a bridge around an initialized voice
func New(v Voice) *Bridge {
	return &Bridge{voice: v}
}

// SetClock overrides playback timing for sequences loaded afterwards
func (b *Bridge) SetClock(c sequencer.Clock) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clock = c
}

// OnNote is called for each played note, after the voice was triggered
func (b *Bridge) OnNote(fn func(seqNo int, n sequencer.NoteOn)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onNote = fn
}

// OnState is called on every state transition
func (b *Bridge) OnState(fn func(seqNo int, s State)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onState = fn
}

// State returns the current state and the sequence number it belongs to
func (b *Bridge) State() (State, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state, b.seqNo
}

// Load tears down any previous sequence and parses data into a new one
func (b *Bridge) Load(data []byte) (int, error) {
	b.teardown()

	seq, err := sequencer.Load(data)

	b.mu.Lock()
	b.seqNo++
	seqNo := b.seqNo
	if err != nil {
		b.seq = nil
		b.mu.Unlock()
		b.setState(seqNo, Idle)
		return seqNo, &PlaybackLoadError{Err: err}
	}
	if b.clock != nil {
		seq.SetClock(b.clock)
	}
	seq.Subscribe(b.handler(seqNo))
	b.seq = seq
	b.mu.Unlock()

	b.setState(seqNo, Loaded)
	return seqNo, nil
}

// Start plays the loaded sequence in the background
func (b *Bridge) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.state != Loaded || b.seq == nil {
		b.mu.Unlock()
		return ErrNotLoaded
	}
	seq, seqNo := b.seq, b.seqNo
	pctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	b.cancel = cancel
	b.done = done
	b.mu.Unlock()

	b.setState(seqNo, Playing)
	debug.Log("bridge", "seq=%d playing notes=%d length=%s", seqNo, seq.NoteCount(), seq.Duration())

	go func() {
		defer close(done)
		if err := seq.Play(pctx); err != nil && !errors.Is(err, context.Canceled) {
			debug.Error("bridge", err, "seq", seqNo)
		}
	}()
	return nil
}

// Wait blocks until the current playback (if any) returns
func (b *Bridge) Wait() {
	b.mu.Lock()
	done := b.done
	b.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Stop tears down the current sequence and returns to Idle
func (b *Bridge) Stop() int {
	b.teardown()

	b.mu.Lock()
	seqNo := b.seqNo
	b.seq = nil
	b.mu.Unlock()

	b.setState(seqNo, Idle)
	return seqNo
}

// Close stops playback and releases the voice
func (b *Bridge) Close() error {
	b.Stop()
	return b.voice.Close()
}

// teardown cancels the running playback, waits for it and silences the voice
func (b *Bridge) teardown() {
	b.mu.Lock()
	cancel, done := b.cancel, b.done
	b.cancel, b.done = nil, nil
	b.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	if err := b.voice.Silence(); err != nil {
		debug.Error("bridge", err)
	}
}

func (b *Bridge) handler(seqNo int) func(sequencer.Event) {
	return func(ev sequencer.Event) {
		switch e := ev.(type) {
		case sequencer.NoteOn:
			if e.Velocity == 0 {
				return
			}
			if err := b.voice.Play(e.Note, Gain(e.Velocity)); err != nil {
				debug.Error("voice", err, "note", e.Name)
			}
			debug.LogEvery(16, "bridge", "seq=%d note %s vel=%d", seqNo, e.Name, e.Velocity)
			b.mu.Lock()
			fn := b.onNote
			b.mu.Unlock()
			if fn != nil {
				fn(seqNo, e)
			}

		case sequencer.EndOfSequence:
			b.setState(seqNo, Finished)
		}
	}
}

// setState records s if seqNo is still current, then notifies
func (b *Bridge) setState(seqNo int, s State) {
	b.mu.Lock()
	if seqNo != b.seqNo {
		b.mu.Unlock()
		return
	}
	b.state = s
	fn := b.onState
	b.mu.Unlock()

	debug.Log("bridge", "seq=%d -> %s", seqNo, s)
	if fn != nil {
		fn(seqNo, s)
	}
}
