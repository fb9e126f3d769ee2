package sequencer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"go-salmo/debug"
)

// DefaultBPM applies until the first tempo meta event
const DefaultBPM = 120.0

// ErrAlreadyPlayed is returned when Play is called twice on one Sequencer
var ErrAlreadyPlayed = errors.New("sequencer already played")

type timedEvent struct {
	at time.Duration
	ev Event
}

// Sequencer holds a parsed MIDI file as a single time-ordered event list.
// It plays exactly once.
type Sequencer struct {
	events []timedEvent
	length time.Duration
	notes  int

	mu     sync.Mutex
	subs   []func(Event)
	clock  Clock
	played bool
}

// Load parses a Standard MIDI File
func Load(data []byte) (*Sequencer, error) {
	if len(data) == 0 {
		return nil, errors.New("empty midi data")
	}

	sm, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("read smf: %w", err)
	}

	ticks, ok := sm.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("unsupported time format %v", sm.TimeFormat)
	}

	s := &Sequencer{clock: realClock{}}
	s.build(sm.Tracks, ticks)

	debug.Log("seq", "loaded tracks=%d notes=%d length=%s", len(sm.Tracks), s.notes, s.length)
	return s, nil
}

// build merges all tracks by absolute tick and converts ticks to time
func (s *Sequencer) build(tracks []smf.Track, ticks smf.MetricTicks) {
	type rawEvent struct {
		abs   int64
		track int
		msg   smf.Message
	}

	var raw []rawEvent
	for tn, tr := range tracks {
		var abs int64
		for _, ev := range tr {
			abs += int64(ev.Delta)
			raw = append(raw, rawEvent{abs: abs, track: tn, msg: ev.Message})
		}
	}

	// Stable: within one tick, track order then file order (tempo track first)
	sort.SliceStable(raw, func(i, j int) bool {
		if raw[i].abs != raw[j].abs {
			return raw[i].abs < raw[j].abs
		}
		return raw[i].track < raw[j].track
	})

	bpm := DefaultBPM
	var prev int64
	var at time.Duration

	for _, r := range raw {
		if r.abs > prev {
			at += ticks.Duration(bpm, uint32(r.abs-prev))
			prev = r.abs
		}

		var tempo float64
		if r.msg.GetMetaTempo(&tempo) {
			if tempo > 0 {
				bpm = tempo
			}
			continue
		}

		var ch, key, vel uint8
		if midi.Message(r.msg).GetNoteOn(&ch, &key, &vel) {
			s.events = append(s.events, timedEvent{
				at: at,
				ev: NoteOn{Note: key, Name: NoteName(key), Velocity: vel, Channel: ch},
			})
			s.notes++
		}
	}

	s.length = at
}

// SetClock replaces the wall clock (before Play)
func (s *Sequencer) SetClock(c Clock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = c
}

// Subscribe registers a listener. Every listener sees every event in
// emission order, on the playing goroutine.
func (s *Sequencer) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Duration is the time of the last event in the file
func (s *Sequencer) Duration() time.Duration {
	return s.length
}

// NoteCount is the number of note-on messages, including velocity 0
func (s *Sequencer) NoteCount() int {
	return s.notes
}

// Play emits all events at their times followed by EndOfSequence.
// It blocks until the end or until ctx is cancelled; a cancelled
// playback emits no EndOfSequence.
func (s *Sequencer) Play(ctx context.Context) error {
	s.mu.Lock()
	if s.played {
		s.mu.Unlock()
		return ErrAlreadyPlayed
	}
	s.played = true
	subs := append([]func(Event){}, s.subs...)
	clock := s.clock
	s.mu.Unlock()

	start := clock.Now()
	wait := func(at time.Duration) error {
		if d := at - clock.Now().Sub(start); d > 0 {
			return clock.Sleep(ctx, d)
		}
		return ctx.Err()
	}

	for _, te := range s.events {
		if err := wait(te.at); err != nil {
			return err
		}
		for _, fn := range subs {
			fn(te.ev)
		}
	}

	if err := wait(s.length); err != nil {
		return err
	}
	for _, fn := range subs {
		fn(EndOfSequence{})
	}
	return nil
}
