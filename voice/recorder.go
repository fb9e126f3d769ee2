package voice

import (
	"sync"

	"go-salmo/sequencer"
)

// Trigger is one recorded Play call
type Trigger struct {
	Note uint8
	Name string
	Gain float64
}

// Recorder is a silent voice that remembers every trigger
type Recorder struct {
	mu       sync.Mutex
	triggers []Trigger
	silenced int
	closed   bool
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Name() string {
	return "null"
}

func (r *Recorder) Play(note uint8, gain float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.triggers = append(r.triggers, Trigger{Note: note, Name: sequencer.NoteName(note), Gain: gain})
	return nil
}

func (r *Recorder) Silence() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.silenced++
	return nil
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Triggers returns a copy of the recorded calls
func (r *Recorder) Triggers() []Trigger {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Trigger(nil), r.triggers...)
}

// Silenced counts Silence calls
func (r *Recorder) Silenced() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.silenced
}

func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
