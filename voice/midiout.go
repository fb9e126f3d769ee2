package voice

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"go-salmo/debug"
	"go-salmo/instrument"
)

// CoreMIDI can hang while listing ports
const portScanTimeout = 3 * time.Second

var errPortScanTimeout = errors.New("timed out listing MIDI ports (try: sudo killall coreaudiod midiserver)")

// ListOutPorts returns output port names, giving up after a timeout
func ListOutPorts(ctx context.Context) ([]string, error) {
	outs, err := scanOutPorts(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(outs))
	for i, o := range outs {
		names[i] = o.String()
	}
	return names, nil
}

func scanOutPorts(ctx context.Context) ([]drivers.Out, error) {
	ch := make(chan []drivers.Out, 1)
	go func() {
		var outs []drivers.Out = gomidi.GetOutPorts()
		ch <- outs
	}()

	select {
	case outs := <-ch:
		return outs, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(portScanTimeout):
		return nil, errPortScanTimeout
	}
}

// matchPort returns the index of the first port whose name contains name
// (case-insensitive), or 0 when name is empty
func matchPort(ports []string, name string) (int, error) {
	if len(ports) == 0 {
		return -1, errors.New("no MIDI output ports")
	}
	if name == "" {
		return 0, nil
	}
	want := strings.ToLower(name)
	for i, p := range ports {
		if strings.Contains(strings.ToLower(p), want) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("no MIDI output port matching %q", name)
}

// MIDIVoice plays notes on an external synth
type MIDIVoice struct {
	port       string
	send       func(msg gomidi.Message) error
	closePort  func() error
	channel    uint8
	noteLength time.Duration

	mu      sync.Mutex
	pending map[*time.Timer]uint8
	closed  bool
}

// OpenMIDI opens an output port and selects the program on channel 0
func OpenMIDI(ctx context.Context, portName string, program instrument.Program, noteLength time.Duration) (*MIDIVoice, error) {
	outs, err := scanOutPorts(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(outs))
	for i, o := range outs {
		names[i] = o.String()
	}
	idx, err := matchPort(names, portName)
	if err != nil {
		return nil, err
	}
	out := outs[idx]

	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}

	v := newMIDIVoice(out.String(), send, out.Close, noteLength)
	if err := v.send(gomidi.ProgramChange(v.channel, uint8(program))); err != nil {
		out.Close()
		return nil, fmt.Errorf("program change: %w", err)
	}
	return v, nil
}

func newMIDIVoice(port string, send func(gomidi.Message) error, closePort func() error, noteLength time.Duration) *MIDIVoice {
	return &MIDIVoice{
		port:       port,
		send:       send,
		closePort:  closePort,
		noteLength: noteLength,
		pending:    make(map[*time.Timer]uint8),
	}
}

func (v *MIDIVoice) Name() string {
	return "midi:" + v.port
}

// Velocity converts a gain back to a MIDI velocity (1.0 -> 100)
func Velocity(gain float64) uint8 {
	vel := math.Round(gain * 100)
	if vel < 1 {
		return 1
	}
	if vel > 127 {
		return 127
	}
	return uint8(vel)
}

// Play sends NoteOn now and NoteOff after the note length
func (v *MIDIVoice) Play(note uint8, gain float64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return errors.New("voice closed")
	}

	if err := v.send(gomidi.NoteOn(v.channel, note, Velocity(gain))); err != nil {
		return err
	}

	var t *time.Timer
	t = time.AfterFunc(v.noteLength, func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if _, ok := v.pending[t]; !ok {
			return
		}
		delete(v.pending, t)
		if err := v.send(gomidi.NoteOff(v.channel, note)); err != nil {
			debug.Error("voice", err, "note", note)
		}
	})
	v.pending[t] = note
	return nil
}

// Silence cancels pending note-offs and sends All Notes Off
func (v *MIDIVoice) Silence() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil
	}
	return v.silenceLocked()
}

func (v *MIDIVoice) silenceLocked() error {
	for t := range v.pending {
		t.Stop()
	}
	v.pending = make(map[*time.Timer]uint8)
	return v.send(gomidi.ControlChange(v.channel, 123, 0))
}

func (v *MIDIVoice) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil
	}
	v.closed = true
	err := v.silenceLocked()
	if cerr := v.closePort(); err == nil {
		err = cerr
	}
	return err
}
