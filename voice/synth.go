package voice

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"go-salmo/instrument"
)

const synthSampleRate = beep.SampleRate(44100)

// headroom keeps a few overlapping notes at gain 1.27 from clipping
const headroom = 0.2

// Harmonic weights per General MIDI program, a rough timbre
var timbres = map[instrument.Program][]float64{
	0:  {1, 0.5, 0.25, 0.12},      // piano
	19: {1, 0.8, 0.6, 0.5, 0.4},   // organ
	24: {1, 0.4, 0.3, 0.1},        // nylon guitar
	40: {1, 0.7, 0.5, 0.35, 0.25}, // violin
	56: {1, 0.9, 0.7, 0.5},        // trumpet
	73: {1, 0.1},                  // flute
}

// SynthVoice renders decaying additive tones on the default audio device
type SynthVoice struct {
	sr         beep.SampleRate
	harmonics  []float64
	noteLength time.Duration

	mu     sync.Mutex
	closed bool
}

var speakerOnce struct {
	sync.Once
	err error
}

// OpenSynth initializes the speaker (once per process)
func OpenSynth(program instrument.Program, noteLength time.Duration) (*SynthVoice, error) {
	speakerOnce.Do(func() {
		speakerOnce.err = speaker.Init(synthSampleRate, synthSampleRate.N(time.Second/20))
	})
	if speakerOnce.err != nil {
		return nil, fmt.Errorf("init speaker: %w", speakerOnce.err)
	}

	h, ok := timbres[program]
	if !ok {
		h = []float64{1}
	}
	return &SynthVoice{sr: synthSampleRate, harmonics: h, noteLength: noteLength}, nil
}

func (v *SynthVoice) Name() string {
	return "synth"
}

// Frequency of a MIDI note in Hz (A4 = 440)
func Frequency(note uint8) float64 {
	return 440 * math.Pow(2, (float64(note)-69)/12)
}

// Tone returns a finite streamer for one note
func (v *SynthVoice) Tone(note uint8, gain float64) beep.Streamer {
	freq := Frequency(note)
	total := v.sr.N(v.noteLength)
	rate := float64(v.sr)

	var norm float64
	for _, w := range v.harmonics {
		norm += w
	}

	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if pos >= total {
			return 0, false
		}
		for i := range samples {
			if pos >= total {
				return i, true
			}
			t := float64(pos) / rate
			env := math.Exp(-4 * t / v.noteLength.Seconds())

			var s float64
			for h, w := range v.harmonics {
				s += w * math.Sin(2*math.Pi*freq*float64(h+1)*t)
			}
			s = s / norm * env * gain * headroom

			samples[i][0] = s
			samples[i][1] = s
			pos++
		}
		return len(samples), true
	})
}

func (v *SynthVoice) Play(note uint8, gain float64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return errors.New("voice closed")
	}
	speaker.Play(v.Tone(note, gain))
	return nil
}

func (v *SynthVoice) Silence() error {
	speaker.Clear()
	return nil
}

// Close stops sound; the speaker stays initialized for later voices
func (v *SynthVoice) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	speaker.Clear()
	return nil
}
