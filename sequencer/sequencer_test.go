package sequencer

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type note struct {
	key, vel uint8
}

// writeSMF builds a single-track file: each note lasts an eighth at bpm
func writeSMF(t *testing.T, bpm float64, notes ...note) []byte {
	t.Helper()

	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(960)

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(bpm))
	for _, n := range notes {
		tr.Add(0, midi.NoteOn(0, n.key, n.vel))
		tr.Add(480, midi.NoteOff(0, n.key))
	}
	tr.Close(0)
	require.NoError(t, sm.Add(tr))

	var buf bytes.Buffer
	_, err := sm.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

type timed struct {
	at time.Duration
	ev Event
}

func playAll(t *testing.T, s *Sequencer) []timed {
	t.Helper()

	clock := &InstantClock{}
	s.SetClock(clock)

	var got []timed
	s.Subscribe(func(ev Event) {
		got = append(got, timed{at: clock.Now().Sub(time.Time{}), ev: ev})
	})
	require.NoError(t, s.Play(context.Background()))
	return got
}

func TestNoteName(t *testing.T) {
	tests := map[uint8]string{
		0:   "C-1",
		21:  "A0",
		60:  "C4",
		61:  "Db4",
		69:  "A4",
		70:  "Bb4",
		127: "G9",
	}
	for n, want := range tests {
		assert.Equal(t, want, NoteName(n))
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	_, err := Load(nil)
	assert.Error(t, err)

	_, err = Load([]byte("MThd but not really"))
	assert.Error(t, err)
}

func TestPlayEmitsInOrder(t *testing.T) {
	s, err := Load(writeSMF(t, 120, note{60, 60}, note{64, 90}))
	require.NoError(t, err)
	assert.Equal(t, 2, s.NoteCount())
	assert.Equal(t, 500*time.Millisecond, s.Duration())

	got := playAll(t, s)
	require.Len(t, got, 3)

	assert.Equal(t, NoteOn{Note: 60, Name: "C4", Velocity: 60}, got[0].ev)
	assert.Equal(t, time.Duration(0), got[0].at)

	assert.Equal(t, NoteOn{Note: 64, Name: "E4", Velocity: 90}, got[1].ev)
	assert.Equal(t, 250*time.Millisecond, got[1].at)

	assert.Equal(t, EndOfSequence{}, got[2].ev)
	assert.Equal(t, 500*time.Millisecond, got[2].at)
}

func TestTempoIsHonored(t *testing.T) {
	s, err := Load(writeSMF(t, 60, note{60, 100}, note{62, 100}))
	require.NoError(t, err)

	got := playAll(t, s)
	require.Len(t, got, 3)
	assert.Equal(t, 500*time.Millisecond, got[1].at)
	assert.Equal(t, time.Second, got[2].at)
}

func TestTracksAreMerged(t *testing.T) {
	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(960)

	var tempo smf.Track
	tempo.Add(0, smf.MetaTempo(120))
	tempo.Close(0)

	var a smf.Track
	a.Add(0, midi.NoteOn(0, 60, 10))
	a.Add(960, midi.NoteOn(0, 64, 30))
	a.Close(0)

	var b smf.Track
	b.Add(480, midi.NoteOn(1, 62, 20))
	b.Close(0)

	require.NoError(t, sm.Add(tempo))
	require.NoError(t, sm.Add(a))
	require.NoError(t, sm.Add(b))

	var buf bytes.Buffer
	_, err := sm.WriteTo(&buf)
	require.NoError(t, err)

	s, err := Load(buf.Bytes())
	require.NoError(t, err)

	var vels []uint8
	for _, tv := range playAll(t, s) {
		if on, ok := tv.ev.(NoteOn); ok {
			vels = append(vels, on.Velocity)
		}
	}
	assert.Equal(t, []uint8{10, 20, 30}, vels)
}

func TestSubscribersSeeSameStream(t *testing.T) {
	s, err := Load(writeSMF(t, 120, note{60, 1}, note{61, 2}, note{62, 3}))
	require.NoError(t, err)
	s.SetClock(&InstantClock{})

	var a, b []Event
	s.Subscribe(func(ev Event) { a = append(a, ev) })
	s.Subscribe(func(ev Event) { b = append(b, ev) })

	require.NoError(t, s.Play(context.Background()))
	assert.Len(t, a, 4)
	assert.Equal(t, a, b)
}

func TestPlayOnce(t *testing.T) {
	s, err := Load(writeSMF(t, 120, note{60, 60}))
	require.NoError(t, err)
	s.SetClock(&InstantClock{})

	require.NoError(t, s.Play(context.Background()))
	assert.ErrorIs(t, s.Play(context.Background()), ErrAlreadyPlayed)
}

func TestCancelSkipsEndOfSequence(t *testing.T) {
	s, err := Load(writeSMF(t, 120, note{60, 60}, note{62, 60}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var got []Event
	s.Subscribe(func(ev Event) {
		got = append(got, ev)
		cancel()
	})

	err = s.Play(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, got, 1)
}

func TestComposeRoundTrip(t *testing.T) {
	data, err := Compose(120, 24,
		Step{Note: 60, Velocity: 60, Ticks: 480},
		Step{Note: 67, Velocity: 90, Ticks: 960},
	)
	require.NoError(t, err)

	s, err := Load(data)
	require.NoError(t, err)
	assert.Equal(t, 2, s.NoteCount())
	assert.Equal(t, 750*time.Millisecond, s.Duration())

	got := playAll(t, s)
	require.Len(t, got, 3)
	assert.Equal(t, "G4", got[1].ev.(NoteOn).Name)
}
