package tui

import (
	"strings"
	"unicode/utf8"

	"go-salmo/api"
	"go-salmo/instrument"
	"go-salmo/playback"
	"go-salmo/viz"
)

// User-facing messages. The underlying cause is only logged.
const (
	MsgVoiceInit      = "Error al cargar el instrumento"
	MsgAudioNotReady  = "El sistema de audio no está listo"
	MsgGenerateFailed = "Error al generar o reproducir la música"
)

// State is everything the shell displays. It is only mutated from Update.
type State struct {
	Text            string
	Instrument      instrument.Instrument
	SelectorEnabled bool

	Loading    bool
	Err        string
	Playing    bool
	VoiceReady bool
	Phase      playback.State

	Window *viz.Window
}

// NewState starts with empty text and the given instrument selected
func NewState(selectorEnabled bool, inst instrument.Instrument) State {
	if !inst.Valid() {
		inst = instrument.Default
	}
	return State{
		Instrument:      inst,
		SelectorEnabled: selectorEnabled,
		Phase:           playback.Idle,
		Window:          viz.NewWindow(viz.Capacity),
	}
}

// CanGenerate mirrors the enabled state of the generate button
func (s State) CanGenerate() bool {
	return !s.Loading && strings.TrimSpace(s.Text) != "" && s.VoiceReady
}

// Insert appends runes up to api.MaxTextLength characters
func (s *State) Insert(runes []rune) {
	for _, r := range runes {
		if utf8.RuneCountInString(s.Text) >= api.MaxTextLength {
			return
		}
		if r == '\r' {
			continue
		}
		s.Text += string(r)
	}
}

// Backspace removes the last character
func (s *State) Backspace() {
	if s.Text == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(s.Text)
	s.Text = s.Text[:len(s.Text)-size]
}

// CycleInstrument moves the selector; a no-op when the selector is hidden
func (s *State) CycleInstrument(forward bool) {
	if !s.SelectorEnabled {
		return
	}
	if forward {
		s.Instrument = s.Instrument.Next()
	} else {
		s.Instrument = s.Instrument.Prev()
	}
}

// Request builds the generate call for the current input
func (s State) Request() api.GenerationRequest {
	return api.GenerationRequest{Text: s.Text, Instrument: s.Instrument}
}
