package tui

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"go-salmo/api"
	"go-salmo/debug"
	"go-salmo/instrument"
	"go-salmo/playback"
	"go-salmo/report"
	"go-salmo/sequencer"
	"go-salmo/theme"
	"go-salmo/voice"
	"go-salmo/widgets"
)

const title = "Conversor de Salmos a melodía"

// playback events buffered between the bridge and Update
const eventBuffer = 256

// Generator is the part of api.Client the shell needs
type Generator interface {
	Generate(ctx context.Context, req api.GenerationRequest) (*api.GenerationResponse, error)
}

// Options wire a Model to its collaborators
type Options struct {
	Client     Generator
	OpenVoice  func(context.Context) (voice.Voice, error)
	Theme      *theme.Theme
	Selector   bool                  // show the instrument selector
	Instrument instrument.Instrument // initial selection, or the fixed one without selector
	Origin     string                // API base URL shown in the status line
	Clock      sequencer.Clock       // nil: wall clock
}

type Model struct {
	State State

	client    Generator
	openVoice func(context.Context) (voice.Voice, error)
	theme     *theme.Theme
	styles    theme.Styles
	origin    string
	clock     sequencer.Clock

	ctx    context.Context
	cancel context.CancelFunc
	events chan tea.Msg

	bridge    *playback.Bridge
	voiceName string

	current  int // newest sequence seen
	floor    int // events below this sequence were cleared
	quitting bool
}

func NewModel(opts Options) Model {
	th := opts.Theme
	if th == nil {
		th = theme.New(theme.DefaultPalette())
	}
	ctx, cancel := context.WithCancel(context.Background())
	return Model{
		State:     NewState(opts.Selector, opts.Instrument),
		client:    opts.Client,
		openVoice: opts.OpenVoice,
		theme:     th,
		styles:    th.Styles(),
		origin:    opts.Origin,
		clock:     opts.Clock,
		ctx:       ctx,
		cancel:    cancel,
		events:    make(chan tea.Msg, eventBuffer),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		openVoice(m.ctx, m.openVoice),
		ListenForPlayback(m.events),
	)
}

// Close stops playback and releases the voice. Call after the program exits.
func (m Model) Close() error {
	m.cancel()
	if m.bridge == nil {
		return nil
	}
	return m.bridge.Close()
}

// Instrument returns the current selection
func (m Model) Instrument() instrument.Instrument {
	return m.State.Instrument
}

// send hands a bridge event to Update, giving up once the program is gone
func (m Model) send(msg tea.Msg) {
	select {
	case m.events <- msg:
	case <-m.ctx.Done():
	}
}

func (m Model) attach(v voice.Voice) *playback.Bridge {
	b := playback.New(v)
	if m.clock != nil {
		b.SetClock(m.clock)
	}
	b.OnNote(func(seq int, n sequencer.NoteOn) {
		m.send(noteMsg{seq: seq, note: n})
	})
	b.OnState(func(seq int, s playback.State) {
		m.send(stateMsg{seq: seq, state: s})
	})
	return b
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case voiceReadyMsg:
		m.bridge = m.attach(msg.voice)
		m.voiceName = msg.voice.Name()
		m.State.VoiceReady = true

	case voiceErrMsg:
		debug.Error("voice", msg.err)
		report.Capture(report.StageVoice, msg.err, nil)
		m.State.VoiceReady = false
		m.State.Err = MsgVoiceInit

	case generatedMsg:
		m.State.Loading = false

	case generateFailedMsg:
		debug.Error("tui", msg.err, "stage", msg.stage)
		report.Capture(msg.stage, msg.err, map[string]string{
			"instrument": string(m.State.Instrument),
		})
		m.State.Loading = false
		m.State.Playing = false
		m.State.Err = MsgGenerateFailed

	case noteMsg:
		if msg.seq >= m.floor && msg.seq >= m.current {
			m.State.Window.Push(msg.note.Name, msg.note.Velocity)
		}
		return m, ListenForPlayback(m.events)

	case stateMsg:
		if msg.seq >= m.floor && msg.seq >= m.current {
			m.current = msg.seq
			m.State.Phase = msg.state
			m.State.Playing = msg.state == playback.Playing
		}
		return m, ListenForPlayback(m.events)

	case clearedMsg:
		m.floor = msg.seq + 1
		m.State.Window.Reset()
		m.State.Playing = false
		m.State.Phase = playback.Idle
		m.State.Err = ""
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Typed or pasted text, even if it spells a key name
	if msg.Type == tea.KeyRunes && !msg.Alt {
		m.State.Insert(msg.Runes)
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "enter":
		if m.State.Loading || strings.TrimSpace(m.State.Text) == "" {
			return m, nil
		}
		if !m.State.VoiceReady || m.bridge == nil {
			if m.State.Err != MsgVoiceInit {
				m.State.Err = MsgAudioNotReady
			}
			return m, nil
		}
		m.State.Loading = true
		m.State.Err = ""
		return m, generate(m.ctx, m.client, m.bridge, m.State.Request())

	case "tab", "right":
		m.State.CycleInstrument(true)

	case "shift+tab", "left":
		m.State.CycleInstrument(false)

	case "backspace", "ctrl+h":
		m.State.Backspace()

	case "ctrl+u":
		m.State.Text = ""

	case "ctrl+l":
		return m, clearPlayback(m.bridge)

	case " ":
		m.State.Insert([]rune{' '})
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := m.styles
	input := st.Input.Width(api.MaxTextLength + 3) // text, cursor and padding

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(st.Title.Render(title))
	out.WriteString("\n\n")

	// Text input
	out.WriteString(st.Label.Render("Ingresa tu Salmo aquí:"))
	out.WriteString("\n")
	out.WriteString(input.Render(m.State.Text + string(m.theme.Symbols.Cursor)))
	out.WriteString("\n")
	out.WriteString(st.Dim.Render(fmt.Sprintf("%d/%d", utf8.RuneCountInString(m.State.Text), api.MaxTextLength)))
	out.WriteString("\n\n")

	if m.State.SelectorEnabled {
		out.WriteString(m.renderSelector())
		out.WriteString("\n\n")
	}

	out.WriteString(m.renderButton())
	out.WriteString("\n")
	if m.State.Err != "" {
		out.WriteString(st.Warn.Render(m.State.Err))
	}
	out.WriteString("\n\n")

	// Chart
	out.WriteString(st.Label.Render("Notas"))
	out.WriteString("\n")
	out.WriteString(m.renderChart())
	out.WriteString("\n\n")

	out.WriteString(st.Dim.Render(m.statusLine()))
	out.WriteString("\n")
	out.WriteString(st.Dim.Render(widgets.RenderKeyHelp(m.keyHelp())))

	return out.String()
}

func (m Model) renderSelector() string {
	selected, option := m.styles.Selected, m.styles.Dim

	parts := []string{"Instrumento:"}
	for _, inst := range instrument.All {
		if inst == m.State.Instrument {
			parts = append(parts, selected.Render(fmt.Sprintf("%c %s", m.theme.Symbols.Selected, inst)))
		} else {
			parts = append(parts, option.Render(fmt.Sprintf("%c %s", m.theme.Symbols.Option, inst)))
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) renderButton() string {
	label := "[ Generar Melodía ]"
	if m.State.Loading {
		label = "[ Generando... ]"
	}

	style := m.styles.Dim
	if m.State.CanGenerate() {
		style = m.styles.Selected
	}
	return style.Render(label)
}

func (m Model) renderChart() string {
	entries := m.State.Window.Entries()
	bars := make([]widgets.Bar, len(entries))
	for i, e := range entries {
		bars[i] = widgets.Bar{Label: e.Name, Value: e.Velocity}
	}

	st := widgets.DefaultChartStyle()
	st.Full = m.theme.Symbols.Bar
	st.Half = m.theme.Symbols.BarTop
	st.Axis = m.theme.Symbols.Axis
	st.Grid = m.theme.Symbols.Grid
	st.BarColor = m.theme.Velocity
	st.AxisColor = m.theme.Muted()
	return widgets.BarChart(bars, st)
}

func (m Model) statusLine() string {
	voiceName := m.voiceName
	if voiceName == "" {
		voiceName = "cargando..."
	}
	return fmt.Sprintf("api %s  voz %s  %s", m.origin, voiceName, m.State.Phase)
}

func (m Model) keyHelp() []widgets.KeyBinding {
	keys := []widgets.KeyBinding{{Key: "enter", Desc: "generar"}}
	if m.State.SelectorEnabled {
		keys = append(keys, widgets.KeyBinding{Key: "tab", Desc: "instrumento"})
	}
	return append(keys,
		widgets.KeyBinding{Key: "ctrl+l", Desc: "limpiar"},
		widgets.KeyBinding{Key: "esc", Desc: "salir"},
	)
}
