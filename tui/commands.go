package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"go-salmo/api"
	"go-salmo/debug"
	"go-salmo/payload"
	"go-salmo/playback"
	"go-salmo/report"
	"go-salmo/sequencer"
	"go-salmo/voice"
)

type voiceReadyMsg struct {
	voice voice.Voice
}

type voiceErrMsg struct {
	err error
}

type generatedMsg struct {
	seq int
}

type generateFailedMsg struct {
	stage string
	err   error
}

type noteMsg struct {
	seq  int
	note sequencer.NoteOn
}

type stateMsg struct {
	seq   int
	state playback.State
}

type clearedMsg struct {
	seq int
}

func openVoice(ctx context.Context, open func(context.Context) (voice.Voice, error)) tea.Cmd {
	return func() tea.Msg {
		v, err := open(ctx)
		if err != nil {
			return voiceErrMsg{err: err}
		}
		return voiceReadyMsg{voice: v}
	}
}

// generate runs one request -> decode -> load -> play cycle off the event loop
func generate(ctx context.Context, client Generator, bridge *playback.Bridge, req api.GenerationRequest) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.Generate(ctx, req)
		if err != nil {
			return generateFailedMsg{stage: report.StageRequest, err: err}
		}

		data, err := payload.Decode(resp.MidiData)
		if err != nil {
			return generateFailedMsg{stage: report.StageDecode, err: err}
		}

		seq, err := bridge.Load(data)
		if err != nil {
			return generateFailedMsg{stage: report.StageLoad, err: err}
		}
		if err := bridge.Start(ctx); err != nil {
			return generateFailedMsg{stage: report.StageLoad, err: err}
		}

		debug.Log("tui", "seq=%d started (%d bytes)", seq, len(data))
		return generatedMsg{seq: seq}
	}
}

func clearPlayback(bridge *playback.Bridge) tea.Cmd {
	return func() tea.Msg {
		if bridge == nil {
			return clearedMsg{}
		}
		return clearedMsg{seq: bridge.Stop()}
	}
}

// ListenForPlayback delivers the next bridge event to Update
func ListenForPlayback(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}
