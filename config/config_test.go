package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-salmo/api"
	"go-salmo/instrument"
	"go-salmo/voice"
)

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, api.HostedBaseURL, cfg.API.BaseURL)
	assert.True(t, cfg.API.InstrumentSelectorEnabled)
	assert.Equal(t, voice.BackendSynth, cfg.Voice.Backend)
	assert.Equal(t, instrument.DefaultSoundfont, cfg.Voice.Program)
	assert.Zero(t, cfg.Timeout())
	assert.Equal(t, instrument.Piano, cfg.RequestInstrument())
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")

	cfg := DefaultConfig()
	cfg.API.BaseURL = api.LocalBaseURL
	cfg.API.InstrumentSelectorEnabled = false
	cfg.API.DefaultInstrument = instrument.Organ
	cfg.API.TimeoutSeconds = 30
	cfg.Voice.Backend = voice.BackendMIDI
	cfg.Voice.PortName = "fluid"
	require.NoError(t, cfg.SaveFile(path))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
	assert.Equal(t, instrument.Organ, got.RequestInstrument())
	assert.Equal(t, "30s", got.Timeout().String())
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api":{"baseUrl":"http://x"}}`), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://x", cfg.API.BaseURL)
	assert.Equal(t, voice.BackendSynth, cfg.Voice.Backend)
}

func TestLoadBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvAPIURL, "http://localhost:5000")
	t.Setenv(EnvSelector, "false")
	t.Setenv(EnvVoice, "midi")
	t.Setenv(EnvMIDIPort, "IAC")
	t.Setenv(EnvSentryDSN, "https://key@example.com/1")

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "http://localhost:5000", cfg.API.BaseURL)
	assert.False(t, cfg.API.InstrumentSelectorEnabled)
	assert.Equal(t, voice.BackendMIDI, cfg.Voice.Backend)
	assert.Equal(t, "IAC", cfg.Voice.PortName)
	assert.Equal(t, "https://key@example.com/1", cfg.SentryDSN)
	assert.Equal(t, "development", cfg.Environment)
}

func TestApplyEnvRejectsBadValues(t *testing.T) {
	t.Setenv(EnvSelector, "maybe")
	assert.Error(t, DefaultConfig().ApplyEnv())

	t.Setenv(EnvSelector, "")
	t.Setenv(EnvVoice, "gramophone")
	assert.Error(t, DefaultConfig().ApplyEnv())
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SALMO_MIDI_PORT=FromDotEnv\n"), 0644))
	t.Setenv(EnvMIDIPort, "")
	os.Unsetenv(EnvMIDIPort)

	LoadDotEnv(path)

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "FromDotEnv", cfg.Voice.PortName)
}
