package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"go-salmo/api"
	"go-salmo/instrument"
	"go-salmo/voice"
)

// APIConfig points the app at a generation service
type APIConfig struct {
	BaseURL                   string                `json:"baseUrl"`
	InstrumentSelectorEnabled bool                  `json:"instrumentSelectorEnabled"`
	DefaultInstrument         instrument.Instrument `json:"defaultInstrument,omitempty"` // sent when the selector is off
	TimeoutSeconds            int                   `json:"timeoutSeconds,omitempty"`    // 0 = no timeout
}

// VoiceConfig selects how notes are rendered
type VoiceConfig struct {
	Backend  voice.Backend `json:"backend"`
	PortName string        `json:"portName,omitempty"`
	Program  string        `json:"program,omitempty"` // soundfont name
}

// UIConfig stores UI preferences
type UIConfig struct {
	Palette        string                `json:"palette,omitempty"` // path to a .gpl file
	LastInstrument instrument.Instrument `json:"lastInstrument,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	API   APIConfig   `json:"api"`
	Voice VoiceConfig `json:"voice"`
	UI    UIConfig    `json:"ui"`

	// Not persisted
	Environment string `json:"-"`
	SentryDSN   string `json:"-"`
}

// DefaultConfig returns a config with sensible defaults: the hosted service
// with the instrument selector shown
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:                   api.HostedBaseURL,
			InstrumentSelectorEnabled: true,
			DefaultInstrument:         instrument.Default,
		},
		Voice: VoiceConfig{
			Backend: voice.BackendSynth,
			Program: instrument.DefaultSoundfont,
		},
		Environment: "development",
	}
}

// Timeout returns the request timeout (0 = none)
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// RequestInstrument is the instrument sent when the selector is hidden
func (c *Config) RequestInstrument() instrument.Instrument {
	if c.API.DefaultInstrument.Valid() {
		return c.API.DefaultInstrument
	}
	return instrument.Default
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-salmo"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a config file over the defaults
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
