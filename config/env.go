package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"go-salmo/debug"
	"go-salmo/voice"
)

// Environment variables read by ApplyEnv
const (
	EnvAPIURL    = "SALMO_API_URL"
	EnvSelector  = "SALMO_SELECTOR"
	EnvVoice     = "SALMO_VOICE"
	EnvMIDIPort  = "SALMO_MIDI_PORT"
	EnvSentryDSN = "SENTRY_DSN"
	EnvName      = "SALMO_ENV"
)

// LoadDotEnv loads .env files into the process environment. Missing files
// are not an error.
func LoadDotEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		debug.Log("config", "no .env file loaded: %v", err)
	}
}

// ApplyEnv overlays environment variables on c
func (c *Config) ApplyEnv() error {
	if v := getEnv(EnvAPIURL, ""); v != "" {
		c.API.BaseURL = v
	}
	if v := getEnv(EnvSelector, ""); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSelector, err)
		}
		c.API.InstrumentSelectorEnabled = on
	}
	if v := getEnv(EnvVoice, ""); v != "" {
		b, err := voice.ParseBackend(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvVoice, err)
		}
		c.Voice.Backend = b
	}
	if v := getEnv(EnvMIDIPort, ""); v != "" {
		c.Voice.PortName = v
	}
	c.SentryDSN = getEnv(EnvSentryDSN, c.SentryDSN)
	c.Environment = getEnv(EnvName, c.Environment)
	return nil
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value != "" {
		return value
	}
	return defaultValue
}
