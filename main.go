package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"go-salmo/api"
	"go-salmo/config"
	"go-salmo/debug"
	"go-salmo/instrument"
	"go-salmo/report"
	"go-salmo/theme"
	"go-salmo/tui"
	"go-salmo/voice"
)

var version = "dev"

func main() {
	cmd := &cli.Command{
		Name:    "go-salmo",
		Usage:   "Conversor de Salmos a melodía",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to config.json (default ~/.config/go-salmo/config.json)",
			},
			&cli.StringFlag{
				Name:  "api",
				Usage: "generation service base URL",
			},
			&cli.BoolFlag{
				Name:  "local",
				Usage: "use the local development service (" + api.LocalBaseURL + ")",
			},
			&cli.BoolFlag{
				Name:  "hosted",
				Usage: "use the hosted service (" + api.HostedBaseURL + ")",
			},
			&cli.BoolFlag{
				Name:  "no-selector",
				Usage: "hide the instrument selector and send the configured default",
			},
			&cli.StringFlag{
				Name:  "voice",
				Usage: "voice backend: midi, synth or null",
			},
			&cli.StringFlag{
				Name:  "port",
				Usage: "MIDI output port name (substring match)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "write a debug log to " + debug.DefaultPath(),
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *cli.Command) error {
	if c.Bool("debug") {
		if err := debug.Enable(debug.DefaultPath()); err != nil {
			return fmt.Errorf("debug log: %w", err)
		}
		defer debug.Disable()
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	if err := report.Init(cfg.SentryDSN, cfg.Environment, version); err != nil {
		debug.Error("report", err)
	}
	defer report.Flush()

	th, err := loadTheme(cfg.UI.Palette)
	if err != nil {
		return err
	}

	inst := cfg.RequestInstrument()
	if cfg.API.InstrumentSelectorEnabled && cfg.UI.LastInstrument.Valid() {
		inst = cfg.UI.LastInstrument
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.Timeout())
	opts := voice.Options{
		Backend:   cfg.Voice.Backend,
		PortName:  cfg.Voice.PortName,
		Soundfont: cfg.Voice.Program,
	}

	m := tui.NewModel(tui.Options{
		Client: client,
		OpenVoice: func(ctx context.Context) (voice.Voice, error) {
			return voice.Open(ctx, opts)
		},
		Theme:      th,
		Selector:   cfg.API.InstrumentSelectorEnabled,
		Instrument: inst,
		Origin:     client.BaseURL(),
	})

	debug.Log("main", "api=%s voice=%s selector=%v", client.BaseURL(), opts.Backend, cfg.API.InstrumentSelectorEnabled)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}

	if fm, ok := final.(tui.Model); ok {
		if err := fm.Close(); err != nil {
			debug.Error("main", err)
		}
		if cfg.API.InstrumentSelectorEnabled && fm.Instrument() != cfg.UI.LastInstrument {
			if err := saveLastInstrument(c.String("config"), fm.Instrument()); err != nil {
				debug.Error("config", err)
			}
		}
	}
	return nil
}

// loadConfig layers file, then environment, then flags
func loadConfig(c *cli.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	config.LoadDotEnv()
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	switch {
	case c.IsSet("api"):
		cfg.API.BaseURL = c.String("api")
	case c.Bool("local"):
		cfg.API.BaseURL = api.LocalBaseURL
	case c.Bool("hosted"):
		cfg.API.BaseURL = api.HostedBaseURL
	}
	if c.Bool("no-selector") {
		cfg.API.InstrumentSelectorEnabled = false
	}
	if c.IsSet("voice") {
		b, err := voice.ParseBackend(c.String("voice"))
		if err != nil {
			return nil, err
		}
		cfg.Voice.Backend = b
	}
	if c.IsSet("port") {
		cfg.Voice.PortName = c.String("port")
	}
	if cfg.API.DefaultInstrument != "" && !cfg.API.DefaultInstrument.Valid() {
		return nil, fmt.Errorf("config: unknown default instrument %q (want one of %v)", cfg.API.DefaultInstrument, instrument.All)
	}
	return cfg, nil
}

// saveLastInstrument updates only the file, never the env or flag overlays
func saveLastInstrument(path string, inst instrument.Instrument) error {
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		cfg.UI.LastInstrument = inst
		return cfg.Save()
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}
	cfg.UI.LastInstrument = inst
	return cfg.SaveFile(path)
}

func loadTheme(palettePath string) (*theme.Theme, error) {
	if palettePath == "" {
		return theme.New(theme.DefaultPalette()), nil
	}
	palette, err := theme.LoadGPL(palettePath)
	if err != nil {
		return nil, fmt.Errorf("load palette: %w", err)
	}
	return theme.New(palette), nil
}
