package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go-salmo/instrument"
	"go-salmo/playback"
	"go-salmo/sequencer"
	"go-salmo/theme"
	"go-salmo/viz"
	"go-salmo/voice"
	"go-salmo/widgets"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	var err error
	switch os.Args[1] {
	case "list":
		err = listPorts()
	case "note":
		err = testNote(os.Args[2:])
	case "play":
		if len(os.Args) < 3 {
			usage()
			return
		}
		err = playFile(os.Args[2], os.Args[3:])
	default:
		usage()
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list                     - List MIDI output ports")
	fmt.Println("  note [backend] [port]    - Play middle C on a voice (synth, midi, null)")
	fmt.Println("  play <file.mid> [backend] [port] - Play a file through the bridge and chart it")
}

// voiceOptions reads optional [backend] [port] arguments
func voiceOptions(args []string) (voice.Options, error) {
	opts := voice.Options{Backend: voice.BackendSynth, Soundfont: instrument.DefaultSoundfont}
	if len(args) > 0 {
		b, err := voice.ParseBackend(args[0])
		if err != nil {
			return opts, err
		}
		opts.Backend = b
	}
	if len(args) > 1 {
		opts.PortName = args[1]
	}
	return opts, nil
}

func listPorts() error {
	fmt.Println("=== MIDI Output Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	names, err := voice.ListOutPorts(context.Background())
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("  (none)")
	}
	for i, name := range names {
		fmt.Printf("  %d: %s\n", i, name)
	}
	return nil
}

func testNote(args []string) error {
	opts, err := voiceOptions(args)
	if err != nil {
		return err
	}

	v, err := voice.Open(context.Background(), opts)
	if err != nil {
		return err
	}
	defer v.Close()

	fmt.Printf("Playing C4 on %s...\n", v.Name())
	for _, vel := range []uint8{40, 80, 127} {
		gain := playback.Gain(vel)
		fmt.Printf("  velocity %3d gain %.2f\n", vel, gain)
		if err := v.Play(60, gain); err != nil {
			return err
		}
		time.Sleep(700 * time.Millisecond)
	}
	return nil
}

func playFile(path string, args []string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	opts, err := voiceOptions(args)
	if err != nil {
		return err
	}

	v, err := voice.Open(context.Background(), opts)
	if err != nil {
		return err
	}

	bridge := playback.New(v)
	defer bridge.Close()

	window := viz.NewWindow(viz.Capacity)
	bridge.OnNote(func(_ int, n sequencer.NoteOn) {
		window.Push(n.Name, n.Velocity)
		fmt.Printf("  %-4s vel %3d\n", n.Name, n.Velocity)
	})
	bridge.OnState(func(seq int, s playback.State) {
		fmt.Printf("[seq %d] %s\n", seq, s)
	})

	if _, err := bridge.Load(data); err != nil {
		return err
	}
	if err := bridge.Start(context.Background()); err != nil {
		return err
	}
	bridge.Wait()

	// Let the last note ring out
	time.Sleep(voice.DefaultNoteLength)

	th := theme.New(theme.DefaultPalette())
	st := widgets.DefaultChartStyle()
	st.BarColor = th.Velocity

	entries := window.Entries()
	bars := make([]widgets.Bar, len(entries))
	for i, e := range entries {
		bars[i] = widgets.Bar{Label: e.Name, Value: e.Velocity}
	}
	fmt.Println()
	fmt.Println(widgets.BarChart(bars, st))
	fmt.Printf("\nlast %d notes of %s\n", window.Len(), path)
	return nil
}
