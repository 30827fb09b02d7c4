package main

import (
	"fmt"
	"os"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"go-improv/config"
	"go-improv/debug"
	"go-improv/midi"
	"go-improv/session"
	"go-improv/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	if cfg.Debug {
		if err := debug.Enable(); err != nil {
			fmt.Fprintf(os.Stderr, "debug log: %v\n", err)
		}
		defer debug.Disable()
	}

	defer gomidi.CloseDriver()

	in, err := midi.OpenInput(cfg.InputPort)
	if err != nil {
		fmt.Fprintf(os.Stderr, "midi input: %v\n", err)
		os.Exit(1)
	}
	out, err := midi.OpenOutput(cfg.OutputPort)
	if err != nil {
		fmt.Fprintf(os.Stderr, "midi output: %v\n", err)
		os.Exit(1)
	}

	incoming := midi.NewQueue() // device -> monitor
	outgoing := midi.NewQueue() // monitor -> synth

	// Process-wide shutdown flag, observed once per loop iteration by the
	// monitor and output goroutines.
	var quit atomic.Bool

	recorder := session.NewRecorder(
		config.ClampTimeout(cfg.TimeoutSeconds),
		incoming, outgoing,
		in.String(),
	)

	stopInput, err := midi.StartInput(in, incoming)
	if err != nil {
		fmt.Fprintf(os.Stderr, "midi listen: %v\n", err)
		os.Exit(1)
	}
	defer stopInput()

	if err := midi.StartOutput(out, outgoing, &quit); err != nil {
		fmt.Fprintf(os.Stderr, "midi send: %v\n", err)
		os.Exit(1)
	}

	go session.Monitor(recorder, &quit)

	p := tea.NewProgram(tui.NewModel(recorder), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		quit.Store(true)
		os.Exit(1)
	}
	quit.Store(true)
}
