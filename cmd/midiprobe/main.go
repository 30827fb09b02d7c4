package main

import (
	"fmt"
	"os"
	"os/signal"

	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"go-improv/midi"
)

func main() {
	defer gomidi.CloseDriver()

	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "listen":
		name := ""
		if len(os.Args) > 2 {
			name = os.Args[2]
		}
		listen(name)
	default:
		usage()
	}
}

func usage() {
	fmt.Println("midiprobe - MIDI port diagnostics")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list           - List all MIDI ports")
	fmt.Println("  listen [name]  - Print incoming messages (first port if no name)")
}

func listPorts() {
	ins, outs, err := midi.ScanPorts()
	if err != nil {
		fmt.Println(err)
		fmt.Println("The OS MIDI service may be hung; on macOS try: sudo killall coreaudiod midiserver")
		return
	}

	fmt.Println("=== MIDI Input Ports ===")
	for i, p := range ins {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, p := range outs {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
}

func listen(name string) {
	in, err := midi.OpenInput(name)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("listening on %q, Ctrl-C to stop\n", in.String())

	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		fmt.Printf("%8dms  %s\n", timestampms, msg.String())
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	defer stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
	fmt.Println("\nbye")
}
