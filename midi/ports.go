package midi

import (
	"fmt"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// How long to wait for the OS MIDI service before giving up.
// CoreMIDI in particular can hang a port scan indefinitely.
const scanTimeout = 3 * time.Second

// ScanPorts fetches the current input and output port lists on a helper
// goroutine so a hung MIDI service cannot wedge the caller.
func ScanPorts() ([]drivers.In, []drivers.Out, error) {
	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}

	ch := make(chan result, 1)
	go func() {
		ch <- result{ins: gomidi.GetInPorts(), outs: gomidi.GetOutPorts()}
	}()

	select {
	case r := <-ch:
		return r.ins, r.outs, nil
	case <-time.After(scanTimeout):
		return nil, nil, fmt.Errorf("midi: port scan timed out after %v", scanTimeout)
	}
}

// OpenInput returns the input port whose name contains name
// (case-insensitive). With an empty name, or when no port matches, it
// falls back to the first available input.
func OpenInput(name string) (drivers.In, error) {
	ins, _, err := ScanPorts()
	if err != nil {
		return nil, err
	}
	if len(ins) == 0 {
		return nil, fmt.Errorf("midi: no input ports available")
	}
	if p := matchIn(ins, name); p != nil {
		return p, nil
	}
	return ins[0], nil
}

// OpenOutput returns the output port whose name contains name
// (case-insensitive), falling back to the first available output.
func OpenOutput(name string) (drivers.Out, error) {
	_, outs, err := ScanPorts()
	if err != nil {
		return nil, err
	}
	if len(outs) == 0 {
		return nil, fmt.Errorf("midi: no output ports available")
	}
	if name != "" {
		want := strings.ToLower(name)
		for i, p := range outs {
			if strings.Contains(strings.ToLower(p.String()), want) {
				return outs[i], nil
			}
		}
	}
	return outs[0], nil
}

func matchIn(ins []drivers.In, name string) drivers.In {
	if name == "" {
		return nil
	}
	want := strings.ToLower(name)
	for i, p := range ins {
		if strings.Contains(strings.ToLower(p.String()), want) {
			return ins[i]
		}
	}
	return nil
}
