package midi

import (
	"runtime"
	"sync/atomic"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-improv/debug"
)

// StartOutput launches the synthesis-side thread: it drains q and sends
// each raw message to out until quit is set. The loop polls rather than
// suspends, matching the monitor's sub-buffer-period responsiveness.
//
// The Speaker tag is stereo routing metadata; a single MIDI port cannot
// use it, so it is dropped at this boundary.
func StartOutput(out drivers.Out, q *Queue, quit *atomic.Bool) error {
	send, err := gomidi.SendTo(out)
	if err != nil {
		return err
	}
	debug.Log("midiout", "sending to %q", out.String())

	go func() {
		for !quit.Load() {
			msg, ok := q.Pop()
			if !ok {
				runtime.Gosched()
				continue
			}
			if err := send(msg.Message); err != nil {
				debug.Log("midiout", "send failed: %v", err)
			}
		}
	}()
	return nil
}
