package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-improv/debug"
)

// StartInput launches the device-input thread: every message arriving on
// in is tagged for both speakers and pushed onto q. The returned stop
// function closes the listener; the queue itself is never closed.
func StartInput(in drivers.In, q *Queue) (stop func(), err error) {
	stop, err = gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		q.Push(Msg{Message: msg, Speaker: SpeakerBoth})
		debug.LogEvery(100, "midiin", "received %s", msg.String())
	})
	if err != nil {
		return nil, err
	}
	debug.Log("midiin", "listening on %q", in.String())
	return stop, nil
}
