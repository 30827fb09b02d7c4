package session

import (
	"runtime"
	"sync/atomic"

	"go-improv/debug"
)

// Monitor drains the recorder's incoming queue until quit is set. Each
// message is copied to the outgoing queue before being fed to the
// recorder, so audible monitoring and recording state derive from one
// FIFO traversal of the input stream.
//
// The loop polls: Pop returns immediately when the queue is empty. quit
// is checked once per iteration; an in-flight solo playback is not
// interrupted and runs to completion on its own goroutine.
func Monitor(r *Recorder, quit *atomic.Bool) {
	for !quit.Load() {
		msg, ok := r.incoming.Pop()
		if !ok {
			runtime.Gosched()
			continue
		}
		r.outgoing.Push(msg)
		r.Receive(msg)
		debug.LogEvery(100, "monitor", "forwarded %s", msg.Message.String())
	}
	debug.Log("monitor", "shutdown flag observed, stopping")
}
