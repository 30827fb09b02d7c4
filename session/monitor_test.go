package session

import (
	"sync/atomic"
	"testing"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-improv/midi"
)

func waitFor(t *testing.T, timeout time.Duration, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestMonitorForwardsInOrderThenRecords(t *testing.T) {
	in := midi.NewQueue()
	out := midi.NewQueue()
	r := NewRecorder(5.0, in, out, "test port")
	r.SetMode(Record)

	var quit atomic.Bool
	done := make(chan struct{})
	go func() {
		Monitor(r, &quit)
		close(done)
	}()

	const n = 10
	for i := 0; i < n; i++ {
		in.Push(note(uint8(60 + i)))
	}

	var got []uint8
	waitFor(t, 2*time.Second, "forwarded events", func() bool {
		for {
			msg, ok := out.Pop()
			if !ok {
				break
			}
			var ch, key, vel uint8
			msg.Message.GetNoteOn(&ch, &key, &vel)
			got = append(got, key)
		}
		return len(got) >= n
	})

	for i, key := range got {
		if key != uint8(60+i) {
			t.Errorf("forwarded out of order at %d: key %d, want %d", i, key, 60+i)
		}
	}

	// Everything arrived well inside the 5s timeout: one phrase.
	waitFor(t, 2*time.Second, "recorded events", func() bool {
		return r.Len() == 1 && r.Accompaniment(0).Len() == n
	})

	quit.Store(true)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not observe the shutdown flag")
	}
}

func TestMonitorIgnoresEventsInPlaythrough(t *testing.T) {
	in := midi.NewQueue()
	out := midi.NewQueue()
	r := NewRecorder(5.0, in, out, "test port")

	var quit atomic.Bool
	done := make(chan struct{})
	go func() {
		Monitor(r, &quit)
		close(done)
	}()

	for i := 0; i < 20; i++ {
		in.Push(note(64))
	}

	waitFor(t, 2*time.Second, "events forwarded to the synth", func() bool {
		return out.Len() >= 20
	})
	if r.Len() != 0 {
		t.Errorf("Playthrough stored %d phrases", r.Len())
	}

	quit.Store(true)
	<-done
}

// End-to-end: solo playback paces the backing into the outgoing queue and
// its loop-back termination event closes the solo session via the monitor.
func TestSoloPlaybackTerminatesThroughMonitor(t *testing.T) {
	in := midi.NewQueue()
	out := midi.NewQueue()
	r := NewRecorder(5.0, in, out, "test port")

	backing := &Recording{}
	backing.AddMessage(0, gomidi.NoteOn(0, 60, 100))
	backing.AddMessage(0.05, gomidi.NoteOff(0, 60))
	r.accompaniments = append(r.accompaniments, backing)
	r.SetMode(SoloOver)

	var quit atomic.Bool
	done := make(chan struct{})
	go func() {
		Monitor(r, &quit)
		close(done)
	}()

	if err := r.StartSolo(0); err != nil {
		t.Fatalf("StartSolo: %v", err)
	}
	if !r.ActivelySoloing() {
		t.Fatal("solo should be active right after StartSolo")
	}

	waitFor(t, 3*time.Second, "solo termination", func() bool {
		return !r.ActivelySoloing()
	})

	// Backing events plus the forwarded all-notes-off all reach the synth.
	waitFor(t, time.Second, "replayed backing at the synth queue", func() bool {
		return out.Len() >= 3
	})

	sawTermination := false
	for {
		msg, ok := out.Pop()
		if !ok {
			break
		}
		if msg.IsAllNotesOff() {
			sawTermination = true
		}
	}
	if !sawTermination {
		t.Error("all-notes-off was not forwarded to the synth")
	}

	quit.Store(true)
	<-done
}
