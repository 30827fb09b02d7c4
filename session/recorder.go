package session

import (
	"errors"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-improv/debug"
	"go-improv/midi"
)

var (
	// ErrNotSoloMode is returned by StartSolo outside SoloOver mode.
	ErrNotSoloMode = errors.New("session: not in solo-over mode")
	// ErrSoloActive is returned by StartSolo while a solo is in progress.
	ErrSoloActive = errors.New("session: a solo is already in progress")
)

// Recorder owns the session state: the operating mode, the silence
// timeout that bounds a phrase, and every captured accompaniment and solo.
//
// It is shared by the monitor goroutine, the TUI and any solo playback
// goroutine; all mutation and any multi-field read happens under its lock,
// one logical operation per acquisition. Raw events reach it only through
// the monitor's Receive calls, so recording state has a single writer once
// the session is running.
type Recorder struct {
	mu sync.Mutex

	timeout float64
	mode    RecordingMode

	accompaniments []*Recording
	solos          []*Recording

	// soloing is the solo-session-in-progress flag; soloDuration only
	// means anything while it is set.
	soloing      bool
	soloDuration float64

	incoming *midi.Queue
	outgoing *midi.Queue

	lastMsg      time.Time
	currentStart time.Time

	inputPortName string

	// now is the monotonic clock; swapped out in tests.
	now func() time.Time

	// updates coalesces change notifications for the TUI.
	updates chan struct{}
}

// NewRecorder creates a Recorder in Playthrough mode with empty histories.
// timeout is the silence gap, in seconds, that closes a phrase in Record
// mode; it must be positive.
func NewRecorder(timeout float64, incoming, outgoing *midi.Queue, inputPortName string) *Recorder {
	now := time.Now()
	return &Recorder{
		timeout:       timeout,
		mode:          Playthrough,
		incoming:      incoming,
		outgoing:      outgoing,
		lastMsg:       now,
		currentStart:  now,
		inputPortName: inputPortName,
		now:           time.Now,
		updates:       make(chan struct{}, 1),
	}
}

// Receive routes one event according to the current mode.
//
// Playthrough stores nothing. Record opens a new accompaniment phrase when
// none is open (empty history, or silence of at least the timeout since
// the previous event) and appends the event to the newest phrase at its
// offset from the phrase start. SoloOver appends to the newest solo while
// the backing recording is still playing; the first event past the
// backing's duration is dropped and ends the solo session.
func (r *Recorder) Receive(msg midi.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.mode {
	case Playthrough:
		// Forwarding to the synth is the monitor's job; nothing to store.

	case Record:
		now := r.now()
		if !r.activelyRecording(now) {
			r.accompaniments = append(r.accompaniments, &Recording{})
			r.currentStart = now
			debug.Log("session", "accompaniment %d opened", len(r.accompaniments))
		}
		phrase := r.accompaniments[len(r.accompaniments)-1]
		phrase.AddMessage(now.Sub(r.currentStart).Seconds(), msg.Message)
		r.lastMsg = now

	case SoloOver:
		if !r.soloing {
			return
		}
		now := r.now()
		soFar := now.Sub(r.currentStart).Seconds()
		if soFar > r.soloDuration {
			r.soloing = false
			debug.Log("session", "solo closed at %.2fs (backing %.2fs)", soFar, r.soloDuration)
		} else {
			solo := r.solos[len(r.solos)-1]
			solo.AddMessage(soFar, msg.Message)
		}
		r.lastMsg = now
	}

	r.notify()
}

// StartSolo begins a solo session over the accompaniment at index
// selected: it clones the backing phrase, opens a fresh solo recording
// aligned to now, and spawns a goroutine that replays the backing through
// the outgoing queue. When replay finishes the goroutine pushes a
// synthetic all-notes-off onto the *incoming* queue; that event flows back
// through the monitor into Receive, which is what deterministically closes
// the solo session even if the performer goes silent.
//
// A second solo while one is active is rejected, as is any call outside
// SoloOver mode. An out-of-range index is a caller bug and panics.
func (r *Recorder) StartSolo(selected int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.mode != SoloOver {
		return ErrNotSoloMode
	}
	if r.soloing {
		return ErrSoloActive
	}

	backing := r.accompaniments[selected].Clone()
	r.soloDuration = backing.Duration()
	r.soloing = true
	r.solos = append(r.solos, &Recording{})
	r.currentStart = r.now()

	incoming, outgoing := r.incoming, r.outgoing
	go func() {
		backing.Playback(outgoing, func(msg gomidi.Message) midi.Msg {
			return midi.Msg{Message: msg, Speaker: midi.SpeakerBoth}
		})
		incoming.Push(midi.AllNotesOff(midi.SpeakerBoth))
	}()

	debug.Log("session", "solo started over accompaniment %d (%.2fs)", selected, r.soloDuration)
	r.notify()
	return nil
}

// activelyRecording is the single definition of "a phrase is open":
// at least one accompaniment exists and the silence since the last event
// is still below the timeout. Callers hold the lock.
func (r *Recorder) activelyRecording(now time.Time) bool {
	return len(r.accompaniments) > 0 && now.Sub(r.lastMsg).Seconds() < r.timeout
}

// ActivelyRecording reports whether an accompaniment phrase is open.
func (r *Recorder) ActivelyRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activelyRecording(r.now())
}

// ActivelySoloing reports whether a solo session is in progress.
func (r *Recorder) ActivelySoloing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.soloing
}

// Len returns the number of stored accompaniments.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.accompaniments)
}

// IsEmpty reports whether no accompaniment has been stored yet.
func (r *Recorder) IsEmpty() bool {
	return r.Len() == 0
}

// Accompaniment returns the stored accompaniment at index i. Callers
// validate i against Len first; an out-of-range index panics.
func (r *Recorder) Accompaniment(i int) *Recording {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.accompaniments[i]
}

// SoloCount returns the number of stored solos.
func (r *Recorder) SoloCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.solos)
}

// Mode returns the current operating mode.
func (r *Recorder) Mode() RecordingMode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

// SetMode switches the operating mode. Stored recordings are untouched.
func (r *Recorder) SetMode(m RecordingMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mode == m {
		return
	}
	r.mode = m
	debug.Log("session", "mode -> %s", m.Text())
	r.notify()
}

// Timeout returns the phrase-segmentation silence gap in seconds.
func (r *Recorder) Timeout() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.timeout
}

// SetTimeout updates the silence gap. Non-positive values are ignored;
// the host clamps to its own range before calling.
func (r *Recorder) SetTimeout(seconds float64) {
	if seconds <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timeout = seconds
	r.notify()
}

// InputPortName returns the display name of the MIDI input port.
func (r *Recorder) InputPortName() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inputPortName
}

// Updates returns the coalesced change-notification channel for the UI.
func (r *Recorder) Updates() <-chan struct{} {
	return r.updates
}

func (r *Recorder) notify() {
	select {
	case r.updates <- struct{}{}:
	default:
	}
}
