package session

import (
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-improv/midi"
)

// TimedMsg is one captured message, stamped in seconds relative to the
// start of its Recording.
type TimedMsg struct {
	Offset float64
	Msg    gomidi.Message
}

// Recording is an append-only sequence of timed MIDI messages forming one
// phrase. Offsets are non-negative and non-decreasing in append order.
type Recording struct {
	events []TimedMsg
}

// AddMessage appends msg at the given offset. Negative offsets are
// clamped to zero (clock jitter around a phrase boundary).
func (r *Recording) AddMessage(offset float64, msg gomidi.Message) {
	if offset < 0 {
		offset = 0
	}
	r.events = append(r.events, TimedMsg{Offset: offset, Msg: msg})
}

// Len returns the number of captured messages.
func (r *Recording) Len() int {
	return len(r.events)
}

// IsEmpty reports whether nothing has been captured yet.
func (r *Recording) IsEmpty() bool {
	return len(r.events) == 0
}

// Duration returns the offset of the last message, which is the phrase
// length in seconds. An empty recording has duration zero.
func (r *Recording) Duration() float64 {
	if len(r.events) == 0 {
		return 0
	}
	return r.events[len(r.events)-1].Offset
}

// Events returns the captured messages in append order. The slice is
// shared; callers must treat it as read-only.
func (r *Recording) Events() []TimedMsg {
	return r.events
}

// Clone returns a deep copy safe to hand to another goroutine.
func (r *Recording) Clone() *Recording {
	events := make([]TimedMsg, len(r.events))
	copy(events, r.events)
	return &Recording{events: events}
}

// Playback replays the recording into out with the original inter-event
// offsets, sleeping between messages. tag wraps each raw message for its
// sink. Playback blocks until the last message has been pushed.
func (r *Recording) Playback(out *midi.Queue, tag func(gomidi.Message) midi.Msg) {
	start := time.Now()
	for _, ev := range r.events {
		due := time.Duration(ev.Offset * float64(time.Second))
		if wait := due - time.Since(start); wait > 0 {
			time.Sleep(wait)
		}
		out.Push(tag(ev.Msg))
	}
}
