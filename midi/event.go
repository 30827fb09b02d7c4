package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"
)

// Speaker routes a message to one or both sides of a stereo synth.
// A plain MIDI output has no use for the tag; it exists so a stereo
// synthesis sink can split voices without re-parsing the message.
type Speaker int

const (
	SpeakerLeft Speaker = iota
	SpeakerRight
	SpeakerBoth
)

// Msg is a raw MIDI message tagged with its synth routing.
type Msg struct {
	Message gomidi.Message
	Speaker Speaker
}

// MIDI channel-mode controller 123 (all notes off).
const allNotesOffController = 123

// AllNotesOff builds the synthetic message that silences every sounding
// note. The solo playback goroutine pushes one of these onto the incoming
// queue when a backing recording finishes.
func AllNotesOff(speaker Speaker) Msg {
	return Msg{
		Message: gomidi.ControlChange(0, allNotesOffController, 0),
		Speaker: speaker,
	}
}

// IsAllNotesOff reports whether m carries the all-notes-off controller.
func (m Msg) IsAllNotesOff() bool {
	var ch, ctl, val uint8
	return m.Message.GetControlChange(&ch, &ctl, &val) && ctl == allNotesOffController
}

// IsNoteOn reports whether m is a note-on with nonzero velocity.
func (m Msg) IsNoteOn() bool {
	var ch, key, vel uint8
	return m.Message.GetNoteOn(&ch, &key, &vel) && vel > 0
}
