package session

// RecordingMode selects how the Recorder routes incoming events.
type RecordingMode int

const (
	// Playthrough passes events to the synth without storing anything.
	Playthrough RecordingMode = iota
	// Record segments live input into accompaniment phrases.
	Record
	// SoloOver replays a stored accompaniment while capturing live input
	// as a time-aligned solo.
	SoloOver
)

// Modes lists every mode in selection order (for the UI).
func Modes() []RecordingMode {
	return []RecordingMode{Playthrough, Record, SoloOver}
}

// Text returns the user-facing label for the mode.
func (m RecordingMode) Text() string {
	switch m {
	case Playthrough:
		return "Play Freely"
	case Record:
		return "Record Accompaniment"
	case SoloOver:
		return "Solo Over Recording"
	}
	return "Unknown"
}
