package narration

import (
	"errors"
	"fmt"
)

type State int

const (
	StateIdle State = iota
	StateSpeaking
	StatePaused
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSpeaking:
		return "speaking"
	case StatePaused:
		return "paused"
	case StateEnded:
		return "ended"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// NoIndex is the position reported while Idle or Ended.
const NoIndex = -1

// Status is the observable playback position.
type Status struct {
	State    State  `json:"status"`
	Index    int    `json:"currentIndex"`
	Total    int    `json:"total"`
	Sentence string `json:"sentence,omitempty"`
}

var (
	ErrEngineUnavailable = errors.New("speech engine unavailable")
	ErrNotSpeaking       = errors.New("not currently speaking")
	ErrAlreadySpeaking   = errors.New("already speaking")
	ErrIndexOutOfRange   = errors.New("sentence index out of range")
	ErrClosed            = errors.New("narration controller closed")
	ErrPreempted         = errors.New("speech engine taken over by another session")
)

// EngineError reports a failed utterance. Narration has already been stopped
// when it is delivered.
type EngineError struct {
	Index    int
	Sentence string
	Err      error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("speech failed at sentence %d: %v", e.Index+1, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}
