package speech

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrCanceled is delivered on a completion channel when the utterance was
	// cancelled through its context or Cancel.
	ErrCanceled = errors.New("utterance canceled")
	// ErrUnavailable means the platform cannot provide speech output.
	ErrUnavailable      = errors.New("speech engine unavailable")
	ErrNotSpeaking      = errors.New("no active utterance")
	ErrAlreadySpeaking  = errors.New("already speaking")
	ErrPauseUnsupported = errors.New("pause not supported by this engine")
)

type Config struct {
	Type      string
	Speed     float64
	Volume    float64
	Voice     string
	CachePath string
}

// Engine speaks one utterance at a time.
//
// Speak starts narrating text and returns a channel that receives exactly one
// value when the utterance ends: nil when it finished normally, ErrCanceled
// when ctx was cancelled or Cancel was called, any other error on failure.
// Cancelling ctx is the per-utterance cancellation token.
type Engine interface {
	Speak(ctx context.Context, text string) (<-chan error, error)
	Pause() error
	Resume() error
	Cancel() error
	Available() error
	Voices() ([]string, error)
}

// CacheableEngine extends Engine with cache management capabilities
type CacheableEngine interface {
	Engine
	CacheStats() (map[string]interface{}, error)
	ClearCache() error
}

// utterance resolves a completion channel exactly once.
type utterance struct {
	done chan error
	once sync.Once
}

func newUtterance() *utterance {
	return &utterance{done: make(chan error, 1)}
}

func (u *utterance) finish(err error) {
	u.once.Do(func() {
		u.done <- err
		close(u.done)
	})
}
