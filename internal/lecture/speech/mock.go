package speech

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// MockEngine simulates narration with timers. Each utterance lasts as long as
// reading its words at WordsPerMinute (scaled by speed) would take.
type MockEngine struct {
	WordsPerMinute float64

	mu        sync.Mutex
	speed     float64
	current   *utterance
	timer     *time.Timer
	started   time.Time
	remaining time.Duration
	paused    bool
	release   func() bool
	spoken    []string
}

func NewMockEngine(c Config) *MockEngine {
	speed := c.Speed
	if speed <= 0 {
		speed = 1.0
	}
	return &MockEngine{
		WordsPerMinute: 150,
		speed:          speed,
	}
}

func (m *MockEngine) Speak(ctx context.Context, text string) (<-chan error, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		return nil, ErrAlreadySpeaking
	}

	words := len(strings.Fields(text))
	duration := time.Duration(float64(words) / (m.WordsPerMinute * m.speed) * float64(time.Minute))

	logrus.WithFields(logrus.Fields{
		"words":    words,
		"duration": duration,
	}).Debug("mock engine reading aloud")

	u := newUtterance()
	m.current = u
	m.spoken = append(m.spoken, text)
	m.paused = false
	m.remaining = duration
	m.started = time.Now()
	m.timer = time.AfterFunc(duration, func() { m.complete(u) })
	m.release = context.AfterFunc(ctx, func() { m.abort(u) })

	return u.done, nil
}

func (m *MockEngine) complete(u *utterance) {
	m.mu.Lock()
	if m.current != u {
		m.mu.Unlock()
		return
	}
	m.clearLocked()
	m.mu.Unlock()

	u.finish(nil)
}

func (m *MockEngine) abort(u *utterance) {
	m.mu.Lock()
	if m.current == u {
		m.timer.Stop()
		m.clearLocked()
	}
	m.mu.Unlock()

	u.finish(ErrCanceled)
}

func (m *MockEngine) clearLocked() {
	if m.release != nil {
		m.release()
	}
	m.current = nil
	m.timer = nil
	m.release = nil
	m.paused = false
}

func (m *MockEngine) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return ErrNotSpeaking
	}
	if m.paused {
		return nil
	}
	if m.timer.Stop() {
		m.remaining -= time.Since(m.started)
		if m.remaining < 0 {
			m.remaining = 0
		}
	}
	m.paused = true
	return nil
}

func (m *MockEngine) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.paused || m.current == nil {
		return nil
	}
	u := m.current
	m.started = time.Now()
	m.timer = time.AfterFunc(m.remaining, func() { m.complete(u) })
	m.paused = false
	return nil
}

func (m *MockEngine) Cancel() error {
	m.mu.Lock()
	u := m.current
	m.mu.Unlock()

	if u != nil {
		m.abort(u)
	}
	return nil
}

func (m *MockEngine) Available() error {
	return nil
}

func (m *MockEngine) Voices() ([]string, error) {
	return []string{"mock-voice"}, nil
}

// IsPaused reports whether the current utterance is paused.
func (m *MockEngine) IsPaused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

// Spoken returns every text passed to Speak, in order.
func (m *MockEngine) Spoken() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.spoken...)
}
