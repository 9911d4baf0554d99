package speech

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastMock() *MockEngine {
	m := NewMockEngine(Config{Speed: 1})
	m.WordsPerMinute = 60000 // one word per millisecond
	return m
}

func TestMockEngineCompletes(t *testing.T) {
	m := fastMock()

	done, err := m.Speak(context.Background(), "one two three")
	require.NoError(t, err)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("utterance never completed")
	}
	assert.Equal(t, []string{"one two three"}, m.Spoken())
}

func TestMockEngineRejectsOverlappingSpeech(t *testing.T) {
	m := NewMockEngine(Config{Speed: 1})

	_, err := m.Speak(context.Background(), "first sentence here")
	require.NoError(t, err)

	_, err = m.Speak(context.Background(), "second")
	assert.ErrorIs(t, err, ErrAlreadySpeaking)
	require.NoError(t, m.Cancel())
}

func TestMockEngineContextCancels(t *testing.T) {
	m := NewMockEngine(Config{Speed: 1})
	ctx, cancel := context.WithCancel(context.Background())

	done, err := m.Speak(ctx, "a long sentence to read")
	require.NoError(t, err)

	cancel()
	assert.ErrorIs(t, <-done, ErrCanceled)

	// engine is free again
	_, err = m.Speak(context.Background(), "next")
	assert.NoError(t, err)
	require.NoError(t, m.Cancel())
}

func TestMockEnginePauseHoldsCompletion(t *testing.T) {
	m := NewMockEngine(Config{Speed: 1})
	m.WordsPerMinute = 6000 // 10ms per word

	done, err := m.Speak(context.Background(), "one two three four five")
	require.NoError(t, err)
	require.NoError(t, m.Pause())
	assert.True(t, m.IsPaused())

	select {
	case <-done:
		t.Fatal("paused utterance completed")
	case <-time.After(150 * time.Millisecond):
	}

	require.NoError(t, m.Resume())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("resumed utterance never completed")
	}
}

func TestMockEnginePauseWithoutSpeech(t *testing.T) {
	m := NewMockEngine(Config{Speed: 1})
	assert.ErrorIs(t, m.Pause(), ErrNotSpeaking)
	assert.NoError(t, m.Resume())
	assert.NoError(t, m.Cancel())
}
