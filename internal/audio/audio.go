package audio

import (
	"context"
	"errors"

	"github.com/faiface/beep"
)

var ErrEmptyText = errors.New("nothing to synthesize")

// Clip is decoded audio ready to be re-encoded.
type Clip struct {
	Streamer beep.Streamer
	Format   beep.Format
}

// Synthesizer turns text into audio in one request.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (Clip, error)
	// MaxChars is the largest input the provider accepts.
	MaxChars() int
}

// Truncate cuts text to at most limit runes. A non-positive limit disables it.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
