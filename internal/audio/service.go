package audio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"lectern/internal/domain/lecture"
	"lectern/internal/lecture/narration"
)

// Service converts whole lecture scripts to downloadable WAV audio.
type Service struct {
	synth Synthesizer
}

func NewService(synth Synthesizer) *Service {
	return &Service{synth: synth}
}

// Convert narrates script in a single synthesis request. Text beyond the
// provider limit is cut off.
func (s *Service) Convert(ctx context.Context, script lecture.Script) ([]byte, error) {
	return s.ConvertText(ctx, strings.Join(narration.BuildSentenceQueue(script), " "))
}

func (s *Service) ConvertText(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	limited := Truncate(text, s.synth.MaxChars())
	if len(limited) < len(text) {
		logrus.WithFields(logrus.Fields{
			"chars": len([]rune(text)),
			"limit": s.synth.MaxChars(),
		}).Warn("lecture text truncated for speech synthesis")
	}

	start := time.Now()
	clip, err := s.synth.Synthesize(ctx, limited)
	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}

	data, err := EncodeWAV(clip)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"bytes":       len(data),
		"sample_rate": clip.Format.SampleRate,
		"duration":    time.Since(start).Round(time.Millisecond),
	}).Info("lecture audio ready")
	return data, nil
}
