package audio

import (
	"context"

	"github.com/faiface/beep"

	"lectern/internal/gemini"
)

// PCMSource is the part of the Gemini client used for speech.
type PCMSource interface {
	SynthesizePCM(ctx context.Context, text string) (gemini.PCM, error)
}

// GeminiSynthesizer uses Gemini TTS, which returns raw PCM samples.
type GeminiSynthesizer struct {
	source   PCMSource
	maxChars int
}

func NewGeminiSynthesizer(source PCMSource, maxChars int) *GeminiSynthesizer {
	return &GeminiSynthesizer{source: source, maxChars: maxChars}
}

func (g *GeminiSynthesizer) Synthesize(ctx context.Context, text string) (Clip, error) {
	pcm, err := g.source.SynthesizePCM(ctx, text)
	if err != nil {
		return Clip{}, err
	}

	channels := max(pcm.Channels, 1)
	return Clip{
		Streamer: newPCMStreamer(pcm.Data, channels),
		Format: beep.Format{
			SampleRate:  beep.SampleRate(pcm.SampleRate),
			NumChannels: channels,
			Precision:   2,
		},
	}, nil
}

func (g *GeminiSynthesizer) MaxChars() int {
	return g.maxChars
}
