package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"github.com/faiface/beep/mp3"
	texttospeechpb "google.golang.org/genproto/googleapis/cloud/texttospeech/v1"

	"lectern/internal/lecture/speech"
)

// CloudSynthesizer uses Google Cloud Text-to-Speech and decodes its MP3 output.
type CloudSynthesizer struct {
	client   *texttospeech.Client
	voice    string
	language string
	maxChars int
}

func NewCloudSynthesizer(ctx context.Context, voice string, maxChars int) (*CloudSynthesizer, error) {
	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create TTS client: %w", err)
	}
	return &CloudSynthesizer{
		client:   client,
		voice:    voice,
		language: speech.LanguageCode(voice),
		maxChars: maxChars,
	}, nil
}

func (c *CloudSynthesizer) Synthesize(ctx context.Context, text string) (Clip, error) {
	resp, err := c.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: c.language,
			Name:         c.voice,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	})
	if err != nil {
		return Clip{}, fmt.Errorf("failed to synthesize speech: %w", err)
	}

	streamer, format, err := mp3.Decode(io.NopCloser(bytes.NewReader(resp.AudioContent)))
	if err != nil {
		return Clip{}, fmt.Errorf("failed to decode MP3: %w", err)
	}
	return Clip{Streamer: streamer, Format: format}, nil
}

func (c *CloudSynthesizer) MaxChars() int {
	return c.maxChars
}

func (c *CloudSynthesizer) Close() error {
	return c.client.Close()
}
