package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"
)

// DefaultSampleRate is used when the response does not state one.
const DefaultSampleRate = 24000

// PCM is raw signed 16-bit little-endian audio.
type PCM struct {
	Data       []byte
	SampleRate int
	Channels   int
}

type speechRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseModalities []string     `json:"responseModalities"`
	SpeechConfig       speechConfig `json:"speechConfig"`
}

type speechConfig struct {
	VoiceConfig struct {
		PrebuiltVoiceConfig struct {
			VoiceName string `json:"voiceName"`
		} `json:"prebuiltVoiceConfig"`
	} `json:"voiceConfig"`
}

type speechResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// SynthesizePCM turns text into speech with the configured Gemini TTS model
// and prebuilt voice.
func (c *Client) SynthesizePCM(ctx context.Context, text string) (PCM, error) {
	body := speechRequest{
		Contents: []content{{Parts: []part{{Text: text}}}},
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"AUDIO"},
		},
	}
	body.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName = c.cfg.Voice

	payload, err := json.Marshal(body)
	if err != nil {
		return PCM{}, err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.SpeechModel)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return PCM{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return PCM{}, classify(err)
	}
	defer resp.Body.Close()

	if err := googleapi.CheckResponse(resp); err != nil {
		return PCM{}, classify(err)
	}

	var decoded speechResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return PCM{}, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}

	pcm, err := extractPCM(decoded)
	if err != nil {
		return PCM{}, err
	}

	logrus.WithFields(logrus.Fields{
		"model":       c.cfg.SpeechModel,
		"bytes":       len(pcm.Data),
		"sample_rate": pcm.SampleRate,
		"duration":    time.Since(start).Round(time.Millisecond),
	}).Debug("gemini speech generated")

	return pcm, nil
}

func extractPCM(resp speechResponse) (PCM, error) {
	for _, candidate := range resp.Candidates {
		for _, p := range candidate.Content.Parts {
			if p.InlineData == nil || p.InlineData.Data == "" {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return PCM{}, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
			}
			return PCM{
				Data:       data,
				SampleRate: sampleRate(p.InlineData.MimeType),
				Channels:   1,
			}, nil
		}
	}
	return PCM{}, fmt.Errorf("%w: no audio in response", ErrInvalidOutput)
}

// sampleRate reads the rate parameter of a mime type like
// "audio/L16;codec=pcm;rate=24000".
func sampleRate(mimeType string) int {
	_, params, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return DefaultSampleRate
	}
	rate, err := strconv.Atoi(params["rate"])
	if err != nil || rate <= 0 {
		return DefaultSampleRate
	}
	return rate
}
