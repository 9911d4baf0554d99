package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func speechClient(url string) *Client {
	return &Client{
		cfg: Config{
			APIKey:      "test-key",
			SpeechModel: "tts-model",
			Voice:       "Algenib",
			BaseURL:     url,
		},
		http: http.DefaultClient,
	}
}

func TestSynthesizePCM(t *testing.T) {
	samples := []byte{0x01, 0x00, 0xff, 0x7f}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/tts-model:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var body speechRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"AUDIO"}, body.GenerationConfig.ResponseModalities)
		assert.Equal(t, "Algenib", body.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName)
		assert.Equal(t, "Hello class.", body.Contents[0].Parts[0].Text)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{
					"parts": []any{map[string]any{
						"inlineData": map[string]any{
							"mimeType": "audio/L16;codec=pcm;rate=16000",
							"data":     base64.StdEncoding.EncodeToString(samples),
						},
					}},
				},
			}},
		})
	}))
	defer srv.Close()

	pcm, err := speechClient(srv.URL).SynthesizePCM(context.Background(), "Hello class.")
	require.NoError(t, err)
	assert.Equal(t, samples, pcm.Data)
	assert.Equal(t, 16000, pcm.SampleRate)
	assert.Equal(t, 1, pcm.Channels)
}

func TestSynthesizePCMRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exhausted"}}`))
	}))
	defer srv.Close()

	_, err := speechClient(srv.URL).SynthesizePCM(context.Background(), "Hi.")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestSynthesizePCMWithoutAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"sorry"}]}}]}`))
	}))
	defer srv.Close()

	_, err := speechClient(srv.URL).SynthesizePCM(context.Background(), "Hi.")
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestSampleRate(t *testing.T) {
	assert.Equal(t, 24000, sampleRate("audio/L16;codec=pcm;rate=24000"))
	assert.Equal(t, DefaultSampleRate, sampleRate("audio/L16"))
	assert.Equal(t, DefaultSampleRate, sampleRate("not a mime;;"))
}
