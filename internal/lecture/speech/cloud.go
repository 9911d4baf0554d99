package speech

import (
	"bytes"
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/sirupsen/logrus"
	texttospeechpb "google.golang.org/genproto/googleapis/cloud/texttospeech/v1"
)

const (
	defaultCloudVoice = "en-US-Chirp3-HD-Charon"
	speakerRate       = beep.SampleRate(44100)
)

// CloudEngine synthesizes each sentence with Google Cloud Text-to-Speech,
// caches the MP3 on disk and plays it through the beep speaker.
type CloudEngine struct {
	client       *texttospeech.Client
	config       Config
	cacheRootDir string

	mu           sync.Mutex
	current      *utterance
	ctrl         *beep.Ctrl
	streamer     beep.StreamSeekCloser
	paused       bool
	release      func() bool
	speakerReady bool
}

func newCloudEngine(config Config) (*CloudEngine, error) {
	client, err := texttospeech.NewClient(context.Background())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create TTS client: %v", ErrUnavailable, err)
	}

	if err := os.MkdirAll(config.CachePath, 0755); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}

	if config.Voice == "" || config.Voice == "default" {
		config.Voice = defaultCloudVoice
	}

	return &CloudEngine{
		client:       client,
		config:       config,
		cacheRootDir: config.CachePath,
	}, nil
}

// Speak returns immediately; synthesis and playback happen in the background so
// a slow network round trip never blocks the caller.
func (g *CloudEngine) Speak(ctx context.Context, text string) (<-chan error, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.current != nil {
		return nil, ErrAlreadySpeaking
	}

	u := newUtterance()
	g.current = u
	g.paused = false
	g.release = context.AfterFunc(ctx, func() { g.abort(u) })

	go g.run(ctx, u, text)
	return u.done, nil
}

func (g *CloudEngine) run(ctx context.Context, u *utterance, text string) {
	audio, err := g.audioFor(ctx, text)
	if err != nil {
		g.fail(u, err)
		return
	}

	streamer, format, err := mp3.Decode(io.NopCloser(bytes.NewReader(audio)))
	if err != nil {
		g.fail(u, fmt.Errorf("failed to decode MP3: %w", err))
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.current != u {
		streamer.Close()
		return
	}

	if !g.speakerReady {
		if err := speaker.Init(speakerRate, speakerRate.N(time.Second/10)); err != nil {
			streamer.Close()
			g.clearLocked()
			u.finish(fmt.Errorf("failed to init speaker: %w", err))
			return
		}
		g.speakerReady = true
	}

	g.streamer = streamer
	g.ctrl = &beep.Ctrl{
		Streamer: beep.Resample(4, format.SampleRate, speakerRate, streamer),
		Paused:   g.paused,
	}
	speaker.Play(beep.Seq(g.ctrl, beep.Callback(func() {
		// runs on the speaker goroutine with the speaker lock held
		go g.complete(u)
	})))
}

func (g *CloudEngine) complete(u *utterance) {
	g.mu.Lock()
	if g.current != u {
		g.mu.Unlock()
		return
	}
	g.clearLocked()
	g.mu.Unlock()

	u.finish(nil)
}

func (g *CloudEngine) fail(u *utterance, err error) {
	g.mu.Lock()
	if g.current == u {
		g.clearLocked()
	}
	g.mu.Unlock()

	u.finish(err)
}

func (g *CloudEngine) abort(u *utterance) {
	g.mu.Lock()
	if g.current == u {
		if g.speakerReady {
			speaker.Clear()
		}
		g.clearLocked()
	}
	g.mu.Unlock()

	u.finish(ErrCanceled)
}

func (g *CloudEngine) clearLocked() {
	if g.streamer != nil {
		g.streamer.Close()
	}
	if g.release != nil {
		g.release()
	}
	g.current = nil
	g.ctrl = nil
	g.streamer = nil
	g.release = nil
	g.paused = false
}

func (g *CloudEngine) Pause() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.current == nil {
		return ErrNotSpeaking
	}
	g.paused = true
	if g.ctrl != nil {
		speaker.Lock()
		g.ctrl.Paused = true
		speaker.Unlock()
	}
	return nil
}

func (g *CloudEngine) Resume() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.paused = false
	if g.ctrl != nil {
		speaker.Lock()
		g.ctrl.Paused = false
		speaker.Unlock()
	}
	return nil
}

func (g *CloudEngine) Cancel() error {
	g.mu.Lock()
	u := g.current
	g.mu.Unlock()

	if u != nil {
		g.abort(u)
	}
	return nil
}

func (g *CloudEngine) Available() error {
	return nil
}

func (g *CloudEngine) Voices() ([]string, error) {
	resp, err := g.client.ListVoices(context.Background(), &texttospeechpb.ListVoicesRequest{})
	if err != nil {
		return nil, err
	}
	voices := []string{}
	for _, v := range resp.Voices {
		voices = append(voices, v.Name)
	}
	return voices, nil
}

// audioFor returns MP3 bytes for text, from the cache when possible.
func (g *CloudEngine) audioFor(ctx context.Context, text string) ([]byte, error) {
	path := filepath.Join(g.cacheRootDir, g.cacheFileName(text))
	if data, err := os.ReadFile(path); err == nil {
		return data, nil
	}

	resp, err := g.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: LanguageCode(g.config.Voice),
			Name:         g.config.Voice,
		},
		AudioConfig: g.audioConfig(),
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ErrCanceled
		}
		return nil, fmt.Errorf("failed to synthesize: %w", err)
	}

	if err := os.WriteFile(path, resp.AudioContent, 0644); err != nil {
		logrus.WithError(err).WithField("path", path).Warn("failed to cache synthesized audio")
	}
	return resp.AudioContent, nil
}

func (g *CloudEngine) audioConfig() *texttospeechpb.AudioConfig {
	cfg := &texttospeechpb.AudioConfig{
		AudioEncoding: texttospeechpb.AudioEncoding_MP3,
	}
	// Chirp voices don't support speakingRate/volume gain
	if !strings.Contains(strings.ToLower(g.config.Voice), "chirp") {
		cfg.SpeakingRate = g.config.Speed
		cfg.VolumeGainDb = volumeGainDb(g.config.Volume)
	}
	return cfg
}

func (g *CloudEngine) cacheFileName(text string) string {
	key := fmt.Sprintf("%s|%s|%.2f|%.2f", text, g.config.Voice, g.config.Speed, g.config.Volume)
	return md5Sum(key)[:16] + ".mp3"
}

// CacheStats returns cache statistics for the engine
func (g *CloudEngine) CacheStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var totalFiles int64
	var totalSize int64

	err := filepath.Walk(g.cacheRootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Continue walking despite errors
		}
		if !info.IsDir() && strings.HasSuffix(strings.ToLower(info.Name()), ".mp3") {
			totalFiles++
			totalSize += info.Size()
		}
		return nil
	})
	if err != nil {
		return stats, err
	}

	stats["cache_directory"] = g.cacheRootDir
	stats["cached_files"] = totalFiles
	stats["total_size_mb"] = float64(totalSize) / (1024 * 1024)
	return stats, nil
}

// ClearCache removes all cached files
func (g *CloudEngine) ClearCache() error {
	return os.RemoveAll(g.cacheRootDir)
}

// LanguageCode takes the locale prefix of a voice name such as en-US-Neural2-C.
func LanguageCode(voice string) string {
	parts := strings.SplitN(voice, "-", 3)
	if len(parts) >= 2 && len(parts[0]) >= 2 && len(parts[1]) >= 2 {
		return parts[0] + "-" + parts[1]
	}
	return "en-US"
}

// volumeGainDb maps a 0..2 linear volume onto the API's -96..16 dB range.
func volumeGainDb(volume float64) float64 {
	if volume <= 0 {
		return -96
	}
	db := 20 * math.Log10(volume)
	if db > 16 {
		return 16
	}
	if db < -96 {
		return -96
	}
	return db
}

func md5Sum(s string) string {
	h := md5.New()
	io.WriteString(h, s)
	return fmt.Sprintf("%x", h.Sum(nil))
}
