package hall

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"lectern/internal/cli/scheme/colours"
	"lectern/internal/domain/library/generator"
	"lectern/internal/gemini"
	"lectern/internal/lecture/narration"
	"lectern/internal/lecture/speech"
)

// Hall is the lecture hall CLI application. Collaborators are created on
// first use so commands that do not need speech or Gemini work without them.
type Hall struct {
	ctx    context.Context
	cancel context.CancelFunc
	input  io.Reader

	mu        sync.Mutex
	arbiter   *speech.Arbiter
	engineErr error
	client    *gemini.Client
	active    *narration.Controller
	shutdown  sync.Once
}

func New() *Hall {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hall{
		ctx:    ctx,
		cancel: cancel,
		input:  os.Stdin,
	}
}

// Shutdown stops any narration and cancels in-flight work. Only the first
// call has an effect.
func (h *Hall) Shutdown() {
	h.shutdown.Do(h.shutdownOnce)
}

func (h *Hall) shutdownOnce() {
	h.cancel()

	h.mu.Lock()
	active := h.active
	client := h.client
	h.mu.Unlock()

	if active != nil {
		active.Stop()
	}
	if client != nil {
		_ = client.Close()
	}
}

func (h *Hall) ShowWelcome() {
	fmt.Println()
	colours.Title.Println("🎓 Welcome to Lectern! 🎓")
	fmt.Println()
	colours.Info.Println("📚 Available commands:")
	fmt.Println("  • lectern lecture <topic>   - Generate a lecture and listen to it")
	fmt.Println("  • lectern read <file.json>  - Narrate a saved lecture script")
	fmt.Println("  • lectern list              - Browse lectures in your library")
	fmt.Println("  • lectern ask <question>    - Ask the AI tutor")
	fmt.Println("  • lectern speak <file.json> - Save a lecture as WAV audio")
	fmt.Println("  • lectern voices            - List voices of the speech engine")
	fmt.Println("  • lectern serve             - Run the HTTP API")
	fmt.Println()
	colours.Prompt.Println("✨ Ready to learn something new? ✨")
}

// speechConfig reads the tts.* keys.
func speechConfig() speech.Config {
	return speech.Config{
		Type:      viper.GetString("tts.type"),
		Voice:     viper.GetString("tts.voice"),
		Speed:     viper.GetFloat64("tts.speed"),
		Volume:    viper.GetFloat64("tts.volume"),
		CachePath: viper.GetString("tts.cache_path"),
	}
}

// speechArbiter creates the process-wide engine once.
func (h *Hall) speechArbiter() (*speech.Arbiter, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.arbiter == nil && h.engineErr == nil {
		engine, err := speech.NewEngine(speechConfig())
		if err != nil {
			logrus.WithError(err).Warn("speech engine not available")
			h.engineErr = err
		} else {
			h.arbiter = speech.NewArbiter(engine)
		}
	}
	return h.arbiter, h.engineErr
}

func (h *Hall) geminiClient() (*gemini.Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.client != nil {
		return h.client, nil
	}
	client, err := gemini.NewClient(h.ctx, gemini.ConfigFromViper())
	if err != nil {
		return nil, err
	}
	h.client = client
	return client, nil
}

// lectureCache opens the lecture library. gen may be nil for commands that
// only read or clear the library.
func lectureCache(gen generator.LectureGenerator) *generator.LectureCache {
	return generator.NewLectureCache(
		viper.GetString("library.cache_dir"),
		viper.GetDuration("library.max_age"),
		gen,
	)
}

func (h *Hall) setActive(c *narration.Controller) {
	h.mu.Lock()
	h.active = c
	h.mu.Unlock()
}

func printMissingKey() {
	colours.Error.Println("❌ No Gemini API key configured.")
	colours.Info.Println("💡 Set GEMINI_API_KEY or gemini.api_key in lectern.yaml")
}
