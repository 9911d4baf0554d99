package hall

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lectern/internal/audio"
	"lectern/internal/cli/scheme/colours"
	"lectern/internal/lecture/speech"
)

const defaultCloudVoice = "en-US-Neural2-D"

// newSynthesizer builds the batch synthesizer named by speech.provider. The
// returned close func releases provider resources.
func (h *Hall) newSynthesizer() (audio.Synthesizer, func(), error) {
	maxChars := viper.GetInt("speech.max_chars")

	switch provider := viper.GetString("speech.provider"); provider {
	case "gemini":
		client, err := h.geminiClient()
		if err != nil {
			return nil, nil, err
		}
		return audio.NewGeminiSynthesizer(client, maxChars), func() {}, nil

	case "googlecloud":
		voice := viper.GetString("tts.voice")
		if voice == "" || voice == "default" {
			voice = defaultCloudVoice
		}
		synth, err := audio.NewCloudSynthesizer(h.ctx, voice, maxChars)
		if err != nil {
			return nil, nil, err
		}
		return synth, func() { _ = synth.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported speech provider: %s", provider)
	}
}

// Speak converts a lecture script to a WAV file.
func (h *Hall) Speak(cmd *cobra.Command, args []string) {
	output, _ := cmd.Flags().GetString("output")

	script, err := readScript(args[0])
	if err != nil {
		colours.Error.Printf("❌ %v\n", err)
		return
	}

	synth, closeSynth, err := h.newSynthesizer()
	if err != nil {
		colours.Error.Printf("❌ Speech synthesis is not available: %v\n", err)
		return
	}
	defer closeSynth()

	colours.Info.Printf("🎙️  Recording %q...\n", script.Title)
	wav, err := audio.NewService(synth).Convert(h.ctx, *script)
	if err != nil {
		printLoadError(err)
		return
	}

	if err := os.WriteFile(output, wav, 0o644); err != nil {
		colours.Error.Printf("❌ Failed to write %s: %v\n", output, err)
		return
	}
	colours.Success.Printf("✅ Saved %s (%d bytes)\n", output, len(wav))
}

// Voices lists the voices of the configured speech engine.
func (h *Hall) Voices(cmd *cobra.Command, args []string) {
	arbiter, err := h.speechArbiter()
	if err != nil {
		colours.Error.Printf("❌ Speech engine not available: %v\n", err)
		return
	}
	engine := arbiter.Engine()

	voices, err := engine.Voices()
	if err != nil {
		colours.Error.Printf("❌ Failed to list voices: %v\n", err)
		return
	}

	fmt.Println()
	colours.Title.Println("🎤 Available Voices 🎤")
	fmt.Println()
	for _, v := range voices {
		fmt.Printf("  • %s\n", v)
	}
	fmt.Println()
	colours.Info.Printf("💡 Set tts.voice in lectern.yaml to choose one (current: %s)\n", viper.GetString("tts.voice"))

	if cacheable, ok := engine.(speech.CacheableEngine); ok {
		printSpeechCache(cacheable)
	}
}

func printSpeechCache(engine speech.CacheableEngine) {
	stats, err := engine.CacheStats()
	if err != nil {
		colours.Warning.Printf("⚠️ Could not read speech cache: %v\n", err)
		return
	}
	fmt.Println()
	colours.Title.Println("📊 Speech Cache")
	colours.Info.Printf("📁 Location: %s\n", stats["cache_directory"])
	colours.Info.Printf("🔊 Clips: %d (%.2f MB)\n", stats["cached_files"], stats["total_size_mb"])
}
