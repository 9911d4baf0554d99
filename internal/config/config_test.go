package config

import (
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestSetDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	SetDefaults()

	assert.Equal(t, "auto", viper.GetString("tts.type"))
	assert.Equal(t, 0.8, viper.GetFloat64("tts.volume"))
	assert.Equal(t, 4800, viper.GetInt("speech.max_chars"))
	assert.Equal(t, 7*24*time.Hour, viper.GetDuration("library.max_age"))
	assert.Equal(t, "gemini", viper.GetString("speech.provider"))
	assert.NotEmpty(t, viper.GetString("library.cache_dir"))
}

func TestLoadReadsEnvironment(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("LECTERN_TTS_VOICE", "en-GB-Standard-A")
	t.Setenv("GEMINI_API_KEY", "k-123")

	SetDefaults()
	Load()

	assert.Equal(t, "en-GB-Standard-A", viper.GetString("tts.voice"))
	assert.Equal(t, "k-123", viper.GetString("gemini.api_key"))
}

func TestSetupLogging(t *testing.T) {
	viper.Reset()
	prev := logrus.GetLevel()
	t.Cleanup(func() {
		viper.Reset()
		logrus.SetLevel(prev)
	})

	viper.Set("log.level", "debug")
	SetupLogging()
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	viper.Set("log.level", "loud")
	SetupLogging()
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}
