package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// SetDefaults registers every configuration key with its default value.
func SetDefaults() {
	cacheDir := CacheDirectory()

	viper.SetDefault("tts.type", "auto") // Auto-select best engine
	viper.SetDefault("tts.voice", "default")
	viper.SetDefault("tts.speed", 1.0)
	viper.SetDefault("tts.volume", 0.8)
	viper.SetDefault("tts.cache_path", filepath.Join(cacheDir, "speech"))

	viper.SetDefault("gemini.api_key", "")
	viper.SetDefault("gemini.model", "gemini-2.0-flash")
	viper.SetDefault("gemini.tts_model", "gemini-2.5-flash-preview-tts")
	viper.SetDefault("gemini.tts_voice", "Algenib")
	viper.SetDefault("gemini.timeout", 60*time.Second)

	viper.SetDefault("speech.provider", "gemini")
	viper.SetDefault("speech.max_chars", 4800)

	viper.SetDefault("library.cache_dir", filepath.Join(cacheDir, "lectures"))
	viper.SetDefault("library.max_age", 7*24*time.Hour)

	viper.SetDefault("tutor.history_path", filepath.Join(cacheDir, "history.json"))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("server.request_logs", true)

	viper.SetDefault("log.level", "info")
}

// Load reads .env files, the optional lectern.yaml and the environment.
// A missing config file is not an error.
func Load() {
	loadDotEnv()

	viper.SetConfigName("lectern")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.lectern")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("lectern")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("gemini.api_key", "LECTERN_GEMINI_API_KEY", "GEMINI_API_KEY")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			logrus.WithError(err).Warn("failed to read config file")
		}
	}
}

// loadDotEnv loads .env and, when LECTERN_ENV is set, .env.<env> on top of it.
// Variables already present in the environment win.
func loadDotEnv() {
	files := []string{".env"}
	if env := os.Getenv("LECTERN_ENV"); env != "" {
		files = append([]string{".env." + strings.ToLower(env)}, files...)
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			logrus.WithError(err).WithField("file", f).Warn("failed to load env file")
		}
	}
}

// SetupLogging applies log.level to the package-level logrus logger.
func SetupLogging() {
	level, err := logrus.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		logrus.WithError(err).Warn("invalid log.level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// CacheDirectory returns the appropriate cache directory
func CacheDirectory() string {
	if cacheDir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(cacheDir, "lectern")
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".lectern", "cache")
	}

	if cwd, err := os.Getwd(); err == nil {
		return filepath.Join(cwd, "cache")
	}

	return "cache"
}
