package speech

import (
	"fmt"
	"os"
	"runtime"
)

type EngineType string

const (
	EngineTypeMock        EngineType = "mock"
	EngineTypeESpeak      EngineType = "espeak"
	EngineTypeSAPI        EngineType = "sapi" // Windows only
	EngineTypeSay         EngineType = "say"  // macOS only
	EngineTypeGoogleCloud EngineType = "googlecloud"
	EngineTypeAuto        EngineType = "auto" // Automatically choose best for platform
)

func (e EngineType) String() string {
	return string(e)
}

// NewEngine creates a new speech engine based on the provided config.
// Errors caused by a missing platform capability wrap ErrUnavailable.
func NewEngine(config Config) (Engine, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	if config.Type == "" || config.Type == EngineTypeAuto.String() {
		config.Type = getBestEngineForPlatform().String()
	}

	switch config.Type {
	case EngineTypeMock.String():
		return NewMockEngine(config), nil

	case EngineTypeGoogleCloud.String():
		return newCloudEngine(config)

	case EngineTypeESpeak.String():
		return newESpeakEngine(config)

	case EngineTypeSAPI.String():
		return newSAPIEngine(config)

	case EngineTypeSay.String():
		if runtime.GOOS != "darwin" {
			return nil, fmt.Errorf("%w: say engine only supports macOS", ErrUnavailable)
		}
		return newSayEngine(config)

	default:
		return nil, fmt.Errorf("unsupported speech engine type: %s", config.Type)
	}
}

const (
	minSpeed = 0.1
	maxSpeed = 3.0
)

func validateConfig(config Config) error {
	if config.Speed < minSpeed || config.Speed > maxSpeed {
		return fmt.Errorf("speed must be between %.1f and %.1f, got %g", minSpeed, maxSpeed, config.Speed)
	}
	if config.Volume < 0 || config.Volume > 2.0 {
		return fmt.Errorf("volume must be between 0 and 2.0")
	}
	return nil
}

// getBestEngineForPlatform returns the recommended engine for the current platform
func getBestEngineForPlatform() EngineType {
	if hasGoogleCredentials() {
		return EngineTypeGoogleCloud
	}

	switch runtime.GOOS {
	case "windows":
		return EngineTypeSAPI
	case "darwin":
		return EngineTypeSay
	default:
		return EngineTypeESpeak // Cross-platform fallback
	}
}

// GetAvailableEngines returns engines available on the current platform
func GetAvailableEngines() []EngineType {
	engines := []EngineType{EngineTypeMock, EngineTypeESpeak}

	if hasGoogleCredentials() {
		engines = append(engines, EngineTypeGoogleCloud)
	}

	switch runtime.GOOS {
	case "windows":
		engines = append(engines, EngineTypeSAPI)
	case "darwin":
		engines = append(engines, EngineTypeSay)
	}

	return engines
}

// hasGoogleCredentials checks if Google Cloud credentials are available
func hasGoogleCredentials() bool {
	_, ok := os.LookupEnv("GOOGLE_APPLICATION_CREDENTIALS")
	return ok
}
