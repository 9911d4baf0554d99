// Cross-platform eSpeak implementation
package speech

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// newESpeakEngine creates a new eSpeak TTS engine
func newESpeakEngine(config Config) (Engine, error) {
	espeakPath, err := findESpeakExecutable()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// Test the installation
	if err := exec.Command(espeakPath, "--version").Run(); err != nil {
		return nil, fmt.Errorf("%w: eSpeak test failed: %v", ErrUnavailable, err)
	}

	return &processEngine{
		name:   "espeak",
		binary: espeakPath,
		build: func(ctx context.Context, text string) *exec.Cmd {
			cmd := exec.CommandContext(ctx, espeakPath, espeakArgs(config)...)
			cmd.Stdin = strings.NewReader(text)
			return cmd
		},
		voices: func() ([]string, error) {
			output, err := exec.Command(espeakPath, "--voices").Output()
			if err != nil {
				return nil, err
			}
			return parseESpeakVoices(string(output)), nil
		},
	}, nil
}

func findESpeakExecutable() (string, error) {
	candidates := []string{"espeak-ng", "espeak"}

	for _, candidate := range candidates {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("eSpeak executable not found in PATH")
}

func espeakArgs(config Config) []string {
	args := []string{}

	if config.Voice != "" && config.Voice != "default" {
		args = append(args, "-v", config.Voice)
	}

	// words per minute, default is 175
	args = append(args, "-s", strconv.Itoa(int(175*config.Speed)))

	// amplitude 0-200, default is 100
	args = append(args, "-a", strconv.Itoa(int(100*config.Volume)))

	return append(args, "--stdin")
}

func parseESpeakVoices(output string) []string {
	lines := strings.Split(output, "\n")
	voices := make([]string, 0)

	for i, line := range lines {
		// Skip header line
		if i == 0 || strings.TrimSpace(line) == "" {
			continue
		}

		// Pty Language Age/Gender VoiceName File Other Languages
		fields := strings.Fields(line)
		if len(fields) >= 4 {
			voices = append(voices, fields[3])
		}
	}

	return voices
}
