package speech

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// newSayEngine narrates with the macOS `say` command.
func newSayEngine(config Config) (Engine, error) {
	sayPath, err := exec.LookPath("say")
	if err != nil {
		return nil, fmt.Errorf("%w: say not found in PATH", ErrUnavailable)
	}

	return &processEngine{
		name:   "say",
		binary: sayPath,
		build: func(ctx context.Context, text string) *exec.Cmd {
			cmd := exec.CommandContext(ctx, sayPath, sayArgs(config)...)
			cmd.Stdin = strings.NewReader(text)
			return cmd
		},
		voices: func() ([]string, error) {
			output, err := exec.Command(sayPath, "-v", "?").Output()
			if err != nil {
				return nil, err
			}
			return parseSayVoices(string(output)), nil
		},
	}, nil
}

func sayArgs(config Config) []string {
	args := []string{}

	if config.Voice != "" && config.Voice != "default" {
		args = append(args, "-v", config.Voice)
	}

	// words per minute, default is ~175
	args = append(args, "-r", fmt.Sprintf("%.0f", 175*config.Speed))

	return append(args, "-f", "-")
}

// "Alex                en_US    # Most people recognize me by my voice."
var sayVoiceLine = regexp.MustCompile(`^(.+?)\s{2,}[a-z]{2,3}[_-][A-Za-z0-9]+\s+#`)

func parseSayVoices(output string) []string {
	voices := make([]string, 0)
	for _, line := range strings.Split(output, "\n") {
		if m := sayVoiceLine.FindStringSubmatch(line); m != nil {
			voices = append(voices, strings.TrimSpace(m[1]))
		}
	}
	return voices
}
