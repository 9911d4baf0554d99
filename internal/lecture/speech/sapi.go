package speech

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// newSAPIEngine narrates through System.Speech via PowerShell on Windows.
func newSAPIEngine(config Config) (Engine, error) {
	if runtime.GOOS != "windows" {
		return nil, fmt.Errorf("%w: SAPI engine only supports Windows", ErrUnavailable)
	}
	psPath, err := exec.LookPath("powershell")
	if err != nil {
		return nil, fmt.Errorf("%w: powershell not found in PATH", ErrUnavailable)
	}

	return &processEngine{
		name:   "sapi",
		binary: psPath,
		build: func(ctx context.Context, text string) *exec.Cmd {
			cmd := exec.CommandContext(ctx, psPath, "-NoProfile", "-Command", sapiScript(config))
			// text goes over stdin so it never has to be quoted into the script
			cmd.Stdin = strings.NewReader(text)
			return cmd
		},
		voices: func() ([]string, error) {
			return []string{"Microsoft David", "Microsoft Zira", "Microsoft Mark"}, nil
		},
	}, nil
}

func sapiScript(config Config) string {
	var b strings.Builder
	b.WriteString("Add-Type -AssemblyName System.Speech; ")
	b.WriteString("$synth = New-Object System.Speech.Synthesis.SpeechSynthesizer; ")
	// SAPI rate range is -10 to 10, volume 0 to 100
	fmt.Fprintf(&b, "$synth.Rate = %d; ", clampInt(int(config.Speed*10)-10, -10, 10))
	fmt.Fprintf(&b, "$synth.Volume = %d; ", clampInt(int(config.Volume*100), 0, 100))
	if config.Voice != "" && config.Voice != "default" {
		fmt.Fprintf(&b, "$synth.SelectVoice('%s'); ", strings.ReplaceAll(config.Voice, "'", "''"))
	}
	b.WriteString("$synth.Speak([Console]::In.ReadToEnd())")
	return b.String()
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
