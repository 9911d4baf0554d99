package hall

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"lectern/internal/cli/lectureview"
	"lectern/internal/cli/scheme/colours"
	"lectern/internal/lecture/narration"
)

// narratePlain narrates without the full screen view: the active sentence is
// printed as it starts and commands are read line by line.
func (h *Hall) narratePlain(n lectureview.Narrator, load lectureview.Loader, notices <-chan error) {
	colours.Info.Println("⏳ Preparing your lecture...")
	script, err := load(h.ctx)
	if err != nil {
		printLoadError(err)
		return
	}
	n.Load(*script)

	fmt.Println()
	colours.Title.Printf("📖 %s\n", script.Title)
	fmt.Printf("🗣️  %d sentences\n", len(n.Sentences()))
	fmt.Println()
	colours.Success.Println("🎵 Starting lecture playback... 🎵")
	fmt.Println("💡 Type 'p' to pause/resume, 'n'/'b' to skip, 'r' to restart, 's' to stop")
	fmt.Println()

	if err := n.Play(); err != nil {
		colours.Error.Printf("❌ %v\n", err)
		return
	}
	h.followPlain(n, notices)
}

// followPlain prints status updates and applies commands until the lecture
// ends, the user stops it or the hall shuts down.
func (h *Hall) followPlain(n lectureview.Narrator, notices <-chan error) {
	updates, cancel := n.Subscribe()
	defer cancel()

	lines := readLines(h.ctx, h.input)
	last := narration.NoIndex

	for {
		select {
		case <-h.ctx.Done():
			n.Stop()
			return

		case err := <-notices:
			colours.Error.Printf("❌ %v\n", err)
			colours.Info.Println("💡 Type 'r' to start again or 's' to leave")

		case status, ok := <-updates:
			if !ok {
				return
			}
			switch status.State {
			case narration.StateSpeaking:
				if status.Index != last {
					last = status.Index
					fmt.Printf("[%d/%d] ", status.Index+1, status.Total)
					colours.Highlight.Println(status.Sentence)
				}
			case narration.StateEnded:
				fmt.Println()
				colours.Success.Println("✅ Lecture finished! 🎓")
				return
			case narration.StateIdle:
				last = narration.NoIndex
			}

		case line, ok := <-lines:
			if !ok {
				// keep narrating without input until the lecture ends
				lines = nil
				continue
			}
			if done := applyCommand(n, line); done {
				return
			}
		}
	}
}

// applyCommand runs one transport command and reports whether the user asked
// to leave.
func applyCommand(n lectureview.Narrator, line string) bool {
	status := n.State()

	switch strings.TrimSpace(strings.ToLower(line)) {
	case "p", "pause", "play":
		if status.State == narration.StateSpeaking {
			if err := n.Pause(); err == nil {
				colours.Warning.Println("⏸️  Paused")
			}
			return false
		}
		if err := n.Play(); err == nil {
			colours.Success.Println("▶️  Resumed")
		}
	case "n", "next":
		if status.Index >= 0 && status.Index+1 < status.Total {
			_ = n.PlayFrom(status.Index + 1)
		}
	case "b", "back":
		if status.Index > 0 {
			_ = n.PlayFrom(status.Index - 1)
		}
	case "r", "restart":
		if status.Total > 0 {
			_ = n.PlayFrom(0)
		}
	case "s", "stop", "q", "quit":
		n.Stop()
		colours.Warning.Println("⏹️  Stopped")
		return true
	case "":
	default:
		colours.Info.Println("ℹ️  Use 'p' for pause/resume, 'n'/'b' to skip, 'r' to restart, 's' to stop")
	}
	return false
}

// readLines delivers input lines until EOF or ctx is cancelled.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}
