package hall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lectern/internal/cli/lectureview"
	"lectern/internal/cli/scheme/colours"
	"lectern/internal/domain/lecture"
	"lectern/internal/domain/library/generator"
	"lectern/internal/gemini"
	"lectern/internal/lecture/narration"
)

// Lecture generates (or loads from the library) a lecture on a topic and
// narrates it.
func (h *Hall) Lecture(cmd *cobra.Command, args []string) {
	minutes, _ := cmd.Flags().GetInt("minutes")
	fresh, _ := cmd.Flags().GetBool("fresh")
	plain, _ := cmd.Flags().GetBool("plain")

	req := lecture.Request{
		Topic:                 strings.Join(args, " "),
		TargetDurationMinutes: minutes,
	}
	if strings.TrimSpace(req.Topic) == "" {
		colours.Error.Println("❌ Please tell me what the lecture should be about.")
		return
	}
	if minutes < 1 || minutes > 90 {
		colours.Error.Println("❌ Lecture length must be between 1 and 90 minutes.")
		return
	}

	client, err := h.geminiClient()
	if err != nil {
		if errors.Is(err, gemini.ErrMissingAPIKey) {
			printMissingKey()
			return
		}
		colours.Error.Printf("❌ Could not connect to Gemini: %v\n", err)
		return
	}

	cache := lectureCache(generator.NewGemini(client))
	load := func(ctx context.Context) (*lecture.Script, error) {
		entry, err := cache.GetLecture(ctx, req, fresh)
		if err != nil {
			return nil, err
		}
		return &entry.Script, nil
	}

	h.narrate(load, plain)
}

// Read narrates a lecture script stored as JSON, or a library entry id.
func (h *Hall) Read(cmd *cobra.Command, args []string) {
	plain, _ := cmd.Flags().GetBool("plain")

	script, err := readScript(args[0])
	if err != nil {
		colours.Error.Printf("❌ %v\n", err)
		return
	}

	h.narrate(func(context.Context) (*lecture.Script, error) { return script, nil }, plain)
}

// readScript loads a script from a JSON file, falling back to the library.
func readScript(ref string) (*lecture.Script, error) {
	data, err := os.ReadFile(ref)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read %s: %w", ref, err)
		}
		entry, findErr := lectureCache(nil).Find(ref)
		if findErr != nil {
			return nil, fmt.Errorf("no lecture file or library entry named %q", ref)
		}
		return &entry.Script, nil
	}

	var script lecture.Script
	if err := json.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("failed to parse lecture script: %w", err)
	}
	if err := generator.Validate(&script); err != nil {
		return nil, err
	}
	return &script, nil
}

func (h *Hall) narrate(load lectureview.Loader, plain bool) {
	arbiter, err := h.speechArbiter()
	var controller *narration.Controller
	notices := make(chan error, 4)
	if err == nil {
		controller, err = narration.NewController(arbiter, narration.WithNotifier(func(err error) {
			select {
			case notices <- err:
			default:
			}
		}))
	}

	if err != nil {
		colours.Warning.Printf("🔇 Speech is not available (%v), showing the text instead.\n", err)
		h.showText(load)
		return
	}
	defer controller.Close()
	h.setActive(controller)
	defer h.setActive(nil)

	if plain || !term.IsTerminal(int(os.Stdout.Fd())) {
		h.narratePlain(controller, load, notices)
		return
	}

	// shutdown aborts generation
	bound := func(context.Context) (*lecture.Script, error) { return load(h.ctx) }
	program := tea.NewProgram(lectureview.New(controller, bound, notices), tea.WithContext(h.ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		colours.Error.Printf("❌ %v\n", err)
	}
}

func (h *Hall) showText(load lectureview.Loader) {
	colours.Info.Println("⏳ Preparing your lecture...")
	script, err := load(h.ctx)
	if err != nil {
		printLoadError(err)
		return
	}

	fmt.Println()
	colours.Title.Printf("📖 %s\n", script.Title)
	fmt.Println()
	fmt.Println(script.Introduction)
	for _, s := range script.Sections {
		fmt.Println()
		colours.Heading.Println(s.Heading)
		fmt.Println(s.Content)
	}
	fmt.Println()
	fmt.Println(script.Conclusion)
}

func printLoadError(err error) {
	switch {
	case errors.Is(err, gemini.ErrRateLimited):
		colours.Error.Println("❌ Gemini is rate limiting requests, try again in a minute.")
	case errors.Is(err, gemini.ErrTimeout):
		colours.Error.Println("❌ Gemini took too long to answer.")
	case errors.Is(err, gemini.ErrUnavailable):
		colours.Error.Println("❌ Gemini is unavailable right now.")
	case errors.Is(err, gemini.ErrInvalidOutput):
		colours.Error.Println("❌ Gemini returned a lecture we could not use, please try again.")
	default:
		colours.Error.Printf("❌ %v\n", err)
	}
}
