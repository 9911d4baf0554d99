package hall

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lectern/internal/cli/scheme/colours"
	"lectern/internal/domain/chat"
	"lectern/internal/gemini"
	"lectern/internal/lecture/narration"
	"lectern/internal/tutor"
)

// Ask sends a question to the tutor, optionally with lecture material read
// from a file, and records the exchange in the history.
func (h *Hall) Ask(cmd *cobra.Command, args []string) {
	contextFile, _ := cmd.Flags().GetString("context-file")

	q := chat.Question{Question: strings.Join(args, " ")}
	lectureTitle := ""
	if contextFile != "" {
		material, title, err := readMaterial(contextFile)
		if err != nil {
			colours.Error.Printf("❌ %v\n", err)
			return
		}
		q.Context = material
		lectureTitle = title
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

	colours.Info.Println("🤔 Thinking...")
	answer, err := tutor.New(client).Answer(h.ctx, q)
	if err != nil {
		if errors.Is(err, tutor.ErrEmptyQuestion) {
			colours.Error.Println("❌ Please ask a question.")
			return
		}
		printLoadError(err)
		return
	}

	fmt.Println()
	colours.Success.Println("🎓 Tutor:")
	fmt.Println(answer.Answer)

	history := tutor.NewHistory(viper.GetString("tutor.history_path"))
	if _, err := history.Record(lectureTitle, q, *answer); err != nil {
		logrus.WithError(err).Warn("failed to record question")
	}
}

// readMaterial returns the text of a lecture script file, or the raw file
// contents when it is not a script.
func readMaterial(path string) (material, title string, err error) {
	if script, err := readScript(path); err == nil {
		return strings.Join(narration.BuildSentenceQueue(*script), " "), script.Title, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), "", nil
}
