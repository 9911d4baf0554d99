package narration

import (
	"regexp"
	"strings"

	"github.com/samber/lo"

	"lectern/internal/domain/lecture"
)

// sentencePattern matches a run of non-terminal characters followed by one or
// more terminal marks. Text after the last terminal mark never matches.
var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+`)

// BuildSentenceQueue flattens a script into the ordered sentences that are
// narrated one utterance at a time. A trailing fragment without terminal
// punctuation is dropped.
func BuildSentenceQueue(script lecture.Script) []string {
	return SplitSentences(narrationText(script))
}

// SplitSentences splits text on sentence-terminal punctuation.
func SplitSentences(text string) []string {
	return lo.FilterMap(sentencePattern.FindAllString(text, -1), func(m string, _ int) (string, bool) {
		s := strings.TrimSpace(m)
		return s, s != ""
	})
}

func narrationText(script lecture.Script) string {
	parts := []string{
		"Title: " + script.Title + ".",
		"Introduction: " + script.Introduction,
	}
	parts = append(parts, lo.Map(script.Sections, func(s lecture.Section, _ int) string {
		return s.Heading + ". " + s.Content
	})...)
	parts = append(parts, "Conclusion: "+script.Conclusion)
	return strings.Join(parts, " ")
}
