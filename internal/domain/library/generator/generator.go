package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lectern/internal/domain/lecture"
	"lectern/internal/gemini"
)

// ErrInvalidScript marks a generated lecture that is missing required parts.
// It always travels together with gemini.ErrInvalidOutput.
var ErrInvalidScript = errors.New("lecture script is incomplete")

type LectureGenerator interface {
	Generate(ctx context.Context, req lecture.Request) (*lecture.Script, error)
}

// Validate checks that a script has every part narration relies on.
func Validate(script *lecture.Script) error {
	if script == nil {
		return invalid("empty script")
	}
	if strings.TrimSpace(script.Title) == "" {
		return invalid("missing title")
	}
	if strings.TrimSpace(script.Introduction) == "" {
		return invalid("missing introduction")
	}
	if len(script.Sections) == 0 {
		return invalid("no sections")
	}
	for i, s := range script.Sections {
		if strings.TrimSpace(s.Heading) == "" || strings.TrimSpace(s.Content) == "" {
			return invalid(fmt.Sprintf("section %d has no heading or content", i+1))
		}
	}
	if strings.TrimSpace(script.Conclusion) == "" {
		return invalid("missing conclusion")
	}
	return nil
}

func invalid(reason string) error {
	return fmt.Errorf("%w: %w: %s", gemini.ErrInvalidOutput, ErrInvalidScript, reason)
}
