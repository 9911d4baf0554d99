package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"

	"lectern/internal/domain/lecture"
	"lectern/internal/gemini"
)

// wordsPerMinute is the speaking rate used to size a lecture.
const wordsPerMinute = 130

const systemPrompt = `You are an experienced university lecturer. You write clear, engaging
lecture scripts that are read aloud to students. Write in complete sentences that
end with punctuation. Do not use markdown, bullet points or lists.`

// JSONGenerator is the part of the Gemini client the lecture flow needs.
type JSONGenerator interface {
	GenerateJSON(ctx context.Context, system, prompt string, schema *genai.Schema) (string, error)
}

// Gemini generates lectures with a Gemini model constrained to a JSON schema.
type Gemini struct {
	client JSONGenerator
}

func NewGemini(client JSONGenerator) *Gemini {
	return &Gemini{client: client}
}

func (g *Gemini) Generate(ctx context.Context, req lecture.Request) (*lecture.Script, error) {
	logrus.WithFields(logrus.Fields{
		"topic":   req.Topic,
		"minutes": req.TargetDurationMinutes,
	}).Info("Generating lecture")

	raw, err := g.client.GenerateJSON(ctx, systemPrompt, buildPrompt(req), scriptSchema())
	if err != nil {
		return nil, fmt.Errorf("failed to generate lecture: %w", err)
	}

	var script lecture.Script
	if err := json.Unmarshal([]byte(gemini.StripCodeFence(raw)), &script); err != nil {
		return nil, fmt.Errorf("%w: %w: %v", gemini.ErrInvalidOutput, ErrInvalidScript, err)
	}
	if err := Validate(&script); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"title":    script.Title,
		"sections": len(script.Sections),
	}).Debug("Lecture generated")

	return &script, nil
}

func buildPrompt(req lecture.Request) string {
	minutes := req.TargetDurationMinutes
	if minutes <= 0 {
		minutes = 10
	}
	words := minutes * wordsPerMinute
	sections := max(2, min(8, minutes/3))

	var b strings.Builder
	fmt.Fprintf(&b, "Write a lecture on the topic: %s.\n", strings.TrimSpace(req.Topic))
	fmt.Fprintf(&b, "It should take about %d minutes to read aloud, roughly %d words in total.\n", minutes, words)
	fmt.Fprintf(&b, "Use an introduction, %d sections each with a short heading, and a conclusion.\n", sections)
	b.WriteString("Leave imageUrl empty unless you know a stable public image for the section.")
	return b.String()
}

func scriptSchema() *genai.Schema {
	text := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":        text("Lecture title"),
			"introduction": text("Opening paragraph"),
			"sections": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"heading":  text("Section heading"),
						"content":  text("Section body, several sentences"),
						"imageUrl": text("Optional illustration URL"),
					},
					Required: []string{"heading", "content"},
				},
			},
			"conclusion": text("Closing paragraph"),
		},
		Required: []string{"title", "introduction", "sections", "conclusion"},
	}
}
