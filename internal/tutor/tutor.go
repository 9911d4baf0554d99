package tutor

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"lectern/internal/domain/chat"
	"lectern/internal/gemini"
)

// MaxContextRunes bounds the lecture text sent along with a question.
const MaxContextRunes = 12000

const systemPrompt = `You are a friendly teaching assistant in a virtual classroom. Answer the
student's question clearly and concisely. When lecture material is provided,
base your answer on it and say so when the material does not cover the question.`

// TextGenerator is the part of the Gemini client the tutor needs.
type TextGenerator interface {
	GenerateText(ctx context.Context, system, prompt string) (string, error)
}

// Tutor answers student questions. Every call is independent.
type Tutor struct {
	client TextGenerator
}

func New(client TextGenerator) *Tutor {
	return &Tutor{client: client}
}

func (t *Tutor) Answer(ctx context.Context, q chat.Question) (*chat.Answer, error) {
	question := strings.TrimSpace(q.Question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	logrus.WithFields(logrus.Fields{
		"question_chars": len(question),
		"context_chars":  len(q.Context),
	}).Debug("asking tutor")

	reply, err := t.client.GenerateText(ctx, systemPrompt, buildPrompt(question, q.Context))
	if err != nil {
		return nil, fmt.Errorf("failed to answer question: %w", err)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, fmt.Errorf("%w: empty answer", gemini.ErrInvalidOutput)
	}
	return &chat.Answer{Answer: reply}, nil
}

func buildPrompt(question, material string) string {
	material = truncate(strings.TrimSpace(material), MaxContextRunes)
	if material == "" {
		return "Question: " + question
	}
	return fmt.Sprintf("Lecture material:\n%s\n\nQuestion: %s", material, question)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
