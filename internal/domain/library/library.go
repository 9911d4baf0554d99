package library

import (
	"time"

	"lectern/internal/domain/lecture"
)

// Entry is a generated lecture kept in the local lecture library.
type Entry struct {
	ID          string          `json:"id"`
	Request     lecture.Request `json:"request"`
	Script      lecture.Script  `json:"script"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// Summary describes a cached lecture without its body.
type Summary struct {
	ID                    string    `json:"id"`
	Topic                 string    `json:"topic"`
	TargetDurationMinutes int       `json:"targetDurationMinutes"`
	Title                 string    `json:"title"`
	Sections              int       `json:"sections"`
	GeneratedAt           time.Time `json:"generatedAt"`
	Fresh                 bool      `json:"fresh"`
}

// Summarize reports the entry as fresh when it is younger than maxAge.
func (e Entry) Summarize(maxAge time.Duration) Summary {
	return Summary{
		ID:                    e.ID,
		Topic:                 e.Request.Topic,
		TargetDurationMinutes: e.Request.TargetDurationMinutes,
		Title:                 e.Script.Title,
		Sections:              len(e.Script.Sections),
		GeneratedAt:           e.GeneratedAt,
		Fresh:                 time.Since(e.GeneratedAt) < maxAge,
	}
}
