package tutor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"lectern/internal/domain/chat"
)

// History stores question and answer exchanges in a JSON file.
type History struct {
	path string
	mu   sync.Mutex
}

func NewHistory(path string) *History {
	return &History{path: path}
}

// Record appends an exchange and returns it with id and timestamp filled in.
func (h *History) Record(lecture string, q chat.Question, a chat.Answer) (chat.Exchange, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	exchanges, err := h.load()
	if err != nil {
		return chat.Exchange{}, err
	}

	ex := chat.Exchange{
		ID:       uuid.NewString(),
		Question: q.Question,
		Answer:   a.Answer,
		AskedAt:  time.Now().UTC(),
		Lecture:  lecture,
	}
	exchanges = append(exchanges, ex)

	if err := os.MkdirAll(filepath.Dir(h.path), 0755); err != nil {
		return chat.Exchange{}, fmt.Errorf("failed to create history directory: %w", err)
	}
	data, err := json.MarshalIndent(exchanges, "", "  ")
	if err != nil {
		return chat.Exchange{}, err
	}
	if err := os.WriteFile(h.path, data, 0644); err != nil {
		return chat.Exchange{}, fmt.Errorf("failed to write history: %w", err)
	}
	return ex, nil
}

// All returns every recorded exchange, oldest first.
func (h *History) All() ([]chat.Exchange, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.load()
}

func (h *History) load() ([]chat.Exchange, error) {
	data, err := os.ReadFile(h.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	var exchanges []chat.Exchange
	if err := json.Unmarshal(data, &exchanges); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	return exchanges, nil
}
