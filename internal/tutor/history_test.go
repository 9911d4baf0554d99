package tutor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lectern/internal/domain/chat"
)

func TestHistoryRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.json")
	history := NewHistory(path)

	all, err := history.All()
	require.NoError(t, err)
	assert.Empty(t, all)

	first, err := history.Record("Black Holes", chat.Question{Question: "What is a singularity?"}, chat.Answer{Answer: "A point."})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.AskedAt.IsZero())

	_, err = history.Record("", chat.Question{Question: "Second?"}, chat.Answer{Answer: "Yes."})
	require.NoError(t, err)

	all, err = NewHistory(path).All()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, "Black Holes", all[0].Lecture)
	assert.Equal(t, "Second?", all[1].Question)
}

func TestHistoryCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewHistory(path).Record("", chat.Question{Question: "q"}, chat.Answer{Answer: "a"})
	assert.Error(t, err)
}
