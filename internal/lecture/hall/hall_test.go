package hall

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lectern/internal/domain/lecture"
	"lectern/internal/domain/library"
	"lectern/internal/lecture/narration"
	"lectern/internal/lecture/speech"
)

var testScript = lecture.Script{
	Title:        "Tides",
	Introduction: "The sea rises and falls twice a day.",
	Sections: []lecture.Section{
		{Heading: "The Moon", Content: "Its gravity pulls the water. The Sun helps a little."},
	},
	Conclusion: "Now you know why beaches change.",
}

func newTestHall(t *testing.T, input io.Reader) *Hall {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return &Hall{ctx: ctx, cancel: cancel, input: input}
}

func newTestController(t *testing.T, wordsPerMinute float64) *narration.Controller {
	t.Helper()
	engine := speech.NewMockEngine(speech.Config{Speed: 1})
	engine.WordsPerMinute = wordsPerMinute

	c, err := narration.NewController(speech.NewArbiter(engine))
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func loadTestScript(context.Context) (*lecture.Script, error) {
	script := testScript
	return &script, nil
}

// runPlain narrates in the background and waits for the loop to return.
func runPlain(t *testing.T, h *Hall, c *narration.Controller) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.narratePlain(c, loadTestScript, nil)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("plain narration did not return")
	}
}

func TestNarratePlainRunsToEnd(t *testing.T) {
	h := newTestHall(t, strings.NewReader(""))
	c := newTestController(t, 60000)

	runPlain(t, h, c)

	assert.Equal(t, narration.StateEnded, c.State().State)
	assert.Equal(t, narration.BuildSentenceQueue(testScript), c.Sentences())
}

func TestNarratePlainStopCommand(t *testing.T) {
	h := newTestHall(t, strings.NewReader("s\n"))
	c := newTestController(t, 1)

	runPlain(t, h, c)

	status := c.State()
	assert.Equal(t, narration.StateIdle, status.State)
	assert.Equal(t, narration.NoIndex, status.Index)
}

func TestNarratePlainShutdown(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	h := newTestHall(t, pr)
	c := newTestController(t, 1)

	go func() {
		assert.Eventually(t, func() bool {
			return c.State().State == narration.StateSpeaking
		}, time.Second, 5*time.Millisecond)
		h.cancel()
	}()

	runPlain(t, h, c)
	assert.Equal(t, narration.StateIdle, c.State().State)
}

func TestApplyCommand(t *testing.T) {
	c := newTestController(t, 1)
	c.Load(testScript)
	require.NoError(t, c.Play())

	assert.False(t, applyCommand(c, "p"))
	assert.Equal(t, narration.StatePaused, c.State().State)

	assert.False(t, applyCommand(c, "P"))
	assert.Equal(t, narration.StateSpeaking, c.State().State)

	assert.False(t, applyCommand(c, "n"))
	assert.Equal(t, 1, c.State().Index)

	assert.False(t, applyCommand(c, "back"))
	assert.Equal(t, 0, c.State().Index)

	assert.False(t, applyCommand(c, "n"))
	assert.False(t, applyCommand(c, "r"))
	assert.Equal(t, 0, c.State().Index)

	assert.False(t, applyCommand(c, "what"))
	assert.True(t, applyCommand(c, "quit"))
	assert.Equal(t, narration.StateIdle, c.State().State)
}

func TestReadScript(t *testing.T) {
	dir := t.TempDir()
	viper.Set("library.cache_dir", filepath.Join(dir, "library"))
	t.Cleanup(viper.Reset)

	t.Run("script file", func(t *testing.T) {
		path := filepath.Join(dir, "tides.json")
		data, err := json.Marshal(testScript)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, data, 0o644))

		script, err := readScript(path)
		require.NoError(t, err)
		assert.Equal(t, testScript, *script)
	})

	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

		_, err := readScript(path)
		assert.ErrorContains(t, err, "failed to parse")
	})

	t.Run("incomplete script", func(t *testing.T) {
		path := filepath.Join(dir, "empty.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"title":"Only a title"}`), 0o644))

		_, err := readScript(path)
		assert.Error(t, err)
	})

	t.Run("library entry", func(t *testing.T) {
		libDir := filepath.Join(dir, "library")
		require.NoError(t, os.MkdirAll(libDir, 0o755))
		entry := library.Entry{ID: "lecture-1", Script: testScript, GeneratedAt: time.Now()}
		data, err := json.Marshal(entry)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(libDir, "key.json"), data, 0o644))

		script, err := readScript("lecture-1")
		require.NoError(t, err)
		assert.Equal(t, "Tides", script.Title)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := readScript("nope")
		assert.ErrorContains(t, err, `"nope"`)
	})
}

func TestReadMaterial(t *testing.T) {
	dir := t.TempDir()
	viper.Set("library.cache_dir", dir)
	t.Cleanup(viper.Reset)

	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("Tides follow the Moon."), 0o644))

	material, title, err := readMaterial(notes)
	require.NoError(t, err)
	assert.Equal(t, "Tides follow the Moon.", material)
	assert.Empty(t, title)

	path := filepath.Join(dir, "tides.json")
	data, err := json.Marshal(testScript)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	material, title, err = readMaterial(path)
	require.NoError(t, err)
	assert.Equal(t, "Tides", title)
	assert.True(t, strings.HasPrefix(material, "Title: Tides. Introduction:"))
}
