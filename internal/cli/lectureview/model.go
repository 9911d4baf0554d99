package lectureview

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"lectern/internal/domain/lecture"
	"lectern/internal/lecture/narration"
)

// Narrator is the playback surface the view drives.
type Narrator interface {
	Load(script lecture.Script)
	Sentences() []string
	Play() error
	Pause() error
	Stop()
	PlayFrom(index int) error
	Cue(index int) error
	State() narration.Status
	Subscribe() (<-chan narration.Status, func())
}

// Loader produces the script to narrate.
type Loader func(ctx context.Context) (*lecture.Script, error)

type Model struct {
	narrator Narrator
	loader   Loader
	notices  <-chan error
	updates  <-chan narration.Status
	cancel   func()

	spinner   spinner.Model
	loading   bool
	autoplay  bool
	script    *lecture.Script
	sentences []string
	status    narration.Status
	cursor    int
	notice    string
	err       error
	width     int
	quitting  bool
}

// New creates the view. notices receives engine failures reported by the
// narrator and may be nil.
func New(narrator Narrator, loader Loader, notices <-chan error) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	updates, cancel := narrator.Subscribe()
	return Model{
		narrator: narrator,
		loader:   loader,
		notices:  notices,
		updates:  updates,
		cancel:   cancel,
		spinner:  s,
		loading:  true,
		autoplay: true,
		status:   narrator.State(),
		width:    80,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.load(), waitForStatus(m.updates)}
	if m.notices != nil {
		cmds = append(cmds, waitForNotice(m.notices))
	}
	return tea.Batch(cmds...)
}

func (m Model) load() tea.Cmd {
	return func() tea.Msg {
		script, err := m.loader(context.Background())
		if err != nil {
			return errorMsg{err: err}
		}
		return lectureLoadedMsg{script: script}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case lectureLoadedMsg:
		m.loading = false
		m.script = msg.script
		m.narrator.Load(*msg.script)
		m.sentences = m.narrator.Sentences()
		m.cursor = 0
		if m.autoplay {
			m.setErr(m.narrator.Play())
		}
		return m, nil

	case statusMsg:
		m.status = msg.status
		if m.status.Index >= 0 {
			m.cursor = m.status.Index
		}
		return m, waitForStatus(m.updates)

	case noticeMsg:
		m.notice = msg.err.Error()
		return m, waitForNotice(m.notices)

	case errorMsg:
		m.loading = false
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.narrator.Stop()
		m.cancel()
		m.quitting = true
		return m, tea.Quit
	}

	if m.loading || m.script == nil {
		return m, nil
	}
	m.notice = ""

	switch msg.String() {
	case " ", "space", "p":
		if m.narrator.State().State == narration.StateSpeaking {
			m.setErr(m.narrator.Pause())
		} else {
			m.setErr(m.narrator.Play())
		}
	case "s":
		m.narrator.Stop()
		if len(m.sentences) > 0 {
			m.setErr(m.narrator.Cue(m.cursor))
		}
	case "right", "l", "down", "j":
		m.moveCursor(1)
	case "left", "h", "up", "k":
		m.moveCursor(-1)
	case "enter":
		m.setErr(m.narrator.PlayFrom(m.cursor))
	case "r":
		m.narrator.Stop()
		m.setErr(m.narrator.Play())
	}
	return m, nil
}

// moveCursor selects a neighbouring sentence. While idle the selection
// becomes the start point of the next Play.
func (m *Model) moveCursor(delta int) {
	if len(m.sentences) == 0 {
		return
	}
	m.cursor = max(0, min(len(m.sentences)-1, m.cursor+delta))
	if m.narrator.State().State == narration.StateIdle {
		m.setErr(m.narrator.Cue(m.cursor))
	}
}

func (m *Model) setErr(err error) {
	if err != nil {
		m.notice = err.Error()
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Could not prepare the lecture: %v", m.err)) + "\n"
	}
	if m.loading {
		return fmt.Sprintf("\n %s Preparing your lecture...\n", m.spinner.View())
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.script.Title))
	b.WriteString("\n\n")
	b.WriteString(m.renderSentences())
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.statusLine()))
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(errorStyle.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("space play/pause • s stop • ←/→ select • enter play from selection • r restart • q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderSentences() string {
	parts := make([]string, len(m.sentences))
	for i, sentence := range m.sentences {
		switch {
		case i == m.status.Index:
			parts[i] = activeStyle.Render(sentence)
		case i == m.cursor:
			parts[i] = cursorStyle.Render(sentence)
		case m.status.Index >= 0 && i < m.status.Index:
			parts[i] = spokenStyle.Render(sentence)
		default:
			parts[i] = textStyle.Render(sentence)
		}
	}
	width := max(20, m.width-4)
	return paragraphBase.Width(width).Render(strings.Join(parts, " "))
}

func (m Model) statusLine() string {
	total := len(m.sentences)
	switch m.status.State {
	case narration.StateSpeaking:
		return fmt.Sprintf("▶ Speaking %d/%d", m.status.Index+1, total)
	case narration.StatePaused:
		return fmt.Sprintf("⏸ Paused at %d/%d", m.status.Index+1, total)
	case narration.StateEnded:
		return "✔ Lecture finished, press space to hear it again"
	default:
		return fmt.Sprintf("⏹ Stopped, next start at %d/%d", m.cursor+1, total)
	}
}

var _ tea.Model = Model{}
