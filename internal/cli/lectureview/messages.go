package lectureview

import (
	tea "github.com/charmbracelet/bubbletea"

	"lectern/internal/domain/lecture"
	"lectern/internal/lecture/narration"
)

type statusMsg struct {
	status narration.Status
}

type noticeMsg struct {
	err error
}

type lectureLoadedMsg struct {
	script *lecture.Script
}

type errorMsg struct {
	err error
}

// waitForStatus delivers the next controller status update.
func waitForStatus(updates <-chan narration.Status) tea.Cmd {
	return func() tea.Msg {
		status, ok := <-updates
		if !ok {
			return nil
		}
		return statusMsg{status: status}
	}
}

func waitForNotice(notices <-chan error) tea.Cmd {
	return func() tea.Msg {
		err, ok := <-notices
		if !ok {
			return nil
		}
		return noticeMsg{err: err}
	}
}
