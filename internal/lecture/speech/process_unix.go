//go:build unix

package speech

import (
	"os"
	"syscall"
)

// suspendProcess pauses a narration process on Unix systems
func suspendProcess(p *os.Process) error {
	return p.Signal(syscall.SIGSTOP)
}

// resumeProcess resumes a narration process on Unix systems
func resumeProcess(p *os.Process) error {
	return p.Signal(syscall.SIGCONT)
}
