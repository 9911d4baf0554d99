//go:build windows

package speech

import "os"

// Windows has no SIGSTOP/SIGCONT equivalent for console processes.
func suspendProcess(p *os.Process) error {
	return ErrPauseUnsupported
}

func resumeProcess(p *os.Process) error {
	return ErrPauseUnsupported
}
