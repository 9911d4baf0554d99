package speech

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
)

// commandFunc builds the command that narrates text. The command is bound to
// ctx so cancelling ctx kills the process.
type commandFunc func(ctx context.Context, text string) *exec.Cmd

// processEngine narrates each utterance with one external process.
type processEngine struct {
	name   string
	binary string
	build  commandFunc
	voices func() ([]string, error)

	mutex   sync.Mutex
	cmd     *exec.Cmd
	current *utterance
	cancel  context.CancelFunc
	paused  bool
}

func (e *processEngine) Speak(ctx context.Context, text string) (<-chan error, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if e.current != nil {
		return nil, ErrAlreadySpeaking
	}

	ctx, cancel := context.WithCancel(ctx)
	cmd := e.build(ctx, text)
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("%s: failed to start: %w", e.name, err)
	}

	u := newUtterance()
	e.cmd = cmd
	e.current = u
	e.cancel = cancel
	e.paused = false

	go e.wait(ctx, cmd, u)
	return u.done, nil
}

func (e *processEngine) wait(ctx context.Context, cmd *exec.Cmd, u *utterance) {
	err := cmd.Wait()

	e.mutex.Lock()
	if e.current == u {
		e.cancel()
		e.cmd = nil
		e.current = nil
		e.cancel = nil
		e.paused = false
	}
	e.mutex.Unlock()

	switch {
	case ctx.Err() != nil:
		u.finish(ErrCanceled)
	case err != nil:
		u.finish(fmt.Errorf("%s: %w", e.name, err))
	default:
		u.finish(nil)
	}
}

func (e *processEngine) Pause() error {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if e.cmd == nil || e.cmd.Process == nil {
		return ErrNotSpeaking
	}
	if e.paused {
		return nil
	}
	if err := suspendProcess(e.cmd.Process); err != nil {
		return fmt.Errorf("%s: pause: %w", e.name, err)
	}
	e.paused = true
	return nil
}

func (e *processEngine) Resume() error {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if !e.paused || e.cmd == nil || e.cmd.Process == nil {
		return nil
	}
	if err := resumeProcess(e.cmd.Process); err != nil {
		return fmt.Errorf("%s: resume: %w", e.name, err)
	}
	e.paused = false
	return nil
}

// Cancel kills the running process, if any. Safe to call at any time.
func (e *processEngine) Cancel() error {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if e.cancel == nil {
		return nil
	}
	if e.paused && e.cmd != nil && e.cmd.Process != nil {
		// a stopped process still has to be woken to observe the kill on some platforms
		_ = resumeProcess(e.cmd.Process)
	}
	e.cancel()

	// detach so the next Speak does not wait for the killed process to exit
	e.cmd = nil
	e.current = nil
	e.cancel = nil
	e.paused = false
	return nil
}

func (e *processEngine) Available() error {
	if _, err := exec.LookPath(e.binary); err != nil {
		return fmt.Errorf("%w: %s not found in PATH", ErrUnavailable, e.binary)
	}
	return nil
}

func (e *processEngine) Voices() ([]string, error) {
	if e.voices == nil {
		return []string{"default"}, nil
	}
	return e.voices()
}
