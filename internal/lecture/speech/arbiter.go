package speech

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Arbiter hands out exclusive use of a process-wide engine. A new Acquire
// revokes the previous holder before it returns, so at most one owner drives
// the engine at a time.
type Arbiter struct {
	engine Engine

	mu     sync.Mutex
	holder uint64
	revoke func()
}

func NewArbiter(engine Engine) *Arbiter {
	return &Arbiter{engine: engine}
}

// Engine returns the arbitrated engine without acquiring it. Use it only for
// queries such as Voices or Available.
func (a *Arbiter) Engine() Engine {
	return a.engine
}

// Acquire grants the engine to the caller. revoke is invoked (outside the
// arbiter lock) when a later Acquire takes the engine away. The returned
// release func is idempotent and cancels any speech still in flight.
func (a *Arbiter) Acquire(revoke func()) (Engine, func()) {
	a.mu.Lock()
	previous := a.revoke
	a.holder++
	id := a.holder
	a.revoke = revoke
	a.mu.Unlock()

	if previous != nil {
		logrus.WithField("holder", id-1).Debug("revoking speech engine lease")
		previous()
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			a.mu.Lock()
			current := a.holder == id
			if current {
				a.revoke = nil
			}
			a.mu.Unlock()

			if current {
				if err := a.engine.Cancel(); err != nil {
					logrus.WithError(err).Warn("failed to cancel speech on release")
				}
			}
		})
	}
	return a.engine, release
}
