package narration

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"lectern/internal/domain/lecture"
	"lectern/internal/lecture/speech"
)

// Controller narrates a sentence queue through a speech engine and tracks the
// active sentence for highlighting.
//
// Every started utterance gets a fresh id and its own cancellation context.
// Completions carrying an id other than the current one are dropped, so a
// cancelled utterance can never advance the queue.
type Controller struct {
	mu sync.Mutex

	engine  speech.Engine
	release func()
	notify  func(error)
	log     *logrus.Entry

	queue []string
	state State
	index int
	cue   int

	// set when a sentence finished while paused; the next Play speaks index fresh
	advancedWhilePaused bool

	utteranceID uint64
	cancel      context.CancelFunc

	subs   map[int]chan Status
	nextID int
	closed bool

	// set once another controller acquired the engine
	revoked bool
}

type Option func(*Controller)

// WithNotifier registers a callback for non-fatal playback errors that should
// be shown to the user. It is called without the controller lock held.
func WithNotifier(fn func(error)) Option {
	return func(c *Controller) {
		c.notify = fn
	}
}

func WithLogger(entry *logrus.Entry) Option {
	return func(c *Controller) {
		c.log = entry
	}
}

// NewController acquires exclusive use of the arbitrated engine. If another
// controller holds it, that controller is stopped first. An engine that
// reports itself unavailable yields ErrEngineUnavailable.
func NewController(arbiter *speech.Arbiter, opts ...Option) (*Controller, error) {
	if err := arbiter.Engine().Available(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}

	c := &Controller{
		state:  StateIdle,
		index:  NoIndex,
		cue:    NoIndex,
		notify: func(error) {},
		log:    logrus.WithField("component", "narration"),
		subs:   make(map[int]chan Status),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.engine, c.release = arbiter.Acquire(c.revoke)
	return c, nil
}

// Load replaces the script being narrated. Any narration in progress is
// stopped and the sentence queue is rebuilt.
func (c *Controller) Load(script lecture.Script) {
	c.LoadSentences(BuildSentenceQueue(script))
}

// LoadSentences is Load for an already built queue.
func (c *Controller) LoadSentences(sentences []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	c.queue = append([]string(nil), sentences...)
	c.publishLocked()
}

// Sentences returns a copy of the current queue.
func (c *Controller) Sentences() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.queue...)
}

// Play resumes when paused, otherwise starts narrating. Idle starts at the
// cued sentence or the first one; Ended always restarts from the first. An
// empty queue moves straight to Ended.
func (c *Controller) Play() error {
	c.mu.Lock()

	if err := c.usableLocked(); err != nil {
		c.mu.Unlock()
		return err
	}

	if len(c.queue) == 0 {
		c.state = StateEnded
		c.index = NoIndex
		c.publishLocked()
		c.mu.Unlock()
		return nil
	}

	var err error
	switch c.state {
	case StateSpeaking:
		err = ErrAlreadySpeaking

	case StatePaused:
		if c.advancedWhilePaused {
			c.advancedWhilePaused = false
			err = c.speakLocked(c.index)
			break
		}
		if err = c.engine.Resume(); err != nil {
			err = c.failLocked(err)
			break
		}
		c.state = StateSpeaking
		c.log.WithField("index", c.index).Debug("narration resumed")
		c.publishLocked()

	case StateIdle, StateEnded:
		start := 0
		if c.state == StateIdle && c.cue >= 0 && c.cue < len(c.queue) {
			start = c.cue
		}
		c.cue = NoIndex
		err = c.speakLocked(start)
	}
	c.mu.Unlock()

	c.report(err)
	return err
}

// PlayFrom cancels whatever is being spoken and starts narrating at index.
func (c *Controller) PlayFrom(index int) error {
	c.mu.Lock()

	if err := c.usableLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	if index < 0 || index >= len(c.queue) {
		c.mu.Unlock()
		return ErrIndexOutOfRange
	}

	c.silenceLocked()
	c.cancelUtteranceLocked()
	c.advancedWhilePaused = false
	c.cue = NoIndex
	err := c.speakLocked(index)
	c.mu.Unlock()

	c.report(err)
	return err
}

// Cue sets the sentence the next Play starts from while Idle.
func (c *Controller) Cue(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.queue) {
		return ErrIndexOutOfRange
	}
	if c.state != StateIdle {
		return ErrAlreadySpeaking
	}
	c.cue = index
	return nil
}

// Pause is only valid while speaking.
func (c *Controller) Pause() error {
	c.mu.Lock()

	if c.state != StateSpeaking {
		c.mu.Unlock()
		return ErrNotSpeaking
	}

	var err error
	if perr := c.engine.Pause(); perr != nil {
		err = c.failLocked(perr)
	} else {
		c.state = StatePaused
		c.log.WithField("index", c.index).Debug("narration paused")
		c.publishLocked()
	}
	c.mu.Unlock()

	c.report(err)
	return err
}

// Stop cancels all speech and returns to Idle. It is safe to call in any
// state, any number of times.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
}

// State returns the current playback position.
func (c *Controller) State() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

// Subscribe returns a channel receiving the status after every transition,
// starting with the current one. Slow readers only miss intermediate values;
// the latest status is always delivered. Call cancel to unsubscribe.
func (c *Controller) Subscribe() (<-chan Status, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan Status, 1)
	if c.closed {
		close(ch)
		return ch, func() {}
	}

	id := c.nextID
	c.nextID++
	c.subs[id] = ch
	ch <- c.statusLocked()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(sub)
			}
		})
	}
}

// Close stops narration, gives the engine back and closes all subscriptions.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.stopLocked()
	c.closed = true
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
	c.mu.Unlock()

	c.release()
}

// revoke is called by the arbiter when another controller takes the engine.
// The controller stops for good; Play and PlayFrom report ErrPreempted.
func (c *Controller) revoke() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.revoked {
		return
	}
	c.stopLocked()
	c.revoked = true
	c.log.Info("speech engine taken over by another session")
}

func (c *Controller) usableLocked() error {
	switch {
	case c.closed:
		return ErrClosed
	case c.revoked:
		return ErrPreempted
	}
	return nil
}

// speakLocked starts narrating queue[index] as a new utterance. The engine
// must not hold an utterance of this controller.
func (c *Controller) speakLocked(index int) error {
	c.utteranceID++
	id := c.utteranceID
	ctx, cancel := context.WithCancel(context.Background())

	c.cancel = cancel
	c.index = index

	done, err := c.engine.Speak(ctx, c.queue[index])
	if err != nil {
		// nothing of ours is playing, so the engine is left alone
		c.state = StateIdle
		return c.failLocked(err)
	}

	c.state = StateSpeaking
	c.publishLocked()

	c.log.WithFields(logrus.Fields{
		"index": index,
		"total": len(c.queue),
	}).Debug("speaking sentence")

	go c.await(ctx, id, done)
	return nil
}

func (c *Controller) await(ctx context.Context, id uint64, done <-chan error) {
	select {
	case err := <-done:
		c.finish(id, err)
	case <-ctx.Done():
	}
}

// finish handles the end of utterance id.
func (c *Controller) finish(id uint64, err error) {
	c.mu.Lock()

	if id != c.utteranceID || (c.state != StateSpeaking && c.state != StatePaused) {
		c.mu.Unlock()
		return
	}

	if err != nil {
		if errors.Is(err, speech.ErrCanceled) {
			// cancelled outside this controller; the engine is already quiet
			c.log.WithField("index", c.index).Info("speech cancelled by the engine")
			c.state = StateIdle
			c.stopLocked()
			c.mu.Unlock()
			return
		}
		err = c.failLocked(err)
		c.mu.Unlock()
		c.report(err)
		return
	}

	c.cancelUtteranceLocked()
	next := c.index + 1

	switch {
	case next >= len(c.queue):
		c.state = StateEnded
		c.index = NoIndex
		c.advancedWhilePaused = false
		c.log.Debug("narration finished")
		c.publishLocked()

	case c.state == StatePaused:
		// the sentence ran out just as pause was requested
		c.index = next
		c.advancedWhilePaused = true
		c.publishLocked()

	default:
		err = c.speakLocked(next)
	}
	c.mu.Unlock()

	c.report(err)
}

// failLocked stops narration after an engine failure. No retry is attempted.
func (c *Controller) failLocked(cause error) error {
	err := &EngineError{Index: c.index, Err: cause}
	if c.index >= 0 && c.index < len(c.queue) {
		err.Sentence = c.queue[c.index]
	}
	c.log.WithError(cause).WithField("index", c.index).Warn("speech engine failed, narration stopped")
	c.stopLocked()
	return err
}

func (c *Controller) stopLocked() {
	c.silenceLocked()
	c.cancelUtteranceLocked()
	c.state = StateIdle
	c.index = NoIndex
	c.cue = NoIndex
	c.advancedWhilePaused = false
	c.publishLocked()
}

// silenceLocked cancels speech in the engine when an utterance is active.
func (c *Controller) silenceLocked() {
	if c.state != StateSpeaking && c.state != StatePaused {
		return
	}
	if err := c.engine.Cancel(); err != nil {
		c.log.WithError(err).Warn("failed to cancel speech")
	}
}

// cancelUtteranceLocked invalidates the in-flight utterance so its completion
// is ignored.
func (c *Controller) cancelUtteranceLocked() {
	c.utteranceID++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) statusLocked() Status {
	s := Status{State: c.state, Index: c.index, Total: len(c.queue)}
	if c.index >= 0 && c.index < len(c.queue) {
		s.Sentence = c.queue[c.index]
	}
	return s
}

func (c *Controller) publishLocked() {
	status := c.statusLocked()
	for _, ch := range c.subs {
		select {
		case ch <- status:
		default:
			// replace the stale value the reader has not picked up yet
			select {
			case <-ch:
			default:
			}
			ch <- status
		}
	}
}

// report forwards engine failures to the notifier.
func (c *Controller) report(err error) {
	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		c.notify(engineErr)
	}
}
