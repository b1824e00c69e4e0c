// Package timers owns the two visual countdown clocks: the between-question
// countdown and the per-question answer clock. Timers only ever update their
// own displayed value; they never cause a screen change.
package timers

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Display is the narrow rendering surface the controller writes to.
type Display interface {
	SetCountdown(seconds int)
	HideCountdown()
	SetAnswerClock(text string)
}

// Controller runs at most one countdown and one answer clock at a time.
// Starting a timer of a kind cancels the previous one of that kind first.
// Cancellation is synchronous: once CancelAll returns, no display update
// from a cancelled timer can be observed, even if a tick was already
// scheduled. That guarantee comes from the identity check each tick
// performs under the controller mutex.
type Controller struct {
	clock   clockwork.Clock
	display Display

	mu          sync.Mutex
	countdown   *running
	answerClock *running
}

type running struct {
	ticker clockwork.Ticker
	done   chan struct{}
}

func NewController(clock clockwork.Clock, display Display) *Controller {
	return &Controller{clock: clock, display: display}
}

// StartCountdown displays seconds and decrements once per second, stopping
// once the value would drop below 1. The last non-zero value stays on
// screen; nothing transitions when it stops.
func (c *Controller) StartCountdown(seconds int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopCountdownLocked()
	c.display.SetCountdown(seconds)
	if seconds <= 1 {
		return
	}

	t := &running{ticker: c.clock.NewTicker(time.Second), done: make(chan struct{})}
	c.countdown = t
	go c.runCountdown(t, seconds)

	log.Debug().Int("seconds", seconds).Msg("countdown started")
}

func (c *Controller) runCountdown(t *running, remaining int) {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.Chan():
			c.mu.Lock()
			if c.countdown != t {
				c.mu.Unlock()
				return
			}
			remaining--
			if remaining > 0 {
				c.display.SetCountdown(remaining)
			}
			if remaining <= 1 {
				t.ticker.Stop()
				c.countdown = nil
				c.mu.Unlock()
				return
			}
			c.mu.Unlock()
		}
	}
}

// StartAnswerClock displays the remaining answer time as a colon-prefixed
// two-digit value and decrements once per second. At zero it keeps ":00" on
// screen and stops ticking. A non-positive starting value shows ":00"
// immediately and never ticks.
func (c *Controller) StartAnswerClock(seconds int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopAnswerClockLocked()
	if seconds <= 0 {
		c.display.SetAnswerClock(FormatSeconds(0))
		return
	}
	c.display.SetAnswerClock(FormatSeconds(seconds))

	t := &running{ticker: c.clock.NewTicker(time.Second), done: make(chan struct{})}
	c.answerClock = t
	go c.runAnswerClock(t, seconds)

	log.Debug().Int("seconds", seconds).Msg("answer clock started")
}

func (c *Controller) runAnswerClock(t *running, remaining int) {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.Chan():
			c.mu.Lock()
			if c.answerClock != t {
				c.mu.Unlock()
				return
			}
			if remaining > 0 {
				remaining--
			}
			c.display.SetAnswerClock(FormatSeconds(remaining))
			if remaining < 1 {
				t.ticker.Stop()
				c.answerClock = nil
				c.mu.Unlock()
				return
			}
			c.mu.Unlock()
		}
	}
}

// FreezeAnswerClock cancels a running answer clock and pins its display at
// ":00". Used when the reveal phase begins before the clock ran out.
func (c *Controller) FreezeAnswerClock() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.answerClock == nil {
		return
	}
	c.stopAnswerClockLocked()
	c.display.SetAnswerClock(FormatSeconds(0))
}

// CancelAll stops both timers and hides the countdown. Idempotent; called
// unconditionally on every screen transition before any new timer starts.
func (c *Controller) CancelAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopCountdownLocked()
	c.stopAnswerClockLocked()
	c.display.HideCountdown()
}

func (c *Controller) stopCountdownLocked() {
	if c.countdown == nil {
		return
	}
	c.countdown.ticker.Stop()
	close(c.countdown.done)
	c.countdown = nil
}

func (c *Controller) stopAnswerClockLocked() {
	if c.answerClock == nil {
		return
	}
	c.answerClock.ticker.Stop()
	close(c.answerClock.done)
	c.answerClock = nil
}

// FormatSeconds renders remaining answer time as ":NN", zero-padded to two
// digits. Values of 100 seconds or more keep all their digits.
func FormatSeconds(s int) string {
	if s < 0 {
		s = 0
	}
	return fmt.Sprintf(":%02d", s)
}
