package clock

import (
	"sync"
	"time"

	"github.com/eddiefleurent/strangengine/internal/core/errs"
)

// LiveClock is a wall-clock implementation: each registered alert/timer is
// driven by a real time.Timer on its own goroutine, grounded on the
// teacher's orders.Manager ticker-based polling loop. A registration's
// handler runs on that registration's goroutine (every firing of a periodic
// timer runs on the same one), since the live runtime is explicitly not
// part of the core's single-threaded cooperative scheduling guarantee
// (spec.md §5).
type LiveClock struct {
	mu             sync.Mutex
	timers         map[string]*liveTimer
	defaultHandler Handler
}

type liveTimer struct {
	stopCh chan struct{}
}

// NewLiveClock constructs a LiveClock.
func NewLiveClock() *LiveClock {
	return &LiveClock{timers: make(map[string]*liveTimer)}
}

// TimeNow implements Clock.
func (c *LiveClock) TimeNow() time.Time { return time.Now().UTC() }

// RegisterDefaultHandler implements Clock.
func (c *LiveClock) RegisterDefaultHandler(h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaultHandler = h
}

// SetTimeAlert implements Clock.
func (c *LiveClock) SetTimeAlert(name string, at time.Time, handler Handler) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.timers[name]; exists {
		return errs.DuplicateKey("timer", name)
	}
	now := time.Now().UTC()
	if at.Before(now) {
		return errs.InvalidArgument("time alert %q: at %s is before now %s", name, at, now)
	}
	h, err := validateRegistration(name, handler, c.defaultHandler)
	if err != nil {
		return err
	}

	stopCh := make(chan struct{})
	c.timers[name] = &liveTimer{stopCh: stopCh}
	go func() {
		t := time.NewTimer(at.Sub(now))
		defer t.Stop()
		select {
		case fired := <-t.C:
			h(fired.UTC())
			c.mu.Lock()
			delete(c.timers, name)
			c.mu.Unlock()
		case <-stopCh:
		}
	}()
	return nil
}

// SetTimer implements Clock.
func (c *LiveClock) SetTimer(name string, interval time.Duration, start time.Time, hasStart bool, stop time.Time, hasStop bool, handler Handler) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.timers[name]; exists {
		return errs.DuplicateKey("timer", name)
	}
	if interval <= 0 {
		return errs.InvalidArgument("timer %q: interval must be > 0", name)
	}
	now := time.Now().UTC()
	first := now.Add(interval)
	if hasStart {
		if start.Before(now) {
			return errs.InvalidArgument("timer %q: start %s is before now %s", name, start, now)
		}
		first = start
	}
	if hasStop && stop.Before(first.Add(interval)) {
		return errs.InvalidArgument("timer %q: stop %s is before first_fire+interval %s", name, stop, first.Add(interval))
	}
	h, err := validateRegistration(name, handler, c.defaultHandler)
	if err != nil {
		return err
	}

	stopCh := make(chan struct{})
	c.timers[name] = &liveTimer{stopCh: stopCh}
	go c.runTimer(name, first, interval, stop, hasStop, h, stopCh)
	return nil
}

func (c *LiveClock) runTimer(name string, next time.Time, interval time.Duration, stop time.Time, hasStop bool, h Handler, stopCh chan struct{}) {
	for {
		wait := time.Until(next)
		if wait < 0 {
			wait = 0
		}
		t := time.NewTimer(wait)
		select {
		case fired := <-t.C:
			h(fired.UTC())
			next = next.Add(interval)
			if hasStop && next.After(stop) {
				c.mu.Lock()
				delete(c.timers, name)
				c.mu.Unlock()
				t.Stop()
				return
			}
		case <-stopCh:
			t.Stop()
			return
		}
	}
}

// CancelTimer implements Clock.
func (c *LiveClock) CancelTimer(name string) {
	c.mu.Lock()
	t, ok := c.timers[name]
	if ok {
		delete(c.timers, name)
	}
	c.mu.Unlock()
	if ok {
		close(t.stopCh)
	}
}

// CancelAllTimers implements Clock.
func (c *LiveClock) CancelAllTimers() {
	c.mu.Lock()
	timers := c.timers
	c.timers = make(map[string]*liveTimer)
	c.mu.Unlock()
	for _, t := range timers {
		close(t.stopCh)
	}
}

var _ Clock = (*LiveClock)(nil)
