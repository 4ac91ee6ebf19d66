package clock

import (
	"sort"
	"time"

	"github.com/eddiefleurent/strangengine/internal/core/errs"
)

// Event is one fired timer/alert invocation, as returned by AdvanceTime for
// diagnostics; the handler has already been invoked by the time it appears
// here.
type Event struct {
	Name string
	Time time.Time
}

// TestClock is a virtual clock: time only moves when AdvanceTime is called,
// making a backtest's event stream a pure function of its inputs per
// spec.md §5.
type TestClock struct {
	now            time.Time
	entries        map[string]*entry
	defaultHandler Handler
	nextSeq        int
}

// NewTestClock constructs a TestClock starting at start.
func NewTestClock(start time.Time) *TestClock {
	return &TestClock{now: start, entries: make(map[string]*entry)}
}

// TimeNow implements Clock.
func (c *TestClock) TimeNow() time.Time { return c.now }

// Reset forgets every registered alert/timer and sets the clock to start,
// for BacktestDriver.Run's step 1 ("set all test clocks to start").
func (c *TestClock) Reset(start time.Time) {
	c.now = start
	c.entries = make(map[string]*entry)
	c.nextSeq = 0
}

// RegisterDefaultHandler implements Clock.
func (c *TestClock) RegisterDefaultHandler(h Handler) { c.defaultHandler = h }

// SetTimeAlert implements Clock.
func (c *TestClock) SetTimeAlert(name string, at time.Time, handler Handler) error {
	if _, exists := c.entries[name]; exists {
		return errs.DuplicateKey("timer", name)
	}
	if at.Before(c.now) {
		return errs.InvalidArgument("time alert %q: at %s is before now %s", name, at, c.now)
	}
	h, err := validateRegistration(name, handler, c.defaultHandler)
	if err != nil {
		return err
	}
	c.entries[name] = &entry{name: name, nextTime: at, handler: h, seq: c.nextSeq}
	c.nextSeq++
	return nil
}

// SetTimer implements Clock.
func (c *TestClock) SetTimer(name string, interval time.Duration, start time.Time, hasStart bool, stop time.Time, hasStop bool, handler Handler) error {
	if _, exists := c.entries[name]; exists {
		return errs.DuplicateKey("timer", name)
	}
	if interval <= 0 {
		return errs.InvalidArgument("timer %q: interval must be > 0", name)
	}
	first := c.now.Add(interval)
	if hasStart {
		if start.Before(c.now) {
			return errs.InvalidArgument("timer %q: start %s is before now %s", name, start, c.now)
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
	c.entries[name] = &entry{
		name: name, periodic: true, nextTime: first, interval: interval,
		stop: stop, hasStop: hasStop, handler: h, seq: c.nextSeq,
	}
	c.nextSeq++
	return nil
}

// CancelTimer implements Clock.
func (c *TestClock) CancelTimer(name string) { delete(c.entries, name) }

// CancelAllTimers implements Clock.
func (c *TestClock) CancelAllTimers() { c.entries = make(map[string]*entry) }

// AdvanceTime moves the clock forward to to, firing (in non-decreasing
// timestamp order, ties broken by registration order) every alert/timer
// whose next_time is <= to and has not yet fired for that time, per
// spec.md §4.7/§9. to < now is a no-op returning nil; to == now still
// fires anything exactly due (e.g. registered at the current instant but
// not yet fired).
func (c *TestClock) AdvanceTime(to time.Time) []Event {
	if to.Before(c.now) {
		return nil
	}

	var fired []Event
	for {
		name, e := c.nextDue(to)
		if e == nil {
			break
		}
		at := e.nextTime
		e.handler(at)
		fired = append(fired, Event{Name: name, Time: at})

		if !e.periodic {
			delete(c.entries, name)
			continue
		}
		e.nextTime = e.nextTime.Add(e.interval)
		if e.hasStop && e.nextTime.After(e.stop) {
			delete(c.entries, name)
		}
	}

	c.now = to
	return fired
}

// nextDue returns the name/entry of the earliest not-yet-fired entry with
// next_time <= to, tie-broken by registration order, or ("", nil) if none.
func (c *TestClock) nextDue(to time.Time) (string, *entry) {
	var candidates []*entry
	for _, e := range c.entries {
		if !e.nextTime.After(to) {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		return "", nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].nextTime.Equal(candidates[j].nextTime) {
			return candidates[i].nextTime.Before(candidates[j].nextTime)
		}
		return candidates[i].seq < candidates[j].seq
	})
	best := candidates[0]
	return best.name, best
}

var _ Clock = (*TestClock)(nil)
