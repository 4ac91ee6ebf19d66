// Package clock implements the two clock variants the backtest driver and
// live runtime share one surface for, per spec.md §4.7: a wall-clock
// LiveClock backed by real timers, and a virtual TestClock a backtest
// driver drives forward tick by tick.
package clock

import (
	"time"

	"github.com/eddiefleurent/strangengine/internal/core/errs"
)

// Handler is invoked with the timestamp a timer/alert fired at.
type Handler func(at time.Time)

// Clock is the shared surface both variants implement.
type Clock interface {
	// TimeNow returns the clock's current time in UTC.
	TimeNow() time.Time

	// SetTimeAlert registers a one-shot callback at an absolute time.
	// name must be unique; at must be >= TimeNow(); handler may be nil iff
	// a default handler was registered via RegisterDefaultHandler,
	// otherwise SetTimeAlert fails with errs.ErrNoHandler.
	SetTimeAlert(name string, at time.Time, handler Handler) error

	// SetTimer registers a periodic callback. interval must be > 0. If
	// hasStart, the first fire is at start (which must be >= TimeNow());
	// otherwise the first fire is at TimeNow()+interval. If hasStop, stop
	// must be >= the first fire time + interval, and the timer stops
	// firing once its next fire would exceed stop.
	SetTimer(name string, interval time.Duration, start time.Time, hasStart bool, stop time.Time, hasStop bool, handler Handler) error

	// CancelTimer removes a previously registered alert/timer. A missing
	// name is a no-op.
	CancelTimer(name string)

	// CancelAllTimers removes every registered alert/timer.
	CancelAllTimers()

	// RegisterDefaultHandler sets the handler used when SetTimeAlert or
	// SetTimer is called with a nil handler.
	RegisterDefaultHandler(h Handler)
}

// entry is the shared bookkeeping for one registered alert/timer, kept
// private to the package since both LiveClock and TestClock build on it.
type entry struct {
	name     string
	periodic bool

	nextTime time.Time
	interval time.Duration
	stop     time.Time
	hasStop  bool

	handler Handler
	seq     int
}

func validateRegistration(name string, handler, defaultHandler Handler) (Handler, error) {
	if name == "" {
		return nil, errs.InvalidArgument("timer name must not be empty")
	}
	if handler != nil {
		return handler, nil
	}
	if defaultHandler != nil {
		return defaultHandler, nil
	}
	return nil, errs.NoHandler(name)
}
