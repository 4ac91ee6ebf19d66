package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddiefleurent/strangengine/internal/clock"
	"github.com/eddiefleurent/strangengine/internal/core/errs"
)

func TestTestClock_AdvanceTimeFiresOneShotAlertInOrder(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := clock.NewTestClock(start)

	var fired []string
	require.NoError(t, c.SetTimeAlert("b", start.Add(2*time.Minute), func(time.Time) { fired = append(fired, "b") }))
	require.NoError(t, c.SetTimeAlert("a", start.Add(1*time.Minute), func(time.Time) { fired = append(fired, "a") }))

	events := c.AdvanceTime(start.Add(5 * time.Minute))
	require.Len(t, events, 2)
	assert.Equal(t, []string{"a", "b"}, fired)
	assert.Equal(t, "a", events[0].Name)
	assert.Equal(t, "b", events[1].Name)
}

func TestTestClock_AdvanceTimeTieBreaksByInsertionOrder(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := clock.NewTestClock(start)

	at := start.Add(time.Minute)
	var fired []string
	require.NoError(t, c.SetTimeAlert("second", at, func(time.Time) { fired = append(fired, "second") }))
	require.NoError(t, c.SetTimeAlert("first", at, func(time.Time) { fired = append(fired, "first") }))

	c.AdvanceTime(at)
	assert.Equal(t, []string{"second", "first"}, fired)
}

func TestTestClock_AdvanceTimeBeforeNowIsNoop(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := clock.NewTestClock(start)
	require.NoError(t, c.SetTimeAlert("a", start.Add(time.Minute), func(time.Time) {}))

	events := c.AdvanceTime(start.Add(-time.Minute))
	assert.Nil(t, events)
	assert.Equal(t, start, c.TimeNow())
}

func TestTestClock_PeriodicTimerFiresMultipleTimesAndRespectsStop(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := clock.NewTestClock(start)

	var fireCount int
	stop := start.Add(3 * time.Minute)
	require.NoError(t, c.SetTimer("heartbeat", time.Minute, time.Time{}, false, stop, true, func(time.Time) { fireCount++ }))

	c.AdvanceTime(start.Add(10 * time.Minute))
	assert.Equal(t, 3, fireCount)
}

func TestTestClock_DuplicateNameRejected(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := clock.NewTestClock(start)
	require.NoError(t, c.SetTimeAlert("a", start.Add(time.Minute), func(time.Time) {}))
	err := c.SetTimeAlert("a", start.Add(2*time.Minute), func(time.Time) {})
	assert.ErrorIs(t, err, errs.ErrDuplicateKey)
}

func TestTestClock_NoHandlerFailsWithoutDefault(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := clock.NewTestClock(start)
	err := c.SetTimeAlert("a", start.Add(time.Minute), nil)
	assert.ErrorIs(t, err, errs.ErrNoHandler)
}

func TestTestClock_DefaultHandlerUsedWhenNilGiven(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := clock.NewTestClock(start)
	var gotDefault bool
	c.RegisterDefaultHandler(func(time.Time) { gotDefault = true })

	require.NoError(t, c.SetTimeAlert("a", start.Add(time.Minute), nil))
	c.AdvanceTime(start.Add(time.Minute))
	assert.True(t, gotDefault)
}

func TestTestClock_CancelTimerRemovesIt(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := clock.NewTestClock(start)
	var fired bool
	require.NoError(t, c.SetTimeAlert("a", start.Add(time.Minute), func(time.Time) { fired = true }))
	c.CancelTimer("a")
	c.AdvanceTime(start.Add(time.Minute))
	assert.False(t, fired)
}

func TestTestClock_IntervalMustBePositive(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := clock.NewTestClock(start)
	err := c.SetTimer("bad", 0, time.Time{}, false, time.Time{}, false, func(time.Time) {})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}
