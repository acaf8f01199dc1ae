package rollingbloom

import (
	"time"
)

// DefaultShiftDuration is one hour.
const DefaultShiftDuration = time.Hour

// DefaultShiftInsertions is valid for both Hash4 and Hash8.
const DefaultShiftInsertions = 1 << 12

// ShiftCondition decides when the rolling window rotates.
//
// ShouldShift must not mutate the condition, Increment and DoShift are the only mutators.
type ShiftCondition interface {
	ShouldShift() bool

	// called when the window rotates
	DoShift()

	// called once per insertion
	Increment()

	// Increment() followed by ShouldShift()
	ShouldShiftAfterIncrement() bool
}

func shouldShiftAfterIncrement(c ShiftCondition) bool {
	c.Increment()
	return c.ShouldShift()
}

func clockOrNow(now func() time.Time) time.Time {
	if now == nil {
		return time.Now()
	}
	return now()
}

// ShiftByDuration shifts once the duration has elapsed since the last shift.
// The zero value is usable, its first window starts at the first insertion.
// A nil *ShiftByDuration never shifts.
type ShiftByDuration struct {
	// zero means DefaultShiftDuration
	Duration time.Duration

	lastShift time.Time
	now       func() time.Time
}

// NewShiftByDuration starts the first window now. A non-positive d means DefaultShiftDuration.
func NewShiftByDuration(d time.Duration) *ShiftByDuration {
	return newShiftByDuration(d, time.Now)
}

func newShiftByDuration(d time.Duration, now func() time.Time) *ShiftByDuration {
	if d <= 0 {
		d = DefaultShiftDuration
	}
	return &ShiftByDuration{
		Duration:  d,
		lastShift: now(),
		now:       now,
	}
}

func (c *ShiftByDuration) duration() time.Duration {
	if c.Duration <= 0 {
		return DefaultShiftDuration
	}
	return c.Duration
}

func (c *ShiftByDuration) ShouldShift() bool {
	if c == nil || c.lastShift.IsZero() {
		return false
	}
	return clockOrNow(c.now).Sub(c.lastShift) >= c.duration()
}

func (c *ShiftByDuration) DoShift() {
	if c == nil {
		return
	}
	c.lastShift = clockOrNow(c.now)
}

// Increment starts the first window of a condition built without NewShiftByDuration.
func (c *ShiftByDuration) Increment() {
	if c == nil || !c.lastShift.IsZero() {
		return
	}
	c.lastShift = clockOrNow(c.now)
}

func (c *ShiftByDuration) ShouldShiftAfterIncrement() bool {
	return shouldShiftAfterIncrement(c)
}

// ShiftByInsertions shifts on the Limit-th insertion of a window.
// A nil *ShiftByInsertions never shifts.
type ShiftByInsertions struct {
	// zero means DefaultShiftInsertions
	Limit int

	insertionCount int
}

// NewShiftByInsertions returns a condition with the given limit. A non-positive limit means DefaultShiftInsertions.
func NewShiftByInsertions(limit int) *ShiftByInsertions {
	if limit <= 0 {
		limit = DefaultShiftInsertions
	}
	return &ShiftByInsertions{Limit: limit}
}

func (c *ShiftByInsertions) limit() int {
	if c.Limit <= 0 {
		return DefaultShiftInsertions
	}
	return c.Limit
}

func (c *ShiftByInsertions) ShouldShift() bool {
	if c == nil {
		return false
	}
	// the count is incremented before the check, so reaching the limit is enough
	return c.insertionCount >= c.limit()
}

func (c *ShiftByInsertions) DoShift() {
	if c == nil {
		return
	}
	c.insertionCount = 0
}

func (c *ShiftByInsertions) Increment() {
	if c == nil {
		return
	}
	c.insertionCount++
}

func (c *ShiftByInsertions) ShouldShiftAfterIncrement() bool {
	return shouldShiftAfterIncrement(c)
}

// ShiftByInterval shifts when the wall clock enters a new interval, e.g. every full hour.
// Processes using the same interval rotate at the same moment without talking to each other.
// The zero value is usable, it starts tracking at the first insertion.
// A nil *ShiftByInterval never shifts.
type ShiftByInterval struct {
	// zero means DefaultShiftDuration
	Interval time.Duration

	bucket  int64
	started bool
	now     func() time.Time
}

// NewShiftByInterval returns a condition aligned to multiples of interval since the unix epoch.
// A non-positive interval means DefaultShiftDuration.
func NewShiftByInterval(interval time.Duration) *ShiftByInterval {
	return newShiftByInterval(interval, time.Now)
}

func newShiftByInterval(interval time.Duration, now func() time.Time) *ShiftByInterval {
	if interval <= 0 {
		interval = DefaultShiftDuration
	}
	c := &ShiftByInterval{
		Interval: interval,
		now:      now,
	}
	c.DoShift()
	return c
}

func (c *ShiftByInterval) currentBucket() int64 {
	interval := c.Interval
	if interval <= 0 {
		interval = DefaultShiftDuration
	}
	return clockOrNow(c.now).UnixNano() / int64(interval)
}

func (c *ShiftByInterval) ShouldShift() bool {
	if c == nil || !c.started {
		return false
	}
	return c.currentBucket() != c.bucket
}

func (c *ShiftByInterval) DoShift() {
	if c == nil {
		return
	}
	c.bucket = c.currentBucket()
	c.started = true
}

// Increment starts tracking for a condition built without NewShiftByInterval.
func (c *ShiftByInterval) Increment() {
	if c == nil || c.started {
		return
	}
	c.DoShift()
}

func (c *ShiftByInterval) ShouldShiftAfterIncrement() bool {
	return shouldShiftAfterIncrement(c)
}

// ShiftByAny shifts when any of its conditions does, e.g. every hour or every 4096 insertions.
type ShiftByAny []ShiftCondition

func (c ShiftByAny) ShouldShift() bool {
	for _, cond := range c {
		if cond.ShouldShift() {
			return true
		}
	}
	return false
}

func (c ShiftByAny) DoShift() {
	for _, cond := range c {
		cond.DoShift()
	}
}

func (c ShiftByAny) Increment() {
	for _, cond := range c {
		cond.Increment()
	}
}

func (c ShiftByAny) ShouldShiftAfterIncrement() bool {
	return shouldShiftAfterIncrement(c)
}
