// Package timer tracks elapsed time for a whole command and for its current stage.
package timer

import (
	"sync"
	"time"
)

// Timer reports total and per-stage durations.
type Timer interface {
	// Start resets the timer and begins the first stage.
	Start()
	// NewStage marks the beginning of a new stage.
	NewStage()
	// GetTiming returns the total elapsed time and the elapsed time of the current stage.
	GetTiming() (time.Duration, time.Duration)
}

// Clock is the default Timer implementation.
type Clock struct {
	mu         sync.Mutex
	now        func() time.Time
	started    time.Time
	stageStart time.Time
}

var _ Timer = (*Clock)(nil)

// New returns a Clock backed by time.Now.
func New() *Clock {
	return &Clock{now: time.Now}
}

// NewWithClock returns a Clock that reads time from now. Used by tests.
func NewWithClock(now func() time.Time) *Clock {
	return &Clock{now: now}
}

// Start resets the timer.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.started = c.now()
	c.stageStart = c.started
}

// NewStage starts a new stage. Starting a stage on an unstarted timer starts it.
func (c *Clock) NewStage() {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.now()
	if c.started.IsZero() {
		c.started = current
	}

	c.stageStart = current
}

// GetTiming returns the total and current-stage durations. Both are zero before Start.
func (c *Clock) GetTiming() (time.Duration, time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started.IsZero() {
		return 0, 0
	}

	current := c.now()

	return current.Sub(c.started), current.Sub(c.stageStart)
}
