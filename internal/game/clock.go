package game

import (
	"fmt"
	"time"
)

// StepMode selects how the clock sizes each simulation step.
type StepMode int

const (
	// StepFixed treats every step as the nominal delta regardless of how
	// much wall-clock time passed.
	StepFixed StepMode = iota
	// StepMeasured uses the wall-clock time since the previous step.
	StepMeasured
)

func (m StepMode) String() string {
	switch m {
	case StepFixed:
		return "fixed"
	case StepMeasured:
		return "measured"
	default:
		return fmt.Sprintf("StepMode(%d)", int(m))
	}
}

// ParseStepMode accepts "fixed" or "measured".
func ParseStepMode(s string) (StepMode, error) {
	switch s {
	case "fixed", "":
		return StepFixed, nil
	case "measured":
		return StepMeasured, nil
	default:
		return StepFixed, fmt.Errorf("unknown step mode %q (want fixed or measured)", s)
	}
}

// DefaultNominalDelta matches a 60 Hz display.
const DefaultNominalDelta = time.Second / 60

// DefaultMaxDelta caps a measured step after a stall.
const DefaultMaxDelta = 100 * time.Millisecond

// Clock yields the delta for each simulation step.
type Clock struct {
	Mode     StepMode
	Nominal  time.Duration
	MaxDelta time.Duration

	last    time.Time
	started bool
}

// NewClock returns a clock with the default nominal and maximum deltas.
func NewClock(mode StepMode) *Clock {
	return &Clock{Mode: mode, Nominal: DefaultNominalDelta, MaxDelta: DefaultMaxDelta}
}

// Next returns the step size in seconds for a step taken at now.
func (c *Clock) Next(now time.Time) float64 {
	nominal := c.Nominal
	if nominal <= 0 {
		nominal = DefaultNominalDelta
	}
	if c.Mode != StepMeasured {
		return nominal.Seconds()
	}

	if !c.started {
		c.started = true
		c.last = now
		return nominal.Seconds()
	}
	dt := now.Sub(c.last)
	c.last = now
	if dt < 0 {
		dt = 0
	}
	if c.MaxDelta > 0 && dt > c.MaxDelta {
		dt = c.MaxDelta
	}
	return dt.Seconds()
}

// Reset forgets the previous step time.
func (c *Clock) Reset() {
	c.started = false
	c.last = time.Time{}
}
