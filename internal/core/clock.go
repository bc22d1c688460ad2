package core

import "time"

// Clock provides time operations that can be mocked for testing.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

// RealClock uses the standard time package.
type RealClock struct{}

func (RealClock) Now() time.Time                  { return time.Now() }
func (RealClock) Since(t time.Time) time.Duration { return time.Since(t) }

// FakeClock is a test clock that can be manually advanced.
// With a non-zero tick every call to Now moves the clock forward by tick,
// which keeps recorded timestamps strictly increasing in tests.
type FakeClock struct {
	current time.Time
	tick    time.Duration
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{current: start}
}

// NewTickingClock returns a FakeClock that advances by tick after each Now.
func NewTickingClock(start time.Time, tick time.Duration) *FakeClock {
	return &FakeClock{current: start, tick: tick}
}

func (f *FakeClock) Now() time.Time {
	now := f.current
	f.current = f.current.Add(f.tick)
	return now
}

func (f *FakeClock) Since(t time.Time) time.Duration { return f.current.Sub(t) }
func (f *FakeClock) Advance(d time.Duration)         { f.current = f.current.Add(d) }
