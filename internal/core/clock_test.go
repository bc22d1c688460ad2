package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

func TestRealClock(t *testing.T) {
	clock := RealClock{}
	before := time.Now()
	now := clock.Now()

	assert.False(t, now.Before(before))
	assert.GreaterOrEqual(t, clock.Since(before), time.Duration(0))
}

func TestFakeClock_ManualControl(t *testing.T) {
	clock := NewFakeClock(epoch)
	assert.Equal(t, epoch, clock.Now())
	assert.Equal(t, epoch, clock.Now(), "a non-ticking clock stands still")

	clock.Advance(1500 * time.Millisecond)
	assert.Equal(t, 1500*time.Millisecond, clock.Since(epoch))

	clock.Advance(24 * time.Hour)
	assert.Equal(t, epoch.Add(24*time.Hour+1500*time.Millisecond), clock.Now())
}

func TestTickingClock_TimestampsIncrease(t *testing.T) {
	clock := NewTickingClock(epoch, time.Millisecond)

	stamps := make([]string, 3)
	for i := range stamps {
		stamps[i] = clock.Now().Format(TimestampLayout)
	}

	assert.Equal(t, []string{
		"2025-03-01T09:30:00.000000Z",
		"2025-03-01T09:30:00.001000Z",
		"2025-03-01T09:30:00.002000Z",
	}, stamps)
	assert.Equal(t, 3*time.Millisecond, clock.Since(epoch))
}
