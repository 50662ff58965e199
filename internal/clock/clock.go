package clock

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// Clock is the time source used for token lifetimes and version-check debouncing
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real system time
type SystemClock struct{}

// NewSystemClock creates a clock that uses the real system time
func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

// Now returns the current system time
func (c *SystemClock) Now() time.Time {
	return time.Now()
}

// FixtureClock is a controllable clock for tests.
// It is safe for use by concurrent handlers.
type FixtureClock struct {
	mu          sync.Mutex
	currentTime time.Time
}

// NewFixtureClock creates a fixture clock starting at the given time.
// A zero start time means time.Now().
func NewFixtureClock(startTime time.Time) *FixtureClock {
	if startTime.IsZero() {
		startTime = time.Now()
	}
	return &FixtureClock{currentTime: startTime}
}

// Now returns the current fixture time
func (c *FixtureClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentTime
}

// Set sets the fixture clock to a specific time
func (c *FixtureClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentTime = t
}

// Advance moves the fixture clock forward by d
func (c *FixtureClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentTime = c.currentTime.Add(d)
}

// FormatMillis renders t as a decimal count of milliseconds since the Unix epoch
func FormatMillis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// ParseMillis parses a decimal millisecond epoch timestamp as written by FormatMillis
func ParseMillis(s string) (time.Time, error) {
	ms, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}
