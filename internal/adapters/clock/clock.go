// Package clock provides secondary.Clock implementations.
package clock

import (
	"sync"
	"time"

	"github.com/example/streak/internal/ports/secondary"
)

// System reads the wall clock and reports instants in a fixed location.
type System struct {
	loc *time.Location
}

// NewSystem returns a wall clock bound to loc. A nil loc means time.Local.
func NewSystem(loc *time.Location) *System {
	if loc == nil {
		loc = time.Local
	}
	return &System{loc: loc}
}

func (c *System) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *System) Location() *time.Location {
	return c.loc
}

// Fixed is a manually advanced clock.
type Fixed struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixed returns a clock frozen at now. The location of now is reported
// by Location.
func NewFixed(now time.Time) *Fixed {
	return &Fixed{now: now}
}

func (c *Fixed) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Fixed) Location() *time.Location {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now.Location()
}

// Set moves the clock to t.
func (c *Fixed) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d.
func (c *Fixed) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

var (
	_ secondary.Clock = (*System)(nil)
	_ secondary.Clock = (*Fixed)(nil)
)
