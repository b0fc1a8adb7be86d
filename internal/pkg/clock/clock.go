// Package clock abstracts wall time so time-sensitive rules, like the
// idempotency key expiry window, can be pinned in tests.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

func NewRealClock() Clock { return systemClock{} }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// FrozenClock reports a fixed instant until explicitly moved.
type FrozenClock struct {
	now time.Time
}

func NewFrozenClock(t time.Time) *FrozenClock {
	return &FrozenClock{now: t}
}

func (c *FrozenClock) Now() time.Time { return c.now }

func (c *FrozenClock) SetTo(t time.Time) { c.now = t }

func (c *FrozenClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
