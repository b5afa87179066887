package service

import "time"

// Clock pins "now" and the gym timezone. Day boundaries for stats and
// reports are computed in Loc; persisted instants are UTC.
type Clock struct {
	NowFunc func() time.Time
	Loc     *time.Location
}

// NewClock returns a wall clock in loc
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{NowFunc: time.Now, Loc: loc}
}

func (c Clock) Now() time.Time {
	if c.NowFunc == nil {
		return time.Now().UTC()
	}
	return c.NowFunc().UTC()
}

func (c Clock) location() *time.Location {
	if c.Loc == nil {
		return time.UTC
	}
	return c.Loc
}
