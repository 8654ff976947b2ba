package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock converts the system time into the league's local civil time.
type Clock struct {
	source clockwork.Clock
	loc    *time.Location
}

// New creates a Clock reading from source and reporting in loc.
func New(source clockwork.Clock, loc *time.Location) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{
		source: source,
		loc:    loc,
	}
}

// Now returns the current league-local civil time.
func (c *Clock) Now() Civil {
	return At(c.source.Now(), c.loc)
}

// Location returns the league's time zone.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// Source exposes the underlying clockwork clock so schedulers can share it.
func (c *Clock) Source() clockwork.Clock {
	return c.source
}

// At converts t into civil time in loc.
func At(t time.Time, loc *time.Location) Civil {
	local := t.In(loc)
	return Civil{
		Time:    local,
		Weekday: local.Weekday(),
		Hour:    local.Hour(),
		Minute:  local.Minute(),
	}
}
