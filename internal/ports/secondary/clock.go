package secondary

import "time"

// Clock is the source of "now" and of the local timezone that calendar-day
// keys are computed in.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}
