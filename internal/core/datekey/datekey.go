// Package datekey converts instants to canonical local calendar-day keys and
// performs day arithmetic on them.
// This is part of the Functional Core - no I/O, only pure functions.
package datekey

import (
	"fmt"
	"time"
)

// Layout is the canonical key layout.
const Layout = "2006-01-02"

// Key is a local calendar-day key in "YYYY-MM-DD" form.
type Key string

// InvalidDateKeyError is returned when a persisted or supplied key is malformed.
type InvalidDateKeyError struct {
	Value string
}

func (e *InvalidDateKeyError) Error() string {
	return fmt.Sprintf("invalid date key %q (want YYYY-MM-DD)", e.Value)
}

// FromTime returns the calendar-day key of t as observed in loc.
// A nil loc means the instant's own location.
func FromTime(t time.Time, loc *time.Location) Key {
	if loc != nil {
		t = t.In(loc)
	}
	return Key(t.Format(Layout))
}

// Parse validates s and returns it as a Key.
func Parse(s string) (Key, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return "", &InvalidDateKeyError{Value: s}
	}
	// time.Parse accepts some non-canonical inputs; require a round trip.
	if t.Format(Layout) != s {
		return "", &InvalidDateKeyError{Value: s}
	}
	return Key(s), nil
}

// Valid reports whether k is a well-formed key.
func (k Key) Valid() bool {
	_, err := Parse(string(k))
	return err == nil
}

// IsZero reports whether the key is absent.
func (k Key) IsZero() bool {
	return k == ""
}

func (k Key) String() string {
	return string(k)
}

// midnight returns the key as midnight UTC. UTC has no DST, so the difference
// between two midnights is always a whole number of days.
func (k Key) midnight() (time.Time, error) {
	t, err := time.Parse(Layout, string(k))
	if err != nil {
		return time.Time{}, &InvalidDateKeyError{Value: string(k)}
	}
	return t, nil
}

// AddDays returns the key n days after k (n may be negative).
// An invalid key is returned unchanged.
func (k Key) AddDays(n int) Key {
	t, err := k.midnight()
	if err != nil {
		return k
	}
	return Key(t.AddDate(0, 0, n).Format(Layout))
}

// DaysBetween returns the number of calendar days from a to b.
// The result is negative when b is before a.
func DaysBetween(a, b Key) (int, error) {
	ta, err := a.midnight()
	if err != nil {
		return 0, err
	}
	tb, err := b.midnight()
	if err != nil {
		return 0, err
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}

// Before reports whether k is strictly before other. Keys compare
// lexicographically because the layout is zero-padded and big-endian.
func (k Key) Before(other Key) bool {
	return k < other
}
