// Package expiry measures time remaining until an option's expiration instant.
package expiry

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/rustyeddy/optrisk/occ"
)

const (
	// NotAnOption is returned by DaysToExpiry when the symbol does not decode.
	NotAnOption = -1.0

	// MinYears floors time-to-expiry so same-day contracts keep a small
	// positive time value.
	MinYears = 0.001

	DaysPerYear = 365.0

	DefaultTimezone = "America/New_York"
	DefaultHour     = 16
)

// Clock anchors expirations at a fixed hour in the exchange time zone.
type Clock struct {
	Location *time.Location
	Hour     int
	MinYears float64
}

var defaultClock = mustClock(DefaultTimezone, DefaultHour, MinYears)

// Default returns the 16:00 America/New_York clock.
func Default() Clock {
	return defaultClock
}

// New builds a clock for the named IANA time zone.
func New(tz string, hour int, minYears float64) (Clock, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Clock{}, fmt.Errorf("load timezone %q: %w", tz, err)
	}
	if hour < 0 || hour > 23 {
		return Clock{}, fmt.Errorf("expiry hour %d out of range", hour)
	}
	if minYears <= 0 {
		return Clock{}, fmt.Errorf("min_years must be positive")
	}
	return Clock{Location: loc, Hour: hour, MinYears: minYears}, nil
}

func mustClock(tz string, hour int, minYears float64) Clock {
	c, err := New(tz, hour, minYears)
	if err != nil {
		panic(err)
	}
	return c
}

// Instant is the wall-clock moment the option expires.
func (c Clock) Instant(o occ.Option) time.Time {
	y, m, d := o.Expiration.Date()
	return time.Date(y, m, d, c.Hour, 0, 0, 0, c.Location)
}

func (c Clock) minDays() float64 {
	return c.MinYears * DaysPerYear
}

// Days returns fractional days from now until expiry, never below the floor.
func (c Clock) Days(o occ.Option, now time.Time) float64 {
	days := c.Instant(o).Sub(now).Hours() / 24
	if days < c.minDays() {
		return c.minDays()
	}
	return days
}

// YearsToExpiry is Days expressed in years.
func (c Clock) YearsToExpiry(o occ.Option, now time.Time) float64 {
	return c.Days(o, now) / DaysPerYear
}

// DaysToExpiry decodes symbol and returns its fractional days to expiry,
// or NotAnOption.
func (c Clock) DaysToExpiry(symbol string, now time.Time) float64 {
	o, ok := occ.Decode(symbol)
	if !ok {
		return NotAnOption
	}
	return c.Days(o, now)
}

func DaysToExpiry(symbol string, now time.Time) float64 {
	return defaultClock.DaysToExpiry(symbol, now)
}

func YearsToExpiry(o occ.Option, now time.Time) float64 {
	return defaultClock.YearsToExpiry(o, now)
}
