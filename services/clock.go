package services

import (
	"time"

	"meal-service/models"
)

// Clock supplies the current calendar date.
type Clock interface {
	Today() time.Time
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	Location *time.Location
}

// NewSystemClock returns a clock for the named IANA zone, falling back to UTC.
func NewSystemClock(zone string) SystemClock {
	loc, err := time.LoadLocation(zone)
	if err != nil || zone == "" {
		loc = time.UTC
	}
	return SystemClock{Location: loc}
}

// Today returns the local calendar date as UTC midnight.
func (c SystemClock) Today() time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// FixedClock always returns the same date.
type FixedClock struct {
	Date time.Time
}

func (c FixedClock) Today() time.Time { return models.DateOf(c.Date) }
