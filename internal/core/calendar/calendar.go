// Package calendar derives civil dates in the single timezone the service runs on.
package calendar

import (
	"fmt"
	"time"

	// embed the IANA database so the zone resolves in scratch containers
	_ "time/tzdata"
)

const DateLayout = "2006-01-02"

type Calendar struct {
	loc *time.Location
}

func New(zone string) (*Calendar, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load location %q: %w", zone, err)
	}
	return &Calendar{loc: loc}, nil
}

// MustNew is New for zones known at compile time.
func MustNew(zone string) *Calendar {
	c, err := New(zone)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Calendar) Location() *time.Location {
	return c.loc
}

// DateOf returns the civil date t falls on, as midnight UTC of that date.
func (c *Calendar) DateOf(t time.Time) time.Time {
	y, m, d := t.In(c.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (c *Calendar) Today(now time.Time) time.Time {
	return c.DateOf(now)
}

func Format(date time.Time) string {
	return date.Format(DateLayout)
}
