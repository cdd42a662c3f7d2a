package ical

import "time"

// Event is the appointment shape the reminder subsystem works with:
// enough of a VEVENT to place it in time and expand its recurrences.
type Event struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	Duration    time.Duration
	IsAllDay    bool

	RRule   string
	ExDates []time.Time
}

func (e *Event) End() time.Time {
	return e.Start.Add(e.Duration)
}

func (e *Event) IsRecurring() bool {
	return e.RRule != ""
}

func (e *Event) overlaps(rangeStart, rangeEnd time.Time) bool {
	return e.Start.Before(rangeEnd) && e.End().After(rangeStart)
}
