package ical

import (
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"
)

// RecurrenceExpander materializes recurring events as concrete
// occurrences inside a time range.
type RecurrenceExpander struct {
	timeZone *time.Location
}

func NewRecurrenceExpander(tz *time.Location) *RecurrenceExpander {
	if tz == nil {
		tz = time.UTC
	}
	return &RecurrenceExpander{timeZone: tz}
}

// Expand returns one event per occurrence overlapping [rangeStart,
// rangeEnd). Non-recurring events pass through when they overlap the
// range; events whose rule fails to parse are skipped.
func (re *RecurrenceExpander) Expand(events []*Event, rangeStart, rangeEnd time.Time) ([]*Event, error) {
	var expanded []*Event
	for _, event := range events {
		if !event.IsRecurring() {
			if event.overlaps(rangeStart, rangeEnd) {
				expanded = append(expanded, event)
			}
			continue
		}
		instances, err := re.expandEvent(event, rangeStart, rangeEnd)
		if err != nil {
			continue
		}
		expanded = append(expanded, instances...)
	}
	return expanded, nil
}

func (re *RecurrenceExpander) expandEvent(event *Event, rangeStart, rangeEnd time.Time) ([]*Event, error) {
	rruleStr := "DTSTART:" + event.Start.UTC().Format("20060102T150405Z") + "\nRRULE:" + event.RRule
	rule, err := rrule.StrToRRule(rruleStr)
	if err != nil {
		return nil, fmt.Errorf("invalid RRULE: %w", err)
	}

	instances := rule.Between(rangeStart.Add(-event.Duration), rangeEnd.Add(event.Duration), true)
	instances = filterExcluded(instances, event.ExDates)

	var kept []time.Time
	for _, start := range instances {
		if start.Before(rangeEnd) && start.Add(event.Duration).After(rangeStart) {
			kept = append(kept, start)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Before(kept[j]) })

	occurrences := make([]*Event, 0, len(kept))
	for _, start := range kept {
		occurrences = append(occurrences, &Event{
			UID:         event.UID,
			Summary:     event.Summary,
			Description: event.Description,
			Location:    event.Location,
			Start:       start.In(re.timeZone),
			Duration:    event.Duration,
			IsAllDay:    event.IsAllDay,
		})
	}
	return occurrences, nil
}

func filterExcluded(instances, exDates []time.Time) []time.Time {
	if len(exDates) == 0 {
		return instances
	}
	excluded := make(map[int64]struct{}, len(exDates))
	for _, ex := range exDates {
		excluded[ex.Unix()] = struct{}{}
	}
	kept := instances[:0]
	for _, t := range instances {
		if _, skip := excluded[t.Unix()]; skip {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}
