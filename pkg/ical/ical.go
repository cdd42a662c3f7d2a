package ical

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
)

// ParseEvents decodes every VEVENT in an iCalendar payload. Malformed
// components are skipped; the payload as a whole fails only when it is
// not a calendar or contains no usable event.
func ParseEvents(data []byte) ([]*Event, error) {
	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to parse calendar: %w", err)
	}

	var events []*Event
	for _, comp := range cal.Children {
		if comp.Name != ical.CompEvent {
			continue
		}
		event, err := parseEvent(comp)
		if err != nil {
			continue
		}
		events = append(events, event)
	}
	if len(events) == 0 {
		return nil, errors.New("no usable VEVENT in calendar data")
	}
	return events, nil
}

func parseEvent(comp *ical.Component) (*Event, error) {
	event := &Event{}

	uid := comp.Props.Get(ical.PropUID)
	if uid == nil {
		return nil, errors.New("missing UID")
	}
	event.UID = uid.Value

	if summary := comp.Props.Get(ical.PropSummary); summary != nil {
		event.Summary = summary.Value
	}
	if desc := comp.Props.Get(ical.PropDescription); desc != nil {
		event.Description = desc.Value
	}
	if loc := comp.Props.Get(ical.PropLocation); loc != nil {
		event.Location = loc.Value
	}

	dtstart := comp.Props.Get(ical.PropDateTimeStart)
	if dtstart == nil {
		return nil, errors.New("missing DTSTART")
	}
	start, err := dtstart.DateTime(time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid DTSTART: %w", err)
	}
	event.Start = start
	event.IsAllDay = dtstart.ValueType() == ical.ValueDate

	if dtend := comp.Props.Get(ical.PropDateTimeEnd); dtend != nil {
		end, err := dtend.DateTime(time.UTC)
		if err != nil {
			return nil, fmt.Errorf("invalid DTEND: %w", err)
		}
		event.Duration = end.Sub(start)
	} else if event.IsAllDay {
		event.Duration = 24 * time.Hour
	}

	if rr := comp.Props.Get(ical.PropRecurrenceRule); rr != nil {
		event.RRule = rr.Value
	}
	for _, exProp := range comp.Props.Values(ical.PropExceptionDates) {
		ex, err := exProp.DateTime(time.UTC)
		if err != nil {
			continue
		}
		event.ExDates = append(event.ExDates, ex)
	}

	return event, nil
}

// BuildEvent serializes an Event to an iCalendar payload stamped with the
// given PRODID. A UID is generated when the event has none.
func BuildEvent(e *Event, prodID string) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, prodID)
	cal.Props.SetText(ical.PropVersion, "2.0")

	ev := ical.NewComponent(ical.CompEvent)
	uid := e.UID
	if uid == "" {
		uid = uuid.NewString()
	}
	ev.Props.SetText(ical.PropUID, uid)
	ev.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	if e.Summary != "" {
		ev.Props.SetText(ical.PropSummary, e.Summary)
	}
	if e.Description != "" {
		ev.Props.SetText(ical.PropDescription, e.Description)
	}
	if e.Location != "" {
		ev.Props.SetText(ical.PropLocation, e.Location)
	}
	ev.Props.SetDateTime(ical.PropDateTimeStart, e.Start.UTC())
	ev.Props.SetDateTime(ical.PropDateTimeEnd, e.End().UTC())
	if e.RRule != "" {
		ev.Props.SetText(ical.PropRecurrenceRule, e.RRule)
	}
	cal.Children = append(cal.Children, ev)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
