package ical

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandNonRecurring(t *testing.T) {
	re := NewRecurrenceExpander(time.UTC)
	event := &Event{
		UID:      "evt-1",
		Start:    time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		Duration: time.Hour,
	}

	t.Run("passes through when overlapping the range", func(t *testing.T) {
		out, err := re.Expand([]*Event{event},
			time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Same(t, event, out[0])
	})

	t.Run("dropped when outside the range", func(t *testing.T) {
		out, err := re.Expand([]*Event{event},
			time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestExpandDailyRule(t *testing.T) {
	re := NewRecurrenceExpander(time.UTC)
	event := &Event{
		UID:      "evt-2",
		Summary:  "Office hours",
		Start:    time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		Duration: time.Hour,
		RRule:    "FREQ=DAILY;COUNT=5",
	}

	out, err := re.Expand([]*Event{event},
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, out, 5)
	for i, occ := range out {
		assert.Equal(t, time.Date(2026, 9, 1+i, 10, 0, 0, 0, time.UTC), occ.Start, i)
		assert.Equal(t, event.Duration, occ.Duration, i)
		assert.Equal(t, event.UID, occ.UID, i)
		assert.Equal(t, event.Summary, occ.Summary, i)
	}
}

func TestExpandRangeClipsOccurrences(t *testing.T) {
	re := NewRecurrenceExpander(time.UTC)
	event := &Event{
		UID:      "evt-3",
		Start:    time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		Duration: time.Hour,
		RRule:    "FREQ=DAILY;COUNT=10",
	}

	out, err := re.Expand([]*Event{event},
		time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, time.Date(2026, 9, 3, 10, 0, 0, 0, time.UTC), out[0].Start)
	assert.Equal(t, time.Date(2026, 9, 5, 10, 0, 0, 0, time.UTC), out[2].Start)
}

func TestExpandHonorsExceptionDates(t *testing.T) {
	re := NewRecurrenceExpander(time.UTC)
	event := &Event{
		UID:      "evt-4",
		Start:    time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		Duration: time.Hour,
		RRule:    "FREQ=DAILY;COUNT=5",
		ExDates: []time.Time{
			time.Date(2026, 9, 3, 10, 0, 0, 0, time.UTC),
		},
	}

	out, err := re.Expand([]*Event{event},
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, out, 4)
	for _, occ := range out {
		assert.NotEqual(t, 3, occ.Start.Day())
	}
}

func TestExpandSkipsBadRule(t *testing.T) {
	re := NewRecurrenceExpander(time.UTC)
	bad := &Event{
		UID:      "evt-5",
		Start:    time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		Duration: time.Hour,
		RRule:    "FREQ=NOPE",
	}
	good := &Event{
		UID:      "evt-6",
		Start:    time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		Duration: time.Hour,
	}

	out, err := re.Expand([]*Event{bad, good},
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "evt-6", out[0].UID)
}
