package mapper

import (
	"math"
	"slices"
	"time"

	"calendar-digest/core/constants"
	"calendar-digest/modules/events/dto"

	"google.golang.org/api/calendar/v3"
)

// ShapePastEvents orders events most recent first and keeps the display limit.
func ShapePastEvents(items []*calendar.Event) []dto.EventRecord {
	records := ToEventRecords(items)
	// Providers return ascending order; reversing first keeps ties newest-listed first.
	slices.Reverse(records)
	slices.SortStableFunc(records, func(a, b dto.EventRecord) int {
		return compareStart(a, b, true)
	})
	return truncate(records)
}

// ShapeFutureEvents orders events soonest first and keeps the display limit.
func ShapeFutureEvents(items []*calendar.Event) []dto.EventRecord {
	records := ToEventRecords(items)
	slices.SortStableFunc(records, func(a, b dto.EventRecord) int {
		return compareStart(a, b, false)
	})
	return truncate(records)
}

func truncate(records []dto.EventRecord) []dto.EventRecord {
	if len(records) > constants.EventDisplayLimit {
		return records[:constants.EventDisplayLimit]
	}
	return records
}

// compareStart orders by start time; events without a parsable start sort last.
func compareStart(a, b dto.EventRecord, descending bool) int {
	ta, tb := ParseEventTime(a.Start), ParseEventTime(b.Start)
	switch {
	case ta.IsZero() && tb.IsZero():
		return 0
	case ta.IsZero():
		return 1
	case tb.IsZero():
		return -1
	}
	c := ta.Compare(tb)
	if descending {
		return -c
	}
	return c
}

// ParseEventTime returns the instant an event time refers to, or the zero time.
// All-day dates resolve to midnight UTC.
func ParseEventTime(t dto.EventTime) time.Time {
	if t.DateTime != "" {
		if parsed, err := time.Parse(time.RFC3339, t.DateTime); err == nil {
			return parsed
		}
	}
	if t.Date != "" {
		if parsed, err := time.Parse(time.DateOnly, t.Date); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func ToEventRecords(items []*calendar.Event) []dto.EventRecord {
	records := make([]dto.EventRecord, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		records = append(records, ToEventRecord(item))
	}
	return records
}

func ToEventRecord(item *calendar.Event) dto.EventRecord {
	record := dto.EventRecord{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		Start:       toEventTime(item.Start),
		End:         toEventTime(item.End),
		Attendees:   make([]dto.AttendeeRecord, 0, len(item.Attendees)),
		HangoutLink: item.HangoutLink,
		Status:      item.Status,
	}

	for _, a := range item.Attendees {
		if a == nil {
			continue
		}
		record.Attendees = append(record.Attendees, dto.AttendeeRecord{
			Email:          a.Email,
			ResponseStatus: a.ResponseStatus,
			Organizer:      a.Organizer,
			Self:           a.Self,
		})
	}

	start, end := ParseEventTime(record.Start), ParseEventTime(record.End)
	if !start.IsZero() && !end.IsZero() && end.After(start) {
		record.DurationMinutes = int(math.Round(end.Sub(start).Minutes()))
	}
	return record
}

func toEventTime(t *calendar.EventDateTime) dto.EventTime {
	if t == nil {
		return dto.EventTime{}
	}
	return dto.EventTime{
		DateTime: t.DateTime,
		Date:     t.Date,
		TimeZone: t.TimeZone,
	}
}
