package dto

import (
	"time"

	"calendar-digest/core/constants"

	"google.golang.org/api/calendar/v3"
)

// EventWindow bounds a listing request: [Start, Now] for past events and
// [Now, End] for future ones.
type EventWindow struct {
	Start time.Time
	Now   time.Time
	End   time.Time
}

func NewEventWindow(now time.Time) EventWindow {
	return EventWindow{
		Start: now.Add(-constants.EventWindow),
		Now:   now,
		End:   now.Add(constants.EventWindow),
	}
}

// EventList is one provider listing. Summary is the calendar's display name,
// usually the account email.
type EventList struct {
	Summary string
	Items   []*calendar.Event
}

type EventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

type AttendeeRecord struct {
	Email          string `json:"email"`
	ResponseStatus string `json:"responseStatus"`
	Organizer      bool   `json:"organizer,omitempty"`
	Self           bool   `json:"self,omitempty"`
}

// EventRecord is the display-ready form of a provider event.
type EventRecord struct {
	ID              string           `json:"id"`
	Summary         string           `json:"summary"`
	Description     string           `json:"description,omitempty"`
	Start           EventTime        `json:"start"`
	End             EventTime        `json:"end"`
	Attendees       []AttendeeRecord `json:"attendees"`
	HangoutLink     string           `json:"hangoutLink,omitempty"`
	Status          string           `json:"status,omitempty"`
	DurationMinutes int              `json:"durationMinutes"`
}

type EventsResponse struct {
	PastEvents     []EventRecord `json:"pastEvents"`
	FutureEvents   []EventRecord `json:"futureEvents"`
	ConnectedEmail *string       `json:"connectedEmail"`
}
