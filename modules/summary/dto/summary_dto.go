package dto

type Attendee struct {
	Email          string `json:"email"`
	ResponseStatus string `json:"responseStatus,omitempty"`
}

// SummarizeRequest is the body of POST /summarize.
type SummarizeRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Attendees   []Attendee `json:"attendees"`
}
