package model

import "time"

// DateLayout is the only accepted wire format for calendar dates.
const DateLayout = "2006-01-02"

type EventCategory string

const (
	CategoryCultural  EventCategory = "Cultural"
	CategoryTechnical EventCategory = "Technical"
	CategorySports    EventCategory = "Sports"
	CategoryWorkshops EventCategory = "Workshops"
)

// Valid reports whether c is one of the known categories.
func (c EventCategory) Valid() bool {
	switch c {
	case CategoryCultural, CategoryTechnical, CategorySports, CategoryWorkshops:
		return true
	}
	return false
}

type EventStatus string

const (
	StatusPlanning EventStatus = "Planning"
	StatusUpcoming EventStatus = "Upcoming"
	StatusLive     EventStatus = "Live"
	StatusEnded    EventStatus = "Ended"
)

// Event represents an event row. Zero StartDate/EndDate mean the column was NULL.
type Event struct {
	ID             int64
	OwnerID        int64
	Name           string
	Category       EventCategory
	Status         EventStatus
	StartDate      time.Time
	EndDate        time.Time
	Venue          string
	Description    string
	GuestName      *string
	GuestContact   *string
	SessionDetails *string
	Participants   int
}

// CreateEventRequest represents the body of an event creation request.
type CreateEventRequest struct {
	Title          string  `json:"title" validate:"required"`
	Category       string  `json:"category" validate:"required"`
	StartDate      string  `json:"start_date" validate:"required"`
	EndDate        string  `json:"end_date" validate:"required"`
	Venue          string  `json:"venue" validate:"required"`
	Description    string  `json:"description" validate:"required"`
	GuestName      *string `json:"guest_name"`
	GuestContact   *string `json:"guest_contact"`
	SessionDetails *string `json:"session_details"`
}

// EventSummary is the faculty dashboard projection of an event.
type EventSummary struct {
	ID           int64       `json:"id"`
	Title        string      `json:"title"`
	Date         string      `json:"date"`
	Venue        string      `json:"venue"`
	Status       EventStatus `json:"status"`
	Participants int         `json:"participants"`
}

// EventListing is the public projection of an event.
type EventListing struct {
	ID           int64         `json:"id"`
	Title        string        `json:"title"`
	Category     EventCategory `json:"category"`
	StartDate    string        `json:"start_date"`
	EndDate      string        `json:"end_date"`
	Venue        string        `json:"venue"`
	Description  string        `json:"description"`
	Status       EventStatus   `json:"status"`
	Participants int           `json:"participants"`
}

// EventRegistration records a student signing up for an event.
type EventRegistration struct {
	ID           int64     `json:"id"`
	EventID      int64     `json:"event_id"`
	StudentID    int64     `json:"student_id"`
	RegisteredAt time.Time `json:"registered_at"`
}

// FormatDate renders t in DateLayout, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// RegistrationResponse is returned after a successful event registration.
type RegistrationResponse struct {
	Success      bool               `json:"success"`
	Message      string             `json:"message"`
	Registration *EventRegistration `json:"registration"`
}
