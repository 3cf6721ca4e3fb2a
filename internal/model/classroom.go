package model

import "time"

// Classroom represents a bookable room.
type Classroom struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

type BookingStatus string

const (
	BookingPending  BookingStatus = "pending"
	BookingApproved BookingStatus = "approved"
	BookingRejected BookingStatus = "rejected"
)

// Booking represents a one-off reservation of a classroom slot. A nil
// ApprovedBy means no admin has decided on it yet.
type Booking struct {
	ID            int64         `json:"id"`
	ClassroomID   int64         `json:"classroom_id"`
	ClassroomName string        `json:"classroom"`
	Date          time.Time     `json:"-"`
	Slot          string        `json:"slot"`
	Year          int           `json:"year"`
	RequestedBy   int64         `json:"requested_by"`
	RequesterName string        `json:"requested_by_name"`
	ApprovedBy    *int64        `json:"approved_by"`
	Status        BookingStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
}

// BookingRequest represents the body of a classroom booking request.
type BookingRequest struct {
	ClassroomID int64  `json:"classroom_id" validate:"required"`
	Date        string `json:"date" validate:"required"`
	Slot        string `json:"slot" validate:"required"`
	Year        int    `json:"year" validate:"required"`
}

// BookingView is the wire projection of a booking.
type BookingView struct {
	Booking
	Date string `json:"date"`
}

// ToView projects b with its date in DateLayout.
func (b Booking) ToView() BookingView {
	return BookingView{Booking: b, Date: FormatDate(b.Date)}
}

// BookingResponse is returned after a booking is created or decided.
type BookingResponse struct {
	Success bool        `json:"success"`
	Booking BookingView `json:"booking"`
}

// ScheduleEntry is one recurring class held in a classroom.
type ScheduleEntry struct {
	ID        int64  `json:"id"`
	Semester  int    `json:"semester"`
	Section   string `json:"section"`
	DayOfWeek string `json:"day_of_week"`
	Slot      string `json:"slot"`
	Subject   string `json:"subject"`
	Classroom string `json:"classroom"`
}

// DaySchedule is everything that occupies rooms on one date.
type DaySchedule struct {
	Timetable []ScheduleEntry `json:"timetable"`
	Bookings  []BookingView   `json:"bookings"`
}

// SectionTimetable is a weekly grid of subjects by day and slot.
type SectionTimetable struct {
	Timetable map[string]map[string]string `json:"timetable"`
	Slots     []string                     `json:"slots"`
}
