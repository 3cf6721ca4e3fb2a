package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/anvaya/anvaya-go/internal/model"
	"github.com/anvaya/anvaya-go/internal/repository"
	"github.com/anvaya/anvaya-go/internal/timetable"
)

// ClassroomStore is the classroom and schedule persistence ClassroomService depends on.
type ClassroomStore interface {
	List(ctx context.Context) ([]model.Classroom, error)
	ListAvailable(ctx context.Context, date time.Time, weekday, slot string) ([]model.Classroom, error)
	ScheduleForDay(ctx context.Context, weekday string) ([]model.ScheduleEntry, error)
	ScheduleForSection(ctx context.Context, semester int, section string) ([]model.ScheduleEntry, error)
}

// BookingStore is the booking persistence ClassroomService depends on.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking, weekday string) error
	List(ctx context.Context, f repository.BookingFilter) ([]model.Booking, error)
	Decide(ctx context.Context, id int64, status model.BookingStatus, deciderID int64) (*model.Booking, error)
}

// ClassroomService handles classroom availability, bookings and the
// recurring class schedule.
type ClassroomService struct {
	classrooms ClassroomStore
	bookings   BookingStore
}

// NewClassroomService creates a new ClassroomService.
func NewClassroomService(classrooms ClassroomStore, bookings BookingStore) *ClassroomService {
	return &ClassroomService{classrooms: classrooms, bookings: bookings}
}

// ListClassrooms returns every classroom.
func (s *ClassroomService) ListClassrooms(ctx context.Context) ([]model.Classroom, error) {
	return s.classrooms.List(ctx)
}

// Available returns the classrooms free on date at slot.
func (s *ClassroomService) Available(ctx context.Context, date, slot string) ([]model.Classroom, error) {
	if date == "" || slot == "" {
		return nil, invalid(MsgDateSlotRequired)
	}
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	if err := timetable.ValidateSlot(slot); err != nil {
		return nil, invalid(MsgInvalidSlot)
	}

	return s.classrooms.ListAvailable(ctx, day, day.Weekday().String(), slot)
}

// RequestBooking stores a pending booking on behalf of a faculty member or admin.
func (s *ClassroomService) RequestBooking(ctx context.Context, actorID int64, actorRole model.Role, req model.BookingRequest) (*model.Booking, error) {
	if actorRole != model.RoleFaculty && actorRole != model.RoleAdmin {
		return nil, ErrStaffOnly
	}
	if err := validate.Struct(req); err != nil {
		return nil, invalid(MsgMissingFields)
	}
	if req.Year < 0 {
		return nil, invalid(MsgInvalidYear)
	}
	day, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if err := timetable.ValidateSlot(req.Slot); err != nil {
		return nil, invalid(MsgInvalidSlot)
	}

	booking := &model.Booking{
		ClassroomID: req.ClassroomID,
		Date:        day,
		Slot:        req.Slot,
		Year:        req.Year,
		RequestedBy: actorID,
		Status:      model.BookingPending,
	}
	if err := s.bookings.Create(ctx, booking, day.Weekday().String()); err != nil {
		return nil, translateBookingError(err)
	}
	return booking, nil
}

// ListBookings returns the bookings on date and for year; empty arguments
// do not filter.
func (s *ClassroomService) ListBookings(ctx context.Context, date, year string) ([]model.BookingView, error) {
	var f repository.BookingFilter
	if date != "" {
		day, err := parseDate(date)
		if err != nil {
			return nil, err
		}
		f.Date = day
	}
	if year != "" {
		y, err := parseYear(year)
		if err != nil {
			return nil, err
		}
		f.Year = y
	}

	bookings, err := s.bookings.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return toBookingViews(bookings), nil
}

// Approve marks a pending booking approved. Only admins may decide bookings.
func (s *ClassroomService) Approve(ctx context.Context, actorID int64, actorRole model.Role, bookingID int64) (*model.Booking, error) {
	return s.decide(ctx, actorID, actorRole, bookingID, model.BookingApproved)
}

// Reject marks a pending booking rejected. Only admins may decide bookings.
func (s *ClassroomService) Reject(ctx context.Context, actorID int64, actorRole model.Role, bookingID int64) (*model.Booking, error) {
	return s.decide(ctx, actorID, actorRole, bookingID, model.BookingRejected)
}

func (s *ClassroomService) decide(ctx context.Context, actorID int64, actorRole model.Role, bookingID int64, status model.BookingStatus) (*model.Booking, error) {
	if actorRole != model.RoleAdmin {
		return nil, ErrAdminOnly
	}

	booking, err := s.bookings.Decide(ctx, bookingID, status, actorID)
	if err != nil {
		return nil, translateBookingError(err)
	}
	return booking, nil
}

// DaySchedule returns the regular classes held on the weekday of date
// together with the bookings made for that exact date.
func (s *ClassroomService) DaySchedule(ctx context.Context, date string) (*model.DaySchedule, error) {
	if date == "" {
		return nil, invalid(MsgDateRequired)
	}
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	entries, err := s.classrooms.ScheduleForDay(ctx, day.Weekday().String())
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.List(ctx, repository.BookingFilter{Date: day})
	if err != nil {
		return nil, err
	}

	return &model.DaySchedule{Timetable: entries, Bookings: toBookingViews(bookings)}, nil
}

// SectionTimetable returns the weekly subject grid of one year and section.
func (s *ClassroomService) SectionTimetable(ctx context.Context, year, section string) (*model.SectionTimetable, error) {
	section = strings.TrimSpace(section)
	if year == "" || section == "" {
		return nil, invalid(MsgYearSectionRequired)
	}
	semester, err := parseYear(year)
	if err != nil {
		return nil, err
	}

	entries, err := s.classrooms.ScheduleForSection(ctx, semester, section)
	if err != nil {
		return nil, err
	}

	out := &model.SectionTimetable{Timetable: map[string]map[string]string{}, Slots: []string{}}
	seen := map[string]bool{}
	for _, e := range entries {
		day, ok := out.Timetable[e.DayOfWeek]
		if !ok {
			day = map[string]string{}
			out.Timetable[e.DayOfWeek] = day
		}
		day[e.Slot] = e.Subject
		if !seen[e.Slot] {
			seen[e.Slot] = true
			out.Slots = append(out.Slots, e.Slot)
		}
	}
	sort.Strings(out.Slots)
	return out, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, invalid(MsgInvalidDate)
	}
	return t, nil
}

func parseYear(s string) (int, error) {
	y, err := strconv.Atoi(s)
	if err != nil || y <= 0 {
		return 0, invalid(MsgInvalidYear)
	}
	return y, nil
}

func translateBookingError(err error) error {
	switch {
	case errors.Is(err, repository.ErrClassroomNotFound):
		return ErrClassroomNotFound
	case errors.Is(err, repository.ErrBookingNotFound):
		return ErrBookingNotFound
	case errors.Is(err, repository.ErrTimetableConflict):
		return ErrTimetableConflict
	case errors.Is(err, repository.ErrSlotTaken):
		return ErrSlotTaken
	case errors.Is(err, repository.ErrBookingDecided):
		return ErrBookingDecided
	case errors.Is(err, repository.ErrUserNotFound):
		return ErrUserNotFound
	}
	return err
}

func toBookingViews(bookings []model.Booking) []model.BookingView {
	views := make([]model.BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, b.ToView())
	}
	return views
}
