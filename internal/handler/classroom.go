package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/anvaya/anvaya-go/internal/middleware"
	"github.com/anvaya/anvaya-go/internal/model"
	"github.com/anvaya/anvaya-go/internal/service"
)

// ClassroomService is the classroom and booking logic ClassroomHandler serves.
type ClassroomService interface {
	ListClassrooms(ctx context.Context) ([]model.Classroom, error)
	Available(ctx context.Context, date, slot string) ([]model.Classroom, error)
	RequestBooking(ctx context.Context, actorID int64, actorRole model.Role, req model.BookingRequest) (*model.Booking, error)
	ListBookings(ctx context.Context, date, year string) ([]model.BookingView, error)
	Approve(ctx context.Context, actorID int64, actorRole model.Role, bookingID int64) (*model.Booking, error)
	Reject(ctx context.Context, actorID int64, actorRole model.Role, bookingID int64) (*model.Booking, error)
	DaySchedule(ctx context.Context, date string) (*model.DaySchedule, error)
	SectionTimetable(ctx context.Context, year, section string) (*model.SectionTimetable, error)
}

// ClassroomHandler handles HTTP requests for classrooms, bookings and the
// class schedule.
type ClassroomHandler struct {
	service ClassroomService
}

// NewClassroomHandler creates a new ClassroomHandler.
func NewClassroomHandler(svc ClassroomService) *ClassroomHandler {
	return &ClassroomHandler{service: svc}
}

// HandleList handles GET /classrooms requests.
func (h *ClassroomHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	classrooms, err := h.service.ListClassrooms(r.Context())
	if err != nil {
		respondError(w, r, err, "Failed to fetch classrooms")
		return
	}

	writeJSON(w, http.StatusOK, classrooms)
}

// HandleAvailable handles GET /classrooms/available?date=&slot= requests.
func (h *ClassroomHandler) HandleAvailable(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	classrooms, err := h.service.Available(r.Context(), q.Get("date"), q.Get("slot"))
	if err != nil {
		respondError(w, r, err, "Failed to fetch classrooms")
		return
	}

	writeJSON(w, http.StatusOK, classrooms)
}

// HandleRequestBooking handles POST /bookings/request requests.
func (h *ClassroomHandler) HandleRequestBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Authorization token is missing"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if isBodyTooLarge(err) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse(msgBodyTooBig))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse(msgMissingJSON))
		return
	}

	booking, err := h.service.RequestBooking(r.Context(), id.UserID, id.Role, req)
	if err != nil {
		respondError(w, r, err, "Failed to request booking")
		return
	}

	writeJSON(w, http.StatusCreated, model.BookingResponse{Success: true, Booking: booking.ToView()})
}

// HandleListBookings handles GET /bookings?date=&year= requests.
func (h *ClassroomHandler) HandleListBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	bookings, err := h.service.ListBookings(r.Context(), q.Get("date"), q.Get("year"))
	if err != nil {
		respondError(w, r, err, "Failed to fetch bookings")
		return
	}

	writeJSON(w, http.StatusOK, bookings)
}

// HandleApprove handles POST /bookings/{bookingId}/approve requests.
func (h *ClassroomHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.service.Approve, "Failed to approve booking")
}

// HandleReject handles POST /bookings/{bookingId}/reject requests.
func (h *ClassroomHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.service.Reject, "Failed to reject booking")
}

type decideFunc func(ctx context.Context, actorID int64, actorRole model.Role, bookingID int64) (*model.Booking, error)

func (h *ClassroomHandler) decide(w http.ResponseWriter, r *http.Request, fn decideFunc, fallback string) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Authorization token is missing"))
		return
	}
	if id.Role != model.RoleAdmin {
		respondError(w, r, service.ErrAdminOnly, fallback)
		return
	}

	bookingID, ok := pathID(r, "bookingId")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse("Invalid booking id"))
		return
	}

	booking, err := fn(r.Context(), id.UserID, id.Role, bookingID)
	if err != nil {
		respondError(w, r, err, fallback)
		return
	}

	writeJSON(w, http.StatusOK, model.BookingResponse{Success: true, Booking: booking.ToView()})
}

// HandleDaySchedule handles GET /timetable?date= requests.
func (h *ClassroomHandler) HandleDaySchedule(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.service.DaySchedule(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		respondError(w, r, err, "Failed to fetch timetable")
		return
	}

	writeJSON(w, http.StatusOK, schedule)
}

// HandleSectionTimetable handles GET /timetable/by-year?year=&section= requests.
func (h *ClassroomHandler) HandleSectionTimetable(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	grid, err := h.service.SectionTimetable(r.Context(), q.Get("year"), q.Get("section"))
	if err != nil {
		respondError(w, r, err, "Failed to fetch timetable")
		return
	}

	writeJSON(w, http.StatusOK, grid)
}
