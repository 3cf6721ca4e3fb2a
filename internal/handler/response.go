package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/anvaya/anvaya-go/internal/service"
)

const (
	maxJSONBody      = 1 << 20  // 1MB
	maxMultipartBody = 10 << 20 // 10MB

	msgMissingJSON = "Missing JSON data"
	msgBodyTooBig  = "Request body too large"
)

// errorBody is the failure envelope. Login reports through Message, every
// other route through Error.
type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func errorResponse(msg string) errorBody {
	return errorBody{Error: msg}
}

func messageResponse(msg string) errorBody {
	return errorBody{Message: msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps a service error to an HTTP status and a client message.
// Unrecognised errors become 500 with fallback as the message.
func statusFor(err error, fallback string) (int, string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Message
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email, password, or role"
	case errors.Is(err, service.ErrFacultyOnly):
		return http.StatusForbidden, "Unauthorized. Only faculty can verify achievements"
	case errors.Is(err, service.ErrStudentOnly):
		return http.StatusForbidden, "Only students can register for events"
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, service.ErrEventNotFound):
		return http.StatusNotFound, "Event not found"
	case errors.Is(err, service.ErrAchievementNotFound):
		return http.StatusNotFound, "Achievement not found"
	case errors.Is(err, service.ErrAlreadyRegistered):
		return http.StatusConflict, "Already registered for this event"
	case errors.Is(err, service.ErrStaffOnly):
		return http.StatusForbidden, "Only faculty or admins can request classroom bookings"
	case errors.Is(err, service.ErrAdminOnly):
		return http.StatusForbidden, "Only admins can approve or reject bookings"
	case errors.Is(err, service.ErrClassroomNotFound):
		return http.StatusNotFound, "Classroom not found"
	case errors.Is(err, service.ErrBookingNotFound):
		return http.StatusNotFound, "Booking not found"
	case errors.Is(err, service.ErrTimetableConflict):
		return http.StatusConflict, "Classroom is occupied by a regular class at this time."
	case errors.Is(err, service.ErrSlotTaken):
		return http.StatusConflict, "Classroom is already booked for this slot."
	case errors.Is(err, service.ErrBookingDecided):
		return http.StatusConflict, "Booking has already been decided"
	case errors.Is(err, service.ErrUploadFailed):
		return http.StatusInternalServerError, "Failed to upload certificate to cloud storage"
	}
	return http.StatusInternalServerError, fallback
}

// respondError writes err with the "error" envelope.
func respondError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status, msg := statusFor(err, fallback)
	logServerError(r, status, err)
	writeJSON(w, status, errorResponse(msg))
}

func logServerError(r *http.Request, status int, err error) {
	if status < http.StatusInternalServerError {
		return
	}
	slog.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", chimw.GetReqID(r.Context()),
		"error", err,
	)
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// pathID parses the chi URL parameter name as a positive integer id.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
