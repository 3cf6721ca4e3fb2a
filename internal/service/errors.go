package service

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email, password, or role")
	ErrFacultyOnly         = errors.New("only faculty can verify achievements")
	ErrStudentOnly         = errors.New("only students can register for events")
	ErrUserNotFound        = errors.New("user not found")
	ErrEventNotFound       = errors.New("event not found")
	ErrAchievementNotFound = errors.New("achievement not found")
	ErrAlreadyRegistered   = errors.New("already registered for this event")
	ErrUploadFailed        = errors.New("certificate upload failed")
	ErrStaffOnly           = errors.New("only faculty or admins can request bookings")
	ErrAdminOnly           = errors.New("only admins can decide bookings")
	ErrClassroomNotFound   = errors.New("classroom not found")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrTimetableConflict   = errors.New("classroom is occupied by a regular class")
	ErrSlotTaken           = errors.New("classroom is already booked for this slot")
	ErrBookingDecided      = errors.New("booking has already been decided")
)

// Client-facing validation messages.
const (
	MsgRoleRequired        = "Role is required"
	MsgCredentialsRequired = "Email and password are required"
	MsgMissingFields       = "Missing required fields"
	MsgInvalidDate         = "Invalid date format. Use YYYY-MM-DD"
	MsgInvalidCategory     = "Invalid event category"
	MsgInvalidSlot         = "Invalid slot format. Use HH:MM-HH:MM"
	MsgDateSlotRequired    = "Date and slot required"
	MsgDateRequired        = "Date required"
	MsgYearSectionRequired = "Year and section required"
	MsgInvalidYear         = "Invalid year"
)

// ValidationError reports a client mistake. Message is safe to return verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// failedFields returns the struct field names that failed validation.
func failedFields(err error) map[string]bool {
	fields := map[string]bool{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.StructField()] = true
		}
	}
	return fields
}
