package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/anvaya/anvaya-go/internal/middleware"
	"github.com/anvaya/anvaya-go/internal/model"
)

// EventService is the event logic EventHandler serves.
type EventService interface {
	ListForOwner(ctx context.Context, ownerID int64) ([]model.EventSummary, error)
	Create(ctx context.Context, ownerID int64, req model.CreateEventRequest) (*model.Event, error)
	ListAll(ctx context.Context) ([]model.EventListing, error)
	ListByCategory(ctx context.Context, category string) ([]model.EventListing, error)
	Register(ctx context.Context, actorID int64, actorRole model.Role, eventID int64) (*model.EventRegistration, error)
}

// EventHandler handles HTTP requests for events.
type EventHandler struct {
	service EventService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(svc EventService) *EventHandler {
	return &EventHandler{service: svc}
}

// HandleListForFaculty handles GET /fac_events/{facultyId} requests.
func (h *EventHandler) HandleListForFaculty(w http.ResponseWriter, r *http.Request) {
	facultyID, ok := pathID(r, "facultyId")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse("Invalid faculty id"))
		return
	}

	events, err := h.service.ListForOwner(r.Context(), facultyID)
	if err != nil {
		respondError(w, r, err, "Failed to retrieve events")
		return
	}

	writeJSON(w, http.StatusOK, events)
}

// HandleCreate handles POST /fac_add_events/{facultyId} requests.
func (h *EventHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	facultyID, ok := pathID(r, "facultyId")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse("Invalid faculty id"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	var req model.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if isBodyTooLarge(err) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse(msgBodyTooBig))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse(msgMissingJSON))
		return
	}

	if _, err := h.service.Create(r.Context(), facultyID, req); err != nil {
		respondError(w, r, err, "Failed to add event")
		return
	}

	writeJSON(w, http.StatusCreated, model.MessageResponse{Success: true, Message: "Event added successfully"})
}

// HandleListAll handles GET /events requests.
func (h *EventHandler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ListAll(r.Context())
	if err != nil {
		respondError(w, r, err, "Failed to retrieve events")
		return
	}

	writeJSON(w, http.StatusOK, events)
}

// HandleListForStudent handles GET /student_events/{studentId} requests.
// Students see every event.
func (h *EventHandler) HandleListForStudent(w http.ResponseWriter, r *http.Request) {
	if _, ok := pathID(r, "studentId"); !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse("Invalid student id"))
		return
	}

	events, err := h.service.ListAll(r.Context())
	if err != nil {
		respondError(w, r, err, "Failed to fetch events")
		return
	}

	writeJSON(w, http.StatusOK, events)
}

// HandleListByCategory handles GET /events/category/{category} requests.
func (h *EventHandler) HandleListByCategory(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ListByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		respondError(w, r, err, "Failed to retrieve events")
		return
	}

	writeJSON(w, http.StatusOK, events)
}

// HandleRegister handles POST /events/{eventId}/register requests.
func (h *EventHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Authorization token is missing"))
		return
	}

	eventID, ok := pathID(r, "eventId")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse("Invalid event id"))
		return
	}

	reg, err := h.service.Register(r.Context(), id.UserID, id.Role, eventID)
	if err != nil {
		respondError(w, r, err, "Failed to register for event")
		return
	}

	writeJSON(w, http.StatusCreated, model.RegistrationResponse{
		Success:      true,
		Message:      "Registered successfully",
		Registration: reg,
	})
}
