package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/anvaya/anvaya-go/internal/middleware"
	"github.com/anvaya/anvaya-go/internal/model"
)

// AuthService is the authentication logic AuthHandler serves.
type AuthService interface {
	Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error)
	GetUser(ctx context.Context, userID int64) (model.UserResponse, error)
}

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	service AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// HandleLogin handles POST /login requests. Failures are reported under
// the "message" key.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if isBodyTooLarge(err) {
			writeJSON(w, http.StatusRequestEntityTooLarge, messageResponse(msgBodyTooBig))
			return
		}
		writeJSON(w, http.StatusBadRequest, messageResponse(msgMissingJSON))
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		status, msg := statusFor(err, "Login failed")
		logServerError(r, status, err)
		writeJSON(w, status, messageResponse(msg))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleMe handles GET /me requests.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Authorization token is missing"))
		return
	}

	resp, err := h.service.GetUser(r.Context(), id.UserID)
	if err != nil {
		respondError(w, r, err, "Failed to load user")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
