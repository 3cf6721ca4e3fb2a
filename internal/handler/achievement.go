package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/anvaya/anvaya-go/internal/middleware"
	"github.com/anvaya/anvaya-go/internal/model"
	"github.com/anvaya/anvaya-go/internal/service"
)

// AchievementService is the achievement logic AchievementHandler serves.
type AchievementService interface {
	ListForStudent(ctx context.Context, studentID int64) ([]model.AchievementResponse, error)
	Submit(ctx context.Context, studentID int64, sub model.AchievementSubmission, cert *model.Certificate) (*model.Achievement, error)
	ListForReview(ctx context.Context) ([]model.AchievementReview, error)
	Verify(ctx context.Context, actorRole model.Role, achievementID int64) error
}

// AchievementHandler handles HTTP requests for student achievements.
type AchievementHandler struct {
	service AchievementService
}

// NewAchievementHandler creates a new AchievementHandler.
func NewAchievementHandler(svc AchievementService) *AchievementHandler {
	return &AchievementHandler{service: svc}
}

// HandleListForStudent handles GET /student_achievements/{studentId} requests.
func (h *AchievementHandler) HandleListForStudent(w http.ResponseWriter, r *http.Request) {
	studentID, ok := pathID(r, "studentId")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse("Invalid student id"))
		return
	}

	list, err := h.service.ListForStudent(r.Context(), studentID)
	if err != nil {
		respondError(w, r, err, "Failed to retrieve achievements data")
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// HandleSubmit handles multipart POST /student_add_achievement/{studentId} requests.
func (h *AchievementHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	studentID, ok := pathID(r, "studentId")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse("Invalid student id"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBody)
	if err := r.ParseMultipartForm(maxMultipartBody); err != nil {
		if isBodyTooLarge(err) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse(msgBodyTooBig))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("Invalid form data"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	sub := model.AchievementSubmission{
		Name:      r.FormValue("event_name"),
		Date:      r.FormValue("event_date"),
		Venue:     r.FormValue("venue"),
		Placement: r.FormValue("placement"),
	}

	var cert *model.Certificate
	file, header, err := r.FormFile("certificate")
	switch {
	case err == nil:
		defer file.Close()
		cert = &model.Certificate{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		}
	case !errors.Is(err, http.ErrMissingFile):
		writeJSON(w, http.StatusBadRequest, errorResponse("Invalid form data"))
		return
	}

	if _, err := h.service.Submit(r.Context(), studentID, sub, cert); err != nil {
		respondError(w, r, err, "Failed to add achievement")
		return
	}

	writeJSON(w, http.StatusCreated, model.MessageResponse{Success: true, Message: "Achievement added successfully"})
}

// HandleListForReview handles GET /student_events_verify/{teacherId} requests.
func (h *AchievementHandler) HandleListForReview(w http.ResponseWriter, r *http.Request) {
	if _, ok := pathID(r, "teacherId"); !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse("Invalid teacher id"))
		return
	}

	list, err := h.service.ListForReview(r.Context())
	if err != nil {
		respondError(w, r, err, "Failed to retrieve achievements data")
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// HandleVerify handles POST /verify_participation/{achievementId} requests.
func (h *AchievementHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Authorization token is missing"))
		return
	}
	if id.Role != model.RoleFaculty {
		respondError(w, r, service.ErrFacultyOnly, "Failed to verify achievement")
		return
	}

	achievementID, ok := pathID(r, "achievementId")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse("Invalid achievement id"))
		return
	}

	if err := h.service.Verify(r.Context(), id.Role, achievementID); err != nil {
		respondError(w, r, err, "Failed to verify achievement")
		return
	}

	writeJSON(w, http.StatusOK, model.VerifyResponse{
		Success:       true,
		Message:       "Achievement verified successfully",
		AchievementID: achievementID,
	})
}
