package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anvaya/anvaya-go/internal/model"
	"github.com/anvaya/anvaya-go/internal/repository"
	"github.com/anvaya/anvaya-go/internal/storage"
)

// unknownOwner is shown in the review list for achievements whose owner is gone.
const unknownOwner = "Unknown"

// AchievementStore is the persistence AchievementService depends on.
type AchievementStore interface {
	Create(ctx context.Context, a *model.Achievement) error
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Achievement, error)
	ListWithOwners(ctx context.Context) ([]model.AchievementWithOwner, error)
	MarkVerified(ctx context.Context, id int64) error
}

// AchievementService handles achievement submission and verification.
type AchievementService struct {
	achievements AchievementStore
	uploader     storage.Uploader
}

// NewAchievementService creates a new AchievementService.
func NewAchievementService(achievements AchievementStore, uploader storage.Uploader) *AchievementService {
	return &AchievementService{
		achievements: achievements,
		uploader:     uploader,
	}
}

// ListForStudent returns the dashboard view of the achievements of studentID.
func (s *AchievementService) ListForStudent(ctx context.Context, studentID int64) ([]model.AchievementResponse, error) {
	achievements, err := s.achievements.ListByOwner(ctx, studentID)
	if err != nil {
		return nil, err
	}

	out := make([]model.AchievementResponse, 0, len(achievements))
	for _, a := range achievements {
		out = append(out, model.AchievementResponse{
			ID:           a.ID,
			EventName:    a.Name,
			Certificate:  a.Certificate,
			Placement:    a.Placement,
			Date:         model.FormatDate(a.Date),
			Venue:        a.Venue,
			Verification: a.Verification,
		})
	}
	return out, nil
}

// Submit uploads the certificate and records a Pending achievement for
// studentID. Nothing is stored when the upload fails.
func (s *AchievementService) Submit(ctx context.Context, studentID int64, sub model.AchievementSubmission, cert *model.Certificate) (*model.Achievement, error) {
	if err := validate.Struct(sub); err != nil || cert == nil || cert.Body == nil || cert.Filename == "" {
		return nil, invalid(MsgMissingFields)
	}

	date, err := time.Parse(model.DateLayout, sub.Date)
	if err != nil {
		return nil, invalid(MsgInvalidDate)
	}

	url, err := s.uploader.Upload(ctx, storage.UploadInput{
		Filename:     cert.Filename,
		ContentType:  cert.ContentType,
		Size:         cert.Size,
		Body:         cert.Body,
		Folder:       storage.CertificateFolder,
		ResourceType: storage.ClassifyResource(cert.Filename),
	})
	if err != nil {
		slog.Error("certificate upload failed", "student_id", studentID, "filename", cert.Filename, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if url == "" {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, storage.ErrEmptyURL)
	}

	achievement := &model.Achievement{
		OwnerID:      studentID,
		Name:         sub.Name,
		Date:         date,
		Venue:        sub.Venue,
		Placement:    sub.Placement,
		Certificate:  url,
		Verification: model.VerificationPending,
	}

	if err := s.achievements.Create(ctx, achievement); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return achievement, nil
}

// ListForReview returns every achievement joined to its owner's name.
func (s *AchievementService) ListForReview(ctx context.Context) ([]model.AchievementReview, error) {
	rows, err := s.achievements.ListWithOwners(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.AchievementReview, 0, len(rows))
	for _, a := range rows {
		name := unknownOwner
		if a.OwnerName != nil {
			name = *a.OwnerName
		}
		out = append(out, model.AchievementReview{
			ID:           a.ID,
			Name:         name,
			Title:        a.Name,
			Certificate:  a.Certificate,
			Placement:    a.Placement,
			Verification: a.Verification,
		})
	}
	return out, nil
}

// Verify marks an achievement Verified. Only faculty may verify; repeating
// the call on a verified achievement succeeds without changes.
func (s *AchievementService) Verify(ctx context.Context, actorRole model.Role, achievementID int64) error {
	if actorRole != model.RoleFaculty {
		return ErrFacultyOnly
	}

	if err := s.achievements.MarkVerified(ctx, achievementID); err != nil {
		if errors.Is(err, repository.ErrAchievementNotFound) {
			return ErrAchievementNotFound
		}
		return err
	}
	return nil
}
