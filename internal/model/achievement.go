package model

import (
	"io"
	"time"
)

type VerificationStatus string

const (
	VerificationVerified VerificationStatus = "Verified"
	VerificationPending  VerificationStatus = "Pending"
	VerificationRejected VerificationStatus = "Rejected"
)

// Achievement represents an achievement row. A zero Date means the column was NULL.
type Achievement struct {
	ID           int64
	OwnerID      int64
	Name         string
	Date         time.Time
	Venue        string
	Placement    string
	Certificate  string
	Verification VerificationStatus
}

// AchievementSubmission holds the form fields of a submission.
type AchievementSubmission struct {
	Name      string `validate:"required"`
	Date      string `validate:"required"`
	Venue     string `validate:"required"`
	Placement string
}

// Certificate is the uploaded proof attached to a submission.
type Certificate struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// AchievementResponse is the student dashboard projection of an achievement.
type AchievementResponse struct {
	ID           int64              `json:"id"`
	EventName    string             `json:"event_name"`
	Certificate  string             `json:"certificate"`
	Placement    string             `json:"placement"`
	Date         string             `json:"date"`
	Venue        string             `json:"venue"`
	Verification VerificationStatus `json:"verification"`
}

// AchievementReview is the faculty review projection, joined to the owner's name.
type AchievementReview struct {
	ID           int64              `json:"id"`
	Name         string             `json:"name"`
	Title        string             `json:"title"`
	Certificate  string             `json:"certificate"`
	Placement    string             `json:"placement"`
	Verification VerificationStatus `json:"verification"`
}

// AchievementWithOwner pairs an achievement with its owner's display name.
// OwnerName is nil when the owning user row is missing.
type AchievementWithOwner struct {
	Achievement
	OwnerName *string
}

// VerifyResponse is returned after a successful verification.
type VerifyResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	AchievementID int64  `json:"achievement_id"`
}

// MessageResponse is the body of successful writes that return no resource.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
