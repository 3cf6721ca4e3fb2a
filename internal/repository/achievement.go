package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/anvaya/anvaya-go/internal/model"
)

var ErrAchievementNotFound = errors.New("achievement not found")

const achievementColumns = `a.achievement_id, a.user_id, a.achievement_name, a.date,
	COALESCE(a.venue, ''), COALESCE(a.placement, ''), COALESCE(a.achievement_certificate, ''),
	COALESCE(a.verification, 'Pending')`

// AchievementRepository handles achievement persistence.
type AchievementRepository struct {
	db *sql.DB
}

// NewAchievementRepository creates a new AchievementRepository.
func NewAchievementRepository(db *sql.DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

// Create inserts an achievement inside a transaction and sets its generated ID.
func (r *AchievementRepository) Create(ctx context.Context, a *model.Achievement) error {
	query := `INSERT INTO Achievements (achievement_name, user_id, date, venue, placement,
		verification, achievement_certificate) VALUES (?, ?, ?, ?, ?, ?, ?)`

	return WithTx(ctx, r.db, func(tx DBTX) error {
		result, err := tx.ExecContext(ctx, query,
			a.Name, a.OwnerID, nullDate(a.Date), a.Venue, a.Placement,
			string(a.Verification), a.Certificate,
		)
		if err != nil {
			if isMissingReferenceError(err) {
				return ErrUserNotFound
			}
			return fmt.Errorf("insert achievement: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert achievement: %w", err)
		}
		a.ID = id
		return nil
	})
}

// ListByOwner returns the achievements submitted by ownerID.
func (r *AchievementRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Achievement, error) {
	query := `SELECT ` + achievementColumns + ` FROM Achievements a WHERE a.user_id = ? ORDER BY a.achievement_id`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	defer rows.Close()

	achievements := []model.Achievement{}
	for rows.Next() {
		a, err := scanAchievement(rows)
		if err != nil {
			return nil, err
		}
		achievements = append(achievements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate achievements: %w", err)
	}

	return achievements, nil
}

// ListWithOwners returns every achievement with the name of its owner. Rows
// whose owner no longer exists carry a nil OwnerName.
func (r *AchievementRepository) ListWithOwners(ctx context.Context) ([]model.AchievementWithOwner, error) {
	query := `SELECT ` + achievementColumns + `, u.id, u.name
		FROM Achievements a LEFT JOIN users u ON u.id = a.user_id
		ORDER BY a.achievement_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	defer rows.Close()

	result := []model.AchievementWithOwner{}
	for rows.Next() {
		var (
			a            model.AchievementWithOwner
			date         sql.NullTime
			verification string
			ownerID      sql.NullInt64
			ownerName    sql.NullString
		)
		err := rows.Scan(
			&a.ID, &a.OwnerID, &a.Name, &date,
			&a.Venue, &a.Placement, &a.Certificate, &verification,
			&ownerID, &ownerName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		a.Date = date.Time
		a.Verification = model.VerificationStatus(verification)
		if ownerID.Valid {
			name := ownerName.String
			a.OwnerName = &name
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate achievements: %w", err)
	}

	return result, nil
}

// MarkVerified sets the achievement's verification to Verified. An
// achievement that is already verified is left untouched.
func (r *AchievementRepository) MarkVerified(ctx context.Context, id int64) error {
	return WithTx(ctx, r.db, func(tx DBTX) error {
		var current string
		err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(verification, 'Pending') FROM Achievements WHERE achievement_id = ? FOR UPDATE`, id,
		).Scan(&current)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrAchievementNotFound
			}
			return fmt.Errorf("lock achievement: %w", err)
		}

		if model.VerificationStatus(current) == model.VerificationVerified {
			return nil
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE Achievements SET verification = ? WHERE achievement_id = ?`,
			string(model.VerificationVerified), id,
		)
		if err != nil {
			return fmt.Errorf("verify achievement: %w", err)
		}
		return nil
	})
}

func scanAchievement(rows *sql.Rows) (model.Achievement, error) {
	var (
		a            model.Achievement
		date         sql.NullTime
		verification string
	)
	err := rows.Scan(
		&a.ID, &a.OwnerID, &a.Name, &date,
		&a.Venue, &a.Placement, &a.Certificate, &verification,
	)
	if err != nil {
		return a, fmt.Errorf("scan achievement: %w", err)
	}
	a.Date = date.Time
	a.Verification = model.VerificationStatus(verification)
	return a, nil
}
