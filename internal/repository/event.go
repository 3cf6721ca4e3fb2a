package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/anvaya/anvaya-go/internal/model"
)

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrAlreadyRegistered = errors.New("already registered for this event")
)

const eventColumns = `event_id, user_id, event_name, COALESCE(category, ''), COALESCE(status, 'Planning'),
	start_date, end_date, COALESCE(venue, ''), COALESCE(description, ''),
	guest_name, guest_contact, session_details, COALESCE(number_of_participants, 0)`

// EventRepository handles event and registration persistence.
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts an event inside a transaction and sets its generated ID.
func (r *EventRepository) Create(ctx context.Context, event *model.Event) error {
	query := `INSERT INTO events (event_name, user_id, category, status, start_date, end_date,
		venue, description, guest_name, guest_contact, session_details, number_of_participants)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	return WithTx(ctx, r.db, func(tx DBTX) error {
		result, err := tx.ExecContext(ctx, query,
			event.Name, event.OwnerID, string(event.Category), string(event.Status),
			nullDate(event.StartDate), nullDate(event.EndDate),
			event.Venue, event.Description,
			event.GuestName, event.GuestContact, event.SessionDetails,
			event.Participants,
		)
		if err != nil {
			if isMissingReferenceError(err) {
				return ErrUserNotFound
			}
			return fmt.Errorf("insert event: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
		event.ID = id
		return nil
	})
}

// ListByOwner returns the events created by ownerID, oldest first.
func (r *EventRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE user_id = ? ORDER BY event_id`
	return r.list(ctx, query, ownerID)
}

// ListAll returns every event, soonest start date first.
func (r *EventRepository) ListAll(ctx context.Context) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY start_date, event_id`
	return r.list(ctx, query)
}

// ListByCategory returns the events of one category, soonest start date first.
func (r *EventRepository) ListByCategory(ctx context.Context, category model.EventCategory) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE category = ? ORDER BY start_date, event_id`
	return r.list(ctx, query, string(category))
}

// Register records studentID as a participant of eventID and increments the
// event's participant count in the same transaction.
func (r *EventRepository) Register(ctx context.Context, eventID, studentID int64) (*model.EventRegistration, error) {
	reg := &model.EventRegistration{
		EventID:      eventID,
		StudentID:    studentID,
		RegisteredAt: time.Now().UTC().Truncate(time.Second),
	}

	err := WithTx(ctx, r.db, func(tx DBTX) error {
		var id int64
		err := tx.QueryRowContext(ctx, `SELECT event_id FROM events WHERE event_id = ? FOR UPDATE`, eventID).Scan(&id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrEventNotFound
			}
			return fmt.Errorf("lock event: %w", err)
		}

		var exists bool
		err = tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM event_registrations WHERE event_id = ? AND student_id = ?)`,
			eventID, studentID,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check registration: %w", err)
		}
		if exists {
			return ErrAlreadyRegistered
		}

		result, err := tx.ExecContext(ctx,
			`INSERT INTO event_registrations (event_id, student_id, registered_at) VALUES (?, ?, ?)`,
			eventID, studentID, reg.RegisteredAt,
		)
		if err != nil {
			switch {
			case isDuplicateEntryError(err):
				return ErrAlreadyRegistered
			case isMissingReferenceError(err):
				return ErrUserNotFound
			}
			return fmt.Errorf("insert registration: %w", err)
		}
		if reg.ID, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("insert registration: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE events SET number_of_participants = COALESCE(number_of_participants, 0) + 1 WHERE event_id = ?`,
			eventID,
		)
		if err != nil {
			return fmt.Errorf("increment participants: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func (r *EventRepository) list(ctx context.Context, query string, args ...any) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		var (
			e                model.Event
			category, status string
			start, end       sql.NullTime
			guestName        sql.NullString
			guestContact     sql.NullString
			sessionDetails   sql.NullString
		)
		err := rows.Scan(
			&e.ID, &e.OwnerID, &e.Name, &category, &status,
			&start, &end, &e.Venue, &e.Description,
			&guestName, &guestContact, &sessionDetails, &e.Participants,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Category = model.EventCategory(category)
		e.Status = model.EventStatus(status)
		e.StartDate = start.Time
		e.EndDate = end.Time
		e.GuestName = stringPtr(guestName)
		e.GuestContact = stringPtr(guestContact)
		e.SessionDetails = stringPtr(sessionDetails)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}

func nullDate(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
