package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anvaya/anvaya-go/internal/model"
)

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrTimetableConflict = errors.New("classroom is occupied by a regular class")
	ErrSlotTaken         = errors.New("classroom is already booked for this slot")
	ErrBookingDecided    = errors.New("booking has already been decided")
)

const bookingSelect = `SELECT b.booking_id, b.classroom_id, COALESCE(c.name, ''), b.booking_date, b.slot,
	COALESCE(b.year, 0), b.requested_by, COALESCE(u.name, ''), b.approved_by, b.status, b.created_at
	FROM bookings b
	LEFT JOIN classrooms c ON c.classroom_id = b.classroom_id
	LEFT JOIN users u ON u.id = b.requested_by`

// BookingFilter narrows a booking listing. Zero fields match everything.
type BookingFilter struct {
	Date time.Time
	Year int
}

// BookingRepository handles classroom booking persistence.
type BookingRepository struct {
	db *sql.DB
}

// NewBookingRepository creates a new BookingRepository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create stores a pending booking after checking, in the same transaction,
// that the classroom exists and that neither a regular class on weekday nor
// another pending or approved booking holds the slot. The classroom row is
// locked so concurrent requests for one room are serialised.
func (r *BookingRepository) Create(ctx context.Context, b *model.Booking, weekday string) error {
	b.CreatedAt = time.Now().UTC().Truncate(time.Second)

	return WithTx(ctx, r.db, func(tx DBTX) error {
		err := tx.QueryRowContext(ctx,
			`SELECT name FROM classrooms WHERE classroom_id = ? FOR UPDATE`, b.ClassroomID,
		).Scan(&b.ClassroomName)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrClassroomNotFound
			}
			return fmt.Errorf("lock classroom: %w", err)
		}

		var busy bool
		err = tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM timetable_entries WHERE classroom = ? AND day_of_week = ? AND slot = ?)`,
			b.ClassroomName, weekday, b.Slot,
		).Scan(&busy)
		if err != nil {
			return fmt.Errorf("check timetable: %w", err)
		}
		if busy {
			return ErrTimetableConflict
		}

		err = tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM bookings WHERE classroom_id = ? AND booking_date = ? AND slot = ?
			AND status IN ('pending', 'approved'))`,
			b.ClassroomID, b.Date, b.Slot,
		).Scan(&busy)
		if err != nil {
			return fmt.Errorf("check bookings: %w", err)
		}
		if busy {
			return ErrSlotTaken
		}

		result, err := tx.ExecContext(ctx,
			`INSERT INTO bookings (classroom_id, booking_date, slot, year, requested_by, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			b.ClassroomID, b.Date, b.Slot, b.Year, b.RequestedBy, string(b.Status), b.CreatedAt,
		)
		if err != nil {
			if isMissingReferenceError(err) {
				return ErrUserNotFound
			}
			return fmt.Errorf("insert booking: %w", err)
		}
		if b.ID, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}
		return nil
	})
}

// List returns the bookings matching f, newest first.
func (r *BookingRepository) List(ctx context.Context, f BookingFilter) ([]model.Booking, error) {
	var (
		where []string
		args  []any
	)
	if !f.Date.IsZero() {
		where = append(where, "b.booking_date = ?")
		args = append(args, f.Date)
	}
	if f.Year != 0 {
		where = append(where, "b.year = ?")
		args = append(args, f.Year)
	}

	query := bookingSelect
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY b.created_at DESC, b.booking_id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := []model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, nil
}

// Decide moves a pending booking to status and records who decided it.
// Repeating the decision a booking already carries changes nothing; a
// booking decided the other way yields ErrBookingDecided.
func (r *BookingRepository) Decide(ctx context.Context, id int64, status model.BookingStatus, deciderID int64) (*model.Booking, error) {
	var booking *model.Booking

	err := WithTx(ctx, r.db, func(tx DBTX) error {
		var current string
		err := tx.QueryRowContext(ctx,
			`SELECT status FROM bookings WHERE booking_id = ? FOR UPDATE`, id,
		).Scan(&current)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("lock booking: %w", err)
		}

		switch model.BookingStatus(current) {
		case status:
		case model.BookingPending:
			_, err := tx.ExecContext(ctx,
				`UPDATE bookings SET status = ?, approved_by = ? WHERE booking_id = ?`,
				string(status), deciderID, id,
			)
			if err != nil {
				return fmt.Errorf("update booking: %w", err)
			}
		default:
			return ErrBookingDecided
		}

		booking, err = scanBooking(tx.QueryRowContext(ctx, bookingSelect+` WHERE b.booking_id = ?`, id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*model.Booking, error) {
	var (
		b          model.Booking
		date       sql.NullTime
		approvedBy sql.NullInt64
		status     string
	)
	err := row.Scan(
		&b.ID, &b.ClassroomID, &b.ClassroomName, &date, &b.Slot,
		&b.Year, &b.RequestedBy, &b.RequesterName, &approvedBy, &status, &b.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan booking: %w", err)
	}
	b.Date = date.Time
	b.Status = model.BookingStatus(status)
	if approvedBy.Valid {
		b.ApprovedBy = &approvedBy.Int64
	}
	return &b, nil
}
