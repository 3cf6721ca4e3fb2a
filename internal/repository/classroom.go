package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/anvaya/anvaya-go/internal/model"
)

var ErrClassroomNotFound = errors.New("classroom not found")

const scheduleColumns = `entry_id, semester, section, day_of_week, slot, subject, classroom`

// ClassroomRepository handles classrooms and their recurring class schedule.
type ClassroomRepository struct {
	db *sql.DB
}

// NewClassroomRepository creates a new ClassroomRepository.
func NewClassroomRepository(db *sql.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

// List returns every classroom ordered by name.
func (r *ClassroomRepository) List(ctx context.Context) ([]model.Classroom, error) {
	query := `SELECT classroom_id, name, COALESCE(capacity, 0) FROM classrooms ORDER BY name`
	return r.listClassrooms(ctx, query)
}

// ListAvailable returns the classrooms that have neither a regular class on
// weekday at slot nor a pending or approved booking for date and slot.
func (r *ClassroomRepository) ListAvailable(ctx context.Context, date time.Time, weekday, slot string) ([]model.Classroom, error) {
	query := `SELECT c.classroom_id, c.name, COALESCE(c.capacity, 0) FROM classrooms c
		WHERE NOT EXISTS (
			SELECT 1 FROM timetable_entries t
			WHERE t.classroom = c.name AND t.day_of_week = ? AND t.slot = ?)
		AND NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.classroom_id = c.classroom_id AND b.booking_date = ? AND b.slot = ?
			AND b.status IN ('pending', 'approved'))
		ORDER BY c.name`
	return r.listClassrooms(ctx, query, weekday, slot, date, slot)
}

// EnsureClassrooms inserts the named classrooms that do not exist yet.
func (r *ClassroomRepository) EnsureClassrooms(ctx context.Context, names []string) error {
	return WithTx(ctx, r.db, func(tx DBTX) error {
		for _, name := range names {
			if _, err := tx.ExecContext(ctx, `INSERT IGNORE INTO classrooms (name) VALUES (?)`, name); err != nil {
				return fmt.Errorf("insert classroom %q: %w", name, err)
			}
		}
		return nil
	})
}

// ReplaceSchedule swaps the recurring classes of one semester and section
// for entries in a single transaction.
func (r *ClassroomRepository) ReplaceSchedule(ctx context.Context, semester int, section string, entries []model.ScheduleEntry) error {
	return WithTx(ctx, r.db, func(tx DBTX) error {
		_, err := tx.ExecContext(ctx,
			`DELETE FROM timetable_entries WHERE semester = ? AND section = ?`, semester, section)
		if err != nil {
			return fmt.Errorf("clear schedule: %w", err)
		}

		for _, e := range entries {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO timetable_entries (semester, section, day_of_week, slot, subject, classroom)
				VALUES (?, ?, ?, ?, ?, ?)`,
				semester, section, e.DayOfWeek, e.Slot, e.Subject, e.Classroom,
			)
			if err != nil {
				return fmt.Errorf("insert schedule entry: %w", err)
			}
		}
		return nil
	})
}

// ScheduleForDay returns every recurring class held on weekday.
func (r *ClassroomRepository) ScheduleForDay(ctx context.Context, weekday string) ([]model.ScheduleEntry, error) {
	query := `SELECT ` + scheduleColumns + ` FROM timetable_entries WHERE day_of_week = ? ORDER BY slot, classroom`
	return r.listSchedule(ctx, query, weekday)
}

// ScheduleForSection returns the recurring classes of one semester and section.
func (r *ClassroomRepository) ScheduleForSection(ctx context.Context, semester int, section string) ([]model.ScheduleEntry, error) {
	query := `SELECT ` + scheduleColumns + ` FROM timetable_entries WHERE semester = ? AND section = ? ORDER BY entry_id`
	return r.listSchedule(ctx, query, semester, section)
}

func (r *ClassroomRepository) listClassrooms(ctx context.Context, query string, args ...any) ([]model.Classroom, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list classrooms: %w", err)
	}
	defer rows.Close()

	classrooms := []model.Classroom{}
	for rows.Next() {
		var c model.Classroom
		if err := rows.Scan(&c.ID, &c.Name, &c.Capacity); err != nil {
			return nil, fmt.Errorf("scan classroom: %w", err)
		}
		classrooms = append(classrooms, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate classrooms: %w", err)
	}

	return classrooms, nil
}

func (r *ClassroomRepository) listSchedule(ctx context.Context, query string, args ...any) ([]model.ScheduleEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list schedule: %w", err)
	}
	defer rows.Close()

	entries := []model.ScheduleEntry{}
	for rows.Next() {
		var e model.ScheduleEntry
		err := rows.Scan(&e.ID, &e.Semester, &e.Section, &e.DayOfWeek, &e.Slot, &e.Subject, &e.Classroom)
		if err != nil {
			return nil, fmt.Errorf("scan schedule entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedule: %w", err)
	}

	return entries, nil
}
