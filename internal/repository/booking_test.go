package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"

	"github.com/anvaya/anvaya-go/internal/model"
)

var bookingRowColumns = []string{
	"booking_id", "classroom_id", "name", "booking_date", "slot",
	"year", "requested_by", "name", "approved_by", "status", "created_at",
}

func newBooking() *model.Booking {
	return &model.Booking{
		ClassroomID: 2,
		Date:        date("2025-03-03"),
		Slot:        "09:00-10:00",
		Year:        2,
		RequestedBy: 5,
		Status:      model.BookingPending,
	}
}

func existsRow(v bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"exists"}).AddRow(v)
}

func expectLockClassroom(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`^SELECT name FROM classrooms WHERE classroom_id = \? FOR UPDATE`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Room 501"))
}

func TestBookingCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	expectLockClassroom(mock)
	mock.ExpectQuery(`FROM timetable_entries WHERE classroom = \? AND day_of_week = \? AND slot = \?`).
		WithArgs("Room 501", "Monday", "09:00-10:00").
		WillReturnRows(existsRow(false))
	mock.ExpectQuery(`FROM bookings WHERE classroom_id = \? AND booking_date = \? AND slot = \?`).
		WithArgs(int64(2), date("2025-03-03"), "09:00-10:00").
		WillReturnRows(existsRow(false))
	mock.ExpectExec(`^INSERT INTO bookings`).
		WithArgs(int64(2), date("2025-03-03"), "09:00-10:00", int64(2), int64(5), "pending", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(14, 1))
	mock.ExpectCommit()

	b := newBooking()
	require.NoError(t, repo.Create(context.Background(), b, "Monday"))
	require.Equal(t, int64(14), b.ID)
	require.Equal(t, "Room 501", b.ClassroomName)
	require.False(t, b.CreatedAt.IsZero())
}

func TestBookingCreateConflicts(t *testing.T) {
	t.Run("unknown classroom", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`FROM classrooms WHERE classroom_id = \? FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"name"}))
		mock.ExpectRollback()

		require.ErrorIs(t, repo.Create(context.Background(), newBooking(), "Monday"), ErrClassroomNotFound)
	})

	t.Run("regular class", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		expectLockClassroom(mock)
		mock.ExpectQuery(`FROM timetable_entries`).WillReturnRows(existsRow(true))
		mock.ExpectRollback()

		require.ErrorIs(t, repo.Create(context.Background(), newBooking(), "Monday"), ErrTimetableConflict)
	})

	t.Run("slot taken", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		expectLockClassroom(mock)
		mock.ExpectQuery(`FROM timetable_entries`).WillReturnRows(existsRow(false))
		mock.ExpectQuery(`status IN \('pending', 'approved'\)`).WillReturnRows(existsRow(true))
		mock.ExpectRollback()

		require.ErrorIs(t, repo.Create(context.Background(), newBooking(), "Monday"), ErrSlotTaken)
	})

	t.Run("unknown requester", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		expectLockClassroom(mock)
		mock.ExpectQuery(`FROM timetable_entries`).WillReturnRows(existsRow(false))
		mock.ExpectQuery(`FROM bookings`).WillReturnRows(existsRow(false))
		mock.ExpectExec(`^INSERT INTO bookings`).WillReturnError(&mysql.MySQLError{Number: 1452})
		mock.ExpectRollback()

		require.ErrorIs(t, repo.Create(context.Background(), newBooking(), "Monday"), ErrUserNotFound)
	})
}

func TestBookingList(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepository(db)

	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`WHERE b.booking_date = \? AND b.year = \? ORDER BY b.created_at DESC, b.booking_id DESC`).
		WithArgs(date("2025-03-03"), 2).
		WillReturnRows(sqlmock.NewRows(bookingRowColumns).
			AddRow(14, 2, "Room 501", date("2025-03-03"), "09:00-10:00", 2, 5, "Asha", nil, "pending", created).
			AddRow(11, 3, "Room 502", date("2025-03-03"), "10:00-11:00", 2, 6, "Ravi", 1, "approved", created))

	list, err := repo.List(context.Background(), BookingFilter{Date: date("2025-03-03"), Year: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Room 501", list[0].ClassroomName)
	require.Equal(t, "Asha", list[0].RequesterName)
	require.Nil(t, list[0].ApprovedBy)
	require.NotNil(t, list[1].ApprovedBy)
	require.Equal(t, int64(1), *list[1].ApprovedBy)
	require.Equal(t, model.BookingApproved, list[1].Status)
}

func TestBookingListUnfiltered(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepository(db)

	mock.ExpectQuery(`LEFT JOIN users u ON u.id = b.requested_by ORDER BY b.created_at DESC`).
		WillReturnRows(sqlmock.NewRows(bookingRowColumns))

	list, err := repo.List(context.Background(), BookingFilter{})
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)
}

func TestBookingDecide(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepository(db)

	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery(`^SELECT status FROM bookings WHERE booking_id = \? FOR UPDATE`).
		WithArgs(int64(14)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("pending"))
	mock.ExpectExec(`^UPDATE bookings SET status = \?, approved_by = \? WHERE booking_id = \?`).
		WithArgs("approved", int64(1), int64(14)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`WHERE b.booking_id = \?`).
		WithArgs(int64(14)).
		WillReturnRows(sqlmock.NewRows(bookingRowColumns).
			AddRow(14, 2, "Room 501", date("2025-03-03"), "09:00-10:00", 2, 5, "Asha", 1, "approved", created))
	mock.ExpectCommit()

	b, err := repo.Decide(context.Background(), 14, model.BookingApproved, 1)
	require.NoError(t, err)
	require.Equal(t, model.BookingApproved, b.Status)
	require.Equal(t, int64(1), *b.ApprovedBy)
	require.Equal(t, date("2025-03-03"), b.Date)
}

func TestBookingDecideRepeatDoesNotWrite(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`^SELECT status FROM bookings`).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("rejected"))
	mock.ExpectQuery(`WHERE b.booking_id = \?`).
		WillReturnRows(sqlmock.NewRows(bookingRowColumns).
			AddRow(14, 2, "Room 501", date("2025-03-03"), "09:00-10:00", 2, 5, "Asha", 1, "rejected", time.Now()))
	mock.ExpectCommit()

	b, err := repo.Decide(context.Background(), 14, model.BookingRejected, 1)
	require.NoError(t, err)
	require.Equal(t, model.BookingRejected, b.Status)
}

func TestBookingDecideErrors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`^SELECT status FROM bookings`).WillReturnRows(sqlmock.NewRows([]string{"status"}))
		mock.ExpectRollback()

		_, err := repo.Decide(context.Background(), 99, model.BookingApproved, 1)
		require.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("already decided", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`^SELECT status FROM bookings`).WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("approved"))
		mock.ExpectRollback()

		_, err := repo.Decide(context.Background(), 14, model.BookingRejected, 1)
		require.ErrorIs(t, err, ErrBookingDecided)
	})

	t.Run("update fails", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`^SELECT status FROM bookings`).WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("pending"))
		mock.ExpectExec(`^UPDATE bookings`).WillReturnError(errors.New("deadlock"))
		mock.ExpectRollback()

		_, err := repo.Decide(context.Background(), 14, model.BookingApproved, 1)
		require.ErrorContains(t, err, "update booking: deadlock")
	})
}
