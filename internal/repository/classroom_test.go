package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/anvaya/anvaya-go/internal/model"
)

var scheduleRowColumns = []string{"entry_id", "semester", "section", "day_of_week", "slot", "subject", "classroom"}

func TestClassroomList(t *testing.T) {
	db, mock := newMock(t)
	repo := NewClassroomRepository(db)

	mock.ExpectQuery(`^SELECT classroom_id, name, COALESCE\(capacity, 0\) FROM classrooms ORDER BY name`).
		WillReturnRows(sqlmock.NewRows([]string{"classroom_id", "name", "capacity"}).
			AddRow(1, "Room 103", 60).
			AddRow(2, "Room 501", 0))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, []model.Classroom{{ID: 1, Name: "Room 103", Capacity: 60}, {ID: 2, Name: "Room 501"}}, list)
}

func TestClassroomListAvailable(t *testing.T) {
	db, mock := newMock(t)
	repo := NewClassroomRepository(db)

	mock.ExpectQuery(`NOT EXISTS \(\s*SELECT 1 FROM timetable_entries t`).
		WithArgs("Monday", "09:00-10:00", date("2025-03-03"), "09:00-10:00").
		WillReturnRows(sqlmock.NewRows([]string{"classroom_id", "name", "capacity"}).AddRow(3, "Room 502", 40))

	list, err := repo.ListAvailable(context.Background(), date("2025-03-03"), "Monday", "09:00-10:00")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Room 502", list[0].Name)
}

func TestClassroomListEmpty(t *testing.T) {
	db, mock := newMock(t)
	repo := NewClassroomRepository(db)

	mock.ExpectQuery(`FROM classrooms`).
		WillReturnRows(sqlmock.NewRows([]string{"classroom_id", "name", "capacity"}))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)
}

func TestEnsureClassrooms(t *testing.T) {
	db, mock := newMock(t)
	repo := NewClassroomRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`^INSERT IGNORE INTO classrooms \(name\)`).WithArgs("Room 103").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`^INSERT IGNORE INTO classrooms \(name\)`).WithArgs("Room 501").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, repo.EnsureClassrooms(context.Background(), []string{"Room 103", "Room 501"}))
}

func TestReplaceSchedule(t *testing.T) {
	db, mock := newMock(t)
	repo := NewClassroomRepository(db)

	entries := []model.ScheduleEntry{
		{DayOfWeek: "Monday", Slot: "09:00-10:00", Subject: "OS", Classroom: "Room 103"},
		{DayOfWeek: "Monday", Slot: "12:15-13:15", Subject: "JAVA LAB", Classroom: "Room 501"},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`^DELETE FROM timetable_entries WHERE semester = \? AND section = \?`).
		WithArgs(4, "A").WillReturnResult(sqlmock.NewResult(0, 12))
	mock.ExpectExec(`^INSERT INTO timetable_entries`).
		WithArgs(4, "A", "Monday", "09:00-10:00", "OS", "Room 103").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`^INSERT INTO timetable_entries`).
		WithArgs(4, "A", "Monday", "12:15-13:15", "JAVA LAB", "Room 501").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.ReplaceSchedule(context.Background(), 4, "A", entries))
}

func TestReplaceScheduleRollsBackOnFailure(t *testing.T) {
	db, mock := newMock(t)
	repo := NewClassroomRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`^DELETE FROM timetable_entries`).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`^INSERT INTO timetable_entries`).WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	err := repo.ReplaceSchedule(context.Background(), 4, "A", []model.ScheduleEntry{{DayOfWeek: "Monday", Slot: "09:00-10:00"}})
	require.ErrorContains(t, err, "insert schedule entry: lock wait timeout")
}

func TestScheduleQueries(t *testing.T) {
	db, mock := newMock(t)
	repo := NewClassroomRepository(db)

	mock.ExpectQuery(`FROM timetable_entries WHERE day_of_week = \? ORDER BY slot, classroom`).
		WithArgs("Tuesday").
		WillReturnRows(sqlmock.NewRows(scheduleRowColumns).AddRow(7, 4, "A", "Tuesday", "09:00-10:00", "CN", "Room 103"))

	day, err := repo.ScheduleForDay(context.Background(), "Tuesday")
	require.NoError(t, err)
	require.Equal(t, []model.ScheduleEntry{{ID: 7, Semester: 4, Section: "A", DayOfWeek: "Tuesday", Slot: "09:00-10:00", Subject: "CN", Classroom: "Room 103"}}, day)

	mock.ExpectQuery(`FROM timetable_entries WHERE semester = \? AND section = \?`).
		WithArgs(4, "A").
		WillReturnError(errors.New("connection reset"))

	_, err = repo.ScheduleForSection(context.Background(), 4, "A")
	require.ErrorContains(t, err, "list schedule: connection reset")
}
