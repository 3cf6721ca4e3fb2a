package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/anvaya/anvaya-go/internal/model"
	"github.com/anvaya/anvaya-go/internal/repository"
	"github.com/anvaya/anvaya-go/internal/storage"
)

type fakeUsers struct {
	mu      sync.Mutex
	users   []*model.User
	updated map[int64]string
	err     error
}

func (f *fakeUsers) GetByEmailAndRole(_ context.Context, email string, role model.Role) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Email == email && u.Role == role {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUsers) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updated == nil {
		f.updated = map[int64]string{}
	}
	f.updated[id] = hash
	return nil
}

type fakeEvents struct {
	events        []model.Event
	registrations map[[2]int64]bool
	createErr     error
}

func (f *fakeEvents) Create(_ context.Context, e *model.Event) error {
	if f.createErr != nil {
		return f.createErr
	}
	e.ID = int64(len(f.events) + 1)
	f.events = append(f.events, *e)
	return nil
}

func (f *fakeEvents) ListByOwner(_ context.Context, ownerID int64) ([]model.Event, error) {
	var out []model.Event
	for _, e := range f.events {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEvents) ListAll(context.Context) ([]model.Event, error) {
	return f.events, nil
}

func (f *fakeEvents) ListByCategory(_ context.Context, c model.EventCategory) ([]model.Event, error) {
	var out []model.Event
	for _, e := range f.events {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEvents) Register(_ context.Context, eventID, studentID int64) (*model.EventRegistration, error) {
	idx := -1
	for i, e := range f.events {
		if e.ID == eventID {
			idx = i
		}
	}
	if idx < 0 {
		return nil, repository.ErrEventNotFound
	}
	if f.registrations == nil {
		f.registrations = map[[2]int64]bool{}
	}
	key := [2]int64{eventID, studentID}
	if f.registrations[key] {
		return nil, repository.ErrAlreadyRegistered
	}
	f.registrations[key] = true
	f.events[idx].Participants++
	return &model.EventRegistration{ID: int64(len(f.registrations)), EventID: eventID, StudentID: studentID}, nil
}

type fakeAchievements struct {
	items     []model.Achievement
	owners    map[int64]string
	updates   int
	createErr error
}

func (f *fakeAchievements) Create(_ context.Context, a *model.Achievement) error {
	if f.createErr != nil {
		return f.createErr
	}
	a.ID = int64(len(f.items) + 1)
	f.items = append(f.items, *a)
	return nil
}

func (f *fakeAchievements) ListByOwner(_ context.Context, ownerID int64) ([]model.Achievement, error) {
	var out []model.Achievement
	for _, a := range f.items {
		if a.OwnerID == ownerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAchievements) ListWithOwners(context.Context) ([]model.AchievementWithOwner, error) {
	out := make([]model.AchievementWithOwner, 0, len(f.items))
	for _, a := range f.items {
		row := model.AchievementWithOwner{Achievement: a}
		if name, ok := f.owners[a.OwnerID]; ok {
			row.OwnerName = &name
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeAchievements) MarkVerified(_ context.Context, id int64) error {
	for i := range f.items {
		if f.items[i].ID == id {
			if f.items[i].Verification != model.VerificationVerified {
				f.items[i].Verification = model.VerificationVerified
				f.updates++
			}
			return nil
		}
	}
	return repository.ErrAchievementNotFound
}

type fakeUploader struct {
	calls []storage.UploadInput
	body  []byte
	url   string
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, in storage.UploadInput) (string, error) {
	f.calls = append(f.calls, in)
	if in.Body != nil {
		f.body, _ = io.ReadAll(in.Body)
	}
	return f.url, f.err
}

var errDB = errors.New("db unavailable")

type fakeClassrooms struct {
	rooms    []model.Classroom
	schedule []model.ScheduleEntry
	lastDay  string
}

func (f *fakeClassrooms) List(context.Context) ([]model.Classroom, error) {
	return f.rooms, nil
}

func (f *fakeClassrooms) ListAvailable(_ context.Context, _ time.Time, weekday, slot string) ([]model.Classroom, error) {
	f.lastDay = weekday
	busy := map[string]bool{}
	for _, e := range f.schedule {
		if e.DayOfWeek == weekday && e.Slot == slot {
			busy[e.Classroom] = true
		}
	}
	out := []model.Classroom{}
	for _, c := range f.rooms {
		if !busy[c.Name] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeClassrooms) ScheduleForDay(_ context.Context, weekday string) ([]model.ScheduleEntry, error) {
	out := []model.ScheduleEntry{}
	for _, e := range f.schedule {
		if e.DayOfWeek == weekday {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeClassrooms) ScheduleForSection(_ context.Context, semester int, section string) ([]model.ScheduleEntry, error) {
	out := []model.ScheduleEntry{}
	for _, e := range f.schedule {
		if e.Semester == semester && e.Section == section {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeBookings struct {
	rooms    map[int64]string
	schedule []model.ScheduleEntry
	items    []model.Booking
	filters  []repository.BookingFilter
	updates  int
}

func (f *fakeBookings) Create(_ context.Context, b *model.Booking, weekday string) error {
	name, ok := f.rooms[b.ClassroomID]
	if !ok {
		return repository.ErrClassroomNotFound
	}
	for _, e := range f.schedule {
		if e.Classroom == name && e.DayOfWeek == weekday && e.Slot == b.Slot {
			return repository.ErrTimetableConflict
		}
	}
	for _, other := range f.items {
		if other.ClassroomID == b.ClassroomID && other.Date.Equal(b.Date) && other.Slot == b.Slot &&
			other.Status != model.BookingRejected {
			return repository.ErrSlotTaken
		}
	}
	b.ID = int64(len(f.items) + 1)
	b.ClassroomName = name
	f.items = append(f.items, *b)
	return nil
}

func (f *fakeBookings) List(_ context.Context, filter repository.BookingFilter) ([]model.Booking, error) {
	f.filters = append(f.filters, filter)
	out := []model.Booking{}
	for _, b := range f.items {
		if !filter.Date.IsZero() && !b.Date.Equal(filter.Date) {
			continue
		}
		if filter.Year != 0 && b.Year != filter.Year {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBookings) Decide(_ context.Context, id int64, status model.BookingStatus, deciderID int64) (*model.Booking, error) {
	for i := range f.items {
		b := &f.items[i]
		if b.ID != id {
			continue
		}
		switch b.Status {
		case status:
		case model.BookingPending:
			b.Status = status
			b.ApprovedBy = &deciderID
			f.updates++
		default:
			return nil, repository.ErrBookingDecided
		}
		cp := *b
		return &cp, nil
	}
	return nil, repository.ErrBookingNotFound
}
