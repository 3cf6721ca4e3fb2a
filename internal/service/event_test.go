package service

import (
	"context"
	"errors"
	"testing"

	"github.com/anvaya/anvaya-go/internal/model"
	"github.com/anvaya/anvaya-go/internal/repository"
)

func validEventRequest() model.CreateEventRequest {
	return model.CreateEventRequest{
		Title:       "Robotics Expo",
		Category:    "Technical",
		StartDate:   "2025-03-10",
		EndDate:     "2025-03-11",
		Venue:       "Block C",
		Description: "Student robots on show",
	}
}

func TestCreateEvent_ThenListForOwner(t *testing.T) {
	store := &fakeEvents{}
	svc := NewEventService(store)

	if _, err := svc.Create(context.Background(), 7, validEventRequest()); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	list, err := svc.ListForOwner(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListForOwner() error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 event, got %d", len(list))
	}
	got := list[0]
	if got.Title != "Robotics Expo" || got.Date != "2025-03-10" || got.Venue != "Block C" {
		t.Errorf("unexpected summary: %+v", got)
	}
	if got.Status != model.StatusUpcoming {
		t.Errorf("status = %q, want Upcoming", got.Status)
	}
	if got.Participants != 0 {
		t.Errorf("participants = %d, want 0", got.Participants)
	}
}

func TestListForOwner_EmptyIsNotNil(t *testing.T) {
	svc := NewEventService(&fakeEvents{})

	list, err := svc.ListForOwner(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", list)
	}
}

func TestListForOwner_MissingStartDate(t *testing.T) {
	store := &fakeEvents{events: []model.Event{{ID: 1, OwnerID: 3, Name: "TBD", Status: model.StatusPlanning}}}
	svc := NewEventService(store)

	list, _ := svc.ListForOwner(context.Background(), 3)
	if list[0].Date != "" {
		t.Errorf("date = %q, want empty", list[0].Date)
	}
}

func TestCreateEvent_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*model.CreateEventRequest)
		wantMsg string
	}{
		{"missing title", func(r *model.CreateEventRequest) { r.Title = "" }, MsgMissingFields},
		{"missing venue", func(r *model.CreateEventRequest) { r.Venue = "" }, MsgMissingFields},
		{"missing end date", func(r *model.CreateEventRequest) { r.EndDate = "" }, MsgMissingFields},
		{"bad start date", func(r *model.CreateEventRequest) { r.StartDate = "10/03/2025" }, MsgInvalidDate},
		{"bad end date", func(r *model.CreateEventRequest) { r.EndDate = "2025-13-01" }, MsgInvalidDate},
		{"unknown category", func(r *model.CreateEventRequest) { r.Category = "Gaming" }, MsgInvalidCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeEvents{}
			svc := NewEventService(store)
			req := validEventRequest()
			tt.mutate(&req)

			_, err := svc.Create(context.Background(), 7, req)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", verr.Message, tt.wantMsg)
			}
			if len(store.events) != 0 {
				t.Error("invalid request must not be stored")
			}
		})
	}
}

func TestCreateEvent_KeepsOptionalFields(t *testing.T) {
	store := &fakeEvents{}
	svc := NewEventService(store)

	guest := "Dr. Rao"
	req := validEventRequest()
	req.GuestName = &guest

	ev, err := svc.Create(context.Background(), 7, req)
	if err != nil {
		t.Fatal(err)
	}
	if ev.GuestName == nil || *ev.GuestName != "Dr. Rao" {
		t.Errorf("guest name lost: %v", ev.GuestName)
	}
	if ev.GuestContact != nil || ev.SessionDetails != nil {
		t.Error("absent optional fields must stay nil")
	}
}

func TestCreateEvent_StoreErrors(t *testing.T) {
	svc := NewEventService(&fakeEvents{createErr: errDB})
	if _, err := svc.Create(context.Background(), 7, validEventRequest()); !errors.Is(err, errDB) {
		t.Errorf("expected store error, got %v", err)
	}

	svc = NewEventService(&fakeEvents{createErr: repository.ErrUserNotFound})
	if _, err := svc.Create(context.Background(), 999, validEventRequest()); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestListByCategory(t *testing.T) {
	store := &fakeEvents{events: []model.Event{
		{ID: 1, Name: "Dance Night", Category: model.CategoryCultural},
		{ID: 2, Name: "Cricket", Category: model.CategorySports},
	}}
	svc := NewEventService(store)

	list, err := svc.ListByCategory(context.Background(), "Sports")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Title != "Cricket" {
		t.Errorf("unexpected listing: %+v", list)
	}

	_, err = svc.ListByCategory(context.Background(), "sports")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for unknown category, got %v", err)
	}
}

func TestListAll(t *testing.T) {
	store := &fakeEvents{}
	svc := NewEventService(store)
	_, _ = svc.Create(context.Background(), 1, validEventRequest())

	list, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].EndDate != "2025-03-11" || list[0].Category != model.CategoryTechnical {
		t.Errorf("unexpected listing: %+v", list)
	}
}

func TestRegister(t *testing.T) {
	store := &fakeEvents{}
	svc := NewEventService(store)
	ev, _ := svc.Create(context.Background(), 1, validEventRequest())

	if _, err := svc.Register(context.Background(), 3, model.RoleStudent, ev.ID); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if _, err := svc.Register(context.Background(), 3, model.RoleStudent, ev.ID); !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("second registration: expected ErrAlreadyRegistered, got %v", err)
	}
	if store.events[0].Participants != 1 {
		t.Errorf("participants = %d, want 1", store.events[0].Participants)
	}

	if _, err := svc.Register(context.Background(), 3, model.RoleStudent, 404); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound, got %v", err)
	}
	if _, err := svc.Register(context.Background(), 1, model.RoleFaculty, ev.ID); !errors.Is(err, ErrStudentOnly) {
		t.Errorf("expected ErrStudentOnly, got %v", err)
	}
}
