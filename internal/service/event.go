package service

import (
	"context"
	"errors"
	"time"

	"github.com/anvaya/anvaya-go/internal/model"
	"github.com/anvaya/anvaya-go/internal/repository"
)

// EventStore is the persistence EventService depends on.
type EventStore interface {
	Create(ctx context.Context, event *model.Event) error
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Event, error)
	ListAll(ctx context.Context) ([]model.Event, error)
	ListByCategory(ctx context.Context, category model.EventCategory) ([]model.Event, error)
	Register(ctx context.Context, eventID, studentID int64) (*model.EventRegistration, error)
}

// EventService handles event business logic.
type EventService struct {
	events EventStore
}

// NewEventService creates a new EventService.
func NewEventService(events EventStore) *EventService {
	return &EventService{events: events}
}

// ListForOwner returns the dashboard view of the events owned by ownerID.
func (s *EventService) ListForOwner(ctx context.Context, ownerID int64) ([]model.EventSummary, error) {
	events, err := s.events.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.EventSummary, 0, len(events))
	for _, e := range events {
		summaries = append(summaries, model.EventSummary{
			ID:           e.ID,
			Title:        e.Name,
			Date:         model.FormatDate(e.StartDate),
			Venue:        e.Venue,
			Status:       e.Status,
			Participants: e.Participants,
		})
	}
	return summaries, nil
}

// Create validates req and stores a new Upcoming event owned by ownerID.
func (s *EventService) Create(ctx context.Context, ownerID int64, req model.CreateEventRequest) (*model.Event, error) {
	if err := validate.Struct(req); err != nil {
		return nil, invalid(MsgMissingFields)
	}

	category := model.EventCategory(req.Category)
	if !category.Valid() {
		return nil, invalid(MsgInvalidCategory)
	}

	start, err := time.Parse(model.DateLayout, req.StartDate)
	if err != nil {
		return nil, invalid(MsgInvalidDate)
	}
	end, err := time.Parse(model.DateLayout, req.EndDate)
	if err != nil {
		return nil, invalid(MsgInvalidDate)
	}

	event := &model.Event{
		OwnerID:        ownerID,
		Name:           req.Title,
		Category:       category,
		Status:         model.StatusUpcoming,
		StartDate:      start,
		EndDate:        end,
		Venue:          req.Venue,
		Description:    req.Description,
		GuestName:      req.GuestName,
		GuestContact:   req.GuestContact,
		SessionDetails: req.SessionDetails,
		Participants:   0,
	}

	if err := s.events.Create(ctx, event); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return event, nil
}

// ListAll returns the public view of every event.
func (s *EventService) ListAll(ctx context.Context) ([]model.EventListing, error) {
	events, err := s.events.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toListings(events), nil
}

// ListByCategory returns the public view of the events in one category.
func (s *EventService) ListByCategory(ctx context.Context, category string) ([]model.EventListing, error) {
	c := model.EventCategory(category)
	if !c.Valid() {
		return nil, invalid(MsgInvalidCategory)
	}

	events, err := s.events.ListByCategory(ctx, c)
	if err != nil {
		return nil, err
	}
	return toListings(events), nil
}

// Register signs the acting student up for eventID.
func (s *EventService) Register(ctx context.Context, actorID int64, actorRole model.Role, eventID int64) (*model.EventRegistration, error) {
	if actorRole != model.RoleStudent {
		return nil, ErrStudentOnly
	}

	reg, err := s.events.Register(ctx, eventID, actorID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			return nil, ErrEventNotFound
		case errors.Is(err, repository.ErrAlreadyRegistered):
			return nil, ErrAlreadyRegistered
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return reg, nil
}

func toListings(events []model.Event) []model.EventListing {
	listings := make([]model.EventListing, 0, len(events))
	for _, e := range events {
		listings = append(listings, model.EventListing{
			ID:           e.ID,
			Title:        e.Name,
			Category:     e.Category,
			StartDate:    model.FormatDate(e.StartDate),
			EndDate:      model.FormatDate(e.EndDate),
			Venue:        e.Venue,
			Description:  e.Description,
			Status:       e.Status,
			Participants: e.Participants,
		})
	}
	return listings
}
