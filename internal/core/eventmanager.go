package core

import (
	"fmt"
	"time"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

// EventParams holds the inputs for creating a calendar event.
type EventParams struct {
	Name        string
	Description string
	CategoryID  models.CategoryID
	Begin       time.Time
	Due         *time.Time
}

// EventManager creates and lists calendar events.
type EventManager interface {
	CreateEvent(params EventParams) (*models.Event, error)
	ListEvents() ([]models.Event, error)
}

type eventManager struct {
	events     EventStore
	categories CategoryStore
	logger     EventLogger
	now        func() time.Time
}

// NewEventManager creates an EventManager. logger may be nil.
func NewEventManager(events EventStore, categories CategoryStore, logger EventLogger) EventManager {
	return &eventManager{events: events, categories: categories, logger: logger, now: time.Now}
}

func (em *eventManager) CreateEvent(params EventParams) (*models.Event, error) {
	const op = "creating event"
	info, err := models.NewInfo(params.Name, params.Description, params.CategoryID, em.now())
	if err != nil {
		return nil, err
	}
	if err := checkCategory(em.categories, op, params.CategoryID); err != nil {
		return nil, err
	}
	begin := params.Begin
	if begin.IsZero() {
		begin = em.now()
	}
	dates, err := models.NewBeginAndDueDates(begin, params.Due)
	if err != nil {
		return nil, err
	}
	event := models.Event{ID: models.NewEventID(), Info: info, Dates: dates}
	if err := em.events.AddEvent(event); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logEvent(em.logger, LevelInfo, EventEventCreated, map[string]any{
		"event_id":   string(event.ID),
		"event_name": event.Info.Name,
	})
	return &event, nil
}

func (em *eventManager) ListEvents() ([]models.Event, error) {
	events, err := em.events.ListEvents()
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return events, nil
}
