package storage

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

// EventFile is the top-level structure of events.yaml.
type EventFile struct {
	Version string         `yaml:"version"`
	Events  []models.Event `yaml:"events"`
}

// EventStore keeps calendar events in events.yaml.
type EventStore struct {
	mu   sync.Mutex
	path string
	data EventFile
}

// NewEventStore loads events.yaml from basePath.
func NewEventStore(basePath string) (*EventStore, error) {
	s := &EventStore{
		path: filepath.Join(basePath, "events.yaml"),
		data: EventFile{Version: fileVersion},
	}
	if _, err := readYAML(s.path, &s.data); err != nil {
		return nil, fmt.Errorf("loading events: %w", err)
	}
	return s, nil
}

func (s *EventStore) AddEvent(e models.Event) error {
	if e.ID == "" {
		return fmt.Errorf("adding event: ID must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(e.ID) >= 0 {
		return fmt.Errorf("adding event: event %s already exists", e.ID)
	}
	next := s.snapshot()
	next = append(next, e.Clone())
	return s.commit("adding event", next)
}

func (s *EventStore) ListEvents() ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(), nil
}

func (s *EventStore) EventsByCategory(categoryID models.CategoryID) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Event
	for i := range s.data.Events {
		if s.data.Events[i].Info.CategoryID == categoryID {
			out = append(out, s.data.Events[i].Clone())
		}
	}
	return out, nil
}

// ClearEventCategory makes the event uncategorized.
func (s *EventStore) ClearEventCategory(id models.EventID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("clearing event category: event %s not found", id)
	}
	next := s.snapshot()
	next[i].Info = next[i].Info.WithCategory("")
	return s.commit("clearing event category", next)
}

func (s *EventStore) indexOf(id models.EventID) int {
	for i := range s.data.Events {
		if s.data.Events[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *EventStore) snapshot() []models.Event {
	out := make([]models.Event, len(s.data.Events))
	for i := range s.data.Events {
		out[i] = s.data.Events[i].Clone()
	}
	return out
}

func (s *EventStore) commit(op string, next []models.Event) error {
	file := EventFile{Version: fileVersion, Events: next}
	if err := writeYAML(s.path, &file); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.data = file
	return nil
}
