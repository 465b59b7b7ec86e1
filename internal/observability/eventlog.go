package observability

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sync"
	"time"
)

// Event represents a single observable event in the system.
type Event struct {
	Time    time.Time      `json:"time"`
	Level   string         `json:"level"` // INFO, WARN, ERROR
	Type    string         `json:"type"`  // e.g. "goal.achieved", "cascade.inconsistent"
	Message string         `json:"msg"`
	Data    map[string]any `json:"data,omitempty"`
}

// EventFilter specifies criteria for reading events. Types matches any of
// the listed types; an empty filter matches everything.
type EventFilter struct {
	Since *time.Time
	Until *time.Time
	Types []string
	Level string
}

// EventLog defines the interface for writing and reading events.
type EventLog interface {
	Write(event Event) error
	Read(filter EventFilter) ([]Event, error)
	Close() error
}

// jsonlEventLog implements EventLog using an append-only JSONL file.
type jsonlEventLog struct {
	path string
	file *os.File
	mu   sync.Mutex
}

// NewJSONLEventLog creates a new EventLog backed by a JSONL file at the given path.
func NewJSONLEventLog(path string) (EventLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening event log: %w", err)
	}
	return &jsonlEventLog{path: path, file: f}, nil
}

// Write appends a JSON-encoded event followed by a newline to the log file.
func (l *jsonlEventLog) Write(event Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshalling event: %w", err)
	}
	data = append(data, '\n')

	if _, err := l.file.Write(data); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}
	return nil
}

// Read scans the log file line by line and returns the events matching
// filter, oldest first. Malformed lines are skipped.
func (l *jsonlEventLog) Read(filter EventFilter) ([]Event, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening event log for reading: %w", err)
	}
	defer func() { _ = f.Close() }()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			continue
		}
		if matchesEventFilter(event, filter) {
			events = append(events, event)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning event log: %w", err)
	}
	return events, nil
}

// Close closes the underlying log file.
func (l *jsonlEventLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.file.Close(); err != nil {
		return fmt.Errorf("closing event log: %w", err)
	}
	return nil
}

func matchesEventFilter(event Event, filter EventFilter) bool {
	if filter.Since != nil && event.Time.Before(*filter.Since) {
		return false
	}
	if filter.Until != nil && event.Time.After(*filter.Until) {
		return false
	}
	if len(filter.Types) > 0 && !slices.Contains(filter.Types, event.Type) {
		return false
	}
	if filter.Level != "" && event.Level != filter.Level {
		return false
	}
	return true
}

// Recorder turns service-level log calls into timestamped events with a
// readable message. It satisfies the core EventLogger contract.
type Recorder struct {
	log EventLog
	now func() time.Time
}

// NewRecorder creates a Recorder writing to log.
func NewRecorder(log EventLog) *Recorder {
	return &Recorder{log: log, now: time.Now}
}

// LogEvent writes one event at the given level.
func (r *Recorder) LogEvent(level, eventType string, data map[string]any) error {
	return r.log.Write(Event{
		Time:    r.now().UTC(),
		Level:   level,
		Type:    eventType,
		Message: describe(eventType, data),
		Data:    data,
	})
}

// describe renders a one-line message for an event.
func describe(eventType string, data map[string]any) string {
	str := func(key string) string {
		s, _ := data[key].(string)
		return s
	}
	switch eventType {
	case "task.created":
		return fmt.Sprintf("task %q created", str("task_name"))
	case "task.scheduled":
		return fmt.Sprintf("task %q scheduled for today", str("task_name"))
	case "task.completed":
		return fmt.Sprintf("task %q completed", str("task_name"))
	case "task.deleted":
		return fmt.Sprintf("task %q deleted", str("task_name"))
	case "goal.created":
		return fmt.Sprintf("goal %q created", str("goal_name"))
	case "goal.progressed":
		return fmt.Sprintf("goal %q progressed to %v/%v", str("goal_name"), data["progress"], data["frequency"])
	case "goal.achieved":
		return fmt.Sprintf("goal %q achieved", str("goal_name"))
	case "goal.progress_undone":
		return fmt.Sprintf("goal %q progress undone", str("goal_name"))
	case "goal.rolled_over":
		return fmt.Sprintf("goal %q rolled over to %s", str("goal_name"), str("begin"))
	case "goal.removed":
		return fmt.Sprintf("goal %q removed (%s)", str("goal_name"), str("reason"))
	case "goal.orphaned":
		return fmt.Sprintf("goal %q targets deleted task %s", str("goal_name"), str("task_id"))
	case "category.created":
		return fmt.Sprintf("category %q created", str("category_name"))
	case "category.renamed":
		return fmt.Sprintf("category %q renamed to %q", str("old_name"), str("new_name"))
	case "category.deleted":
		return fmt.Sprintf("category %q deleted", str("category_name"))
	case "event.created":
		return fmt.Sprintf("event %q created", str("event_name"))
	case "cascade.inconsistent":
		return "cascade stopped part way; manual reconciliation required"
	case "cascade.confirmation_required":
		return fmt.Sprintf("deleting %q needs confirmation", str("task_name"))
	case "notify.failed":
		return "notification failed: " + str("error")
	default:
		return eventType
	}
}
