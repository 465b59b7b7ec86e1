package observability

import (
	"fmt"
	"time"
)

// Metrics holds calculated metrics derived from the event log.
type Metrics struct {
	TasksCreated      int            `json:"tasks_created"`
	TasksCompleted    int            `json:"tasks_completed"`
	TasksDeleted      int            `json:"tasks_deleted"`
	GoalsCreated      int            `json:"goals_created"`
	GoalProgress      int            `json:"goal_progress"`
	GoalsAchieved     int            `json:"goals_achieved"`
	AchievedByPeriod  map[string]int `json:"achieved_by_period"`
	ProgressUndone    int            `json:"progress_undone"`
	GoalsRolledOver   int            `json:"goals_rolled_over"`
	GoalsRemoved      int            `json:"goals_removed"`
	CategoriesDeleted int            `json:"categories_deleted"`
	CascadeFailures   int            `json:"cascade_failures"`
	NotifyFailures    int            `json:"notify_failures"`
	EventCount        int            `json:"event_count"`
	OldestEvent       *time.Time     `json:"oldest_event,omitempty"`
	NewestEvent       *time.Time     `json:"newest_event,omitempty"`
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

// metricsCalculator implements MetricsCalculator by reading from an EventLog.
type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a new MetricsCalculator that reads from the given EventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate reads all events since the given time and aggregates them into metrics.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{AchievedByPeriod: make(map[string]int)}
	m.EventCount = len(events)

	for i, event := range events {
		if i == 0 {
			t := event.Time
			m.OldestEvent = &t
		}
		t := event.Time
		m.NewestEvent = &t

		switch event.Type {
		case "task.created":
			m.TasksCreated++
		case "task.completed":
			m.TasksCompleted++
		case "task.deleted":
			m.TasksDeleted++
		case "goal.created":
			m.GoalsCreated++
		case "goal.progressed":
			m.GoalProgress++
		case "goal.achieved":
			m.GoalsAchieved++
			if period, ok := event.Data["period"].(string); ok {
				m.AchievedByPeriod[period]++
			}
		case "goal.progress_undone":
			m.ProgressUndone++
		case "goal.rolled_over":
			m.GoalsRolledOver++
		case "goal.removed":
			m.GoalsRemoved++
		case "category.deleted":
			m.CategoriesDeleted++
		case "cascade.inconsistent":
			m.CascadeFailures++
		case "notify.failed":
			m.NotifyFailures++
		}
	}

	return m, nil
}
