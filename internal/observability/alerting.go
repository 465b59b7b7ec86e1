package observability

import (
	"fmt"
	"sort"
	"time"
)

// AlertSeverity represents the urgency of an alert.
type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "high"
	SeverityMedium AlertSeverity = "medium"
	SeverityLow    AlertSeverity = "low"
)

// Alert represents a triggered alert condition.
type Alert struct {
	ID          string        `json:"id"`
	Condition   string        `json:"condition"`
	Severity    AlertSeverity `json:"severity"`
	Message     string        `json:"message"`
	TriggeredAt time.Time     `json:"triggered_at"`
}

// AlertThresholds configures when alerts should fire.
type AlertThresholds struct {
	// LookbackDays limits evaluation to recent events.
	LookbackDays int `yaml:"lookback_days" json:"lookback_days"`
	// MaxNotifyFailures is how many failed notifications are tolerated in
	// the window before alerting.
	MaxNotifyFailures int `yaml:"max_notify_failures" json:"max_notify_failures"`
}

// DefaultAlertThresholds returns sensible defaults for alert thresholds.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{LookbackDays: 7, MaxNotifyFailures: 0}
}

// AlertEngine evaluates alert conditions against the event log.
type AlertEngine interface {
	Evaluate() ([]Alert, error)
}

// alertEngine implements AlertEngine by reading events and checking thresholds.
type alertEngine struct {
	eventLog   EventLog
	thresholds AlertThresholds
	now        func() time.Time
}

// NewAlertEngine creates a new AlertEngine with the given EventLog and thresholds.
func NewAlertEngine(eventLog EventLog, thresholds AlertThresholds) AlertEngine {
	return &alertEngine{
		eventLog:   eventLog,
		thresholds: thresholds,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Evaluate reads recent events and checks all alert conditions, returning
// triggered alerts ordered by severity.
func (ae *alertEngine) Evaluate() ([]Alert, error) {
	now := ae.now()
	days := ae.thresholds.LookbackDays
	if days <= 0 {
		days = DefaultAlertThresholds().LookbackDays
	}
	since := now.AddDate(0, 0, -days)

	var alerts []Alert

	inconsistent, err := ae.checkInconsistentCascades(since, now)
	if err != nil {
		return nil, fmt.Errorf("checking cascades: %w", err)
	}
	alerts = append(alerts, inconsistent...)

	notify, err := ae.checkNotifyFailures(since, now)
	if err != nil {
		return nil, fmt.Errorf("checking notifications: %w", err)
	}
	alerts = append(alerts, notify...)

	orphans, err := ae.checkOrphanedGoals(now)
	if err != nil {
		return nil, fmt.Errorf("checking orphaned goals: %w", err)
	}
	alerts = append(alerts, orphans...)

	sort.SliceStable(alerts, func(i, j int) bool {
		return severityRank(alerts[i].Severity) < severityRank(alerts[j].Severity)
	})
	return alerts, nil
}

// checkInconsistentCascades raises one alert per cascade that stopped part
// way through. Each needs manual reconciliation.
func (ae *alertEngine) checkInconsistentCascades(since, now time.Time) ([]Alert, error) {
	events, err := ae.eventLog.Read(EventFilter{Since: &since, Types: []string{"cascade.inconsistent"}})
	if err != nil {
		return nil, err
	}

	var alerts []Alert
	for _, event := range events {
		subject, _ := event.Data["category_name"].(string)
		if subject == "" {
			subject, _ = event.Data["task_name"].(string)
		}
		cause, _ := event.Data["error"].(string)
		action, _ := event.Data["operation"].(string)
		if action == "" {
			action = "deleting"
		}
		alerts = append(alerts, Alert{
			ID:          fmt.Sprintf("inconsistent-%d", event.Time.UnixNano()),
			Condition:   "cascade_inconsistent",
			Severity:    SeverityHigh,
			Message:     fmt.Sprintf("%s %q left records inconsistent (%s); reconcile manually", action, subject, cause),
			TriggeredAt: now,
		})
	}
	return alerts, nil
}

// checkNotifyFailures raises a single alert when failed notifications in
// the window exceed the tolerated count.
func (ae *alertEngine) checkNotifyFailures(since, now time.Time) ([]Alert, error) {
	events, err := ae.eventLog.Read(EventFilter{Since: &since, Types: []string{"notify.failed"}})
	if err != nil {
		return nil, err
	}
	if len(events) <= ae.thresholds.MaxNotifyFailures {
		return nil, nil
	}
	last, _ := events[len(events)-1].Data["error"].(string)
	return []Alert{{
		ID:          "notify-failed",
		Condition:   "notification_failed",
		Severity:    SeverityMedium,
		Message:     fmt.Sprintf("%d achievement notifications failed in the last %d days (last: %s)", len(events), ae.thresholds.LookbackDays, last),
		TriggeredAt: now,
	}}, nil
}

// checkOrphanedGoals raises an alert for every goal still pointing at a
// deleted task. A later goal.removed event for the same goal clears it.
// Orphans are tracked over the whole log since they persist until removed.
func (ae *alertEngine) checkOrphanedGoals(now time.Time) ([]Alert, error) {
	events, err := ae.eventLog.Read(EventFilter{Types: []string{"goal.orphaned", "goal.removed"}})
	if err != nil {
		return nil, err
	}

	type orphan struct {
		name   string
		taskID string
	}
	open := make(map[string]orphan)
	var order []string
	for _, event := range events {
		goalID, _ := event.Data["goal_id"].(string)
		if goalID == "" {
			continue
		}
		if event.Type == "goal.removed" {
			delete(open, goalID)
			continue
		}
		if _, seen := open[goalID]; !seen {
			order = append(order, goalID)
		}
		name, _ := event.Data["goal_name"].(string)
		taskID, _ := event.Data["task_id"].(string)
		open[goalID] = orphan{name: name, taskID: taskID}
	}

	var alerts []Alert
	for _, goalID := range order {
		o, ok := open[goalID]
		if !ok {
			continue
		}
		alerts = append(alerts, Alert{
			ID:          "orphan-" + goalID,
			Condition:   "goal_orphaned",
			Severity:    SeverityLow,
			Message:     fmt.Sprintf("goal %q targets deleted task %s and can no longer progress", o.name, o.taskID),
			TriggeredAt: now,
		})
	}
	return alerts, nil
}

func severityRank(s AlertSeverity) int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}
