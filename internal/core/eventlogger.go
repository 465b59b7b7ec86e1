package core

// Event levels understood by the observability event log.
const (
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// Event types emitted by core services.
const (
	EventTaskCreated          = "task.created"
	EventTaskScheduled        = "task.scheduled"
	EventTaskCompleted        = "task.completed"
	EventTaskDeleted          = "task.deleted"
	EventGoalCreated          = "goal.created"
	EventGoalProgressed       = "goal.progressed"
	EventGoalAchieved         = "goal.achieved"
	EventGoalProgressUndone   = "goal.progress_undone"
	EventGoalRolledOver       = "goal.rolled_over"
	EventGoalRemoved          = "goal.removed"
	EventGoalOrphaned         = "goal.orphaned"
	EventCategoryCreated      = "category.created"
	EventCategoryRenamed      = "category.renamed"
	EventCategoryDeleted      = "category.deleted"
	EventEventCreated         = "event.created"
	EventCascadeInconsistent  = "cascade.inconsistent"
	EventConfirmationRequired = "cascade.confirmation_required"
	EventNotifyFailed         = "notify.failed"
)

// EventLogger is the subset of the observability event log that core
// services need. Defining it here avoids importing the observability package.
type EventLogger interface {
	LogEvent(level, eventType string, data map[string]any) error
}

// logEvent writes to logger when one is configured. Logging is
// best-effort and never fails the calling operation.
func logEvent(logger EventLogger, level, eventType string, data map[string]any) {
	if logger == nil {
		return
	}
	_ = logger.LogEvent(level, eventType, data)
}
