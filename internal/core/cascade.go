package core

import (
	"fmt"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

// Outcome distinguishes a completed deletion from one that is waiting for
// the caller to confirm.
type Outcome string

const (
	OutcomeDeleted              Outcome = "deleted"
	OutcomeConfirmationRequired Outcome = "confirmation_required"
)

// CascadePolicy holds the configurable rules the cascade enforces.
type CascadePolicy struct {
	// MinCategories is the smallest number of categories that may remain
	// after a deletion.
	MinCategories int
	// Orphans decides what happens to goals targeting a deleted task.
	Orphans models.OrphanPolicy
}

// DefaultCascadePolicy keeps one category and removes orphaned goals.
func DefaultCascadePolicy() CascadePolicy {
	return CascadePolicy{MinCategories: 1, Orphans: models.OrphanRemove}
}

// CategoryDeletionResult reports the dependent records a category deletion
// touched. On a mid-cascade failure the counts reflect what was applied
// before the failure.
type CategoryDeletionResult struct {
	Category      models.Category
	TasksUpdated  int
	EventsUpdated int
}

// TaskDeletionResult reports the outcome of a task deletion.
type TaskDeletionResult struct {
	Outcome Outcome
	Task    models.Task
	// ExistsInToday is true when today-scope instances of the template exist.
	ExistsInToday  bool
	TodayInstances int
	// Removed counts task records deleted, template and instances together.
	Removed        int
	TargetingGoals []models.Goal
	// RemovedGoals and OrphanedGoals split TargetingGoals by what the orphan
	// policy did with them.
	RemovedGoals  []models.Goal
	OrphanedGoals []models.Goal
}

// IntegrityCascade deletes categories and tasks while keeping every other
// record's references valid.
type IntegrityCascade struct {
	tasks      TaskStore
	categories CategoryStore
	events     EventStore
	goals      *GoalStore
	policy     CascadePolicy
	logger     EventLogger
}

// NewIntegrityCascade wires the cascade. logger may be nil.
func NewIntegrityCascade(tasks TaskStore, categories CategoryStore, events EventStore, goals *GoalStore, policy CascadePolicy, logger EventLogger) *IntegrityCascade {
	if policy.Orphans == "" {
		policy.Orphans = models.OrphanRemove
	}
	return &IntegrityCascade{
		tasks:      tasks,
		categories: categories,
		events:     events,
		goals:      goals,
		policy:     policy,
		logger:     logger,
	}
}

// DeleteCategory removes a category after clearing the reference on every
// task (both scopes) and event that uses it. Referencing records are never
// deleted. A failure while clearing references stops the cascade and is
// reported as ErrDependencyUpdateFailed; steps already applied are not
// rolled back.
func (c *IntegrityCascade) DeleteCategory(id models.CategoryID) (*CategoryDeletionResult, error) {
	const op = "deleting category"
	if id == "" {
		return nil, models.InvalidArgument(op, "category id is required")
	}

	category, err := c.categories.GetCategory(id)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, id, err)
	}
	if category == nil {
		return nil, models.NotFound(op, "category %s not found", id)
	}

	count, err := c.categories.Count()
	if err != nil {
		return nil, fmt.Errorf("%s %s: counting categories: %w", op, id, err)
	}
	if count-1 < c.policy.MinCategories {
		return nil, models.PolicyViolation(op, "cannot delete %q: at least %d categories must remain",
			category.Name, c.policy.MinCategories)
	}

	tasks, err := c.tasks.TasksByCategory(id)
	if err != nil {
		return nil, fmt.Errorf("%s %s: listing tasks: %w", op, id, err)
	}
	events, err := c.events.EventsByCategory(id)
	if err != nil {
		return nil, fmt.Errorf("%s %s: listing events: %w", op, id, err)
	}

	result := &CategoryDeletionResult{Category: *category}
	for _, t := range tasks {
		if err := c.tasks.UpdateTaskCategory(t.ID, ""); err != nil {
			return result, c.inconsistent(op, result, "task", string(t.ID), err)
		}
		result.TasksUpdated++
	}
	for _, e := range events {
		if err := c.events.ClearEventCategory(e.ID); err != nil {
			return result, c.inconsistent(op, result, "event", string(e.ID), err)
		}
		result.EventsUpdated++
	}

	if err := c.categories.DeleteCategory(id); err != nil {
		return result, fmt.Errorf("%s %s: %w", op, id, err)
	}

	logEvent(c.logger, LevelInfo, EventCategoryDeleted, map[string]any{
		"category_id":    string(id),
		"category_name":  category.Name,
		"tasks_updated":  result.TasksUpdated,
		"events_updated": result.EventsUpdated,
	})
	return result, nil
}

// inconsistent records a mid-cascade failure and builds the error returned
// to the caller.
func (c *IntegrityCascade) inconsistent(op string, result *CategoryDeletionResult, kind, recordID string, cause error) error {
	logEvent(c.logger, LevelError, EventCascadeInconsistent, map[string]any{
		"category_id":    string(result.Category.ID),
		"category_name":  result.Category.Name,
		"record_kind":    kind,
		"record_id":      recordID,
		"tasks_updated":  result.TasksUpdated,
		"events_updated": result.EventsUpdated,
		"error":          cause.Error(),
	})
	return models.DependencyUpdateFailed(op, cause,
		"clearing category %q from %s %s (%d tasks and %d events already updated)",
		result.Category.Name, kind, recordID, result.TasksUpdated, result.EventsUpdated)
}

// DeleteTask deletes a task. For a template that also has today-scope
// instances, the first call returns OutcomeConfirmationRequired and changes
// nothing; calling again with confirmed removes the template and every
// instance in one store call. Deleting a today instance directly removes
// only that instance.
//
// Goals targeting the task are handled by the orphan policy: removed,
// kept and reported, or the deletion is refused.
func (c *IntegrityCascade) DeleteTask(id models.TaskID, confirmed bool) (*TaskDeletionResult, error) {
	const op = "deleting task"
	if id == "" {
		return nil, models.InvalidArgument(op, "task id is required")
	}

	task, err := c.tasks.GetTask(id)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, id, err)
	}
	if task == nil {
		return nil, models.NotFound(op, "task %s not found", id)
	}

	result := &TaskDeletionResult{Task: *task}
	// doomed holds every task id the delete removes: the task itself and,
	// for a template, each of its today instances.
	doomed := map[models.TaskID]bool{id: true}
	if task.Scope() == models.ScopeAvailable {
		instances, err := c.tasks.TodayInstances(id)
		if err != nil {
			return nil, fmt.Errorf("%s %s: listing today instances: %w", op, id, err)
		}
		result.TodayInstances = len(instances)
		result.ExistsInToday = len(instances) > 0
		for _, inst := range instances {
			doomed[inst.ID] = true
		}
	}
	targetsDoomed := func(g models.Goal) bool { return doomed[g.GoalInfo.TargetTaskID] }
	for _, g := range c.goals.AllGoals() {
		if targetsDoomed(g) {
			result.TargetingGoals = append(result.TargetingGoals, g)
		}
	}

	if c.policy.Orphans == models.OrphanBlock && len(result.TargetingGoals) > 0 {
		return nil, models.PolicyViolation(op, "cannot delete %q: %d goals target it",
			task.Info.Name, len(result.TargetingGoals))
	}

	if result.ExistsInToday && !confirmed {
		result.Outcome = OutcomeConfirmationRequired
		logEvent(c.logger, LevelInfo, EventConfirmationRequired, map[string]any{
			"task_id":         string(id),
			"task_name":       task.Info.Name,
			"today_instances": result.TodayInstances,
		})
		return result, nil
	}

	removed, err := c.tasks.DeleteTaskTree(id)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, id, err)
	}
	result.Removed = removed
	result.Outcome = OutcomeDeleted
	logEvent(c.logger, LevelInfo, EventTaskDeleted, map[string]any{
		"task_id":   string(id),
		"task_name": task.Info.Name,
		"removed":   removed,
	})

	if len(result.TargetingGoals) == 0 {
		return result, nil
	}
	if c.policy.Orphans == models.OrphanKeep {
		result.OrphanedGoals = result.TargetingGoals
		for _, g := range result.OrphanedGoals {
			logEvent(c.logger, LevelWarn, EventGoalOrphaned, map[string]any{
				"goal_id":   string(g.ID),
				"goal_name": g.Name(),
				"task_id":   string(g.GoalInfo.TargetTaskID),
			})
		}
		return result, nil
	}

	goals, err := c.goals.RemoveWhere(targetsDoomed)
	if err != nil {
		logEvent(c.logger, LevelError, EventCascadeInconsistent, map[string]any{
			"task_id":   string(id),
			"task_name": task.Info.Name,
			"goals":     len(result.TargetingGoals),
			"error":     err.Error(),
		})
		return result, models.DependencyUpdateFailed(op, err,
			"task %q was deleted but its %d goals could not be removed", task.Info.Name, len(result.TargetingGoals))
	}
	result.RemovedGoals = goals
	for _, g := range goals {
		logEvent(c.logger, LevelInfo, EventGoalRemoved, map[string]any{
			"goal_id":   string(g.ID),
			"goal_name": g.Name(),
			"reason":    "target deleted",
		})
	}
	return result, nil
}
