package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

// CompletionResult describes what completing a task did to the goals that
// target it.
type CompletionResult struct {
	Task            models.Task
	AlreadyComplete bool
	// Progressed holds every goal whose progress advanced, including those
	// that were achieved by this completion.
	Progressed []models.Goal
	Achieved   []models.Goal
	// OutOfWindow holds goals targeting the task whose window does not
	// contain the completion day. They are left untouched.
	OutOfWindow []models.Goal
	// Failed holds goals whose progress could not be saved. The task stays
	// complete, so these need manual reconciliation.
	Failed []models.Goal
}

// CompletionPropagator completes tasks and advances the goals targeting them.
type CompletionPropagator struct {
	tasks  TaskStore
	goals  *GoalStore
	logger EventLogger
}

// NewCompletionPropagator wires the propagator. logger may be nil.
func NewCompletionPropagator(tasks TaskStore, goals *GoalStore, logger EventLogger) *CompletionPropagator {
	return &CompletionPropagator{tasks: tasks, goals: goals, logger: logger}
}

// CompleteTask marks the task complete at instant at and records one unit of
// progress on every open goal targeting it whose window contains the
// completion day. A today-scope instance also advances goals targeting its
// template. Completing an already complete task changes nothing and is not
// an error.
func (p *CompletionPropagator) CompleteTask(taskID models.TaskID, at time.Time) (*CompletionResult, error) {
	const op = "completing task"
	if taskID == "" {
		return nil, models.InvalidArgument(op, "task id is required")
	}
	if at.IsZero() {
		return nil, models.InvalidArgument(op, "completion time is required")
	}

	task, err := p.tasks.GetTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, taskID, err)
	}
	if task == nil {
		return nil, models.NotFound(op, "task %s not found", taskID)
	}

	result := &CompletionResult{}
	if !task.Complete(at) {
		result.Task = *task
		result.AlreadyComplete = true
		return result, nil
	}
	if err := p.tasks.SaveTask(*task); err != nil {
		return nil, fmt.Errorf("%s %s: saving task: %w", op, taskID, err)
	}
	result.Task = *task
	logEvent(p.logger, LevelInfo, EventTaskCompleted, map[string]any{
		"task_id":      string(task.ID),
		"task_name":    task.Info.Name,
		"completed_at": at.Format(time.RFC3339),
	})

	completedAt := at
	var saveErr error
	for _, goal := range p.targetingGoals(task) {
		if goal.IsCompleted {
			continue
		}
		if !goal.Accepts(at) {
			result.OutOfWindow = append(result.OutOfWindow, goal)
			continue
		}
		updated, changed, err := p.goals.RecordCompletionAndClean(goal.ID, &completedAt)
		if err != nil {
			result.Failed = append(result.Failed, goal)
			if saveErr == nil {
				saveErr = err
			}
			continue
		}
		if !changed {
			continue
		}
		result.Progressed = append(result.Progressed, updated)
		logEvent(p.logger, LevelInfo, EventGoalProgressed, map[string]any{
			"goal_id":   string(updated.ID),
			"goal_name": updated.Name(),
			"progress":  updated.Progress,
			"frequency": updated.Frequency,
		})
		if updated.IsCompleted {
			result.Achieved = append(result.Achieved, updated)
			logEvent(p.logger, LevelInfo, EventGoalAchieved, map[string]any{
				"goal_id":   string(updated.ID),
				"goal_name": updated.Name(),
				"period":    string(updated.Period),
			})
		}
	}
	if saveErr != nil {
		return result, p.inconsistent(op, result, saveErr)
	}
	return result, nil
}

// inconsistent records goals that missed a completion which is already
// stored. Retrying the completion is a no-op, so the log entry is the only
// trace of the lost progress.
func (p *CompletionPropagator) inconsistent(op string, result *CompletionResult, cause error) error {
	ids := make([]string, 0, len(result.Failed))
	for _, g := range result.Failed {
		ids = append(ids, string(g.ID))
	}
	logEvent(p.logger, LevelError, EventCascadeInconsistent, map[string]any{
		"operation":     "completing",
		"task_id":       string(result.Task.ID),
		"task_name":     result.Task.Info.Name,
		"goal_ids":      strings.Join(ids, ","),
		"goals_updated": len(result.Progressed),
		"error":         cause.Error(),
	})
	return models.DependencyUpdateFailed(op, cause,
		"task %q was completed but %d goal(s) could not record progress (%d updated)",
		result.Task.Info.Name, len(result.Failed), len(result.Progressed))
}

// UndoGoalProgress reverses one recorded completion on the goal.
func (p *CompletionPropagator) UndoGoalProgress(goalID models.GoalID) (models.Goal, error) {
	if goalID == "" {
		return models.Goal{}, models.InvalidArgument("undoing goal progress", "goal id is required")
	}
	goal, changed, err := p.goals.UndoProgress(goalID)
	if err != nil {
		return models.Goal{}, err
	}
	if changed {
		logEvent(p.logger, LevelInfo, EventGoalProgressUndone, map[string]any{
			"goal_id":   string(goal.ID),
			"goal_name": goal.Name(),
			"progress":  goal.Progress,
		})
	}
	return goal, nil
}

// targetingGoals returns the goals targeting the task, plus those targeting
// its template when the task is a today instance, without duplicates.
func (p *CompletionPropagator) targetingGoals(task *models.Task) []models.Goal {
	goals := p.goals.GoalsTargeting(task.ID)
	if task.TemplateID == "" {
		return goals
	}
	seen := make(map[models.GoalID]bool, len(goals))
	for _, g := range goals {
		seen[g.ID] = true
	}
	for _, g := range p.goals.GoalsTargeting(task.TemplateID) {
		if !seen[g.ID] {
			goals = append(goals, g)
		}
	}
	return goals
}
