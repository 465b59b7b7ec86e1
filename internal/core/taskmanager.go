package core

import (
	"fmt"
	"time"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

// TaskParams holds the inputs for creating a template task.
type TaskParams struct {
	Name        string
	Description string
	CategoryID  models.CategoryID
	Priority    models.Priority
	Begin       time.Time
	Due         *time.Time
}

// TaskManager defines the interface for task lifecycle operations outside
// completion and deletion.
type TaskManager interface {
	CreateTask(params TaskParams) (*models.Task, error)
	ScheduleToday(templateID models.TaskID) (*models.Task, error)
	GetTask(id models.TaskID) (*models.Task, error)
	ListTasks(scope models.Scope) ([]models.Task, error)
}

// taskManager implements TaskManager over a TaskStore, validating category
// references against the CategoryStore.
type taskManager struct {
	tasks      TaskStore
	categories CategoryStore
	logger     EventLogger
	now        func() time.Time
}

// NewTaskManager creates a new TaskManager with all dependencies injected.
// logger may be nil.
func NewTaskManager(tasks TaskStore, categories CategoryStore, logger EventLogger) TaskManager {
	return &taskManager{
		tasks:      tasks,
		categories: categories,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateTask validates params and adds a new template to the available scope.
// A zero Begin defaults to today.
func (tm *taskManager) CreateTask(params TaskParams) (*models.Task, error) {
	const op = "creating task"
	now := tm.now()

	info, err := models.NewInfo(params.Name, params.Description, params.CategoryID, now)
	if err != nil {
		return nil, err
	}
	if err := checkCategory(tm.categories, op, params.CategoryID); err != nil {
		return nil, err
	}
	priority := params.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if _, err := models.ParsePriority(string(priority)); err != nil {
		return nil, err
	}
	begin := params.Begin
	if begin.IsZero() {
		begin = now
	}
	dates, err := models.NewBeginAndDueDates(begin, params.Due)
	if err != nil {
		return nil, err
	}

	task := models.Task{
		ID:       models.NewTaskID(),
		Info:     info,
		Dates:    dates,
		Priority: priority,
	}
	if err := tm.tasks.AddTask(task); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logEvent(tm.logger, LevelInfo, EventTaskCreated, map[string]any{
		"task_id":   string(task.ID),
		"task_name": task.Info.Name,
		"priority":  string(task.Priority),
	})
	return &task, nil
}

// ScheduleToday derives a today-scope instance from the template.
func (tm *taskManager) ScheduleToday(templateID models.TaskID) (*models.Task, error) {
	const op = "scheduling task"
	template, err := tm.GetTask(templateID)
	if err != nil {
		return nil, err
	}
	inst, err := template.Instantiate(models.NewTaskID())
	if err != nil {
		return nil, err
	}
	today := models.DateOf(tm.now())
	inst.Dates = models.BeginAndDueDates{Begin: today, Due: &today}
	if err := tm.tasks.AddTask(inst); err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, templateID, err)
	}
	logEvent(tm.logger, LevelInfo, EventTaskScheduled, map[string]any{
		"task_id":     string(inst.ID),
		"template_id": string(templateID),
		"task_name":   inst.Info.Name,
	})
	return &inst, nil
}

// GetTask resolves a task in either scope.
func (tm *taskManager) GetTask(id models.TaskID) (*models.Task, error) {
	const op = "getting task"
	if id == "" {
		return nil, models.InvalidArgument(op, "task id is required")
	}
	task, err := tm.tasks.GetTask(id)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, id, err)
	}
	if task == nil {
		return nil, models.NotFound(op, "task %s not found", id)
	}
	return task, nil
}

// ListTasks returns the tasks in scope.
func (tm *taskManager) ListTasks(scope models.Scope) ([]models.Task, error) {
	if scope != models.ScopeAvailable && scope != models.ScopeToday {
		return nil, models.InvalidArgument("listing tasks", "unknown scope %q", scope)
	}
	tasks, err := tm.tasks.ListTasks(scope)
	if err != nil {
		return nil, fmt.Errorf("listing %s tasks: %w", scope, err)
	}
	return tasks, nil
}

// checkCategory verifies that a non-empty category id resolves.
func checkCategory(categories CategoryStore, op string, id models.CategoryID) error {
	if id == "" {
		return nil
	}
	c, err := categories.GetCategory(id)
	if err != nil {
		return fmt.Errorf("%s: resolving category %s: %w", op, id, err)
	}
	if c == nil {
		return models.NotFound(op, "category %s not found", id)
	}
	return nil
}
