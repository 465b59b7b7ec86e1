package core

import "github.com/valter-silva-au/dayplan/pkg/models"

// The collaborator interfaces below are defined locally in core to avoid
// importing storage. Each call either applies fully or fails without effect.

// TaskStore provides access to tasks in both the available and today scopes.
// GetTask returns (nil, nil) when the id does not resolve.
type TaskStore interface {
	AddTask(task models.Task) error
	GetTask(id models.TaskID) (*models.Task, error)
	ListTasks(scope models.Scope) ([]models.Task, error)
	TasksByCategory(categoryID models.CategoryID) ([]models.Task, error)
	UpdateTaskCategory(id models.TaskID, categoryID models.CategoryID) error
	SaveTask(task models.Task) error
	TodayInstances(templateID models.TaskID) ([]models.Task, error)
	// DeleteTaskTree removes the task and every today instance derived from
	// it in one step and returns how many records were removed.
	DeleteTaskTree(id models.TaskID) (int, error)
}

// CategoryStore provides access to categories. GetCategory returns
// (nil, nil) when the id does not resolve.
type CategoryStore interface {
	AddCategory(category models.Category) error
	GetCategory(id models.CategoryID) (*models.Category, error)
	ListCategories() ([]models.Category, error)
	Count() (int, error)
	UpdateCategory(category models.Category) error
	DeleteCategory(id models.CategoryID) error
	// NameTaken reports whether another category (not excludeID) already
	// uses name, ignoring case.
	NameTaken(name string, excludeID models.CategoryID) (bool, error)
}

// EventStore is the minimal event contract the cascade needs.
type EventStore interface {
	AddEvent(event models.Event) error
	ListEvents() ([]models.Event, error)
	EventsByCategory(categoryID models.CategoryID) ([]models.Event, error)
	ClearEventCategory(id models.EventID) error
}

// GoalPersister receives the full goal set after every GoalStore mutation.
type GoalPersister interface {
	SaveGoals(goals []models.Goal) error
}

// AchievementNotifier is told about goals achieved in a period that just ended.
type AchievementNotifier interface {
	NotifyAchieved(goals []models.Goal) error
}
