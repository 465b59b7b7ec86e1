package models

import "github.com/google/uuid"

// TaskID identifies a task in either scope.
type TaskID string

// CategoryID identifies a category. The empty value means uncategorized.
type CategoryID string

// GoalID identifies a goal.
type GoalID string

// EventID identifies an event.
type EventID string

// NewTaskID returns a fresh random task id.
func NewTaskID() TaskID { return TaskID(uuid.NewString()) }

// NewCategoryID returns a fresh random category id.
func NewCategoryID() CategoryID { return CategoryID(uuid.NewString()) }

// NewGoalID returns a fresh random goal id.
func NewGoalID() GoalID { return GoalID(uuid.NewString()) }

// NewEventID returns a fresh random event id.
func NewEventID() EventID { return EventID(uuid.NewString()) }

// NewInfoID returns a fresh random identifier for an Info record.
func NewInfoID() string { return uuid.NewString() }
