package models

import (
	"fmt"
	"strings"
	"time"
)

// Priority represents the urgency level of a task.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// ParsePriority accepts a priority name in any case.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToUpper(strings.TrimSpace(s))); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	case "":
		return PriorityMedium, nil
	default:
		return "", InvalidArgument("parse priority", "priority %q must be one of LOW, MEDIUM, HIGH", s)
	}
}

// Scope is the pool a task lives in.
type Scope string

const (
	ScopeAvailable Scope = "available"
	ScopeToday     Scope = "today"
)

// Task is a schedulable unit of work. A task with an empty TemplateID is a
// template in the available scope; otherwise it is a today-scope instance
// derived from the template with that id.
type Task struct {
	ID          TaskID           `yaml:"id"`
	Info        Info             `yaml:"info"`
	Dates       BeginAndDueDates `yaml:"dates"`
	Priority    Priority         `yaml:"priority"`
	IsComplete  bool             `yaml:"is_complete"`
	CompletedAt *time.Time       `yaml:"completed_at,omitempty"`
	TemplateID  TaskID           `yaml:"template_id,omitempty"`
}

// Scope reports which pool the task belongs to.
func (t *Task) Scope() Scope {
	if t.TemplateID != "" {
		return ScopeToday
	}
	return ScopeAvailable
}

// Complete marks the task complete at the given instant. Completion is
// one-way: it returns false and changes nothing if the task is already complete.
func (t *Task) Complete(at time.Time) bool {
	if t.IsComplete {
		return false
	}
	ts := at
	t.IsComplete = true
	t.CompletedAt = &ts
	return true
}

// Instantiate derives a today-scope instance from a template.
func (t *Task) Instantiate(id TaskID) (Task, error) {
	if t.TemplateID != "" {
		return Task{}, InvalidArgument("instantiate task", "task %s is already a today instance", t.ID)
	}
	inst := t.Clone()
	inst.ID = id
	inst.Info.ID = NewInfoID()
	inst.TemplateID = t.ID
	inst.IsComplete = false
	inst.CompletedAt = nil
	return inst, nil
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	t.Dates = t.Dates.clone()
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		t.CompletedAt = &at
	}
	return t
}

func (t Task) String() string {
	return fmt.Sprintf("%s (%s)", t.Info.Name, t.ID)
}
