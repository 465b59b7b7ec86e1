package models

import (
	"strings"
	"time"
)

// Period is the recurrence of a goal.
type Period string

const (
	PeriodWeek  Period = "WEEK"
	PeriodMonth Period = "MONTH"
)

// ParsePeriod accepts WEEK/MONTH in any case, plus weekly/monthly.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "WEEK", "WEEKLY":
		return PeriodWeek, nil
	case "MONTH", "MONTHLY":
		return PeriodMonth, nil
	default:
		return "", InvalidArgument("parse period", "period %q must be WEEK or MONTH", s)
	}
}

// After returns day advanced by one period.
func (p Period) After(day time.Time) time.Time {
	day = DateOf(day)
	if p == PeriodMonth {
		return day.AddDate(0, 1, 0)
	}
	return day.AddDate(0, 0, 7)
}

// WindowFrom returns the active window of one period starting at day.
func (p Period) WindowFrom(day time.Time) BeginAndDueDates {
	begin := DateOf(day)
	due := p.After(begin).AddDate(0, 0, -1)
	return BeginAndDueDates{Begin: begin, Due: &due}
}

// GoalInfo is the goal's metadata plus the id of the task that advances it.
type GoalInfo struct {
	Info         Info   `yaml:"info"`
	TargetTaskID TaskID `yaml:"target_task_id"`
}

// Goal is a recurring target: complete TargetTaskID Frequency times within
// the active window.
//
// Invariants: Progress >= 0; IsCompleted implies Progress >= Frequency;
// CompletedAt is set exactly when IsCompleted.
type Goal struct {
	ID          GoalID           `yaml:"id"`
	GoalInfo    GoalInfo         `yaml:"goal_info"`
	Window      BeginAndDueDates `yaml:"window"`
	Period      Period           `yaml:"period"`
	Frequency   int              `yaml:"frequency"`
	Progress    int              `yaml:"progress"`
	IsCompleted bool             `yaml:"is_completed"`
	CompletedAt *time.Time       `yaml:"completed_at,omitempty"`
}

// GoalParams holds the inputs to NewGoal.
type GoalParams struct {
	ID           GoalID
	Info         Info
	TargetTaskID TaskID
	Window       BeginAndDueDates
	Period       Period
	Frequency    int
}

// NewGoal validates params and returns a goal with zero progress.
func NewGoal(p GoalParams) (*Goal, error) {
	const op = "new goal"
	if strings.TrimSpace(p.Info.Name) == "" {
		return nil, InvalidArgument(op, "name must not be empty")
	}
	if p.TargetTaskID == "" {
		return nil, InvalidArgument(op, "target task is required")
	}
	if p.Window.Begin.IsZero() {
		return nil, InvalidArgument(op, "window begin date is required")
	}
	if p.Window.Due != nil && p.Window.Due.Before(p.Window.Begin) {
		return nil, InvalidArgument(op, "window due date is before its begin date")
	}
	if p.Period != PeriodWeek && p.Period != PeriodMonth {
		return nil, InvalidArgument(op, "period %q must be WEEK or MONTH", p.Period)
	}
	if p.Frequency < 0 {
		return nil, InvalidArgument(op, "frequency must be non-negative, got %d", p.Frequency)
	}
	id := p.ID
	if id == "" {
		id = NewGoalID()
	}
	return &Goal{
		ID:        id,
		GoalInfo:  GoalInfo{Info: p.Info, TargetTaskID: p.TargetTaskID},
		Window:    p.Window.clone(),
		Period:    p.Period,
		Frequency: p.Frequency,
	}, nil
}

// Name is shorthand for the goal's display name.
func (g *Goal) Name() string { return g.GoalInfo.Info.Name }

// Targets reports whether completing taskID can advance the goal.
func (g *Goal) Targets(taskID TaskID) bool {
	return taskID != "" && g.GoalInfo.TargetTaskID == taskID
}

// Accepts reports whether a completion at instant at falls inside the
// active window.
func (g *Goal) Accepts(at time.Time) bool {
	return g.Window.Contains(at)
}

// AvailableOn reports whether the goal is still open and active on day.
func (g *Goal) AvailableOn(day time.Time) bool {
	return !g.IsCompleted && g.Window.Contains(day)
}

// RecordProgress counts one completion of the target task at instant at.
// Completions outside the window, or on an already completed goal, are
// ignored. Reaching Frequency marks the goal completed at that instant.
func (g *Goal) RecordProgress(at time.Time) bool {
	if g.IsCompleted || !g.Accepts(at) {
		return false
	}
	g.Progress++
	if g.Progress >= g.Frequency {
		ts := at
		g.IsCompleted = true
		g.CompletedAt = &ts
	}
	return true
}

// UndoProgress reverses one completion, never going below zero. Dropping
// under Frequency reopens a completed goal.
func (g *Goal) UndoProgress() bool {
	if g.Progress == 0 {
		return false
	}
	g.Progress--
	if g.IsCompleted && g.Progress < g.Frequency {
		g.IsCompleted = false
		g.CompletedAt = nil
	}
	return true
}

// Rollover moves the goal into a new one-week window starting today.
// With resetProgress the new period starts from zero; otherwise progress
// carries forward and only the completion flag is cleared.
func (g *Goal) Rollover(today time.Time, resetProgress bool) {
	g.Window = Span(today, 6)
	if resetProgress {
		g.Progress = 0
	}
	g.IsCompleted = false
	g.CompletedAt = nil
}

// ExpiredCompleted reports whether the goal is completed and its window
// began more than one period before today.
func (g *Goal) ExpiredCompleted(today time.Time) bool {
	return g.IsCompleted && g.Period.After(g.Window.Begin).Before(DateOf(today))
}

// Clone returns a deep copy of the goal.
func (g Goal) Clone() Goal {
	g.Window = g.Window.clone()
	if g.CompletedAt != nil {
		at := *g.CompletedAt
		g.CompletedAt = &at
	}
	return g
}
