package core

import (
	"fmt"
	"time"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

// RolloverReport summarises one maintenance pass.
type RolloverReport struct {
	Day time.Time
	// Achieved holds goals that were completed when their period ended,
	// captured before they were rolled over.
	Achieved   []models.Goal
	RolledOver []models.Goal
	// SkippedMonthly counts expired MONTH goals left untouched.
	SkippedMonthly int
	Removed        []models.Goal
	// NotifyErr is set when the achievement notification failed. It never
	// aborts the pass.
	NotifyErr error
}

// LifecycleRoller performs the daily goal maintenance: rolling expired
// weekly goals into a new window and purging long-completed goals.
//
// MONTH goals are never rolled. They stay in place until the cleanup pass
// removes them once completed.
type LifecycleRoller struct {
	goals         *GoalStore
	notifier      AchievementNotifier
	logger        EventLogger
	resetProgress bool
}

// NewLifecycleRoller wires the roller. notifier and logger may be nil.
// resetProgress selects whether a rolled goal starts its new period at zero
// or carries its progress forward.
func NewLifecycleRoller(goals *GoalStore, notifier AchievementNotifier, logger EventLogger, resetProgress bool) *LifecycleRoller {
	return &LifecycleRoller{
		goals:         goals,
		notifier:      notifier,
		logger:        logger,
		resetProgress: resetProgress,
	}
}

// Roll moves every WEEK goal whose due day is before today into the window
// [today, today+6]. Goals that were achieved are captured before the
// rollover and announced once it has been saved, so a failed save sends
// nothing. Calling Roll again on the same day changes nothing.
func (r *LifecycleRoller) Roll(today time.Time) (*RolloverReport, error) {
	today = models.DateOf(today)
	report := &RolloverReport{Day: today}

	for _, g := range r.goals.AllGoals() {
		if !g.Window.EndsBefore(today) {
			continue
		}
		switch {
		case g.Period != models.PeriodWeek:
			report.SkippedMonthly++
		case g.IsCompleted:
			report.Achieved = append(report.Achieved, g)
		}
	}

	rolled, err := r.goals.UpdateEach(func(g *models.Goal) bool {
		if g.Period != models.PeriodWeek || !g.Window.EndsBefore(today) {
			return false
		}
		g.Rollover(today, r.resetProgress)
		return true
	})
	if err != nil {
		return report, fmt.Errorf("rolling goals over: %w", err)
	}
	report.RolledOver = rolled
	for _, g := range rolled {
		logEvent(r.logger, LevelInfo, EventGoalRolledOver, map[string]any{
			"goal_id":   string(g.ID),
			"goal_name": g.Name(),
			"begin":     g.Window.Begin.Format(time.DateOnly),
			"progress":  g.Progress,
		})
	}

	if len(report.Achieved) > 0 && r.notifier != nil {
		if err := r.notifier.NotifyAchieved(report.Achieved); err != nil {
			report.NotifyErr = err
			logEvent(r.logger, LevelWarn, EventNotifyFailed, map[string]any{
				"goals": len(report.Achieved),
				"error": err.Error(),
			})
		}
	}
	return report, nil
}

// RemoveExpiredCompletedGoals purges completed goals whose window began more
// than one period before today. It only removes; it never resets.
func (r *LifecycleRoller) RemoveExpiredCompletedGoals(today time.Time) ([]models.Goal, error) {
	removed, err := r.goals.RemoveWhere(func(g models.Goal) bool {
		return g.ExpiredCompleted(today)
	})
	if err != nil {
		return nil, fmt.Errorf("removing expired goals: %w", err)
	}
	for _, g := range removed {
		logEvent(r.logger, LevelInfo, EventGoalRemoved, map[string]any{
			"goal_id":   string(g.ID),
			"goal_name": g.Name(),
			"reason":    "expired",
		})
	}
	return removed, nil
}

// Tick runs the daily maintenance: Roll followed by the cleanup pass.
func (r *LifecycleRoller) Tick(today time.Time) (*RolloverReport, error) {
	report, err := r.Roll(today)
	if err != nil {
		return report, err
	}
	removed, err := r.RemoveExpiredCompletedGoals(today)
	if err != nil {
		return report, err
	}
	report.Removed = removed
	return report, nil
}
