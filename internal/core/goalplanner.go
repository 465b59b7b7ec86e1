package core

import (
	"fmt"
	"time"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

// GoalPlanParams holds the inputs for creating a goal. A zero Begin means
// today; a nil Due means one full period from Begin.
type GoalPlanParams struct {
	Name         string
	Description  string
	TargetTaskID models.TaskID
	Period       models.Period
	Frequency    int
	Begin        time.Time
	Due          *time.Time
}

// GoalPlanner creates goals against existing tasks.
type GoalPlanner interface {
	CreateGoal(params GoalPlanParams) (*models.Goal, error)
}

type goalPlanner struct {
	tasks  TaskStore
	goals  *GoalStore
	logger EventLogger
	now    func() time.Time
}

// NewGoalPlanner creates a GoalPlanner. logger may be nil.
func NewGoalPlanner(tasks TaskStore, goals *GoalStore, logger EventLogger) GoalPlanner {
	return &goalPlanner{tasks: tasks, goals: goals, logger: logger, now: time.Now}
}

// CreateGoal validates that the target task exists, builds the goal window
// and adds the goal to the store. The goal inherits the target task's
// category.
func (gp *goalPlanner) CreateGoal(params GoalPlanParams) (*models.Goal, error) {
	const op = "creating goal"
	if params.TargetTaskID == "" {
		return nil, models.InvalidArgument(op, "target task is required")
	}
	target, err := gp.tasks.GetTask(params.TargetTaskID)
	if err != nil {
		return nil, fmt.Errorf("%s: resolving target %s: %w", op, params.TargetTaskID, err)
	}
	if target == nil {
		return nil, models.NotFound(op, "target task %s not found", params.TargetTaskID)
	}

	now := gp.now()
	info, err := models.NewInfo(params.Name, params.Description, target.Info.CategoryID, now)
	if err != nil {
		return nil, err
	}
	period := params.Period
	if period == "" {
		period = models.PeriodWeek
	}
	begin := params.Begin
	if begin.IsZero() {
		begin = now
	}
	var window models.BeginAndDueDates
	if params.Due == nil {
		window = period.WindowFrom(begin)
	} else if window, err = models.NewBeginAndDueDates(begin, params.Due); err != nil {
		return nil, err
	}

	goal, err := models.NewGoal(models.GoalParams{
		Info:         info,
		TargetTaskID: target.ID,
		Window:       window,
		Period:       period,
		Frequency:    params.Frequency,
	})
	if err != nil {
		return nil, err
	}
	if err := gp.goals.Add(*goal); err != nil {
		return nil, err
	}
	logEvent(gp.logger, LevelInfo, EventGoalCreated, map[string]any{
		"goal_id":   string(goal.ID),
		"goal_name": goal.Name(),
		"target":    string(goal.GoalInfo.TargetTaskID),
		"period":    string(goal.Period),
		"frequency": goal.Frequency,
	})
	return goal, nil
}
