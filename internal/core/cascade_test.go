package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

type cascadeFixture struct {
	tasks      *inMemoryTasks
	categories *inMemoryCategories
	events     *inMemoryEvents
	goals      *GoalStore
	logger     *recordingLogger
	cascade    *IntegrityCascade
}

func newCascadeFixture(policy CascadePolicy) *cascadeFixture {
	f := &cascadeFixture{
		tasks:      newInMemoryTasks(),
		categories: newInMemoryCategories(),
		events:     newInMemoryEvents(),
		goals:      NewGoalStore(nil),
		logger:     &recordingLogger{},
	}
	f.cascade = NewIntegrityCascade(f.tasks, f.categories, f.events, f.goals, policy, f.logger)
	return f
}

func (f *cascadeFixture) addCategory(t *testing.T, name string) models.Category {
	t.Helper()
	c, err := models.NewCategory(name)
	require.NoError(t, err)
	require.NoError(t, f.categories.AddCategory(c))
	return c
}

func TestDeleteCategory_ClearsReferencesSoftly(t *testing.T) {
	f := newCascadeFixture(DefaultCascadePolicy())
	_ = f.addCategory(t, "General")
	work := f.addCategory(t, "Work")

	template := testTask("Report", work.ID)
	require.NoError(t, f.tasks.AddTask(template))
	inst, err := template.Instantiate(models.NewTaskID())
	require.NoError(t, err)
	require.NoError(t, f.tasks.AddTask(inst))
	require.NoError(t, f.tasks.AddTask(testTask("Email", work.ID)))
	require.NoError(t, f.events.AddEvent(models.Event{
		ID:   models.NewEventID(),
		Info: models.Info{Name: "Standup", CategoryID: work.ID},
	}))

	res, err := f.cascade.DeleteCategory(work.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, res.TasksUpdated)
	assert.Equal(t, 1, res.EventsUpdated)
	assert.Equal(t, "Work", res.Category.Name)

	remaining, _ := f.tasks.TasksByCategory(work.ID)
	assert.Empty(t, remaining)
	uncategorized, _ := f.tasks.TasksByCategory("")
	assert.Len(t, uncategorized, 3)
	events, _ := f.events.EventsByCategory(work.ID)
	assert.Empty(t, events)
	all, _ := f.events.ListEvents()
	require.Len(t, all, 1)
	assert.True(t, all[0].Info.Uncategorized())

	gone, _ := f.categories.GetCategory(work.ID)
	assert.Nil(t, gone)
	assert.Equal(t, 1, f.logger.count(EventCategoryDeleted))
}

func TestDeleteCategory_MinimumGuard(t *testing.T) {
	f := newCascadeFixture(DefaultCascadePolicy())
	only := f.addCategory(t, "Only")
	require.NoError(t, f.tasks.AddTask(testTask("Task", only.ID)))

	_, err := f.cascade.DeleteCategory(only.ID)
	require.ErrorIs(t, err, models.ErrPolicyViolation)

	count, _ := f.categories.Count()
	assert.Equal(t, 1, count)
	tasks, _ := f.tasks.TasksByCategory(only.ID)
	assert.Len(t, tasks, 1, "no task may be updated when the guard rejects")
}

func TestDeleteCategory_NotFound(t *testing.T) {
	f := newCascadeFixture(DefaultCascadePolicy())
	_, err := f.cascade.DeleteCategory("missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = f.cascade.DeleteCategory("")
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestDeleteCategory_DependencyFailureIsSurfaced(t *testing.T) {
	f := newCascadeFixture(DefaultCascadePolicy())
	_ = f.addCategory(t, "General")
	work := f.addCategory(t, "Work")
	first := testTask("First", work.ID)
	second := testTask("Second", work.ID)
	require.NoError(t, f.tasks.AddTask(first))
	require.NoError(t, f.tasks.AddTask(second))
	f.tasks.failCategoryUpdateOn = second.ID

	res, err := f.cascade.DeleteCategory(work.ID)
	require.ErrorIs(t, err, models.ErrDependencyUpdateFailed)
	require.NotNil(t, res)
	assert.Equal(t, 1, res.TasksUpdated)

	still, _ := f.categories.GetCategory(work.ID)
	assert.NotNil(t, still, "category must not be deleted after a failed dependent update")
	require.Equal(t, 1, f.logger.count(EventCascadeInconsistent))
	for _, e := range f.logger.entries {
		if e.Type == EventCascadeInconsistent {
			assert.Equal(t, LevelError, e.Level)
		}
	}
}

func TestDeleteTask_RequiresConfirmationWhenInBothScopes(t *testing.T) {
	f := newCascadeFixture(DefaultCascadePolicy())
	template := testTask("Gym", "")
	require.NoError(t, f.tasks.AddTask(template))
	inst, _ := template.Instantiate(models.NewTaskID())
	require.NoError(t, f.tasks.AddTask(inst))

	res, err := f.cascade.DeleteTask(template.ID, false)
	require.NoError(t, err)
	assert.Equal(t, OutcomeConfirmationRequired, res.Outcome)
	assert.True(t, res.ExistsInToday)
	assert.Equal(t, "Gym", res.Task.Info.Name)
	assert.Equal(t, 0, f.tasks.treeDeletes)
	available, _ := f.tasks.ListTasks(models.ScopeAvailable)
	today, _ := f.tasks.ListTasks(models.ScopeToday)
	assert.Len(t, available, 1)
	assert.Len(t, today, 1)

	res, err = f.cascade.DeleteTask(template.ID, true)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDeleted, res.Outcome)
	assert.Equal(t, 2, res.Removed)
	assert.Equal(t, 1, f.tasks.treeDeletes, "template and instances go in one store call")
	available, _ = f.tasks.ListTasks(models.ScopeAvailable)
	today, _ = f.tasks.ListTasks(models.ScopeToday)
	assert.Empty(t, available)
	assert.Empty(t, today)
}

func TestDeleteTask_SingleScopeNeedsNoConfirmation(t *testing.T) {
	f := newCascadeFixture(DefaultCascadePolicy())
	task := testTask("Solo", "")
	require.NoError(t, f.tasks.AddTask(task))

	res, err := f.cascade.DeleteTask(task.ID, false)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDeleted, res.Outcome)
	assert.Equal(t, 1, res.Removed)
}

func TestDeleteTask_TodayInstanceRemovesOnlyItself(t *testing.T) {
	f := newCascadeFixture(DefaultCascadePolicy())
	template := testTask("Gym", "")
	require.NoError(t, f.tasks.AddTask(template))
	inst, _ := template.Instantiate(models.NewTaskID())
	require.NoError(t, f.tasks.AddTask(inst))

	res, err := f.cascade.DeleteTask(inst.ID, false)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDeleted, res.Outcome)
	assert.Equal(t, 1, res.Removed)
	kept, _ := f.tasks.GetTask(template.ID)
	assert.NotNil(t, kept)
}

func TestDeleteTask_OrphanPolicies(t *testing.T) {
	tests := []struct {
		name        string
		policy      models.OrphanPolicy
		wantErr     error
		wantGoals   int
		wantRemoved int
		wantOrphans int
	}{
		{name: "remove", policy: models.OrphanRemove, wantGoals: 0, wantRemoved: 1},
		{name: "keep", policy: models.OrphanKeep, wantGoals: 1, wantOrphans: 1},
		{name: "block", policy: models.OrphanBlock, wantErr: models.ErrPolicyViolation, wantGoals: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCascadeFixture(CascadePolicy{MinCategories: 1, Orphans: tt.policy})
			task := testTask("Gym", "")
			require.NoError(t, f.tasks.AddTask(task))
			require.NoError(t, f.goals.Add(testGoal("Gym 3x", task.ID, "2025-01-06", "2025-01-12", 3)))

			res, err := f.cascade.DeleteTask(task.ID, true)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				stored, _ := f.tasks.GetTask(task.ID)
				assert.NotNil(t, stored, "blocked deletion must not remove the task")
			} else {
				require.NoError(t, err)
				assert.Len(t, res.TargetingGoals, 1)
				assert.Len(t, res.RemovedGoals, tt.wantRemoved)
				assert.Len(t, res.OrphanedGoals, tt.wantOrphans)
			}
			assert.Equal(t, tt.wantGoals, f.goals.Len())
		})
	}
}

func TestDeleteTask_OrphanPolicyCoversInstanceTargets(t *testing.T) {
	tests := []struct {
		policy      models.OrphanPolicy
		wantErr     error
		wantGoals   int
		wantRemoved int
		wantOrphans int
	}{
		{policy: models.OrphanRemove, wantGoals: 0, wantRemoved: 2},
		{policy: models.OrphanKeep, wantGoals: 2, wantOrphans: 2},
		{policy: models.OrphanBlock, wantErr: models.ErrPolicyViolation, wantGoals: 2},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			f := newCascadeFixture(CascadePolicy{MinCategories: 1, Orphans: tt.policy})
			template := testTask("Gym", "")
			require.NoError(t, f.tasks.AddTask(template))
			inst, _ := template.Instantiate(models.NewTaskID())
			require.NoError(t, f.tasks.AddTask(inst))
			require.NoError(t, f.goals.Add(testGoal("Gym 3x", template.ID, "2025-01-06", "2025-01-12", 3)))
			require.NoError(t, f.goals.Add(testGoal("Gym today", inst.ID, "2025-01-06", "2025-01-12", 1)))
			require.NoError(t, f.goals.Add(testGoal("Read", "other-task", "2025-01-06", "2025-01-12", 1)))

			res, err := f.cascade.DeleteTask(template.ID, true)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				stored, _ := f.tasks.GetTask(inst.ID)
				assert.NotNil(t, stored, "blocked deletion must not remove the instance")
			} else {
				require.NoError(t, err)
				assert.Equal(t, 2, res.Removed)
				assert.Len(t, res.TargetingGoals, 2)
				assert.Len(t, res.RemovedGoals, tt.wantRemoved)
				assert.Len(t, res.OrphanedGoals, tt.wantOrphans)
			}
			assert.Equal(t, tt.wantGoals+1, f.goals.Len(), "unrelated goals are untouched")

			if tt.policy == models.OrphanRemove {
				for _, g := range f.goals.AllGoals() {
					stored, _ := f.tasks.GetTask(g.GoalInfo.TargetTaskID)
					assert.Falsef(t, stored == nil && g.GoalInfo.TargetTaskID != "other-task",
						"goal %q targets deleted task %s", g.Name(), g.GoalInfo.TargetTaskID)
				}
			}
		})
	}
}

func TestDeleteTask_NotFound(t *testing.T) {
	f := newCascadeFixture(DefaultCascadePolicy())
	_, err := f.cascade.DeleteTask("missing", true)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
