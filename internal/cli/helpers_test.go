package cli

import (
	"bytes"
	"io"
	"os"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/internal/storage"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

var (
	monday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	sunday = time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
)

// captureStdout runs fn with os.Stdout redirected and returns what it wrote.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("creating pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	defer func() {
		os.Stdout = orig
	}()
	fn()
	_ = w.Close()
	out := <-done
	_ = r.Close()
	return out
}

// setFlags sets flag values on cmd and restores the defaults when the test ends.
func setFlags(t *testing.T, cmd *cobra.Command, values map[string]string) {
	t.Helper()
	for name, value := range values {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			t.Fatalf("unknown flag --%s on %s", name, cmd.Name())
		}
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatalf("setting --%s: %v", name, err)
		}
		def := f.DefValue
		t.Cleanup(func() {
			_ = cmd.Flags().Set(name, def)
			f.Changed = false
		})
	}
}

// fixture holds the records seeded by useWorkspace.
type fixture struct {
	category *models.Category
	task     *models.Task
	goal     *models.Goal
}

// useWorkspace wires the package services over a fresh storage-backed
// workspace, seeds one category, one task and a goal to run it twice this
// week, and pins the command clock to Monday morning. Everything is
// restored when the test ends.
func useWorkspace(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	taskStore, err := storage.NewTaskStore(dir)
	if err != nil {
		t.Fatalf("task store: %v", err)
	}
	categoryStore, err := storage.NewCategoryStore(dir)
	if err != nil {
		t.Fatalf("category store: %v", err)
	}
	eventStore, err := storage.NewEventStore(dir)
	if err != nil {
		t.Fatalf("event store: %v", err)
	}
	goals := core.NewGoalStore(storage.NewGoalFileStore(dir))

	origBase, origTasks, origCategories, origEvents := BasePath, TaskMgr, CategoryMgr, EventMgr
	origPlanner, origGoals, origCompletion := GoalPlanner, Goals, Completion
	origCascade, origRoller, origNow := Cascade, Roller, now
	t.Cleanup(func() {
		BasePath, TaskMgr, CategoryMgr, EventMgr = origBase, origTasks, origCategories, origEvents
		GoalPlanner, Goals, Completion = origPlanner, origGoals, origCompletion
		Cascade, Roller, now = origCascade, origRoller, origNow
	})

	BasePath = dir
	TaskMgr = core.NewTaskManager(taskStore, categoryStore, nil)
	CategoryMgr = core.NewCategoryManager(categoryStore, nil)
	EventMgr = core.NewEventManager(eventStore, categoryStore, nil)
	GoalPlanner = core.NewGoalPlanner(taskStore, goals, nil)
	Goals = goals
	Completion = core.NewCompletionPropagator(taskStore, goals, nil)
	Cascade = core.NewIntegrityCascade(taskStore, categoryStore, eventStore, goals, core.DefaultCascadePolicy(), nil)
	Roller = core.NewLifecycleRoller(goals, nil, nil, true)
	now = func() time.Time { return monday.Add(9 * time.Hour) }

	work, err := CategoryMgr.CreateCategory("Work")
	if err != nil {
		t.Fatalf("creating category: %v", err)
	}
	task, err := TaskMgr.CreateTask(core.TaskParams{Name: "Run", CategoryID: work.ID, Begin: monday})
	if err != nil {
		t.Fatalf("creating task: %v", err)
	}
	due := sunday
	goal, err := GoalPlanner.CreateGoal(core.GoalPlanParams{
		Name:         "Run twice",
		TargetTaskID: task.ID,
		Frequency:    2,
		Begin:        monday,
		Due:          &due,
	})
	if err != nil {
		t.Fatalf("creating goal: %v", err)
	}

	return &fixture{category: work, task: task, goal: goal}
}

// storedGoal fetches the current copy of a goal from the package store.
func storedGoal(t *testing.T, id models.GoalID) models.Goal {
	t.Helper()
	g, ok := Goals.Get(id)
	if !ok {
		t.Fatalf("goal %s not found", id)
	}
	return g
}
