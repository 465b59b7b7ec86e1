package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

func TestTaskCmd_Subcommands(t *testing.T) {
	want := map[string]bool{"create": false, "schedule": false, "list": false, "complete": false, "delete": false}
	for _, sub := range taskCmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("task %s subcommand not registered", name)
		}
	}
}

func TestTaskCommands_NilServices(t *testing.T) {
	origTasks, origCompletion, origCascade := TaskMgr, Completion, Cascade
	defer func() { TaskMgr, Completion, Cascade = origTasks, origCompletion, origCascade }()
	TaskMgr, Completion, Cascade = nil, nil, nil

	cases := []struct {
		name string
		run  func() error
	}{
		{"create", func() error { return taskCreateCmd.RunE(taskCreateCmd, []string{"Run"}) }},
		{"schedule", func() error { return taskScheduleCmd.RunE(taskScheduleCmd, []string{"x"}) }},
		{"list", func() error { return taskListCmd.RunE(taskListCmd, nil) }},
		{"complete", func() error { return taskCompleteCmd.RunE(taskCompleteCmd, []string{"x"}) }},
		{"delete", func() error { return taskDeleteCmd.RunE(taskDeleteCmd, []string{"x"}) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run()
			if err == nil || !strings.Contains(err.Error(), "not initialized") {
				t.Errorf("expected not initialized error, got %v", err)
			}
		})
	}
}

func TestTaskCreate_Success(t *testing.T) {
	fx := useWorkspace(t)
	setFlags(t, taskCreateCmd, map[string]string{
		"category": string(fx.category.ID),
		"priority": "high",
		"begin":    "2025-06-03",
		"due":      "2025-06-05",
	})

	out := captureStdout(t, func() {
		if err := taskCreateCmd.RunE(taskCreateCmd, []string{"Stretch"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
	if !strings.Contains(out, "Priority: HIGH") {
		t.Errorf("expected HIGH priority in output:\n%s", out)
	}
	if !strings.Contains(out, "2025-06-03 .. 2025-06-05") {
		t.Errorf("expected window in output:\n%s", out)
	}

	tasks, err := TaskMgr.ListTasks(models.ScopeAvailable)
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 2 {
		t.Errorf("expected 2 available tasks, got %d", len(tasks))
	}
}

func TestTaskCreate_InvalidInput(t *testing.T) {
	useWorkspace(t)

	t.Run("priority", func(t *testing.T) {
		setFlags(t, taskCreateCmd, map[string]string{"priority": "urgent"})
		err := taskCreateCmd.RunE(taskCreateCmd, []string{"Stretch"})
		if !errors.Is(err, models.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
	t.Run("date", func(t *testing.T) {
		setFlags(t, taskCreateCmd, map[string]string{"due": "06/05/2025"})
		err := taskCreateCmd.RunE(taskCreateCmd, []string{"Stretch"})
		if err == nil || !strings.Contains(err.Error(), "--due") {
			t.Errorf("expected --due parse error, got %v", err)
		}
	})
	t.Run("unknown category", func(t *testing.T) {
		setFlags(t, taskCreateCmd, map[string]string{"category": "missing"})
		err := taskCreateCmd.RunE(taskCreateCmd, []string{"Stretch"})
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestTaskScheduleAndListToday(t *testing.T) {
	fx := useWorkspace(t)

	captureStdout(t, func() {
		if err := taskScheduleCmd.RunE(taskScheduleCmd, []string{string(fx.task.ID)}); err != nil {
			t.Fatalf("schedule: %v", err)
		}
	})

	origToday := taskListToday
	defer func() { taskListToday = origToday }()
	taskListToday = true

	out := captureStdout(t, func() {
		if err := taskListCmd.RunE(taskListCmd, nil); err != nil {
			t.Fatalf("list: %v", err)
		}
	})
	if !strings.Contains(out, "Run") {
		t.Errorf("expected scheduled instance in today list:\n%s", out)
	}
}

func TestTaskComplete_AdvancesGoal(t *testing.T) {
	fx := useWorkspace(t)

	out := captureStdout(t, func() {
		if err := taskCompleteCmd.RunE(taskCompleteCmd, []string{string(fx.task.ID)}); err != nil {
			t.Fatalf("complete: %v", err)
		}
	})
	if !strings.Contains(out, "1/2") {
		t.Errorf("expected progress 1/2 in output:\n%s", out)
	}
	if g := storedGoal(t, fx.goal.ID); g.Progress != 1 {
		t.Errorf("goal progress = %d, want 1", g.Progress)
	}

	out = captureStdout(t, func() {
		if err := taskCompleteCmd.RunE(taskCompleteCmd, []string{string(fx.task.ID)}); err != nil {
			t.Fatalf("second complete: %v", err)
		}
	})
	if !strings.Contains(out, "already complete") {
		t.Errorf("expected already complete message:\n%s", out)
	}
	if g := storedGoal(t, fx.goal.ID); g.Progress != 1 {
		t.Errorf("completing twice changed progress to %d", g.Progress)
	}
}

func TestTaskComplete_OutsideWindow(t *testing.T) {
	fx := useWorkspace(t)
	setFlags(t, taskCompleteCmd, map[string]string{"on": "2025-06-20"})

	out := captureStdout(t, func() {
		if err := taskCompleteCmd.RunE(taskCompleteCmd, []string{string(fx.task.ID)}); err != nil {
			t.Fatalf("complete: %v", err)
		}
	})
	if !strings.Contains(out, "outside its window") {
		t.Errorf("expected out-of-window note:\n%s", out)
	}
	if g := storedGoal(t, fx.goal.ID); g.Progress != 0 {
		t.Errorf("goal progressed outside its window: %d", g.Progress)
	}
}

func TestTaskComplete_NotFound(t *testing.T) {
	useWorkspace(t)
	err := taskCompleteCmd.RunE(taskCompleteCmd, []string{"missing"})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTaskDelete_RequiresConfirmation(t *testing.T) {
	fx := useWorkspace(t)
	if _, err := TaskMgr.ScheduleToday(fx.task.ID); err != nil {
		t.Fatal(err)
	}

	out := captureStdout(t, func() {
		if err := taskDeleteCmd.RunE(taskDeleteCmd, []string{string(fx.task.ID)}); err != nil {
			t.Fatalf("delete: %v", err)
		}
	})
	if !strings.Contains(out, "--yes") {
		t.Errorf("expected confirmation prompt:\n%s", out)
	}
	if Goals.Len() != 1 {
		t.Fatal("unconfirmed delete removed the goal")
	}

	setFlags(t, taskDeleteCmd, map[string]string{"yes": "true"})
	out = captureStdout(t, func() {
		if err := taskDeleteCmd.RunE(taskDeleteCmd, []string{string(fx.task.ID)}); err != nil {
			t.Fatalf("confirmed delete: %v", err)
		}
	})
	if !strings.Contains(out, "2 record(s)") {
		t.Errorf("expected template and instance deleted:\n%s", out)
	}
	if !strings.Contains(out, "removed goal Run twice") {
		t.Errorf("expected orphaned goal removed:\n%s", out)
	}
	if Goals.Len() != 0 {
		t.Errorf("expected goal removed, %d left", Goals.Len())
	}
}

func TestCompletePriorities(t *testing.T) {
	values, _ := completePriorities(nil, nil, "")
	if len(values) != 3 {
		t.Fatalf("expected 3 priorities, got %d", len(values))
	}
	for _, v := range values {
		name, _, _ := strings.Cut(v, "\t")
		if _, err := models.ParsePriority(name); err != nil {
			t.Errorf("completion offers invalid priority %q", name)
		}
	}
}
