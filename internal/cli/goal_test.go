package cli

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

func TestGoalCreate_Success(t *testing.T) {
	fx := useWorkspace(t)
	setFlags(t, goalCreateCmd, map[string]string{
		"target":    string(fx.task.ID),
		"frequency": "3",
		"period":    "monthly",
		"begin":     "2025-06-01",
	})

	out := captureStdout(t, func() {
		if err := goalCreateCmd.RunE(goalCreateCmd, []string{"Run a lot"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
	if !strings.Contains(out, "x3 per MONTH") {
		t.Errorf("expected target summary:\n%s", out)
	}
	// A missing --due spans one full period.
	if !strings.Contains(out, "2025-06-01 .. 2025-06-30") {
		t.Errorf("expected one-month window:\n%s", out)
	}
	if Goals.Len() != 2 {
		t.Errorf("expected 2 goals, got %d", Goals.Len())
	}
}

func TestGoalCreate_UnknownTarget(t *testing.T) {
	useWorkspace(t)
	setFlags(t, goalCreateCmd, map[string]string{"target": "missing"})

	err := goalCreateCmd.RunE(goalCreateCmd, []string{"Phantom"})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGoalCreate_InvalidPeriod(t *testing.T) {
	fx := useWorkspace(t)
	setFlags(t, goalCreateCmd, map[string]string{"target": string(fx.task.ID), "period": "daily"})

	err := goalCreateCmd.RunE(goalCreateCmd, []string{"Daily"})
	if !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestGoalList(t *testing.T) {
	useWorkspace(t)

	out := captureStdout(t, func() {
		if err := goalListCmd.RunE(goalListCmd, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
	if !strings.Contains(out, "Run twice") || !strings.Contains(out, "0/2") {
		t.Errorf("expected goal line:\n%s", out)
	}
}

func TestGoalList_AvailableFiltersByToday(t *testing.T) {
	useWorkspace(t)
	now = func() time.Time { return sunday.AddDate(0, 0, 2) }

	origAvailable := goalListAvailable
	defer func() { goalListAvailable = origAvailable }()
	goalListAvailable = true

	out := captureStdout(t, func() {
		if err := goalListCmd.RunE(goalListCmd, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
	if !strings.Contains(out, "No goals.") {
		t.Errorf("expected no goals available after the window:\n%s", out)
	}
}

func TestGoalUndo(t *testing.T) {
	fx := useWorkspace(t)
	if _, err := Completion.CompleteTask(fx.task.ID, monday.Add(10*time.Hour)); err != nil {
		t.Fatal(err)
	}

	out := captureStdout(t, func() {
		if err := goalUndoCmd.RunE(goalUndoCmd, []string{string(fx.goal.ID)}); err != nil {
			t.Fatalf("undo: %v", err)
		}
	})
	if !strings.Contains(out, "0/2") {
		t.Errorf("expected progress back at 0:\n%s", out)
	}

	// Undo at zero stays at zero.
	captureStdout(t, func() {
		if err := goalUndoCmd.RunE(goalUndoCmd, []string{string(fx.goal.ID)}); err != nil {
			t.Fatalf("undo at zero: %v", err)
		}
	})
	if g := storedGoal(t, fx.goal.ID); g.Progress != 0 {
		t.Errorf("progress = %d, want 0", g.Progress)
	}
}

func TestGoalCommands_NilServices(t *testing.T) {
	origPlanner, origGoals, origCompletion := GoalPlanner, Goals, Completion
	defer func() { GoalPlanner, Goals, Completion = origPlanner, origGoals, origCompletion }()
	GoalPlanner, Goals, Completion = nil, nil, nil

	for _, err := range []error{
		goalCreateCmd.RunE(goalCreateCmd, []string{"x"}),
		goalListCmd.RunE(goalListCmd, nil),
		goalUndoCmd.RunE(goalUndoCmd, []string{"x"}),
	} {
		if err == nil || !strings.Contains(err.Error(), "not initialized") {
			t.Errorf("expected not initialized error, got %v", err)
		}
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		progress, frequency int
		want                string
	}{
		{0, 2, "[..........]"},
		{1, 2, "[#####.....]"},
		{2, 2, "[##########]"},
		{5, 2, "[##########]"},
		{0, 0, "[##########]"},
	}
	for _, tt := range tests {
		if got := progressBar(tt.progress, tt.frequency); got != tt.want {
			t.Errorf("progressBar(%d, %d) = %s, want %s", tt.progress, tt.frequency, got, tt.want)
		}
	}
}
