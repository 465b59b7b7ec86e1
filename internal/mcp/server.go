// Package mcp provides an MCP (Model Context Protocol) server that exposes
// dayplan goal tracking and referential-integrity operations as MCP tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/internal/observability"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

// GoalLister reads goals from the goal store.
type GoalLister interface {
	AllGoals() []models.Goal
	AvailableGoalsOn(day time.Time) []models.Goal
}

// TaskCompleter completes tasks and reverts goal progress.
type TaskCompleter interface {
	CompleteTask(taskID models.TaskID, at time.Time) (*core.CompletionResult, error)
	UndoGoalProgress(goalID models.GoalID) (models.Goal, error)
}

// Deleter performs cascading deletions.
type Deleter interface {
	DeleteCategory(id models.CategoryID) (*core.CategoryDeletionResult, error)
	DeleteTask(id models.TaskID, confirmed bool) (*core.TaskDeletionResult, error)
}

// Ticker runs the daily goal maintenance pass.
type Ticker interface {
	Tick(today time.Time) (*core.RolloverReport, error)
}

// Services groups the dependencies exposed as tools. Metrics and Alerts may
// be nil if observability is disabled.
type Services struct {
	Goals      GoalLister
	Completion TaskCompleter
	Cascade    Deleter
	Roller     Ticker
	Metrics    observability.MetricsCalculator
	Alerts     observability.AlertEngine
}

// Server wraps dayplan services and exposes them as MCP tools.
type Server struct {
	server *gomcp.Server
	svc    Services
	now    func() time.Time
}

// NewServer creates a new MCP server over the given services.
func NewServer(svc Services, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{svc: svc, now: time.Now}
	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "dayplan", Version: version},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects
// or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type listGoalsInput struct {
	Available bool   `json:"available,omitempty" jsonschema:"only return goals whose window contains the day"`
	Day       string `json:"day,omitempty" jsonschema:"day to evaluate availability on (YYYY-MM-DD). Defaults to today."`
}

type goalOutput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CategoryID  string `json:"category_id,omitempty"`
	TargetTask  string `json:"target_task_id"`
	Period      string `json:"period"`
	Begin       string `json:"begin"`
	Due         string `json:"due,omitempty"`
	Frequency   int    `json:"frequency"`
	Progress    int    `json:"progress"`
	IsCompleted bool   `json:"is_completed"`
	CompletedAt string `json:"completed_at,omitempty"`
}

type listGoalsOutput struct {
	Goals []goalOutput `json:"goals"`
	Count int          `json:"count"`
}

type completeTaskInput struct {
	TaskID string `json:"task_id" jsonschema:"required,the id of the task to complete"`
	At     string `json:"at,omitempty" jsonschema:"completion instant (RFC3339) or day (YYYY-MM-DD). Defaults to now."`
}

type completeTaskOutput struct {
	TaskID          string       `json:"task_id"`
	AlreadyComplete bool         `json:"already_complete"`
	Progressed      []goalOutput `json:"progressed"`
	Achieved        []goalOutput `json:"achieved"`
	OutOfWindow     []goalOutput `json:"out_of_window"`
}

type undoGoalProgressInput struct {
	GoalID string `json:"goal_id" jsonschema:"required,the id of the goal to revert"`
}

type deleteCategoryInput struct {
	CategoryID string `json:"category_id" jsonschema:"required,the id of the category to delete"`
}

type deleteCategoryOutput struct {
	CategoryID    string `json:"category_id"`
	Name          string `json:"name"`
	TasksUpdated  int    `json:"tasks_updated"`
	EventsUpdated int    `json:"events_updated"`
}

type deleteTaskInput struct {
	TaskID    string `json:"task_id" jsonschema:"required,the id of the task to delete"`
	Confirmed bool   `json:"confirmed,omitempty" jsonschema:"confirm deleting a template that has today instances"`
}

type deleteTaskOutput struct {
	Outcome        string       `json:"outcome"`
	TaskID         string       `json:"task_id"`
	TodayInstances int          `json:"today_instances"`
	Removed        int          `json:"removed"`
	RemovedGoals   []goalOutput `json:"removed_goals"`
	OrphanedGoals  []goalOutput `json:"orphaned_goals"`
}

type runTickInput struct {
	Day string `json:"day,omitempty" jsonschema:"day to run maintenance for (YYYY-MM-DD). Defaults to today."`
}

type runTickOutput struct {
	Day            string       `json:"day"`
	Achieved       []goalOutput `json:"achieved"`
	RolledOver     []goalOutput `json:"rolled_over"`
	SkippedMonthly int          `json:"skipped_monthly"`
	Removed        []goalOutput `json:"removed"`
	NotifyError    string       `json:"notify_error,omitempty"`
}

type getMetricsInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window for metrics (e.g. 7d, 30d, 24h). Defaults to 7d."`
}

type metricsOutput struct {
	TasksCreated      int            `json:"tasks_created"`
	TasksCompleted    int            `json:"tasks_completed"`
	TasksDeleted      int            `json:"tasks_deleted"`
	GoalsCreated      int            `json:"goals_created"`
	GoalProgress      int            `json:"goal_progress"`
	GoalsAchieved     int            `json:"goals_achieved"`
	AchievedByPeriod  map[string]int `json:"achieved_by_period"`
	GoalsRolledOver   int            `json:"goals_rolled_over"`
	GoalsRemoved      int            `json:"goals_removed"`
	CategoriesDeleted int            `json:"categories_deleted"`
	CascadeFailures   int            `json:"cascade_failures"`
	EventCount        int            `json:"event_count"`
	OldestEvent       string         `json:"oldest_event,omitempty"`
	NewestEvent       string         `json:"newest_event,omitempty"`
}

type getAlertsInput struct{}

type alertOutput struct {
	ID          string `json:"id"`
	Condition   string `json:"condition"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	TriggeredAt string `json:"triggered_at"`
}

type getAlertsOutput struct {
	Alerts []alertOutput `json:"alerts"`
	Count  int           `json:"count"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_goals",
		Description: "List goals with their progress. Set available to restrict to goals whose window contains the day.",
	}, s.handleListGoals)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "complete_task",
		Description: "Mark a task complete and advance every open goal targeting it whose window contains the completion day.",
	}, s.handleCompleteTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "undo_goal_progress",
		Description: "Revert one unit of progress on a goal, reopening it if it drops below its frequency.",
	}, s.handleUndoGoalProgress)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "delete_category",
		Description: "Delete a category. Tasks and events referencing it become uncategorized; they are never deleted.",
	}, s.handleDeleteCategory)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "delete_task",
		Description: "Delete a task and resolve the goals targeting it. Templates with today instances need confirmed=true.",
	}, s.handleDeleteTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "run_tick",
		Description: "Run the daily maintenance pass: roll expired weekly goals forward and remove long-completed goals.",
	}, s.handleRunTick)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_metrics",
		Description: "Get aggregated metrics from the event log: completions, goal progress and achievements, cascade failures.",
	}, s.handleGetMetrics)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_alerts",
		Description: "Evaluate and return active alerts (inconsistent cascades, failed notifications, orphaned goals).",
	}, s.handleGetAlerts)
}

// --- Tool handlers ---

func (s *Server) handleListGoals(_ context.Context, _ *gomcp.CallToolRequest, input listGoalsInput) (*gomcp.CallToolResult, listGoalsOutput, error) {
	var goals []models.Goal
	if input.Available {
		day, err := s.parseDay(input.Day)
		if err != nil {
			return errorResult(err.Error()), listGoalsOutput{}, nil
		}
		goals = s.svc.Goals.AvailableGoalsOn(day)
	} else {
		goals = s.svc.Goals.AllGoals()
	}
	out := goalsToOutput(goals)
	return nil, listGoalsOutput{Goals: out, Count: len(out)}, nil
}

func (s *Server) handleCompleteTask(_ context.Context, _ *gomcp.CallToolRequest, input completeTaskInput) (*gomcp.CallToolResult, completeTaskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), completeTaskOutput{}, nil
	}
	at, err := s.parseInstant(input.At)
	if err != nil {
		return errorResult(err.Error()), completeTaskOutput{}, nil
	}

	result, err := s.svc.Completion.CompleteTask(models.TaskID(input.TaskID), at)
	if err != nil {
		return domainError(err), completeTaskOutput{}, nil
	}
	return nil, completeTaskOutput{
		TaskID:          string(result.Task.ID),
		AlreadyComplete: result.AlreadyComplete,
		Progressed:      goalsToOutput(result.Progressed),
		Achieved:        goalsToOutput(result.Achieved),
		OutOfWindow:     goalsToOutput(result.OutOfWindow),
	}, nil
}

func (s *Server) handleUndoGoalProgress(_ context.Context, _ *gomcp.CallToolRequest, input undoGoalProgressInput) (*gomcp.CallToolResult, goalOutput, error) {
	if input.GoalID == "" {
		return errorResult("goal_id is required"), goalOutput{}, nil
	}
	goal, err := s.svc.Completion.UndoGoalProgress(models.GoalID(input.GoalID))
	if err != nil {
		return domainError(err), goalOutput{}, nil
	}
	return nil, goalToOutput(goal), nil
}

func (s *Server) handleDeleteCategory(_ context.Context, _ *gomcp.CallToolRequest, input deleteCategoryInput) (*gomcp.CallToolResult, deleteCategoryOutput, error) {
	if input.CategoryID == "" {
		return errorResult("category_id is required"), deleteCategoryOutput{}, nil
	}
	result, err := s.svc.Cascade.DeleteCategory(models.CategoryID(input.CategoryID))
	if err != nil {
		return domainError(err), deleteCategoryOutput{}, nil
	}
	return nil, deleteCategoryOutput{
		CategoryID:    string(result.Category.ID),
		Name:          result.Category.Name,
		TasksUpdated:  result.TasksUpdated,
		EventsUpdated: result.EventsUpdated,
	}, nil
}

func (s *Server) handleDeleteTask(_ context.Context, _ *gomcp.CallToolRequest, input deleteTaskInput) (*gomcp.CallToolResult, deleteTaskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), deleteTaskOutput{}, nil
	}
	result, err := s.svc.Cascade.DeleteTask(models.TaskID(input.TaskID), input.Confirmed)
	if err != nil {
		return domainError(err), deleteTaskOutput{}, nil
	}
	return nil, deleteTaskOutput{
		Outcome:        string(result.Outcome),
		TaskID:         string(result.Task.ID),
		TodayInstances: result.TodayInstances,
		Removed:        result.Removed,
		RemovedGoals:   goalsToOutput(result.RemovedGoals),
		OrphanedGoals:  goalsToOutput(result.OrphanedGoals),
	}, nil
}

func (s *Server) handleRunTick(_ context.Context, _ *gomcp.CallToolRequest, input runTickInput) (*gomcp.CallToolResult, runTickOutput, error) {
	day, err := s.parseDay(input.Day)
	if err != nil {
		return errorResult(err.Error()), runTickOutput{}, nil
	}
	report, err := s.svc.Roller.Tick(day)
	if err != nil {
		return domainError(err), runTickOutput{}, nil
	}
	out := runTickOutput{
		Day:            report.Day.Format(time.DateOnly),
		Achieved:       goalsToOutput(report.Achieved),
		RolledOver:     goalsToOutput(report.RolledOver),
		SkippedMonthly: report.SkippedMonthly,
		Removed:        goalsToOutput(report.Removed),
	}
	if report.NotifyErr != nil {
		out.NotifyError = report.NotifyErr.Error()
	}
	return nil, out, nil
}

func (s *Server) handleGetMetrics(_ context.Context, _ *gomcp.CallToolRequest, input getMetricsInput) (*gomcp.CallToolResult, metricsOutput, error) {
	if s.svc.Metrics == nil {
		return errorResult("metrics calculator not available (observability may be disabled)"), emptyMetricsOutput(), nil
	}

	sinceStr := input.Since
	if sinceStr == "" {
		sinceStr = "7d"
	}
	sinceTime, err := parseSince(s.now().UTC(), sinceStr)
	if err != nil {
		return errorResult(fmt.Sprintf("parsing since duration: %s", err)), emptyMetricsOutput(), nil
	}

	metrics, err := s.svc.Metrics.Calculate(sinceTime)
	if err != nil {
		return errorResult(fmt.Sprintf("calculating metrics: %s", err)), emptyMetricsOutput(), nil
	}

	out := metricsOutput{
		TasksCreated:      metrics.TasksCreated,
		TasksCompleted:    metrics.TasksCompleted,
		TasksDeleted:      metrics.TasksDeleted,
		GoalsCreated:      metrics.GoalsCreated,
		GoalProgress:      metrics.GoalProgress,
		GoalsAchieved:     metrics.GoalsAchieved,
		AchievedByPeriod:  metrics.AchievedByPeriod,
		GoalsRolledOver:   metrics.GoalsRolledOver,
		GoalsRemoved:      metrics.GoalsRemoved,
		CategoriesDeleted: metrics.CategoriesDeleted,
		CascadeFailures:   metrics.CascadeFailures,
		EventCount:        metrics.EventCount,
	}
	if out.AchievedByPeriod == nil {
		out.AchievedByPeriod = make(map[string]int)
	}
	if metrics.OldestEvent != nil {
		out.OldestEvent = metrics.OldestEvent.Format(time.RFC3339)
	}
	if metrics.NewestEvent != nil {
		out.NewestEvent = metrics.NewestEvent.Format(time.RFC3339)
	}
	return nil, out, nil
}

func (s *Server) handleGetAlerts(_ context.Context, _ *gomcp.CallToolRequest, _ getAlertsInput) (*gomcp.CallToolResult, getAlertsOutput, error) {
	if s.svc.Alerts == nil {
		return errorResult("alert engine not available (observability may be disabled)"), getAlertsOutput{}, nil
	}

	alerts, err := s.svc.Alerts.Evaluate()
	if err != nil {
		return errorResult(fmt.Sprintf("evaluating alerts: %s", err)), getAlertsOutput{}, nil
	}

	out := getAlertsOutput{
		Alerts: make([]alertOutput, len(alerts)),
		Count:  len(alerts),
	}
	for i, a := range alerts {
		out.Alerts[i] = alertOutput{
			ID:          a.ID,
			Condition:   a.Condition,
			Severity:    string(a.Severity),
			Message:     a.Message,
			TriggeredAt: a.TriggeredAt.Format(time.RFC3339),
		}
	}
	return nil, out, nil
}

// --- Helpers ---

func goalToOutput(g models.Goal) goalOutput {
	out := goalOutput{
		ID:          string(g.ID),
		Name:        g.Name(),
		CategoryID:  string(g.GoalInfo.Info.CategoryID),
		TargetTask:  string(g.GoalInfo.TargetTaskID),
		Period:      string(g.Period),
		Begin:       g.Window.Begin.Format(time.DateOnly),
		Frequency:   g.Frequency,
		Progress:    g.Progress,
		IsCompleted: g.IsCompleted,
	}
	if g.Window.Due != nil {
		out.Due = g.Window.Due.Format(time.DateOnly)
	}
	if g.CompletedAt != nil {
		out.CompletedAt = g.CompletedAt.Format(time.RFC3339)
	}
	return out
}

func goalsToOutput(goals []models.Goal) []goalOutput {
	out := make([]goalOutput, len(goals))
	for i, g := range goals {
		out[i] = goalToOutput(g)
	}
	return out
}

func emptyMetricsOutput() metricsOutput {
	return metricsOutput{AchievedByPeriod: make(map[string]int)}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// domainError renders err prefixed with its kind so clients can branch on
// it without parsing the message.
func domainError(err error) *gomcp.CallToolResult {
	kind := "internal"
	switch {
	case errors.Is(err, models.ErrInvalidArgument):
		kind = "invalid_argument"
	case errors.Is(err, models.ErrNotFound):
		kind = "not_found"
	case errors.Is(err, models.ErrPolicyViolation):
		kind = "policy_violation"
	case errors.Is(err, models.ErrDependencyUpdateFailed):
		kind = "dependency_update_failed"
	}
	return errorResult(fmt.Sprintf("[%s] %s", kind, err))
}

func (s *Server) parseDay(value string) (time.Time, error) {
	if value == "" {
		return models.DateOf(s.now()), nil
	}
	day, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q: use YYYY-MM-DD", value)
	}
	return day, nil
}

func (s *Server) parseInstant(value string) (time.Time, error) {
	if value == "" {
		return s.now(), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q: use RFC3339 or YYYY-MM-DD", value)
}

// parseSince parses a human-friendly duration string like "7d", "30d", or "24h"
// into the corresponding time before now.
func parseSince(now time.Time, s string) (time.Time, error) {
	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("invalid duration %q", s)
	}

	suffix := s[len(s)-1]
	numStr := s[:len(s)-1]
	var num int
	if _, err := fmt.Sscanf(numStr, "%d", &num); err != nil {
		return time.Time{}, fmt.Errorf("invalid duration %q: %w", s, err)
	}

	switch suffix {
	case 'd':
		return now.AddDate(0, 0, -num), nil
	case 'h':
		return now.Add(-time.Duration(num) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported duration suffix %q (use d or h)", string(suffix))
	}
}
