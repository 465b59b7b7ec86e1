// Package internal provides the App struct that wires all components of
// dayplan together and initializes the CLI layer.
package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/valter-silva-au/dayplan/internal/cli"
	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/internal/observability"
	"github.com/valter-silva-au/dayplan/internal/storage"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

// EventLogFileName is the JSONL event log kept in the workspace root.
const EventLogFileName = ".dayplan_events.jsonl"

// App holds all service dependencies for dayplan.
type App struct {
	BasePath string
	Config   *models.GlobalConfig

	// Configuration
	ConfigMgr core.ConfigurationManager

	// Storage layer
	TaskStore     *storage.TaskStore
	CategoryStore *storage.CategoryStore
	EventStore    *storage.EventStore
	GoalFiles     *storage.GoalFileStore

	// Core services
	TaskMgr     core.TaskManager
	CategoryMgr core.CategoryManager
	EventMgr    core.EventManager
	GoalPlanner core.GoalPlanner
	Goals       *core.GoalStore
	Completion  *core.CompletionPropagator
	Cascade     *core.IntegrityCascade
	Roller      *core.LifecycleRoller
	ProjectInit core.ProjectInitializer

	// Observability
	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
	Notifier    observability.Notifier
}

// NewApp creates and wires all components of dayplan. basePath is the
// workspace directory holding .dayplanconfig and the YAML stores.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	// A missing file yields defaults; a file that exists but cannot be
	// parsed is fatal so its policies are never silently replaced.
	cfg, err := app.ConfigMgr.LoadGlobalConfig()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if err := app.ConfigMgr.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	app.Config = cfg

	// --- Storage layer ---
	if app.TaskStore, err = storage.NewTaskStore(basePath); err != nil {
		return nil, fmt.Errorf("opening task store: %w", err)
	}
	if app.CategoryStore, err = storage.NewCategoryStore(basePath); err != nil {
		return nil, fmt.Errorf("opening category store: %w", err)
	}
	if app.EventStore, err = storage.NewEventStore(basePath); err != nil {
		return nil, fmt.Errorf("opening event store: %w", err)
	}
	app.GoalFiles = storage.NewGoalFileStore(basePath)
	if app.Goals, err = core.LoadGoalStore(app.GoalFiles, app.GoalFiles); err != nil {
		return nil, fmt.Errorf("loading goals: %w", err)
	}

	// --- Observability ---
	app.EventLog, err = observability.NewJSONLEventLog(filepath.Join(basePath, EventLogFileName))
	if err != nil {
		// Non-fatal: run without observability if the log can't be opened.
		app.EventLog = nil
	}
	var logger core.EventLogger
	if app.EventLog != nil {
		logger = observability.NewRecorder(app.EventLog)
		thresholds := observability.DefaultAlertThresholds()
		if cfg.AlertLookbackDays > 0 {
			thresholds.LookbackDays = cfg.AlertLookbackDays
		}
		app.AlertEngine = observability.NewAlertEngine(app.EventLog, thresholds)
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
	}
	var achievements core.AchievementNotifier
	if cfg.Notifications.Enabled && cfg.Notifications.WebhookURL != "" {
		app.Notifier = observability.NewSlackNotifier(cfg.Notifications.WebhookURL)
		achievements = app.Notifier
	}

	// --- Core services ---
	app.TaskMgr = core.NewTaskManager(app.TaskStore, app.CategoryStore, logger)
	app.CategoryMgr = core.NewCategoryManager(app.CategoryStore, logger)
	app.EventMgr = core.NewEventManager(app.EventStore, app.CategoryStore, logger)
	app.GoalPlanner = core.NewGoalPlanner(app.TaskStore, app.Goals, logger)
	app.Completion = core.NewCompletionPropagator(app.TaskStore, app.Goals, logger)
	app.Cascade = core.NewIntegrityCascade(app.TaskStore, app.CategoryStore, app.EventStore, app.Goals, core.CascadePolicyFrom(cfg), logger)
	app.Roller = core.NewLifecycleRoller(app.Goals, achievements, logger, cfg.ResetProgressOnRoll)
	app.ProjectInit = core.NewProjectInitializer(openCategoryStore(basePath, app.CategoryStore), logger)

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.TaskMgr = app.TaskMgr
	cli.CategoryMgr = app.CategoryMgr
	cli.EventMgr = app.EventMgr
	cli.GoalPlanner = app.GoalPlanner
	cli.Goals = app.Goals
	cli.Completion = app.Completion
	cli.Cascade = app.Cascade
	cli.Roller = app.Roller
	cli.ProjectInit = app.ProjectInit

	cli.EventLog = app.EventLog
	cli.AlertEngine = app.AlertEngine
	cli.MetricsCalc = app.MetricsCalc
	cli.Notifier = app.Notifier

	return app, nil
}

// openCategoryStore reuses the workspace's open store for its own path and
// opens a fresh one for any other directory passed to init.
func openCategoryStore(basePath string, current *storage.CategoryStore) core.CategoryStoreOpener {
	return func(path string) (core.CategoryStore, error) {
		if filepath.Clean(path) == filepath.Clean(basePath) {
			return current, nil
		}
		return storage.NewCategoryStore(path)
	}
}

// Close releases resources held by the App, such as the event log file handle.
// It is safe to call Close on an App whose EventLog is nil.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the workspace directory. DAYPLAN_HOME wins;
// otherwise the nearest ancestor holding .dayplanconfig, else the current
// directory.
func ResolveBasePath() string {
	if home := os.Getenv("DAYPLAN_HOME"); home != "" {
		return home
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	for dir := cwd; ; {
		if _, err := os.Stat(filepath.Join(dir, core.ConfigFileName)); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return cwd
}
