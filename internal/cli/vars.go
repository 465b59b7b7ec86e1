package cli

import (
	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/internal/observability"
)

// BasePath is the workspace directory, set during app initialization.
var BasePath string

// Core service instances, set during app initialization in app.go.
var (
	TaskMgr     core.TaskManager
	CategoryMgr core.CategoryManager
	EventMgr    core.EventManager
	GoalPlanner core.GoalPlanner
	Goals       *core.GoalStore
	Completion  *core.CompletionPropagator
	Cascade     *core.IntegrityCascade
	Roller      *core.LifecycleRoller
	ProjectInit core.ProjectInitializer
)

// Observability service instances, set during app initialization in app.go.
var (
	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
	Notifier    observability.Notifier
)
