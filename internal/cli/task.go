package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks (create, schedule, list, complete, delete)",
	Long: `Unified task management commands.

Available tasks are reusable templates. Scheduling a template creates a
today instance; completing either kind advances the goals that target it.`,
}

var taskCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a task in the available pool",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil {
			return fmt.Errorf("task manager not initialized")
		}

		description, _ := cmd.Flags().GetString("description")
		category, _ := cmd.Flags().GetString("category")
		priority, _ := cmd.Flags().GetString("priority")
		beginFlag, _ := cmd.Flags().GetString("begin")
		dueFlag, _ := cmd.Flags().GetString("due")

		p, err := models.ParsePriority(priority)
		if err != nil {
			return err
		}
		begin, err := parseDay(beginFlag)
		if err != nil {
			return fmt.Errorf("parsing --begin: %w", err)
		}
		due, err := parseOptionalDay(dueFlag)
		if err != nil {
			return fmt.Errorf("parsing --due: %w", err)
		}

		task, err := TaskMgr.CreateTask(core.TaskParams{
			Name:        args[0],
			Description: description,
			CategoryID:  models.CategoryID(category),
			Priority:    p,
			Begin:       begin,
			Due:         due,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Created task %s\n", task.ID)
		fmt.Printf("  Name:     %s\n", task.Info.Name)
		fmt.Printf("  Priority: %s\n", task.Priority)
		fmt.Printf("  Window:   %s .. %s\n", task.Dates.Begin.Format(time.DateOnly), formatDue(task.Dates.Due))
		return nil
	},
}

var taskScheduleCmd = &cobra.Command{
	Use:   "schedule <task-id>",
	Short: "Add an instance of an available task to today's list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil {
			return fmt.Errorf("task manager not initialized")
		}
		inst, err := TaskMgr.ScheduleToday(models.TaskID(args[0]))
		if err != nil {
			return err
		}
		fmt.Printf("Scheduled %s for today as %s\n", inst.Info.Name, inst.ID)
		return nil
	},
}

var taskListToday bool

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available tasks, or today's tasks with --today",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil {
			return fmt.Errorf("task manager not initialized")
		}
		scope := models.ScopeAvailable
		if taskListToday {
			scope = models.ScopeToday
		}
		tasks, err := TaskMgr.ListTasks(scope)
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Printf("No %s tasks.\n", scope)
			return nil
		}
		for _, t := range tasks {
			mark := " "
			if t.IsComplete {
				mark = "x"
			}
			fmt.Printf("  [%s] %-36s %-20s %-6s %s\n", mark, t.ID, t.Info.Name, t.Priority, t.Info.CategoryID)
		}
		return nil
	},
}

var taskCompleteCmd = &cobra.Command{
	Use:   "complete <task-id>",
	Short: "Mark a task complete and advance the goals targeting it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Completion == nil {
			return fmt.Errorf("completion service not initialized")
		}
		onFlag, _ := cmd.Flags().GetString("on")
		at := now()
		if onFlag != "" {
			day, err := parseDay(onFlag)
			if err != nil {
				return fmt.Errorf("parsing --on: %w", err)
			}
			at = day
		}

		result, err := Completion.CompleteTask(models.TaskID(args[0]), at)
		if err != nil {
			return err
		}
		if result.AlreadyComplete {
			fmt.Printf("Task %s was already complete.\n", result.Task.Info.Name)
			return nil
		}

		fmt.Printf("Completed %s\n", result.Task.Info.Name)
		achieved := make(map[models.GoalID]bool, len(result.Achieved))
		for _, g := range result.Achieved {
			achieved[g.ID] = true
		}
		for _, g := range result.Progressed {
			suffix := ""
			if achieved[g.ID] {
				suffix = "  achieved!"
			}
			fmt.Printf("  goal %-20s %d/%d%s\n", g.Name(), g.Progress, g.Frequency, suffix)
		}
		for _, g := range result.OutOfWindow {
			fmt.Printf("  goal %-20s outside its window (%s .. %s), unchanged\n",
				g.Name(), g.Window.Begin.Format(time.DateOnly), formatDue(g.Window.Due))
		}
		return nil
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete <task-id>",
	Short: "Delete a task and resolve the goals targeting it",
	Long: `Delete a task. Deleting an available task also removes its today instances,
which requires --yes when any exist. Goals targeting the task are removed,
kept or block the deletion depending on goals.orphan_policy.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Cascade == nil {
			return fmt.Errorf("integrity cascade not initialized")
		}
		confirmed, _ := cmd.Flags().GetBool("yes")

		result, err := Cascade.DeleteTask(models.TaskID(args[0]), confirmed)
		if err != nil {
			return err
		}
		if result.Outcome == core.OutcomeConfirmationRequired {
			fmt.Printf("%s has %d instance(s) on today's list. Re-run with --yes to delete them too.\n",
				result.Task.Info.Name, result.TodayInstances)
			return nil
		}

		fmt.Printf("Deleted %s (%d record(s))\n", result.Task.Info.Name, result.Removed)
		for _, g := range result.RemovedGoals {
			fmt.Printf("  removed goal %s\n", g.Name())
		}
		for _, g := range result.OrphanedGoals {
			fmt.Printf("  goal %s now targets a deleted task\n", g.Name())
		}
		return nil
	},
}

func init() {
	taskCreateCmd.Flags().String("description", "", "Task description")
	taskCreateCmd.Flags().String("category", "", "Category id")
	taskCreateCmd.Flags().String("priority", "MEDIUM", "Priority: LOW, MEDIUM or HIGH")
	taskCreateCmd.Flags().String("begin", "", "First day the task is available (YYYY-MM-DD, default today)")
	taskCreateCmd.Flags().String("due", "", "Due day (YYYY-MM-DD)")
	_ = taskCreateCmd.RegisterFlagCompletionFunc("priority", completePriorities)

	taskListCmd.Flags().BoolVar(&taskListToday, "today", false, "List today's tasks instead of the available pool")

	taskCompleteCmd.Flags().String("on", "", "Completion day (YYYY-MM-DD, default now)")

	taskDeleteCmd.Flags().BoolP("yes", "y", false, "Confirm deleting today instances along with the task")
	_ = taskCreateCmd.RegisterFlagCompletionFunc("category", completeCategoryFlag)

	taskScheduleCmd.ValidArgsFunction = completeTaskIDs
	taskCompleteCmd.ValidArgsFunction = completeAnyTaskIDs
	taskDeleteCmd.ValidArgsFunction = completeAnyTaskIDs

	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskScheduleCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskCompleteCmd)
	taskCmd.AddCommand(taskDeleteCmd)

	rootCmd.AddCommand(taskCmd)
}
