package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage recurring goals (create, list, undo)",
	Long: `A goal counts completions of one target task within a window.
Weekly goals roll into a fresh window when their period ends.`,
}

var goalCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a goal that targets an available task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if GoalPlanner == nil {
			return fmt.Errorf("goal planner not initialized")
		}

		target, _ := cmd.Flags().GetString("target")
		description, _ := cmd.Flags().GetString("description")
		frequency, _ := cmd.Flags().GetInt("frequency")
		periodFlag, _ := cmd.Flags().GetString("period")
		beginFlag, _ := cmd.Flags().GetString("begin")
		dueFlag, _ := cmd.Flags().GetString("due")

		period, err := models.ParsePeriod(periodFlag)
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

		goal, err := GoalPlanner.CreateGoal(core.GoalPlanParams{
			Name:         args[0],
			Description:  description,
			TargetTaskID: models.TaskID(target),
			Period:       period,
			Frequency:    frequency,
			Begin:        begin,
			Due:          due,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Created goal %s\n", goal.ID)
		fmt.Printf("  Name:    %s\n", goal.Name())
		fmt.Printf("  Target:  %s x%d per %s\n", goal.GoalInfo.TargetTaskID, goal.Frequency, goal.Period)
		fmt.Printf("  Window:  %s .. %s\n", goal.Window.Begin.Format(time.DateOnly), formatDue(goal.Window.Due))
		return nil
	},
}

var goalListAvailable bool

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals, or only those open today with --available",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Goals == nil {
			return fmt.Errorf("goal store not initialized")
		}

		goals := Goals.AllGoals()
		if goalListAvailable {
			goals = Goals.AvailableGoalsOn(now())
		}
		if len(goals) == 0 {
			fmt.Println("No goals.")
			return nil
		}
		for _, g := range goals {
			printGoalLine(g)
		}
		return nil
	},
}

var goalUndoCmd = &cobra.Command{
	Use:   "undo <goal-id>",
	Short: "Reverse one unit of progress on a goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Completion == nil {
			return fmt.Errorf("completion service not initialized")
		}
		goal, err := Completion.UndoGoalProgress(models.GoalID(args[0]))
		if err != nil {
			return err
		}
		fmt.Printf("Goal %s is now at %d/%d\n", goal.Name(), goal.Progress, goal.Frequency)
		return nil
	},
}

func printGoalLine(g models.Goal) {
	status := "open"
	if g.IsCompleted {
		status = "done"
	}
	fmt.Printf("  %-36s %-20s %2d/%-2d %-5s %s .. %s  %s\n",
		g.ID, g.Name(), g.Progress, g.Frequency, g.Period,
		g.Window.Begin.Format(time.DateOnly), formatDue(g.Window.Due), status)
}

func init() {
	goalCreateCmd.Flags().String("target", "", "Id of the available task that advances the goal")
	goalCreateCmd.Flags().String("description", "", "Goal description")
	goalCreateCmd.Flags().Int("frequency", 1, "Completions needed per period")
	goalCreateCmd.Flags().String("period", "WEEK", "Recurrence: WEEK or MONTH")
	goalCreateCmd.Flags().String("begin", "", "First day of the window (YYYY-MM-DD, default today)")
	goalCreateCmd.Flags().String("due", "", "Last day of the window (YYYY-MM-DD, default one period)")
	_ = goalCreateCmd.MarkFlagRequired("target")
	_ = goalCreateCmd.RegisterFlagCompletionFunc("target", completeTaskIDs)
	_ = goalCreateCmd.RegisterFlagCompletionFunc("period", completePeriods)

	goalListCmd.Flags().BoolVar(&goalListAvailable, "available", false, "Only goals open today")

	goalUndoCmd.ValidArgsFunction = completeGoalIDs

	goalCmd.AddCommand(goalCreateCmd)
	goalCmd.AddCommand(goalListCmd)
	goalCmd.AddCommand(goalUndoCmd)

	rootCmd.AddCommand(goalCmd)
}
