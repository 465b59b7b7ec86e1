package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

// completeTaskIDs lists available-pool task ids, the ones goals and
// scheduling can target.
func completeTaskIDs(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return taskIDCandidates(toComplete, models.ScopeAvailable), cobra.ShellCompDirectiveNoFileComp
}

// completeAnyTaskIDs lists task ids from both pools.
func completeAnyTaskIDs(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return taskIDCandidates(toComplete, models.ScopeAvailable, models.ScopeToday), cobra.ShellCompDirectiveNoFileComp
}

func taskIDCandidates(toComplete string, scopes ...models.Scope) []string {
	if TaskMgr == nil {
		return nil
	}
	var ids []string
	for _, scope := range scopes {
		tasks, err := TaskMgr.ListTasks(scope)
		if err != nil {
			return nil
		}
		for _, task := range tasks {
			if strings.HasPrefix(string(task.ID), toComplete) {
				// Name as description for better UX.
				ids = append(ids, string(task.ID)+"\t"+string(scope)+": "+task.Info.Name)
			}
		}
	}
	return ids
}

// completeGoalIDs lists goal ids with their names.
func completeGoalIDs(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if Goals == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var ids []string
	for _, g := range Goals.AllGoals() {
		if strings.HasPrefix(string(g.ID), toComplete) {
			ids = append(ids, string(g.ID)+"\t"+g.Name())
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}

// completeCategoryIDs completes the first positional argument with a
// category id.
func completeCategoryIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeCategoryFlag(cmd, args, toComplete)
}

// completeCategoryFlag lists category ids for --category flags.
func completeCategoryFlag(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if CategoryMgr == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	categories, err := CategoryMgr.ListCategories()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var ids []string
	for _, c := range categories {
		if strings.HasPrefix(string(c.ID), toComplete) {
			ids = append(ids, string(c.ID)+"\t"+c.Name)
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}

// completePriorities returns valid priority values.
func completePriorities(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{
		"LOW\tCan wait",
		"MEDIUM\tDefault",
		"HIGH\tDo first",
	}, cobra.ShellCompDirectiveNoFileComp
}

// completePeriods returns valid goal periods.
func completePeriods(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{
		"WEEK\tRolls into a new window every seven days",
		"MONTH\tRuns until its due day",
	}, cobra.ShellCompDirectiveNoFileComp
}
