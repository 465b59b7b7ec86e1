package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "dayplan",
	Short: "dayplan - daily planning with recurring goals",
	Long: `dayplan keeps a pool of available tasks, a list of today's tasks, calendar
events and categories, and tracks recurring goals ("complete this task N
times per week").

Completing a task advances every goal that targets it. Deleting categories
or tasks keeps every remaining record consistent, and the daily tick rolls
expired weekly goals into their next window.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("dayplan %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
