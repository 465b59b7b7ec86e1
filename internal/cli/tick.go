package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var tickCmd = &cobra.Command{
	Use:   "tick",
	Short: "Run daily goal maintenance",
	Long: `Roll expired weekly goals into a new window starting on the given day,
announce the goals achieved in the period that ended, and purge goals
that were completed more than one period ago.

Intended to run once a day, for example from cron.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Roller == nil {
			return fmt.Errorf("lifecycle roller not initialized")
		}
		dayFlag, _ := cmd.Flags().GetString("day")
		day := now()
		if dayFlag != "" {
			parsed, err := parseDay(dayFlag)
			if err != nil {
				return fmt.Errorf("parsing --day: %w", err)
			}
			day = parsed
		}

		report, err := Roller.Tick(day)
		if err != nil {
			return fmt.Errorf("running maintenance: %w", err)
		}

		fmt.Printf("Maintenance for %s\n", report.Day.Format(time.DateOnly))
		fmt.Printf("  %-18s %d\n", "Achieved:", len(report.Achieved))
		fmt.Printf("  %-18s %d\n", "Rolled over:", len(report.RolledOver))
		fmt.Printf("  %-18s %d\n", "Monthly skipped:", report.SkippedMonthly)
		fmt.Printf("  %-18s %d\n", "Removed:", len(report.Removed))
		for _, g := range report.Achieved {
			fmt.Printf("    achieved %s (%d/%d)\n", g.Name(), g.Progress, g.Frequency)
		}
		if report.NotifyErr != nil {
			fmt.Printf("\nWarning: achievement notification failed: %v\n", report.NotifyErr)
		}
		return nil
	},
}

func init() {
	tickCmd.Flags().String("day", "", "Day to run maintenance for (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(tickCmd)
}
