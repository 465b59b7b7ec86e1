package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

var (
	metricsJSON  bool
	metricsSince string
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display task and goal metrics",
	Long: `Display aggregated metrics derived from the event log.

Metrics include task completions and deletions, goal progress and
achievements, rollovers, and cascade or notification failures.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if MetricsCalc == nil {
			return fmt.Errorf("metrics calculator not initialized (observability may be disabled)")
		}

		sinceTime, err := parseSinceDuration(metricsSince)
		if err != nil {
			return fmt.Errorf("parsing --since: %w", err)
		}

		metrics, err := MetricsCalc.Calculate(sinceTime)
		if err != nil {
			return fmt.Errorf("calculating metrics: %w", err)
		}

		if metricsJSON {
			data, err := json.MarshalIndent(metrics, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting metrics as JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Printf("Metrics (since %s)\n\n", sinceTime.Format(time.DateOnly))
		rows := []struct {
			label string
			value int
		}{
			{"Events recorded:", metrics.EventCount},
			{"Tasks created:", metrics.TasksCreated},
			{"Tasks completed:", metrics.TasksCompleted},
			{"Tasks deleted:", metrics.TasksDeleted},
			{"Goals created:", metrics.GoalsCreated},
			{"Goal progress:", metrics.GoalProgress},
			{"Progress undone:", metrics.ProgressUndone},
			{"Goals achieved:", metrics.GoalsAchieved},
			{"Goals rolled over:", metrics.GoalsRolledOver},
			{"Goals removed:", metrics.GoalsRemoved},
			{"Categories deleted:", metrics.CategoriesDeleted},
			{"Cascade failures:", metrics.CascadeFailures},
			{"Notify failures:", metrics.NotifyFailures},
		}
		for _, r := range rows {
			fmt.Printf("  %-24s %d\n", r.label, r.value)
		}

		if len(metrics.AchievedByPeriod) > 0 {
			fmt.Println("\n  Achieved by period:")
			periods := make([]string, 0, len(metrics.AchievedByPeriod))
			for p := range metrics.AchievedByPeriod {
				periods = append(periods, p)
			}
			sort.Strings(periods)
			for _, p := range periods {
				fmt.Printf("    %-20s %d\n", p+":", metrics.AchievedByPeriod[p])
			}
		}

		if metrics.OldestEvent != nil {
			fmt.Printf("\n  %-24s %s\n", "Oldest event:", metrics.OldestEvent.Format(time.RFC3339))
		}
		if metrics.NewestEvent != nil {
			fmt.Printf("  %-24s %s\n", "Newest event:", metrics.NewestEvent.Format(time.RFC3339))
		}

		return nil
	},
}

func init() {
	metricsCmd.Flags().BoolVar(&metricsJSON, "json", false, "Output metrics as JSON")
	metricsCmd.Flags().StringVar(&metricsSince, "since", "7d", "Time window for metrics (e.g. 7d, 30d, 24h)")
	rootCmd.AddCommand(metricsCmd)
}
