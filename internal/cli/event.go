package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Manage calendar events",
}

var eventCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a calendar event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if EventMgr == nil {
			return fmt.Errorf("event manager not initialized")
		}

		description, _ := cmd.Flags().GetString("description")
		category, _ := cmd.Flags().GetString("category")
		beginFlag, _ := cmd.Flags().GetString("begin")
		dueFlag, _ := cmd.Flags().GetString("due")

		begin, err := parseDay(beginFlag)
		if err != nil {
			return fmt.Errorf("parsing --begin: %w", err)
		}
		due, err := parseOptionalDay(dueFlag)
		if err != nil {
			return fmt.Errorf("parsing --due: %w", err)
		}

		ev, err := EventMgr.CreateEvent(core.EventParams{
			Name:        args[0],
			Description: description,
			CategoryID:  models.CategoryID(category),
			Begin:       begin,
			Due:         due,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created event %s (%s) on %s\n", ev.Info.Name, ev.ID, ev.Dates.Begin.Format(time.DateOnly))
		return nil
	},
}

var eventListCmd = &cobra.Command{
	Use:   "list",
	Short: "List calendar events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if EventMgr == nil {
			return fmt.Errorf("event manager not initialized")
		}
		events, err := EventMgr.ListEvents()
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Println("No events.")
			return nil
		}
		for _, ev := range events {
			fmt.Printf("  %-36s %-20s %s .. %s  %s\n", ev.ID, ev.Info.Name,
				ev.Dates.Begin.Format(time.DateOnly), formatDue(ev.Dates.Due), ev.Info.CategoryID)
		}
		return nil
	},
}

func init() {
	eventCreateCmd.Flags().String("description", "", "Event description")
	eventCreateCmd.Flags().String("category", "", "Category id")
	eventCreateCmd.Flags().String("begin", "", "Event day (YYYY-MM-DD, default today)")
	eventCreateCmd.Flags().String("due", "", "Last day for multi-day events (YYYY-MM-DD)")
	_ = eventCreateCmd.RegisterFlagCompletionFunc("category", completeCategoryFlag)

	eventCmd.AddCommand(eventCreateCmd)
	eventCmd.AddCommand(eventListCmd)

	rootCmd.AddCommand(eventCmd)
}
