package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/dayplan/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  "Commands for running the dayplan MCP (Model Context Protocol) server.",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dayplan MCP server on stdio",
	Long: `Start the dayplan MCP server on stdio transport.

The server exposes goal tracking as MCP tools that assistants can call:
list_goals, complete_task, undo_goal_progress, delete_category,
delete_task, run_tick, get_metrics, get_alerts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Goals == nil || Completion == nil || Cascade == nil || Roller == nil {
			return fmt.Errorf("goal services not initialized")
		}

		srv := mcp.NewServer(mcp.Services{
			Goals:      Goals,
			Completion: Completion,
			Cascade:    Cascade,
			Roller:     Roller,
			Metrics:    MetricsCalc,
			Alerts:     AlertEngine,
		}, appVersion)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("running MCP server: %w", err)
		}

		return nil
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
