package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize a dayplan workspace",
	Long: `Initialize a new or existing directory as a dayplan workspace: writes
.dayplanconfig and .gitignore and seeds the default category.

Safe to run on existing workspaces -- files that already exist are skipped
and an existing category with the default name is reused.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ProjectInit == nil {
			return fmt.Errorf("project initializer not initialized")
		}

		basePath := "."
		if len(args) > 0 {
			basePath = args[0]
		}
		absPath, err := filepath.Abs(basePath)
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}

		category, _ := cmd.Flags().GetString("category")
		orphans, _ := cmd.Flags().GetString("orphan-policy")

		result, err := ProjectInit.Init(core.InitConfig{
			BasePath:        absPath,
			DefaultCategory: category,
			OrphanPolicy:    models.OrphanPolicy(orphans),
		})
		if err != nil {
			return fmt.Errorf("initializing workspace: %w", err)
		}

		if len(result.Created) > 0 {
			fmt.Println("Created:")
			for _, p := range result.Created {
				rel, _ := filepath.Rel(absPath, p)
				fmt.Printf("  %s\n", rel)
			}
		}
		if len(result.Skipped) > 0 {
			fmt.Println("Skipped (already exist):")
			for _, p := range result.Skipped {
				rel, _ := filepath.Rel(absPath, p)
				fmt.Printf("  %s\n", rel)
			}
		}

		fmt.Printf("\nWorkspace initialized at %s (default category %q)\n", absPath, result.Category.Name)
		return nil
	},
}

func init() {
	initCmd.Flags().String("category", "General", "Name of the default category to seed")
	initCmd.Flags().String("orphan-policy", "remove", "What happens to goals whose task is deleted: remove, keep or block")
	rootCmd.AddCommand(initCmd)
}
