package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"cat"},
	Short:   "Manage categories (create, rename, list, delete)",
}

var categoryCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if CategoryMgr == nil {
			return fmt.Errorf("category manager not initialized")
		}
		c, err := CategoryMgr.CreateCategory(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Created category %s (%s)\n", c.Name, c.ID)
		return nil
	},
}

var categoryRenameCmd = &cobra.Command{
	Use:   "rename <category-id> <new-name>",
	Short: "Rename a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if CategoryMgr == nil {
			return fmt.Errorf("category manager not initialized")
		}
		c, err := CategoryMgr.RenameCategory(models.CategoryID(args[0]), args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Renamed category %s to %s\n", c.ID, c.Name)
		return nil
	},
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if CategoryMgr == nil {
			return fmt.Errorf("category manager not initialized")
		}
		categories, err := CategoryMgr.ListCategories()
		if err != nil {
			return err
		}
		if len(categories) == 0 {
			fmt.Println("No categories.")
			return nil
		}
		for _, c := range categories {
			fmt.Printf("  %-36s %s\n", c.ID, c.Name)
		}
		return nil
	},
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete <category-id>",
	Short: "Delete a category and uncategorize its tasks and events",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Cascade == nil {
			return fmt.Errorf("integrity cascade not initialized")
		}
		result, err := Cascade.DeleteCategory(models.CategoryID(args[0]))
		if err != nil {
			return err
		}
		fmt.Printf("Deleted category %s\n", result.Category.Name)
		fmt.Printf("  Tasks uncategorized:  %d\n", result.TasksUpdated)
		fmt.Printf("  Events uncategorized: %d\n", result.EventsUpdated)
		return nil
	},
}

func init() {
	categoryRenameCmd.ValidArgsFunction = completeCategoryIDs
	categoryDeleteCmd.ValidArgsFunction = completeCategoryIDs

	categoryCmd.AddCommand(categoryCreateCmd)
	categoryCmd.AddCommand(categoryRenameCmd)
	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categoryDeleteCmd)

	rootCmd.AddCommand(categoryCmd)
}
