package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	categoryName  string
	categoryColor string
)

// categoryCmd represents the base command for category operations.
var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage forum categories",
	Long:  `Provides subcommands to list, add, update and delete the categories posts are classified into.`,
}

var listCategoriesCmd = &cobra.Command{
	Use:   "list",
	Short: "List all categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		categories, err := appInstance.CategoryService.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list categories: %w", err)
		}
		if len(categories) == 0 {
			fmt.Println("No categories found.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Name", "Slug", "Color", "Posts"})
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, c := range categories {
			table.Append([]string{
				strconv.FormatInt(c.ID, 10),
				c.Name,
				c.Slug,
				c.Color,
				strconv.Itoa(c.PostCount),
			})
		}
		table.Render()
		return nil
	},
}

var addCategoryCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		category, err := appInstance.CategoryService.Create(cmd.Context(), categoryName, categoryColor)
		if err != nil {
			return fmt.Errorf("failed to create category: %w", err)
		}
		fmt.Printf("Created category: ID=%d, Name=%q, Slug=%q\n", category.ID, category.Name, category.Slug)
		return nil
	},
}

var deleteCategoryCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid category id %q", args[0])
		}
		if err := appInstance.CategoryService.Delete(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete category %d: %w", id, err)
		}
		fmt.Printf("Deleted category %d.\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoryCmd)
	categoryCmd.AddCommand(listCategoriesCmd)
	categoryCmd.AddCommand(addCategoryCmd)
	categoryCmd.AddCommand(deleteCategoryCmd)

	addCategoryCmd.Flags().StringVar(&categoryName, "name", "", "Category name (required)")
	addCategoryCmd.Flags().StringVar(&categoryColor, "color", "", "Display color, e.g. #A0B4C8")
	addCategoryCmd.MarkFlagRequired("name")
}
