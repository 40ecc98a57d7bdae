package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var classifyCategories []string

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify [text]",
	Short: "Classify a piece of text against the category list",
	Long: `Runs the full classification pipeline (language normalization, model
suggestion, deterministic resolution) on the given text and prints the
resolved categories, tags and confidence. Categories default to the ones
stored in the database; use --categories to supply your own list.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		content := strings.Join(args, " ")
		result, err := appInstance.ClassificationService.Classify(cmd.Context(), content, classifyCategories)
		if err != nil {
			return fmt.Errorf("classification failed: %w", err)
		}

		fmt.Printf("%s %s\n", color.CyanString("Categories:"), strings.Join(result.Categories, ", "))
		if len(result.Tags) > 0 {
			fmt.Printf("%s %s\n", color.CyanString("Tags:"), strings.Join(result.Tags, ", "))
		}
		fmt.Printf("%s %.2f\n", color.CyanString("Confidence:"), result.Confidence)
		if result.OriginalLanguage != "" && result.OriginalLanguage != "English" {
			fmt.Printf("%s %s\n", color.YellowString("Detected language:"), result.OriginalLanguage)
			fmt.Printf("%s %s\n", color.YellowString("Translated:"), result.TranslatedContent)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().StringSliceVar(&classifyCategories, "categories", nil, "Comma-separated category names to classify against (defaults to stored categories)")
}
