package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"taxon/internal/clix"
)

var (
	usageListLimit  int
	usageListOffset int
)

// usageCmd represents the base command for AI usage accounting.
var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "View AI usage and costs",
	Long:  `Provides subcommands to list recorded AI API calls and view the aggregate cost summary.`,
}

var usageListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded AI API calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		pagination := clix.ParsePagination(cmd.Flags())
		logs, err := appInstance.UsageStore.ListUsage(cmd.Context(), pagination.Limit, pagination.Offset)
		if err != nil {
			return fmt.Errorf("failed to list usage logs: %w", err)
		}
		if len(logs) == 0 {
			fmt.Println("No usage recorded.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Timestamp", "Provider", "Service", "Model", "In", "Out", "Cost"})
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, entry := range logs {
			table.Append([]string{
				strconv.FormatInt(entry.ID, 10),
				entry.Timestamp.Format("2006-01-02 15:04:05"),
				entry.ProviderName,
				entry.ServiceType,
				entry.ModelName,
				strconv.Itoa(entry.InputTokens),
				strconv.Itoa(entry.OutputTokens),
				fmt.Sprintf("%.6f", entry.Cost),
			})
		}
		table.Render()
		return nil
	},
}

var usageSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the aggregate AI cost summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		totalCost, inputTokens, outputTokens, err := appInstance.UsageStore.GetUsageSummary(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get usage summary: %w", err)
		}

		fmt.Printf("Total input tokens:  %d\n", inputTokens)
		fmt.Printf("Total output tokens: %d\n", outputTokens)
		fmt.Printf("Total cost:          $%.6f\n", totalCost)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(usageCmd)
	usageCmd.AddCommand(usageListCmd)
	usageCmd.AddCommand(usageSummaryCmd)

	usageListCmd.Flags().IntVar(&usageListLimit, "limit", 20, "Maximum rows to show")
	usageListCmd.Flags().IntVar(&usageListOffset, "offset", 0, "Rows to skip")
}
