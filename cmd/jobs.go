package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"taxon/internal/clix"
)

var (
	jobsListLimit  int
	jobsListOffset int
)

// jobsCmd represents the jobs command
var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List recorded background jobs",
	Long:  `Displays the audit trail of enqueued classification and embedding jobs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		pagination := clix.ParsePagination(cmd.Flags())
		jobs, err := appInstance.JobStore.ListJobs(cmd.Context(), pagination.Limit, pagination.Offset)
		if err != nil {
			return fmt.Errorf("failed to list jobs: %w", err)
		}
		if len(jobs) == 0 {
			fmt.Println("No jobs recorded.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Job ID", "Type", "Queue", "Status", "Entity", "Created"})
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, job := range jobs {
			entity := ""
			if job.RelatedEntityType != nil && job.RelatedEntityID != nil {
				entity = fmt.Sprintf("%s/%d", *job.RelatedEntityType, *job.RelatedEntityID)
			}
			table.Append([]string{
				job.JobID.String(),
				job.TaskType,
				job.Queue,
				job.Status,
				entity,
				job.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.Flags().IntVar(&jobsListLimit, "limit", 20, "Maximum rows to show")
	jobsCmd.Flags().IntVar(&jobsListOffset, "offset", 0, "Rows to skip")
}
