package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"taxon/internal/app"
	"taxon/internal/tasks"
	"taxon/internal/worker"
)

// workerCmd represents the worker command
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the background job worker",
	Long:  `Starts the Asynq worker process that handles classification and embedding jobs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get application context: %w", err)
		}
		return runWorker(appInstance)
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(appInstance *app.App) error {
	cfg := appInstance.Config

	queues := cfg.Worker.Queues
	if len(queues) == 0 {
		queues = map[string]int{
			tasks.QueueClassification: 6,
			tasks.QueueEmbeddings:     3,
			"default":                 1,
		}
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: cfg.Worker.Concurrency,
			Queues:      queues,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Errorf("Task failed: type=%s payload=%s err=%v", task.Type(), string(task.Payload()), err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	worker.RegisterHandlers(mux, worker.Deps{
		Posts:    appInstance.PostService,
		Related:  appInstance.RelatedService,
		JobStore: appInstance.JobStore,
	})

	log.Infof("Starting worker (concurrency=%d, queues=%v)", cfg.Worker.Concurrency, queues)
	if err := srv.Start(mux); err != nil {
		return fmt.Errorf("failed to start worker server: %w", err)
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	log.Info("Shutdown signal received, draining in-flight tasks...")
	srv.Shutdown()
	appInstance.Close()
	return nil
}
