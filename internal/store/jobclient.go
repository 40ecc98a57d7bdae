package store

import (
	"context"
	"fmt"

	"taxon/internal/models"
	"taxon/internal/tasks"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"
)

// AsynqJobClient enqueues background tasks and records them to the JobStore.
var _ JobClient = (*AsynqJobClient)(nil)

type AsynqJobClient struct {
	client   *asynq.Client
	jobStore JobStore
}

func NewAsynqJobClient(redisAddr, redisPassword string, redisDB int, js JobStore) (*AsynqJobClient, error) {
	if js == nil {
		return nil, fmt.Errorf("JobStore cannot be nil for AsynqJobClient")
	}
	cli := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})
	return &AsynqJobClient{client: cli, jobStore: js}, nil
}

func (jc *AsynqJobClient) Close() error {
	return jc.client.Close()
}

// Enqueue enqueues a task and records the event to the JobStore. Recording
// failures are logged, not propagated: the task is already on the queue.
func (jc *AsynqJobClient) Enqueue(ctx context.Context, task *asynq.Task, relatedEntityType string, relatedEntityID int64, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if jc.client == nil {
		return nil, fmt.Errorf("asynq client is not initialized")
	}
	info, err := jc.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return nil, fmt.Errorf("enqueue task %s: %w", task.Type(), err)
	}

	jobUUID, err := uuid.Parse(info.ID)
	if err != nil {
		log.Errorf("Failed to parse asynq task ID %q as UUID: %v", info.ID, err)
	}

	recordParams := JobRecordParams{
		JobID:             jobUUID,
		TaskType:          task.Type(),
		Payload:           task.Payload(),
		Queue:             info.Queue,
		Status:            models.JobStatusEnqueued,
		RelatedEntityType: relatedEntityType,
		RelatedEntityID:   relatedEntityID,
	}
	if err := jc.jobStore.RecordJobEnqueue(ctx, recordParams); err != nil {
		log.Errorf("Failed to record job enqueue event for task %s: %v", info.ID, err)
	}

	return info, nil
}

func (jc *AsynqJobClient) EnqueueClassifyPost(ctx context.Context, postID int64) error {
	task, err := tasks.NewClassifyPostTask(postID)
	if err != nil {
		return err
	}
	if _, err := jc.Enqueue(ctx, task, "post", postID, asynq.Queue(tasks.QueueClassification)); err != nil {
		return fmt.Errorf("enqueue classify job for post %d: %w", postID, err)
	}
	return nil
}

func (jc *AsynqJobClient) EnqueueEmbedPost(ctx context.Context, postID int64) error {
	task, err := tasks.NewEmbedPostTask(postID)
	if err != nil {
		return err
	}
	if _, err := jc.Enqueue(ctx, task, "post", postID, asynq.Queue(tasks.QueueEmbeddings)); err != nil {
		return fmt.Errorf("enqueue embed job for post %d: %w", postID, err)
	}
	return nil
}
