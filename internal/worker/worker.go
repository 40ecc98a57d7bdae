// Package worker hosts the Asynq task handlers for background
// classification and embedding jobs.
package worker

import (
	"context"
	"fmt"

	"taxon/internal/models"
	"taxon/internal/services"
	"taxon/internal/store"
	"taxon/internal/tasks"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"
)

// Deps carries the services the handlers need.
type Deps struct {
	Posts    *services.PostService
	Related  *services.RelatedService
	JobStore store.JobStore
}

// RegisterHandlers wires every task type onto the mux.
func RegisterHandlers(mux *asynq.ServeMux, deps Deps) {
	mux.HandleFunc(tasks.TypeClassifyPost, HandleClassifyPost(deps))
	if deps.Related != nil {
		mux.HandleFunc(tasks.TypeEmbedPost, HandleEmbedPost(deps))
	} else {
		log.Warn("Related service unavailable, skipping embed task handler registration")
	}
}

// HandleClassifyPost classifies one post and applies the result.
func HandleClassifyPost(deps Deps) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		payload, err := tasks.ParsePostPayload(task.Payload())
		if err != nil {
			// Malformed payloads never succeed on retry.
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		markJobRunning(ctx, deps.JobStore, task)
		result, err := deps.Posts.ClassifyAndApply(ctx, payload.PostID)
		if err != nil {
			markJobStatus(ctx, deps.JobStore, task, models.JobStatusFailed)
			return fmt.Errorf("classify post %d: %w", payload.PostID, err)
		}

		log.Infof("Classified post %d: categories=%v confidence=%.2f", payload.PostID, result.Categories, result.Confidence)
		markJobStatus(ctx, deps.JobStore, task, models.JobStatusCompleted)
		return nil
	}
}

// HandleEmbedPost generates and stores the embedding for one post.
func HandleEmbedPost(deps Deps) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		payload, err := tasks.ParsePostPayload(task.Payload())
		if err != nil {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		markJobRunning(ctx, deps.JobStore, task)
		if err := deps.Related.EmbedPost(ctx, payload.PostID); err != nil {
			markJobStatus(ctx, deps.JobStore, task, models.JobStatusFailed)
			return fmt.Errorf("embed post %d: %w", payload.PostID, err)
		}

		log.Infof("Embedded post %d", payload.PostID)
		markJobStatus(ctx, deps.JobStore, task, models.JobStatusCompleted)
		return nil
	}
}

func markJobRunning(ctx context.Context, js store.JobStore, task *asynq.Task) {
	markJobStatus(ctx, js, task, models.JobStatusRunning)
}

// markJobStatus best-effort updates the audit row for the task. The queue,
// not the audit table, is the source of truth for retries.
func markJobStatus(ctx context.Context, js store.JobStore, task *asynq.Task, status string) {
	if js == nil {
		return
	}
	taskID, ok := asynq.GetTaskID(ctx)
	if !ok {
		return
	}
	jobID, err := uuid.Parse(taskID)
	if err != nil {
		return
	}
	if err := js.UpdateJobStatus(ctx, jobID, status); err != nil {
		log.Debugf("Failed to update job status for task %s: %v", taskID, err)
	}
}
