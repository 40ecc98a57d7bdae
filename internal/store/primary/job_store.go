package primary

import (
	"context"
	"fmt"
	"time"

	"taxon/internal/models"
	"taxon/internal/store"

	"github.com/google/uuid"
)

func (s *StoreImpl) RecordJobEnqueue(ctx context.Context, params store.JobRecordParams) error {
	query := `
		INSERT INTO background_jobs (job_id, task_type, payload, queue, status, related_entity_type, related_entity_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`

	var entityType *string
	if params.RelatedEntityType != "" {
		entityType = &params.RelatedEntityType
	}
	var entityID *int64
	if params.RelatedEntityID != 0 {
		entityID = &params.RelatedEntityID
	}

	_, err := s.db.Exec(ctx, query,
		params.JobID, params.TaskType, params.Payload, params.Queue,
		params.Status, entityType, entityID, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to record job enqueue for task %s: %w", params.JobID, err)
	}
	return nil
}

func (s *StoreImpl) UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status string) error {
	query := `UPDATE background_jobs SET status = $2, updated_at = $3 WHERE job_id = $1`
	tag, err := s.db.Exec(ctx, query, jobID, status, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update status for job %s: %w", jobID, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *StoreImpl) ListJobs(ctx context.Context, limit, offset int) ([]*models.BackgroundJob, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, job_id, task_type, payload, queue, status, related_entity_type, related_entity_id, created_at, updated_at
		FROM background_jobs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := s.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.BackgroundJob
	for rows.Next() {
		job := &models.BackgroundJob{}
		err := rows.Scan(
			&job.ID,
			&job.JobID,
			&job.TaskType,
			&job.Payload,
			&job.Queue,
			&job.Status,
			&job.RelatedEntityType,
			&job.RelatedEntityID,
			&job.CreatedAt,
			&job.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating job rows: %w", err)
	}
	return jobs, nil
}

var _ store.JobStore = (*StoreImpl)(nil)
