package primary

import (
	"context"
	"fmt"
	"time"

	"taxon/internal/models"
	"taxon/internal/store"
)

func (s *StoreImpl) RecordUsage(ctx context.Context, entry *models.AIUsageLog) error {
	query := `
		INSERT INTO ai_usage_log (timestamp, provider_name, service_type, model_name, input_tokens, output_tokens, cost, related_post_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	err := s.db.QueryRow(ctx, query,
		entry.Timestamp, entry.ProviderName, entry.ServiceType, entry.ModelName,
		entry.InputTokens, entry.OutputTokens, entry.Cost, entry.RelatedPostID,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to record AI usage: %w", err)
	}
	return nil
}

func (s *StoreImpl) ListUsage(ctx context.Context, limit, offset int) ([]*models.AIUsageLog, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, timestamp, provider_name, service_type, model_name, input_tokens, output_tokens, cost, related_post_id
		FROM ai_usage_log
		ORDER BY timestamp DESC
		LIMIT $1 OFFSET $2`
	rows, err := s.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list AI usage: %w", err)
	}
	defer rows.Close()

	var entries []*models.AIUsageLog
	for rows.Next() {
		entry := &models.AIUsageLog{}
		err := rows.Scan(
			&entry.ID,
			&entry.Timestamp,
			&entry.ProviderName,
			&entry.ServiceType,
			&entry.ModelName,
			&entry.InputTokens,
			&entry.OutputTokens,
			&entry.Cost,
			&entry.RelatedPostID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan usage row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating usage rows: %w", err)
	}
	return entries, nil
}

func (s *StoreImpl) GetUsageSummary(ctx context.Context) (float64, int64, int64, error) {
	query := `
		SELECT COALESCE(SUM(cost), 0), COALESCE(SUM(input_tokens), 0), COALESCE(SUM(output_tokens), 0)
		FROM ai_usage_log`
	var totalCost float64
	var totalInput, totalOutput int64
	if err := s.db.QueryRow(ctx, query).Scan(&totalCost, &totalInput, &totalOutput); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to get usage summary: %w", err)
	}
	return totalCost, totalInput, totalOutput, nil
}

var _ store.UsageStore = (*StoreImpl)(nil)
