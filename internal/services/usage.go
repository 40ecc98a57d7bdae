package services

import (
	"context"
	"time"

	"taxon/internal/config"
	"taxon/internal/models"
	"taxon/internal/store"
	"taxon/pkg/classifier"

	log "github.com/sirupsen/logrus"
)

// storeUsageRecorder persists classifier token usage to the usage store,
// pricing each call from the configured per-model rates.
type storeUsageRecorder struct {
	usageStore store.UsageStore
	provider   string
	pricing    map[string]config.PricingInfo
}

// NewUsageRecorder returns a classifier.UsageRecorder backed by the usage
// store, or nil when no store is available.
func NewUsageRecorder(usageStore store.UsageStore, provider string, pricing map[string]config.PricingInfo) classifier.UsageRecorder {
	if usageStore == nil {
		return nil
	}
	return &storeUsageRecorder{usageStore: usageStore, provider: provider, pricing: pricing}
}

func (r *storeUsageRecorder) Record(ctx context.Context, u classifier.Usage) error {
	var cost float64
	if priceInfo, ok := r.pricing[u.Model]; ok {
		cost = float64(u.InputTokens)*priceInfo.InputPerToken + float64(u.OutputTokens)*priceInfo.OutputPerToken
	} else {
		log.Warnf("Pricing info not found for model %q. Recording usage with zero cost.", u.Model)
	}
	entry := &models.AIUsageLog{
		Timestamp:    time.Now(),
		ProviderName: r.provider,
		ServiceType:  u.Service,
		ModelName:    u.Model,
		InputTokens:  u.InputTokens,
		OutputTokens: u.OutputTokens,
		Cost:         cost,
	}
	return r.usageStore.RecordUsage(ctx, entry)
}
