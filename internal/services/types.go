package services

import (
	"context"
	"sync"

	"github.com/pgvector/pgvector-go"

	"taxon/internal/store"
)

// EmbeddingProvider is a single backend capable of producing embeddings.
type EmbeddingProvider interface {
	Name() string
	ModelName() string
	Status() store.ProviderStatus
	GenerateEmbedding(ctx context.Context, text string) (pgvector.Vector, error)
	Dimension() int
}

type RetryStrategy interface {
	NextBackoff(attempt int) int64 // ms, negative means stop
}

// FallbackEmbeddingService tries providers in order, retrying each per the
// strategy before rotating to the next.
type FallbackEmbeddingService struct {
	Providers      []EmbeddingProvider
	ActiveProvider int
	RetryStrategy  RetryStrategy
	mu             sync.RWMutex
}

func (s *FallbackEmbeddingService) ModelName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.Providers) == 0 || s.ActiveProvider < 0 || s.ActiveProvider >= len(s.Providers) {
		return ""
	}
	return s.Providers[s.ActiveProvider].ModelName()
}

func (s *FallbackEmbeddingService) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.Providers) == 0 || s.ActiveProvider < 0 || s.ActiveProvider >= len(s.Providers) {
		return ""
	}
	return s.Providers[s.ActiveProvider].Name()
}

func (s *FallbackEmbeddingService) Status() store.ProviderStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.Providers) == 0 || s.ActiveProvider < 0 || s.ActiveProvider >= len(s.Providers) {
		return store.ProviderStatusDisabled
	}
	return s.Providers[s.ActiveProvider].Status()
}

var _ store.EmbeddingService = (*FallbackEmbeddingService)(nil)

// SimpleRetryStrategy provides basic exponential backoff.
type SimpleRetryStrategy struct {
	MaxAttempts int
	BaseDelayMs int64
}

// NextBackoff calculates the next backoff duration in milliseconds. A
// negative result means stop retrying the current provider.
func (s *SimpleRetryStrategy) NextBackoff(attempt int) int64 {
	if s.MaxAttempts <= 0 || attempt >= s.MaxAttempts {
		return -1
	}
	backoff := s.BaseDelayMs * (1 << attempt)
	const maxDelay = int64(30000)
	if backoff > maxDelay {
		backoff = maxDelay
	}
	return backoff
}
