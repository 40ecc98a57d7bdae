package services

import (
	"context"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"
	log "github.com/sirupsen/logrus"
)

// NewFallbackEmbeddingService creates a fallback service over the given
// providers. All providers must produce vectors of the same dimension so a
// mid-stream provider switch doesn't corrupt the index.
func NewFallbackEmbeddingService(providers []EmbeddingProvider, strategy RetryStrategy) (*FallbackEmbeddingService, error) {
	if len(providers) == 0 {
		return nil, fmt.Errorf("at least one embedding provider is required")
	}
	if strategy == nil {
		strategy = &SimpleRetryStrategy{MaxAttempts: 3, BaseDelayMs: 100}
	}
	dim := providers[0].Dimension()
	for i := 1; i < len(providers); i++ {
		if providers[i].Dimension() != dim {
			return nil, fmt.Errorf("all embedding providers must have the same dimension (provider %s has %d, expected %d)",
				providers[i].Name(), providers[i].Dimension(), dim)
		}
	}

	return &FallbackEmbeddingService{
		Providers:      providers,
		ActiveProvider: 0,
		RetryStrategy:  strategy,
	}, nil
}

func (s *FallbackEmbeddingService) Dimension() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.Providers) == 0 {
		return 0
	}
	return s.Providers[s.ActiveProvider].Dimension()
}

// GenerateEmbedding tries providers with retries until one succeeds or all
// have been cycled through.
func (s *FallbackEmbeddingService) GenerateEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	s.mu.RLock()
	initialProviderIndex := s.ActiveProvider
	numProviders := len(s.Providers)
	s.mu.RUnlock()
	if numProviders == 0 {
		return pgvector.Vector{}, fmt.Errorf("no embedding providers configured")
	}

	var lastErr error
	attempt := 0

	for {
		s.mu.RLock()
		provider := s.Providers[s.ActiveProvider]
		s.mu.RUnlock()

		vec, err := provider.GenerateEmbedding(ctx, text)
		if ctx.Err() != nil {
			return pgvector.Vector{}, fmt.Errorf("context cancelled during embedding generation: %w", ctx.Err())
		}
		if err == nil {
			return vec, nil
		}

		lastErr = fmt.Errorf("provider %s failed: %w", provider.Name(), err)
		log.Warnf("Embedding provider %s failed (attempt %d): %v", provider.Name(), attempt+1, err)

		backoffMs := s.RetryStrategy.NextBackoff(attempt)
		if backoffMs < 0 {
			// Exhausted retries on this provider, rotate to the next.
			s.mu.Lock()
			nextProviderIndex := (s.ActiveProvider + 1) % numProviders
			if nextProviderIndex == initialProviderIndex {
				s.mu.Unlock()
				return pgvector.Vector{}, fmt.Errorf("all embedding providers failed: last error: %w", lastErr)
			}
			s.ActiveProvider = nextProviderIndex
			log.Infof("Switching active embedding provider to %s", s.Providers[nextProviderIndex].Name())
			s.mu.Unlock()

			attempt = 0
			continue
		}

		select {
		case <-time.After(time.Duration(backoffMs) * time.Millisecond):
			attempt++
		case <-ctx.Done():
			return pgvector.Vector{}, fmt.Errorf("context cancelled while waiting to retry: %w", ctx.Err())
		}
	}
}
