package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"taxon/internal/config"
	"taxon/internal/models"
	"taxon/internal/store"

	"github.com/pgvector/pgvector-go"
	"github.com/sashabaranov/go-openai"

	log "github.com/sirupsen/logrus"
)

// OpenAIProvider generates embeddings via the OpenAI API.
type OpenAIProvider struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dim        int
	usageStore store.UsageStore
	pricing    map[string]config.PricingInfo
}

// NewOpenAIProvider creates a new OpenAI embedding provider. A missing API
// key yields a disabled provider, not an error.
func NewOpenAIProvider(apiKey, modelID string, usageStore store.UsageStore, pricing map[string]config.PricingInfo) (*OpenAIProvider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		log.Warn("OpenAI API key not provided. OpenAI provider will be disabled.")
		return &OpenAIProvider{client: nil}, nil
	}

	var dim int
	switch modelID {
	case string(openai.AdaEmbeddingV2), "text-embedding-3-small":
		dim = 1536
	case "text-embedding-3-large":
		dim = 3072
	default:
		log.Warnf("Unknown OpenAI embedding model %q, defaulting dimension to 1536", modelID)
		dim = 1536
	}

	return &OpenAIProvider{
		client:     openai.NewClient(apiKey),
		model:      openai.EmbeddingModel(modelID),
		dim:        dim,
		usageStore: usageStore,
		pricing:    pricing,
	}, nil
}

func (p *OpenAIProvider) Name() string      { return "openai" }
func (p *OpenAIProvider) ModelName() string { return string(p.model) }
func (p *OpenAIProvider) Dimension() int    { return p.dim }

func (p *OpenAIProvider) Status() store.ProviderStatus {
	if p.client == nil {
		return store.ProviderStatusDisabled
	}
	return store.ProviderStatusActive
}

func (p *OpenAIProvider) GenerateEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	if p.client == nil {
		return pgvector.Vector{}, fmt.Errorf("OpenAI provider is not initialized (missing API key)")
	}
	if text == "" {
		return pgvector.NewVector(make([]float32, p.dim)), nil
	}

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{text},
		Model: p.model,
	})
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("OpenAI API error generating embedding: %w", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return pgvector.Vector{}, fmt.Errorf("OpenAI API returned no embedding data")
	}
	if len(resp.Data[0].Embedding) != p.dim {
		return pgvector.Vector{}, fmt.Errorf("OpenAI API returned unexpected embedding dimension: got %d, want %d", len(resp.Data[0].Embedding), p.dim)
	}

	p.recordUsage(ctx, resp.Usage.TotalTokens)

	return pgvector.NewVector(resp.Data[0].Embedding), nil
}

func (p *OpenAIProvider) recordUsage(ctx context.Context, totalTokens int) {
	if p.usageStore == nil || totalTokens <= 0 {
		return
	}
	priceInfo, ok := p.pricing[p.ModelName()]
	if !ok {
		log.Warnf("Pricing info not found for model %q. Cannot record cost.", p.ModelName())
		return
	}
	// Embedding usage is all input tokens.
	entry := &models.AIUsageLog{
		Timestamp:    time.Now(),
		ProviderName: p.Name(),
		ServiceType:  "embedding",
		ModelName:    p.ModelName(),
		InputTokens:  totalTokens,
		Cost:         float64(totalTokens) * priceInfo.InputPerToken,
	}
	if err := p.usageStore.RecordUsage(ctx, entry); err != nil {
		log.Errorf("Failed to record AI usage log for embedding: %v", err)
	}
}

var _ EmbeddingProvider = (*OpenAIProvider)(nil)
