package services

import (
	"context"
	"fmt"
	"os"

	"taxon/internal/store"

	"github.com/google/generative-ai-go/genai"
	"github.com/pgvector/pgvector-go"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// GeminiProvider generates embeddings via the Google Gemini API.
type GeminiProvider struct {
	client         *genai.Client
	embeddingModel string
	dim            int
}

// NewGeminiProvider creates a new Gemini embedding provider. A missing API
// key yields a disabled provider, not an error.
func NewGeminiProvider(ctx context.Context, apiKey, modelName string) (*GeminiProvider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		log.Warn("Gemini API key not provided. Gemini provider will be disabled.")
		return &GeminiProvider{client: nil}, nil
	}

	var dim int
	switch modelName {
	case "models/embedding-001", "models/text-embedding-004":
		dim = 768
	default:
		log.Warnf("Unknown Gemini embedding model %q, defaulting dimension to 768", modelName)
		dim = 768
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client:         client,
		embeddingModel: modelName,
		dim:            dim,
	}, nil
}

func (p *GeminiProvider) Name() string      { return "gemini" }
func (p *GeminiProvider) ModelName() string { return p.embeddingModel }
func (p *GeminiProvider) Dimension() int    { return p.dim }

func (p *GeminiProvider) Status() store.ProviderStatus {
	if p.client == nil {
		return store.ProviderStatusDisabled
	}
	return store.ProviderStatusActive
}

func (p *GeminiProvider) GenerateEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	if p.client == nil {
		return pgvector.Vector{}, fmt.Errorf("Gemini provider is not initialized (missing API key)")
	}
	if text == "" {
		return pgvector.NewVector(make([]float32, p.dim)), nil
	}

	em := p.client.EmbeddingModel(p.embeddingModel)
	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("Gemini API error generating embedding: %w", err)
	}
	if res == nil || res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return pgvector.Vector{}, fmt.Errorf("Gemini API returned no embedding data")
	}
	if len(res.Embedding.Values) != p.dim {
		return pgvector.Vector{}, fmt.Errorf("Gemini API returned unexpected embedding dimension: got %d, want %d", len(res.Embedding.Values), p.dim)
	}

	return pgvector.NewVector(res.Embedding.Values), nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

var _ EmbeddingProvider = (*GeminiProvider)(nil)
