package classifier

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

// Request holds the text to classify plus the caller's valid category names.
type Request struct {
	Content             string
	AvailableCategories []string
}

// RawSuggestion is the model's unvalidated output. Category names in here
// are untrusted and must pass through Resolve before being returned to a
// caller.
type RawSuggestion struct {
	Categories []string
	Tags       []string
	Confidence *float64
}

// Result is the final, validated classification. Every entry in Categories
// is a case-accurate member of the available-category list the caller
// supplied.
type Result struct {
	Categories        []string `json:"categories"`
	Tags              []string `json:"tags"`
	Confidence        float64  `json:"confidence"`
	OriginalLanguage  string   `json:"original_language"`
	TranslatedContent string   `json:"translated_content"`
}

// NormalizedText is the output of language normalization.
type NormalizedText struct {
	TranslatedText   string
	DetectedLanguage string
}

// ChatCompleter is the minimal OpenAI-compatible surface the classifier
// needs. *openai.Client satisfies it.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Normalizer detects the source language and produces an English rendering
// of the text. Implementations never fail: on any error the input is
// passed through unchanged.
type Normalizer interface {
	Normalize(ctx context.Context, text string) NormalizedText
}

// Classifier proposes raw categories for normalized text.
type Classifier interface {
	Classify(ctx context.Context, normalizedText string, availableCategories []string) (*RawSuggestion, error)
}

// Usage reports token consumption of a single model call so the caller can
// account for cost.
type Usage struct {
	Service      string
	Model        string
	InputTokens  int
	OutputTokens int
}

// UsageRecorder receives usage events. A nil recorder is allowed everywhere
// one is accepted.
type UsageRecorder interface {
	Record(ctx context.Context, u Usage) error
}
