package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
)

// ErrDisabled is returned by Classify when no model client is configured.
var ErrDisabled = errors.New("classifier: no model client configured")

const classifyPrompt = `You are categorizing a community forum post.

Valid categories (use these names EXACTLY as written):
%s

Rules:
- Pick 1 to 3 categories, ordered by relevance. Use more than one only
  when the post genuinely spans multiple domains.
- If the post is gibberish, extremely short, or spam, use "Other".
- Suggest up to 5 short lowercase tags.
- Report your confidence between 0 and 1.

Respond with ONLY a JSON object in this exact shape:
{"categories": ["..."], "tags": ["..."], "confidence": 0.0}

Post:
%s`

// LLMClassifier asks the model to propose categories for normalized text.
// Unlike the normalizer it does not fail open itself: a bad response is a
// hard failure for the call, and the resolver treats it as "no suggestion".
type LLMClassifier struct {
	client   ChatCompleter
	model    string
	recorder UsageRecorder
}

func NewLLMClassifier(client ChatCompleter, model string, recorder UsageRecorder) *LLMClassifier {
	return &LLMClassifier{client: client, model: model, recorder: recorder}
}

func (c *LLMClassifier) Classify(ctx context.Context, normalizedText string, availableCategories []string) (*RawSuggestion, error) {
	if c.client == nil {
		return nil, ErrDisabled
	}

	prompt := fmt.Sprintf(classifyPrompt, strings.Join(availableCategories, ", "), normalizedText)
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned from model")
	}

	c.recordUsage(ctx, resp)

	body, err := extractJSON(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("malformed classification response: %w", err)
	}

	var parsed struct {
		Categories []string `json:"categories"`
		Category   string   `json:"category"`
		Tags       []string `json:"tags"`
		Confidence *float64 `json:"confidence"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("malformed classification response: %w", err)
	}

	// Some models answer with a singular "category" despite the prompt.
	cats := parsed.Categories
	if len(cats) == 0 && parsed.Category != "" {
		cats = []string{parsed.Category}
	}

	return &RawSuggestion{
		Categories: cats,
		Tags:       parsed.Tags,
		Confidence: parsed.Confidence,
	}, nil
}

func (c *LLMClassifier) recordUsage(ctx context.Context, resp openai.ChatCompletionResponse) {
	if c.recorder == nil || resp.Usage.TotalTokens == 0 {
		return
	}
	u := Usage{
		Service:      "classification",
		Model:        c.model,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}
	if err := c.recorder.Record(ctx, u); err != nil {
		log.Errorf("Failed to record AI usage for classification: %v", err)
	}
}

// extractJSON returns the JSON body of a model response, tolerating a
// fenced code block wrapper (```json ... ```). Anything else is rejected.
func extractJSON(content string) ([]byte, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx >= 0 {
			content = content[:idx]
		}
		content = strings.TrimSpace(content)
	}
	raw := []byte(content)
	if !json.Valid(raw) {
		return nil, fmt.Errorf("response is not valid JSON: %q", truncateForError(content))
	}
	return bytes.TrimSpace(raw), nil
}

func truncateForError(s string) string {
	const max = 120
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
