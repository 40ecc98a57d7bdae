package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
)

const normalizePrompt = `Detect the language of the text below and translate it to English.
Respond with ONLY a JSON object in this exact shape:
{"detected_language": "<language name in English>", "translated_text": "<English translation>"}
If the text is already English, return it unchanged with detected_language "English".

Text:
%s`

// LLMNormalizer performs language detection and translation-to-English via
// a single chat completion. It fails open: a missing client, an API error,
// or a malformed response all degrade to returning the input unchanged
// with language "English". There is no retry.
type LLMNormalizer struct {
	client   ChatCompleter
	model    string
	recorder UsageRecorder
}

// NewLLMNormalizer creates a normalizer. client may be nil, in which case
// every call is a pass-through.
func NewLLMNormalizer(client ChatCompleter, model string, recorder UsageRecorder) *LLMNormalizer {
	return &LLMNormalizer{client: client, model: model, recorder: recorder}
}

func (n *LLMNormalizer) Normalize(ctx context.Context, text string) NormalizedText {
	passthrough := NormalizedText{TranslatedText: text, DetectedLanguage: "English"}
	if n.client == nil || strings.TrimSpace(text) == "" {
		return passthrough
	}

	resp, err := n.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: n.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(normalizePrompt, text)},
		},
	})
	if err != nil {
		log.Warnf("Language normalization failed, passing text through: %v", err)
		return passthrough
	}
	if len(resp.Choices) == 0 {
		log.Warn("Language normalization returned no choices, passing text through")
		return passthrough
	}

	n.recordUsage(ctx, resp)

	var parsed struct {
		DetectedLanguage string `json:"detected_language"`
		TranslatedText   string `json:"translated_text"`
	}
	body, err := extractJSON(resp.Choices[0].Message.Content)
	if err != nil {
		log.Warnf("Language normalization response is not JSON, passing text through: %v", err)
		return passthrough
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		log.Warnf("Failed to parse normalization response, passing text through: %v", err)
		return passthrough
	}
	if parsed.DetectedLanguage == "" || parsed.TranslatedText == "" {
		log.Warn("Normalization response missing fields, passing text through")
		return passthrough
	}

	return NormalizedText{
		TranslatedText:   parsed.TranslatedText,
		DetectedLanguage: parsed.DetectedLanguage,
	}
}

func (n *LLMNormalizer) recordUsage(ctx context.Context, resp openai.ChatCompletionResponse) {
	if n.recorder == nil || resp.Usage.TotalTokens == 0 {
		return
	}
	u := Usage{
		Service:      "normalization",
		Model:        n.model,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}
	if err := n.recorder.Record(ctx, u); err != nil {
		log.Errorf("Failed to record AI usage for normalization: %v", err)
	}
}
