package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLLMNormalizer_Normalize_Translates(t *testing.T) {
	mockClient := &mockChatClient{
		mockResponse: chatResponse(`{"detected_language": "Spanish", "translated_text": "I need help with my business."}`),
	}
	n := NewLLMNormalizer(mockClient, "gpt-test", nil)

	out := n.Normalize(context.Background(), "Necesito ayuda con mi negocio.")

	assert.Equal(t, "Spanish", out.DetectedLanguage)
	assert.Equal(t, "I need help with my business.", out.TranslatedText)
}

func TestLLMNormalizer_Normalize_NoClientPassesThrough(t *testing.T) {
	n := NewLLMNormalizer(nil, "gpt-test", nil)

	out := n.Normalize(context.Background(), "Bonjour tout le monde")

	assert.Equal(t, "English", out.DetectedLanguage)
	assert.Equal(t, "Bonjour tout le monde", out.TranslatedText)
}

func TestLLMNormalizer_Normalize_FailsOpen(t *testing.T) {
	cases := []struct {
		name   string
		client *mockChatClient
	}{
		{"api error", &mockChatClient{mockError: errors.New("boom")}},
		{"not json", &mockChatClient{mockResponse: chatResponse("sorry, I cannot do that")}},
		{"missing fields", &mockChatClient{mockResponse: chatResponse(`{"detected_language": "French"}`)}},
		{"empty choices", &mockChatClient{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := NewLLMNormalizer(tc.client, "gpt-test", nil)

			out := n.Normalize(context.Background(), "some input text")

			assert.Equal(t, "English", out.DetectedLanguage)
			assert.Equal(t, "some input text", out.TranslatedText)
		})
	}
}

func TestLLMNormalizer_Normalize_FencedResponse(t *testing.T) {
	fenced := "```json\n{\"detected_language\": \"German\", \"translated_text\": \"Hello world\"}\n```"
	n := NewLLMNormalizer(&mockChatClient{mockResponse: chatResponse(fenced)}, "gpt-test", nil)

	out := n.Normalize(context.Background(), "Hallo Welt")

	assert.Equal(t, "German", out.DetectedLanguage)
	assert.Equal(t, "Hello world", out.TranslatedText)
}
