package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock OpenAI Client ---

type mockChatClient struct {
	mockResponse openai.ChatCompletionResponse
	mockError    error
	lastRequest  openai.ChatCompletionRequest
}

func (m *mockChatClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.lastRequest = req
	if m.mockError != nil {
		return openai.ChatCompletionResponse{}, m.mockError
	}
	return m.mockResponse, nil
}

func chatResponse(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func TestLLMClassifier_Classify_Parsing(t *testing.T) {
	mockClient := &mockChatClient{
		mockResponse: chatResponse(`{"categories": ["Business", "Design"], "tags": ["freelance", "logo"], "confidence": 0.85}`),
	}
	c := NewLLMClassifier(mockClient, "gpt-test", nil)

	raw, err := c.Classify(context.Background(), "starting a design business", forumCategories)

	require.NoError(t, err)
	assert.Equal(t, []string{"Business", "Design"}, raw.Categories)
	assert.Equal(t, []string{"freelance", "logo"}, raw.Tags)
	require.NotNil(t, raw.Confidence)
	assert.Equal(t, 0.85, *raw.Confidence)
}

func TestLLMClassifier_Classify_PromptEmbedsCategoryNames(t *testing.T) {
	mockClient := &mockChatClient{mockResponse: chatResponse(`{"categories": ["Other"]}`)}
	c := NewLLMClassifier(mockClient, "gpt-test", nil)

	_, err := c.Classify(context.Background(), "hello", []string{"Design", "Jobs"})

	require.NoError(t, err)
	require.Len(t, mockClient.lastRequest.Messages, 1)
	prompt := mockClient.lastRequest.Messages[0].Content
	assert.Contains(t, prompt, "Design, Jobs")
	assert.Contains(t, prompt, "hello")
}

func TestLLMClassifier_Classify_FencedCodeBlock(t *testing.T) {
	fenced := "```json\n{\"categories\": [\"Jobs\"], \"confidence\": 0.6}\n```"
	mockClient := &mockChatClient{mockResponse: chatResponse(fenced)}
	c := NewLLMClassifier(mockClient, "gpt-test", nil)

	raw, err := c.Classify(context.Background(), "we are hiring", forumCategories)

	require.NoError(t, err)
	assert.Equal(t, []string{"Jobs"}, raw.Categories)
}

func TestLLMClassifier_Classify_SingularCategoryTolerated(t *testing.T) {
	mockClient := &mockChatClient{mockResponse: chatResponse(`{"category": "Career", "confidence": 0.7}`)}
	c := NewLLMClassifier(mockClient, "gpt-test", nil)

	raw, err := c.Classify(context.Background(), "resume advice", forumCategories)

	require.NoError(t, err)
	assert.Equal(t, []string{"Career"}, raw.Categories)
}

func TestLLMClassifier_Classify_InvalidJSON(t *testing.T) {
	mockClient := &mockChatClient{mockResponse: chatResponse(`This is just plain text, not JSON.`)}
	c := NewLLMClassifier(mockClient, "gpt-test", nil)

	_, err := c.Classify(context.Background(), "hello", forumCategories)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed classification response")
}

func TestLLMClassifier_Classify_MissingFields(t *testing.T) {
	cases := []struct {
		name          string
		jsonResponse  string
		expectedCats  []string
		expectNilConf bool
	}{
		{"missing confidence", `{"categories": ["Jobs"]}`, []string{"Jobs"}, true},
		{"missing categories", `{"tags": ["x"], "confidence": 0.9}`, nil, false},
		{"empty object", `{}`, nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockClient := &mockChatClient{mockResponse: chatResponse(tc.jsonResponse)}
			c := NewLLMClassifier(mockClient, "gpt-test", nil)

			raw, err := c.Classify(context.Background(), "hello", forumCategories)

			require.NoError(t, err)
			assert.Equal(t, tc.expectedCats, raw.Categories)
			if tc.expectNilConf {
				assert.Nil(t, raw.Confidence)
			}
		})
	}
}

func TestLLMClassifier_Classify_APIError(t *testing.T) {
	mockErr := errors.New("simulated API error 429 Too Many Requests")
	mockClient := &mockChatClient{mockError: mockErr}
	c := NewLLMClassifier(mockClient, "gpt-test", nil)

	_, err := c.Classify(context.Background(), "hello", forumCategories)

	require.Error(t, err)
	assert.ErrorIs(t, err, mockErr)
}

func TestLLMClassifier_Classify_EmptyChoices(t *testing.T) {
	mockClient := &mockChatClient{mockResponse: openai.ChatCompletionResponse{}}
	c := NewLLMClassifier(mockClient, "gpt-test", nil)

	_, err := c.Classify(context.Background(), "hello", forumCategories)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestLLMClassifier_Classify_Disabled(t *testing.T) {
	c := NewLLMClassifier(nil, "gpt-test", nil)

	_, err := c.Classify(context.Background(), "hello", forumCategories)

	assert.ErrorIs(t, err, ErrDisabled)
}
