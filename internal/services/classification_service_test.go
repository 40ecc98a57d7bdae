package services

import (
	"context"
	"errors"
	"testing"

	"taxon/internal/catcache"
	"taxon/pkg/classifier"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubNormalizer struct {
	result classifier.NormalizedText
	got    string
}

func (s *stubNormalizer) Normalize(ctx context.Context, text string) classifier.NormalizedText {
	s.got = text
	if s.result.TranslatedText == "" {
		return classifier.NormalizedText{TranslatedText: text, DetectedLanguage: "English"}
	}
	return s.result
}

type stubClassifier struct {
	suggestion *classifier.RawSuggestion
	err        error
	gotText    string
	gotCats    []string
}

func (s *stubClassifier) Classify(ctx context.Context, normalizedText string, availableCategories []string) (*classifier.RawSuggestion, error) {
	s.gotText = normalizedText
	s.gotCats = availableCategories
	return s.suggestion, s.err
}

func staticNames(names []string) *catcache.NameCache {
	return catcache.New(func(ctx context.Context) ([]string, error) {
		return names, nil
	})
}

func TestClassifyUsesModelSuggestion(t *testing.T) {
	conf := 0.9
	model := &stubClassifier{
		suggestion: &classifier.RawSuggestion{
			Categories: []string{"Design"},
			Tags:       []string{"ui"},
			Confidence: &conf,
		},
	}
	svc := NewClassificationService(&stubNormalizer{}, model, staticNames([]string{"Design", "Other"}), 0)

	result, err := svc.Classify(context.Background(), "A post about layout and typography.", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Design"}, result.Categories)
	assert.Equal(t, []string{"ui"}, result.Tags)
	assert.InDelta(t, 0.9, result.Confidence, 1e-9)
	assert.Equal(t, "English", result.OriginalLanguage)
	assert.Equal(t, []string{"Design", "Other"}, model.gotCats)
}

func TestClassifyModelFailureFallsBackToHeuristics(t *testing.T) {
	model := &stubClassifier{err: errors.New("rate limited")}
	svc := NewClassificationService(&stubNormalizer{}, model, staticNames([]string{"Business", "Other"}), 0)

	result, err := svc.Classify(context.Background(), "Looking for freelance budgeting advice for my small business.", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Business"}, result.Categories)
}

func TestClassifyCallerCategoriesSkipStore(t *testing.T) {
	cacheCalled := false
	cache := catcache.New(func(ctx context.Context) ([]string, error) {
		cacheCalled = true
		return []string{"ShouldNotBeUsed"}, nil
	})
	model := &stubClassifier{suggestion: &classifier.RawSuggestion{Categories: []string{"Design"}}}
	svc := NewClassificationService(&stubNormalizer{}, model, cache, 0)

	result, err := svc.Classify(context.Background(), "some text about things", []string{"Design", "Other"})
	require.NoError(t, err)
	assert.False(t, cacheCalled)
	assert.Equal(t, []string{"Design"}, result.Categories)
}

func TestClassifyStoreFailureWithoutCallerListFails(t *testing.T) {
	cache := catcache.New(func(ctx context.Context) ([]string, error) {
		return nil, errors.New("db down")
	})
	svc := NewClassificationService(&stubNormalizer{}, &stubClassifier{}, cache, 0)

	_, err := svc.Classify(context.Background(), "anything", nil)
	require.Error(t, err)
}

func TestClassifyStripsHTMLBeforeModel(t *testing.T) {
	norm := &stubNormalizer{}
	model := &stubClassifier{}
	svc := NewClassificationService(norm, model, staticNames([]string{"Other"}), 0)

	_, err := svc.Classify(context.Background(), "<p>clean <b>words</b> only</p><script>x()</script>", nil)
	require.NoError(t, err)
	assert.Equal(t, "clean words only", norm.got)
}

func TestClassifyTranslatedTextFlowsThrough(t *testing.T) {
	norm := &stubNormalizer{result: classifier.NormalizedText{
		TranslatedText:   "Hello, I need help with my garden.",
		DetectedLanguage: "Spanish",
	}}
	model := &stubClassifier{}
	svc := NewClassificationService(norm, model, staticNames([]string{"Other"}), 0)

	result, err := svc.Classify(context.Background(), "Hola, necesito ayuda con mi jardín.", nil)
	require.NoError(t, err)
	assert.Equal(t, "Spanish", result.OriginalLanguage)
	assert.Equal(t, "Hello, I need help with my garden.", result.TranslatedContent)
	assert.Equal(t, "Hello, I need help with my garden.", model.gotText)
}
