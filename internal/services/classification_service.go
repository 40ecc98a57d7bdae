package services

import (
	"context"
	"errors"
	"fmt"

	"taxon/internal/catcache"
	"taxon/internal/textutil"
	"taxon/pkg/classifier"

	log "github.com/sirupsen/logrus"
)

// ClassificationService runs the full pipeline for one piece of text:
// cleanup, language normalization, model suggestion, then deterministic
// resolution against the valid category list. Model failures degrade to
// heuristic-only resolution; only a failure to load the category list when
// the caller did not supply one is a hard error.
type ClassificationService struct {
	normalizer classifier.Normalizer
	model      classifier.Classifier
	nameCache  *catcache.NameCache
	maxChars   int
}

func NewClassificationService(normalizer classifier.Normalizer, model classifier.Classifier, nameCache *catcache.NameCache, maxChars int) *ClassificationService {
	return &ClassificationService{
		normalizer: normalizer,
		model:      model,
		nameCache:  nameCache,
		maxChars:   maxChars,
	}
}

// Classify categorizes content against availableCategories. When the caller
// passes no categories, the stored category list is used instead.
func (s *ClassificationService) Classify(ctx context.Context, content string, availableCategories []string) (classifier.Result, error) {
	if len(availableCategories) == 0 && s.nameCache != nil {
		names, err := s.nameCache.GetOrLoad(ctx)
		if err != nil {
			return classifier.Result{}, fmt.Errorf("load available categories: %w", err)
		}
		availableCategories = names
	}

	cleaned := textutil.CollapseWhitespace(textutil.StripHTML(content))
	if s.maxChars > 0 {
		cleaned = textutil.TruncateSentences(cleaned, s.maxChars)
	}

	normalized := s.normalizer.Normalize(ctx, cleaned)

	var raw *classifier.RawSuggestion
	if s.model != nil {
		suggestion, err := s.model.Classify(ctx, normalized.TranslatedText, availableCategories)
		if err != nil {
			if !errors.Is(err, classifier.ErrDisabled) {
				log.Warnf("Model classification failed, falling back to heuristics: %v", err)
			}
		} else {
			raw = suggestion
		}
	}

	result := classifier.Resolve(raw, normalized.TranslatedText, availableCategories)
	result.OriginalLanguage = normalized.DetectedLanguage
	result.TranslatedContent = normalized.TranslatedText
	return result, nil
}
