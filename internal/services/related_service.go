package services

import (
	"context"
	"fmt"

	"taxon/internal/models"
	"taxon/internal/store"
	"taxon/internal/textutil"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Post text fed to the embedding model is capped well below typical model
// limits; similarity quality degrades little past this point.
const maxEmbedChars = 8000

// RelatedService maintains post embeddings and serves similarity queries.
type RelatedService struct {
	postStore   store.PostStore
	vectorStore store.VectorStore
	embedder    store.EmbeddingService
}

func NewRelatedService(postStore store.PostStore, vectorStore store.VectorStore, embedder store.EmbeddingService) *RelatedService {
	return &RelatedService{
		postStore:   postStore,
		vectorStore: vectorStore,
		embedder:    embedder,
	}
}

// EmbedPost generates and stores the embedding for a post, replacing any
// previous one.
func (s *RelatedService) EmbedPost(ctx context.Context, postID int64) error {
	if s.embedder == nil || s.embedder.Status() == store.ProviderStatusDisabled {
		return fmt.Errorf("embedding service is not available")
	}
	post, err := s.postStore.GetPost(ctx, postID)
	if err != nil {
		return fmt.Errorf("load post %d: %w", postID, err)
	}

	text := textutil.CollapseWhitespace(textutil.StripHTML(post.Title + "\n\n" + post.Body))
	text = textutil.TruncateSentences(text, maxEmbedChars)
	if text == "" {
		log.Warnf("Post %d has no text to embed, skipping", postID)
		return nil
	}

	vec, err := s.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		return fmt.Errorf("generate embedding for post %d: %w", postID, err)
	}

	if err := s.vectorStore.DeleteEmbeddingsByPostID(ctx, postID); err != nil {
		return fmt.Errorf("clear old embeddings for post %d: %w", postID, err)
	}
	entry := &models.PostEmbedding{
		ID:     uuid.New(),
		PostID: postID,
		Text:   text,
		Vector: vec,
	}
	if err := s.vectorStore.AddEmbedding(ctx, entry); err != nil {
		return fmt.Errorf("store embedding for post %d: %w", postID, err)
	}
	if err := s.postStore.UpdatePostEmbeddingStatus(ctx, postID, entry.ID, true); err != nil {
		return fmt.Errorf("mark post %d embedded: %w", postID, err)
	}
	return nil
}

// RelatedPosts returns up to limit posts most similar to the given post.
// The post must have been embedded first.
func (s *RelatedService) RelatedPosts(ctx context.Context, postID int64, limit int) ([]models.RelatedPost, error) {
	if limit <= 0 {
		limit = 5
	}
	post, err := s.postStore.GetPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("load post %d: %w", postID, err)
	}
	if !post.IsEmbedded {
		return nil, fmt.Errorf("post %d has not been embedded yet: %w", postID, models.ErrValidation)
	}

	text := textutil.CollapseWhitespace(textutil.StripHTML(post.Title + "\n\n" + post.Body))
	text = textutil.TruncateSentences(text, maxEmbedChars)
	vec, err := s.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("generate query embedding for post %d: %w", postID, err)
	}

	results, err := s.vectorStore.SimilaritySearch(ctx, vec, limit, postID)
	if err != nil {
		return nil, fmt.Errorf("similarity search for post %d: %w", postID, err)
	}
	return results, nil
}
