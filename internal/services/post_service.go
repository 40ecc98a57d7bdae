package services

import (
	"context"
	"fmt"
	"strings"

	"taxon/internal/models"
	"taxon/internal/store"
	"taxon/pkg/classifier"

	log "github.com/sirupsen/logrus"
)

// PostService creates posts and applies classification results to them.
type PostService struct {
	postStore      store.PostStore
	categoryStore  store.CategoryStore
	classification *ClassificationService
	jobClient      store.JobClient
	async          bool
	maxCategories  int
}

func NewPostService(postStore store.PostStore, categoryStore store.CategoryStore, classification *ClassificationService, jobClient store.JobClient, async bool, maxCategories int) *PostService {
	if maxCategories <= 0 {
		maxCategories = classifier.MaxCategories
	}
	return &PostService{
		postStore:      postStore,
		categoryStore:  categoryStore,
		classification: classification,
		jobClient:      jobClient,
		async:          async,
		maxCategories:  maxCategories,
	}
}

// CreatePost stores a new post and classifies it, either inline or via a
// background job depending on configuration. Classification failures never
// fail the create: the post simply stays uncategorized.
func (s *PostService) CreatePost(ctx context.Context, post *models.Post) error {
	if strings.TrimSpace(post.Title) == "" && strings.TrimSpace(post.Body) == "" {
		return fmt.Errorf("post must have a title or body: %w", models.ErrValidation)
	}
	if err := s.postStore.CreatePost(ctx, post); err != nil {
		return err
	}

	if s.async && s.jobClient != nil {
		if err := s.jobClient.EnqueueClassifyPost(ctx, post.ID); err != nil {
			log.Errorf("Failed to enqueue classify job for post %d: %v", post.ID, err)
		}
		if err := s.jobClient.EnqueueEmbedPost(ctx, post.ID); err != nil {
			log.Errorf("Failed to enqueue embed job for post %d: %v", post.ID, err)
		}
		return nil
	}

	if _, err := s.ClassifyAndApply(ctx, post.ID); err != nil {
		log.Errorf("Inline classification failed for post %d: %v", post.ID, err)
	}
	return nil
}

func (s *PostService) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	return s.postStore.GetPost(ctx, id)
}

func (s *PostService) GetPostCategories(ctx context.Context, postID int64) ([]*models.Category, error) {
	return s.postStore.GetPostCategories(ctx, postID)
}

// ClassifyAndApply classifies the post's text and persists the outcome:
// category associations, tags, language and confidence, plus per-category
// post counts.
func (s *PostService) ClassifyAndApply(ctx context.Context, postID int64) (classifier.Result, error) {
	post, err := s.postStore.GetPost(ctx, postID)
	if err != nil {
		return classifier.Result{}, fmt.Errorf("load post %d: %w", postID, err)
	}

	content := post.Title + "\n\n" + post.Body
	result, err := s.classification.Classify(ctx, content, nil)
	if err != nil {
		return classifier.Result{}, fmt.Errorf("classify post %d: %w", postID, err)
	}

	names := result.Categories
	if len(names) > s.maxCategories {
		names = names[:s.maxCategories]
	}
	categories, err := s.categoryStore.GetCategoriesByNames(ctx, names)
	if err != nil {
		return result, fmt.Errorf("resolve category ids for post %d: %w", postID, err)
	}

	previous, err := s.postStore.GetPostCategories(ctx, postID)
	if err != nil {
		return result, fmt.Errorf("load previous categories for post %d: %w", postID, err)
	}

	ids := make([]int64, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}
	if err := s.postStore.SetPostCategories(ctx, postID, ids); err != nil {
		return result, fmt.Errorf("apply categories to post %d: %w", postID, err)
	}
	if err := s.postStore.UpdatePostClassification(ctx, postID, result.OriginalLanguage, result.Confidence, result.Tags); err != nil {
		return result, fmt.Errorf("update classification fields for post %d: %w", postID, err)
	}

	s.adjustCounts(ctx, previous, ids)
	return result, nil
}

// adjustCounts reconciles per-category post counts after a reclassification.
// Count drift is tolerable, so failures are logged and dropped.
func (s *PostService) adjustCounts(ctx context.Context, previous []*models.Category, current []int64) {
	wasMember := make(map[int64]bool, len(previous))
	for _, c := range previous {
		wasMember[c.ID] = true
	}
	isMember := make(map[int64]bool, len(current))
	var added []int64
	for _, id := range current {
		isMember[id] = true
		if !wasMember[id] {
			added = append(added, id)
		}
	}
	var removed []int64
	for _, c := range previous {
		if !isMember[c.ID] {
			removed = append(removed, c.ID)
		}
	}
	if err := s.categoryStore.AdjustPostCounts(ctx, added, 1); err != nil {
		log.Errorf("Failed to increment post counts: %v", err)
	}
	if err := s.categoryStore.AdjustPostCounts(ctx, removed, -1); err != nil {
		log.Errorf("Failed to decrement post counts: %v", err)
	}
}
