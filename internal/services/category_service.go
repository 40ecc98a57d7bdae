package services

import (
	"context"
	"fmt"
	"strings"

	"taxon/internal/catcache"
	"taxon/internal/models"
	"taxon/internal/store"
)

// CategoryService wraps category CRUD with validation and keeps the name
// cache coherent across writes.
type CategoryService struct {
	categoryStore store.CategoryStore
	nameCache     *catcache.NameCache
}

func NewCategoryService(categoryStore store.CategoryStore, nameCache *catcache.NameCache) *CategoryService {
	return &CategoryService{categoryStore: categoryStore, nameCache: nameCache}
}

func (s *CategoryService) Create(ctx context.Context, name, color string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("category name cannot be empty: %w", models.ErrValidation)
	}
	category := &models.Category{Name: name, Color: color}
	if err := s.categoryStore.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	s.invalidate()
	return category, nil
}

func (s *CategoryService) Get(ctx context.Context, id int64) (*models.Category, error) {
	return s.categoryStore.GetCategory(ctx, id)
}

func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.categoryStore.GetCategoryBySlug(ctx, slug)
}

func (s *CategoryService) List(ctx context.Context) ([]*models.Category, error) {
	return s.categoryStore.ListCategories(ctx)
}

func (s *CategoryService) ListNames(ctx context.Context) ([]string, error) {
	if s.nameCache != nil {
		return s.nameCache.GetOrLoad(ctx)
	}
	return s.categoryStore.ListCategoryNames(ctx)
}

func (s *CategoryService) Update(ctx context.Context, category *models.Category) error {
	if strings.TrimSpace(category.Name) == "" {
		return fmt.Errorf("category name cannot be empty: %w", models.ErrValidation)
	}
	if err := s.categoryStore.UpdateCategory(ctx, category); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if err := s.categoryStore.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// ValidationResult partitions a candidate ID list into existing and
// missing category IDs.
type ValidationResult struct {
	Valid   []int64
	Invalid []int64
}

// ValidateIDs reports which of the given category IDs exist.
func (s *CategoryService) ValidateIDs(ctx context.Context, ids []int64) (ValidationResult, error) {
	var result ValidationResult
	if len(ids) == 0 {
		return result, nil
	}
	existing, err := s.categoryStore.GetCategoriesByIDs(ctx, ids)
	if err != nil {
		return result, fmt.Errorf("validate category ids: %w", err)
	}
	known := make(map[int64]bool, len(existing))
	for _, c := range existing {
		known[c.ID] = true
	}
	for _, id := range ids {
		if known[id] {
			result.Valid = append(result.Valid, id)
		} else {
			result.Invalid = append(result.Invalid, id)
		}
	}
	return result, nil
}

func (s *CategoryService) invalidate() {
	if s.nameCache != nil {
		s.nameCache.Invalidate()
	}
}
