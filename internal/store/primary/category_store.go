package primary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taxon/internal/models"
	"taxon/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const categoryColumns = `id, name, slug, color, post_count, created_at, updated_at`

func scanCategory(row pgx.Row, dest *models.Category) error {
	return row.Scan(
		&dest.ID,
		&dest.Name,
		&dest.Slug,
		&dest.Color,
		&dest.PostCount,
		&dest.CreatedAt,
		&dest.UpdatedAt,
	)
}

func (s *StoreImpl) CreateCategory(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (name, slug, color, post_count, created_at, updated_at)
		VALUES ($1, $2, $3, 0, $4, $4)
		RETURNING id, post_count, created_at, updated_at`

	now := time.Now()
	if category.Slug == "" {
		category.Slug = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(category.Name), " ", "-"))
	}

	err := s.db.QueryRow(ctx, query,
		category.Name, category.Slug, category.Color, now,
	).Scan(&category.ID, &category.PostCount, &category.CreatedAt, &category.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("category with name or slug already exists: %w", store.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

func (s *StoreImpl) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	category := &models.Category{}
	if err := scanCategory(s.db.QueryRow(ctx, query, id), category); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category by id %d: %w", id, err)
	}
	return category, nil
}

func (s *StoreImpl) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE slug = $1`
	category := &models.Category{}
	if err := scanCategory(s.db.QueryRow(ctx, query, slug), category); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category by slug %q: %w", slug, err)
	}
	return category, nil
}

func (s *StoreImpl) ListCategories(ctx context.Context) ([]*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY name ASC`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category := &models.Category{}
		if err := scanCategory(rows, category); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, category)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return categories, nil
}

func (s *StoreImpl) ListCategoryNames(ctx context.Context) ([]string, error) {
	query := `SELECT name FROM categories ORDER BY id ASC`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list category names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan category name: %w", err)
		}
		names = append(names, name)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category names: %w", err)
	}
	return names, nil
}

func (s *StoreImpl) GetCategoriesByIDs(ctx context.Context, ids []int64) ([]*models.Category, error) {
	if len(ids) == 0 {
		return []*models.Category{}, nil
	}
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = ANY($1)`
	rows, err := s.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories by ids: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category := &models.Category{}
		if err := scanCategory(rows, category); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, category)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return categories, nil
}

// GetCategoriesByNames matches names case-insensitively, preserving the
// input order in the result.
func (s *StoreImpl) GetCategoriesByNames(ctx context.Context, names []string) ([]*models.Category, error) {
	if len(names) == 0 {
		return []*models.Category{}, nil
	}
	lowered := make([]string, len(names))
	for i, n := range names {
		lowered[i] = strings.ToLower(n)
	}
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE LOWER(name) = ANY($1)`
	rows, err := s.db.Query(ctx, query, lowered)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories by names: %w", err)
	}
	defer rows.Close()

	byName := make(map[string]*models.Category, len(names))
	for rows.Next() {
		category := &models.Category{}
		if err := scanCategory(rows, category); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		byName[strings.ToLower(category.Name)] = category
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}

	ordered := make([]*models.Category, 0, len(names))
	for _, n := range lowered {
		if c, ok := byName[n]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}

func (s *StoreImpl) UpdateCategory(ctx context.Context, category *models.Category) error {
	query := `
		UPDATE categories
		SET name = $2, slug = $3, color = $4, updated_at = $5
		WHERE id = $1
		RETURNING updated_at`

	err := s.db.QueryRow(ctx, query,
		category.ID, category.Name, category.Slug, category.Color, time.Now(),
	).Scan(&category.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("category with name or slug already exists: %w", store.ErrDuplicate)
		}
		return fmt.Errorf("failed to update category %d: %w", category.ID, err)
	}
	return nil
}

func (s *StoreImpl) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return fmt.Errorf("category %d still referenced by posts: %w", id, store.ErrForeignKeyViolation)
		}
		return fmt.Errorf("failed to delete category %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *StoreImpl) AdjustPostCounts(ctx context.Context, ids []int64, delta int) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE categories SET post_count = GREATEST(post_count + $2, 0), updated_at = $3 WHERE id = ANY($1)`
	if _, err := s.db.Exec(ctx, query, ids, delta, time.Now()); err != nil {
		return fmt.Errorf("failed to adjust post counts: %w", err)
	}
	return nil
}

var _ store.CategoryStore = (*StoreImpl)(nil)
