package primary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taxon/internal/models"
	"taxon/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const postColumns = `id, author_name, title, body, tags, detected_language, confidence, embedding_id, is_embedded, created_at, updated_at`

func scanPost(row pgx.Row, dest *models.Post) error {
	return row.Scan(
		&dest.ID,
		&dest.AuthorName,
		&dest.Title,
		&dest.Body,
		&dest.Tags,
		&dest.DetectedLanguage,
		&dest.Confidence,
		&dest.EmbeddingID,
		&dest.IsEmbedded,
		&dest.CreatedAt,
		&dest.UpdatedAt,
	)
}

func (s *StoreImpl) CreatePost(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (author_name, title, body, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id, created_at, updated_at`

	if post.Tags == nil {
		post.Tags = []string{}
	}
	err := s.db.QueryRow(ctx, query,
		post.AuthorName, post.Title, post.Body, post.Tags, time.Now(),
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

func (s *StoreImpl) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	post := &models.Post{}
	if err := scanPost(s.db.QueryRow(ctx, query, id), post); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post by id %d: %w", id, err)
	}
	return post, nil
}

func (s *StoreImpl) GetPostsByIDs(ctx context.Context, ids []int64) ([]*models.Post, error) {
	if len(ids) == 0 {
		return []*models.Post{}, nil
	}
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = ANY($1)`
	rows, err := s.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get posts by ids: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post := &models.Post{}
		if err := scanPost(rows, post); err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, post)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}
	return posts, nil
}

// SetPostCategories replaces the post's category associations. The delete
// and inserts run in one transaction so readers never observe a post with
// half its associations.
func (s *StoreImpl) SetPostCategories(ctx context.Context, postID int64, categoryIDs []int64) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM post_categories WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("failed to clear categories for post %d: %w", postID, err)
	}
	for i, categoryID := range categoryIDs {
		query := `
			INSERT INTO post_categories (post_id, category_id, rank, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT DO NOTHING`
		if _, err := tx.Exec(ctx, query, postID, categoryID, i, time.Now()); err != nil {
			return fmt.Errorf("failed to add category %d to post %d: %w", categoryID, postID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit post categories: %w", err)
	}
	return nil
}

func (s *StoreImpl) GetPostCategories(ctx context.Context, postID int64) ([]*models.Category, error) {
	query := `
		SELECT c.id, c.name, c.slug, c.color, c.post_count, c.created_at, c.updated_at
		FROM categories c
		JOIN post_categories pc ON c.id = pc.category_id
		WHERE pc.post_id = $1
		ORDER BY pc.rank ASC`
	rows, err := s.db.Query(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories for post %d: %w", postID, err)
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

func (s *StoreImpl) UpdatePostClassification(ctx context.Context, postID int64, language string, confidence float64, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	query := `
		UPDATE posts
		SET detected_language = $2, confidence = $3, tags = $4, updated_at = $5
		WHERE id = $1`
	tag, err := s.db.Exec(ctx, query, postID, language, confidence, tags, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update classification for post %d: %w", postID, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *StoreImpl) UpdatePostEmbeddingStatus(ctx context.Context, postID int64, embeddingID uuid.UUID, isEmbedded bool) error {
	query := `UPDATE posts SET embedding_id = $2, is_embedded = $3, updated_at = $4 WHERE id = $1`
	tag, err := s.db.Exec(ctx, query, postID, embeddingID, isEmbedded, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update embedding status for post %d: %w", postID, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

var _ store.PostStore = (*StoreImpl)(nil)
