package vector

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"taxon/internal/models"
	"taxon/internal/store"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	log "github.com/sirupsen/logrus"
)

type StoreImpl struct {
	db *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (store.VectorStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("vector store DSN cannot be empty")
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse vector store DSN: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping vector store: %w", err)
	}
	log.Debug("Connected to PostgreSQL vector store")
	return &StoreImpl{db: pool}, nil
}

func (vs *StoreImpl) Close() error {
	if vs.db != nil {
		vs.db.Close()
	}
	return nil
}

func (vs *StoreImpl) Ping(ctx context.Context) error {
	if vs.db == nil {
		return fmt.Errorf("vector store connection is not initialized")
	}
	return vs.db.Ping(ctx)
}

func (vs *StoreImpl) AddEmbedding(ctx context.Context, entry *models.PostEmbedding) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	query := `INSERT INTO post_embeddings (id, post_id, text, vector) VALUES ($1, $2, $3, $4) RETURNING created_at`
	err := vs.db.QueryRow(ctx, query, entry.ID, entry.PostID, entry.Text, entry.Vector).Scan(&entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("add embedding: %w", err)
	}
	return nil
}

func (vs *StoreImpl) DeleteEmbeddingsByPostID(ctx context.Context, postID int64) error {
	query := `DELETE FROM post_embeddings WHERE post_id = $1`
	if _, err := vs.db.Exec(ctx, query, postID); err != nil {
		return fmt.Errorf("delete embeddings for post %d: %w", postID, err)
	}
	return nil
}

// SimilaritySearch returns the k nearest posts by L2 distance, excluding the
// query post itself. Score is the raw distance: lower means more similar.
func (vs *StoreImpl) SimilaritySearch(ctx context.Context, queryVector pgvector.Vector, k int, excludePostID int64) ([]models.RelatedPost, error) {
	query := `
		SELECT e.post_id, p.title, (e.vector <-> $1) AS score
		FROM post_embeddings e
		JOIN posts p ON p.id = e.post_id
		WHERE e.post_id <> $3
		ORDER BY e.vector <-> $1
		LIMIT $2`

	rows, err := vs.db.Query(ctx, query, queryVector, k, excludePostID)
	if err != nil {
		return nil, fmt.Errorf("similarity search query: %w", err)
	}
	defer rows.Close()

	var results []models.RelatedPost
	for rows.Next() {
		var r models.RelatedPost
		if err := rows.Scan(&r.PostID, &r.Title, &r.Score); err != nil {
			return nil, fmt.Errorf("scan similarity search row: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate similarity search rows: %w", err)
	}
	return results, nil
}
