package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// Category is a forum category row. Unique by ID and by Slug; mutable by
// admin actions.
type Category struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	Color     string    `db:"color" json:"color"`
	PostCount int       `db:"post_count" json:"post_count"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Post is a forum post as this service sees it: the text to classify plus
// the classification audit fields written back after resolution.
type Post struct {
	ID               int64      `db:"id" json:"id"`
	AuthorName       string     `db:"author_name" json:"author_name"`
	Title            string     `db:"title" json:"title"`
	Body             string     `db:"body" json:"body"`
	Tags             []string   `db:"tags" json:"tags"`
	DetectedLanguage *string    `db:"detected_language" json:"detected_language,omitempty"`
	Confidence       *float64   `db:"confidence" json:"confidence,omitempty"`
	EmbeddingID      *uuid.UUID `db:"embedding_id" json:"-"`
	IsEmbedded       bool       `db:"is_embedded" json:"-"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// PostEmbedding is one vector entry for a post.
type PostEmbedding struct {
	ID        uuid.UUID       `db:"id"`
	PostID    int64           `db:"post_id"`
	Text      string          `db:"text"`
	Vector    pgvector.Vector `db:"vector"`
	CreatedAt time.Time       `db:"created_at"`
}

// RelatedPost is a similarity-search hit.
type RelatedPost struct {
	PostID int64   `json:"post_id"`
	Title  string  `json:"title"`
	Score  float64 `json:"score"`
}

// AIUsageLog records one model call for cost accounting.
type AIUsageLog struct {
	ID            int64     `db:"id"`
	Timestamp     time.Time `db:"timestamp"`
	ProviderName  string    `db:"provider_name"`
	ServiceType   string    `db:"service_type"` // "classification", "normalization", "embedding"
	ModelName     string    `db:"model_name"`
	InputTokens   int       `db:"input_tokens"`
	OutputTokens  int       `db:"output_tokens"`
	Cost          float64   `db:"cost"`
	RelatedPostID *int64    `db:"related_post_id"` // nullable
}

// BackgroundJob mirrors the background_jobs table.
type BackgroundJob struct {
	ID                int64     `db:"id"`
	JobID             uuid.UUID `db:"job_id"` // Asynq task ID
	TaskType          string    `db:"task_type"`
	Payload           []byte    `db:"payload"`
	Queue             string    `db:"queue"`
	Status            string    `db:"status"`
	RelatedEntityType *string   `db:"related_entity_type"`
	RelatedEntityID   *int64    `db:"related_entity_id"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}
