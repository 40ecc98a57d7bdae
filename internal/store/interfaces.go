package store

import (
	"context"

	"taxon/internal/models"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/pgvector/pgvector-go"
)

// --- Provider Status ---

type ProviderStatus int

const (
	ProviderStatusUnknown  ProviderStatus = iota
	ProviderStatusActive                  // Provider is operational
	ProviderStatusInactive                // Provider is temporarily unavailable
	ProviderStatusDisabled                // Provider is not configured
)

// --- Job Client ---

type JobClient interface {
	Enqueue(ctx context.Context, task *asynq.Task, relatedEntityType string, relatedEntityID int64, opts ...asynq.Option) (*asynq.TaskInfo, error)
	EnqueueClassifyPost(ctx context.Context, postID int64) error
	EnqueueEmbedPost(ctx context.Context, postID int64) error
	Close() error
}

// --- Category Store ---

type CategoryStore interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	ListCategoryNames(ctx context.Context) ([]string, error)
	GetCategoriesByIDs(ctx context.Context, ids []int64) ([]*models.Category, error)
	GetCategoriesByNames(ctx context.Context, names []string) ([]*models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id int64) error
	AdjustPostCounts(ctx context.Context, ids []int64, delta int) error

	Ping(ctx context.Context) error
}

// --- Post Store ---

type PostStore interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	GetPostsByIDs(ctx context.Context, ids []int64) ([]*models.Post, error)
	SetPostCategories(ctx context.Context, postID int64, categoryIDs []int64) error
	GetPostCategories(ctx context.Context, postID int64) ([]*models.Category, error)
	UpdatePostClassification(ctx context.Context, postID int64, language string, confidence float64, tags []string) error
	UpdatePostEmbeddingStatus(ctx context.Context, postID int64, embeddingID uuid.UUID, isEmbedded bool) error
}

// --- Vector Store ---

type VectorStore interface {
	AddEmbedding(ctx context.Context, entry *models.PostEmbedding) error
	DeleteEmbeddingsByPostID(ctx context.Context, postID int64) error
	SimilaritySearch(ctx context.Context, queryVector pgvector.Vector, k int, excludePostID int64) ([]models.RelatedPost, error)

	Ping(ctx context.Context) error
	Close() error
}

// --- Embedding Service ---

type EmbeddingService interface {
	GenerateEmbedding(ctx context.Context, text string) (pgvector.Vector, error)
	Dimension() int
	ModelName() string
	Name() string
	Status() ProviderStatus
}

// --- Job Store ---

// JobRecordParams holds parameters for recording a job enqueue event.
type JobRecordParams struct {
	JobID             uuid.UUID
	TaskType          string
	Payload           []byte
	Queue             string
	Status            string
	RelatedEntityType string // e.g. "post"
	RelatedEntityID   int64
}

type JobStore interface {
	RecordJobEnqueue(ctx context.Context, params JobRecordParams) error
	UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status string) error
	ListJobs(ctx context.Context, limit, offset int) ([]*models.BackgroundJob, error)
}

// --- AI Usage Store ---

type UsageStore interface {
	RecordUsage(ctx context.Context, entry *models.AIUsageLog) error
	ListUsage(ctx context.Context, limit, offset int) ([]*models.AIUsageLog, error)
	GetUsageSummary(ctx context.Context) (totalCost float64, totalInputTokens, totalOutputTokens int64, err error)
}
