package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task types used with Asynq.
const (
	// TypeClassifyPost classifies a post and applies the resulting
	// categories and tags.
	TypeClassifyPost = "classification:post"
	// TypeEmbedPost generates and stores a post embedding.
	TypeEmbedPost = "embedding:post"
)

// Queue names.
const (
	QueueClassification = "classification"
	QueueEmbeddings     = "embeddings"
)

// PostPayload is the payload shared by per-post tasks.
type PostPayload struct {
	PostID int64 `json:"post_id"`
}

func NewClassifyPostTask(postID int64) (*asynq.Task, error) {
	payload, err := json.Marshal(PostPayload{PostID: postID})
	if err != nil {
		return nil, fmt.Errorf("marshal classify payload: %w", err)
	}
	return asynq.NewTask(TypeClassifyPost, payload), nil
}

func NewEmbedPostTask(postID int64) (*asynq.Task, error) {
	payload, err := json.Marshal(PostPayload{PostID: postID})
	if err != nil {
		return nil, fmt.Errorf("marshal embed payload: %w", err)
	}
	return asynq.NewTask(TypeEmbedPost, payload), nil
}

// ParsePostPayload decodes a per-post task payload.
func ParsePostPayload(data []byte) (PostPayload, error) {
	var p PostPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("unmarshal post payload: %w", err)
	}
	if p.PostID <= 0 {
		return p, fmt.Errorf("post payload has invalid post_id %d", p.PostID)
	}
	return p, nil
}
