package apihandlers

import (
	"fmt"
	"net/http"
	"strconv"

	"taxon/internal/app"
	"taxon/internal/models"

	"github.com/gin-gonic/gin"
)

type APIHandler struct {
	App *app.App
}

func NewAPIHandler(appInstance *app.App) *APIHandler {
	return &APIHandler{App: appInstance}
}

// ClassifyRequest is the body for the stateless classification endpoint.
// Categories is optional; when omitted the stored category list is used.
type ClassifyRequest struct {
	Content    string   `json:"content"`
	Categories []string `json:"categories"`
}

// ClassifyHandler categorizes arbitrary text without creating a post.
func (h *APIHandler) ClassifyHandler(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.Content == "" {
		BadRequest(c, "missing required field: content")
		return
	}

	result, err := h.App.ClassificationService.Classify(c.Request.Context(), req.Content, req.Categories)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

// CreatePostRequest is the body for post creation.
type CreatePostRequest struct {
	AuthorName string `json:"author_name"`
	Title      string `json:"title"`
	Body       string `json:"body"`
}

// CreatePostHandler stores a post and triggers its classification.
func (h *APIHandler) CreatePostHandler(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	post := &models.Post{
		AuthorName: req.AuthorName,
		Title:      req.Title,
		Body:       req.Body,
	}
	if err := h.App.PostService.CreatePost(c.Request.Context(), post); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": post})
}

// GetPostHandler returns a post along with its resolved categories.
func (h *APIHandler) GetPostHandler(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	post, err := h.App.PostService.GetPost(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	categories, err := h.App.PostService.GetPostCategories(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}

	resp := struct {
		Post       models.Post        `json:"post"`
		Categories []*models.Category `json:"categories"`
	}{
		Post:       *post,
		Categories: categories,
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ReclassifyPostHandler re-runs classification for an existing post.
func (h *APIHandler) ReclassifyPostHandler(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	result, err := h.App.PostService.ClassifyAndApply(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

func parseIDParam(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return id, nil
}
