package apihandlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// RelatedPostsHandler returns posts most similar to the given post.
func (h *APIHandler) RelatedPostsHandler(c *gin.Context) {
	if h.App.RelatedService == nil {
		JSONError(c, http.StatusServiceUnavailable, "unavailable", "related-post search is not configured")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	limit := h.App.Config.Related.DefaultLimit
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed <= 0 {
			BadRequest(c, "invalid limit: "+l)
			return
		}
		limit = parsed
	}

	results, err := h.App.RelatedService.RelatedPosts(c.Request.Context(), id, limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": results})
}

// EmbedPostHandler regenerates the embedding for a post.
func (h *APIHandler) EmbedPostHandler(c *gin.Context) {
	if h.App.RelatedService == nil {
		JSONError(c, http.StatusServiceUnavailable, "unavailable", "embedding is not configured")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := h.App.RelatedService.EmbedPost(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}
