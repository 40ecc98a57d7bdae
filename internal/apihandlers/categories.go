package apihandlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CategoryRequest is the body for category create/update.
type CategoryRequest struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Color string `json:"color"`
}

func (h *APIHandler) ListCategoriesHandler(c *gin.Context) {
	categories, err := h.App.CategoryService.List(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}

func (h *APIHandler) CreateCategoryHandler(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	category, err := h.App.CategoryService.Create(c.Request.Context(), req.Name, req.Color)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": category})
}

func (h *APIHandler) GetCategoryHandler(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	category, err := h.App.CategoryService.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": category})
}

func (h *APIHandler) UpdateCategoryHandler(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	category, err := h.App.CategoryService.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	if req.Name != "" {
		category.Name = req.Name
	}
	if req.Slug != "" {
		category.Slug = req.Slug
	}
	if req.Color != "" {
		category.Color = req.Color
	}
	if err := h.App.CategoryService.Update(c.Request.Context(), category); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": category})
}

func (h *APIHandler) DeleteCategoryHandler(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := h.App.CategoryService.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ValidateCategoriesRequest asks which of the given IDs exist.
type ValidateCategoriesRequest struct {
	IDs []int64 `json:"ids"`
}

func (h *APIHandler) ValidateCategoriesHandler(c *gin.Context) {
	var req ValidateCategoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.App.CategoryService.ValidateIDs(c.Request.Context(), req.IDs)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}
