package apihandlers

import (
	"errors"
	"net/http"

	"taxon/internal/models"
	"taxon/internal/store"

	"github.com/gin-gonic/gin"
)

// APIError defines the standard error response body.
// Example: { "error": { "code": "bad_request", "message": "Invalid ID" } }
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error APIError `json:"error"`
}

// JSONError sends a structured error response.
func JSONError(ctx *gin.Context, status int, code, msg string) {
	ctx.JSON(status, errorResponse{Error: APIError{Code: code, Message: msg}})
}

func BadRequest(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusBadRequest, "bad_request", msg)
}

func NotFound(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusNotFound, "not_found", msg)
}

func Internal(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusInternalServerError, "internal_error", msg)
}

func Conflict(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusConflict, "conflict", msg)
}

// RespondError maps known domain errors onto HTTP statuses, defaulting to
// 500 for anything unrecognized.
func RespondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, models.ErrNotFound):
		NotFound(ctx, err.Error())
	case errors.Is(err, store.ErrDuplicate):
		Conflict(ctx, err.Error())
	case errors.Is(err, store.ErrForeignKeyViolation):
		Conflict(ctx, err.Error())
	case errors.Is(err, models.ErrValidation):
		BadRequest(ctx, err.Error())
	default:
		Internal(ctx, err.Error())
	}
}
