package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rongwang/sheet-tables-server/internal/models"
	"github.com/rongwang/sheet-tables-server/internal/service"
	"github.com/rongwang/sheet-tables-server/internal/sheets"
)

// errorMapping ties a sentinel error to its HTTP status and error code
type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{service.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{service.ErrUserExists, http.StatusConflict, "CONFLICT"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
	{sheets.ErrInvalidSourceURL, http.StatusBadRequest, "INVALID_SOURCE_URL"},
	{sheets.ErrSourceNotFound, http.StatusUnprocessableEntity, "SOURCE_NOT_FOUND"},
	{sheets.ErrRangeUnavailable, http.StatusUnprocessableEntity, "RANGE_UNAVAILABLE"},
	{sheets.ErrEmptySource, http.StatusUnprocessableEntity, "EMPTY_SOURCE"},
	{sheets.ErrTransientProvider, http.StatusServiceUnavailable, "PROVIDER_UNAVAILABLE"},
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:  "error",
			Code:    "VALIDATION_ERROR",
			Message: verr.Message,
			Field:   verr.Field,
		})
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			c.JSON(m.status, models.ErrorResponse{
				Status:  "error",
				Code:    m.code,
				Message: err.Error(),
			})
			return
		}
	}

	h.logger.WithFields(map[string]interface{}{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	}).WithError(err).Error("request failed")

	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Status:  "error",
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
	})
}

func (h *Handler) bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Status:  "error",
		Code:    "VALIDATION_ERROR",
		Message: err.Error(),
	})
}
