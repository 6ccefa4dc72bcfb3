package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lifeinfocus/focus/internal/models"
	"github.com/lifeinfocus/focus/store"
)

// apiError is an error response of the task API.
type apiError struct {
	models.APIError
	Status int
}

func newAPIError(status int, code, message string) *apiError {
	return &apiError{
		Status:   status,
		APIError: models.APIError{Code: code, Message: message},
	}
}

func badRequest(code, message string) *apiError {
	return newAPIError(http.StatusBadRequest, code, message)
}

func unauthorized(message string) *apiError {
	return newAPIError(http.StatusUnauthorized, "unauthorized", message)
}

var (
	errTaskNotFound = newAPIError(
		http.StatusNotFound,
		"not_found",
		"task not found",
	)
	errInvalidJSON = badRequest("invalid_json", "invalid request body")
	errInternal    = newAPIError(
		http.StatusInternalServerError,
		"internal_error",
		"internal server error",
	)
)

// storeError maps task store errors onto API errors.
func storeError(err error) *apiError {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return errTaskNotFound
	case errors.Is(err, models.ErrEmptyTaskName):
		return badRequest("invalid_task", err.Error())
	case errors.Is(err, models.ErrNoTimeWorked):
		return badRequest("invalid_time", err.Error())
	case errors.Is(err, models.ErrEmptyUpdate):
		return badRequest("empty_update", err.Error())
	}

	return errInternal
}

func writeError(c *gin.Context, apiErr *apiError) {
	c.AbortWithStatusJSON(apiErr.Status, models.ErrorResponse{
		Error: apiErr.APIError,
	})
}
