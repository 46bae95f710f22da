package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mlazarev/taskman/internal/models"
	"github.com/mlazarev/taskman/internal/services"
)

var errInvalidRequestBody = errors.New("invalid request body")

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

func newConflictError(message string) apiError {
	return newAPIError(http.StatusConflict, message)
}

// abortServiceError maps a service-layer error onto an HTTP status.
// Authorization failures are reported as 400 like validation failures;
// the transport boundary does not distinguish the two categories.
func abortServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrCommentNotFound):
		abort(c, newNotFoundError(err.Error()))
	case errors.Is(err, services.ErrUserAlreadyExists),
		errors.Is(err, services.ErrEmailTaken):
		abort(c, newConflictError(err.Error()))
	case errors.Is(err, services.ErrInvalidCredentials):
		abort(c, newUnauthorizedError(err.Error()))
	case errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrInvalidName),
		errors.Is(err, services.ErrInvalidPassword),
		errors.Is(err, services.ErrInvalidTitle),
		errors.Is(err, services.ErrInvalidDescription),
		errors.Is(err, services.ErrInvalidAssignee),
		errors.Is(err, services.ErrAssigneeNotInTask),
		errors.Is(err, services.ErrEmptyCommentText),
		errors.Is(err, services.ErrNotTaskAuthor),
		errors.Is(err, services.ErrNotAuthorOrAssignee),
		errors.Is(err, services.ErrNotCommentator),
		errors.Is(err, services.ErrNotCommentatorOrTaskAuthor),
		errors.Is(err, models.ErrInvalidStatusValue),
		errors.Is(err, models.ErrInvalidPriorityValue):
		abort(c, newBadRequestError(err.Error()))
	default:
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}
