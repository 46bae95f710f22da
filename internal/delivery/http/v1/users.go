package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mlazarev/taskman/internal/models"
)

func (h *handlerImpl) HandleListUsers(c *gin.Context) {
	users, err := h.users.List(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list users")
		abortServiceError(c, err)
		return
	}

	responses := make([]userResponse, len(users))
	for i := range users {
		responses[i] = newUserResponse(&users[i])
	}
	c.JSON(http.StatusOK, responses)
}

func (h *handlerImpl) getUserByParam(c *gin.Context) (*models.User, bool) {
	user, err := h.users.GetByID(c, c.Param("id"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get user")
		abortServiceError(c, err)
		return nil, false
	}
	return user, true
}

func (h *handlerImpl) HandleGetUser(c *gin.Context) {
	user, ok := h.getUserByParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

func (h *handlerImpl) HandleGetMe(c *gin.Context) {
	caller, ok := h.mustCaller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newUserResponse(caller))
}

func (h *handlerImpl) HandleGetUserID(c *gin.Context) {
	user, ok := h.getUserByParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": user.ID})
}

func (h *handlerImpl) HandleGetUserName(c *gin.Context) {
	user, ok := h.getUserByParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": user.Name})
}

func (h *handlerImpl) HandleGetUserEmail(c *gin.Context) {
	user, ok := h.getUserByParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": user.Email})
}

func (h *handlerImpl) HandleGetMyID(c *gin.Context) {
	caller, ok := h.mustCaller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": caller.ID})
}

func (h *handlerImpl) HandleGetMyName(c *gin.Context) {
	caller, ok := h.mustCaller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": caller.Name})
}

func (h *handlerImpl) HandleGetMyEmail(c *gin.Context) {
	caller, ok := h.mustCaller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": caller.Email})
}

func (h *handlerImpl) HandleGetUserCreatedTasks(c *gin.Context) {
	user, ok := h.getUserByParam(c)
	if !ok {
		return
	}
	h.listCreatedTasks(c, user)
}

func (h *handlerImpl) HandleGetUserAssignedTasks(c *gin.Context) {
	user, ok := h.getUserByParam(c)
	if !ok {
		return
	}
	h.listAssignedTasks(c, user)
}

func (h *handlerImpl) HandleGetMyCreatedTasks(c *gin.Context) {
	caller, ok := h.mustCaller(c)
	if !ok {
		return
	}
	h.listCreatedTasks(c, caller)
}

func (h *handlerImpl) HandleGetMyAssignedTasks(c *gin.Context) {
	caller, ok := h.mustCaller(c)
	if !ok {
		return
	}
	h.listAssignedTasks(c, caller)
}

func (h *handlerImpl) listCreatedTasks(c *gin.Context, user *models.User) {
	tasks, err := h.tasks.ListByAuthor(c, user)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list tasks by author")
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTaskResponses(tasks))
}

func (h *handlerImpl) listAssignedTasks(c *gin.Context, user *models.User) {
	tasks, err := h.tasks.ListByAssignee(c, user)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list tasks by assignee")
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTaskResponses(tasks))
}

func (h *handlerImpl) HandleUpdateMyName(c *gin.Context) {
	caller, ok := h.mustCaller(c)
	if !ok {
		return
	}

	user, err := h.users.UpdateName(c, caller.Email, c.Query("name"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to update user name")
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

func (h *handlerImpl) HandleUpdateMyEmail(c *gin.Context) {
	caller, ok := h.mustCaller(c)
	if !ok {
		return
	}

	user, err := h.users.UpdateEmail(c, caller.Email, c.Query("email"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to update user email")
		abortServiceError(c, err)
		return
	}

	// The bearer token carries the old email; the client must
	// re-authenticate after a successful change.
	c.JSON(http.StatusOK, newUserResponse(user))
}

func (h *handlerImpl) HandleUpdateMyPassword(c *gin.Context) {
	caller, ok := h.mustCaller(c)
	if !ok {
		return
	}

	_, err := h.users.UpdatePassword(c, caller.Email, c.Query("password"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to update user password")
		abortServiceError(c, err)
		return
	}

	c.Status(http.StatusOK)
}
