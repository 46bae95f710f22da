package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mlazarev/taskman/internal/services"
)

func (h *handlerImpl) HandleListTasks(c *gin.Context) {
	tasks, err := h.tasks.ListAll(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list tasks")
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponses(tasks))
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	task, err := h.tasks.GetByID(c, c.Param("id"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get task")
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

type createTaskRequest struct {
	Title          string   `json:"title" binding:"max=255"`
	Description    *string  `json:"description"`
	StatusValue    *int     `json:"status-value"`
	PriorityValue  *int     `json:"priority-value"`
	AssigneesEmail []string `json:"assignees-email" binding:"dive,max=255"`
	AssigneesID    []string `json:"assignees-id"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	caller, ok := h.mustCaller(c)
	if !ok {
		return
	}

	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	assignees := make([]services.AssigneeRef, 0, len(req.AssigneesEmail)+len(req.AssigneesID))
	for _, email := range req.AssigneesEmail {
		assignees = append(assignees, services.AssigneeRef{Email: email})
	}
	for _, id := range req.AssigneesID {
		assignees = append(assignees, services.AssigneeRef{ID: id})
	}

	task, err := h.tasks.Create(c, services.CreateTaskParams{
		Title:         req.Title,
		Description:   req.Description,
		StatusValue:   req.StatusValue,
		PriorityValue: req.PriorityValue,
		Assignees:     assignees,
		Author:        caller,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		abortServiceError(c, err)
		return
	}

	c.Header("Location", "/api/v1/tasks/"+task.ID)
	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	caller, ok := h.mustCaller(c)
	if !ok {
		return
	}

	err := h.tasks.DeleteByID(c, c.Param("id"), caller)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to delete task")
		abortServiceError(c, err)
		return
	}

	c.Status(http.StatusOK)
}
