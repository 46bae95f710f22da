package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mlazarev/taskman/internal/models"
	"github.com/mlazarev/taskman/internal/services"
)

// Field endpoints live under /tasks/:id and return single-key objects
// for getters and the full task response for mutators.

func (h *handlerImpl) getTaskForField(c *gin.Context) (*models.Task, bool) {
	task, err := h.tasks.GetByID(c, c.Param("id"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get task")
		abortServiceError(c, err)
		return nil, false
	}
	return task, true
}

func (h *handlerImpl) HandleGetTaskID(c *gin.Context) {
	task, ok := h.getTaskForField(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": task.ID})
}

func (h *handlerImpl) HandleGetTaskTitle(c *gin.Context) {
	task, ok := h.getTaskForField(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"title": task.Title})
}

func (h *handlerImpl) HandleUpdateTaskTitle(c *gin.Context) {
	caller, ok := h.mustCaller(c)
	if !ok {
		return
	}

	task, err := h.tasks.UpdateTitle(c, c.Param("id"), c.Query("title"), caller)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to update task title")
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleGetTaskDescription(c *gin.Context) {
	task, ok := h.getTaskForField(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"description": task.Description})
}

func (h *handlerImpl) HandleUpdateTaskDescription(c *gin.Context) {
	caller, ok := h.mustCaller(c)
	if !ok {
		return
	}

	// An absent query parameter and an empty one are different: the
	// former is rejected, the latter clears the description.
	var description *string
	if value, exists := c.GetQuery("description"); exists {
		description = &value
	}

	task, err := h.tasks.UpdateDescription(c, c.Param("id"), description, caller)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to update task description")
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleGetTaskStatus(c *gin.Context) {
	task, ok := h.getTaskForField(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": taskProperty{
		Text:  task.Status.Text(),
		Value: task.Status.Value(),
	}})
}

func (h *handlerImpl) HandleUpdateTaskStatus(c *gin.Context) {
	caller, ok := h.mustCaller(c)
	if !ok {
		return
	}

	statusValue, err := strconv.Atoi(c.Query("status-value"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("invalid status-value parameter")
		abort(c, newBadRequestError("status-value must be an integer"))
		return
	}

	task, err := h.tasks.UpdateStatus(c, c.Param("id"), statusValue, caller)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to update task status")
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleGetTaskPriority(c *gin.Context) {
	task, ok := h.getTaskForField(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"priority": taskProperty{
		Text:  task.Priority.Text(),
		Value: task.Priority.Value(),
	}})
}

func (h *handlerImpl) HandleUpdateTaskPriority(c *gin.Context) {
	caller, ok := h.mustCaller(c)
	if !ok {
		return
	}

	priorityValue, err := strconv.Atoi(c.Query("priority-value"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("invalid priority-value parameter")
		abort(c, newBadRequestError("priority-value must be an integer"))
		return
	}

	task, err := h.tasks.UpdatePriority(c, c.Param("id"), priorityValue, caller)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to update task priority")
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleGetTaskAuthor(c *gin.Context) {
	task, ok := h.getTaskForField(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"author": newUserResponse(&task.Author)})
}

func (h *handlerImpl) HandleGetTaskAssignees(c *gin.Context) {
	task, ok := h.getTaskForField(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignees": newTaskResponse(task).Assignees})
}

// assigneeRefFromQuery builds a ref from the assignee-id or
// assignee-email parameter. Both absent is a client error.
func assigneeRefFromQuery(c *gin.Context) (services.AssigneeRef, bool) {
	ref := services.AssigneeRef{
		ID:    c.Query("assignee-id"),
		Email: c.Query("assignee-email"),
	}
	if ref.ID == "" && ref.Email == "" {
		abort(c, newBadRequestError("either assignee-id or assignee-email is required"))
		return ref, false
	}
	return ref, true
}

func (h *handlerImpl) HandleAddTaskAssignee(c *gin.Context) {
	caller, ok := h.mustCaller(c)
	if !ok {
		return
	}
	ref, ok := assigneeRefFromQuery(c)
	if !ok {
		return
	}

	task, err := h.tasks.AppendAssignee(c, c.Param("id"), ref, caller)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to append task assignee")
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleRemoveTaskAssignee(c *gin.Context) {
	caller, ok := h.mustCaller(c)
	if !ok {
		return
	}
	ref, ok := assigneeRefFromQuery(c)
	if !ok {
		return
	}

	task, err := h.tasks.RemoveAssignee(c, c.Param("id"), ref, caller)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to remove task assignee")
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleGetTaskComments(c *gin.Context) {
	task, ok := h.getTaskForField(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": newTaskResponse(task).Comments})
}

func (h *handlerImpl) HandleAddTaskComment(c *gin.Context) {
	caller, ok := h.mustCaller(c)
	if !ok {
		return
	}

	task, err := h.tasks.AppendComment(c, c.Param("id"), c.Query("comment-text"), caller)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to append task comment")
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleRemoveTaskComment(c *gin.Context) {
	caller, ok := h.mustCaller(c)
	if !ok {
		return
	}

	commentID := c.Query("comment-id")
	if commentID == "" {
		abort(c, newBadRequestError("comment-id is required"))
		return
	}

	task, err := h.tasks.RemoveComment(c, c.Param("id"), commentID, caller)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to remove task comment")
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}
