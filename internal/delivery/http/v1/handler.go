package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mlazarev/taskman/internal/services"
)

type Handler interface {
	HandleRegister(c *gin.Context)
	HandleAuth(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleListTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleCreateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)

	HandleGetTaskID(c *gin.Context)
	HandleGetTaskTitle(c *gin.Context)
	HandleUpdateTaskTitle(c *gin.Context)
	HandleGetTaskDescription(c *gin.Context)
	HandleUpdateTaskDescription(c *gin.Context)
	HandleGetTaskStatus(c *gin.Context)
	HandleUpdateTaskStatus(c *gin.Context)
	HandleGetTaskPriority(c *gin.Context)
	HandleUpdateTaskPriority(c *gin.Context)
	HandleGetTaskAuthor(c *gin.Context)
	HandleGetTaskAssignees(c *gin.Context)
	HandleAddTaskAssignee(c *gin.Context)
	HandleRemoveTaskAssignee(c *gin.Context)
	HandleGetTaskComments(c *gin.Context)
	HandleAddTaskComment(c *gin.Context)
	HandleRemoveTaskComment(c *gin.Context)

	HandleListUsers(c *gin.Context)
	HandleGetUser(c *gin.Context)
	HandleGetMe(c *gin.Context)
	HandleGetUserID(c *gin.Context)
	HandleGetUserName(c *gin.Context)
	HandleGetUserEmail(c *gin.Context)
	HandleGetMyID(c *gin.Context)
	HandleGetMyName(c *gin.Context)
	HandleGetMyEmail(c *gin.Context)
	HandleGetUserCreatedTasks(c *gin.Context)
	HandleGetUserAssignedTasks(c *gin.Context)
	HandleGetMyCreatedTasks(c *gin.Context)
	HandleGetMyAssignedTasks(c *gin.Context)
	HandleUpdateMyName(c *gin.Context)
	HandleUpdateMyEmail(c *gin.Context)
	HandleUpdateMyPassword(c *gin.Context)
}

type handlerImpl struct {
	logger zerolog.Logger
	auth   services.AuthService
	users  services.UserService
	tasks  services.TaskService
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	userService services.UserService,
	taskService services.TaskService,
) Handler {
	return &handlerImpl{
		logger: logger,
		auth:   authService,
		users:  userService,
		tasks:  taskService,
	}
}
