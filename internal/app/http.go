package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/mlazarev/taskman/internal/config"
	v1 "github.com/mlazarev/taskman/internal/delivery/http/v1"
	"github.com/mlazarev/taskman/internal/services"
	"github.com/mlazarev/taskman/internal/storage/postgres"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func buildServices() (services.AuthService, services.UserService, services.TaskService) {
	jwtCfg := config.Global().JWT

	userStore := postgres.NewUserStore(globalLogger, globalPostgresPool)
	taskStore := postgres.NewTaskStore(globalLogger, globalPostgresPool)
	commentStore := postgres.NewCommentStore(globalLogger, globalPostgresPool)

	authService := services.NewAuthService(
		globalLogger,
		jwtCfg.Issuer,
		jwtCfg.SigningKey,
		jwtCfg.TokenTTL,
	)
	userService := services.NewUserService(globalLogger, userStore, authService)
	commentService := services.NewCommentService(globalLogger, commentStore, taskStore)
	taskService := services.NewTaskService(globalLogger, taskStore, userStore, commentService)

	return authService, userService, taskService
}

func registerRoutes(router gin.IRouter) {
	authService, userService, taskService := buildServices()
	v1Handler := v1.New(globalLogger, authService, userService, taskService)

	api := router.Group("/api/v1")

	api.POST("/register", v1Handler.HandleRegister)
	api.POST("/auth", v1Handler.HandleAuth)

	tasks := api.Group("/tasks", v1Handler.HandleAuthMiddleware)
	tasks.GET("/", v1Handler.HandleListTasks)
	tasks.POST("/", v1Handler.HandleCreateTask)
	tasks.GET("/:id", v1Handler.HandleGetTask)
	tasks.DELETE("/:id", v1Handler.HandleDeleteTask)

	tasks.GET("/:id/id", v1Handler.HandleGetTaskID)
	tasks.GET("/:id/title", v1Handler.HandleGetTaskTitle)
	tasks.PUT("/:id/title", v1Handler.HandleUpdateTaskTitle)
	tasks.GET("/:id/description", v1Handler.HandleGetTaskDescription)
	tasks.PUT("/:id/description", v1Handler.HandleUpdateTaskDescription)
	tasks.GET("/:id/status", v1Handler.HandleGetTaskStatus)
	tasks.PUT("/:id/status", v1Handler.HandleUpdateTaskStatus)
	tasks.GET("/:id/priority", v1Handler.HandleGetTaskPriority)
	tasks.PUT("/:id/priority", v1Handler.HandleUpdateTaskPriority)
	tasks.GET("/:id/author", v1Handler.HandleGetTaskAuthor)
	tasks.GET("/:id/assignees", v1Handler.HandleGetTaskAssignees)
	tasks.POST("/:id/assignees", v1Handler.HandleAddTaskAssignee)
	tasks.DELETE("/:id/assignees", v1Handler.HandleRemoveTaskAssignee)
	tasks.GET("/:id/comments", v1Handler.HandleGetTaskComments)
	tasks.POST("/:id/comments", v1Handler.HandleAddTaskComment)
	tasks.DELETE("/:id/comments", v1Handler.HandleRemoveTaskComment)

	users := api.Group("/users", v1Handler.HandleAuthMiddleware)
	users.GET("/", v1Handler.HandleListUsers)
	users.GET("/me", v1Handler.HandleGetMe)
	users.GET("/me/id", v1Handler.HandleGetMyID)
	users.GET("/me/name", v1Handler.HandleGetMyName)
	users.GET("/me/email", v1Handler.HandleGetMyEmail)
	users.GET("/me/created-tasks", v1Handler.HandleGetMyCreatedTasks)
	users.GET("/me/assigned-tasks", v1Handler.HandleGetMyAssignedTasks)
	users.PUT("/me/name", v1Handler.HandleUpdateMyName)
	users.PUT("/me/email", v1Handler.HandleUpdateMyEmail)
	users.PUT("/me/password", v1Handler.HandleUpdateMyPassword)
	users.GET("/:id", v1Handler.HandleGetUser)
	users.GET("/:id/id", v1Handler.HandleGetUserID)
	users.GET("/:id/name", v1Handler.HandleGetUserName)
	users.GET("/:id/email", v1Handler.HandleGetUserEmail)
	users.GET("/:id/created-tasks", v1Handler.HandleGetUserCreatedTasks)
	users.GET("/:id/assigned-tasks", v1Handler.HandleGetUserAssignedTasks)
}
