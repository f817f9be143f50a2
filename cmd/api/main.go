package main

import (
	"go.uber.org/zap"

	"project-service/config"
	"project-service/internal/handler"
	"project-service/internal/httpserver"
	"project-service/internal/repository"
	"project-service/internal/service"
	"project-service/pkg/db"
	"project-service/pkg/logger"
	"project-service/pkg/mq"
	redisclient "project-service/pkg/redis"
)

func main() {
	// Load config
	cfg := config.Load()

	logger := logger.NewLogger()
	defer logger.Sync()

	// Init DB
	dbConn, err := db.NewConnection(cfg.DB, logger)
	if err != nil {
		logger.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// Init Redis (team membership cache; the service runs without it)
	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()

	// Init RabbitMQ Publisher for domain events
	var publisher service.EventPublisher
	if cfg.MQ.URL != "" {
		p, err := mq.NewPublisher(cfg.MQ.URL)
		if err != nil {
			logger.Fatal("Failed to init MQ publisher", zap.Error(err))
		}
		defer p.Close()
		publisher = p
	} else {
		logger.Warn("MQ url not configured, domain events disabled")
	}

	// Init Repositories
	userRepo := repository.NewUserRepository(dbConn)
	projectRepo := repository.NewProjectRepository(dbConn, logger)
	taskRepo := repository.NewTaskRepository(dbConn, logger)
	noteRepo := repository.NewNoteRepository(dbConn, logger)

	// Init Services
	authz := service.NewAuthorizer(projectRepo, rdb, logger)
	cascade := service.NewCascadeManager(projectRepo, taskRepo, noteRepo, logger)
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret)
	projectService := service.NewProjectService(projectRepo, authz, cascade, publisher, logger)
	taskService := service.NewTaskService(projectRepo, taskRepo, authz, cascade, publisher, logger)
	teamService := service.NewTeamService(projectRepo, userRepo, authz, logger)
	noteService := service.NewNoteService(projectRepo, taskRepo, noteRepo, authz, logger)

	// Init Handlers
	authHandler := handler.NewAuthHandler(authService, logger)
	projectHandler := handler.NewProjectHandler(projectService, logger)
	taskHandler := handler.NewTaskHandler(taskService, logger)
	teamHandler := handler.NewTeamHandler(teamService, logger)
	noteHandler := handler.NewNoteHandler(noteService, logger)

	// Router
	router := httpserver.NewRouter(
		authHandler,
		projectHandler,
		taskHandler,
		teamHandler,
		noteHandler,
		cfg.JWT.Secret,
		dbConn,
	)

	// Start API server
	if err := router.Run(cfg.Server.Port); err != nil {
		logger.Fatal("server start failed", zap.Error(err))
	}
}
