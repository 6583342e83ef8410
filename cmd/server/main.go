package main

import (
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"

	"github.com/projcollab/project-collab-api/internal/auth"
	"github.com/projcollab/project-collab-api/internal/config"
	"github.com/projcollab/project-collab-api/internal/database"
	"github.com/projcollab/project-collab-api/internal/handlers"
	"github.com/projcollab/project-collab-api/internal/logging"
	"github.com/projcollab/project-collab-api/internal/middleware"
	"github.com/projcollab/project-collab-api/internal/repository"
	"github.com/projcollab/project-collab-api/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLogger := logging.New(config.EnvDev)
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := logging.New(cfg.Env)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// The signing secret is validated once at startup; a short secret is a
	// deployment mistake, not something to limp along with.
	tokens, err := auth.NewTokenIssuer(cfg.TokenSecret)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid token secret")
	}

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	db := database.GetDB()

	// Initialize repositories and services
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authService := services.NewAuthService(userRepo, tokens, logger)
	projectService := services.NewProjectService(projectRepo, userRepo, logger)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService, projectService)

	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Project Collab API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
		}

		// User routes (protected)
		users := api.Group("/users")
		users.Use(middleware.RequireAuth(tokens))
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/current", userHandler.GetCurrentUser)
			users.GET("/:id", userHandler.GetUser)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth(tokens))
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", middleware.RequireProjectMember(projectService), projectHandler.GetProject)
			projects.PUT("/:id", middleware.RequireProjectMember(projectService), middleware.RequireProjectOwner(), projectHandler.UpdateProject)
			projects.DELETE("/:id", middleware.RequireProjectMember(projectService), middleware.RequireProjectOwner(), projectHandler.DeleteProject)
			projects.GET("/:id/tasks", middleware.RequireProjectMember(projectService), taskHandler.ListProjectTasks)
			projects.POST("/:id/members/:member_id", middleware.RequireProjectMember(projectService), middleware.RequireProjectOwner(), projectHandler.AddMember)
			projects.DELETE("/:id/members/:member_id", middleware.RequireProjectMember(projectService), middleware.RequireProjectOwner(), projectHandler.RemoveMember)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth(tokens))
		{
			tasks.GET("/user", taskHandler.ListUserTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", middleware.RequireTaskAccess(taskService, projectService), taskHandler.GetTask)
			tasks.PUT("/:id", middleware.RequireTaskAccess(taskService, projectService), taskHandler.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireTaskAccess(taskService, projectService), middleware.RequireProjectOwner(), taskHandler.DeleteTask)
		}
	}

	// Start server
	logger.Info().Str("addr", cfg.HTTPAddr).Msg("server starting")
	if err := r.Run(cfg.HTTPAddr); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}
