package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/projcollab/project-collab-api/internal/auth"
	"github.com/projcollab/project-collab-api/internal/middleware"
	"github.com/projcollab/project-collab-api/internal/models"
	"github.com/projcollab/project-collab-api/internal/repository"
	"github.com/projcollab/project-collab-api/internal/services"
)

const testTokenSecret = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

// setupTestRouter builds the full route tree against an in-memory database,
// mirroring the wiring in cmd/server.
func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	tokens, err := auth.NewTokenIssuer(testTokenSecret)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authService := services.NewAuthService(userRepo, tokens, zerolog.Nop())
	projectService := services.NewProjectService(projectRepo, userRepo, zerolog.Nop())
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo, zerolog.Nop())

	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(authService)
	projectHandler := NewProjectHandler(projectService)
	taskHandler := NewTaskHandler(taskService, projectService)

	r := gin.New()

	api := r.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
		}

		users := api.Group("/users")
		users.Use(middleware.RequireAuth(tokens))
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/current", userHandler.GetCurrentUser)
			users.GET("/:id", userHandler.GetUser)
		}

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

	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(out))
}

// registerAndLogin creates a user through the public endpoints and returns
// the issued token together with the user's id.
func registerAndLogin(t *testing.T, r *gin.Engine, username string) (string, uint64) {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "s3cret-" + strings.Repeat(username, 2),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID uint64 `json:"id"`
	}
	decodeBody(t, w, &created)

	w = doRequest(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": username,
		"password": "s3cret-" + strings.Repeat(username, 2),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login struct {
		Token string `json:"token"`
	}
	decodeBody(t, w, &login)
	require.NotEmpty(t, login.Token)

	return login.Token, created.ID
}
