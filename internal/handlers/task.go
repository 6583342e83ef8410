package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/projcollab/project-collab-api/internal/dto"
	apierrors "github.com/projcollab/project-collab-api/internal/errors"
	"github.com/projcollab/project-collab-api/internal/middleware"
	"github.com/projcollab/project-collab-api/internal/models"
	"github.com/projcollab/project-collab-api/internal/policy"
	"github.com/projcollab/project-collab-api/internal/services"
	"github.com/projcollab/project-collab-api/internal/utils"
)

// TaskHandler serves task endpoints.
type TaskHandler struct {
	taskService    *services.TaskService
	projectService *services.ProjectService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService, projectService *services.ProjectService) *TaskHandler {
	return &TaskHandler{
		taskService:    taskService,
		projectService: projectService,
	}
}

// ListProjectTasks returns the tasks of one project. Membership was already
// established by RequireProjectMember.
func (h *TaskHandler) ListProjectTasks(c *gin.Context) {
	membership, ok := middleware.GetMembership(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	tasks, total, err := h.taskService.ListProjectTasks(membership.ProjectID, params)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params, total))
}

// ListUserTasks returns the tasks assigned to the caller.
func (h *TaskHandler) ListUserTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	tasks, total, err := h.taskService.ListUserTasks(userID, params)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params, total))
}

// GetTask returns one task. RequireTaskAccess already loaded it.
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a task in a project the caller belongs to. The project
// id comes from the body, so the membership gate lives here rather than in
// route middleware; existence is still checked before authorization.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		ProjectID    uint64              `json:"project_id" binding:"required"`
		Title        string              `json:"title" binding:"required,max=100"`
		Description  string              `json:"description"`
		Priority     models.TaskPriority `json:"priority" binding:"required,oneof=Low Medium High Critical"`
		Deadline     *time.Time          `json:"deadline"`
		AssignedToID *uint64             `json:"assigned_to_id"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	membership, err := h.projectService.Membership(req.ProjectID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	if !policy.Allowed(membership, userID, policy.ActionCreateTask) {
		apierrors.Forbidden(c, "You are not a member of this project")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		ProjectID:    req.ProjectID,
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		Deadline:     req.Deadline,
		AssignedToID: req.AssignedToID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask changes an existing task. Any project member may update;
// status and priority are always applied, the other fields keep their
// current value when absent.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}

	type UpdateTaskRequest struct {
		Title        string              `json:"title"`
		Description  string              `json:"description"`
		Status       models.TaskStatus   `json:"status" binding:"required,oneof=ToDo InProgress Review Done"`
		Priority     models.TaskPriority `json:"priority" binding:"required,oneof=Low Medium High Critical"`
		Deadline     *time.Time          `json:"deadline"`
		AssignedToID *uint64             `json:"assigned_to_id"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.taskService.UpdateTask(task.ID, services.UpdateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Priority:     req.Priority,
		Deadline:     req.Deadline,
		AssignedToID: req.AssignedToID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// DeleteTask removes a task. Owner-only; enforced by RequireProjectOwner
// stacked after RequireTaskAccess.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}

	removed, err := h.taskService.DeleteTask(task.ID)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	if !removed {
		apierrors.NotFound(c, "Task not found")
		return
	}

	c.Status(http.StatusNoContent)
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskTitleRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrAssigneeNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
