package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/projcollab/project-collab-api/internal/dto"
	apierrors "github.com/projcollab/project-collab-api/internal/errors"
	"github.com/projcollab/project-collab-api/internal/middleware"
	"github.com/projcollab/project-collab-api/internal/services"
)

// ProjectHandler serves project and membership endpoints.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// ListProjects returns projects the caller owns or belongs to.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projects, err := h.projectService.ListUserProjects(userID)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTOs(projects))
}

// GetProject returns one project with owner, members, and tasks.
// Membership was already established by RequireProjectMember.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	membership, ok := middleware.GetMembership(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}

	project, err := h.projectService.GetProject(membership.ProjectID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// CreateProject creates a project owned by the caller.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateProjectRequest struct {
		Name        string     `json:"name" binding:"required,max=100"`
		Description string     `json:"description"`
		Deadline    *time.Time `json:"deadline"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Deadline:    req.Deadline,
		OwnerID:     userID,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	created, err := h.projectService.GetProject(project.ID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*created))
}

// UpdateProject changes a project's name, description, or deadline.
// Owner-only; enforced by RequireProjectOwner.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	membership, ok := middleware.GetMembership(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}

	type UpdateProjectRequest struct {
		Name        *string    `json:"name"`
		Description *string    `json:"description"`
		Deadline    *time.Time `json:"deadline"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.UpdateProject(membership.ProjectID, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Deadline:    req.Deadline,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject removes a project and all of its tasks. Owner-only.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	membership, ok := middleware.GetMembership(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}

	if err := h.projectService.DeleteProject(membership.ProjectID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddMember grants a user membership of the project. Owner-only; adding an
// existing member succeeds.
func (h *ProjectHandler) AddMember(c *gin.Context) {
	membership, ok := middleware.GetMembership(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}

	memberID, err := strconv.ParseUint(c.Param("member_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid member ID")
		return
	}

	if err := h.projectService.AddMember(membership.ProjectID, memberID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RemoveMember revokes a user's membership. Owner-only; removing an absent
// member succeeds.
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	membership, ok := middleware.GetMembership(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}

	memberID, err := strconv.ParseUint(c.Param("member_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid member ID")
		return
	}

	if err := h.projectService.RemoveMember(membership.ProjectID, memberID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNameRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
