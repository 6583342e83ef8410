package repository

import (
	"github.com/projcollab/project-collab-api/internal/models"
	"github.com/projcollab/project-collab-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// List returns all users
	List() ([]models.User, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a project and its initial owner membership atomically
	Create(project *models.Project, owner *models.ProjectMember) error

	// FindByID finds a project by ID
	FindByID(id uint64) (*models.Project, error)

	// FindWithDetails finds a project with owner, members, and tasks loaded
	FindWithDetails(id uint64) (*models.Project, error)

	// ListForUser lists projects the user owns or is a member of
	ListForUser(userID uint64) ([]models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete deletes a project, its tasks, and its membership rows
	Delete(id uint64) error

	// AddMember inserts a membership row; inserting an existing row is a no-op
	AddMember(member *models.ProjectMember) error

	// RemoveMember deletes a membership row; deleting an absent row is a no-op
	RemoveMember(projectID, userID uint64) error

	// MemberIDs lists the user ids in the project's explicit membership set
	MemberIDs(projectID uint64) ([]uint64, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// ListByProjectID lists a project's tasks with their assignees loaded
	ListByProjectID(projectID uint64, params utils.PaginationParams) ([]models.Task, int64, error)

	// ListByAssignee lists tasks assigned to a user
	ListByAssignee(userID uint64, params utils.PaginationParams) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete removes a task and reports whether a row existed
	Delete(id uint64) (bool, error)
}
