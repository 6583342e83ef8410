package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/projcollab/project-collab-api/internal/models"
	"github.com/projcollab/project-collab-api/internal/repository"
	"github.com/projcollab/project-collab-api/internal/utils"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskTitleRequired = errors.New("task title is required")
	ErrAssigneeNotFound  = errors.New("assigned user not found")
)

// TaskService handles task lifecycle rules. Authorization is the caller's
// job; by the time a mutation lands here the policy check already passed.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	logger      zerolog.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository, logger zerolog.Logger) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	ProjectID    uint64
	Title        string
	Description  string
	Priority     models.TaskPriority
	Deadline     *time.Time
	AssignedToID *uint64
}

// CreateTask creates a task in an existing project. New tasks always start
// in ToDo no matter what the caller sent. An assignee, if supplied, must
// exist.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTaskTitleRequired
	}

	if _, err := s.projectRepo.FindByID(input.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if input.AssignedToID != nil {
		if _, err := s.userRepo.FindByID(*input.AssignedToID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAssigneeNotFound
			}
			return nil, fmt.Errorf("failed to find assignee: %w", err)
		}
	}

	task := &models.Task{
		Title:        input.Title,
		Description:  input.Description,
		Status:       models.TaskStatusToDo,
		Priority:     input.Priority,
		Deadline:     input.Deadline,
		ProjectID:    input.ProjectID,
		AssignedToID: input.AssignedToID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Info().
		Uint64("task_id", task.ID).
		Uint64("project_id", input.ProjectID).
		Msg("created task")
	return s.taskRepo.FindByID(task.ID, "AssignedTo")
}

// UpdateTaskInput represents input for updating a task. Empty title and
// description keep the current value, as do nil deadline and assignee.
// Status and priority are applied unconditionally.
type UpdateTaskInput struct {
	Title        string
	Description  string
	Status       models.TaskStatus
	Priority     models.TaskPriority
	Deadline     *time.Time
	AssignedToID *uint64
}

// UpdateTask applies the supplied fields to an existing task. Reassignment
// to a different user requires that user to exist.
func (s *TaskService) UpdateTask(taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.AssignedToID != nil && (task.AssignedToID == nil || *input.AssignedToID != *task.AssignedToID) {
		if _, err := s.userRepo.FindByID(*input.AssignedToID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAssigneeNotFound
			}
			return nil, fmt.Errorf("failed to find assignee: %w", err)
		}
		task.AssignedToID = input.AssignedToID
	}

	if input.Title != "" {
		task.Title = input.Title
	}
	if input.Description != "" {
		task.Description = input.Description
	}
	// TODO: status and priority overwrite unconditionally while the other
	// fields keep their value when absent; product needs to confirm whether
	// PATCH-style semantics were ever intended here.
	task.Status = input.Status
	task.Priority = input.Priority
	if input.Deadline != nil {
		task.Deadline = input.Deadline
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.logger.Info().Uint64("task_id", taskID).Msg("updated task")
	return s.taskRepo.FindByID(task.ID, "AssignedTo")
}

// GetTask returns a task with its assignee loaded.
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "AssignedTo")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// ListProjectTasks returns a project's tasks.
func (s *TaskService) ListProjectTasks(projectID uint64, params utils.PaginationParams) ([]models.Task, int64, error) {
	tasks, total, err := s.taskRepo.ListByProjectID(projectID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// ListUserTasks returns the tasks assigned to a user.
func (s *TaskService) ListUserTasks(userID uint64, params utils.PaginationParams) ([]models.Task, int64, error) {
	tasks, total, err := s.taskRepo.ListByAssignee(userID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// DeleteTask removes a task. It reports false, without error, when the task
// did not exist.
func (s *TaskService) DeleteTask(taskID uint64) (bool, error) {
	removed, err := s.taskRepo.Delete(taskID)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}

	if removed {
		s.logger.Info().Uint64("task_id", taskID).Msg("deleted task")
	}
	return removed, nil
}
