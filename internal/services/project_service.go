package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/projcollab/project-collab-api/internal/models"
	"github.com/projcollab/project-collab-api/internal/policy"
	"github.com/projcollab/project-collab-api/internal/repository"
)

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrProjectNameRequired = errors.New("project name is required")
)

// ProjectService provides business logic for projects and their membership.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	logger      zerolog.Logger
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, logger zerolog.Logger) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Description string
	Deadline    *time.Time
	OwnerID     uint64
}

// CreateProject creates a project whose creator becomes the owner and the
// sole initial member.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrProjectNameRequired
	}

	if _, err := s.userRepo.FindByID(input.OwnerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find owner: %w", err)
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		Deadline:    input.Deadline,
		OwnerID:     input.OwnerID,
	}

	owner := &models.ProjectMember{
		JoinedAt: time.Now(),
	}

	if err := s.projectRepo.Create(project, owner); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.Info().
		Uint64("project_id", project.ID).
		Uint64("owner_id", input.OwnerID).
		Msg("created project")
	return project, nil
}

// ListUserProjects returns projects the user owns or is a member of.
func (s *ProjectService) ListUserProjects(userID uint64) ([]models.Project, error) {
	projects, err := s.projectRepo.ListForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns a project with owner, members, and tasks loaded.
func (s *ProjectService) GetProject(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindWithDetails(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	return project, nil
}

// UpdateProjectInput carries project fields to change. Nil fields keep their
// current value.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Deadline    *time.Time
}

// UpdateProject applies the supplied fields to an existing project.
func (s *ProjectService) UpdateProject(projectID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if input.Name != nil && *input.Name != "" {
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Deadline != nil {
		project.Deadline = input.Deadline
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.projectRepo.FindWithDetails(project.ID)
}

// DeleteProject removes a project, cascading to its tasks and membership
// rows. Member and owner user records are untouched.
func (s *ProjectService) DeleteProject(projectID uint64) error {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.logger.Info().Uint64("project_id", projectID).Msg("deleted project")
	return nil
}

// AddMember inserts a user into the project's membership set. Adding an
// existing member succeeds without effect.
func (s *ProjectService) AddMember(projectID, userID uint64) error {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	member := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		JoinedAt:  time.Now(),
	}

	if err := s.projectRepo.AddMember(member); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	s.logger.Info().
		Uint64("project_id", projectID).
		Uint64("user_id", userID).
		Msg("added project member")
	return nil
}

// RemoveMember removes a user from the membership set. Removing an absent
// member succeeds without effect; only a missing project is an error.
// Removing the owner's row changes nothing about the owner's access.
func (s *ProjectService) RemoveMember(projectID, userID uint64) error {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.projectRepo.RemoveMember(projectID, userID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	s.logger.Info().
		Uint64("project_id", projectID).
		Uint64("user_id", userID).
		Msg("removed project member")
	return nil
}

// Membership loads the owner/member state access decisions are made from.
func (s *ProjectService) Membership(projectID uint64) (policy.Membership, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return policy.Membership{}, ErrProjectNotFound
		}
		return policy.Membership{}, fmt.Errorf("failed to find project: %w", err)
	}

	memberIDs, err := s.projectRepo.MemberIDs(projectID)
	if err != nil {
		return policy.Membership{}, fmt.Errorf("failed to list members: %w", err)
	}

	return policy.Membership{
		ProjectID: project.ID,
		OwnerID:   project.OwnerID,
		MemberIDs: memberIDs,
	}, nil
}
