package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/projcollab/project-collab-api/internal/models"
)

func TestTaskService_CreateTask_ForcesToDoStatus(t *testing.T) {
	env := setupProjectTestEnv(t)
	owner := createTestUser(t, env.db, "alice")

	project, err := env.projects.CreateProject(CreateProjectInput{Name: "Roadmap", OwnerID: owner.ID})
	require.NoError(t, err)

	task, err := env.tasks.CreateTask(CreateTaskInput{
		ProjectID: project.ID,
		Title:     "Ship it",
		Priority:  models.TaskPriorityCritical,
	})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusToDo, task.Status)
	require.Equal(t, models.TaskPriorityCritical, task.Priority)
}

func TestTaskService_CreateTask_UnknownAssignee(t *testing.T) {
	env := setupProjectTestEnv(t)
	owner := createTestUser(t, env.db, "alice")

	project, err := env.projects.CreateProject(CreateProjectInput{Name: "Roadmap", OwnerID: owner.ID})
	require.NoError(t, err)

	missing := uint64(999)
	_, err = env.tasks.CreateTask(CreateTaskInput{
		ProjectID:    project.ID,
		Title:        "Ship it",
		Priority:     models.TaskPriorityLow,
		AssignedToID: &missing,
	})
	require.ErrorIs(t, err, ErrAssigneeNotFound)

	var count int64
	require.NoError(t, env.db.Model(&models.Task{}).Count(&count).Error)
	require.Zero(t, count, "failed create must not insert a task")
}

func TestTaskService_CreateTask_UnknownProject(t *testing.T) {
	env := setupProjectTestEnv(t)

	_, err := env.tasks.CreateTask(CreateTaskInput{
		ProjectID: 999,
		Title:     "Ship it",
		Priority:  models.TaskPriorityLow,
	})
	require.ErrorIs(t, err, ErrProjectNotFound)
}

func TestTaskService_UpdateTask_StatusAndPriorityAlwaysApplied(t *testing.T) {
	env := setupProjectTestEnv(t)
	owner := createTestUser(t, env.db, "alice")

	project, err := env.projects.CreateProject(CreateProjectInput{Name: "Roadmap", OwnerID: owner.ID})
	require.NoError(t, err)

	task, err := env.tasks.CreateTask(CreateTaskInput{
		ProjectID:   project.ID,
		Title:       "Ship it",
		Description: "before the quarter ends",
		Priority:    models.TaskPriorityHigh,
	})
	require.NoError(t, err)

	moved, err := env.tasks.UpdateTask(task.ID, UpdateTaskInput{
		Status:   models.TaskStatusInProgress,
		Priority: models.TaskPriorityHigh,
	})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusInProgress, moved.Status)

	// Setting back to the zero-equivalent values still sticks, while the
	// empty title and description leave the stored ones alone.
	reset, err := env.tasks.UpdateTask(task.ID, UpdateTaskInput{
		Status:   models.TaskStatusToDo,
		Priority: models.TaskPriorityLow,
	})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusToDo, reset.Status)
	require.Equal(t, models.TaskPriorityLow, reset.Priority)
	require.Equal(t, "Ship it", reset.Title)
	require.Equal(t, "before the quarter ends", reset.Description)
}

func TestTaskService_UpdateTask_ReassignmentValidatesUser(t *testing.T) {
	env := setupProjectTestEnv(t)
	owner := createTestUser(t, env.db, "alice")
	member := createTestUser(t, env.db, "bob")

	project, err := env.projects.CreateProject(CreateProjectInput{Name: "Roadmap", OwnerID: owner.ID})
	require.NoError(t, err)

	task, err := env.tasks.CreateTask(CreateTaskInput{
		ProjectID: project.ID,
		Title:     "Ship it",
		Priority:  models.TaskPriorityLow,
	})
	require.NoError(t, err)

	missing := uint64(999)
	_, err = env.tasks.UpdateTask(task.ID, UpdateTaskInput{
		Status:       models.TaskStatusToDo,
		Priority:     models.TaskPriorityLow,
		AssignedToID: &missing,
	})
	require.ErrorIs(t, err, ErrAssigneeNotFound)

	assigned, err := env.tasks.UpdateTask(task.ID, UpdateTaskInput{
		Status:       models.TaskStatusToDo,
		Priority:     models.TaskPriorityLow,
		AssignedToID: &member.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedToID)
	require.Equal(t, member.ID, *assigned.AssignedToID)
	require.NotNil(t, assigned.AssignedTo)
	require.Equal(t, "bob", assigned.AssignedTo.Username)
}

func TestTaskService_UpdateTask_KeepsDeadlineWhenAbsent(t *testing.T) {
	env := setupProjectTestEnv(t)
	owner := createTestUser(t, env.db, "alice")

	project, err := env.projects.CreateProject(CreateProjectInput{Name: "Roadmap", OwnerID: owner.ID})
	require.NoError(t, err)

	deadline := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	task, err := env.tasks.CreateTask(CreateTaskInput{
		ProjectID: project.ID,
		Title:     "Ship it",
		Priority:  models.TaskPriorityLow,
		Deadline:  &deadline,
	})
	require.NoError(t, err)

	updated, err := env.tasks.UpdateTask(task.ID, UpdateTaskInput{
		Status:   models.TaskStatusReview,
		Priority: models.TaskPriorityLow,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Deadline)
	require.True(t, deadline.Equal(updated.Deadline.UTC()))
}

func TestTaskService_DeleteTask(t *testing.T) {
	env := setupProjectTestEnv(t)
	owner := createTestUser(t, env.db, "alice")

	project, err := env.projects.CreateProject(CreateProjectInput{Name: "Roadmap", OwnerID: owner.ID})
	require.NoError(t, err)

	task, err := env.tasks.CreateTask(CreateTaskInput{
		ProjectID: project.ID,
		Title:     "Ship it",
		Priority:  models.TaskPriorityLow,
	})
	require.NoError(t, err)

	removed, err := env.tasks.DeleteTask(task.ID)
	require.NoError(t, err)
	require.True(t, removed)

	removed, err = env.tasks.DeleteTask(task.ID)
	require.NoError(t, err)
	require.False(t, removed)
}
