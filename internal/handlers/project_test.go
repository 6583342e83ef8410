package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type projectResponse struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Owner   *struct {
		ID       uint64 `json:"id"`
		Username string `json:"username"`
	} `json:"owner"`
	Members []struct {
		ID       uint64 `json:"id"`
		Username string `json:"username"`
	} `json:"members"`
}

// Full collaboration flow: alice creates a project, invites bob, bob can
// view but not administer, alice tears it down.
func TestProjectCollaborationFlow(t *testing.T) {
	r := setupTestRouter(t)
	aliceToken, aliceID := registerAndLogin(t, r, "alice")
	bobToken, bobID := registerAndLogin(t, r, "bob")

	// alice creates a project and is its owner and sole member
	w := doRequest(t, r, http.MethodPost, "/api/projects", aliceToken, gin.H{
		"name":        "Roadmap",
		"description": "Q3 planning",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var project projectResponse
	decodeBody(t, w, &project)
	require.Equal(t, "Roadmap", project.Name)
	require.NotNil(t, project.Owner)
	require.Equal(t, aliceID, project.Owner.ID)
	require.Len(t, project.Members, 1)
	require.Equal(t, aliceID, project.Members[0].ID)

	projectPath := fmt.Sprintf("/api/projects/%d", project.ID)

	// bob is not yet a member: viewing is denied, not hidden
	w = doRequest(t, r, http.MethodGet, projectPath, bobToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	// bob cannot add himself
	w = doRequest(t, r, http.MethodPost, fmt.Sprintf("%s/members/%d", projectPath, bobID), bobToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	// alice adds bob; doing it twice is fine
	w = doRequest(t, r, http.MethodPost, fmt.Sprintf("%s/members/%d", projectPath, bobID), aliceToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = doRequest(t, r, http.MethodPost, fmt.Sprintf("%s/members/%d", projectPath, bobID), aliceToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	// bob can now view the project and its tasks
	w = doRequest(t, r, http.MethodGet, projectPath, bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &project)
	require.Len(t, project.Members, 2)

	w = doRequest(t, r, http.MethodGet, projectPath+"/tasks", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// administration stays owner-only
	w = doRequest(t, r, http.MethodPut, projectPath, bobToken, gin.H{"name": "Hijacked"})
	require.Equal(t, http.StatusForbidden, w.Code)
	w = doRequest(t, r, http.MethodDelete, projectPath, bobToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	// the project shows up in both users' listings
	for _, token := range []string{aliceToken, bobToken} {
		w = doRequest(t, r, http.MethodGet, "/api/projects", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var listed []projectResponse
		decodeBody(t, w, &listed)
		require.Len(t, listed, 1)
		require.Equal(t, project.ID, listed[0].ID)
	}

	// alice deletes the project; it is gone for everyone
	w = doRequest(t, r, http.MethodDelete, projectPath, aliceToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, r, http.MethodGet, projectPath, aliceToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetProject_MissingIsNotFoundEvenWhenAuthenticated(t *testing.T) {
	r := setupTestRouter(t)
	token, _ := registerAndLogin(t, r, "alice")

	w := doRequest(t, r, http.MethodGet, "/api/projects/999", token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/projects/abc", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveMember_AbsentMemberSucceeds(t *testing.T) {
	r := setupTestRouter(t)
	aliceToken, _ := registerAndLogin(t, r, "alice")
	_, bobID := registerAndLogin(t, r, "bob")

	w := doRequest(t, r, http.MethodPost, "/api/projects", aliceToken, gin.H{"name": "Roadmap"})
	require.Equal(t, http.StatusCreated, w.Code)
	var project projectResponse
	decodeBody(t, w, &project)

	// bob was never added; removal is still a success
	w = doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/projects/%d/members/%d", project.ID, bobID), aliceToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestAddMember_UnknownUserIsNotFound(t *testing.T) {
	r := setupTestRouter(t)
	aliceToken, _ := registerAndLogin(t, r, "alice")

	w := doRequest(t, r, http.MethodPost, "/api/projects", aliceToken, gin.H{"name": "Roadmap"})
	require.Equal(t, http.StatusCreated, w.Code)
	var project projectResponse
	decodeBody(t, w, &project)

	w = doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/projects/%d/members/999", project.ID), aliceToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateProject_PartialBodyKeepsOtherFields(t *testing.T) {
	r := setupTestRouter(t)
	aliceToken, _ := registerAndLogin(t, r, "alice")

	w := doRequest(t, r, http.MethodPost, "/api/projects", aliceToken, gin.H{
		"name":        "Roadmap",
		"description": "Q3 planning",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var project projectResponse
	decodeBody(t, w, &project)

	w = doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/projects/%d", project.ID), aliceToken, gin.H{
		"name": "Roadmap 2.0",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	decodeBody(t, w, &updated)
	require.Equal(t, "Roadmap 2.0", updated.Name)
	require.Equal(t, "Q3 planning", updated.Description)
}
