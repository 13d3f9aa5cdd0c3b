package controller_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamhub/models"
)

func TestCreateProjectAnyTeamMember(t *testing.T) {
	e := newEnv(t)
	alice := e.seedUser("alice", models.RoleMember)
	e.seedUser("mallory", models.RoleMember)
	team := e.seedTeam("Engineering", alice.ID)
	e.seedMember(team.ID, alice.ID, "member")

	payload := map[string]interface{}{
		"teamId":  team.ID,
		"name":    "API rewrite",
		"dueDate": "2024-05-01",
	}

	// plain membership is enough to create projects
	resp := e.do(http.MethodPost, "/api/projects", e.loginSeeded("alice"), payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var project models.Project
	decodeBody(t, resp, &project)
	assert.Equal(t, team.ID, project.TeamID)
	assert.Equal(t, "active", project.Status, "status defaults to active")
	require.NotNil(t, project.DueDate)
	assert.Equal(t, "2024-05-01", project.DueDate.Format("2006-01-02"))

	// outsiders are forbidden
	resp = e.do(http.MethodPost, "/api/projects", e.loginSeeded("mallory"), payload)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCreateProjectUnknownTeam(t *testing.T) {
	e := newEnv(t)
	e.seedUser("alice", models.RoleMember)

	resp := e.do(http.MethodPost, "/api/projects", e.loginSeeded("alice"), map[string]interface{}{
		"teamId": 9999,
		"name":   "Ghost",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateProjectRejectsBadDate(t *testing.T) {
	e := newEnv(t)
	alice := e.seedUser("alice", models.RoleMember)
	team := e.seedTeam("Engineering", alice.ID)
	e.seedMember(team.ID, alice.ID, "member")

	resp := e.do(http.MethodPost, "/api/projects", e.loginSeeded("alice"), map[string]interface{}{
		"teamId":  team.ID,
		"name":    "API rewrite",
		"dueDate": "next tuesday",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListProjectsByTeam(t *testing.T) {
	e := newEnv(t)
	alice := e.seedUser("alice", models.RoleMember)
	e.seedUser("mallory", models.RoleMember)
	team := e.seedTeam("Engineering", alice.ID)
	e.seedMember(team.ID, alice.ID, "member")
	e.seedProject(team.ID, "one")
	e.seedProject(team.ID, "two")

	path := fmt.Sprintf("/api/projects?teamId=%d", team.ID)

	resp := e.do(http.MethodGet, path, e.loginSeeded("alice"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var projects []models.Project
	decodeBody(t, resp, &projects)
	assert.Len(t, projects, 2)

	resp = e.do(http.MethodGet, path, e.loginSeeded("mallory"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestListProjectsAcrossTeams(t *testing.T) {
	e := newEnv(t)
	alice := e.seedUser("alice", models.RoleMember)
	eng := e.seedTeam("Engineering", alice.ID)
	mkt := e.seedTeam("Marketing", alice.ID)
	other := e.seedTeam("Elsewhere", alice.ID)
	e.seedMember(eng.ID, alice.ID, "member")
	e.seedMember(mkt.ID, alice.ID, "member")
	e.seedProject(eng.ID, "api")
	e.seedProject(mkt.ID, "launch")
	e.seedProject(other.ID, "hidden")

	resp := e.do(http.MethodGet, "/api/projects", e.loginSeeded("alice"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var projects []models.Project
	decodeBody(t, resp, &projects)
	require.Len(t, projects, 2, "only projects from the actor's teams")
	assert.Equal(t, "api", projects[0].Name)
	assert.Equal(t, "launch", projects[1].Name)
}

func TestGetProjectRequiresMembership(t *testing.T) {
	e := newEnv(t)
	alice := e.seedUser("alice", models.RoleMember)
	e.seedUser("mallory", models.RoleMember)
	team := e.seedTeam("Engineering", alice.ID)
	e.seedMember(team.ID, alice.ID, "member")
	project := e.seedProject(team.ID, "api")

	resp := e.do(http.MethodGet, fmt.Sprintf("/api/projects/%d", project.ID), e.loginSeeded("alice"), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(http.MethodGet, fmt.Sprintf("/api/projects/%d", project.ID), e.loginSeeded("mallory"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = e.do(http.MethodGet, "/api/projects/9999", e.loginSeeded("alice"), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateProjectRequiresTeamAdmin(t *testing.T) {
	e := newEnv(t)
	alice := e.seedUser("alice", models.RoleMember)
	bob := e.seedUser("bob", models.RoleMember)
	team := e.seedTeam("Engineering", alice.ID)
	e.seedMember(team.ID, alice.ID, "admin")
	e.seedMember(team.ID, bob.ID, "member")
	project := e.seedProject(team.ID, "api")

	path := fmt.Sprintf("/api/projects/%d", project.ID)

	resp := e.do(http.MethodPut, path, e.loginSeeded("bob"), map[string]interface{}{
		"name": "renamed",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = e.do(http.MethodPut, path, e.loginSeeded("alice"), map[string]interface{}{
		"name":   "renamed",
		"status": "archived",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Project
	decodeBody(t, resp, &updated)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, "archived", updated.Status)
	assert.Equal(t, team.ID, updated.TeamID, "team binding never changes")
}

func TestDeleteProjectRequiresTeamAdmin(t *testing.T) {
	e := newEnv(t)
	alice := e.seedUser("alice", models.RoleMember)
	bob := e.seedUser("bob", models.RoleMember)
	team := e.seedTeam("Engineering", alice.ID)
	e.seedMember(team.ID, alice.ID, "admin")
	e.seedMember(team.ID, bob.ID, "member")
	project := e.seedProject(team.ID, "api")

	path := fmt.Sprintf("/api/projects/%d", project.ID)

	resp := e.do(http.MethodDelete, path, e.loginSeeded("bob"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	aliceCookie := e.loginSeeded("alice")
	resp = e.do(http.MethodDelete, path, aliceCookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(http.MethodDelete, path, aliceCookie, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
