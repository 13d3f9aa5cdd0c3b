package controller_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamhub/models"
)

func TestCreateCommentBindsAuthorToSession(t *testing.T) {
	e := newEnv(t)
	alice := e.seedUser("alice", models.RoleMember)
	e.seedUser("mallory", models.RoleMember)
	team := e.seedTeam("Engineering", alice.ID)
	e.seedMember(team.ID, alice.ID, "member")
	project := e.seedProject(team.ID, "api")
	task := e.seedTask(project.ID, "write docs")

	path := fmt.Sprintf("/api/tasks/%d/comments", task.ID)

	resp := e.do(http.MethodPost, path, e.loginSeeded("alice"), map[string]interface{}{
		"body": "looks good",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var comment models.Comment
	decodeBody(t, resp, &comment)
	assert.Equal(t, alice.ID, comment.UserID, "author comes from the session, not the payload")
	require.NotNil(t, comment.User)
	assert.Equal(t, "alice", comment.User.Username)

	resp = e.do(http.MethodPost, path, e.loginSeeded("mallory"), map[string]interface{}{
		"body": "outsider",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestListCommentsRequiresMembership(t *testing.T) {
	e := newEnv(t)
	alice := e.seedUser("alice", models.RoleMember)
	e.seedUser("mallory", models.RoleMember)
	team := e.seedTeam("Engineering", alice.ID)
	e.seedMember(team.ID, alice.ID, "member")
	project := e.seedProject(team.ID, "api")
	task := e.seedTask(project.ID, "write docs")
	require.NoError(t, e.st.CreateComment(context.Background(), &models.Comment{
		TaskID: task.ID, UserID: alice.ID, Body: "first",
	}))

	path := fmt.Sprintf("/api/tasks/%d/comments", task.ID)

	resp := e.do(http.MethodGet, path, e.loginSeeded("alice"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var comments []models.Comment
	decodeBody(t, resp, &comments)
	require.Len(t, comments, 1)
	require.NotNil(t, comments[0].User)
	assert.Equal(t, "alice", comments[0].User.Username)

	resp = e.do(http.MethodGet, path, e.loginSeeded("mallory"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = e.do(http.MethodGet, "/api/tasks/9999/comments", e.loginSeeded("alice"), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteCommentAuthorOrTeamAdmin(t *testing.T) {
	e := newEnv(t)
	admin := e.seedUser("alice", models.RoleMember)
	author := e.seedUser("bob", models.RoleMember)
	carol := e.seedUser("carol", models.RoleMember)
	team := e.seedTeam("Engineering", admin.ID)
	e.seedMember(team.ID, admin.ID, "admin")
	e.seedMember(team.ID, author.ID, "member")
	e.seedMember(team.ID, carol.ID, "member")
	project := e.seedProject(team.ID, "api")
	task := e.seedTask(project.ID, "write docs")

	newComment := func() *models.Comment {
		c := &models.Comment{TaskID: task.ID, UserID: author.ID, Body: "hm"}
		require.NoError(t, e.st.CreateComment(context.Background(), c))
		return c
	}

	// another plain member cannot delete
	c1 := newComment()
	resp := e.do(http.MethodDelete, fmt.Sprintf("/api/comments/%d", c1.ID), e.loginSeeded("carol"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// the author can
	resp = e.do(http.MethodDelete, fmt.Sprintf("/api/comments/%d", c1.ID), e.loginSeeded("bob"), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// a team admin can delete anyone's
	c2 := newComment()
	resp = e.do(http.MethodDelete, fmt.Sprintf("/api/comments/%d", c2.ID), e.loginSeeded("alice"), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// gone comments are a 404
	resp = e.do(http.MethodDelete, fmt.Sprintf("/api/comments/%d", c2.ID), e.loginSeeded("alice"), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateCommentValidatesBody(t *testing.T) {
	e := newEnv(t)
	alice := e.seedUser("alice", models.RoleMember)
	team := e.seedTeam("Engineering", alice.ID)
	e.seedMember(team.ID, alice.ID, "member")
	project := e.seedProject(team.ID, "api")
	task := e.seedTask(project.ID, "write docs")

	resp := e.do(http.MethodPost, fmt.Sprintf("/api/tasks/%d/comments", task.ID), e.loginSeeded("alice"), map[string]interface{}{
		"body": "",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
