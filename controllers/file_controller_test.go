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

func TestCreateFileBindsUploaderToSession(t *testing.T) {
	e := newEnv(t)
	alice := e.seedUser("alice", models.RoleMember)
	e.seedUser("mallory", models.RoleMember)
	team := e.seedTeam("Engineering", alice.ID)
	e.seedMember(team.ID, alice.ID, "member")
	project := e.seedProject(team.ID, "api")

	payload := map[string]interface{}{
		"projectId": project.ID,
		"name":      "design.pdf",
		"size":      2048,
		"url":       "https://files.example.com/design.pdf",
	}

	resp := e.do(http.MethodPost, "/api/files", e.loginSeeded("alice"), payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var file models.File
	decodeBody(t, resp, &file)
	assert.Equal(t, alice.ID, file.UploadedBy, "uploader comes from the session")
	assert.Equal(t, "design.pdf", file.Name)

	resp = e.do(http.MethodPost, "/api/files", e.loginSeeded("mallory"), payload)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCreateFileTaskMustBelongToProject(t *testing.T) {
	e := newEnv(t)
	alice := e.seedUser("alice", models.RoleMember)
	team := e.seedTeam("Engineering", alice.ID)
	e.seedMember(team.ID, alice.ID, "member")
	projectA := e.seedProject(team.ID, "api")
	projectB := e.seedProject(team.ID, "web")
	task := e.seedTask(projectB.ID, "elsewhere")
	cookie := e.loginSeeded("alice")

	resp := e.do(http.MethodPost, "/api/files", cookie, map[string]interface{}{
		"projectId": projectA.ID,
		"taskId":    task.ID,
		"name":      "notes.txt",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// attaching within the same project is fine
	resp = e.do(http.MethodPost, "/api/files", cookie, map[string]interface{}{
		"projectId": projectB.ID,
		"taskId":    task.ID,
		"name":      "notes.txt",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// unknown task is a 404
	resp = e.do(http.MethodPost, "/api/files", cookie, map[string]interface{}{
		"projectId": projectA.ID,
		"taskId":    9999,
		"name":      "notes.txt",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListFilesByProjectAndTask(t *testing.T) {
	e := newEnv(t)
	alice := e.seedUser("alice", models.RoleMember)
	e.seedUser("mallory", models.RoleMember)
	team := e.seedTeam("Engineering", alice.ID)
	e.seedMember(team.ID, alice.ID, "member")
	project := e.seedProject(team.ID, "api")
	task := e.seedTask(project.ID, "write docs")

	ctx := context.Background()
	require.NoError(t, e.st.CreateFile(ctx, &models.File{
		ProjectID: project.ID, UploadedBy: alice.ID, Name: "spec.pdf",
	}))
	require.NoError(t, e.st.CreateFile(ctx, &models.File{
		ProjectID: project.ID, TaskID: &task.ID, UploadedBy: alice.ID, Name: "notes.txt",
	}))

	cookie := e.loginSeeded("alice")

	resp := e.do(http.MethodGet, fmt.Sprintf("/api/projects/%d/files", project.ID), cookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var files []models.File
	decodeBody(t, resp, &files)
	assert.Len(t, files, 2)

	resp = e.do(http.MethodGet, fmt.Sprintf("/api/tasks/%d/files", task.ID), cookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &files)
	require.Len(t, files, 1)
	assert.Equal(t, "notes.txt", files[0].Name)

	resp = e.do(http.MethodGet, fmt.Sprintf("/api/projects/%d/files", project.ID), e.loginSeeded("mallory"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDeleteFileUploaderOrTeamAdmin(t *testing.T) {
	e := newEnv(t)
	admin := e.seedUser("alice", models.RoleMember)
	uploader := e.seedUser("bob", models.RoleMember)
	carol := e.seedUser("carol", models.RoleMember)
	team := e.seedTeam("Engineering", admin.ID)
	e.seedMember(team.ID, admin.ID, "admin")
	e.seedMember(team.ID, uploader.ID, "member")
	e.seedMember(team.ID, carol.ID, "member")
	project := e.seedProject(team.ID, "api")

	newFile := func() *models.File {
		f := &models.File{ProjectID: project.ID, UploadedBy: uploader.ID, Name: "x.bin"}
		require.NoError(t, e.st.CreateFile(context.Background(), f))
		return f
	}

	f1 := newFile()
	resp := e.do(http.MethodDelete, fmt.Sprintf("/api/files/%d", f1.ID), e.loginSeeded("carol"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = e.do(http.MethodDelete, fmt.Sprintf("/api/files/%d", f1.ID), e.loginSeeded("bob"), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	f2 := newFile()
	resp = e.do(http.MethodDelete, fmt.Sprintf("/api/files/%d", f2.ID), e.loginSeeded("alice"), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(http.MethodDelete, fmt.Sprintf("/api/files/%d", f2.ID), e.loginSeeded("alice"), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
