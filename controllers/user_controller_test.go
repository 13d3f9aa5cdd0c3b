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

func TestCreateUserAdminOnly(t *testing.T) {
	e := newEnv(t)
	e.seedUser("root", models.RoleAdmin)
	e.seedUser("alice", models.RoleMember)

	payload := map[string]interface{}{
		"username": "bob",
		"email":    "bob@example.com",
		"password": "long-enough-pass",
	}

	resp := e.do(http.MethodPost, "/api/users", e.loginSeeded("alice"), payload)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = e.do(http.MethodPost, "/api/users", e.loginSeeded("root"), payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.User
	decodeBody(t, resp, &created)
	assert.Equal(t, "bob", created.Username)
	assert.Equal(t, models.RoleMember, created.Role, "role defaults to member")

	stored, err := e.st.UserByUsername(context.Background(), "bob")
	require.NoError(t, err)
	assert.NotEqual(t, "long-enough-pass", stored.Password, "password must be stored hashed")
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	e := newEnv(t)
	e.seedUser("root", models.RoleAdmin)
	e.seedUser("alice", models.RoleMember)
	cookie := e.loginSeeded("root")

	resp := e.do(http.MethodPost, "/api/users", cookie, map[string]interface{}{
		"username": "alice",
		"email":    "other@example.com",
		"password": "long-enough-pass",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCreateUserValidation(t *testing.T) {
	e := newEnv(t)
	e.seedUser("root", models.RoleAdmin)
	cookie := e.loginSeeded("root")

	cases := []struct {
		name    string
		payload map[string]interface{}
	}{
		{"missing username", map[string]interface{}{"email": "a@example.com", "password": "long-enough-pass"}},
		{"short password", map[string]interface{}{"username": "bob", "email": "a@example.com", "password": "short"}},
		{"bad email", map[string]interface{}{"username": "bob", "email": "not-an-email", "password": "long-enough-pass"}},
		{"bad role", map[string]interface{}{"username": "bob", "email": "a@example.com", "password": "long-enough-pass", "role": "owner"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := e.do(http.MethodPost, "/api/users", cookie, tc.payload)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestListUsersOmitsPasswords(t *testing.T) {
	e := newEnv(t)
	e.seedUser("alice", models.RoleMember)
	e.seedUser("bob", models.RoleMember)

	resp := e.do(http.MethodGet, "/api/users", e.loginSeeded("alice"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := bodyString(t, resp)
	assert.Contains(t, body, "alice")
	assert.Contains(t, body, "bob")
	assert.NotContains(t, body, "password")
}

func TestGetUser(t *testing.T) {
	e := newEnv(t)
	alice := e.seedUser("alice", models.RoleMember)
	cookie := e.loginSeeded("alice")

	resp := e.do(http.MethodGet, fmt.Sprintf("/api/users/%d", alice.ID), cookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(http.MethodGet, "/api/users/9999", cookie, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// non-numeric ids are not found, never an internal error
	resp = e.do(http.MethodGet, "/api/users/abc", cookie, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateUserSelfService(t *testing.T) {
	e := newEnv(t)
	alice := e.seedUser("alice", models.RoleMember)
	bob := e.seedUser("bob", models.RoleMember)
	cookie := e.loginSeeded("alice")

	resp := e.do(http.MethodPut, fmt.Sprintf("/api/users/%d", alice.ID), cookie, map[string]interface{}{
		"fullName": "Alice A.",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.User
	decodeBody(t, resp, &updated)
	assert.Equal(t, "Alice A.", updated.FullName)

	// members cannot edit other accounts
	resp = e.do(http.MethodPut, fmt.Sprintf("/api/users/%d", bob.ID), cookie, map[string]interface{}{
		"fullName": "Hacked",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestUpdateUserRoleChangeAdminOnly(t *testing.T) {
	e := newEnv(t)
	alice := e.seedUser("alice", models.RoleMember)
	e.seedUser("root", models.RoleAdmin)

	// a member cannot elevate themselves
	resp := e.do(http.MethodPut, fmt.Sprintf("/api/users/%d", alice.ID), e.loginSeeded("alice"), map[string]interface{}{
		"role": "admin",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// a global admin can change anyone's role
	resp = e.do(http.MethodPut, fmt.Sprintf("/api/users/%d", alice.ID), e.loginSeeded("root"), map[string]interface{}{
		"role": "admin",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stored, err := e.st.UserByID(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, stored.Role)
}

func TestDeleteUser(t *testing.T) {
	e := newEnv(t)
	root := e.seedUser("root", models.RoleAdmin)
	e.seedUser("alice", models.RoleMember)
	bob := e.seedUser("bob", models.RoleMember)

	// members cannot delete accounts
	resp := e.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", bob.ID), e.loginSeeded("alice"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	rootCookie := e.loginSeeded("root")

	// admins cannot delete themselves
	resp = e.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", root.ID), rootCookie, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = e.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", bob.ID), rootCookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// deleting again is a clean 404
	resp = e.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", bob.ID), rootCookie, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
