package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"teamhub/config"
	"teamhub/middleware"
	"teamhub/models"
	"teamhub/routes"
	"teamhub/session"
	"teamhub/store"
)

const testPassword = "password123!"

type env struct {
	t   *testing.T
	app *fiber.App
	st  *store.MemoryStore
}

func newEnv(t *testing.T) *env {
	t.Helper()
	config.AppConfig.AdminPassword = "bootstrap-secret"

	log := logrus.New()
	log.SetOutput(io.Discard)

	st := store.NewMemoryStore()
	app := fiber.New()
	routes.SetupRoutes(app, st, session.NewMemoryManager(), log)
	return &env{t: t, app: app, st: st}
}

// seedUser creates a user directly in the store with the shared test
// password, bcrypt-hashed at min cost to keep the suite fast.
func (e *env) seedUser(username, role string) *models.User {
	e.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(e.t, err)
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
		Role:     role,
		UserType: "standard",
	}
	require.NoError(e.t, e.st.CreateUser(context.Background(), u))
	return u
}

func (e *env) seedTeam(name string, creatorID uint) *models.Team {
	e.t.Helper()
	team := &models.Team{Name: name, CreatedBy: creatorID}
	require.NoError(e.t, e.st.CreateTeam(context.Background(), team))
	return team
}

func (e *env) seedMember(teamID, userID uint, role string) {
	e.t.Helper()
	m := &models.TeamMember{TeamID: teamID, UserID: userID, Role: role}
	require.NoError(e.t, e.st.AddMember(context.Background(), m))
}

func (e *env) seedProject(teamID uint, name string) *models.Project {
	e.t.Helper()
	p := &models.Project{TeamID: teamID, Name: name, Status: "active"}
	require.NoError(e.t, e.st.CreateProject(context.Background(), p))
	return p
}

func (e *env) seedTask(projectID uint, title string) *models.Task {
	e.t.Helper()
	task := &models.Task{ProjectID: projectID, Title: title, Status: "todo", Priority: "medium"}
	require.NoError(e.t, e.st.CreateTask(context.Background(), task))
	return task
}

// login authenticates through the HTTP surface and returns the session
// cookie value.
func (e *env) login(username, password string) string {
	e.t.Helper()
	resp := e.do(http.MethodPost, "/api/auth/login", "", fiber.Map{
		"username": username,
		"password": password,
	})
	require.Equal(e.t, http.StatusOK, resp.StatusCode, "login failed for %s", username)
	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.SessionCookie {
			return cookie.Value
		}
	}
	e.t.Fatalf("no session cookie in login response for %s", username)
	return ""
}

func (e *env) loginSeeded(username string) string {
	return e.login(username, testPassword)
}

// do performs a request against the app; body may be nil. A non-empty
// cookie value is attached as the session cookie.
func (e *env) do(method, path, cookie string, body interface{}) *http.Response {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: cookie})
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func bodyString(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func errorMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &body)
	return body.Error
}
