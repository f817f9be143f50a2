package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"project-service/internal/model"
	"project-service/internal/service"
	"project-service/internal/storetest"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// testUserMiddleware authenticates from the X-User-ID header so the
// tests can act as different callers without minting tokens.
func testUserMiddleware(c *gin.Context) {
	id, err := strconv.Atoi(c.GetHeader("X-User-ID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		c.Abort()
		return
	}
	c.Set("user_id", id)
	c.Next()
}

type env struct {
	store  *storetest.Store
	router *gin.Engine
}

func newEnv() *env {
	store := storetest.New()
	logger := zap.NewNop()

	authz := service.NewAuthorizer(store.Projects, nil, logger)
	cascade := service.NewCascadeManager(store.Projects, store.Tasks, store.Notes, logger)
	projectService := service.NewProjectService(store.Projects, authz, cascade, nil, logger)
	taskService := service.NewTaskService(store.Projects, store.Tasks, authz, cascade, nil, logger)
	teamService := service.NewTeamService(store.Projects, store.Users, authz, logger)
	noteService := service.NewNoteService(store.Projects, store.Tasks, store.Notes, authz, logger)
	authService := service.NewAuthService(store.Users, "test-secret")

	projectHandler := NewProjectHandler(projectService, logger)
	taskHandler := NewTaskHandler(taskService, logger)
	teamHandler := NewTeamHandler(teamService, logger)
	noteHandler := NewNoteHandler(noteService, logger)
	authHandler := NewAuthHandler(authService, logger)

	router := gin.New()
	router.POST("/register", authHandler.Register)
	router.POST("/login", authHandler.Login)

	api := router.Group("/api")
	api.Use(testUserMiddleware)
	{
		api.POST("/projects", projectHandler.Create)
		api.GET("/projects", projectHandler.List)
		api.GET("/projects/:projectID", projectHandler.Get)
		api.PUT("/projects/:projectID", projectHandler.Update)
		api.DELETE("/projects/:projectID", projectHandler.Delete)

		api.POST("/projects/:projectID/team", teamHandler.Add)
		api.GET("/projects/:projectID/team", teamHandler.List)

		api.POST("/projects/:projectID/tasks", taskHandler.Create)
		api.GET("/projects/:projectID/tasks/:taskID", taskHandler.Get)
		api.POST("/projects/:projectID/tasks/:taskID/status", taskHandler.UpdateStatus)
		api.DELETE("/projects/:projectID/tasks/:taskID", taskHandler.Delete)

		api.POST("/projects/:projectID/tasks/:taskID/notes", noteHandler.Create)
		api.DELETE("/projects/:projectID/tasks/:taskID/notes/:noteID", noteHandler.Delete)
	}

	return &env{store: store, router: router}
}

func (e *env) do(t *testing.T, userID int, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("X-User-ID", strconv.Itoa(userID))
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *env) seedProject(t *testing.T, managerID int) int {
	t.Helper()
	rec := e.do(t, managerID, http.MethodPost, "/api/projects", gin.H{
		"name":        "site",
		"client_name": "acme",
		"description": "launch",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Project model.Project `json:"project"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Project.ID
}

func (e *env) seedTask(t *testing.T, managerID, projectID int) int {
	t.Helper()
	rec := e.do(t, managerID, http.MethodPost,
		fmt.Sprintf("/api/projects/%d/tasks", projectID),
		gin.H{"name": "build", "description": "build it"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Task model.Task `json:"task"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Task.ID
}

func TestRegisterAndLogin(t *testing.T) {
	e := newEnv()

	rec := e.do(t, 0, http.MethodPost, "/register", gin.H{
		"name":     "Mia",
		"email":    "mia@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.do(t, 0, http.MethodPost, "/login", gin.H{
		"email":    "mia@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	rec = e.do(t, 0, http.MethodPost, "/login", gin.H{
		"email":    "mia@example.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProjectUpdate_MemberGets403(t *testing.T) {
	e := newEnv()
	manager := e.store.SeedUser("mia", "mia@example.com")
	member := e.store.SeedUser("tom", "tom@example.com")
	projectID := e.seedProject(t, manager)

	rec := e.do(t, manager, http.MethodPost,
		fmt.Sprintf("/api/projects/%d/team", projectID), gin.H{"id": member})
	require.Equal(t, http.StatusOK, rec.Code)

	body := gin.H{"name": "v2", "client_name": "acme", "description": "relaunch"}
	rec = e.do(t, member, http.MethodPut, fmt.Sprintf("/api/projects/%d", projectID), body)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, manager, http.MethodPut, fmt.Sprintf("/api/projects/%d", projectID), body)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestTaskStatusEndpoint(t *testing.T) {
	e := newEnv()
	manager := e.store.SeedUser("mia", "mia@example.com")
	projectID := e.seedProject(t, manager)
	taskID := e.seedTask(t, manager, projectID)

	statusURL := fmt.Sprintf("/api/projects/%d/tasks/%d/status", projectID, taskID)

	rec := e.do(t, manager, http.MethodPost, statusURL, gin.H{"status": "inProgress"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Task model.Task `json:"task"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, model.TaskStatusInProgress, resp.Task.Status)
	require.Len(t, resp.Task.CompletedBy, 1)

	rec = e.do(t, manager, http.MethodPost, statusURL, gin.H{"status": "done"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskCrossProjectAccessIs404(t *testing.T) {
	e := newEnv()
	mia := e.store.SeedUser("mia", "mia@example.com")
	tom := e.store.SeedUser("tom", "tom@example.com")

	projectA := e.seedProject(t, mia)
	projectB := e.seedProject(t, tom)
	taskID := e.seedTask(t, mia, projectA)

	// Task of A addressed through B: not found, even for B's manager.
	rec := e.do(t, tom, http.MethodGet,
		fmt.Sprintf("/api/projects/%d/tasks/%d", projectB, taskID), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Through the right project it resolves.
	rec = e.do(t, mia, http.MethodGet,
		fmt.Sprintf("/api/projects/%d/tasks/%d", projectA, taskID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestTaskDelete_SecondCallIs404(t *testing.T) {
	e := newEnv()
	manager := e.store.SeedUser("mia", "mia@example.com")
	projectID := e.seedProject(t, manager)
	taskID := e.seedTask(t, manager, projectID)

	rec := e.do(t, manager, http.MethodPost,
		fmt.Sprintf("/api/projects/%d/tasks/%d/notes", projectID, taskID),
		gin.H{"content": "remember"})
	require.Equal(t, http.StatusCreated, rec.Code)

	url := fmt.Sprintf("/api/projects/%d/tasks/%d", projectID, taskID)
	rec = e.do(t, manager, http.MethodDelete, url, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, manager, http.MethodDelete, url, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
