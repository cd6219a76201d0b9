package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nambuntu/sdd-speckit-todoapp/internal/todo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	app := application{
		config: config{
			allowedOrigins: []string{"*"},
			requestTimeout: 5 * time.Second,
		},
		todoService: todo.NewService(todo.NewRepository()),
	}
	srv := httptest.NewServer(app.mount())
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path string, body any) (int, apiResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var out apiResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return res.StatusCode, out
}

func TestTodoLifecycle(t *testing.T) {
	srv := newTestServer(t)

	status, res := call(t, srv, http.MethodGet, "/api/todos", nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, res.Success)
	assert.JSONEq(t, `[]`, string(res.Data))

	status, res = call(t, srv, http.MethodPost, "/api/todos", map[string]any{"title": "Test task"})
	require.Equal(t, http.StatusCreated, status)
	var created todo.Todo
	require.NoError(t, json.Unmarshal(res.Data, &created))
	assert.Equal(t, "Test task", created.Title)

	status, res = call(t, srv, http.MethodGet, "/api/todos", nil)
	require.Equal(t, http.StatusOK, status)
	var list []todo.Todo
	require.NoError(t, json.Unmarshal(res.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	status, res = call(t, srv, http.MethodPatch, "/api/todos/"+created.ID, map[string]any{"completed": true})
	require.Equal(t, http.StatusOK, status)
	var updated todo.Todo
	require.NoError(t, json.Unmarshal(res.Data, &updated))
	assert.True(t, updated.Completed)

	status, res = call(t, srv, http.MethodDelete, "/api/todos/"+created.ID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, res.Success)

	status, res = call(t, srv, http.MethodGet, "/api/todos", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(res.Data))
}

func TestPatchUnknownID(t *testing.T) {
	srv := newTestServer(t)

	status, res := call(t, srv, http.MethodPatch, "/api/todos/invalid-id", map[string]any{"completed": true})
	require.Equal(t, http.StatusNotFound, status)
	assert.False(t, res.Success)
	assert.Equal(t, "NOT_FOUND", res.Error.Code)
}

func TestCreateInvalidTitle(t *testing.T) {
	srv := newTestServer(t)

	status, res := call(t, srv, http.MethodPost, "/api/todos", map[string]any{"title": ""})
	require.Equal(t, http.StatusBadRequest, status)
	assert.False(t, res.Success)
	assert.Equal(t, "VALIDATION_ERROR", res.Error.Code)
	assert.Equal(t, "Title required", res.Error.Message)
}

func TestUnmatchedRoutes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{"unknown path", http.MethodGet, "/api/unknown"},
		{"root", http.MethodGet, "/"},
		{"unsupported method", http.MethodPut, "/api/todos/some-id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, res := call(t, srv, tt.method, tt.path, nil)
			require.Equal(t, http.StatusNotFound, status)
			assert.False(t, res.Success)
			assert.Equal(t, "NOT_FOUND", res.Error.Code)
			assert.Equal(t, "Route not found", res.Error.Message)
		})
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	status, res := call(t, srv, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(res.Data))
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/todos", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)

	res, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, res.Header.Get("Access-Control-Allow-Methods"), http.MethodPatch)
}

func TestRunShutsDownOnContextCancel(t *testing.T) {
	app := application{
		config:      config{addr: "127.0.0.1:0"},
		todoService: todo.NewService(todo.NewRepository()),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.run(ctx, app.mount()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout):
		t.Fatal("server did not shut down")
	}
}

func TestNewLogger(t *testing.T) {
	assert.NotNil(t, newLogger("json", "debug"))
	assert.NotNil(t, newLogger("text", "not-a-level"))
}
