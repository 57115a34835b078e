package task

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-tasks-go/pkg/hateoas"
	"github.com/ovaphlow/pitchfork/service-tasks-go/pkg/utilities"
)

func newTestMux() (*http.ServeMux, *fakeRepo) {
	svc, repo := newTestService()
	h := NewHandler(svc, zap.NewNop().Sugar())
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tasks", h.List)
	mux.HandleFunc("GET /api/tasks/{id}", h.Show)
	mux.HandleFunc("POST /api/tasks", h.Create)
	mux.HandleFunc("PUT /api/tasks/{id}", h.Update)
	mux.HandleFunc("DELETE /api/tasks/{id}", h.Delete)
	return mux, repo
}

func do(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "http://api.test"+target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandler_CRUD(t *testing.T) {
	mux, _ := newTestMux()

	rec := do(mux, http.MethodPost, "/api/tasks", `{"title":"Write report","status":"PENDING","dueDate":"2025-03-10"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "http://api.test/api/tasks/1", rec.Header().Get("Location"))
	var m Model
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&m))
	assert.Equal(t, due, m.DueDate)
	assert.Equal(t, "http://api.test/api/tasks/1", m.Links["delete"].Href)

	rec = do(mux, http.MethodGet, "/api/tasks/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"dueDate":"2025-03-10"`)

	rec = do(mux, http.MethodPut, "/api/tasks/1", `{"title":"Write report","status":"DONE","dueDate":"2025-03-11"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"DONE"`)

	rec = do(mux, http.MethodDelete, "/api/tasks/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(mux, http.MethodGet, "/api/tasks/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_BadRequests(t *testing.T) {
	mux, _ := newTestMux()

	rec := do(mux, http.MethodPost, "/api/tasks", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(mux, http.MethodPost, "/api/tasks", `{"title":"ok","status":"PENDING","dueDate":"10/03/2025"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(mux, http.MethodPost, "/api/tasks", `{"title":"ab","status":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body utilities.RestError
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, http.StatusBadRequest, body.Cod)
	assert.Equal(t, "invalid fields", body.Message)
	assert.Contains(t, body.Fields, "title")
	assert.Contains(t, body.Fields, "status")
	assert.Contains(t, body.Fields, "dueDate")

	rec = do(mux, http.MethodGet, "/api/tasks/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_ListPaged(t *testing.T) {
	mux, _ := newTestMux()
	for i := 0; i < 7; i++ {
		rec := do(mux, http.MethodPost, "/api/tasks", `{"title":"Task number","status":"PENDING","dueDate":"2025-03-10"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := do(mux, http.MethodGet, "/api/tasks?busca=number&page=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Embedded struct {
			TaskList []Model `json:"taskList"`
		} `json:"_embedded"`
		Links hateoas.Links        `json:"_links"`
		Page  hateoas.PageMetadata `json:"page"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
	assert.Len(t, page.Embedded.TaskList, 2)
	assert.Equal(t, hateoas.PageMetadata{Size: 5, TotalElements: 7, TotalPages: 2, Number: 1}, page.Page)
	assert.Contains(t, page.Links, "prev")
	assert.NotContains(t, page.Links, "next")
}

func TestHandler_StoreFailure(t *testing.T) {
	mux, repo := newTestMux()
	repo.err = errors.New("connection reset")

	rec := do(mux, http.MethodGet, "/api/tasks", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection reset")
}
