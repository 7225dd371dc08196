package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/contentagent/internal/api"
	"github.com/jonesrussell/contentagent/internal/history"
	"github.com/jonesrussell/contentagent/internal/logger"
	"github.com/jonesrussell/contentagent/internal/pipeline"
	"github.com/jonesrussell/contentagent/internal/platforms"
	"github.com/jonesrussell/contentagent/internal/publish"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRunner struct {
	outcome *pipeline.Outcome
	err     error
	reqs    []pipeline.Request
}

func (f *fakeRunner) Run(_ context.Context, req pipeline.Request) (*pipeline.Outcome, error) {
	f.reqs = append(f.reqs, req)
	return f.outcome, f.err
}

type fakeLister struct {
	entries []history.Entry
	err     error
	limits  []int
}

func (f *fakeLister) Recent(_ context.Context, limit int) ([]history.Entry, error) {
	f.limits = append(f.limits, limit)
	return f.entries, f.err
}

func newRouter(runner api.PipelineRunner, lister api.HistoryLister) *gin.Engine {
	h := api.NewHandlers(runner, lister, logger.NewNop(), "test")
	return api.NewRouter(h, logger.NewNop())
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGenerate_Success(t *testing.T) {
	runner := &fakeRunner{outcome: &pipeline.Outcome{
		Caption:  "caption",
		Body:     "body",
		ImageRef: "https://img.example/1.png",
		Results: []publish.Result{
			{Platform: platforms.Facebook, Outcome: publish.OutcomePublished, PostID: "fb-1"},
		},
	}}
	router := newRouter(runner, nil)

	w := postJSON(router, "/api/generate", `{
		"topic": "cloud migration",
		"platforms": ["facebook"],
		"schedule_time": "2026-09-01 12:00"
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	// The request was passed through unchanged.
	require.Len(t, runner.reqs, 1)
	assert.Equal(t, "cloud migration", runner.reqs[0].Topic)
	assert.Equal(t, []string{"facebook"}, runner.reqs[0].Platforms)
	assert.Equal(t, "2026-09-01 12:00", runner.reqs[0].ScheduleTime)

	var resp struct {
		Success  bool   `json:"success"`
		Caption  string `json:"caption"`
		Content  string `json:"content"`
		ImageURL string `json:"image_url"`
		Results  []struct {
			Platform string `json:"platform"`
			Outcome  string `json:"outcome"`
			PostID   string `json:"post_id"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "caption", resp.Caption)
	assert.Equal(t, "body", resp.Content)
	assert.Equal(t, "https://img.example/1.png", resp.ImageURL)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "facebook", resp.Results[0].Platform)
	assert.Equal(t, "published", resp.Results[0].Outcome)
	assert.Equal(t, "fb-1", resp.Results[0].PostID)

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestGenerate_ClientErrorsMapTo400(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "invalid request", err: pipeline.ErrMissingTopic},
		{name: "schedule too soon", err: publish.ErrScheduleTooSoon},
		{name: "invalid schedule time", err: publish.ErrInvalidScheduleTime},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := newRouter(&fakeRunner{err: tc.err}, nil)
			w := postJSON(router, "/api/generate", `{"topic":"t","platforms":["facebook"]}`)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestGenerate_PipelineFailureMapsTo500(t *testing.T) {
	router := newRouter(&fakeRunner{err: errors.New("model unavailable")}, nil)
	w := postJSON(router, "/api/generate", `{"topic":"t","platforms":["facebook"]}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGenerate_MalformedBody(t *testing.T) {
	runner := &fakeRunner{}
	router := newRouter(runner, nil)
	w := postJSON(router, "/api/generate", `{"topic": `)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, runner.reqs)
}

func TestHistory(t *testing.T) {
	lister := &fakeLister{entries: []history.Entry{
		{Topic: "t", Platform: "facebook", Outcome: "published", CreatedAt: time.Now().UTC()},
	}}
	router := newRouter(&fakeRunner{}, lister)

	req := httptest.NewRequest(http.MethodGet, "/api/history?limit=10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int{10}, lister.limits)
	assert.Contains(t, w.Body.String(), `"count":1`)
}

func TestHistory_NotConfigured(t *testing.T) {
	router := newRouter(&fakeRunner{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestHistory_ListFailure(t *testing.T) {
	lister := &fakeLister{err: errors.New("connection refused")}
	router := newRouter(&fakeRunner{}, lister)

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// The database error is not leaked to the client.
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestHealth(t *testing.T) {
	router := newRouter(&fakeRunner{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.Contains(t, w.Body.String(), `"version":"test"`)
}
