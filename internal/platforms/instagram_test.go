package platforms_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/contentagent/internal/config"
	"github.com/jonesrussell/contentagent/internal/logger"
	"github.com/jonesrussell/contentagent/internal/platforms"
)

func newInstagram(t *testing.T, handler http.Handler) *platforms.InstagramAdapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	adapter := platforms.NewInstagram(config.InstagramConfig{
		AccountID:   "ig-1",
		AccessToken: "ig-token",
	}, srv.Client(), logger.NewNop())
	adapter.BaseURL = srv.URL
	return adapter
}

func TestInstagramAdapter_PostNow_TwoStepProtocol(t *testing.T) {
	var steps []string
	adapter := newInstagram(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		steps = append(steps, r.URL.Path)
		require.NoError(t, r.ParseForm())

		switch r.URL.Path {
		case "/ig-1/media":
			assert.Equal(t, "https://img.example/1.png", r.PostForm.Get("image_url"))
			assert.Equal(t, "caption", r.PostForm.Get("caption"))
			assert.Equal(t, "ig-token", r.PostForm.Get("access_token"))
			fmt.Fprint(w, `{"id":"container-7"}`)
		case "/ig-1/media_publish":
			assert.Equal(t, "container-7", r.PostForm.Get("creation_id"))
			assert.Equal(t, "ig-token", r.PostForm.Get("access_token"))
			assert.Empty(t, r.PostForm.Get("published"))
			fmt.Fprint(w, `{"id":"media-42"}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	res, err := adapter.PostNow(context.Background(), "caption", "https://img.example/1.png")
	require.NoError(t, err)
	assert.Equal(t, "media-42", res.PostID)
	assert.Equal(t, []string{"/ig-1/media", "/ig-1/media_publish"}, steps)
}

func TestInstagramAdapter_PostNow_NoImage(t *testing.T) {
	var hits int
	adapter := newInstagram(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))

	_, err := adapter.PostNow(context.Background(), "caption", "")
	require.ErrorIs(t, err, platforms.ErrInstagramNoImage)
	assert.Zero(t, hits)
}

func TestInstagramAdapter_Schedule_PassesPublishTime(t *testing.T) {
	publishAt := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	adapter := newInstagram(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		switch r.URL.Path {
		case "/ig-1/media":
			fmt.Fprint(w, `{"id":"container-8"}`)
		case "/ig-1/media_publish":
			assert.Equal(t, "container-8", r.PostForm.Get("creation_id"))
			assert.Equal(t, "false", r.PostForm.Get("published"))
			assert.Equal(t, fmt.Sprint(publishAt.Unix()), r.PostForm.Get("scheduled_publish_time"))
			fmt.Fprint(w, `{"id":"media-43"}`)
		}
	}))

	res, err := adapter.Schedule(context.Background(), "caption", "https://img.example/1.png", publishAt)
	require.NoError(t, err)
	assert.Equal(t, "media-43", res.PostID)
}

func TestInstagramAdapter_PostNow_ContainerErrorStopsPublish(t *testing.T) {
	var publishHits int
	adapter := newInstagram(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ig-1/media":
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":{"message":"Media URL is not accessible"}}`)
		case "/ig-1/media_publish":
			publishHits++
		}
	}))

	_, err := adapter.PostNow(context.Background(), "caption", "https://img.example/1.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Media URL is not accessible")
	assert.Zero(t, publishHits)
}

func TestInstagramAdapter_PostNow_MissingContainerID(t *testing.T) {
	adapter := newInstagram(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))

	_, err := adapter.PostNow(context.Background(), "caption", "https://img.example/1.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing container id")
}
