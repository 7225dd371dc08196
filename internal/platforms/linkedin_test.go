package platforms_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/contentagent/internal/config"
	"github.com/jonesrussell/contentagent/internal/logger"
	"github.com/jonesrussell/contentagent/internal/platforms"
)

func newLinkedIn(t *testing.T, handler http.Handler) *platforms.LinkedInAdapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	adapter := platforms.NewLinkedIn(config.LinkedInConfig{
		AccessToken:     "li-token",
		OrganizationURN: "urn:li:organization:12345",
	}, srv.Client(), logger.NewNop())
	adapter.BaseURL = srv.URL
	return adapter
}

func TestLinkedInAdapter_PostNow(t *testing.T) {
	adapter := newLinkedIn(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/ugcPosts", r.URL.Path)
		assert.Equal(t, "Bearer li-token", r.Header.Get("Authorization"))
		assert.Equal(t, "2.0.0", r.Header.Get("X-Restli-Protocol-Version"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "urn:li:organization:12345", payload["author"])
		assert.Equal(t, "PUBLISHED", payload["lifecycleState"])

		content := payload["specificContent"].(map[string]any)["com.linkedin.ugc.ShareContent"].(map[string]any)
		assert.Equal(t, "share text", content["shareCommentary"].(map[string]any)["text"])
		assert.Equal(t, "NONE", content["shareMediaCategory"])

		visibility := payload["visibility"].(map[string]any)
		assert.Equal(t, "PUBLIC", visibility["com.linkedin.ugc.MemberNetworkVisibility"])

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":"urn:li:share:777"}`)
	}))

	res, err := adapter.PostNow(context.Background(), "share text", "")
	require.NoError(t, err)
	assert.Equal(t, "urn:li:share:777", res.PostID)
}

func TestLinkedInAdapter_PostNow_IDFromHeaderWhenBodyEmpty(t *testing.T) {
	adapter := newLinkedIn(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RestLi-Id", "urn:li:share:888")
		w.WriteHeader(http.StatusCreated)
	}))

	res, err := adapter.PostNow(context.Background(), "share text", "")
	require.NoError(t, err)
	assert.Equal(t, "urn:li:share:888", res.PostID)
}

func TestLinkedInAdapter_PostNow_ErrorCarriesBody(t *testing.T) {
	adapter := newLinkedIn(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"Expired access token"}`)
	}))

	_, err := adapter.PostNow(context.Background(), "share text", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expired access token")
}

func TestLinkedInAdapter_IsNotScheduler(t *testing.T) {
	var adapter platforms.Adapter = platforms.NewLinkedIn(config.LinkedInConfig{}, http.DefaultClient, logger.NewNop())
	_, ok := adapter.(platforms.Scheduler)
	assert.False(t, ok)
}
