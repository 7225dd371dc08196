package platforms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jonesrussell/contentagent/internal/config"
	"github.com/jonesrussell/contentagent/internal/logger"
)

// DefaultLinkedInBaseURL is the LinkedIn REST API root.
const DefaultLinkedInBaseURL = "https://api.linkedin.com"

// LinkedInAdapter posts text-only organization shares via the UGC posts API.
// It deliberately does not implement Scheduler: scheduling is not available
// through this integration.
type LinkedInAdapter struct {
	// BaseURL is the API root. Overridable for tests.
	BaseURL string

	cfg    config.LinkedInConfig
	client *http.Client
	log    logger.Logger
}

// NewLinkedIn creates a LinkedIn adapter.
func NewLinkedIn(cfg config.LinkedInConfig, client *http.Client, log logger.Logger) *LinkedInAdapter {
	return &LinkedInAdapter{
		BaseURL: DefaultLinkedInBaseURL,
		cfg:     cfg,
		client:  client,
		log:     log,
	}
}

// Name implements Adapter.
func (a *LinkedInAdapter) Name() Name { return LinkedIn }

// Enabled implements Adapter.
func (a *LinkedInAdapter) Enabled() bool { return a.cfg.Enabled() }

// ugcPost is the share payload for POST /v2/ugcPosts.
type ugcPost struct {
	Author          string         `json:"author"`
	LifecycleState  string         `json:"lifecycleState"`
	SpecificContent map[string]any `json:"specificContent"`
	Visibility      map[string]any `json:"visibility"`
}

// PostNow publishes a text-only share with the organization as author and
// PUBLIC visibility. The image reference, if any, is ignored.
func (a *LinkedInAdapter) PostNow(ctx context.Context, text, _ string) (PostResult, error) {
	payload := ugcPost{
		Author:         a.cfg.OrganizationURN,
		LifecycleState: "PUBLISHED",
		SpecificContent: map[string]any{
			"com.linkedin.ugc.ShareContent": map[string]any{
				"shareCommentary":    map[string]any{"text": text},
				"shareMediaCategory": "NONE",
			},
		},
		Visibility: map[string]any{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return PostResult{}, fmt.Errorf("linkedin post: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+"/v2/ugcPosts", bytes.NewReader(body))
	if err != nil {
		return PostResult{}, fmt.Errorf("linkedin post: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.cfg.AccessToken)
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		a.log.Error("LinkedIn post failed", logger.Error(err))
		return PostResult{}, fmt.Errorf("linkedin post: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		err := fmt.Errorf("linkedin post: unexpected status %s: %s",
			resp.Status, strings.TrimSpace(string(respBody)))
		a.log.Error("LinkedIn post failed", logger.Error(err))
		return PostResult{}, err
	}

	var parsed struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(respBody, &parsed)
	if parsed.ID == "" {
		parsed.ID = resp.Header.Get("X-RestLi-Id")
	}

	a.log.Info("LinkedIn post successful", logger.String("post_id", parsed.ID))
	return PostResult{PostID: parsed.ID}, nil
}
