package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultGraphBaseURL is the Facebook Graph API root used by the Facebook
// and Instagram adapters.
const DefaultGraphBaseURL = "https://graph.facebook.com/v22.0"

// graphResponse is the subset of Graph API responses the adapters read.
type graphResponse struct {
	ID     string `json:"id"`
	PostID string `json:"post_id"`
}

// postForm submits a URL-encoded form to a Graph API endpoint and decodes the
// response. Non-2xx responses become errors carrying the response body, which
// is where the Graph API puts its diagnostics.
func postForm(ctx context.Context, client *http.Client, endpoint string, form url.Values) (graphResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return graphResponse{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return doGraphRequest(client, req)
}

// doGraphRequest executes a prepared Graph API request and decodes the
// response body.
func doGraphRequest(client *http.Client, req *http.Request) (graphResponse, error) {
	resp, err := client.Do(req)
	if err != nil {
		return graphResponse{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return graphResponse{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return graphResponse{}, fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var parsed graphResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return graphResponse{}, fmt.Errorf("decode response: %w", err)
	}
	return parsed, nil
}
