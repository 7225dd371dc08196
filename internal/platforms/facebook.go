package platforms

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"time"

	"github.com/jonesrussell/contentagent/internal/config"
	"github.com/jonesrussell/contentagent/internal/logger"
)

// FacebookAdapter posts to a Facebook page through the Graph API.
// It supports both immediate posting and provider-side scheduling.
type FacebookAdapter struct {
	// BaseURL is the Graph API root. Overridable for tests.
	BaseURL string

	cfg    config.FacebookConfig
	client *http.Client
	log    logger.Logger
}

// NewFacebook creates a Facebook adapter.
func NewFacebook(cfg config.FacebookConfig, client *http.Client, log logger.Logger) *FacebookAdapter {
	return &FacebookAdapter{
		BaseURL: DefaultGraphBaseURL,
		cfg:     cfg,
		client:  client,
		log:     log,
	}
}

// Name implements Adapter.
func (a *FacebookAdapter) Name() Name { return Facebook }

// Enabled implements Adapter.
func (a *FacebookAdapter) Enabled() bool { return a.cfg.Enabled() }

// PostNow publishes immediately. With an image the bytes are fetched first
// and uploaded as a photo with caption; a failed fetch fails the whole post.
// Without an image the text goes out as a plain feed post.
func (a *FacebookAdapter) PostNow(ctx context.Context, text, imageURL string) (PostResult, error) {
	var (
		resp graphResponse
		err  error
	)
	if imageURL != "" {
		resp, err = a.postPhoto(ctx, text, imageURL)
	} else {
		form := url.Values{}
		form.Set("message", text)
		form.Set("access_token", a.cfg.PageToken)
		resp, err = postForm(ctx, a.client, a.BaseURL+"/"+a.cfg.PageID+"/feed", form)
	}
	if err != nil {
		a.log.Error("Facebook post failed", logger.Error(err))
		return PostResult{}, fmt.Errorf("facebook post: %w", err)
	}

	a.log.Info("Facebook post successful", logger.String("post_id", resp.postID()))
	return PostResult{PostID: resp.postID()}, nil
}

// Schedule stages a post for a future instant. The image URL is submitted
// directly (no byte fetch) with published=false and the unix timestamp.
// Without an image a scheduled text post goes to the feed instead.
func (a *FacebookAdapter) Schedule(ctx context.Context, text, imageURL string, publishAt time.Time) (PostResult, error) {
	form := url.Values{}
	form.Set("access_token", a.cfg.PageToken)
	form.Set("published", "false")
	form.Set("scheduled_publish_time", strconv.FormatInt(publishAt.Unix(), 10))

	endpoint := a.BaseURL + "/" + a.cfg.PageID
	if imageURL != "" {
		form.Set("url", imageURL)
		form.Set("caption", text)
		endpoint += "/photos"
	} else {
		form.Set("message", text)
		endpoint += "/feed"
	}

	resp, err := postForm(ctx, a.client, endpoint, form)
	if err != nil {
		a.log.Error("Facebook scheduling failed", logger.Error(err))
		return PostResult{}, fmt.Errorf("facebook schedule: %w", err)
	}

	a.log.Info("Facebook post scheduled",
		logger.String("post_id", resp.postID()),
		logger.Time("publish_at", publishAt),
	)
	return PostResult{PostID: resp.postID()}, nil
}

// postPhoto fetches the image bytes and uploads them as a multipart photo
// post with the text as caption.
func (a *FacebookAdapter) postPhoto(ctx context.Context, text, imageURL string) (graphResponse, error) {
	imageData, contentType, err := a.fetchImage(ctx, imageURL)
	if err != nil {
		return graphResponse{}, fmt.Errorf("fetch image: %w", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("caption", text); err != nil {
		return graphResponse{}, fmt.Errorf("write caption field: %w", err)
	}
	if err := writer.WriteField("access_token", a.cfg.PageToken); err != nil {
		return graphResponse{}, fmt.Errorf("write token field: %w", err)
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="source"; filename="image.jpg"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return graphResponse{}, fmt.Errorf("create image part: %w", err)
	}
	if _, err := part.Write(imageData); err != nil {
		return graphResponse{}, fmt.Errorf("write image part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return graphResponse{}, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+"/"+a.cfg.PageID+"/photos", &buf)
	if err != nil {
		return graphResponse{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return doGraphRequest(a.client, req)
}

// fetchImage downloads the generated image so it can be re-uploaded to
// Facebook. Returns the bytes and the content type (image/jpeg when the
// source does not say).
func (a *FacebookAdapter) fetchImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return data, contentType, nil
}

// postID prefers the feed post id over the photo/object id.
func (r graphResponse) postID() string {
	if r.PostID != "" {
		return r.PostID
	}
	return r.ID
}
