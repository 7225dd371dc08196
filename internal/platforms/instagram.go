package platforms

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jonesrussell/contentagent/internal/config"
	"github.com/jonesrussell/contentagent/internal/logger"
)

// ErrInstagramNoImage indicates an Instagram post was attempted without an
// image. Instagram posting is image-first; there is no text-only fallback.
var ErrInstagramNoImage = errors.New("instagram requires an image")

// InstagramAdapter posts to an Instagram business account through the Graph
// API using the two-step container protocol: create a media container, then
// publish it by its identifier.
type InstagramAdapter struct {
	// BaseURL is the Graph API root. Overridable for tests.
	BaseURL string

	cfg    config.InstagramConfig
	client *http.Client
	log    logger.Logger
}

// NewInstagram creates an Instagram adapter.
func NewInstagram(cfg config.InstagramConfig, client *http.Client, log logger.Logger) *InstagramAdapter {
	return &InstagramAdapter{
		BaseURL: DefaultGraphBaseURL,
		cfg:     cfg,
		client:  client,
		log:     log,
	}
}

// Name implements Adapter.
func (a *InstagramAdapter) Name() Name { return Instagram }

// Enabled implements Adapter.
func (a *InstagramAdapter) Enabled() bool { return a.cfg.Enabled() }

// PostNow creates a media container for the image and caption, then
// publishes it immediately.
func (a *InstagramAdapter) PostNow(ctx context.Context, text, imageURL string) (PostResult, error) {
	containerID, err := a.createContainer(ctx, text, imageURL)
	if err != nil {
		a.log.Error("Instagram post failed", logger.Error(err))
		return PostResult{}, fmt.Errorf("instagram post: %w", err)
	}

	form := url.Values{}
	form.Set("creation_id", containerID)
	form.Set("access_token", a.cfg.AccessToken)

	resp, err := postForm(ctx, a.client, a.publishEndpoint(), form)
	if err != nil {
		a.log.Error("Instagram publish failed", logger.Error(err))
		return PostResult{}, fmt.Errorf("instagram publish: %w", err)
	}

	a.log.Info("Instagram post successful", logger.String("post_id", resp.ID))
	return PostResult{PostID: resp.ID}, nil
}

// Schedule creates the container the same way but passes published=false and
// the future unix timestamp to the publish step.
func (a *InstagramAdapter) Schedule(ctx context.Context, text, imageURL string, publishAt time.Time) (PostResult, error) {
	containerID, err := a.createContainer(ctx, text, imageURL)
	if err != nil {
		a.log.Error("Instagram scheduling failed", logger.Error(err))
		return PostResult{}, fmt.Errorf("instagram schedule: %w", err)
	}

	form := url.Values{}
	form.Set("creation_id", containerID)
	form.Set("access_token", a.cfg.AccessToken)
	form.Set("published", "false")
	form.Set("scheduled_publish_time", strconv.FormatInt(publishAt.Unix(), 10))

	resp, err := postForm(ctx, a.client, a.publishEndpoint(), form)
	if err != nil {
		a.log.Error("Instagram scheduling failed", logger.Error(err))
		return PostResult{}, fmt.Errorf("instagram schedule: %w", err)
	}

	a.log.Info("Instagram post scheduled",
		logger.String("post_id", resp.ID),
		logger.Time("publish_at", publishAt),
	)
	return PostResult{PostID: resp.ID}, nil
}

// createContainer stages the image and caption as a provider-side media
// container and returns its identifier.
func (a *InstagramAdapter) createContainer(ctx context.Context, text, imageURL string) (string, error) {
	if imageURL == "" {
		return "", ErrInstagramNoImage
	}

	form := url.Values{}
	form.Set("image_url", imageURL)
	form.Set("caption", text)
	form.Set("access_token", a.cfg.AccessToken)

	resp, err := postForm(ctx, a.client, a.BaseURL+"/"+a.cfg.AccountID+"/media", form)
	if err != nil {
		return "", fmt.Errorf("create container: %w", err)
	}
	if resp.ID == "" {
		return "", errors.New("create container: response missing container id")
	}
	return resp.ID, nil
}

func (a *InstagramAdapter) publishEndpoint() string {
	return a.BaseURL + "/" + a.cfg.AccountID + "/media_publish"
}
