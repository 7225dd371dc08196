// Package publish implements the publish coordinator: the state machine
// that takes a fully composed post and either dispatches immediate posts or
// schedules them provider-side, platform by platform.
package publish

import (
	"context"
	"time"

	"github.com/jonesrussell/contentagent/internal/logger"
	"github.com/jonesrussell/contentagent/internal/platforms"
)

// Outcome classifies how a platform attempt ended.
type Outcome string

const (
	// OutcomePublished means the post went out immediately.
	OutcomePublished Outcome = "published"
	// OutcomeScheduled means the provider accepted a future publish time.
	OutcomeScheduled Outcome = "scheduled"
	// OutcomeFailed means the platform call was attempted and failed.
	OutcomeFailed Outcome = "failed"
	// OutcomeUnsupported means the platform lacks the requested capability.
	// This is a notice, not an error.
	OutcomeUnsupported Outcome = "unsupported"
	// OutcomeSkipped means the adapter has no credentials configured.
	OutcomeSkipped Outcome = "skipped"
)

// Result is the per-platform outcome returned to the caller. One platform's
// failure never blocks another's attempt; the caller sees all of them.
type Result struct {
	Platform     platforms.Name `json:"platform"`
	Outcome      Outcome        `json:"outcome"`
	Detail       string         `json:"detail,omitempty"`
	PostID       string         `json:"post_id,omitempty"`
	ScheduledFor *time.Time     `json:"scheduled_for,omitempty"`
}

// Request is the composed post handed to the coordinator.
type Request struct {
	Caption      string
	Body         string
	ImageRef     string
	Platforms    []platforms.Name
	ScheduleTime string // raw GST time; empty means publish immediately
}

// Coordinator dispatches or schedules posts across platforms. Dispatch is
// sequential; each requested platform is attempted exactly once.
type Coordinator struct {
	registry *platforms.Registry
	log      logger.Logger
	now      func() time.Time
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(registry *platforms.Registry, log logger.Logger) *Coordinator {
	return &Coordinator{
		registry: registry,
		log:      log,
		now:      time.Now,
	}
}

// NewCoordinatorAt creates a Coordinator with a fixed clock. Intended for
// tests of the scheduling window.
func NewCoordinatorAt(registry *platforms.Registry, log logger.Logger, now func() time.Time) *Coordinator {
	c := NewCoordinator(registry, log)
	c.now = now
	return c
}

// Publish runs the publish-vs-schedule decision for the request. A schedule
// time closer than MinLeadTime aborts with ErrScheduleTooSoon before any
// platform call. Per-platform failures are captured in the results, never
// returned as errors.
func (c *Coordinator) Publish(ctx context.Context, req Request) ([]Result, error) {
	if req.ScheduleTime == "" {
		return c.publishNow(ctx, req), nil
	}
	return c.schedule(ctx, req)
}

// publishNow is the ImmediatePublish branch: each platform gets the combined
// caption and body text plus the image reference when present.
func (c *Coordinator) publishNow(ctx context.Context, req Request) []Result {
	text := combineText(req.Caption, req.Body)
	results := make([]Result, 0, len(req.Platforms))

	for _, name := range req.Platforms {
		results = append(results, c.postOne(ctx, name, text, req.ImageRef))
	}
	return results
}

// postOne attempts an immediate post on a single platform.
func (c *Coordinator) postOne(ctx context.Context, name platforms.Name, text, imageRef string) Result {
	adapter, ok := c.registry.Get(name)
	if !ok {
		c.log.Warn("Posting not supported for platform", logger.String("platform", string(name)))
		return Result{Platform: name, Outcome: OutcomeUnsupported, Detail: "posting is not supported for this platform"}
	}
	if !adapter.Enabled() {
		c.log.Warn("Platform credentials not configured, skipping", logger.String("platform", string(name)))
		return Result{Platform: name, Outcome: OutcomeSkipped, Detail: "credentials not configured"}
	}

	poster, ok := adapter.(platforms.Poster)
	if !ok {
		return Result{Platform: name, Outcome: OutcomeUnsupported, Detail: "immediate posting is not supported for this platform"}
	}

	post, err := poster.PostNow(ctx, text, imageRef)
	if err != nil {
		c.log.Error("Platform post failed",
			logger.String("platform", string(name)),
			logger.Error(err),
		)
		return Result{Platform: name, Outcome: OutcomeFailed, Detail: err.Error()}
	}
	return Result{Platform: name, Outcome: OutcomePublished, PostID: post.PostID}
}

// schedule is the ScheduledPublish branch: the GST time is converted to UTC
// and validated once for the whole record, then each platform that can
// schedule gets the caption and the instant. Platforms that cannot schedule
// get an unsupported-capability notice and no call.
func (c *Coordinator) schedule(ctx context.Context, req Request) ([]Result, error) {
	publishAt, err := validateSchedule(req.ScheduleTime, c.now())
	if err != nil {
		c.log.Error("Scheduling rejected",
			logger.String("schedule_time", req.ScheduleTime),
			logger.Error(err),
		)
		return nil, err
	}

	results := make([]Result, 0, len(req.Platforms))
	for _, name := range req.Platforms {
		results = append(results, c.scheduleOne(ctx, name, req.Caption, req.ImageRef, publishAt))
	}
	return results, nil
}

// scheduleOne attempts a scheduled post on a single platform.
func (c *Coordinator) scheduleOne(ctx context.Context, name platforms.Name, caption, imageRef string, publishAt time.Time) Result {
	adapter, ok := c.registry.Get(name)
	if !ok {
		c.log.Warn("Scheduling not supported for platform", logger.String("platform", string(name)))
		return Result{Platform: name, Outcome: OutcomeUnsupported, Detail: "scheduling is not supported for this platform"}
	}

	scheduler, ok := adapter.(platforms.Scheduler)
	if !ok {
		c.log.Warn("Scheduling not supported for platform", logger.String("platform", string(name)))
		return Result{Platform: name, Outcome: OutcomeUnsupported, Detail: "scheduling is not supported for this platform"}
	}
	if !adapter.Enabled() {
		c.log.Warn("Platform credentials not configured, skipping", logger.String("platform", string(name)))
		return Result{Platform: name, Outcome: OutcomeSkipped, Detail: "credentials not configured"}
	}

	post, err := scheduler.Schedule(ctx, caption, imageRef, publishAt)
	if err != nil {
		c.log.Error("Platform scheduling failed",
			logger.String("platform", string(name)),
			logger.Error(err),
		)
		return Result{Platform: name, Outcome: OutcomeFailed, Detail: err.Error(), ScheduledFor: &publishAt}
	}
	return Result{Platform: name, Outcome: OutcomeScheduled, PostID: post.PostID, ScheduledFor: &publishAt}
}

// combineText joins caption and body with a blank line. A missing body
// leaves the caption alone.
func combineText(caption, body string) string {
	if body == "" {
		return caption
	}
	return caption + "\n\n" + body
}
