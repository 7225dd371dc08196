package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonesrussell/contentagent/internal/config"
	"github.com/jonesrussell/contentagent/internal/logger"
	"github.com/jonesrussell/contentagent/internal/platforms"
	"github.com/jonesrussell/contentagent/internal/publish"
)

// ErrInvalidRequest marks validation errors raised before any stage runs.
// Callers can map it to a client error.
var ErrInvalidRequest = errors.New("invalid request")

// Validation errors returned before any stage runs.
var (
	ErrMissingTopic     = fmt.Errorf("%w: topic is required", ErrInvalidRequest)
	ErrMissingPlatforms = fmt.Errorf("%w: at least one platform is required", ErrInvalidRequest)
)

// Request is what the surrounding service (CLI or HTTP boundary) submits.
type Request struct {
	Topic        string
	Platforms    []string
	ScheduleTime string
}

// Outcome is the complete result of one pipeline run.
type Outcome struct {
	Caption  string
	Body     string
	ImageRef string
	Results  []publish.Result
}

// SiteCollector is the crawl stage dependency. It never fails; a fully
// failed crawl yields empty context.
type SiteCollector interface {
	Collect(ctx context.Context, origin string) string
}

// TextGenerator is the content generation stage dependency.
type TextGenerator interface {
	Generate(ctx context.Context, topic, siteContext string) (caption, body string, err error)
}

// ImageGenerator is the image generation stage dependency. Failures are
// absorbed inside the stage.
type ImageGenerator interface {
	Generate(ctx context.Context, topic string) string
}

// Publisher is the publish coordinator dependency.
type Publisher interface {
	Publish(ctx context.Context, req publish.Request) ([]publish.Result, error)
}

// HistoryRecorder records per-platform outcomes after a run. Recording
// failures are logged, never fatal.
type HistoryRecorder interface {
	Save(ctx context.Context, topic string, results []publish.Result) error
}

// Service runs the pipeline end to end: collect, generate text, generate
// image, publish, strictly in that order, synchronously, one record per run.
type Service struct {
	cfg       *config.Config
	collector SiteCollector
	text      TextGenerator
	image     ImageGenerator
	publisher Publisher
	history   HistoryRecorder
	log       logger.Logger
}

// NewService creates a Service. The history recorder may be nil, in which
// case outcomes are not recorded.
func NewService(
	cfg *config.Config,
	collector SiteCollector,
	text TextGenerator,
	image ImageGenerator,
	publisher Publisher,
	history HistoryRecorder,
	log logger.Logger,
) *Service {
	return &Service{
		cfg:       cfg,
		collector: collector,
		text:      text,
		image:     image,
		publisher: publisher,
		history:   history,
		log:       log,
	}
}

// Run executes one pipeline run. Stage-fatal errors (text generation) and
// validation-fatal errors (bad request, schedule window) surface as the
// returned error; per-platform failures are reported inside the Outcome.
func (s *Service) Run(ctx context.Context, req Request) (*Outcome, error) {
	rec, err := s.newRecord(req)
	if err != nil {
		return nil, err
	}

	s.log.Info("Pipeline run started",
		logger.String("topic", rec.Topic),
		logger.Any("platforms", rec.Platforms),
		logger.Bool("scheduled", rec.ScheduleTime != ""),
	)

	rec = rec.withContext(s.collector.Collect(ctx, s.cfg.Crawl.Origin))

	caption, body, err := s.text.Generate(ctx, rec.Topic, rec.RetrievedContext)
	if err != nil {
		return nil, err
	}
	rec = rec.withText(caption, body)

	rec = rec.withImage(s.image.Generate(ctx, rec.Topic))

	results, err := s.publisher.Publish(ctx, publish.Request{
		Caption:      rec.Caption,
		Body:         rec.Body,
		ImageRef:     rec.ImageRef,
		Platforms:    rec.Platforms,
		ScheduleTime: rec.ScheduleTime,
	})
	if err != nil {
		return nil, err
	}

	s.recordHistory(ctx, rec.Topic, results)

	s.log.Info("Pipeline run finished",
		logger.String("topic", rec.Topic),
		logger.Int("platform_results", len(results)),
	)

	return &Outcome{
		Caption:  rec.Caption,
		Body:     rec.Body,
		ImageRef: rec.ImageRef,
		Results:  results,
	}, nil
}

// newRecord validates the request and builds the single-use record.
func (s *Service) newRecord(req Request) (Record, error) {
	if req.Topic == "" {
		return Record{}, ErrMissingTopic
	}
	if len(req.Platforms) == 0 {
		return Record{}, ErrMissingPlatforms
	}

	names, err := platforms.ParseNames(req.Platforms)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}
	if len(names) == 0 {
		return Record{}, ErrMissingPlatforms
	}

	return Record{
		Topic:        req.Topic,
		Platforms:    names,
		ScheduleTime: req.ScheduleTime,
	}, nil
}

// recordHistory persists per-platform outcomes when a recorder is wired.
func (s *Service) recordHistory(ctx context.Context, topic string, results []publish.Result) {
	if s.history == nil || len(results) == 0 {
		return
	}
	if err := s.history.Save(ctx, topic, results); err != nil {
		s.log.Warn("Failed to record publish history", logger.Error(err))
	}
}
