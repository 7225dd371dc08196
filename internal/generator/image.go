package generator

import (
	"context"

	"github.com/jonesrussell/contentagent/internal/logger"
)

// ImageModel is the image-generation capability the stage depends on.
type ImageModel interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// ImageGenerator produces an illustration URL for a topic. Unlike text
// generation, an image failure is tolerated: the pipeline continues and the
// post goes out without an image.
type ImageGenerator struct {
	model ImageModel
	log   logger.Logger
}

// NewImageGenerator creates an ImageGenerator.
func NewImageGenerator(model ImageModel, log logger.Logger) *ImageGenerator {
	return &ImageGenerator{model: model, log: log}
}

// Generate requests one image with the topic as prompt. On any failure it
// logs and returns an empty reference.
func (g *ImageGenerator) Generate(ctx context.Context, topic string) string {
	imageURL, err := g.model.GenerateImage(ctx, topic)
	if err != nil {
		g.log.Warn("Image generation failed, continuing without image",
			logger.String("topic", topic),
			logger.Error(err),
		)
		return ""
	}

	g.log.Info("Image generated", logger.String("topic", topic))
	return imageURL
}
