// Package generator implements the content and image generation stages of
// the pipeline.
package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonesrussell/contentagent/internal/logger"
)

// Response section markers the model is instructed to emit.
const (
	captionMarker = "CAPTION:"
	contentMarker = "CONTENT:"
)

// CaptionParseSentinel is the caption substituted when the model response
// does not contain both section markers. The raw response becomes the body.
const CaptionParseSentinel = "Could not parse caption"

const promptTemplate = `
You are a B2B content strategist. Write:
CAPTION (max 250 characters)
CONTENT (80-150 words)

Topic: %s
Context:
%s

Format:
CAPTION: <caption>
CONTENT: <content>
`

// TextModel is the text-generation capability the stage depends on.
type TextModel interface {
	ChatCompletion(ctx context.Context, prompt string) (string, error)
}

// TextGenerator produces a caption and a body for a topic, grounded in the
// collected site context.
type TextGenerator struct {
	model TextModel
	log   logger.Logger
}

// NewTextGenerator creates a TextGenerator.
func NewTextGenerator(model TextModel, log logger.Logger) *TextGenerator {
	return &TextGenerator{model: model, log: log}
}

// Generate builds the prompt, invokes the model once, and parses the
// response. A model-call failure is fatal for the pipeline run: a post
// without a caption is not usable.
func (g *TextGenerator) Generate(ctx context.Context, topic, siteContext string) (caption, body string, err error) {
	prompt := fmt.Sprintf(promptTemplate, topic, siteContext)

	raw, err := g.model.ChatCompletion(ctx, prompt)
	if err != nil {
		return "", "", fmt.Errorf("generate text: %w", err)
	}

	caption, body = parseResponse(raw)
	if caption == CaptionParseSentinel {
		g.log.Warn("Model response missing section markers, using raw response as body",
			logger.String("topic", topic),
		)
	}

	g.log.Info("Text generated",
		logger.String("topic", topic),
		logger.Int("caption_len", len(caption)),
		logger.Int("body_len", len(body)),
	)
	return caption, body, nil
}

// parseResponse applies the best-effort textual parse: when both markers are
// present, the caption is the trimmed text strictly between them and the body
// is the trimmed text after the content marker. Otherwise the caption is the
// parse sentinel and the full raw response becomes the body.
func parseResponse(raw string) (caption, body string) {
	_, afterCaption, capOK := strings.Cut(raw, captionMarker)
	capPart, afterContent, contOK := strings.Cut(afterCaption, contentMarker)
	if !capOK || !contOK {
		return CaptionParseSentinel, raw
	}
	return strings.TrimSpace(capPart), strings.TrimSpace(afterContent)
}
