// Package pipeline sequences the four content stages (collect, generate
// text, generate image, publish) and exposes the single entry point the
// surrounding service calls.
package pipeline

import (
	"github.com/jonesrussell/contentagent/internal/platforms"
)

// Record is the state threaded through the pipeline. It is a value type:
// each stage receives a copy and returns a derived copy, so no stage ever
// mutates state it does not own. One record is built per run and discarded
// when the run ends.
type Record struct {
	// Topic is set once at pipeline start and never changed.
	Topic string

	// RetrievedContext is the site collector's output; empty when the
	// crawl found nothing.
	RetrievedContext string

	// Caption and Body are the content generator's output.
	Caption string
	Body    string

	// ImageRef is the generated image URL; empty when image generation
	// failed.
	ImageRef string

	// Platforms is the validated, non-empty platform list.
	Platforms []platforms.Name

	// ScheduleTime is the raw user-supplied GST time; empty means publish
	// immediately.
	ScheduleTime string
}

// withContext returns a copy with the retrieved context set.
func (r Record) withContext(text string) Record {
	r.RetrievedContext = text
	return r
}

// withText returns a copy with the generated caption and body set.
func (r Record) withText(caption, body string) Record {
	r.Caption = caption
	r.Body = body
	return r
}

// withImage returns a copy with the generated image reference set.
func (r Record) withImage(imageRef string) Record {
	r.ImageRef = imageRef
	return r
}
