package history

import (
	"context"

	"github.com/jonesrussell/contentagent/internal/publish"
)

// Save records every platform result of one pipeline run. It satisfies the
// pipeline's HistoryRecorder dependency.
func (r *Repository) Save(ctx context.Context, topic string, results []publish.Result) error {
	for _, res := range results {
		entry := Entry{
			Topic:        topic,
			Platform:     string(res.Platform),
			Outcome:      string(res.Outcome),
			Detail:       res.Detail,
			PostID:       res.PostID,
			ScheduledFor: res.ScheduledFor,
		}
		if err := r.Insert(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}
