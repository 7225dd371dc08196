// Package generate implements the generate command: one synchronous pipeline
// run from the command line.
package generate

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/contentagent/internal/app"
	"github.com/jonesrussell/contentagent/internal/pipeline"
)

// Command returns the generate command.
func Command() *cobra.Command {
	var (
		topic        string
		platformList []string
		scheduleTime string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate and publish a post for a topic",
		Long: `Runs the content pipeline once: collects site context, generates a
caption, body, and image for the topic, then posts to the given platforms
immediately or schedules the post for a future GST time.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New()
			if err != nil {
				return err
			}
			defer a.Close()

			outcome, err := a.Service.Run(cmd.Context(), pipeline.Request{
				Topic:        topic,
				Platforms:    platformList,
				ScheduleTime: scheduleTime,
			})
			if err != nil {
				return err
			}

			printOutcome(outcome)
			return nil
		},
	}

	cmd.Flags().StringVarP(&topic, "topic", "t", "", "post topic (required)")
	cmd.Flags().StringSliceVarP(&platformList, "platforms", "p", nil,
		"platforms to post to: facebook, instagram, linkedin (required)")
	cmd.Flags().StringVarP(&scheduleTime, "schedule", "s", "",
		"schedule time in GST (YYYY-MM-DD HH:MM); omit to post immediately")
	_ = cmd.MarkFlagRequired("topic")
	_ = cmd.MarkFlagRequired("platforms")

	return cmd
}

// printOutcome renders the generated content and the per-platform results.
func printOutcome(outcome *pipeline.Outcome) {
	fmt.Printf("Caption:\n%s\n\n", outcome.Caption)
	fmt.Printf("Content:\n%s\n\n", outcome.Body)
	if outcome.ImageRef != "" {
		fmt.Printf("Image: %s\n\n", outcome.ImageRef)
	} else {
		fmt.Print("Image: none\n\n")
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Platform", "Outcome", "Post ID", "Detail"})
	for _, res := range outcome.Results {
		detail := res.Detail
		if res.ScheduledFor != nil {
			detail = strings.TrimSpace(detail + " at " + res.ScheduledFor.Format("2006-01-02 15:04 MST"))
		}
		t.AppendRow(table.Row{res.Platform, res.Outcome, res.PostID, detail})
	}
	t.Render()
}
