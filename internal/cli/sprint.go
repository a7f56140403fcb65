package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faizmokh/worklog/internal/files"
	"github.com/faizmokh/worklog/internal/session"
	"github.com/faizmokh/worklog/internal/sprint"
)

func newSprintCommand(ctx context.Context, manager *files.Manager) *cobra.Command {
	var (
		dateFlag string
		offset   int
		history  int
	)

	cmd := &cobra.Command{
		Use:   "sprint",
		Short: "Summarize the current sprint, or earlier ones with --offset or --history.",
		RunE: func(cmd *cobra.Command, args []string) error {
			reference, err := resolveDate(dateFlag)
			if err != nil {
				return err
			}
			if history < 0 {
				return fmt.Errorf("history must not be negative")
			}

			return withSession(ctx, manager, func(s *session.Session) error {
				cfg, err := s.SprintConfig()
				if err != nil {
					return err
				}
				current := sprint.IndexFor(reference, cfg)
				target := current + offset

				count := max(history, 1)
				out := cmd.OutOrStdout()
				for i, period := range sprint.Periods(target, count, cfg) {
					if i > 0 {
						fmt.Fprintln(out)
					}
					summary := sprint.Summarize(s.Store(), period.Index, cfg)
					fmt.Fprint(out, renderSprint(summary, period.Index == current))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Reference date (default: today)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Sprints relative to the current one, e.g. -1 for the previous")
	cmd.Flags().IntVar(&history, "history", 0, "Show this many sprints ending with the selected one")

	return cmd
}
