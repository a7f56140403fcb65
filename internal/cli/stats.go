package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faizmokh/worklog/internal/files"
	"github.com/faizmokh/worklog/internal/session"
	"github.com/faizmokh/worklog/internal/stats"
)

func newStatsCommand(ctx context.Context, manager *files.Manager) *cobra.Command {
	var (
		dateFlag string
		days     int
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show hours and logging status for recent workdays.",
		RunE: func(cmd *cobra.Command, args []string) error {
			reference, err := resolveDate(dateFlag)
			if err != nil {
				return err
			}

			return withSession(ctx, manager, func(s *session.Session) error {
				n := days
				if !cmd.Flags().Changed("days") {
					n = s.Settings().Stats.Workdays
				}
				workdays, err := stats.LastNWorkdays(reference, n)
				if err != nil {
					return err
				}
				types := s.Types()
				report := stats.Aggregate(s.Store(), workdays, types)
				fmt.Fprint(cmd.OutOrStdout(), renderStats(stats.Ordered(report, workdays), stats.Totals(report), types, sortedIndexes(s.Store())))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Last day to include (default: today)")
	cmd.Flags().IntVar(&days, "days", 0, "Number of workdays (default: stats.workdays setting)")

	return cmd
}
