package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/faizmokh/worklog/internal/files"
	"github.com/faizmokh/worklog/internal/session"
)

func newTodayCommand(ctx context.Context, manager *files.Manager) *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show the entries for today or a specific date.",
		RunE: func(cmd *cobra.Command, args []string) error {
			targetDate, err := resolveDate(dateFlag)
			if err != nil {
				return err
			}

			return withSession(ctx, manager, func(s *session.Session) error {
				entries := s.Store().EntriesOnDate(targetDate)
				if len(entries) == 0 {
					printMissingDate(cmd, targetDate)
					return nil
				}
				indexes := sortedIndexes(s.Store())
				types := s.Types()
				for _, e := range entries {
					printEntry(cmd.OutOrStdout(), indexes[e], e, types)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Target date in YYYY-MM-DD or DD.MM.YYYY (default: today)")

	return cmd
}
