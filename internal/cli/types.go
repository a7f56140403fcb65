package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faizmokh/worklog/internal/config"
	"github.com/faizmokh/worklog/internal/files"
	"github.com/faizmokh/worklog/internal/session"
)

func newTypesCommand(ctx context.Context, manager *files.Manager) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "Manage the systems entries are logged to.",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List configured log types.",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSession(ctx, manager, func(s *session.Session) error {
					types := s.Types()
					if len(types) == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "No log types configured")
						return nil
					}
					for i, t := range types {
						fmt.Fprintf(cmd.OutOrStdout(), "%d. %s (%s)\n", i+1, t.Name, t.Label())
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "add <name> [prefix]",
			Short: "Add a log type. Existing entries start as not logged in it.",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				prefix := ""
				if len(args) > 1 {
					prefix = args[1]
				}
				return updateTypes(ctx, cmd, manager, fmt.Sprintf("Added log type %s", args[0]), func(s *config.Settings) error {
					return s.AddLogType(args[0], prefix)
				})
			},
		},
		&cobra.Command{
			Use:   "remove <name>",
			Short: "Remove a log type. Statuses already recorded for it are kept.",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return updateTypes(ctx, cmd, manager, fmt.Sprintf("Removed log type %s", args[0]), func(s *config.Settings) error {
					return s.RemoveLogType(args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "prefix <name> <prefix>",
			Short: "Change the display prefix of a log type.",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return updateTypes(ctx, cmd, manager, fmt.Sprintf("Set prefix of %s to %s", args[0], args[1]), func(s *config.Settings) error {
					return s.SetPrefix(args[0], args[1])
				})
			},
		},
	)
	return cmd
}

func updateTypes(ctx context.Context, cmd *cobra.Command, manager *files.Manager, message string, fn func(*config.Settings) error) error {
	return withSession(ctx, manager, func(s *session.Session) error {
		if err := s.UpdateSettings(ctx, fn); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), message)
		return nil
	})
}
