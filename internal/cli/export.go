package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faizmokh/worklog/internal/files"
	"github.com/faizmokh/worklog/internal/markdown"
	"github.com/faizmokh/worklog/internal/session"
	"github.com/faizmokh/worklog/internal/version"
)

func newExportCommand(ctx context.Context, manager *files.Manager) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the log as monthly Markdown files.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(ctx, manager, func(s *session.Session) error {
				paths, err := markdown.Export(manager, s.Store(), s.Types())
				if err != nil {
					return err
				}
				if len(paths) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to export")
					return nil
				}
				for _, p := range paths {
					fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", p)
				}
				return nil
			})
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		},
	}
}
