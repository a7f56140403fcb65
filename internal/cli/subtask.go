package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/faizmokh/worklog/internal/files"
	"github.com/faizmokh/worklog/internal/logbook"
	"github.com/faizmokh/worklog/internal/session"
)

func newSubtaskCommand(ctx context.Context, manager *files.Manager) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subtask",
		Short: "Add, edit or remove the subtasks of an entry.",
	}
	cmd.AddCommand(
		newSubtaskAddCommand(ctx, manager),
		newSubtaskEditCommand(ctx, manager),
		newSubtaskRemoveCommand(ctx, manager),
	)
	return cmd
}

func newSubtaskAddCommand(ctx context.Context, manager *files.Manager) *cobra.Command {
	var at int

	cmd := &cobra.Command{
		Use:   "add <index> <text ...>",
		Short: "Append a subtask, or insert it with --at.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateSubtasks(ctx, cmd, manager, args[0], func(entry *logbook.Entry) error {
				text := strings.Join(args[1:], " ")
				if at != 0 {
					return entry.InsertSubtask(at-1, text)
				}
				return entry.AddSubtask(text)
			})
		},
	}
	cmd.Flags().IntVar(&at, "at", 0, "1-based position to insert at (default: append)")
	return cmd
}

func newSubtaskEditCommand(ctx context.Context, manager *files.Manager) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <index> <position> <text ...>",
		Short: "Replace the text of a subtask.",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			position, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			return updateSubtasks(ctx, cmd, manager, args[0], func(entry *logbook.Entry) error {
				return entry.EditSubtask(position-1, strings.Join(args[2:], " "))
			})
		},
	}
}

func newSubtaskRemoveCommand(ctx context.Context, manager *files.Manager) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <index> <position>",
		Short: "Delete a subtask.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			position, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			return updateSubtasks(ctx, cmd, manager, args[0], func(entry *logbook.Entry) error {
				_, err := entry.RemoveSubtask(position - 1)
				return err
			})
		},
	}
}

func updateSubtasks(ctx context.Context, cmd *cobra.Command, manager *files.Manager, indexArg string, fn func(*logbook.Entry) error) error {
	index, err := parseIndex(indexArg)
	if err != nil {
		return err
	}
	return withSession(ctx, manager, func(s *session.Session) error {
		entry, err := s.Entry(index)
		if err != nil {
			return err
		}
		if err := fn(entry); err != nil {
			return err
		}
		if err := s.Save(ctx); err != nil {
			return err
		}
		printEntry(cmd.OutOrStdout(), index, entry, s.Types())
		return nil
	})
}
