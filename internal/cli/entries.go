package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/faizmokh/worklog/internal/files"
	"github.com/faizmokh/worklog/internal/logbook"
	"github.com/faizmokh/worklog/internal/logger"
	"github.com/faizmokh/worklog/internal/session"
)

func newLogCommand(ctx context.Context, manager *files.Manager) *cobra.Command {
	var (
		dateFlag     string
		timeFlag     string
		ticketFlag   string
		durationFlag string
		doneFlag     []string
		subtaskFlag  []string
		interactive  bool
	)

	cmd := &cobra.Command{
		Use:   "log [description ...]",
		Short: "Record a work entry.",
		Long:  "log adds an entry at the given date and time. Use --done to mark log types as already completed, or -i to fill in a form.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(ctx, manager, func(s *session.Session) error {
				types := s.Types()
				input := logInput{
					Ticket:      ticketFlag,
					Description: strings.Join(args, " "),
					Duration:    durationFlag,
					Done:        splitTypes(doneFlag),
					Subtasks:    subtaskFlag,
				}
				if interactive {
					if err := runLogForm(&input, types); err != nil {
						return err
					}
				}
				if strings.TrimSpace(input.Description) == "" {
					return logbook.ErrEmptyDescription
				}

				date, err := resolveDate(dateFlag)
				if err != nil {
					return err
				}
				at, err := resolveTime(date, timeFlag)
				if err != nil {
					return err
				}

				duration := logbook.Ongoing
				if strings.TrimSpace(input.Duration) != "" {
					if duration, err = logbook.ParseDuration(input.Duration); err != nil {
						return err
					}
				}

				status := make(map[string]bool, len(input.Done))
				for _, name := range input.Done {
					status[name] = true
				}

				entry, err := logbook.NewEntry(at, input.Ticket, input.Description, duration, types, status, input.Subtasks)
				if err != nil {
					return err
				}
				if err := s.Add(ctx, entry); err != nil {
					return err
				}
				logger.Info("entry logged", "time", entry.Time, "ticket", entry.Ticket)

				fmt.Fprintf(cmd.OutOrStdout(), "Logged %s\n", formatEntry(entry, types))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Target date in YYYY-MM-DD or DD.MM.YYYY (default: today)")
	cmd.Flags().StringVar(&timeFlag, "time", "", "Timestamp in HH:MM (default: current time)")
	cmd.Flags().StringVar(&ticketFlag, "ticket", "", "Ticket identifier, e.g. ABC-123")
	cmd.Flags().StringVar(&durationFlag, "duration", "", `Time spent, e.g. "1h 30m" (default: ongoing)`)
	cmd.Flags().StringSliceVar(&doneFlag, "done", nil, "Log types already completed, e.g. jira,q")
	cmd.Flags().StringArrayVar(&subtaskFlag, "subtask", nil, "Subtask text (repeatable)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Fill in the entry with a form")

	return cmd
}

func newEditCommand(ctx context.Context, manager *files.Manager) *cobra.Command {
	var (
		dateFlag        string
		timeFlag        string
		ticketFlag      string
		durationFlag    string
		descriptionFlag string
	)

	cmd := &cobra.Command{
		Use:   "edit <index>",
		Short: "Modify an entry by index.",
		Long:  "edit changes the flagged fields of the entry at index in the list view. Unflagged fields keep their values.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}

			return withSession(ctx, manager, func(s *session.Session) error {
				entry, err := s.Entry(index)
				if err != nil {
					return err
				}
				flags := cmd.Flags()

				if flags.Changed("description") {
					if err := entry.SetDescription(descriptionFlag); err != nil {
						return err
					}
				}
				if flags.Changed("ticket") {
					entry.SetTicket(ticketFlag)
				}
				if flags.Changed("duration") {
					d, err := logbook.ParseDuration(durationFlag)
					if err != nil {
						return err
					}
					entry.SetDuration(d)
				}
				if flags.Changed("date") || flags.Changed("time") {
					date := entry.Date()
					if flags.Changed("date") {
						if date, err = resolveDate(dateFlag); err != nil {
							return err
						}
					}
					at := entry.Time
					if flags.Changed("time") {
						if at, err = resolveTime(date, timeFlag); err != nil {
							return err
						}
					}
					entry.SetTime(withDate(at, date))
				}

				if err := s.Save(ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", formatEntry(entry, s.Types()))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&descriptionFlag, "description", "", "New description")
	cmd.Flags().StringVar(&ticketFlag, "ticket", "", "New ticket (empty clears it)")
	cmd.Flags().StringVar(&durationFlag, "duration", "", `New duration, e.g. "45m" or "ongoing"`)
	cmd.Flags().StringVar(&dateFlag, "date", "", "Move to date YYYY-MM-DD or DD.MM.YYYY")
	cmd.Flags().StringVar(&timeFlag, "time", "", "Move to time HH:MM")

	return cmd
}

func newDeleteCommand(ctx context.Context, manager *files.Manager) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <index>",
		Short: "Remove an entry by index.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}

			return withSession(ctx, manager, func(s *session.Session) error {
				entry, err := s.Entry(index)
				if err != nil {
					return err
				}
				line := formatEntry(entry, s.Types())

				if !yes {
					ok, err := confirm(fmt.Sprintf("Delete %s?", line))
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
						return nil
					}
				}

				if err := s.Delete(ctx, entry); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry %d: %s\n", index, line)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func newMarkCommand(ctx context.Context, manager *files.Manager) *cobra.Command {
	return newStatusCommand(ctx, manager, "mark", "Mark an entry as logged in one or more types.", true)
}

func newUnmarkCommand(ctx context.Context, manager *files.Manager) *cobra.Command {
	return newStatusCommand(ctx, manager, "unmark", "Mark an entry as not yet logged in one or more types.", false)
}

func newStatusCommand(ctx context.Context, manager *files.Manager, use, short string, completed bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <index> <type>...",
		Short: short,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}

			return withSession(ctx, manager, func(s *session.Session) error {
				entry, err := s.Entry(index)
				if err != nil {
					return err
				}
				types := s.Types()
				for _, name := range splitTypes(args[1:]) {
					if err := entry.SetStatus(types, name, completed); err != nil {
						return err
					}
				}
				if err := s.Save(ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated entry %d: %s\n", index, formatEntry(entry, types))
				return nil
			})
		},
	}
}
