package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/faizmokh/worklog/internal/config"
	"github.com/faizmokh/worklog/internal/files"
	"github.com/faizmokh/worklog/internal/session"
)

func newSettingsCommand(ctx context.Context, manager *files.Manager) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change settings.",
	}
	cmd.AddCommand(newSettingsShowCommand(ctx, manager), newSettingsSprintCommand(ctx, manager))
	return cmd
}

func newSettingsShowCommand(ctx context.Context, manager *files.Manager) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings as YAML.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(manager)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(settings)
			if err != nil {
				return fmt.Errorf("encode settings: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", manager.ConfigPath(), data)
			return nil
		},
	}
}

func newSettingsSprintCommand(ctx context.Context, manager *files.Manager) *cobra.Command {
	var (
		startFlag string
		length    int
	)

	cmd := &cobra.Command{
		Use:   "sprint",
		Short: "Set the sprint start date and length in days.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(ctx, manager, func(s *session.Session) error {
				current, err := s.SprintConfig()
				if err != nil {
					return err
				}
				start, n := current.Start, current.Length
				if cmd.Flags().Changed("start") {
					if start, err = resolveDate(startFlag); err != nil {
						return err
					}
				}
				if cmd.Flags().Changed("length") {
					n = length
				}

				err = s.UpdateSettings(ctx, func(cfg *config.Settings) error {
					return cfg.SetSprint(start, n)
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Sprints start %s and last %d days\n", start.Format("2006-01-02"), n)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&startFlag, "start", "", "First day of sprint 0")
	cmd.Flags().IntVar(&length, "length", 0, "Sprint length in days")

	return cmd
}
