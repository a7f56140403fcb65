package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/faizmokh/worklog/internal/config"
	"github.com/faizmokh/worklog/internal/files"
	"github.com/faizmokh/worklog/internal/logger"
	"github.com/faizmokh/worklog/internal/session"
	"github.com/faizmokh/worklog/internal/ui"
)

// NewRootCommand creates the top-level Cobra command to host subcommands and TUI launcher.
func NewRootCommand(ctx context.Context, manager *files.Manager) *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "worklog",
		Short: "Track work entries, sprints and daily statistics from your terminal.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if settings, err := config.Load(manager); err == nil && settings.Debug {
				debug = true
			}
			return logger.Init(logger.Config{Debug: debug, Dir: manager.LogDir()})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := session.Open(ctx, manager)
			if err != nil {
				return err
			}
			defer s.Close()

			m := ui.NewModel(ctx, s)
			if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
				return fmt.Errorf("run TUI: %w", err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log debug output to stderr")

	cmd.AddCommand(
		newLogCommand(ctx, manager),
		newTodayCommand(ctx, manager),
		newListCommand(ctx, manager),
		newSearchCommand(ctx, manager),
		newEditCommand(ctx, manager),
		newDeleteCommand(ctx, manager),
		newMarkCommand(ctx, manager),
		newUnmarkCommand(ctx, manager),
		newSubtaskCommand(ctx, manager),
		newSprintCommand(ctx, manager),
		newStatsCommand(ctx, manager),
		newTypesCommand(ctx, manager),
		newSettingsCommand(ctx, manager),
		newExportCommand(ctx, manager),
		newVersionCommand(),
	)

	return cmd
}

// ExecuteCommand is a thin wrapper that executes the Cobra root command.
func ExecuteCommand(ctx context.Context) error {
	manager, err := files.NewManager("")
	if err != nil {
		return err
	}
	cmd := NewRootCommand(ctx, manager)
	return cmd.ExecuteContext(ctx)
}

// Main is a helper used by cmd/worklog/main.go to keep wiring contained in one package.
func Main(ctx context.Context) {
	if err := ExecuteCommand(ctx); err != nil {
		logger.Error("command failed", "err", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
