package cli

import (
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/faizmokh/worklog/internal/logbook"
)

type logInput struct {
	Ticket      string
	Description string
	Duration    string
	Done        []string
	Subtasks    []string
}

// runLogForm and confirm are variables so tests never block on a terminal.
var (
	runLogForm = promptLog
	confirm    = promptConfirm
)

func promptLog(input *logInput, types logbook.LogTypes) error {
	options := make([]huh.Option[string], 0, len(types))
	for _, t := range types {
		options = append(options, huh.NewOption(t.Label(), t.Name))
	}
	subtasks := strings.Join(input.Subtasks, "\n")

	fields := []huh.Field{
		huh.NewInput().
			Title("Ticket").
			Placeholder("ABC-123").
			Value(&input.Ticket),
		huh.NewInput().
			Title("Description").
			Value(&input.Description).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return logbook.ErrEmptyDescription
				}
				return nil
			}),
		huh.NewInput().
			Title("Duration").
			Description(`e.g. "1h 30m"; leave empty for ongoing`).
			Value(&input.Duration).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return nil
				}
				_, err := logbook.ParseDuration(s)
				return err
			}),
		huh.NewText().
			Title("Subtasks").
			Description("One per line").
			Value(&subtasks),
	}
	if len(options) > 0 {
		fields = append(fields, huh.NewMultiSelect[string]().
			Title("Already logged in").
			Options(options...).
			Value(&input.Done))
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeDracula()).Run(); err != nil {
		return err
	}

	input.Subtasks = input.Subtasks[:0]
	for _, line := range strings.Split(subtasks, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			input.Subtasks = append(input.Subtasks, line)
		}
	}
	return nil
}

func promptConfirm(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Delete").
		Negative("Cancel").
		Value(&ok).
		Run()
	return ok, err
}
