package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/faizmokh/worklog/internal/files"
	"github.com/faizmokh/worklog/internal/logbook"
	"github.com/faizmokh/worklog/internal/session"
)

func newListCommand(ctx context.Context, manager *files.Manager) *cobra.Command {
	var (
		dateFlag  string
		insertion bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries sorted by time. The numbers are the indexes other commands take.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(ctx, manager, func(s *session.Session) error {
				store := s.Store()
				entries := store.SortedByDate()
				if insertion {
					entries = store.All()
				}

				if dateFlag != "" {
					date, err := resolveDate(dateFlag)
					if err != nil {
						return err
					}
					filtered := entries[:0:0]
					for _, e := range entries {
						if logbook.SameDay(e.Time, date) {
							filtered = append(filtered, e)
						}
					}
					if len(filtered) == 0 {
						printMissingDate(cmd, date)
						return nil
					}
					entries = filtered
				}

				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No entries yet")
					return nil
				}

				indexes := sortedIndexes(store)
				types := s.Types()
				for _, e := range entries {
					printEntry(cmd.OutOrStdout(), indexes[e], e, types)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Only show entries on this date")
	cmd.Flags().BoolVar(&insertion, "insertion", false, "Show entries in the order they were added")

	return cmd
}

func newSearchCommand(ctx context.Context, manager *files.Manager) *cobra.Command {
	var (
		caseSensitive bool
		outputJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search entries by ticket, description or subtask text.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := strings.TrimSpace(args[0])
			if term == "" {
				return fmt.Errorf("term is required")
			}

			return withSession(ctx, manager, func(s *session.Session) error {
				results := filterEntriesByTerm(s.Store().SortedByDate(), term, caseSensitive)
				if outputJSON {
					return printSearchResultsJSON(cmd, results)
				}
				return printSearchResultsText(cmd, term, results, s.Types())
			})
		},
	}

	cmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "Match term with case sensitivity")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Emit results as JSON objects")

	return cmd
}

type searchResult struct {
	entry *logbook.Entry
	index int
}

func filterEntriesByTerm(sorted []*logbook.Entry, term string, caseSensitive bool) []searchResult {
	var results []searchResult
	for idx, entry := range sorted {
		if matchesEntry(entry, term, caseSensitive) {
			results = append(results, searchResult{entry: entry, index: idx + 1})
		}
	}
	return results
}

func matchesEntry(entry *logbook.Entry, needle string, caseSensitive bool) bool {
	fields := append([]string{entry.Ticket, entry.Description}, entry.SubtaskTexts()...)
	if !caseSensitive {
		needle = strings.ToLower(needle)
	}
	for _, field := range fields {
		if !caseSensitive {
			field = strings.ToLower(field)
		}
		if strings.Contains(field, needle) {
			return true
		}
	}
	return false
}

func printSearchResultsText(cmd *cobra.Command, term string, results []searchResult, types logbook.LogTypes) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Results for %q\n", term)
	if len(results) == 0 {
		fmt.Fprintln(out, "(no matches)")
		return nil
	}
	for _, res := range results {
		printEntry(out, res.index, res.entry, types)
	}
	return nil
}

func printSearchResultsJSON(cmd *cobra.Command, results []searchResult) error {
	type dto struct {
		Index int            `json:"index"`
		Entry logbook.Record `json:"entry"`
	}

	list := make([]dto, 0, len(results))
	for _, res := range results {
		list = append(list, dto{Index: res.index, Entry: res.entry.Record()})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(list)
}
