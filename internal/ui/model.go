package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/faizmokh/worklog/internal/logbook"
	"github.com/faizmokh/worklog/internal/logger"
	"github.com/faizmokh/worklog/internal/session"
	"github.com/faizmokh/worklog/internal/stats"
)

// now is swapped in tests.
var now = time.Now

// Model owns Bubble Tea state for the main TUI experience.
type Model struct {
	ctx     context.Context
	session *session.Session
	keys    keyMap
	help    help.Model

	currentDate time.Time
	types       logbook.LogTypes
	rows        []row
	selected    int

	mode          mode
	inputBuffer   string
	inputLabel    string
	editing       *logbook.Entry
	pendingSelect int

	showStats bool
	days      []stats.DayStats
	totals    stats.Summary

	loading    bool
	announce   bool
	statusLine string
	errorLine  string
}

// row is a render-ready snapshot of one entry. View never reads the entry
// itself, since commands may be mutating it.
type row struct {
	entry       *logbook.Entry
	index       int
	clock       string
	ticket      string
	description string
	title       string
	duration    string
	status      []bool
	subtasks    []string
}

type mode uint8

const (
	modeNormal mode = iota
	modeAdd
	modeEdit
	modeConfirmDelete
)

type dayLoadedMsg struct {
	date  time.Time
	types logbook.LogTypes
	rows  []row
}

type statsLoadedMsg struct {
	days   []stats.DayStats
	totals stats.Summary
	err    error
}

type mutationMsg struct {
	message string
	err     error
}

type entryInput struct {
	text     string
	ticket   *string
	when     *time.Time
	duration *logbook.Duration
}

// NewModel seeds a Bubble Tea model with required collaborators.
func NewModel(ctx context.Context, s *session.Session) Model {
	return Model{
		ctx:           ctx,
		session:       s,
		keys:          defaultKeyMap(),
		help:          help.New(),
		currentDate:   today(),
		types:         s.Types(),
		mode:          modeNormal,
		pendingSelect: -1,
		loading:       true,
		announce:      true,
		statusLine:    "Loading today's entries...",
	}
}

// Init loads the initial day.
func (m Model) Init() tea.Cmd {
	return m.loadDayCmd(m.currentDate)
}

// Update wires TUI state transitions from user input and async commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case dayLoadedMsg:
		return m.handleDayLoaded(msg)
	case statsLoadedMsg:
		return m.handleStatsLoaded(msg)
	case mutationMsg:
		return m.handleMutation(msg)
	default:
		return m, nil
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeNormal {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.rows)-1 {
			m.selected++
			m.statusLine = fmt.Sprintf("Selected entry %d of %d", m.selected+1, len(m.rows))
			m.errorLine = ""
		}
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
			m.statusLine = fmt.Sprintf("Selected entry %d of %d", m.selected+1, len(m.rows))
			m.errorLine = ""
		}
	case key.Matches(msg, m.keys.Prev):
		return m.gotoDate(m.currentDate.AddDate(0, 0, -1))
	case key.Matches(msg, m.keys.Next):
		return m.gotoDate(m.currentDate.AddDate(0, 0, 1))
	case key.Matches(msg, m.keys.Today):
		return m.gotoDate(today())
	case key.Matches(msg, m.keys.Reload):
		return m.reload()
	case key.Matches(msg, m.keys.Toggle):
		if len(m.rows) == 0 || m.loading {
			return m, nil
		}
		return m.toggleSelected(int(msg.String()[0] - '1'))
	case key.Matches(msg, m.keys.Add):
		return m.beginAdd()
	case key.Matches(msg, m.keys.Edit):
		return m.beginEdit()
	case key.Matches(msg, m.keys.Delete):
		return m.beginDelete()
	case key.Matches(msg, m.keys.Stats):
		m.showStats = !m.showStats
		if m.showStats {
			return m, m.loadStatsCmd(m.currentDate)
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeAdd, modeEdit:
		switch msg.Type {
		case tea.KeyEnter:
			return m.submitInput()
		case tea.KeyEsc:
			return m.cancelInput("Cancelled.")
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyBackspace, tea.KeyCtrlH:
			if len(m.inputBuffer) > 0 {
				m.inputBuffer = trimLastRune(m.inputBuffer)
			}
		case tea.KeyCtrlU:
			m.inputBuffer = ""
		case tea.KeySpace:
			m.inputBuffer += " "
		case tea.KeyRunes:
			m.inputBuffer += string(msg.Runes)
		}
		return m, nil
	case modeConfirmDelete:
		switch msg.String() {
		case "y", "Y":
			return m.confirmDelete()
		case "n", "N", "esc":
			return m.cancelInput("Delete cancelled.")
		case "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) beginAdd() (tea.Model, tea.Cmd) {
	m.mode = modeAdd
	m.inputBuffer = ""
	m.inputLabel = "New entry (start with #TICKET, @HH:MM, ~1h30m as needed, then the description; Enter to save, Esc to cancel):"
	m.statusLine = ""
	m.errorLine = ""
	m.editing = nil
	return m, nil
}

func (m Model) beginEdit() (tea.Model, tea.Cmd) {
	if len(m.rows) == 0 {
		return m, nil
	}

	r := m.rows[m.selected]
	m.mode = modeEdit
	m.editing = r.entry
	m.inputBuffer = rowToInput(r)
	m.inputLabel = fmt.Sprintf("Edit entry %d (adjust description, #TICKET, @HH:MM, ~duration; Enter to save, Esc to cancel):", r.index)
	m.statusLine = ""
	m.errorLine = ""
	return m, nil
}

func (m Model) beginDelete() (tea.Model, tea.Cmd) {
	if len(m.rows) == 0 {
		return m, nil
	}

	m.mode = modeConfirmDelete
	m.editing = m.rows[m.selected].entry
	m.statusLine = ""
	m.errorLine = ""
	return m, nil
}

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.inputBuffer)
	if input == "" {
		m.errorLine = "Entry cannot be empty."
		return m, nil
	}

	switch m.mode {
	case modeAdd:
		parsed, err := parseInputLine(input, m.currentDate)
		if err != nil {
			m.errorLine = err.Error()
			return m, nil
		}
		current := now()
		when := time.Date(m.currentDate.Year(), m.currentDate.Month(), m.currentDate.Day(), current.Hour(), current.Minute(), 0, 0, time.UTC)
		if parsed.when != nil {
			when = *parsed.when
		}
		duration := logbook.Ongoing
		if parsed.duration != nil {
			duration = *parsed.duration
		}
		ticket := ""
		if parsed.ticket != nil {
			ticket = *parsed.ticket
		}
		entry, err := logbook.NewEntry(when, ticket, parsed.text, duration, m.types, nil, nil)
		if err != nil {
			m.errorLine = err.Error()
			return m, nil
		}
		cmd := m.addEntryCmd(entry)
		m = m.resetInput()
		m.statusLine = "Saving entry..."
		return m, cmd
	case modeEdit:
		if m.editing == nil {
			return m.cancelInput("No entry selected.")
		}
		parsed, err := parseInputLine(input, m.currentDate)
		if err != nil {
			m.errorLine = err.Error()
			return m, nil
		}
		if parsed.text == "" {
			m.errorLine = logbook.ErrEmptyDescription.Error()
			return m, nil
		}
		cmd := m.editEntryCmd(m.editing, parsed)
		m.pendingSelect = m.selected
		m = m.resetInput()
		m.statusLine = "Updating entry..."
		return m, cmd
	default:
		return m, nil
	}
}

func (m Model) resetInput() Model {
	m.mode = modeNormal
	m.inputBuffer = ""
	m.inputLabel = ""
	m.editing = nil
	m.errorLine = ""
	return m
}

func (m Model) cancelInput(message string) (tea.Model, tea.Cmd) {
	m = m.resetInput()
	m.pendingSelect = -1
	if message != "" {
		m.statusLine = message
	}
	return m, nil
}

func (m Model) confirmDelete() (tea.Model, tea.Cmd) {
	if m.editing == nil {
		return m.cancelInput("No entry selected.")
	}
	cmd := m.deleteEntryCmd(m.editing)
	m.pendingSelect = m.selected
	m = m.resetInput()
	m.statusLine = "Deleting entry..."
	return m, cmd
}

func trimLastRune(input string) string {
	if input == "" {
		return input
	}
	runes := []rune(input)
	return string(runes[:len(runes)-1])
}

func (m Model) handleDayLoaded(msg dayLoadedMsg) (tea.Model, tea.Cmd) {
	// Ignore stale results for dates we no longer display.
	if !logbook.SameDay(m.currentDate, msg.date) {
		return m, nil
	}
	m.loading = false
	m.types = msg.types
	m.rows = msg.rows

	switch {
	case len(m.rows) == 0:
		m.selected = 0
	case m.pendingSelect >= 0:
		m.selected = min(m.pendingSelect, len(m.rows)-1)
	case m.selected >= len(m.rows):
		m.selected = len(m.rows) - 1
	}
	if m.announce {
		if len(m.rows) == 0 {
			m.statusLine = fmt.Sprintf("%s has no entries.", msg.date.Format("2006-01-02"))
		} else {
			m.statusLine = fmt.Sprintf("Loaded %d entr%s.", len(m.rows), plural(len(m.rows)))
		}
	}
	m.announce = false
	m.pendingSelect = -1
	return m, nil
}

func (m Model) handleStatsLoaded(msg statsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.errorLine = fmt.Sprintf("Stats failed: %v", msg.err)
		return m, nil
	}
	m.days = msg.days
	m.totals = msg.totals
	return m, nil
}

func (m Model) handleMutation(msg mutationMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		logger.Warn("tui action failed", "err", msg.err)
		m.errorLine = msg.err.Error()
		m.statusLine = ""
		m.pendingSelect = -1
		return m, nil
	}

	m.errorLine = ""
	m.statusLine = msg.message
	return m.refresh()
}

func (m Model) gotoDate(date time.Time) (tea.Model, tea.Cmd) {
	if logbook.SameDay(m.currentDate, date) {
		return m.reload()
	}

	m.currentDate = date
	m.rows = nil
	m.selected = 0
	m = m.resetInput()
	m.pendingSelect = -1
	m.statusLine = fmt.Sprintf("Loading %s...", date.Format("2006-01-02"))
	m.announce = true
	return m.refresh()
}

func (m Model) reload() (tea.Model, tea.Cmd) {
	m.statusLine = fmt.Sprintf("Refreshing %s...", m.currentDate.Format("2006-01-02"))
	m.errorLine = ""
	m.announce = true
	return m.refresh()
}

func (m Model) refresh() (tea.Model, tea.Cmd) {
	m.loading = true
	cmds := []tea.Cmd{m.loadDayCmd(m.currentDate)}
	if m.showStats {
		cmds = append(cmds, m.loadStatsCmd(m.currentDate))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) toggleSelected(typeIndex int) (tea.Model, tea.Cmd) {
	if typeIndex < 0 || typeIndex >= len(m.types) {
		m.errorLine = fmt.Sprintf("No log type %d configured.", typeIndex+1)
		return m, nil
	}
	r := m.rows[m.selected]
	name := m.types[typeIndex].Name
	m.pendingSelect = m.selected
	m.statusLine = fmt.Sprintf("Toggling %s for entry %d...", m.types[typeIndex].Label(), r.index)
	m.errorLine = ""
	return m, m.toggleEntryCmd(r.entry, name)
}

func (m Model) loadDayCmd(date time.Time) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		types := s.Types()
		var rows []row
		s.Read(func(store *logbook.Store) {
			for i, e := range store.SortedByDate() {
				if logbook.SameDay(e.Time, date) {
					rows = append(rows, newRow(e, i+1, types))
				}
			}
		})
		return dayLoadedMsg{date: date, types: types, rows: rows}
	}
}

func (m Model) loadStatsCmd(reference time.Time) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		workdays, err := stats.LastNWorkdays(reference, s.Settings().Stats.Workdays)
		if err != nil {
			return statsLoadedMsg{err: err}
		}
		types := s.Types()
		var report map[time.Time]stats.DayStats
		s.Read(func(store *logbook.Store) {
			report = stats.Aggregate(store, workdays, types)
		})
		return statsLoadedMsg{days: stats.Ordered(report, workdays), totals: stats.Totals(report)}
	}
}

func (m Model) toggleEntryCmd(entry *logbook.Entry, name string) tea.Cmd {
	s, ctx, types := m.session, m.ctx, m.types
	return func() tea.Msg {
		var completed bool
		err := s.Do(ctx, func(*logbook.Store) error {
			completed = !entry.Completed(name)
			return entry.SetStatus(types, name, completed)
		})
		if err != nil {
			return mutationMsg{err: fmt.Errorf("toggle failed: %w", err)}
		}
		state := "not logged"
		if completed {
			state = "logged"
		}
		return mutationMsg{message: fmt.Sprintf("Marked %s in %s.", state, name)}
	}
}

func (m Model) addEntryCmd(entry *logbook.Entry) tea.Cmd {
	s, ctx := m.session, m.ctx
	return func() tea.Msg {
		if err := s.Add(ctx, entry); err != nil {
			return mutationMsg{err: fmt.Errorf("add failed: %w", err)}
		}
		return mutationMsg{message: "Entry added."}
	}
}

func (m Model) editEntryCmd(entry *logbook.Entry, input entryInput) tea.Cmd {
	s, ctx := m.session, m.ctx
	return func() tea.Msg {
		err := s.Do(ctx, func(*logbook.Store) error {
			if err := entry.SetDescription(input.text); err != nil {
				return err
			}
			if input.ticket != nil {
				entry.SetTicket(*input.ticket)
			}
			if input.when != nil {
				entry.SetTime(*input.when)
			}
			if input.duration != nil {
				entry.SetDuration(*input.duration)
			}
			return nil
		})
		if err != nil {
			return mutationMsg{err: fmt.Errorf("edit failed: %w", err)}
		}
		return mutationMsg{message: "Entry updated."}
	}
}

func (m Model) deleteEntryCmd(entry *logbook.Entry) tea.Cmd {
	s, ctx := m.session, m.ctx
	return func() tea.Msg {
		if err := s.Delete(ctx, entry); err != nil {
			return mutationMsg{err: fmt.Errorf("delete failed: %w", err)}
		}
		return mutationMsg{message: "Entry deleted."}
	}
}

func newRow(e *logbook.Entry, index int, types logbook.LogTypes) row {
	status := make([]bool, len(types))
	for i, t := range types {
		status[i] = e.Completed(t.Name)
	}
	return row{
		entry:       e,
		index:       index,
		clock:       e.Time.Format("15:04"),
		ticket:      e.Ticket,
		description: e.Description,
		title:       e.Title(),
		duration:    e.Duration.String(),
		status:      status,
		subtasks:    e.SubtaskTexts(),
	}
}

// View renders the frame.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(m.currentDate.Format("Monday, 02 January 2006")))
	b.WriteString("\n\n")

	switch {
	case m.loading && len(m.rows) == 0:
		b.WriteString("Loading...\n")
	case len(m.rows) == 0:
		b.WriteString(statusStyle.Render("(no entries)"))
		b.WriteByte('\n')
	default:
		for i, r := range m.rows {
			line := m.formatRow(r)
			if i == m.selected {
				line = selectedStyle.Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line)
			b.WriteByte('\n')
			for _, sub := range r.subtasks {
				b.WriteString("      - ")
				b.WriteString(sub)
				b.WriteByte('\n')
			}
		}
	}

	if m.showStats {
		b.WriteByte('\n')
		b.WriteString(panelStyle.Render(m.statsView()))
		b.WriteByte('\n')
	}

	if m.errorLine != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("! " + m.errorLine))
		b.WriteByte('\n')
	} else if m.statusLine != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.statusLine))
		b.WriteByte('\n')
	}

	switch m.mode {
	case modeAdd, modeEdit:
		b.WriteString("\n")
		b.WriteString(m.inputLabel)
		b.WriteByte('\n')
		b.WriteString("> ")
		b.WriteString(m.inputBuffer)
		b.WriteByte('\n')
	case modeConfirmDelete:
		if m.selected < len(m.rows) {
			b.WriteString("\n")
			b.WriteString(fmt.Sprintf("Delete entry %d? (y/n, Esc to cancel)", m.rows[m.selected].index))
			b.WriteByte('\n')
		}
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteByte('\n')

	return b.String()
}

func (m Model) formatRow(r row) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "%d. [%s] %s (%s)", r.index, r.clock, r.title, r.duration)
	for i, t := range m.types {
		if i >= len(r.status) {
			break
		}
		builder.WriteByte(' ')
		if r.status[i] {
			builder.WriteString(doneStyle.Render(fmt.Sprintf("%d:[x] %s", i+1, t.Label())))
		} else {
			builder.WriteString(pendingStyle.Render(fmt.Sprintf("%d:[ ] %s", i+1, t.Label())))
		}
	}
	return builder.String()
}

func (m Model) statsView() string {
	if len(m.days) == 0 {
		return "Loading stats..."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Last %d workdays\n", len(m.days))
	maxMinutes := 0
	for _, d := range m.days {
		maxMinutes = max(maxMinutes, d.TotalMinutes)
	}
	for _, d := range m.days {
		width := 0
		if maxMinutes > 0 {
			width = d.TotalMinutes * 20 / maxMinutes
		}
		fmt.Fprintf(&b, "%s %-20s %5.2fh  %d open\n",
			d.Date.Format("Mon 02"), barStyle.Render(strings.Repeat("█", width)), d.Hours(), len(d.Incomplete))
	}
	fmt.Fprintf(&b, "Average %.2fh/day, %d not logged everywhere", m.totals.AverageHours(), m.totals.Incomplete)
	return b.String()
}

func today() time.Time {
	return logbook.DateOf(now())
}

func plural(count int) string {
	if count == 1 {
		return "y"
	}
	return "ies"
}

func rowToInput(r row) string {
	parts := make([]string, 0, 4)
	if r.ticket != "" {
		parts = append(parts, "#"+quoteMarker(r.ticket))
	}
	parts = append(parts, "@"+r.clock)
	if r.duration != "" {
		parts = append(parts, "~"+strings.ReplaceAll(r.duration, " ", ""))
	}
	if r.description != "" && strings.ContainsRune(markerChars+`\`, rune(r.description[0])) {
		parts = append(parts, `\`+r.description)
	} else {
		parts = append(parts, r.description)
	}
	return strings.Join(parts, " ")
}

const markerChars = "#@~"

func quoteMarker(value string) string {
	if strings.ContainsAny(value, " \t\"") {
		return strconv.Quote(value)
	}
	return value
}

// parseInputLine reads leading "#TICKET", "@HH:MM" and "~1h30m" markers; the
// first other token starts the description. A ticket with spaces is quoted
// and a backslash escapes a description that starts with a marker.
func parseInputLine(input string, base time.Time) (entryInput, error) {
	result := entryInput{}
	rest := strings.TrimSpace(input)

	for rest != "" && strings.ContainsRune(markerChars, rune(rest[0])) {
		value, remainder, err := markerValue(rest[1:])
		if err != nil {
			return entryInput{}, err
		}
		if value == "" {
			break
		}
		switch rest[0] {
		case '#':
			ticket := value
			result.ticket = &ticket
		case '@':
			parsed, err := time.Parse("15:04", value)
			if err != nil {
				return entryInput{}, fmt.Errorf("invalid time %q (expected HH:MM)", value)
			}
			when := time.Date(base.Year(), base.Month(), base.Day(), parsed.Hour(), parsed.Minute(), 0, 0, time.UTC)
			result.when = &when
		case '~':
			d, err := logbook.ParseDuration(value)
			if err != nil {
				return entryInput{}, err
			}
			result.duration = &d
		}
		rest = strings.TrimLeft(remainder, " \t")
	}

	rest = strings.TrimPrefix(rest, `\`)
	result.text = strings.Join(strings.Fields(rest), " ")
	return result, nil
}

func markerValue(s string) (string, string, error) {
	if strings.HasPrefix(s, `"`) {
		quoted, err := strconv.QuotedPrefix(s)
		if err != nil {
			return "", "", fmt.Errorf("unterminated quote in %q", s)
		}
		value, err := strconv.Unquote(quoted)
		if err != nil {
			return "", "", err
		}
		return value, s[len(quoted):], nil
	}
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], s[i:], nil
	}
	return s, "", nil
}
