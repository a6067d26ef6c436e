package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/banksync/internal/statement"
)

type closeOriginMsg struct{}

func closeOrigin() tea.Msg {
	return closeOriginMsg{}
}

type originPane int

const (
	paneSuggestions originPane = iota
	paneLines
)

// suggestionRow is a suggestion flattened for display, children indented
// below their parent.
type suggestionRow struct {
	line  *statement.SuggestedLine
	depth int
}

// OriginModel shows one origin with its suggestion tree and lines.
type OriginModel struct {
	CommonModel
	statements *statement.Service
	id         uuid.UUID

	origin  *statement.Origin
	rows    []suggestionRow
	pane    originPane
	cursor  int
	confirm *confirmation
	status  string
	err     error
}

func NewOriginModel(statements *statement.Service, id uuid.UUID) OriginModel {
	return OriginModel{statements: statements, id: id}
}

func (m OriginModel) Title() string { return "Origin" }

func (m OriginModel) ShortHelp() string {
	if m.confirm != nil {
		return "Enter: answer | Esc: abort"
	}

	if m.pane == paneLines {
		return "Tab: suggestions | x: delete line | Esc: back"
	}

	return "Tab: lines | u: use | b: back to proposed | Esc: back"
}

func (m OriginModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m OriginModel) Update(msg tea.Msg) (OriginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loadOriginMsg:
		m.err = msg.err
		if msg.err == nil {
			m.origin = msg.origin
			m.rows = flatten(msg.origin.Tree())
			m.clampCursor()
		}

		return m, nil

	case actionDoneMsg:
		if c, ok := newConfirmation(msg); ok {
			m.confirm = c
			return m, c.form.Init()
		}

		m.status = msg.done
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		return m, m.loadCmd()
	}

	if m.confirm != nil {
		cmd, finished := m.confirm.update(msg)
		if finished {
			m.confirm = nil
		}

		return m, cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.origin == nil {
		if ok && keyMsg.Type == tea.KeyEsc {
			return m, closeOrigin
		}

		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, closeOrigin
	case "tab":
		m.pane = (m.pane + 1) % 2
		m.cursor = 0
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		m.cursor++
		m.clampCursor()
	case "u":
		if s := m.selectedSuggestion(); s != nil {
			return m, m.act("Suggestion used.", func(confirmed bool) error {
				ctx, cancel := DbCtx()
				defer cancel()

				_, err := m.statements.UseSuggestions(ctx, m.id, []uuid.UUID{s.ID})

				return err
			})
		}
	case "b":
		if s := m.selectedSuggestion(); s != nil {
			return m, m.act("Suggestion proposed.", func(bool) error {
				ctx, cancel := DbCtx()
				defer cancel()

				return m.statements.ProposeSuggestions(ctx, m.id, []uuid.UUID{s.ID})
			})
		}
	case "x":
		if l := m.selectedLine(); l != nil {
			return m, m.act("Line deleted.", func(confirmed bool) error {
				ctx, cancel := DbCtx()
				defer cancel()

				return m.statements.DeleteLines(ctx, m.id, []uuid.UUID{l.ID}, confirmed)
			})
		}
	}

	return m, nil
}

func (m OriginModel) act(done string, fn func(confirmed bool) error) tea.Cmd {
	return runAction(done, fn)(false)
}

func (m OriginModel) selectedSuggestion() *statement.SuggestedLine {
	if m.pane != paneSuggestions || m.cursor >= len(m.rows) {
		return nil
	}

	return m.rows[m.cursor].line
}

func (m OriginModel) selectedLine() *statement.Line {
	if m.pane != paneLines || m.cursor >= len(m.origin.Lines) {
		return nil
	}

	return m.origin.Lines[m.cursor]
}

func (m *OriginModel) clampCursor() {
	n := len(m.rows)
	if m.pane == paneLines && m.origin != nil {
		n = len(m.origin.Lines)
	}

	if m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func flatten(tree *statement.Tree) []suggestionRow {
	var rows []suggestionRow

	for _, root := range tree.TopLevel() {
		rows = append(rows, suggestionRow{line: root})

		for _, child := range tree.Children(root.ID) {
			rows = append(rows, suggestionRow{line: child, depth: 1})
		}
	}

	return rows
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	usedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	faintStyle    = lipgloss.NewStyle().Faint(true)
)

func (m OriginModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v\n\n(Esc to back)", m.err))
	}

	if m.origin == nil {
		return lipgloss.NewStyle().Padding(2).Render("Loading origin...")
	}

	o := m.origin

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Render(fmt.Sprintf(
			"Date: %s  |  Amount: %s %s  |  Pending: %s  |  State: %s\n%s",
			FormatDate(o.Date),
			FormatAmount(o.Amount),
			o.Currency,
			FormatAmount(o.PendingAmount()),
			o.State,
			o.RemittanceInformation(),
		)))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render("Suggestions") + "\n")
	if len(m.rows) == 0 {
		b.WriteString(faintStyle.Render("  none") + "\n")
	}

	for i, r := range m.rows {
		line := fmt.Sprintf("%s%-40s %10s  sim %2d  %s",
			strings.Repeat("  ", r.depth),
			truncate(r.line.Name, 40),
			FormatAmount(r.line.Amount),
			r.line.Similarity,
			r.line.RelatedTo,
		)

		b.WriteString(m.render(paneSuggestions, i, line, r.line.State == statement.SuggestionUsed) + "\n")
	}

	b.WriteString("\n" + headerStyle.Render("Lines") + "\n")
	if len(o.Lines) == 0 {
		b.WriteString(faintStyle.Render("  none") + "\n")
	}

	for i, l := range o.Lines {
		line := fmt.Sprintf("%-40s %10s  %s", truncate(l.Description, 40), FormatAmount(l.Amount), l.RelatedTo)
		b.WriteString(m.render(paneLines, i, line, l.MoveID != nil) + "\n")
	}

	if m.confirm != nil {
		b.WriteString("\n" + m.confirm.View())
	} else if m.status != "" {
		b.WriteString("\n" + faintStyle.Render(m.status))
	}

	return lipgloss.NewStyle().Padding(1).Render(b.String())
}

func (m OriginModel) render(pane originPane, i int, line string, marked bool) string {
	switch {
	case m.pane == pane && m.cursor == i:
		return selectedStyle.Render("> " + line)
	case marked:
		return "  " + usedStyle.Render(line)
	}

	return "  " + line
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n-1]) + "…"
}

type loadOriginMsg struct {
	origin *statement.Origin
	err    error
}

func (m OriginModel) loadCmd() tea.Cmd {
	svc, id := m.statements, m.id

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		o, err := svc.Get(ctx, id)

		return loadOriginMsg{origin: o, err: err}
	}
}
