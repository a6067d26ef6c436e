package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/banksync/internal/banksync"
	"github.com/MrJamesThe3rd/banksync/internal/statement"
)

const syncTimeout = 2 * time.Minute

type JournalLister interface {
	ListJournals(ctx context.Context) ([]*statement.Journal, error)
}

// JournalsModel lists the bank journals and synchronizes the selected one.
type JournalsModel struct {
	CommonModel
	journals JournalLister
	sync     *banksync.Service

	table   table.Model
	rows    []*statement.Journal
	syncing bool
	status  string
	err     error
}

func NewJournalsModel(journals JournalLister, sync *banksync.Service) JournalsModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Journal", Width: 24},
			{Title: "Currency", Width: 8},
			{Title: "Account", Width: 20},
			{Title: "Threshold", Width: 9},
			{Title: "Acceptable", Width: 10},
			{Title: "Last Sync", Width: 17},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return JournalsModel{journals: journals, sync: sync, table: t}
}

func (m JournalsModel) Title() string { return "Synchronize Journals" }

func (m JournalsModel) ShortHelp() string {
	return "Enter: synchronize | r: refresh | Esc: back"
}

func (m JournalsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m JournalsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadJournalsMsg:
		m.err = msg.err
		m.rows = msg.journals
		m.refreshTable()

		return m, nil

	case syncDoneMsg:
		m.syncing = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Sync failed: %v", msg.err)
			return m, nil
		}

		selected := 0
		for _, o := range msg.result.Outcomes {
			if o.Selected != nil {
				selected++
			}
		}

		m.status = fmt.Sprintf("Imported %d, skipped %d, %d auto-matched.", msg.result.Imported, msg.result.Skipped, selected)

		return m, m.loadCmd()

	case tea.KeyMsg:
		if m.syncing {
			return m, nil
		}

		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadCmd()
		case "enter":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.rows) {
				return m, nil
			}

			m.syncing = true
			m.status = fmt.Sprintf("Synchronizing %s...", m.rows[idx].Name)

			return m, m.syncCmd(m.rows[idx])
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m JournalsModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v\n\n(Esc to back)", m.err))
	}

	content := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *JournalsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.rows))
	for _, j := range m.rows {
		lastSync := "never"
		if j.LastSync != nil {
			lastSync = j.LastSync.Format("2006-01-02 15:04")
		}

		account := j.BankAccountUID
		if account == "" {
			account = "-"
		}

		rows = append(rows, table.Row{
			j.Name,
			j.Currency,
			account,
			fmt.Sprint(j.SimilarityThreshold),
			fmt.Sprint(j.AcceptableSimilarity),
			lastSync,
		})
	}

	m.table.SetRows(rows)
}

type loadJournalsMsg struct {
	journals []*statement.Journal
	err      error
}

func (m JournalsModel) loadCmd() tea.Cmd {
	lister := m.journals

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		journals, err := lister.ListJournals(ctx)

		return loadJournalsMsg{journals: journals, err: err}
	}
}

type syncDoneMsg struct {
	result *banksync.Result
	err    error
}

func (m JournalsModel) syncCmd(j *statement.Journal) tea.Cmd {
	svc, id := m.sync, j.ID

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		res, err := svc.Sync(ctx, id)

		return syncDoneMsg{result: res, err: err}
	}
}
