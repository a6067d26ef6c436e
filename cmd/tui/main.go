package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/banksync/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/banksync/internal/app"
	"github.com/MrJamesThe3rd/banksync/internal/config"
)

type model struct {
	services *app.Services

	currentView View

	journalsView view.JournalsModel
	originsView  view.OriginsModel
}

type View int

const (
	ViewMenu     View = 0
	ViewJournals View = 1
	ViewOrigins  View = 2
)

func initialModel(services *app.Services) model {
	return model{
		services:     services,
		currentView:  ViewMenu,
		journalsView: view.NewJournalsModel(services.Ledger, services.Sync),
		originsView:  view.NewOriginsModel(services.Statements, services.Matching),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewJournals
				m.journalsView = view.NewJournalsModel(m.services.Ledger, m.services.Sync)

				return m, m.journalsView.Init()
			case "2":
				m.currentView = ViewOrigins
				m.originsView = view.NewOriginsModel(m.services.Statements, m.services.Matching)

				return m, m.originsView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewJournals:
		var newModel tea.Model
		newModel, cmd = m.journalsView.Update(msg)
		m.journalsView = newModel.(view.JournalsModel)
	case ViewOrigins:
		var newModel tea.Model
		newModel, cmd = m.originsView.Update(msg)
		m.originsView = newModel.(view.OriginsModel)
	}

	return m, cmd
}

func (m model) View() string {
	var current view.View

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Bank Reconciliation\n\n" +
				"1. Synchronize Journals\n" +
				"2. Review Origins\n\n" +
				"q. Quit",
		)
	case ViewJournals:
		current = m.journalsView
	case ViewOrigins:
		current = m.originsView
	default:
		return "Unknown View"
	}

	help := lipgloss.NewStyle().Faint(true).Render(current.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Padding(1, 1, 0).Render(current.Title()),
		current.View(),
		lipgloss.NewStyle().PaddingLeft(1).Render(help),
	)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	services, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer services.Close()

	p := tea.NewProgram(initialModel(services), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
