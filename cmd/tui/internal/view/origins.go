package view

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/banksync/internal/matching"
	"github.com/MrJamesThe3rd/banksync/internal/statement"
)

type originsState int

const (
	originsStateTimeframe originsState = iota
	originsStateList
	originsStateConfirm
	originsStateDetail
)

var stateFilters = []*statement.OriginState{
	nil,
	new(statement.OriginRegistered),
	new(statement.OriginPosted),
	new(statement.OriginCancelled),
}

type originItem struct {
	origin *statement.Origin
}

func (i originItem) Title() string {
	state := lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("[%s]", i.origin.State))

	return fmt.Sprintf("%s  %10s  %s  %s",
		FormatDate(i.origin.Date),
		FormatAmount(i.origin.Amount),
		state,
		i.origin.RemittanceInformation(),
	)
}

func (i originItem) Description() string {
	pending := i.origin.PendingAmount()
	tree := i.origin.Tree()

	desc := fmt.Sprintf("Pending: %s  Suggestions: %d", FormatAmount(pending), len(tree.TopLevel()))
	if hint := i.origin.PartyHint(); hint != "" {
		desc += "  Party: " + hint
	}

	return desc
}

func (i originItem) FilterValue() string {
	return i.origin.RemittanceInformation() + " " + i.origin.PartyHint()
}

// OriginsModel lists origins and applies the bulk operations on them.
type OriginsModel struct {
	CommonModel
	statements *statement.Service
	matching   *matching.Service

	state           originsState
	timeframePicker TimeframePicker
	list            list.Model
	confirm         *confirmation
	detail          OriginModel
	origins         []*statement.Origin

	startDate time.Time
	endDate   time.Time
	allTime   bool
	filterIdx int
	loading   bool
	status    string
}

func NewOriginsModel(statements *statement.Service, engine *matching.Service) OriginsModel {
	l := list.New([]list.Item{}, originDelegate{}, 0, 0)
	l.Title = "Origins"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return OriginsModel{
		statements:      statements,
		matching:        engine,
		timeframePicker: NewTimeframePicker(),
		list:            l,
	}
}

func (m OriginsModel) Title() string { return "Review Origins" }

func (m OriginsModel) ShortHelp() string {
	switch m.state {
	case originsStateTimeframe:
		return "Esc: back | Enter: select"
	case originsStateList:
		return "Enter: open | s: suggest | r: register | p: post | c: cancel | d: delete | f: state filter | /: filter | Esc: back"
	case originsStateConfirm:
		return "Enter: answer | Esc: abort"
	case originsStateDetail:
		return m.detail.ShortHelp()
	}

	return ""
}

func (m OriginsModel) Init() tea.Cmd {
	return nil
}

func (m OriginsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.startDate = msg.Start
		m.endDate = msg.End
		m.allTime = msg.All
		m.loading = true
		m.state = originsStateList

		return m, m.loadCmd()

	case loadOriginsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.origins = msg.origins
		m.refreshItems()

		if len(msg.origins) == 0 {
			m.status = "No origins found."
		}

		return m, nil

	case actionDoneMsg:
		if m.state == originsStateDetail {
			break
		}

		if c, ok := newConfirmation(msg); ok {
			m.confirm = c
			m.state = originsStateConfirm

			return m, c.form.Init()
		}

		m.state = originsStateList
		m.status = msg.done
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
	}

	switch m.state {
	case originsStateTimeframe:
		return m.updateTimeframe(msg)
	case originsStateList:
		return m.updateList(msg)
	case originsStateConfirm:
		cmd, finished := m.confirm.update(msg)
		if finished {
			m.confirm = nil
			m.state = originsStateList
		}

		return m, cmd
	case originsStateDetail:
		if _, ok := msg.(closeOriginMsg); ok {
			m.state = originsStateList
			return m, m.loadCmd()
		}

		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m OriginsModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
		return m, Back
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m OriginsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)

		return m, cmd
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "enter":
		if o := m.selected(); o != nil {
			m.detail = NewOriginModel(m.statements, o.ID)
			m.state = originsStateDetail

			return m, m.detail.Init()
		}

		return m, nil
	case "f":
		m.filterIdx = (m.filterIdx + 1) % len(stateFilters)
		m.loading = true

		return m, m.loadCmd()
	case "s":
		return m, m.forSelected("Suggestions refreshed.", func(ids []uuid.UUID, _ bool) error {
			ctx, cancel := DbCtx()
			defer cancel()

			_, err := m.matching.Search(ctx, ids)

			return err
		})
	case "r":
		return m, m.forSelected("Registered.", func(ids []uuid.UUID, _ bool) error {
			ctx, cancel := DbCtx()
			defer cancel()

			return m.statements.Register(ctx, ids)
		})
	case "p":
		return m, m.forSelected("Posted.", func(ids []uuid.UUID, confirmed bool) error {
			ctx, cancel := DbCtx()
			defer cancel()

			return m.statements.Post(ctx, ids, confirmed)
		})
	case "c":
		return m, m.forSelected("Cancelled.", func(ids []uuid.UUID, confirmed bool) error {
			ctx, cancel := DbCtx()
			defer cancel()

			return m.statements.Cancel(ctx, ids, confirmed)
		})
	case "d":
		return m, m.forSelected("Deleted.", func(ids []uuid.UUID, _ bool) error {
			ctx, cancel := DbCtx()
			defer cancel()

			return m.statements.Delete(ctx, ids)
		})
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

// forSelected runs fn on the origin under the cursor.
func (m OriginsModel) forSelected(done string, fn func(ids []uuid.UUID, confirmed bool) error) tea.Cmd {
	o := m.selected()
	if o == nil {
		return nil
	}

	ids := []uuid.UUID{o.ID}

	return runAction(done, func(confirmed bool) error {
		return fn(ids, confirmed)
	})(false)
}

func (m OriginsModel) selected() *statement.Origin {
	item, ok := m.list.SelectedItem().(originItem)
	if !ok {
		return nil
	}

	return item.origin
}

func (m OriginsModel) View() string {
	switch m.state {
	case originsStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case originsStateDetail:
		return m.detail.View()

	case originsStateConfirm:
		return lipgloss.NewStyle().Padding(1).Render(m.confirm.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading origins...")
	}

	filter := "All"
	if f := stateFilters[m.filterIdx]; f != nil {
		filter = string(*f)
	}

	header := fmt.Sprintf("State: %s", lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(filter))
	if m.status != "" {
		header += "  " + lipgloss.NewStyle().Faint(true).Render(m.status)
	}

	return lipgloss.NewStyle().Padding(1).Render(header + "\n" + m.list.View())
}

func (m *OriginsModel) refreshItems() {
	items := make([]list.Item, len(m.origins))
	for i, o := range m.origins {
		items[i] = originItem{origin: o}
	}

	m.list.SetItems(items)
}

type loadOriginsMsg struct {
	origins []*statement.Origin
	err     error
}

func (m OriginsModel) loadCmd() tea.Cmd {
	filter := statement.ListFilter{State: stateFilters[m.filterIdx]}

	if !m.allTime {
		start, end := m.startDate, m.endDate
		filter.StartDate = &start
		filter.EndDate = &end
	}

	svc := m.statements

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		origins, err := svc.List(ctx, filter)

		return loadOriginsMsg{origins: origins, err: err}
	}
}

type originDelegate struct{}

func (d originDelegate) Height() int                             { return 2 }
func (d originDelegate) Spacing() int                            { return 0 }
func (d originDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d originDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(originItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "    %s\n", lipgloss.NewStyle().Faint(true).Render(i.Description()))
}
