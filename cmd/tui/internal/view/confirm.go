package view

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/banksync/internal/statement"
)

// action runs an operation that may ask for confirmation.
type action func(confirmed bool) tea.Cmd

// actionDoneMsg reports the result of an action. When err carries a warning,
// retry repeats the action with confirmation.
type actionDoneMsg struct {
	done  string
	err   error
	retry action
}

func runAction(done string, fn func(confirmed bool) error) action {
	var a action

	a = func(confirmed bool) tea.Cmd {
		return func() tea.Msg {
			return actionDoneMsg{done: done, err: fn(confirmed), retry: a}
		}
	}

	return a
}

// confirmation asks the user to accept the warning raised by an action.
type confirmation struct {
	form  *huh.Form
	retry action
}

func newConfirmation(msg actionDoneMsg) (*confirmation, bool) {
	var w *statement.WarningError
	if !errors.As(msg.err, &w) || msg.retry == nil {
		return nil, false
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(w.Message).
				Description("Proceed anyway?").
				Affirmative("Yes").
				Negative("No"),
		),
	).WithWidth(60).WithShowHelp(false)

	return &confirmation{form: form, retry: msg.retry}, true
}

// update forwards msg to the form. finished is true once the user answered;
// cmd then holds the confirmed action, or nil when it was declined.
func (c *confirmation) update(msg tea.Msg) (cmd tea.Cmd, finished bool) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return nil, true
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	switch c.form.State {
	case huh.StateCompleted:
		if c.form.GetBool("confirm") {
			return c.retry(true), true
		}

		return nil, true
	case huh.StateAborted:
		return nil, true
	}

	return cmd, false
}

func (c *confirmation) View() string {
	return c.form.View()
}
