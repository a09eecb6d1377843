package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/kakeibo/internal/expense"
)

type clearState int

const (
	clearStateConfirm clearState = iota
	clearStateResult
)

// ClearModel deletes every expense after two separate confirmations.
type ClearModel struct {
	CommonModel
	svc *expense.Service

	state   clearState
	confirm *expense.Confirmation
	form    *huh.Form
	status  string
	err     error
}

func NewClearModel(svc *expense.Service) ClearModel {
	confirm := &expense.Confirmation{}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Delete ALL expenses?").
				Description("Export a backup first if you need one.").
				Affirmative("Delete").
				Negative("Cancel").
				Value(&confirm.First),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("This cannot be undone. Really delete everything?").
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&confirm.Second),
		).WithHideFunc(func() bool { return !confirm.First }),
	).WithWidth(50).WithShowHelp(false)

	return ClearModel{svc: svc, confirm: confirm, form: form}
}

func (m ClearModel) Title() string     { return "Clear All Data" }
func (m ClearModel) ShortHelp() string { return "Esc: back" }

func (m ClearModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ClearModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

	case clearResultMsg:
		m.state = clearStateResult
		m.err = msg.err

		switch {
		case msg.err != nil:
			m.status = fmt.Sprintf("Error: %v", msg.err)
		case msg.cleared:
			m.status = "All expenses deleted."
		default:
			m.status = "Cancelled. Nothing was deleted."
		}

		return m, nil
	}

	if m.state != clearStateConfirm {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.clearCmd()
}

func (m ClearModel) View() string {
	if m.state == clearStateResult {
		style := successStyle
		if m.err != nil {
			style = errorStyle
		}

		return panelStyle.Render(style.Render(m.status) + "\n\n(Esc to go back)")
	}

	return panelStyle.Render(titleStyle.Render(m.Title()) + "\n\n" + m.form.View())
}

type clearResultMsg struct {
	cleared bool
	err     error
}

func (m ClearModel) clearCmd() tea.Cmd {
	confirm := *m.confirm

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		cleared, err := m.svc.ClearAll(ctx, confirm)
		return clearResultMsg{cleared: cleared, err: err}
	}
}
