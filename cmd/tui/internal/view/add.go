package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/kakeibo/internal/expense"
)

type AddModel struct {
	CommonModel
	svc *expense.Service

	values *expenseFormValues
	form   *huh.Form
	status string
	err    error
}

func NewAddModel(svc *expense.Service) AddModel {
	values := newExpenseFormValues()

	return AddModel{
		svc:    svc,
		values: values,
		form:   newExpenseForm(values),
	}
}

func (m AddModel) Title() string     { return "Add Expense" }
func (m AddModel) ShortHelp() string { return "Esc: back | Enter: next field" }

func (m AddModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m AddModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

	case addResultMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.status = fmt.Sprintf("Saved %s %s", CategoryLabel(msg.expense.Category), FormatAmount(msg.expense.Amount))
		}

		// Keep the date and category for quick repeated entry.
		m.values = &expenseFormValues{Date: m.values.Date, Category: m.values.Category}
		m.form = newExpenseForm(m.values)

		return m, m.form.Init()
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m AddModel) View() string {
	content := titleStyle.Render(m.Title()) + "\n\n" + m.form.View()

	if m.err != nil {
		content += "\n" + errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	} else if m.status != "" {
		content += "\n" + successStyle.Render(m.status)
	}

	return panelStyle.Render(content)
}

type addResultMsg struct {
	expense expense.Expense
	err     error
}

func (m AddModel) saveCmd() tea.Cmd {
	values := *m.values

	return func() tea.Msg {
		params, err := values.params()
		if err != nil {
			return addResultMsg{err: err}
		}

		ctx, cancel := StoreCtx()
		defer cancel()

		e, err := m.svc.Add(ctx, params)
		return addResultMsg{expense: e, err: err}
	}
}
