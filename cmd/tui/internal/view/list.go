package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/kakeibo/internal/aggregate"
	"github.com/MrJamesThe3rd/kakeibo/internal/expense"
	"github.com/MrJamesThe3rd/kakeibo/internal/period"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateSearch
	listStateEdit
	listStateDelete
)

var dateFilterLabels = []string{"All Time", "This Week", "This Month", "Last Month"}

type ListModel struct {
	CommonModel
	svc *expense.Service

	state   listState
	table   table.Model
	search  textinput.Model
	records []expense.Expense
	form    *huh.Form
	values  *expenseFormValues

	// Filter cycling. Index 0 is "all" for both.
	categoryFilterIdx int
	dateFilterIdx     int

	filter aggregate.Filter
	status string
}

func NewListModel(svc *expense.Service) ListModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Category", Width: 12},
		{Title: "Amount", Width: 12},
		{Title: "Memo", Width: 40},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
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

	search := textinput.New()
	search.Placeholder = "search memo"
	search.Prompt = "/ "
	search.CharLimit = expense.MaxMemoLength

	return ListModel{
		svc:    svc,
		table:  t,
		search: search,
	}
}

func (m ListModel) Title() string { return "Expenses" }
func (m ListModel) ShortHelp() string {
	switch m.state {
	case listStateEdit:
		return "Navigate form | Esc: cancel"
	case listStateSearch:
		return "Enter: apply | Esc: clear"
	case listStateDelete:
		return "y: delete | n: cancel"
	}
	return "Esc: back | e: edit | x: delete | c: category | d: date | /: search | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.records = msg.records
		m.refreshTable()
		return m, nil

	case listSaveMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}
		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case listStateBrowse:
		return m.updateBrowse(msg)
	case listStateSearch:
		return m.updateSearch(msg)
	case listStateEdit:
		return m.updateEdit(msg)
	case listStateDelete:
		return m.updateDelete(msg)
	}

	return m, nil
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadCmd()
		case "e":
			return m.enterEditMode()
		case "x":
			if _, ok := m.selected(); ok {
				m.state = listStateDelete
			}
			return m, nil
		case "/":
			m.state = listStateSearch
			m.table.Blur()
			return m, m.search.Focus()
		case "c":
			m.categoryFilterIdx = (m.categoryFilterIdx + 1) % (len(expense.CategoryNames()) + 1)
			m.applyFilter()
			return m, m.loadCmd()
		case "d":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % len(dateFilterLabels)
			m.applyFilter()
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ListModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.search.SetValue("")
			fallthrough
		case tea.KeyEnter:
			m.state = listStateBrowse
			m.search.Blur()
			m.table.Focus()
			m.filter.Query = m.search.Value()
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m ListModel) updateDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y":
		return m, m.deleteCmd()
	case "n", "N", "esc":
		m.state = listStateBrowse
	}

	return m, nil
}

func (m ListModel) enterEditMode() (tea.Model, tea.Cmd) {
	e, ok := m.selected()
	if !ok {
		return m, nil
	}

	m.values = expenseFormValuesFrom(e)
	m.form = newExpenseForm(m.values)
	m.state = listStateEdit
	m.table.Blur()
	return m, m.form.Init()
}

func (m ListModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = listStateBrowse
			m.form = nil
			m.table.Focus()
			return m, nil
		}
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

func (m ListModel) View() string {
	categoryLabel := "All"
	if m.categoryFilterIdx > 0 {
		categoryLabel = CategoryLabel(expense.CategoryNames()[m.categoryFilterIdx-1])
	}

	header := fmt.Sprintf(
		"Filter: [c] Category: %s | [d] Date: %s | Total: %s (%d)",
		activeStyle(categoryLabel),
		activeStyle(dateFilterLabels[m.dateFilterIdx]),
		FormatAmount(aggregate.Total(m.records)),
		len(m.records),
	)

	if m.state == listStateSearch {
		header += "\n" + m.search.View()
	} else if m.filter.Query != "" {
		header += "\nSearch: " + activeStyle(m.filter.Query)
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == listStateEdit && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("Edit Expense\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.state == listStateDelete {
		if e, ok := m.selected(); ok {
			content += "\n" + errorStyle.Render(fmt.Sprintf("Delete %s %s %s? (y/n)", e.Date, e.Category, FormatAmount(e.Amount)))
		}
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return panelStyle.Render(content)
}

func (m *ListModel) applyFilter() {
	m.filter.Category = ""
	if m.categoryFilterIdx > 0 {
		m.filter.Category = expense.CategoryNames()[m.categoryFilterIdx-1]
	}

	m.filter.Start, m.filter.End = "", ""

	now := time.Now()
	var rng period.Range
	switch m.dateFilterIdx {
	case 1:
		rng = period.ThisWeek(now)
	case 2:
		rng = period.ThisMonth(now)
	case 3:
		rng = period.LastMonth(now)
	default:
		return
	}

	m.filter.Start, m.filter.End = rng.Start, rng.End
}

func (m ListModel) selected() (expense.Expense, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.records) {
		return expense.Expense{}, false
	}

	return m.records[idx], true
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.records))
	for _, e := range m.records {
		rows = append(rows, table.Row{
			e.Date,
			CategoryLabel(e.Category),
			FormatAmount(e.Amount),
			e.Memo,
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadListMsg struct {
	records []expense.Expense
}

func (m ListModel) loadCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		records := filter.Apply(m.svc.LoadExpenses(ctx))
		return loadListMsg{records: aggregate.RecentExpenses(records, len(records))}
	}
}

type listSaveMsg struct {
	status string
	err    error
}

func (m ListModel) saveCmd() tea.Cmd {
	e, ok := m.selected()
	if !ok {
		return nil
	}

	values := *m.values

	return func() tea.Msg {
		params, err := values.params()
		if err != nil {
			return listSaveMsg{err: err}
		}

		ctx, cancel := StoreCtx()
		defer cancel()

		patch := expense.Patch{
			Date:     &params.Date,
			Category: &params.Category,
			Amount:   &params.Amount,
			Memo:     &params.Memo,
		}

		found, err := m.svc.Update(ctx, e.ID, patch)
		if err != nil {
			return listSaveMsg{err: err}
		}
		if !found {
			return listSaveMsg{err: expense.ErrNotFound}
		}

		return listSaveMsg{status: "Expense updated."}
	}
}

func (m ListModel) deleteCmd() tea.Cmd {
	e, ok := m.selected()
	if !ok {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		found, err := m.svc.Delete(ctx, e.ID)
		if err != nil {
			return listSaveMsg{err: err}
		}
		if !found {
			return listSaveMsg{err: expense.ErrNotFound}
		}

		return listSaveMsg{status: "Expense deleted."}
	}
}
