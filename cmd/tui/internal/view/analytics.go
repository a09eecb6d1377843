package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/kakeibo/internal/aggregate"
	"github.com/MrJamesThe3rd/kakeibo/internal/expense"
	"github.com/MrJamesThe3rd/kakeibo/internal/period"
)

const monthlyRows = 6

type analyticsState int

const (
	analyticsStatePeriod analyticsState = iota
	analyticsStateReport
)

type AnalyticsModel struct {
	CommonModel
	svc *expense.Service

	state  analyticsState
	picker PeriodPicker

	kind      period.Kind
	rng       period.Range
	total     int64
	breakdown []aggregate.CategoryShare
	monthly   []aggregate.MonthTotal
}

func NewAnalyticsModel(svc *expense.Service) AnalyticsModel {
	return AnalyticsModel{
		svc:    svc,
		picker: NewPeriodPicker(),
	}
}

func (m AnalyticsModel) Title() string { return "Analytics" }

func (m AnalyticsModel) ShortHelp() string {
	if m.state == analyticsStateReport {
		return "Esc: change period"
	}
	return "Esc: back | Enter: select"
}

func (m AnalyticsModel) Init() tea.Cmd {
	return nil
}

func (m AnalyticsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PeriodSelectedMsg:
		m.kind = msg.Kind
		m.rng = msg.Range
		return m, m.loadCmd(msg.Range)

	case analyticsMsg:
		m.total = msg.total
		m.breakdown = msg.breakdown
		m.monthly = msg.monthly
		m.state = analyticsStateReport
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			if m.state == analyticsStateReport {
				m.state = analyticsStatePeriod
				return m, nil
			}
			return m, Back
		}
	}

	if m.state == analyticsStatePeriod {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m AnalyticsModel) View() string {
	if m.state == analyticsStatePeriod {
		return panelStyle.Render(m.picker.View())
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s: %s (%s ~ %s)", m.Title(), m.kind, m.rng.Start, m.rng.End)))
	fmt.Fprintf(&b, "\n\nTotal %s\n\n", FormatAmount(m.total))

	if len(m.breakdown) == 0 {
		b.WriteString(faintStyle.Render("No expenses in this period") + "\n")
	}

	for _, c := range m.breakdown {
		fmt.Fprintf(&b, "%-10s %s %3d%%  %s\n", CategoryLabel(c.Category), Bar(c.Percentage, 25), c.Percentage, FormatAmount(c.Total))
	}

	if len(m.monthly) > 0 {
		b.WriteString("\nMonthly totals\n")

		var peak int64
		for _, mt := range m.monthly {
			peak = max(peak, mt.Total)
		}

		for _, mt := range m.monthly {
			fmt.Fprintf(&b, "%-9s %s %s\n", FormatMonth(mt.Month), Bar(aggregate.Percentage(mt.Total, peak), 25), FormatAmount(mt.Total))
		}
	}

	return panelStyle.Render(b.String())
}

type analyticsMsg struct {
	total     int64
	breakdown []aggregate.CategoryShare
	monthly   []aggregate.MonthTotal
}

func (m AnalyticsModel) loadCmd(rng period.Range) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		all := m.svc.LoadExpenses(ctx)
		records := aggregate.FilterByDateRange(all, rng.Start, rng.End)

		monthly := aggregate.MonthlyTotals(all)
		monthly = monthly[max(0, len(monthly)-monthlyRows):]

		return analyticsMsg{
			total:     aggregate.Total(records),
			breakdown: aggregate.CategoryBreakdown(records),
			monthly:   monthly,
		}
	}
}
