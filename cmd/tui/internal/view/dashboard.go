package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/kakeibo/internal/aggregate"
	"github.com/MrJamesThe3rd/kakeibo/internal/expense"
)

type DashboardModel struct {
	CommonModel
	svc *expense.Service

	summary aggregate.Summary
	loaded  bool
}

func NewDashboardModel(svc *expense.Service) DashboardModel {
	return DashboardModel{svc: svc}
}

func (m DashboardModel) Title() string     { return "Dashboard" }
func (m DashboardModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardMsg:
		m.summary = msg.summary
		m.loaded = true
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadCmd()
		}
	}

	return m, nil
}

func (m DashboardModel) View() string {
	if !m.loaded {
		return panelStyle.Render("Loading...")
	}

	s := m.summary

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s (%s ~ %s)", m.Title(), s.Period.Start, s.Period.End)))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "This month:  %s  (%d expenses)\n", FormatAmount(s.MonthTotal), s.Count)
	fmt.Fprintf(&b, "Last month:  %s  %s\n", FormatAmount(s.LastMonth), faintStyle.Render(FormatPercent(s.ChangePercent)))

	b.WriteString("\n")
	b.WriteString(budgetLine(s.Budget))
	b.WriteString("\n\nTop categories\n")

	if len(s.TopCategories) == 0 {
		b.WriteString(faintStyle.Render("  no expenses this month") + "\n")
	}

	for _, c := range s.TopCategories {
		fmt.Fprintf(&b, "  %-10s %s %3d%%  %s\n", CategoryLabel(c.Category), Bar(c.Percentage, 20), c.Percentage, FormatAmount(c.Total))
	}

	b.WriteString("\nRecent\n")
	for _, e := range s.Recent {
		fmt.Fprintf(&b, "  %s  %-10s %10s  %s\n", e.Date, CategoryLabel(e.Category), FormatAmount(e.Amount), e.Memo)
	}

	return panelStyle.Render(b.String())
}

// budgetLine renders the budget gauge coloured by usage level.
func budgetLine(budget aggregate.Budget) string {
	if !budget.Set() {
		return faintStyle.Render("No monthly budget set")
	}

	color := lipgloss.Color("46")
	switch budget.Level {
	case aggregate.LevelWarning:
		color = lipgloss.Color("214")
	case aggregate.LevelOver:
		color = lipgloss.Color("196")
	}

	gauge := lipgloss.NewStyle().Foreground(color).Render(Bar(budget.UsagePercent, 30))

	return fmt.Sprintf("Budget %s  %s %d%%  remaining %s",
		FormatAmount(budget.Budget), gauge, budget.UsagePercent, FormatAmount(budget.Remaining))
}

type dashboardMsg struct {
	summary aggregate.Summary
}

func (m DashboardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		return dashboardMsg{summary: aggregate.Dashboard(m.svc.LoadExpenses(ctx), m.svc.LoadSettings(ctx), time.Now())}
	}
}
