package view

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"golang.org/x/text/currency"

	"github.com/MrJamesThe3rd/kakeibo/internal/expense"
)

type settingsValues struct {
	Budget   string
	DarkMode bool
	Currency string
}

type SettingsModel struct {
	CommonModel
	svc *expense.Service

	values *settingsValues
	form   *huh.Form
	status string
	err    error
}

func NewSettingsModel(svc *expense.Service) SettingsModel {
	ctx, cancel := StoreCtx()
	defer cancel()

	current := svc.LoadSettings(ctx)
	values := &settingsValues{
		Budget:   strconv.FormatInt(current.MonthlyBudget, 10),
		DarkMode: current.DarkMode,
		Currency: current.Currency,
	}

	return SettingsModel{
		svc:    svc,
		values: values,
		form:   newSettingsForm(values),
	}
}

func newSettingsForm(v *settingsValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("budget").
				Title("Monthly Budget (¥)").
				Description("0 disables the budget").
				Value(&v.Budget).
				Validate(func(s string) error {
					n, err := expense.ParseAmount(s)
					if err != nil || n < 0 {
						return fmt.Errorf("budget must be a non-negative whole number")
					}
					return nil
				}),

			huh.NewInput().
				Key("currency").
				Title("Currency").
				Placeholder("JPY").
				Value(&v.Currency).
				Validate(func(s string) error {
					if _, err := currency.ParseISO(strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("unknown ISO 4217 code")
					}
					return nil
				}),

			huh.NewConfirm().
				Key("dark_mode").
				Title("Dark Mode").
				Value(&v.DarkMode),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m SettingsModel) Title() string     { return "Budget & Settings" }
func (m SettingsModel) ShortHelp() string { return "Esc: back | Enter: next field" }

func (m SettingsModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

	case settingsSavedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = fmt.Sprintf("Saved. Monthly budget %s", FormatAmount(msg.settings.MonthlyBudget))
		}

		m.form = newSettingsForm(m.values)
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

func (m SettingsModel) View() string {
	content := titleStyle.Render(m.Title()) + "\n\n" + m.form.View()

	if m.err != nil {
		content += "\n" + errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	} else if m.status != "" {
		content += "\n" + successStyle.Render(m.status)
	}

	return panelStyle.Render(content)
}

type settingsSavedMsg struct {
	settings expense.Settings
	err      error
}

func (m SettingsModel) saveCmd() tea.Cmd {
	values := *m.values

	return func() tea.Msg {
		budget, err := expense.ParseAmount(values.Budget)
		if err != nil {
			return settingsSavedMsg{err: err}
		}

		code := strings.ToUpper(strings.TrimSpace(values.Currency))
		patch := expense.SettingsPatch{
			MonthlyBudget: &budget,
			DarkMode:      &values.DarkMode,
			Currency:      &code,
		}

		if err := patch.Validate(); err != nil {
			return settingsSavedMsg{err: err}
		}

		ctx, cancel := StoreCtx()
		defer cancel()

		settings, err := m.svc.UpdateSettings(ctx, patch)
		return settingsSavedMsg{settings: settings, err: err}
	}
}
