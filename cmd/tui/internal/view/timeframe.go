package view

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/kakeibo/internal/period"
)

// PeriodSelectedMsg is emitted when the user picks an analytics window.
type PeriodSelectedMsg struct {
	Kind  period.Kind
	Range period.Range
}

// PeriodPicker is a reusable component for selecting a predefined window.
type PeriodPicker struct {
	kinds  []period.Kind
	cursor int
	now    func() time.Time
}

func NewPeriodPicker() PeriodPicker {
	kinds := period.Kinds()

	return PeriodPicker{
		kinds:  kinds,
		cursor: 1, // this month
		now:    time.Now,
	}
}

func (m PeriodPicker) Init() tea.Cmd {
	return nil
}

func (m PeriodPicker) Update(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyDown:
		if m.cursor < len(m.kinds)-1 {
			m.cursor++
		}
	case tea.KeyEnter:
		kind := m.kinds[m.cursor]
		rng := period.Resolve(kind, m.now())

		return m, func() tea.Msg {
			return PeriodSelectedMsg{Kind: kind, Range: rng}
		}
	}

	return m, nil
}

func (m PeriodPicker) View() string {
	s := "Select Period:\n\n"
	for i, k := range m.kinds {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		s += fmt.Sprintf("%s %s\n", cursor, k.String())
	}
	s += "\n(Enter to select, Esc to back)"

	return s
}

// Selected returns the highlighted kind.
func (m PeriodPicker) Selected() period.Kind {
	return m.kinds[m.cursor]
}
