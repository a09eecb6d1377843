package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/kakeibo/internal/expense"
	"github.com/MrJamesThe3rd/kakeibo/internal/sheetsync"
)

const syncTimeout = time.Minute

type syncAction int

const (
	syncActionUpload syncAction = iota
	syncActionFetch
	syncActionTest
)

func (a syncAction) String() string {
	switch a {
	case syncActionUpload:
		return "Upload to sheet"
	case syncActionFetch:
		return "Import from sheet"
	case syncActionTest:
		return "Test connection"
	}

	return "Unknown"
}

var syncActions = []syncAction{syncActionUpload, syncActionFetch, syncActionTest}

type SyncModel struct {
	CommonModel
	syncService *sheetsync.Service
	svc         *expense.Service

	cursor  int
	running bool
	spinner spinner.Model
	status  string
	err     error
}

func NewSyncModel(syncSvc *sheetsync.Service, svc *expense.Service) SyncModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return SyncModel{syncService: syncSvc, svc: svc, spinner: s}
}

func (m SyncModel) Title() string     { return "Google Sheets Sync" }
func (m SyncModel) ShortHelp() string { return "Esc: back | Enter: run" }

func (m SyncModel) Init() tea.Cmd {
	return nil
}

func (m SyncModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case syncResultMsg:
		m.running = false
		m.err = msg.err
		m.status = msg.status
		return m, nil

	case tea.KeyMsg:
		if m.running {
			return m, nil
		}

		switch msg.Type {
		case tea.KeyEsc:
			return m, Back
		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
			}
		case tea.KeyDown:
			if m.cursor < len(syncActions)-1 {
				m.cursor++
			}
		case tea.KeyEnter:
			m.running = true
			m.status = ""
			m.err = nil
			return m, tea.Batch(m.spinner.Tick, m.runCmd(syncActions[m.cursor]))
		}

		return m, nil
	}

	if m.running {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m SyncModel) View() string {
	ctx, cancel := StoreCtx()
	defer cancel()

	last := "never"
	if cfg := m.svc.LoadSyncConfig(ctx); cfg.LastSyncTime != nil {
		last = cfg.LastSyncTime.Local().Format("2006-01-02 15:04")
	}

	s := titleStyle.Render(m.Title()) + "\n" + faintStyle.Render("Last sync: "+last) + "\n\n"
	for i, a := range syncActions {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		s += fmt.Sprintf("%s %s\n", cursor, a)
	}

	switch {
	case m.running:
		s += "\n" + m.spinner.View() + " Working..."
	case m.err != nil:
		s += "\n" + errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	case m.status != "":
		s += "\n" + successStyle.Render(m.status)
	}

	return panelStyle.Render(s)
}

type syncResultMsg struct {
	status string
	err    error
}

func (m SyncModel) runCmd(action syncAction) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		switch action {
		case syncActionUpload:
			result, err := m.syncService.Sync(ctx)
			if err != nil {
				return syncResultMsg{err: err}
			}
			return syncResultMsg{status: fmt.Sprintf("Uploaded %d expenses.", result.Count)}

		case syncActionFetch:
			items, err := m.syncService.Fetch(ctx)
			if err != nil {
				return syncResultMsg{err: err}
			}

			n, err := m.svc.Import(ctx, items)
			if err != nil {
				return syncResultMsg{err: err}
			}
			return syncResultMsg{status: fmt.Sprintf("Imported %d expenses from the sheet.", n)}

		case syncActionTest:
			if err := m.syncService.Test(ctx); err != nil {
				return syncResultMsg{err: err}
			}
			return syncResultMsg{status: "Connection OK."}
		}

		return syncResultMsg{}
	}
}
