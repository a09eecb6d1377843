package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/kakeibo/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/kakeibo/internal/config"
	"github.com/MrJamesThe3rd/kakeibo/internal/expense"
	"github.com/MrJamesThe3rd/kakeibo/internal/expense/store"
	"github.com/MrJamesThe3rd/kakeibo/internal/export"
	"github.com/MrJamesThe3rd/kakeibo/internal/importer"
	"github.com/MrJamesThe3rd/kakeibo/internal/logging"
	"github.com/MrJamesThe3rd/kakeibo/internal/sheetsync"
)

type model struct {
	expenseService *expense.Service
	importService  *importer.Service
	exportService  *export.Service
	syncService    *sheetsync.Service

	currentView View
	active      view.View
}

type View int

const (
	ViewMenu      View = 0
	ViewDashboard View = 1
	ViewAdd       View = 2
	ViewList      View = 3
	ViewAnalytics View = 4
	ViewSettings  View = 5
	ViewImport    View = 6
	ViewExport    View = 7
	ViewSync      View = 8
	ViewClear     View = 9
)

var menuKeys = map[string]View{
	"1": ViewDashboard,
	"2": ViewAdd,
	"3": ViewList,
	"4": ViewAnalytics,
	"5": ViewSettings,
	"6": ViewImport,
	"7": ViewExport,
	"8": ViewSync,
	"9": ViewClear,
}

func initialModel() (model, func()) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs go to a file.
	logFile, err := tea.LogToFile(filepath.Join(os.TempDir(), "kakeibo-tui.log"), "kakeibo")
	if err != nil {
		slog.Error("failed to open log file", "error", err)
		os.Exit(1)
	}

	logger := logging.New(logFile, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	ctx := context.Background()

	backend, closeBackend, err := store.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}

	expSvc := expense.NewService(backend, expense.WithLogger(logging.WithComponent(logger, logging.ComponentStorage)))
	if err := expSvc.Init(ctx); err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}

	syncSvc := sheetsync.NewService(
		sheetsync.NewClient(cfg.Sync.Endpoint, cfg.Sync.Timeout),
		expSvc,
		cfg.Sync.SpreadsheetID,
		logging.WithComponent(logger, logging.ComponentSync),
	)

	cleanup := func() {
		_ = closeBackend()
		_ = logFile.Close()
	}

	return model{
		expenseService: expSvc,
		importService:  importer.NewService(),
		exportService:  export.NewService(expSvc),
		syncService:    syncSvc,
		currentView:    ViewMenu,
	}, cleanup
}

// open builds a fresh screen so each visit reloads from storage.
func (m model) open(v View) view.View {
	switch v {
	case ViewDashboard:
		return view.NewDashboardModel(m.expenseService)
	case ViewAdd:
		return view.NewAddModel(m.expenseService)
	case ViewList:
		return view.NewListModel(m.expenseService)
	case ViewAnalytics:
		return view.NewAnalyticsModel(m.expenseService)
	case ViewSettings:
		return view.NewSettingsModel(m.expenseService)
	case ViewImport:
		return view.NewImportModel(m.expenseService, m.importService)
	case ViewExport:
		return view.NewExportModel(m.exportService)
	case ViewSync:
		return view.NewSyncModel(m.syncService, m.expenseService)
	case ViewClear:
		return view.NewClearModel(m.expenseService)
	}

	return nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			if msg.String() == "q" {
				return m, tea.Quit
			}

			if v, ok := menuKeys[msg.String()]; ok {
				m.currentView = v
				m.active = m.open(v)

				return m, m.active.Init()
			}

			return m, nil
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		m.active = nil

		return m, nil
	}

	if m.active == nil {
		return m, nil
	}

	newModel, cmd := m.active.Update(msg)
	if v, ok := newModel.(view.View); ok {
		m.active = v
	}

	return m, cmd
}

func (m model) View() string {
	if m.currentView == ViewMenu || m.active == nil {
		return lipgloss.NewStyle().Padding(2).Render(
			"家計簿 Kakeibo\n\n" +
				"1. Dashboard\n" +
				"2. Add Expense\n" +
				"3. List Expenses\n" +
				"4. Analytics\n" +
				"5. Budget & Settings\n" +
				"6. Import\n" +
				"7. Export\n" +
				"8. Sheets Sync\n" +
				"9. Clear All Data\n\n" +
				"q. Quit",
		)
	}

	help := lipgloss.NewStyle().Faint(true).Render(m.active.ShortHelp())

	return m.active.View() + "\n" + lipgloss.NewStyle().PaddingLeft(1).Render(help)
}

func main() {
	m, cleanup := initialModel()
	defer cleanup()

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
