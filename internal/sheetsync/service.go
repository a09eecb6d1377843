package sheetsync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/MrJamesThe3rd/kakeibo/internal/expense"
	"github.com/MrJamesThe3rd/kakeibo/internal/importer"
)

// ErrInProgress is returned when a sync is requested while another is running.
var ErrInProgress = errors.New("sync already in progress")

// Store is the part of the expense store the sync needs.
type Store interface {
	LoadExpenses(ctx context.Context) []expense.Expense
	LoadSyncConfig(ctx context.Context) expense.SyncConfig
	RecordSync(ctx context.Context, at time.Time) error
}

// Result describes a successful sync.
type Result struct {
	Count    int       `json:"count"`
	Message  string    `json:"message"`
	SyncedAt time.Time `json:"syncedAt"`
}

type Service struct {
	client        *Client
	store         Store
	spreadsheetID string
	logger        *slog.Logger
	now           func() time.Time

	mu sync.Mutex
}

// NewService syncs through client. spreadsheetID is used when the stored sync
// config names none.
func NewService(client *Client, store Store, spreadsheetID string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		client:        client,
		store:         store,
		spreadsheetID: spreadsheetID,
		logger:        logger,
		now:           time.Now,
	}
}

// Sync uploads the current collection and records the sync time on success.
// On failure local state is left untouched.
func (s *Service) Sync(ctx context.Context) (Result, error) {
	if !s.mu.TryLock() {
		return Result{}, ErrInProgress
	}
	defer s.mu.Unlock()

	records := s.store.LoadExpenses(ctx)

	resp, err := s.client.Sync(ctx, s.sheetID(ctx), records)
	if err != nil {
		s.logger.WarnContext(ctx, "sync failed", "count", len(records), "error", err)
		return Result{}, fmt.Errorf("syncing expenses: %w", err)
	}

	at := s.now()
	if err := s.store.RecordSync(ctx, at); err != nil {
		return Result{}, fmt.Errorf("recording sync: %w", err)
	}

	s.logger.InfoContext(ctx, "expenses synced", "count", len(records))

	return Result{Count: len(records), Message: resp.Message, SyncedAt: at}, nil
}

// Fetch reads the rows stored in the sheet as import candidates.
func (s *Service) Fetch(ctx context.Context) ([]expense.Imported, error) {
	resp, err := s.client.Fetch(ctx, s.sheetID(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetching expenses: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, importer.ErrNoRows
	}

	items, err := importer.NewJSON().Parse(bytes.NewReader(resp.Data))
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, importer.ErrNoRows
	}

	return items, nil
}

func (s *Service) Test(ctx context.Context) error {
	return s.client.Test(ctx)
}

func (s *Service) sheetID(ctx context.Context) string {
	if id := s.store.LoadSyncConfig(ctx).SpreadsheetID; id != "" {
		return id
	}

	return s.spreadsheetID
}
