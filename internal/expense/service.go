package expense

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
)

// Storage keys of the three persisted entries.
const (
	KeyExpenses   = "expenses"
	KeySettings   = "settings"
	KeySyncConfig = "syncConfig"
)

//go:generate mockgen -source=service.go -destination=backend_mock.go -package=expense
type Backend interface {
	// Get returns ErrKeyNotFound when the key was never written.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Service is the expense store: the only writer of persisted expenses, settings
// and sync config. Read failures degrade to defaults; write failures are returned
// wrapped in ErrPersist. Read-modify-write operations are serialised so concurrent
// callers in one process do not lose each other's writes.
type Service struct {
	mu      sync.Mutex
	backend Backend
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithIDGenerator replaces NewID.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

func NewService(backend Backend, opts ...Option) *Service {
	s := &Service{
		backend: backend,
		logger:  slog.Default(),
		now:     time.Now,
		newID:   NewID,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Confirmation carries the two answers required before ClearAll deletes anything.
type Confirmation struct {
	First  bool
	Second bool
}

// Confirmed reports whether both answers were affirmative.
func (c Confirmation) Confirmed() bool {
	return c.First && c.Second
}

// Init writes default settings and an empty collection when they are absent.
func (s *Service) Init(ctx context.Context) error {
	defaults := []struct {
		key   string
		value any
	}{
		{KeySettings, DefaultSettings()},
		{KeyExpenses, []Expense{}},
	}

	for _, d := range defaults {
		_, err := s.backend.Get(ctx, d.key)
		if err == nil {
			continue
		}

		if !errors.Is(err, ErrKeyNotFound) {
			return fmt.Errorf("reading %s: %w", d.key, err)
		}

		if err := s.write(ctx, d.key, d.value); err != nil {
			return err
		}
	}

	return nil
}

// LoadExpenses returns the persisted collection in stored order. It never fails:
// missing or corrupt data yields an empty collection.
func (s *Service) LoadExpenses(ctx context.Context) []Expense {
	var records []Expense
	if !s.read(ctx, KeyExpenses, &records) || records == nil {
		return []Expense{}
	}

	return records
}

// SaveExpenses replaces the whole persisted collection in a single write.
func (s *Service) SaveExpenses(ctx context.Context, records []Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveExpenses(ctx, records)
}

func (s *Service) saveExpenses(ctx context.Context, records []Expense) error {
	if records == nil {
		records = []Expense{}
	}

	return s.write(ctx, KeyExpenses, records)
}

// Add builds, appends and persists a new expense. Date and category must be present
// and amount non-zero; positivity and category membership are for the caller to check
// with CreateParams.Validate. When the write fails the built record is returned along
// with an ErrPersist error.
func (s *Service) Add(ctx context.Context, params CreateParams) (Expense, error) {
	if strings.TrimSpace(params.Date) == "" || strings.TrimSpace(params.Category) == "" || params.Amount == 0 {
		return Expense{}, fmt.Errorf("%w: date, category and amount are required", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.timestamp()
	e := Expense{
		ID:        s.newID(),
		Date:      params.Date,
		Category:  params.Category,
		Amount:    params.Amount,
		Memo:      SanitizeMemo(params.Memo),
		CreatedAt: now,
		UpdatedAt: now,
	}

	records := append(s.LoadExpenses(ctx), e)
	if err := s.saveExpenses(ctx, records); err != nil {
		return e, err
	}

	s.logger.DebugContext(ctx, "expense added", "id", e.ID, "category", e.Category, "amount", e.Amount)

	return e, nil
}

// Update merges patch over the expense with the given id and refreshes UpdatedAt.
// It returns false, without writing, when no such expense exists.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.LoadExpenses(ctx)

	idx := indexOf(records, id)
	if idx == -1 {
		return false, nil
	}

	patch.Apply(&records[idx])
	records[idx].UpdatedAt = s.touch(records[idx].CreatedAt)

	if err := s.saveExpenses(ctx, records); err != nil {
		return true, err
	}

	return true, nil
}

// Delete removes the expense with the given id. It returns false, without writing,
// when nothing matched.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.LoadExpenses(ctx)

	idx := indexOf(records, id)
	if idx == -1 {
		return false, nil
	}

	records = slices.Delete(records, idx, idx+1)
	if err := s.saveExpenses(ctx, records); err != nil {
		return true, err
	}

	return true, nil
}

func (s *Service) Get(ctx context.Context, id string) (Expense, bool) {
	records := s.LoadExpenses(ctx)

	idx := indexOf(records, id)
	if idx == -1 {
		return Expense{}, false
	}

	return records[idx], true
}

// ClearAll replaces the collection with an empty one. Nothing happens unless both
// confirmations are affirmative.
func (s *Service) ClearAll(ctx context.Context, c Confirmation) (bool, error) {
	if !c.Confirmed() {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.saveExpenses(ctx, []Expense{}); err != nil {
		return false, err
	}

	s.logger.InfoContext(ctx, "all expenses cleared")

	return true, nil
}

// Import appends candidates with freshly generated ids. Imported creation times are
// kept; missing ones are set to now. No de-duplication is performed.
func (s *Service) Import(ctx context.Context, items []Imported) (int, error) {
	if len(items) == 0 {
		return 0, ErrNoRecords
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.timestamp()
	records := s.LoadExpenses(ctx)

	for _, item := range items {
		createdAt := now
		if item.CreatedAt != nil {
			createdAt = item.CreatedAt.UTC()
		}

		updatedAt := now
		if updatedAt.Before(createdAt) {
			updatedAt = createdAt
		}

		records = append(records, Expense{
			ID:        s.newID(),
			Date:      item.Date,
			Category:  item.Category,
			Amount:    item.Amount,
			Memo:      SanitizeMemo(item.Memo),
			CreatedAt: createdAt,
			UpdatedAt: updatedAt,
		})
	}

	if err := s.saveExpenses(ctx, records); err != nil {
		return 0, err
	}

	s.logger.InfoContext(ctx, "expenses imported", "count", len(items))

	return len(items), nil
}

// LoadSettings returns the persisted settings, falling back to defaults for a missing
// or corrupt entry and for keys the stored object lacks.
func (s *Service) LoadSettings(ctx context.Context) Settings {
	settings := DefaultSettings()
	if !s.read(ctx, KeySettings, &settings) {
		return DefaultSettings()
	}

	if settings.CategoryBudgets == nil {
		settings.CategoryBudgets = map[string]int64{}
	}

	return settings
}

func (s *Service) SaveSettings(ctx context.Context, settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(ctx, KeySettings, settings)
}

// UpdateSettings shallow-merges patch over the stored settings and persists the result.
func (s *Service) UpdateSettings(ctx context.Context, patch SettingsPatch) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.LoadSettings(ctx)
	patch.Apply(&settings)

	return settings, s.write(ctx, KeySettings, settings)
}

func (s *Service) LoadSyncConfig(ctx context.Context) SyncConfig {
	cfg := DefaultSyncConfig()
	if !s.read(ctx, KeySyncConfig, &cfg) {
		return DefaultSyncConfig()
	}

	return cfg
}

func (s *Service) SaveSyncConfig(ctx context.Context, cfg SyncConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(ctx, KeySyncConfig, cfg)
}

// RecordSync stores the time of the last successful sync.
func (s *Service) RecordSync(ctx context.Context, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.LoadSyncConfig(ctx)
	at = at.UTC().Truncate(time.Millisecond)
	cfg.LastSyncTime = &at

	return s.write(ctx, KeySyncConfig, cfg)
}

// read decodes key into dst and reports whether it succeeded.
func (s *Service) read(ctx context.Context, key string, dst any) bool {
	data, err := s.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.logger.WarnContext(ctx, "failed to read stored data", "key", key, "error", err)
		}

		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.WarnContext(ctx, "stored data is corrupt, using defaults", "key", key, "error", err)
		return false
	}

	return true
}

func (s *Service) write(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encoding %s: %w", ErrPersist, key, err)
	}

	if err := s.backend.Set(ctx, key, data); err != nil {
		s.logger.WarnContext(ctx, "failed to persist data", "key", key, "error", err)
		return fmt.Errorf("%w: writing %s: %w", ErrPersist, key, err)
	}

	return nil
}

func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// touch returns the new UpdatedAt, never earlier than createdAt.
func (s *Service) touch(createdAt time.Time) time.Time {
	now := s.timestamp()
	if now.Before(createdAt) {
		return createdAt
	}

	return now
}

func indexOf(records []Expense, id string) int {
	return slices.IndexFunc(records, func(e Expense) bool { return e.ID == id })
}
