package expense

import (
	"fmt"
	"maps"
	"time"

	"golang.org/x/text/currency"
)

// Settings are the process-wide user preferences.
type Settings struct {
	DarkMode      bool  `json:"darkMode"`
	MonthlyBudget int64 `json:"monthlyBudget"` // 0 means unset
	// CategoryBudgets is stored and round-tripped; no aggregation reads it yet.
	CategoryBudgets map[string]int64 `json:"categoryBudgets"`
	AutoSync        bool             `json:"autoSync"`
	SyncInterval    int64            `json:"syncInterval"` // milliseconds
	Currency        string           `json:"currency"`
	DateFormat      string           `json:"dateFormat"`
}

// DefaultSettings returns the settings written on first run.
func DefaultSettings() Settings {
	return Settings{
		DarkMode:        false,
		MonthlyBudget:   0,
		CategoryBudgets: map[string]int64{},
		AutoSync:        false,
		SyncInterval:    300000,
		Currency:        "JPY",
		DateFormat:      "YYYY-MM-DD",
	}
}

// SettingsPatch lists the settable settings. Nil fields keep their previous value.
type SettingsPatch struct {
	DarkMode        *bool            `json:"darkMode,omitempty"`
	MonthlyBudget   *int64           `json:"monthlyBudget,omitempty"`
	CategoryBudgets map[string]int64 `json:"categoryBudgets,omitempty"`
	AutoSync        *bool            `json:"autoSync,omitempty"`
	SyncInterval    *int64           `json:"syncInterval,omitempty"`
	Currency        *string          `json:"currency,omitempty"`
	DateFormat      *string          `json:"dateFormat,omitempty"`
}

// Validate rejects values the settings can never hold.
func (p SettingsPatch) Validate() error {
	if p.MonthlyBudget != nil && *p.MonthlyBudget < 0 {
		return fmt.Errorf("%w: monthly budget must not be negative", ErrInvalidInput)
	}

	for name, budget := range p.CategoryBudgets {
		if budget < 0 {
			return fmt.Errorf("%w: budget for %q must not be negative", ErrInvalidInput, name)
		}
	}

	if p.SyncInterval != nil && *p.SyncInterval <= 0 {
		return fmt.Errorf("%w: sync interval must be positive", ErrInvalidInput)
	}

	if p.Currency != nil {
		if _, err := currency.ParseISO(*p.Currency); err != nil {
			return fmt.Errorf("%w: currency %q: %v", ErrInvalidInput, *p.Currency, err)
		}
	}

	return nil
}

// Apply is a shallow merge: CategoryBudgets, when present, replaces the whole map.
func (p SettingsPatch) Apply(s *Settings) {
	if p.DarkMode != nil {
		s.DarkMode = *p.DarkMode
	}

	if p.MonthlyBudget != nil {
		s.MonthlyBudget = *p.MonthlyBudget
	}

	if p.CategoryBudgets != nil {
		s.CategoryBudgets = maps.Clone(p.CategoryBudgets)
	}

	if p.AutoSync != nil {
		s.AutoSync = *p.AutoSync
	}

	if p.SyncInterval != nil {
		s.SyncInterval = *p.SyncInterval
	}

	if p.Currency != nil {
		s.Currency = *p.Currency
	}

	if p.DateFormat != nil {
		s.DateFormat = *p.DateFormat
	}
}

// SyncConfig is the metadata of the external spreadsheet sync.
type SyncConfig struct {
	SpreadsheetID string     `json:"spreadsheetId"`
	SheetName     string     `json:"sheetName"`
	LastSyncTime  *time.Time `json:"lastSyncTime"`
	SyncEnabled   bool       `json:"syncEnabled"`
}

// DefaultSyncConfig returns the sync config used before anything was saved.
func DefaultSyncConfig() SyncConfig {
	return SyncConfig{SheetName: "Expenses"}
}
