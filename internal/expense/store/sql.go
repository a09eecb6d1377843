package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MrJamesThe3rd/kakeibo/internal/expense"
)

const table = "kv_entries"

// Dialect selects the placeholder format of the generated SQL.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// SQL keeps each key as one row of the kv_entries table.
type SQL struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

func NewSQL(db *sql.DB, dialect Dialect) *SQL {
	var format sq.PlaceholderFormat = sq.Question
	if dialect == DialectPostgres {
		format = sq.Dollar
	}

	return &SQL{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(format),
	}
}

var _ expense.Backend = (*SQL)(nil)

func (s *SQL) Get(ctx context.Context, key string) ([]byte, error) {
	query, args, err := s.builder.
		Select("entry_value").
		From(table).
		Where(sq.Eq{"entry_key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select: %w", err)
	}

	var value string
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, expense.ErrKeyNotFound
		}

		return nil, fmt.Errorf("getting %s: %w", key, err)
	}

	return []byte(value), nil
}

func (s *SQL) Set(ctx context.Context, key string, value []byte) error {
	query, args, err := s.builder.
		Insert(table).
		Columns("entry_key", "entry_value", "updated_at").
		Values(key, string(value), time.Now().UTC()).
		Suffix("ON CONFLICT (entry_key) DO UPDATE SET entry_value = excluded.entry_value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("building upsert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}

	return nil
}
