package store_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/MrJamesThe3rd/kakeibo/internal/config"
	"github.com/MrJamesThe3rd/kakeibo/internal/database"
	"github.com/MrJamesThe3rd/kakeibo/internal/expense"
	"github.com/MrJamesThe3rd/kakeibo/internal/expense/store"
)

// BackendTestSuite runs the same contract against every Backend implementation.
type BackendTestSuite struct {
	suite.Suite
	newBackend func(t *testing.T) expense.Backend
	backend    expense.Backend
}

func (s *BackendTestSuite) SetupTest() {
	s.backend = s.newBackend(s.T())
}

func (s *BackendTestSuite) TestGetMissingKey() {
	_, err := s.backend.Get(context.Background(), "missing")
	s.ErrorIs(err, expense.ErrKeyNotFound)
}

func (s *BackendTestSuite) TestSetThenGet() {
	ctx := context.Background()

	s.Require().NoError(s.backend.Set(ctx, expense.KeyExpenses, []byte(`[{"id":"a"}]`)))

	got, err := s.backend.Get(ctx, expense.KeyExpenses)
	s.Require().NoError(err)
	s.JSONEq(`[{"id":"a"}]`, string(got))
}

func (s *BackendTestSuite) TestSetOverwrites() {
	ctx := context.Background()

	s.Require().NoError(s.backend.Set(ctx, expense.KeySettings, []byte(`{"darkMode":false}`)))
	s.Require().NoError(s.backend.Set(ctx, expense.KeySettings, []byte(`{"darkMode":true}`)))

	got, err := s.backend.Get(ctx, expense.KeySettings)
	s.Require().NoError(err)
	s.JSONEq(`{"darkMode":true}`, string(got))
}

func (s *BackendTestSuite) TestKeysAreIndependent() {
	ctx := context.Background()

	s.Require().NoError(s.backend.Set(ctx, expense.KeyExpenses, []byte(`[]`)))
	s.Require().NoError(s.backend.Set(ctx, expense.KeySyncConfig, []byte(`{"sheetName":"Expenses"}`)))

	got, err := s.backend.Get(ctx, expense.KeyExpenses)
	s.Require().NoError(err)
	s.Equal(`[]`, string(got))

	_, err = s.backend.Get(ctx, expense.KeySettings)
	s.ErrorIs(err, expense.ErrKeyNotFound)
}

func (s *BackendTestSuite) TestUnicodeValue() {
	ctx := context.Background()
	value := []byte(`[{"category":"食費","memo":"コンビニ &amp; カフェ"}]`)

	s.Require().NoError(s.backend.Set(ctx, expense.KeyExpenses, value))

	got, err := s.backend.Get(ctx, expense.KeyExpenses)
	s.Require().NoError(err)
	s.Equal(value, got)
}

// TestServiceRoundTrip drives the expense service end to end on the backend.
func (s *BackendTestSuite) TestServiceRoundTrip() {
	ctx := context.Background()
	svc := expense.NewService(s.backend)
	s.Require().NoError(svc.Init(ctx))

	added, err := svc.Add(ctx, expense.CreateParams{Date: "2024-06-15", Category: "食費", Amount: 1500, Memo: "ランチ"})
	s.Require().NoError(err)

	records := svc.LoadExpenses(ctx)
	s.Require().Len(records, 1)
	s.Equal(added.ID, records[0].ID)
	s.True(added.CreatedAt.Equal(records[0].CreatedAt))

	ok, err := svc.Delete(ctx, added.ID)
	s.Require().NoError(err)
	s.True(ok)
	s.Empty(svc.LoadExpenses(ctx))
}

func (s *BackendTestSuite) TestConcurrentAdds() {
	ctx := context.Background()
	svc := expense.NewService(s.backend)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Go(func() {
			_, err := svc.Add(ctx, expense.CreateParams{Date: "2024-06-01", Category: "食費", Amount: int64(i + 1)})
			s.NoError(err)
		})
	}
	wg.Wait()

	s.Len(svc.LoadExpenses(ctx), 20)
}

func TestMemory(t *testing.T) {
	suite.Run(t, &BackendTestSuite{
		newBackend: func(*testing.T) expense.Backend { return store.NewMemory() },
	})
}

func TestFile(t *testing.T) {
	suite.Run(t, &BackendTestSuite{
		newBackend: func(t *testing.T) expense.Backend {
			f, err := store.NewFile(filepath.Join(t.TempDir(), "data"))
			require.NoError(t, err)

			return f
		},
	})
}

func TestSQLite(t *testing.T) {
	suite.Run(t, &BackendTestSuite{
		newBackend: func(t *testing.T) expense.Backend {
			db, err := database.Open(database.DriverSQLite, filepath.Join(t.TempDir(), "kakeibo.db"))
			require.NoError(t, err)
			t.Cleanup(func() { db.Close() })

			return store.NewSQL(db, store.DialectSQLite)
		},
	})
}

// TestPostgres runs against a live server named by KAKEIBO_TEST_POSTGRES_DSN.
func TestPostgres(t *testing.T) {
	dsn := os.Getenv("KAKEIBO_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("KAKEIBO_TEST_POSTGRES_DSN not set")
	}

	suite.Run(t, &BackendTestSuite{
		newBackend: func(t *testing.T) expense.Backend {
			db, err := database.Open(database.DriverPostgres, dsn)
			require.NoError(t, err)
			t.Cleanup(func() { db.Close() })

			_, err = db.Exec("DELETE FROM kv_entries")
			require.NoError(t, err)

			return store.NewSQL(db, store.DialectPostgres)
		},
	})
}

func TestRedis(t *testing.T) {
	suite.Run(t, &BackendTestSuite{
		newBackend: func(t *testing.T) expense.Backend {
			mr := miniredis.RunT(t)
			client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			t.Cleanup(func() { client.Close() })

			return store.NewRedis(client, "kakeibo:")
		},
	})
}

func TestRedis_Prefix(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	b := store.NewRedis(client, "kakeibo:")

	require.NoError(t, b.Set(ctx, expense.KeyExpenses, []byte(`[]`)))

	got, err := mr.Get("kakeibo:expenses")
	require.NoError(t, err)
	assert.Equal(t, `[]`, got)
}

func TestOpen(t *testing.T) {
	mr := miniredis.RunT(t)

	type testCase struct {
		name    string
		setup   func(cfg *config.Config)
		wantErr bool
	}

	tests := []testCase{
		{name: "Memory", setup: func(cfg *config.Config) { cfg.Storage.Driver = config.StorageMemory }},
		{name: "File", setup: func(cfg *config.Config) { cfg.Storage.Driver = config.StorageFile }},
		{name: "SQLite", setup: func(cfg *config.Config) { cfg.Storage.Driver = config.StorageSQLite }},
		{
			name: "Redis",
			setup: func(cfg *config.Config) {
				cfg.Storage.Driver = config.StorageRedis
				cfg.Redis.Addr = mr.Addr()
			},
		},
		{name: "Unknown", setup: func(cfg *config.Config) { cfg.Storage.Driver = "mongo" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Storage.Dir = t.TempDir()
			cfg.Storage.Path = "kakeibo.db"
			cfg.Storage.KeyPrefix = "test:"
			tt.setup(cfg)

			backend, closeFn, err := store.Open(context.Background(), cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			t.Cleanup(func() { _ = closeFn() })

			svc := expense.NewService(backend)
			require.NoError(t, svc.Init(context.Background()))
			assert.Equal(t, expense.DefaultSettings(), svc.LoadSettings(context.Background()))
		})
	}
}
