package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Storage drivers.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

var storageDrivers = []string{StorageMemory, StorageFile, StorageSQLite, StoragePostgres, StorageRedis}

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Kakeibo"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Storage struct {
		Driver    string `envconfig:"STORAGE_DRIVER" default:"file"`
		Dir       string `envconfig:"STORAGE_DIR" default:"data"`
		Path      string `envconfig:"STORAGE_PATH" default:"kakeibo.db"`
		KeyPrefix string `envconfig:"STORAGE_KEY_PREFIX" default:"kakeibo:"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"kakeibo"`
	}

	Redis struct {
		Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
		Password string `envconfig:"REDIS_PASSWORD" default:""`
		DB       int    `envconfig:"REDIS_DB" default:"0"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"*"`
		// AuthSecret enables bearer token auth on the API when set.
		AuthSecret string `envconfig:"AUTH_SECRET"`
	}

	Sync struct {
		Endpoint      string        `envconfig:"SYNC_ENDPOINT"`
		SpreadsheetID string        `envconfig:"SYNC_SPREADSHEET_ID"`
		Timeout       time.Duration `envconfig:"SYNC_TIMEOUT" default:"30s"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"text"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	if !slices.Contains(storageDrivers, c.Storage.Driver) {
		return fmt.Errorf("unknown storage driver %q: want one of %v", c.Storage.Driver, storageDrivers)
	}

	if c.Sync.Timeout <= 0 {
		return fmt.Errorf("sync timeout must be positive, got %s", c.Sync.Timeout)
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
