package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"profitdash/internal/catalog"
	"profitdash/internal/profit"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const defaultCacheTTL = 24 * time.Hour

type Config struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	// MaxElapsedTime bounds connection retries; zero means two minutes.
	MaxElapsedTime time.Duration
}

// Cache is the key/value store product lines are cached in.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// CatalogStore keeps product line configurations in a SQL database, with an
// optional cache in front of reads.
type CatalogStore struct {
	db       *sqlx.DB
	cache    Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

type productLineRow struct {
	Name      string    `db:"name"`
	Title     string    `db:"title"`
	Config    string    `db:"config"`
	Revision  int       `db:"revision"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Open connects with exponential backoff and configures the pool.
func Open(ctx context.Context, cfg Config, cache Cache, logger *zap.Logger) (*CatalogStore, error) {
	const operation = "storage.Open"

	if cfg.Driver == "" {
		cfg.Driver = DriverPostgres
	}

	var db *sqlx.DB
	var err error

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = 2 * time.Minute
	if cfg.MaxElapsedTime > 0 {
		retryPolicy.MaxElapsedTime = cfg.MaxElapsedTime
	}
	retryPolicy.MaxInterval = 15 * time.Second

	logger.Info("Connecting to catalog database...", zap.String("driver", cfg.Driver))

	err = backoff.RetryNotify(
		func() error {
			db, err = sqlx.ConnectContext(ctx, cfg.Driver, cfg.DSN)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}

			if err = db.PingContext(ctx); err != nil {
				_ = db.Close()
				return fmt.Errorf("ping: %w", err)
			}
			return nil
		},
		backoff.WithContext(retryPolicy, ctx),
		func(err error, duration time.Duration) {
			logger.Warn("Catalog database connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", duration))
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect after retries: %w", operation, err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	logger.Info("Successfully connected to catalog database")
	return New(db, cache, logger), nil
}

// New wraps an open connection. cache may be nil.
func New(db *sqlx.DB, cache Cache, logger *zap.Logger) *CatalogStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogStore{db: db, cache: cache, cacheTTL: defaultCacheTTL, logger: logger}
}

// WithCacheTTL sets how long cached product lines live.
func (s *CatalogStore) WithCacheTTL(ttl time.Duration) *CatalogStore {
	if ttl > 0 {
		s.cacheTTL = ttl
	}
	return s
}

// DB exposes the underlying connection for migrations.
func (s *CatalogStore) DB() *sqlx.DB { return s.db }

func cacheKey(name string) string {
	return fmt.Sprintf("product_line:%s", name)
}

// Get returns a product line, reading through the cache.
func (s *CatalogStore) Get(ctx context.Context, name string) (profit.ProductLine, error) {
	const operation = "storage.Get"

	key := cacheKey(name)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var line profit.ProductLine
			if err := json.Unmarshal(cached, &line); err == nil {
				return line, nil
			}
		}
	}

	query := s.db.Rebind(`SELECT name, title, config, revision, created_at, updated_at FROM product_lines WHERE name = ?`)

	var row productLineRow
	if err := s.db.GetContext(ctx, &row, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return profit.ProductLine{}, fmt.Errorf("%s: %q: %w", operation, name, catalog.ErrNotFound)
		}
		return profit.ProductLine{}, fmt.Errorf("%s: failed to get product line: %w", operation, err)
	}

	var line profit.ProductLine
	if err := json.Unmarshal([]byte(row.Config), &line); err != nil {
		return profit.ProductLine{}, fmt.Errorf("%s: decode %q: %w", operation, name, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, []byte(row.Config), s.cacheTTL); err != nil {
			s.logger.Warn("Failed to cache product line", zap.String("name", name), zap.Error(err))
		}
	}
	return line, nil
}

// Save validates and upserts a product line, bumping its revision.
func (s *CatalogStore) Save(ctx context.Context, line profit.ProductLine) error {
	const operation = "storage.Save"

	if err := catalog.Validate(line); err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	data, err := json.Marshal(line)
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", operation, err)
	}

	query := s.db.Rebind(`
		INSERT INTO product_lines (name, title, config, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (name) DO UPDATE SET
			title = excluded.title,
			config = excluded.config,
			revision = product_lines.revision + 1,
			updated_at = CURRENT_TIMESTAMP
	`)
	if _, err := s.db.ExecContext(ctx, query, line.Name, line.Title, string(data)); err != nil {
		return fmt.Errorf("%s: failed to save product line: %w", operation, err)
	}

	s.invalidate(ctx, line.Name)
	s.logger.Info("Saved product line", zap.String("name", line.Name))
	return nil
}

// Delete removes a product line.
func (s *CatalogStore) Delete(ctx context.Context, name string) error {
	const operation = "storage.Delete"

	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM product_lines WHERE name = ?`), name)
	if err != nil {
		return fmt.Errorf("%s: failed to delete product line: %w", operation, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %q: %w", operation, name, catalog.ErrNotFound)
	}

	s.invalidate(ctx, name)
	return nil
}

// ProductLineInfo is a catalog listing entry.
type ProductLineInfo struct {
	Name      string    `db:"name"`
	Title     string    `db:"title"`
	Revision  int       `db:"revision"`
	UpdatedAt time.Time `db:"updated_at"`
}

// List returns every stored product line, sorted by name.
func (s *CatalogStore) List(ctx context.Context) ([]ProductLineInfo, error) {
	const query = `SELECT name, title, revision, updated_at FROM product_lines ORDER BY name`

	var out []ProductLineInfo
	if err := s.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("storage.List: failed to list product lines: %w", err)
	}
	return out, nil
}

// Seed stores every line not yet present.
func (s *CatalogStore) Seed(ctx context.Context, lines ...profit.ProductLine) (int, error) {
	existing, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	have := make(map[string]bool, len(existing))
	for _, e := range existing {
		have[e.Name] = true
	}

	added := 0
	for _, l := range lines {
		if have[l.Name] {
			continue
		}
		if err := s.Save(ctx, l); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

func (s *CatalogStore) invalidate(ctx context.Context, name string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKey(name)); err != nil {
		s.logger.Warn("Failed to invalidate cached product line", zap.String("name", name), zap.Error(err))
	}
}

func (s *CatalogStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
