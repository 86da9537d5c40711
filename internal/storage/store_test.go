package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"profitdash/internal/catalog"
	"profitdash/internal/profit"
)

var errMiss = errors.New("cache miss")

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
	hits int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.data[key]
	if !ok {
		return nil, errMiss
	}
	c.hits++
	return v, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func (c *memCache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func newTestStore(t *testing.T, cache Cache) *CatalogStore {
	t.Helper()
	ctx := context.Background()

	db, err := sqlx.Open(DriverSQLite, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(ctx, db.DB, DriverSQLite, zap.NewNop()))
	return New(db, cache, zap.NewNop())
}

func TestCatalogStoreSaveGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	require.NoError(t, s.Save(ctx, catalog.GleamontLine()))

	line, err := s.Get(ctx, catalog.Gleamont)
	require.NoError(t, err)
	assert.Equal(t, catalog.GleamontLine(), line)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestCatalogStoreUpsertBumpsRevision(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	line := catalog.YevivoLine()
	require.NoError(t, s.Save(ctx, line))
	line.Title = "Yevivo AU/UK"
	require.NoError(t, s.Save(ctx, line))

	infos, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "Yevivo AU/UK", infos[0].Title)
	assert.Equal(t, 2, infos[0].Revision)
}

func TestCatalogStoreRejectsInvalid(t *testing.T) {
	s := newTestStore(t, nil)

	line := catalog.RhomsLine()
	line.Primary = profit.PrimaryMatcher{}
	assert.Error(t, s.Save(context.Background(), line))
}

func TestCatalogStoreCache(t *testing.T) {
	ctx := context.Background()
	cache := newMemCache()
	s := newTestStore(t, cache).WithCacheTTL(time.Hour)

	require.NoError(t, s.Save(ctx, catalog.RhomsLine()))

	_, err := s.Get(ctx, catalog.Rhoms)
	require.NoError(t, err)
	assert.Equal(t, 0, cache.hits)

	line, err := s.Get(ctx, catalog.Rhoms)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, catalog.RhomsLine().Costs, line.Costs)

	updated := catalog.RhomsLine()
	updated.DefaultFXRate = 1.27
	require.NoError(t, s.Save(ctx, updated))
	assert.Empty(t, cache.data)

	line, err = s.Get(ctx, catalog.Rhoms)
	require.NoError(t, err)
	assert.Equal(t, 1.27, line.DefaultFXRate)
}

func TestCatalogStoreSeedAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	b := catalog.Builtin()
	lines := make([]profit.ProductLine, 0, len(b))
	for _, name := range b.Names() {
		lines = append(lines, b[name])
	}

	added, err := s.Seed(ctx, lines...)
	require.NoError(t, err)
	assert.Equal(t, 3, added)

	added, err = s.Seed(ctx, lines...)
	require.NoError(t, err)
	assert.Zero(t, added)

	require.NoError(t, s.Delete(ctx, catalog.Yevivo))
	assert.ErrorIs(t, s.Delete(ctx, catalog.Yevivo), catalog.ErrNotFound)

	infos, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, infos, 2)
}

func TestCatalogStoreInChain(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	custom := catalog.YevivoLine()
	custom.Name = "yevivo-eu"
	require.NoError(t, s.Save(ctx, custom))

	chain := catalog.Chain{s, catalog.Builtin()}
	line, err := chain.Get(ctx, "yevivo-eu")
	require.NoError(t, err)
	assert.Equal(t, "yevivo-eu", line.Name)

	line, err = chain.Get(ctx, catalog.Rhoms)
	require.NoError(t, err)
	assert.Equal(t, "GBP", line.StoreCurrency)
}

func TestMigrationsRollback(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	v, err := Version(ctx, s.DB().DB, DriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	require.NoError(t, RollbackMigration(ctx, s.DB().DB, DriverSQLite, zap.NewNop()))
	v, err = Version(ctx, s.DB().DB, DriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestOpenSQLite(t *testing.T) {
	s, err := Open(context.Background(), Config{Driver: DriverSQLite, DSN: ":memory:", MaxOpenConns: 1}, nil, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Close())
}
