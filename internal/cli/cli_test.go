package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/runwaylab/outcomes-lab-backend/pkg/config"
	"github.com/runwaylab/outcomes-lab-backend/pkg/logger"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return execute(t, NewRootCommand(), args...)
}

func execute(t *testing.T, root *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func sqliteArgs(t *testing.T) []string {
	t.Helper()
	return []string{"--driver", "sqlite", "--dsn", filepath.Join(t.TempDir(), "outcomes.db")}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "outcomesctl "), out)
}

func TestSeedPingAndExport(t *testing.T) {
	dbArgs := sqliteArgs(t)

	out, err := run(t, append([]string{"seed", "--users", "10", "--products", "5", "--orders", "20", "--seed", "3"}, dbArgs...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 10 users, 5 products, 20 orders")

	out, err = run(t, append([]string{"ping"}, dbArgs...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "database ok (sqlite)")
	assert.Contains(t, out, "users        10 rows")
	assert.Contains(t, out, "orders       20 rows")

	target := filepath.Join(t.TempDir(), "report.xlsx")
	out, err = run(t, append([]string{"export", "-o", target, "--limit", "3"}, dbArgs...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+target)

	book, err := excelize.OpenFile(target)
	require.NoError(t, err)
	defer book.Close()
	assert.Len(t, book.GetSheetList(), 8)
}

func TestSeedReadsConfigFileAndFlagsWin(t *testing.T) {
	dbArgs := sqliteArgs(t)
	cfgPath := filepath.Join(t.TempDir(), "outcomesctl.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("seed:\n  users: 3\n  products: 2\n  orders: 4\n"), 0o600))

	out, err := run(t, append([]string{"seed", "--config", cfgPath}, dbArgs...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 3 users, 2 products, 4 orders")

	out, err = run(t, append([]string{"seed", "--config", cfgPath, "--users", "6", "--reset"}, dbArgs...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 6 users, 2 products, 4 orders")
}

func TestMissingConfigFileFails(t *testing.T) {
	_, err := run(t, append([]string{"ping", "--config", filepath.Join(t.TempDir(), "nope.yaml")}, sqliteArgs(t)...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadReportsPerTable(t *testing.T) {
	dataDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "users.csv"),
		[]byte("id,first_name,age,country,created_at\n1,Ana,30,Brasil,2024-01-01 10:00:00\n2,Li,22,China,2024-02-01\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "products.csv"),
		[]byte("id,brand,department,category,retail_price\n10,Acme,Women,Tops,25.5\n"), 0o600))

	out, err := run(t, append([]string{"load", "--data-dir", dataDir}, sqliteArgs(t)...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "users        2 rows")
	assert.Contains(t, out, "products     1 rows")
	assert.Contains(t, out, "orders       skipped (file not found: ")
	assert.Contains(t, out, "order_items  skipped (file not found: ")
}

func TestLoadPrintsSkipReason(t *testing.T) {
	dataDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "users.csv"), nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "products.csv"), []byte("sku\nA1\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "orders.csv"), []byte("id,status\n1,Lost\n"), 0o600))

	out, err := run(t, append([]string{"load", "--data-dir", dataDir}, sqliteArgs(t)...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "users        skipped (file is empty: ")
	assert.Contains(t, out, "products     skipped (no known columns: ")
	assert.Contains(t, out, "unknown statuses: 1")
}

type fakeCache struct {
	cleared int
	err     error
	calls   int
	closed  bool
}

func (f *fakeCache) DeleteAnalytics(context.Context) (int, error) {
	f.calls++
	return f.cleared, f.err
}

func (f *fakeCache) Close() error {
	f.closed = true
	return nil
}

func runWithCache(t *testing.T, cache *fakeCache, args ...string) (string, error) {
	t.Helper()
	st := &state{
		v: viper.New(),
		openCache: func(context.Context, config.RedisConfig, *logger.Logger) (reportCache, error) {
			return cache, nil
		},
	}
	return execute(t, newRootCommand(st), args...)
}

func TestSeedAndLoadClearCachedReports(t *testing.T) {
	t.Setenv("OUTCOMES_REDIS_URL", "redis://cache.internal:6379/0")
	cache := &fakeCache{cleared: 4}
	dbArgs := sqliteArgs(t)

	out, err := runWithCache(t, cache, append([]string{"seed", "--users", "5", "--products", "3", "--orders", "6"}, dbArgs...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "cleared 4 cached reports")
	assert.Equal(t, 1, cache.calls)
	assert.True(t, cache.closed)

	dataDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "orders.csv"), []byte("id,status\n900,Complete\n"), 0o600))
	out, err = runWithCache(t, cache, append([]string{"load", "--data-dir", dataDir}, dbArgs...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "orders       1 rows")
	assert.Equal(t, 2, cache.calls)

	out, err = runWithCache(t, cache, append([]string{"load", "--data-dir", t.TempDir()}, dbArgs...)...)
	require.NoError(t, err)
	assert.NotContains(t, out, "cleared")
	assert.Equal(t, 2, cache.calls, "nothing loaded, nothing to clear")
}

func TestCacheFailureDoesNotFailSeed(t *testing.T) {
	t.Setenv("OUTCOMES_REDIS_URL", "redis://cache.internal:6379/0")
	cache := &fakeCache{err: errors.New("connection refused")}

	out, err := runWithCache(t, cache, append([]string{"seed", "--users", "2", "--products", "2", "--orders", "2"}, sqliteArgs(t)...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 2 users")
	assert.NotContains(t, out, "cleared")
	assert.Equal(t, 1, cache.calls)
	assert.True(t, cache.closed)
}

func TestSeedWithoutRedisSkipsCache(t *testing.T) {
	t.Setenv("OUTCOMES_REDIS_URL", "")
	t.Setenv("OUTCOMES_REDIS_ADDR", "")
	cache := &fakeCache{}
	_, err := runWithCache(t, cache, append([]string{"seed", "--users", "2", "--products", "2", "--orders", "2"}, sqliteArgs(t)...)...)
	require.NoError(t, err)
	assert.Zero(t, cache.calls)
}

func TestExportRejectsOutOfRangeLimit(t *testing.T) {
	_, err := run(t, append([]string{"export", "--limit", "0"}, sqliteArgs(t)...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--limit must be between 1 and 1000")
}
