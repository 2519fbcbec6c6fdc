package postgres_test

import (
	"context"
	"math"
	"os"
	"sync"
	"testing"
	"time"

	"ratehub/internal/adapters/postgres"
	"ratehub/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	tcpg "github.com/testcontainers/testcontainers-go/modules/postgres"
)

const migrationsDir = "../../platform/db/migrations"

var (
	pgSetupOnce sync.Once

	pgContainer *tcpg.PostgresContainer
	pgConnStr   string
)

func TestMain(m *testing.M) {
	code := m.Run()
	if pgContainer != nil {
		_ = pgContainer.Terminate(context.Background())
	}
	os.Exit(code)
}

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pgSetupOnce.Do(func() {
		startPostgres(t)
	})

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, pgConnStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	require.NoError(t, resetDatabase(ctx, pool))

	return pool
}

func startPostgres(t *testing.T) {
	ctx := context.Background()
	pg, err := tcpg.Run(ctx,
		"postgres:16-alpine",
		tcpg.WithDatabase("postgres"),
		tcpg.WithUsername("postgres"),
		tcpg.WithPassword("postgres"),
	)
	require.NoError(t, err)

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := goose.OpenDBWithDriver("pgx", dsn)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.Eventually(t, func() bool {
		pingCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return db.PingContext(pingCtx) == nil
	}, 15*time.Second, 500*time.Millisecond)

	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.UpContext(ctx, db, migrationsDir))

	pgContainer = pg
	pgConnStr = dsn
}

func resetDatabase(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `truncate table exchange_rates, exchange_rates_history restart identity`); err != nil {
		return err
	}
	return nil
}

func TestRateStore_UpsertLatest_InsertThenOverwrite(t *testing.T) {
	pool := setupPostgres(t)
	store := postgres.NewRateStore(pool)
	ctx := context.Background()

	first := time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC)
	require.NoError(t, store.UpsertLatest(ctx, "EUR", map[string]float64{"USD": 1.08, "GBP": 0.85}, first))

	second := first.Add(time.Hour)
	require.NoError(t, store.UpsertLatest(ctx, "EUR", map[string]float64{"USD": 1.09, "GBP": 0.86}, second))

	// One row per pair, carrying the newest value and timestamp.
	rates, err := store.GetLatest(ctx, "EUR")
	require.NoError(t, err)
	require.Len(t, rates, 2)
	require.Equal(t, "GBP", rates[0].Target)
	require.InDelta(t, 0.86, rates[0].Value, 1e-9)
	require.Equal(t, "USD", rates[1].Target)
	require.InDelta(t, 1.09, rates[1].Value, 1e-9)
	require.True(t, rates[0].UpdatedAt.Equal(second))
}

func TestRateStore_UpsertLatest_EmptyRatesNoop(t *testing.T) {
	pool := setupPostgres(t)
	store := postgres.NewRateStore(pool)
	ctx := context.Background()

	require.NoError(t, store.UpsertLatest(ctx, "EUR", map[string]float64{}, time.Now().UTC()))

	count, err := store.CountLatest(ctx, "EUR")
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestRateStore_UpsertLatest_NaNValue_Error(t *testing.T) {
	pool := setupPostgres(t)
	store := postgres.NewRateStore(pool)
	ctx := context.Background()

	err := store.UpsertLatest(ctx, "EUR", map[string]float64{"USD": math.NaN()}, time.Now().UTC())
	require.Error(t, err)
}

func TestRateStore_AppendHistory_GrowsEveryCycle(t *testing.T) {
	pool := setupPostgres(t)
	store := postgres.NewRateStore(pool)
	ctx := context.Background()

	first := time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC)
	require.NoError(t, store.AppendHistory(ctx, "EUR", map[string]float64{"USD": 1.08}, first))
	require.NoError(t, store.AppendHistory(ctx, "EUR", map[string]float64{"USD": 1.09}, first.Add(time.Hour)))

	entries, err := store.GetHistory(ctx, "EUR", "USD", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Newest first.
	require.InDelta(t, 1.09, entries[0].Value, 1e-9)
	require.InDelta(t, 1.08, entries[1].Value, 1e-9)
	require.True(t, entries[0].RecordedAt.After(entries[1].RecordedAt))
}

func TestRateStore_GetHistory_RespectsLimit(t *testing.T) {
	pool := setupPostgres(t)
	store := postgres.NewRateStore(pool)
	ctx := context.Background()

	base := time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.AppendHistory(ctx, "EUR", map[string]float64{"USD": 1.08 + float64(i)/100}, base.Add(time.Duration(i)*time.Hour)))
	}

	entries, err := store.GetHistory(ctx, "EUR", "USD", 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.InDelta(t, 1.12, entries[0].Value, 1e-9)
}

func TestRateStore_GetHistory_EmptyForUnknownPair(t *testing.T) {
	pool := setupPostgres(t)
	store := postgres.NewRateStore(pool)

	entries, err := store.GetHistory(context.Background(), "EUR", "JPY", 10)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestRateStore_GetLatest_EmptyWhenNoData(t *testing.T) {
	pool := setupPostgres(t)
	store := postgres.NewRateStore(pool)

	rates, err := store.GetLatest(context.Background(), "EUR")
	require.NoError(t, err)
	require.Empty(t, rates)
}

func TestRateStore_GetOne_NotFound(t *testing.T) {
	pool := setupPostgres(t)
	store := postgres.NewRateStore(pool)

	_, err := store.GetOne(context.Background(), "EUR", "USD")
	require.ErrorIs(t, err, domain.ErrRateNotFound)
}

func TestRateStore_GetOne_Success(t *testing.T) {
	pool := setupPostgres(t)
	store := postgres.NewRateStore(pool)
	ctx := context.Background()

	now := time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC)
	require.NoError(t, store.UpsertLatest(ctx, "EUR", map[string]float64{"USD": 1.0812345678}, now))

	rate, err := store.GetOne(ctx, "EUR", "USD")
	require.NoError(t, err)
	require.Equal(t, "EUR", rate.Base)
	require.Equal(t, "USD", rate.Target)
	require.InDelta(t, 1.0812345678, rate.Value, 1e-9)
	require.True(t, rate.UpdatedAt.Equal(now))
}

func TestRateStore_GetOne_DBError(t *testing.T) {
	pool := setupPostgres(t)
	store := postgres.NewRateStore(pool)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := store.GetOne(ctx, "EUR", "USD")
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrRateNotFound)
}

func TestRateStore_SameCycleTimestampAcrossTables(t *testing.T) {
	pool := setupPostgres(t)
	store := postgres.NewRateStore(pool)
	ctx := context.Background()

	now := time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC)
	rates := map[string]float64{"USD": 1.08}
	require.NoError(t, store.UpsertLatest(ctx, "EUR", rates, now))
	require.NoError(t, store.AppendHistory(ctx, "EUR", rates, now))

	latest, err := store.GetOne(ctx, "EUR", "USD")
	require.NoError(t, err)
	entries, err := store.GetHistory(ctx, "EUR", "USD", 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.True(t, latest.UpdatedAt.Equal(entries[0].RecordedAt))
}

func TestRateStore_CountLatest(t *testing.T) {
	pool := setupPostgres(t)
	store := postgres.NewRateStore(pool)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, store.UpsertLatest(ctx, "EUR", map[string]float64{"USD": 1.08, "GBP": 0.85, "JPY": 161.2}, now))
	require.NoError(t, store.UpsertLatest(ctx, "USD", map[string]float64{"EUR": 0.93}, now))

	count, err := store.CountLatest(ctx, "EUR")
	require.NoError(t, err)
	require.Equal(t, 3, count)

	count, err = store.CountLatest(ctx, "USD")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestRateStore_LastUpdatedAt(t *testing.T) {
	pool := setupPostgres(t)
	store := postgres.NewRateStore(pool)
	ctx := context.Background()

	ts, err := store.LastUpdatedAt(ctx, "EUR")
	require.NoError(t, err)
	require.True(t, ts.IsZero())

	first := time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC)
	require.NoError(t, store.UpsertLatest(ctx, "EUR", map[string]float64{"USD": 1.08}, first))
	second := first.Add(time.Hour)
	require.NoError(t, store.UpsertLatest(ctx, "EUR", map[string]float64{"GBP": 0.85}, second))

	ts, err = store.LastUpdatedAt(ctx, "EUR")
	require.NoError(t, err)
	require.True(t, ts.Equal(second))
}

func TestRateStore_DropAll_RemovesLatestAndHistory(t *testing.T) {
	pool := setupPostgres(t)
	store := postgres.NewRateStore(pool)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, store.UpsertLatest(ctx, "EUR", map[string]float64{"USD": 1.08}, now))
	require.NoError(t, store.AppendHistory(ctx, "EUR", map[string]float64{"USD": 1.08}, now))

	require.NoError(t, store.DropAll(ctx))

	count, err := store.CountLatest(ctx, "EUR")
	require.NoError(t, err)
	require.Zero(t, count)
	entries, err := store.GetHistory(ctx, "EUR", "USD", 10)
	require.NoError(t, err)
	require.Empty(t, entries)
}
