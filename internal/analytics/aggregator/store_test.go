package aggregator

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/postgres"
)

func skipIfNoPostgres(t *testing.T) *postgres.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres test in short mode")
	}
	port, _ := strconv.Atoi(envOrDefault("TEST_POSTGRES_PORT", "5432"))
	db, err := postgres.New(config.PostgresConfig{
		Host:            envOrDefault("TEST_POSTGRES_HOST", "localhost"),
		Port:            port,
		Database:        envOrDefault("TEST_POSTGRES_DB", "best_dressed_test"),
		User:            envOrDefault("TEST_POSTGRES_USER", "best_dressed"),
		Password:        envOrDefault("TEST_POSTGRES_PASSWORD", "localdev"),
		SSLMode:         "disable",
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
	})
	if err != nil {
		t.Skipf("skipping integration test: postgres unavailable: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func TestStore_Snapshots(t *testing.T) {
	db := skipIfNoPostgres(t)
	ctx := context.Background()
	s := NewStore(db)
	require.NoError(t, s.Migrate(ctx))
	_, err := db.DB.ExecContext(ctx, `TRUNCATE analytics_snapshots`)
	require.NoError(t, err)

	latest, err := s.LatestSnapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	for i := 1; i <= 3; i++ {
		require.NoError(t, s.SaveSnapshot(ctx, analytics.AggregatedStats{
			TotalRequests:  int64(i * 10),
			RankedRequests: int64(i),
			TopCategories:  []analytics.Count{{Key: "color", Count: int64(i)}},
		}))
		time.Sleep(5 * time.Millisecond)
	}

	latest, err = s.LatestSnapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, int64(30), latest.TotalRequests)

	list, err := s.ListSnapshots(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(30), list[0].TotalRequests)
	assert.Equal(t, int64(20), list[1].TotalRequests)
	assert.Equal(t, "color", list[1].TopCategories[0].Key)
}
