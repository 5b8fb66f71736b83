package store

import (
	"context"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/catalog"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/catalog/seed"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/postgres"
)

func TestBuildQuery_NoFilters(t *testing.T) {
	query, args := buildQuery(catalog.Query{})
	assert.NotContains(t, query, "WHERE")
	assert.True(t, strings.HasSuffix(query, "ORDER BY id"))
	assert.Empty(t, args)
}

func TestBuildQuery_AllFilterKinds(t *testing.T) {
	minPrice, maxPrice := 1000, 2000
	query, args := buildQuery(catalog.Query{
		Color:      []string{"Ivory", " "},
		Tags:       []string{"Boho"},
		HasPockets: catalog.FlagTrue,
		PriceMin:   &minPrice,
		PriceMax:   &maxPrice,
	})

	assert.Contains(t, query, "lower(trim(COALESCE(color, ''))) = ANY($1)")
	assert.Contains(t, query, "unnest(tags) AS v WHERE lower(trim(v)) = ANY($2)")
	assert.Contains(t, query, "has_pockets = $3")
	assert.Contains(t, query, "price >= $4")
	assert.Contains(t, query, "price <= $5")
	require.Len(t, args, 5)
	assert.Equal(t, pq.Array([]string{"ivory"}), args[0])
	assert.Equal(t, true, args[2])
	assert.Equal(t, 2000, args[4])
}

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

func TestStore_RoundTrip(t *testing.T) {
	db := skipIfNoPostgres(t)
	ctx := context.Background()
	s := New(db)
	require.NoError(t, s.Migrate(ctx))
	_, err := db.DB.ExecContext(ctx, `TRUNCATE wedding_dresses`)
	require.NoError(t, err)

	require.NoError(t, s.Upsert(ctx, seed.Dresses()))
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	got, err := s.Query(ctx, catalog.Query{Tags: []string{"ROMANTIC"}, CorsetBack: catalog.FlagTrue})
	require.NoError(t, err)
	want := catalog.Query{Tags: []string{"ROMANTIC"}, CorsetBack: catalog.FlagTrue}.Filter(seed.Dresses())
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Tags, got[i].Tags)
	}
}
