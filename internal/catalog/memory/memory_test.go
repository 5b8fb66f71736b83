package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/catalog"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/catalog/seed"
)

func TestSource_QueryFilters(t *testing.T) {
	src := New(seed.Dresses())
	ctx := context.Background()

	all, err := src.Query(ctx, catalog.Query{})
	require.NoError(t, err)
	assert.Len(t, all, 10)
	assert.Equal(t, 1, all[0].ID)

	ivory, err := src.Query(ctx, catalog.Query{Color: []string{"ivory"}})
	require.NoError(t, err)
	for _, d := range ivory {
		assert.Equal(t, "Ivory", d.Color)
	}
	assert.Len(t, ivory, 3)

	priceMax := 1500
	cheapPockets, err := src.Query(ctx, catalog.Query{HasPockets: catalog.FlagTrue, PriceMax: &priceMax})
	require.NoError(t, err)
	ids := make([]int, 0, len(cheapPockets))
	for _, d := range cheapPockets {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []int{1, 3, 8}, ids)
}

func TestSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(nil).Query(ctx, catalog.Query{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSource_Replace(t *testing.T) {
	src := New(nil)
	assert.Zero(t, src.Len())
	src.Replace([]catalog.Dress{{ID: 2}, {ID: 1}})
	got, err := src.Query(context.Background(), catalog.Query{})
	require.NoError(t, err)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, 2, src.Len())
}
