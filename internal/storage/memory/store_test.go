package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/tickerscope/internal/models"
)

func TestWatchlistStore_CopiesOnReadAndWrite(t *testing.T) {
	m := NewManager()
	ctx := context.Background()

	empty, err := m.WatchlistStore().GetWatchlist(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty.Items)

	wl := &models.Watchlist{Items: []models.WatchlistItem{{Symbol: "AAPL"}, {Symbol: "MSFT"}}}
	require.NoError(t, m.WatchlistStore().SaveWatchlist(ctx, wl))
	wl.Items[0].Symbol = "MUTATED"

	got, err := m.WatchlistStore().GetWatchlist(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, got.Symbols())

	got.Items[1].Symbol = "ALSO"
	again, err := m.WatchlistStore().GetWatchlist(ctx)
	require.NoError(t, err)
	assert.Equal(t, "MSFT", again.Items[1].Symbol)
}

func TestScanStore_RoundTrip(t *testing.T) {
	m := NewManager()
	ctx := context.Background()

	state, err := m.ScanStore().GetScanState(ctx)
	require.NoError(t, err)
	assert.Nil(t, state)

	in := &models.ScanState{Status: models.ScanPaused, Cursor: 9, History: []models.ScanResult{{Symbol: "A"}}}
	require.NoError(t, m.ScanStore().SaveScanState(ctx, in))
	in.History[0].Symbol = "MUTATED"

	out, err := m.ScanStore().GetScanState(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9, out.Cursor)
	assert.Equal(t, "A", out.History[0].Symbol)
	assert.NoError(t, m.Close())
}
