package cache

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t-800m101/spothinta-go/prices"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(t.TempDir(), slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

func TestStoreRoundTrip(t *testing.T) {
	s := testStore(t)
	payload := []byte(`{"prices":[{"price":1.0,"startDate":"2025-02-03T13:00:00.000Z"}]}`)

	_, ok := s.Load(prices.Hourly)
	assert.False(t, ok, "empty store must miss")

	require.NoError(t, s.Save(prices.Hourly, payload))

	body, ok := s.Load(prices.Hourly)
	require.True(t, ok)
	assert.Equal(t, payload, body, "payload must survive verbatim")

	// resolutions use separate files
	_, ok = s.Load(prices.Quarter)
	assert.False(t, ok)
}

func TestStoreSaveCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	s := NewStore(dir, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	require.NoError(t, s.Save(prices.Quarter, []byte("{}")))
	_, err := os.Stat(filepath.Join(dir, "price_data_quarter.json"))
	assert.NoError(t, err)
}

func TestFreshnessIsStale(t *testing.T) {
	f := Freshness{RefreshAfterHour: 14, MinHorizon: 20 * time.Hour}
	loc, err := time.LoadLocation("Europe/Helsinki")
	require.NoError(t, err)

	recordsUntil := func(latest time.Time) []prices.Record {
		return []prices.Record{
			{Start: latest.Add(-time.Hour), Price: 1},
			{Start: latest, Price: 2},
		}
	}

	tests := []struct {
		name  string
		now   time.Time
		horiz time.Duration
		stale bool
	}{
		{
			name:  "morning with short horizon keeps cache",
			now:   time.Date(2025, 2, 3, 9, 0, 0, 0, loc),
			horiz: 5 * time.Hour,
			stale: false,
		},
		{
			name:  "afternoon with short horizon refetches",
			now:   time.Date(2025, 2, 3, 14, 0, 0, 0, loc),
			horiz: 5 * time.Hour,
			stale: true,
		},
		{
			name:  "afternoon with long horizon keeps cache",
			now:   time.Date(2025, 2, 3, 14, 0, 0, 0, loc),
			horiz: 30 * time.Hour,
			stale: false,
		},
		{
			name:  "horizon exactly at threshold keeps cache",
			now:   time.Date(2025, 2, 3, 17, 0, 0, 0, loc),
			horiz: 20 * time.Hour,
			stale: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := recordsUntil(tt.now.Add(tt.horiz))
			assert.Equal(t, tt.stale, f.IsStale(records, tt.now))
		})
	}
}

func TestFreshnessEmptyIsStale(t *testing.T) {
	f := Freshness{RefreshAfterHour: 14, MinHorizon: 20 * time.Hour}
	assert.True(t, f.IsStale(nil, time.Date(2025, 2, 3, 9, 0, 0, 0, time.UTC)))
}
