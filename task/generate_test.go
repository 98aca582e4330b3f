package task

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t-800m101/spothinta-go/cache"
	"github.com/t-800m101/spothinta-go/config"
	"github.com/t-800m101/spothinta-go/porssisahko"
	"github.com/t-800m101/spothinta-go/www"
)

// feedPayload builds a latest-prices payload, newest slot first like
// the real feed.
func feedPayload(start time.Time, slots int, step time.Duration, price func(i int) float64) string {
	var entries []string
	for i := slots - 1; i >= 0; i-- {
		entries = append(entries, fmt.Sprintf(`{"price": %.3f, "startDate": %q}`,
			price(i), start.Add(time.Duration(i)*step).UTC().Format("2006-01-02T15:04:05.000Z")))
	}
	return `{"prices":[` + strings.Join(entries, ",") + `]}`
}

type testEnv struct {
	gen      *Generator
	outDir   string
	requests *atomic.Int64
}

func newTestEnv(t *testing.T, handler http.HandlerFunc) *testEnv {
	t.Helper()

	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	outDir := filepath.Join(t.TempDir(), "public")
	cnfg := &config.AppConfig{
		Cache: config.AppConfigCache{Dir: filepath.Join(t.TempDir(), "cache")},
		Pages: config.AppConfigPages{OutputDir: outDir},
	}

	tm, err := www.NewTemplateManager(logger, nil)
	require.NoError(t, err)

	client := porssisahko.New(
		srv.URL+"/v1/latest-prices.json",
		srv.URL+"/v2/latest-prices.json",
		5*time.Second)
	store := cache.NewStore(cnfg.Cache.Dir, logger)

	gen := NewGenerator(logger, cnfg, client, store, nil, tm)
	// 10:00 in Helsinki on a winter Monday, well before the afternoon
	// refresh window
	gen.SetClock(func() time.Time {
		return time.Date(2025, 2, 3, 8, 0, 0, 0, time.UTC)
	})

	return &testEnv{gen: gen, outDir: outDir, requests: &requests}
}

func priceFeedHandler(t *testing.T) http.HandlerFunc {
	day := time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)
	hourly := feedPayload(day, 24, time.Hour, func(i int) float64 {
		return float64(i) * 0.5
	})
	quarter := feedPayload(day, 96, 15*time.Minute, func(i int) float64 {
		// quarters wiggle around their hour's mean so min/max differ
		return float64(i/4)*0.5 + float64(i%4)*0.1
	})

	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/latest-prices.json":
			w.Write([]byte(hourly))
		case "/v2/latest-prices.json":
			w.Write([]byte(quarter))
		default:
			t.Errorf("unexpected request path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}
}

func TestGeneratorRun(t *testing.T) {
	env := newTestEnv(t, priceFeedHandler(t))

	require.NoError(t, env.gen.Run(context.Background()))

	entries, err := os.ReadDir(env.outDir)
	require.NoError(t, err)
	// 8 table variants + chart + index
	assert.Len(t, entries, 10)

	index, err := os.ReadFile(filepath.Join(env.outDir, "index.html"))
	require.NoError(t, err)
	def, err := os.ReadFile(filepath.Join(env.outDir, www.DefaultVariant.FileName()))
	require.NoError(t, err)
	assert.Equal(t, def, index, "index must mirror the default variant")

	html := string(def)
	assert.Contains(t, html, "█")
	assert.Contains(t, html, "▪", "hourly bars must carry quarter min/max markers")
	assert.Contains(t, html, "Päivä")
	assert.NotContains(t, html, "09</td>", "hours before now must be filtered out")

	quarterPage, err := os.ReadFile(filepath.Join(env.outDir,
		"spot-hinta-pysty-vaalea-vartti.html"))
	require.NoError(t, err)
	assert.Contains(t, string(quarterPage), "10:15")
	assert.Contains(t, string(quarterPage), "Aika")
}

func TestGeneratorRerunIsByteIdentical(t *testing.T) {
	env := newTestEnv(t, priceFeedHandler(t))

	require.NoError(t, env.gen.Run(context.Background()))
	first := readAll(t, env.outDir)
	assert.Equal(t, int64(2), env.requests.Load(), "one fetch per resolution")

	require.NoError(t, env.gen.Run(context.Background()))
	second := readAll(t, env.outDir)

	assert.Equal(t, int64(2), env.requests.Load(), "fresh cache must prevent refetch")
	assert.Equal(t, first, second, "rerun from cache must be byte-identical")
}

func TestGeneratorFatalOnFeedFailure(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	err := env.gen.Run(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "unexpected status code: 500")

	_, statErr := os.Stat(env.outDir)
	assert.True(t, os.IsNotExist(statErr), "no partial output on a fatal error")
}

func readAll(t *testing.T, dir string) map[string][]byte {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	files := make(map[string][]byte, len(entries))
	for _, e := range entries {
		content, err := os.ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(t, err)
		files[e.Name()] = content
	}
	return files
}
