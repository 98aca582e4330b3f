package cache

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/t-800m101/spothinta-go/prices"
)

// Store keeps one raw feed payload per resolution on disk. Files hold
// the fetched body verbatim so a cached run reproduces a fetched run
// byte for byte.
type Store struct {
	dir    string
	logger *slog.Logger
}

func NewStore(dir string, logger *slog.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

func (s *Store) path(res prices.Resolution) string {
	return filepath.Join(s.dir, fmt.Sprintf("price_data_%s.json", res))
}

// Load returns the cached payload, or (nil, false) when the file is
// missing or unreadable. A miss is not an error, it just means the
// caller has to fetch.
func (s *Store) Load(res prices.Resolution) ([]byte, bool) {
	body, err := os.ReadFile(s.path(res))
	if err != nil {
		s.logger.Info("no usable price cache, will fetch",
			slog.String("resolution", string(res)),
			slog.Any("reason", err))
		return nil, false
	}
	return body, true
}

func (s *Store) Save(res prices.Resolution, body []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(s.path(res), body, 0o644); err != nil {
		return fmt.Errorf("failed to write price cache: %w", err)
	}
	return nil
}

// Freshness decides whether a cached payload still covers enough of
// the future. The upstream publishes next-day prices in the afternoon,
// so the cache only counts as stale once the local hour has passed
// RefreshAfterHour and the horizon has shrunk below MinHorizon.
type Freshness struct {
	RefreshAfterHour int
	MinHorizon       time.Duration
}

// IsStale reports whether the cached records need a refetch at "now".
// An empty record set is always stale.
func (f Freshness) IsStale(records []prices.Record, now time.Time) bool {
	if len(records) == 0 {
		return true
	}
	if now.Hour() < f.RefreshAfterHour {
		return false
	}
	latest := records[len(records)-1].Start
	return latest.Sub(now) < f.MinHorizon
}
