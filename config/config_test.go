package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testYaml = `
feed:
  timeout_sec: 10
cache:
  dir: /tmp/spot-cache
  refresh_after_hour: 15
  min_horizon_hours: 12
pages:
  output_dir: /tmp/spot-pages
  bar_width: 40
  show_history: true
archive:
  path: /tmp/spot.db
logging:
  console_level: DEBUG
`

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testYaml), 0o644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	t.Run("Configured values", func(t *testing.T) {
		if c.Feed.GetTimeout() != 10*time.Second {
			t.Errorf("expected feed timeout 10s, got %v", c.Feed.GetTimeout())
		}
		if c.Cache.Dir != "/tmp/spot-cache" {
			t.Errorf("expected cache dir /tmp/spot-cache, got %s", c.Cache.Dir)
		}
		if c.Cache.GetRefreshAfterHour() != 15 {
			t.Errorf("expected refresh after hour 15, got %d", c.Cache.GetRefreshAfterHour())
		}
		if c.Cache.GetMinHorizon() != 12*time.Hour {
			t.Errorf("expected min horizon 12h, got %v", c.Cache.GetMinHorizon())
		}
		if c.Pages.GetBarWidth() != 40 {
			t.Errorf("expected bar width 40, got %d", c.Pages.GetBarWidth())
		}
		if !c.Pages.ShowHistory {
			t.Error("expected show_history true")
		}
		if c.Archive.Path != "/tmp/spot.db" {
			t.Errorf("expected archive path /tmp/spot.db, got %s", c.Archive.Path)
		}
		if c.Logging.GetConsoleLevel() != slog.LevelDebug {
			t.Errorf("expected console level DEBUG, got %v", c.Logging.GetConsoleLevel())
		}
	})

	t.Run("Defaults", func(t *testing.T) {
		if c.Pages.GetSplitThreshold() != 30 {
			t.Errorf("expected default split threshold 30, got %d", c.Pages.GetSplitThreshold())
		}
		if c.Archive.GetRetentionDays() != 90 {
			t.Errorf("expected default retention 90 days, got %d", c.Archive.GetRetentionDays())
		}
		if c.Serve.GetRegenerateAt() != "@hourly" {
			t.Errorf("expected default regenerate spec @hourly, got %s", c.Serve.GetRegenerateAt())
		}
		if c.Feed.GetHourlyURL() != "" {
			t.Errorf("expected empty hourly url override, got %s", c.Feed.GetHourlyURL())
		}
	})
}
