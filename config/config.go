package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/t-800m101/spothinta-go/logging"
)

type AppConfigFeed struct {
	// Endpoints for the latest-prices payloads. Defaults point at
	// api.porssisahko.net; override for testing against a stub.
	HourlyURL  *string `mapstructure:"hourly_url"`
	QuarterURL *string `mapstructure:"quarter_url"`
	// HTTP timeout in seconds, default: 30
	TimeoutSec *int `mapstructure:"timeout_sec"`
}

func (f AppConfigFeed) GetHourlyURL() string {
	if f.HourlyURL == nil {
		return ""
	}
	return *f.HourlyURL
}

func (f AppConfigFeed) GetQuarterURL() string {
	if f.QuarterURL == nil {
		return ""
	}
	return *f.QuarterURL
}

func (f AppConfigFeed) GetTimeout() time.Duration {
	if f.TimeoutSec == nil {
		return 30 * time.Second
	}
	return time.Duration(*f.TimeoutSec) * time.Second
}

type AppConfigCache struct {
	Dir string
	// The upstream publishes next-day prices in the early afternoon.
	// Refetch only when the local hour has reached this value, default: 14
	RefreshAfterHour *int `mapstructure:"refresh_after_hour"`
	// Cache counts as stale when it covers less than this many hours
	// ahead, default: 20
	MinHorizonHours *int `mapstructure:"min_horizon_hours"`
}

func (c AppConfigCache) GetRefreshAfterHour() int {
	if c.RefreshAfterHour == nil {
		return 14
	}
	return *c.RefreshAfterHour
}

func (c AppConfigCache) GetMinHorizon() time.Duration {
	if c.MinHorizonHours == nil {
		return 20 * time.Hour
	}
	return time.Duration(*c.MinHorizonHours) * time.Hour
}

type AppConfigPages struct {
	OutputDir string `mapstructure:"output_dir"`
	// Width of the widest price bar in characters, default: 23
	BarWidth *int `mapstructure:"bar_width"`
	// Tables longer than this split into two side-by-side blocks, default: 30
	SplitThreshold *int `mapstructure:"split_threshold"`
	// Show rows before the current hour too, default: false
	ShowHistory bool `mapstructure:"show_history"`
}

func (p AppConfigPages) GetBarWidth() int {
	if p.BarWidth == nil {
		return 23
	}
	return *p.BarWidth
}

func (p AppConfigPages) GetSplitThreshold() int {
	if p.SplitThreshold == nil {
		return 30
	}
	return *p.SplitThreshold
}

type AppConfigArchive struct {
	// Path to the sqlite archive. Empty disables archiving.
	Path string
	// How many days of price history to keep, default: 90
	RetentionDays *int `mapstructure:"retention_days"`
}

func (a AppConfigArchive) GetRetentionDays() int {
	if a.RetentionDays == nil {
		return 90
	}
	return *a.RetentionDays
}

type AppConfigServe struct {
	Address string
	Port    int16
	// Cron spec for regeneration in serve mode, default: "@hourly"
	RegenerateAt *string `mapstructure:"regenerate_at"`
	// If assigned, templates are loaded from this directory instead of
	// the embedded ones and reloaded on change. Useful for development.
	WwwDir *string `mapstructure:"www_dir"`
}

func (s AppConfigServe) GetRegenerateAt() string {
	if s.RegenerateAt == nil {
		return "@hourly"
	}
	return *s.RegenerateAt
}

type AppConfigLogging struct {
	// Min console log level: "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	ConsoleLevel *string `mapstructure:"console_level"`
}

func (l AppConfigLogging) GetConsoleLevel() slog.Level {
	return logging.LevelFromString(l.ConsoleLevel)
}

type AppConfig struct {
	Feed    AppConfigFeed
	Cache   AppConfigCache
	Pages   AppConfigPages
	Archive AppConfigArchive
	Serve   AppConfigServe
	Logging AppConfigLogging
}

func Load(path string) (*AppConfig, error) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.AddConfigPath("config")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("cache.dir", "data")
	viper.SetDefault("pages.output_dir", "public")
	viper.SetDefault("serve.address", "0.0.0.0")
	viper.SetDefault("serve.port", 8080)

	var c AppConfig

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	}

	if err := viper.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config file: %w", err)
	}

	return &c, nil
}
