package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"wildtrack/internal/model"
)

// FeedConfig describes the rotation feed source.
type FeedConfig struct {
	// URL is the feed endpoint, or a local filesystem path to the
	// events.json written by wildscrape.
	URL string `yaml:"url" json:"url"`
	// ID is an internal identifier used for logging.
	ID string `yaml:"id" json:"id"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA timezone occurrences are resolved in
	// (e.g. "Europe/London"). Empty means the host's local zone.
	Timezone string `yaml:"timezone" json:"timezone"`

	// RefreshCron is a cron-style schedule string (e.g. "*/15 * * * *")
	// driving the fetch/rebuild/replan cycle.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// HorizonDays is the projection horizon for the iCalendar export and
	// the multi-day events API.
	HorizonDays int `yaml:"horizon_days" json:"horizon_days"`

	// CacheDir is where the feed fetcher keeps its validator cache.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	// Feed is the rotation feed source.
	Feed FeedConfig `yaml:"feed" json:"feed"`

	// Notify holds the user's reminder preferences.
	Notify model.Preferences `yaml:"notify" json:"notify"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:      "127.0.0.1:8080",
		Timezone:    "",
		RefreshCron: "*/15 * * * *",
		HorizonDays: 7,
		CacheDir:    "/var/lib/wildtrack/feed-cache",
		Feed: FeedConfig{
			URL: "https://raw.githubusercontent.com/dannihil/Wilderness-event-tracker/main/events.json",
			ID:  "wiki",
		},
		Notify: model.Preferences{
			NotifyMinutesBefore: 15,
			NotifyClassFilter:   model.FilterNone,
		},
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "*/15 * * * *"
	}
	if c.HorizonDays <= 0 {
		c.HorizonDays = 7
	}
	if c.CacheDir == "" {
		c.CacheDir = "/var/lib/wildtrack/feed-cache"
	}
	if c.Feed.ID == "" {
		c.Feed.ID = "wiki"
	}
	if c.Notify.NotifyMinutesBefore <= 0 {
		c.Notify.NotifyMinutesBefore = 15
	}
	if !c.Notify.NotifyClassFilter.Valid() {
		c.Notify.NotifyClassFilter = model.FilterNone
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist: write a default config (0600, parent dir
//     created) and return it.
//   - If the file exists: read YAML, unmarshal and normalize defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration to path atomically (temp file + rename)
// with 0600 permissions, creating the parent directory as needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".wildtrack-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method that delegates to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
