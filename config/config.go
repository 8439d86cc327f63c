// Package config loads the application configuration from YAML with
// environment-variable overrides for deployment knobs.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// BrowserConfig controls the headless Chromium engine used for
// PDF and image capture.
type BrowserConfig struct {
	// Path is the Chromium/Chrome binary. Empty means chromedp's
	// default lookup.
	Path string `yaml:"path" json:"path"`

	// Headless toggles headless mode. Keep it on outside of debugging.
	Headless bool `yaml:"headless" json:"headless"`

	// Args are extra command-line flags, "--flag" or "--flag=value".
	Args []string `yaml:"args" json:"args"`

	// Timeout bounds a single capture, queueing included.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// AllowExternalAssets lets the capture page fetch remote
	// resources (e.g. a ward logo served over HTTP).
	AllowExternalAssets bool `yaml:"allow_external_assets" json:"allow_external_assets"`
}

// ExportConfig tunes artifact generation and retention.
type ExportConfig struct {
	// ArtifactDir is where generated files land. Empty keeps
	// artifacts in memory only.
	ArtifactDir string `yaml:"artifact_dir" json:"artifact_dir"`

	// ImageScale is the rasterization factor for image downloads.
	ImageScale float64 `yaml:"image_scale" json:"image_scale"`

	// ShareScale is the rasterization factor for shared images.
	ShareScale float64 `yaml:"share_scale" json:"share_scale"`

	// ReleaseDelay is how long a download stays fetchable after it
	// is handed to the client.
	ReleaseDelay time.Duration `yaml:"release_delay" json:"release_delay"`

	// RetentionTTL is the age past which the cleanup job removes
	// leftover artifacts.
	RetentionTTL time.Duration `yaml:"retention_ttl" json:"retention_ttl"`

	// CleanupCron schedules the retention sweep.
	CleanupCron string `yaml:"cleanup_cron" json:"cleanup_cron"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen" json:"listen"`

	// WardName is printed in the preview header.
	WardName string `yaml:"ward_name" json:"ward_name"`

	// LogoURL, if set, is rendered next to the ward name.
	LogoURL string `yaml:"logo_url" json:"logo_url"`

	// SettingsDB is the SQLite path for persisted preferences.
	SettingsDB string `yaml:"settings_db" json:"settings_db"`

	// DefaultDarkMode applies until the user toggles the theme.
	DefaultDarkMode bool `yaml:"default_dark_mode" json:"default_dark_mode"`

	Browser BrowserConfig `yaml:"browser" json:"browser"`
	Export  ExportConfig  `yaml:"export" json:"export"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:     "127.0.0.1:8080",
		WardName:   "Barrio",
		SettingsDB: "agenda.db",
		Browser: BrowserConfig{
			Headless: true,
			Timeout:  30 * time.Second,
		},
		Export: ExportConfig{
			ArtifactDir:  "artifacts",
			ImageScale:   2.0,
			ShareScale:   4.0,
			ReleaseDelay: 5 * time.Minute,
			RetentionTTL: time.Hour,
			CleanupCron:  "*/10 * * * *",
		},
	}
}

// Normalize fills in missing or out-of-range values so partially
// filled configs still behave.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.WardName == "" {
		c.WardName = def.WardName
	}
	if c.SettingsDB == "" {
		c.SettingsDB = def.SettingsDB
	}
	if c.Browser.Timeout <= 0 {
		c.Browser.Timeout = def.Browser.Timeout
	}
	if c.Export.ImageScale <= 0 {
		c.Export.ImageScale = def.Export.ImageScale
	}
	if c.Export.ShareScale <= 0 {
		c.Export.ShareScale = def.Export.ShareScale
	}
	if c.Export.ReleaseDelay <= 0 {
		c.Export.ReleaseDelay = def.Export.ReleaseDelay
	}
	if c.Export.RetentionTTL <= 0 {
		c.Export.RetentionTTL = def.Export.RetentionTTL
	}
	if c.Export.CleanupCron == "" {
		c.Export.CleanupCron = def.Export.CleanupCron
	}
}

// ApplyEnv overrides configuration fields from the process
// environment. Only deployment knobs are exposed this way.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("AGENDA_LISTEN"); v != "" {
		c.Listen = v
	}
	if v := os.Getenv("AGENDA_WARD_NAME"); v != "" {
		c.WardName = v
	}
	if v := os.Getenv("AGENDA_LOGO_URL"); v != "" {
		c.LogoURL = v
	}
	if v := os.Getenv("AGENDA_SETTINGS_DB"); v != "" {
		c.SettingsDB = v
	}
	if v := os.Getenv("AGENDA_BROWSER_PATH"); v != "" {
		c.Browser.Path = v
	}
	if v := os.Getenv("AGENDA_BROWSER_HEADLESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Browser.Headless = b
		}
	}
	if v := os.Getenv("AGENDA_ARTIFACT_DIR"); v != "" {
		c.Export.ArtifactDir = v
	}
	if v := os.Getenv("AGENDA_BROWSER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Browser.Timeout = d
		}
	}
}

// Load reads configuration from the given YAML path. A missing file
// is first-run behavior: the default config is written to path with
// 0600 perms and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
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

// Save writes cfg to path atomically (temp file + rename) with 0600
// permissions, creating the parent directory as needed.
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

	tmp, err := os.CreateTemp(dir, ".agenda-config-*.tmp")
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
