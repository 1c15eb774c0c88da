package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"path/filepath"
	"text/template"
	"time"
)

//go:embed config_template.toml
var configTemplateContent string

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string    `toml:"-"`
	API      APIConfig   `toml:"api"`
	Cache    CacheConfig `toml:"cache"`
	Log      LogConfig   `toml:"log"`
	Board    BoardConfig `toml:"board"`
}

// APIConfig holds backend settings from the [api] section.
type APIConfig struct {
	BaseURL       string `toml:"base_url,omitempty"`       // Task API root, e.g. http://localhost:8000/api/v1
	AuthURL       string `toml:"auth_url,omitempty"`       // Auth service root; login posts to <auth_url>/login/
	Timeout       string `toml:"timeout,omitempty"`        // Per-request timeout (Go duration)
	NaiveTimezone string `toml:"naive_timezone,omitempty"` // Zone for backend timestamps without an offset
	Timezone      string `toml:"timezone,omitempty"`       // Zone defining "today"; empty uses the system zone
}

// CacheConfig holds completion override cache settings from the [cache] section.
type CacheConfig struct {
	Store string `toml:"store,omitempty"` // "json" (default) or "sqlite"
	Path  string `toml:"path,omitempty"`  // Override file; empty uses the config directory
}

// LogConfig holds logging settings from the [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // debug, info, warn or error
}

// BoardConfig holds interactive board settings from the [board] section.
type BoardConfig struct {
	PollInterval string `toml:"poll_interval,omitempty"` // Resync period (Go duration)
}

// Cache store kinds.
const (
	CacheStoreJSON   = "json"
	CacheStoreSQLite = "sqlite"
)

// Default configuration values.
const (
	DefaultBaseURL       = "http://localhost:8000/api/v1"
	DefaultAuthURL       = "http://localhost:8080"
	DefaultTimeout       = 15 * time.Second
	DefaultPollInterval  = 30 * time.Second
	DefaultNaiveTimezone = "UTC"
	DefaultLogLevel      = "info"
)

// Directory and file names for dq.
const (
	AppDirName          = "dq"
	ConfigFileName      = "config.toml"
	TokenFileName       = "token.json"
	OverridesJSONName   = "completions.json"
	OverridesSQLiteName = "completions.db"
	LogDirName          = "logs"
	LogFileName         = "dq.log"
)

// GlobalDir returns the dq directory under configHome.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalDir(configHome string) string {
	return filepath.Join(configHome, AppDirName)
}

// GlobalConfigPath returns the config file path under configHome.
func GlobalConfigPath(configHome string) string {
	return filepath.Join(GlobalDir(configHome), ConfigFileName)
}

// LogPath returns the log file path inside the dq directory.
func LogPath(appDir string) string {
	return filepath.Join(appDir, LogDirName, LogFileName)
}

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:       DefaultBaseURL,
			AuthURL:       DefaultAuthURL,
			Timeout:       DefaultTimeout.String(),
			NaiveTimezone: DefaultNaiveTimezone,
		},
		Cache: CacheConfig{
			Store: CacheStoreJSON,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
		Board: BoardConfig{
			PollInterval: DefaultPollInterval.String(),
		},
	}
}

// RequestTimeout returns the parsed timeout, falling back to the default.
func (c APIConfig) RequestTimeout() time.Duration {
	return parseDurationOr(c.Timeout, DefaultTimeout)
}

// NaiveLocation returns the zone for offset-less backend timestamps.
func (c APIConfig) NaiveLocation() *time.Location {
	return loadLocationOr(c.NaiveTimezone, time.UTC)
}

// LocalLocation returns the zone that defines calendar days.
func (c APIConfig) LocalLocation() *time.Location {
	return loadLocationOr(c.Timezone, time.Local)
}

// Interval returns the parsed poll interval, falling back to the default.
func (c BoardConfig) Interval() time.Duration {
	return parseDurationOr(c.PollInterval, DefaultPollInterval)
}

// Validate collects problems that would otherwise surface as silent fallbacks.
func (c *Config) Validate() []string {
	var warnings []string
	if _, err := time.ParseDuration(c.API.Timeout); c.API.Timeout != "" && err != nil {
		warnings = append(warnings, fmt.Sprintf("api.timeout %q is not a duration; using %s", c.API.Timeout, DefaultTimeout))
	}
	if _, err := time.ParseDuration(c.Board.PollInterval); c.Board.PollInterval != "" && err != nil {
		warnings = append(warnings, fmt.Sprintf("board.poll_interval %q is not a duration; using %s", c.Board.PollInterval, DefaultPollInterval))
	}
	if c.API.Timezone != "" {
		if _, err := time.LoadLocation(c.API.Timezone); err != nil {
			warnings = append(warnings, fmt.Sprintf("api.timezone %q is unknown; using the system zone", c.API.Timezone))
		}
	}
	if c.API.NaiveTimezone != "" {
		if _, err := time.LoadLocation(c.API.NaiveTimezone); err != nil {
			warnings = append(warnings, fmt.Sprintf("api.naive_timezone %q is unknown; using UTC", c.API.NaiveTimezone))
		}
	}
	switch c.Cache.Store {
	case "", CacheStoreJSON, CacheStoreSQLite:
	default:
		warnings = append(warnings, fmt.Sprintf("cache.store %q is unknown; using %s", c.Cache.Store, CacheStoreJSON))
	}
	return warnings
}

func parseDurationOr(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func loadLocationOr(name string, def *time.Location) *time.Location {
	if name == "" {
		return def
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return def
	}
	return loc
}

// templateData holds all data for rendering the config template.
type templateData struct {
	BaseURL       string
	AuthURL       string
	Timeout       string
	NaiveTimezone string
	CacheStore    string
	LogLevel      string
	PollInterval  string
}

// RenderConfigTemplate renders the commented config template with cfg's values.
func RenderConfigTemplate(cfg *Config) string {
	data := templateData{
		BaseURL:       cfg.API.BaseURL,
		AuthURL:       cfg.API.AuthURL,
		Timeout:       cfg.API.Timeout,
		NaiveTimezone: cfg.API.NaiveTimezone,
		CacheStore:    cfg.Cache.Store,
		LogLevel:      cfg.Log.Level,
		PollInterval:  cfg.Board.PollInterval,
	}

	tmpl, err := template.New("config").Delims("<<", ">>").Parse(configTemplateContent)
	if err != nil {
		// Should never happen with embedded template
		panic(fmt.Sprintf("failed to parse config template: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		// Should never happen with valid data
		panic(fmt.Sprintf("failed to execute config template: %v", err))
	}

	return buf.String()
}
