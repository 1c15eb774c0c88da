// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/dailyquest/dq/internal/domain"
	"github.com/pelletier/go-toml/v2"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Environment variables that override file settings.
const (
	EnvAPIURL     = "DQ_API_URL"
	EnvAuthURL    = "DQ_AUTH_URL"
	EnvCacheStore = "DQ_CACHE_STORE"
	EnvLogLevel   = "DQ_LOG_LEVEL"
	EnvTimezone   = "DQ_TIMEZONE"
)

// Loader loads configuration from the TOML file and the environment.
type Loader struct {
	getenv        func(string) string
	globalConfDir string // Path to the dq config directory (e.g., ~/.config/dq)
}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{
		globalConfDir: DefaultGlobalConfigDir(),
		getenv:        os.Getenv,
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom config directory
// and environment lookup. This is useful for testing.
func NewLoaderWithGlobalDir(globalConfDir string, getenv func(string) string) *Loader {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	return &Loader{
		globalConfDir: globalConfDir,
		getenv:        getenv,
	}
}

// DefaultGlobalConfigDir returns the default dq config directory.
func DefaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalDir(configHome)
}

// GlobalDir returns the directory the loader reads from.
func (l *Loader) GlobalDir() string {
	return l.globalConfDir
}

// Load returns the merged configuration.
// Merge order: default <- config file <- environment (later takes precedence).
func (l *Loader) Load() (*domain.Config, error) {
	base := domain.NewDefaultConfig()

	file, err := l.LoadGlobal()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if file != nil {
		base = mergeConfigs(base, file)
	}

	l.applyEnv(base)
	base.Warnings = append(base.Warnings, base.Validate()...)

	return base, nil
}

// LoadGlobal returns only the file configuration.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	if l.globalConfDir == "" {
		return nil, os.ErrNotExist
	}
	return l.loadFile(filepath.Join(l.globalConfDir, domain.ConfigFileName))
}

// loadFile loads a configuration from a file.
func (l *Loader) loadFile(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return convertRawToDomainConfig(raw), nil
}

// applyEnv overrides cfg with any DQ_* variables that are set.
func (l *Loader) applyEnv(cfg *domain.Config) {
	overrides := []struct {
		dst *string
		key string
	}{
		{&cfg.API.BaseURL, EnvAPIURL},
		{&cfg.API.AuthURL, EnvAuthURL},
		{&cfg.Cache.Store, EnvCacheStore},
		{&cfg.Log.Level, EnvLogLevel},
		{&cfg.API.Timezone, EnvTimezone},
	}
	for _, o := range overrides {
		if v := l.getenv(o.key); v != "" {
			*o.dst = v
		}
	}
}

// stringFields maps the known keys of one section to their destinations.
type stringFields map[string]*string

// convertRawToDomainConfig converts the raw map to domain config and collects warnings.
func convertRawToDomainConfig(raw map[string]any) *domain.Config {
	res := &domain.Config{}
	var warnings []string

	sections := map[string]stringFields{
		"api": {
			"base_url":       &res.API.BaseURL,
			"auth_url":       &res.API.AuthURL,
			"timeout":        &res.API.Timeout,
			"naive_timezone": &res.API.NaiveTimezone,
			"timezone":       &res.API.Timezone,
		},
		"cache": {
			"store": &res.Cache.Store,
			"path":  &res.Cache.Path,
		},
		"log": {
			"level": &res.Log.Level,
		},
		"board": {
			"poll_interval": &res.Board.PollInterval,
		},
	}

	for section, value := range raw {
		fields, known := sections[section]
		if !known {
			warnings = append(warnings, fmt.Sprintf("unknown section: [%s]", section))
			continue
		}
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("[%s] must be a table", section))
			continue
		}
		for k, v := range m {
			dst, ok := fields[k]
			if !ok {
				warnings = append(warnings, fmt.Sprintf("unknown key in [%s]: %s", section, k))
				continue
			}
			s, ok := v.(string)
			if !ok {
				warnings = append(warnings, fmt.Sprintf("[%s] %s must be a string", section, k))
				continue
			}
			*dst = s
		}
	}

	sort.Strings(warnings)
	res.Warnings = warnings
	return res
}

// mergeConfigs overlays the non-empty values of overlay onto base.
func mergeConfigs(base, overlay *domain.Config) *domain.Config {
	res := *base
	res.Warnings = append(append([]string(nil), base.Warnings...), overlay.Warnings...)

	setIf(&res.API.BaseURL, overlay.API.BaseURL)
	setIf(&res.API.AuthURL, overlay.API.AuthURL)
	setIf(&res.API.Timeout, overlay.API.Timeout)
	setIf(&res.API.NaiveTimezone, overlay.API.NaiveTimezone)
	setIf(&res.API.Timezone, overlay.API.Timezone)
	setIf(&res.Cache.Store, overlay.Cache.Store)
	setIf(&res.Cache.Path, overlay.Cache.Path)
	setIf(&res.Log.Level, overlay.Log.Level)
	setIf(&res.Board.PollInterval, overlay.Board.PollInterval)

	return &res
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
