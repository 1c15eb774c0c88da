package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dailyquest/dq/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// Manager manages the config file.
type Manager struct {
	globalConfDir string // Path to the dq config directory (e.g., ~/.config/dq)
}

// NewManager creates a new Manager.
func NewManager() *Manager {
	return &Manager{globalConfDir: DefaultGlobalConfigDir()}
}

// NewManagerWithGlobalDir creates a new Manager with a custom config directory.
// This is useful for testing.
func NewManagerWithGlobalDir(globalConfDir string) *Manager {
	return &Manager{globalConfDir: globalConfDir}
}

// GlobalConfigInfo returns information about the config file.
func (m *Manager) GlobalConfigInfo() domain.ConfigInfo {
	if m.globalConfDir == "" {
		return domain.ConfigInfo{}
	}
	path := filepath.Join(m.globalConfDir, domain.ConfigFileName)
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ConfigInfo{Path: path}
	}
	return domain.ConfigInfo{
		Path:    path,
		Content: string(content),
		Exists:  true,
	}
}

// InitGlobalConfig writes the default config template and returns its path.
func (m *Manager) InitGlobalConfig(overwrite bool) (string, error) {
	if m.globalConfDir == "" {
		return "", errors.New("config directory not available")
	}
	path := filepath.Join(m.globalConfDir, domain.ConfigFileName)

	if _, err := os.Stat(path); err == nil && !overwrite {
		return path, domain.ErrConfigExists
	}

	if err := os.MkdirAll(m.globalConfDir, 0o700); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	content := domain.RenderConfigTemplate(domain.NewDefaultConfig())
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}
