package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dailyquest/dq/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_GlobalConfigInfo(t *testing.T) {
	t.Run("returns info when file exists", func(t *testing.T) {
		globalDir := t.TempDir()
		configContent := "[log]\nlevel = \"debug\""
		writeConfig(t, globalDir, configContent)

		manager := NewManagerWithGlobalDir(globalDir)
		info := manager.GlobalConfigInfo()

		assert.Equal(t, filepath.Join(globalDir, domain.ConfigFileName), info.Path)
		assert.Equal(t, configContent, info.Content)
		assert.True(t, info.Exists)
	})

	t.Run("returns info when file does not exist", func(t *testing.T) {
		globalDir := t.TempDir()

		manager := NewManagerWithGlobalDir(globalDir)
		info := manager.GlobalConfigInfo()

		assert.Equal(t, filepath.Join(globalDir, domain.ConfigFileName), info.Path)
		assert.Empty(t, info.Content)
		assert.False(t, info.Exists)
	})

	t.Run("returns empty info without a directory", func(t *testing.T) {
		info := NewManagerWithGlobalDir("").GlobalConfigInfo()
		assert.Equal(t, domain.ConfigInfo{}, info)
	})
}

func TestManager_InitGlobalConfig(t *testing.T) {
	t.Run("creates config in a new directory", func(t *testing.T) {
		globalDir := filepath.Join(t.TempDir(), "dq")
		manager := NewManagerWithGlobalDir(globalDir)

		path, err := manager.InitGlobalConfig(false)
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(globalDir, domain.ConfigFileName), path)
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "[api]")
		assert.Contains(t, string(content), domain.DefaultBaseURL)

		// The written template loads back cleanly
		cfg, err := NewLoaderWithGlobalDir(globalDir, nil).Load()
		require.NoError(t, err)
		assert.Empty(t, cfg.Warnings)
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		globalDir := t.TempDir()
		writeConfig(t, globalDir, "# mine")

		_, err := NewManagerWithGlobalDir(globalDir).InitGlobalConfig(false)
		assert.ErrorIs(t, err, domain.ErrConfigExists)

		content, err := os.ReadFile(filepath.Join(globalDir, domain.ConfigFileName))
		require.NoError(t, err)
		assert.Equal(t, "# mine", string(content))
	})

	t.Run("overwrites when forced", func(t *testing.T) {
		globalDir := t.TempDir()
		writeConfig(t, globalDir, "# mine")

		path, err := NewManagerWithGlobalDir(globalDir).InitGlobalConfig(true)
		require.NoError(t, err)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotEqual(t, "# mine", string(content))
	})

	t.Run("fails without a directory", func(t *testing.T) {
		_, err := NewManagerWithGlobalDir("").InitGlobalConfig(false)
		assert.Error(t, err)
	})
}
