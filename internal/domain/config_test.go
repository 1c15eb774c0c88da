package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.API.RequestTimeout())
	assert.Equal(t, DefaultPollInterval, cfg.Board.Interval())
	assert.Equal(t, CacheStoreJSON, cfg.Cache.Store)
	assert.Equal(t, time.UTC, cfg.API.NaiveLocation())
	assert.Equal(t, time.Local, cfg.API.LocalLocation())
	assert.Empty(t, cfg.Validate())
}

func TestConfig_ValidateWarnsOnBadValues(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.API.Timeout = "soon"
	cfg.Board.PollInterval = "often"
	cfg.API.Timezone = "Mars/Olympus"
	cfg.Cache.Store = "redis"

	warnings := cfg.Validate()
	assert.Len(t, warnings, 4)
	assert.Equal(t, DefaultTimeout, cfg.API.RequestTimeout())
	assert.Equal(t, DefaultPollInterval, cfg.Board.Interval())
	assert.Equal(t, time.Local, cfg.API.LocalLocation())
}

func TestRenderConfigTemplate_RoundTrips(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.API.BaseURL = "https://quest.example.com/api/v1"

	rendered := RenderConfigTemplate(cfg)
	assert.True(t, strings.HasPrefix(rendered, "# dq configuration"))

	var parsed Config
	require.NoError(t, toml.Unmarshal([]byte(rendered), &parsed))
	assert.Equal(t, "https://quest.example.com/api/v1", parsed.API.BaseURL)
	assert.Equal(t, cfg.API.Timeout, parsed.API.Timeout)
	assert.Equal(t, CacheStoreJSON, parsed.Cache.Store)
	assert.Equal(t, DefaultLogLevel, parsed.Log.Level)
	assert.Equal(t, cfg.Board.PollInterval, parsed.Board.PollInterval)
}
