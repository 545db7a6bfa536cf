package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/claimroute/internal/model"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig(viper.New(), "")
	require.NoError(t, err)

	def := model.DefaultConfig()
	assert.Equal(t, def.Routing, cfg.Routing)
	assert.Equal(t, def.HTTP.Timeout, cfg.HTTP.Timeout)
	assert.Equal(t, def.Server.Addr, cfg.Server.Addr)
	assert.True(t, cfg.Cache.Enabled)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
routing:
  fast_track_threshold: 15000
http:
  timeout: 5s
log:
  format: json
`), 0o600))

	cfg, err := LoadConfig(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 15000.0, cfg.Routing.FastTrackThreshold)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_DefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, writeDefaultConfig(filepath.Join(home, ".claimroute", "config.yaml"), false))

	cfg, err := LoadConfig(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, float64(model.DefaultFastTrackThreshold), cfg.Routing.FastTrackThreshold)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("routing:\n  fast_track_threshold: 15000\n"), 0o600))
	t.Setenv("CLAIMROUTE_ROUTING_FAST_TRACK_THRESHOLD", "9000")
	t.Setenv("CLAIMROUTE_LLM_PROVIDER", "ollama")

	cfg, err := LoadConfig(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 9000.0, cfg.Routing.FastTrackThreshold)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
}

func TestLoadConfig_OpenAIKeyFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := LoadConfig(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := LoadConfig(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, writeDefaultConfig(path, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fast_track_threshold: 25000")
	assert.Contains(t, string(data), "OPENAI_API_KEY")
	assert.NotContains(t, string(data), "api_key:")

	err = writeDefaultConfig(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	assert.NoError(t, writeDefaultConfig(path, true))
}
