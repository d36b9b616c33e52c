package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultOpener(t *testing.T) {
	expected := map[string]string{
		"darwin":  "open",
		"linux":   "xdg-open",
		"windows": "start",
	}

	opener := getDefaultOpener()

	if expectedOpener, ok := expected[runtime.GOOS]; ok {
		assert.Equal(t, expectedOpener, opener)
	} else {
		assert.Equal(t, "open", opener)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	assert.Equal(t, DefaultEndpoint, cfg.API.Endpoint)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, "en", cfg.API.Language)
	assert.Zero(t, cfg.API.RetryCount, "queries are not retried by default")
	assert.NotEmpty(t, cfg.API.UserAgent)

	assert.Equal(t, 1*time.Second, cfg.Database.Timeout)
	assert.Equal(t, 20, cfg.UI.PageSize)
	assert.Equal(t, 300*time.Millisecond, cfg.UI.SearchDebounce)
	assert.True(t, cfg.Cache.Enabled)

	assert.NotEmpty(t, cfg.Media.DefaultOpener)
	assert.Equal(t, "ctrl", cfg.Keys.Modifier)
	assert.Equal(t, "q", cfg.Keys.Bindings.Quit)
	assert.Equal(t, "off", cfg.Log.Level)
}

func TestLoad_DefaultConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, DefaultEndpoint, cfg.API.Endpoint)
	assert.Equal(t, 20, cfg.UI.PageSize)
}

func TestLoad_FromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.toml")
	configContent := `
[database]
path = "/tmp/test.db"
timeout = "10s"

[api]
endpoint = "http://localhost:8080/v1/graphql"
timeout = "3s"
user_agent = "test-agent"

[ui]
page_size = 12
search_debounce = "150ms"

[ui.colors]
primary = "#FF0000"
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0o644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, 10*time.Second, cfg.Database.Timeout)
	assert.Equal(t, "http://localhost:8080/v1/graphql", cfg.API.Endpoint)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, "test-agent", cfg.API.UserAgent)
	assert.Equal(t, 12, cfg.UI.PageSize)
	assert.Equal(t, 150*time.Millisecond, cfg.UI.SearchDebounce)
	assert.Equal(t, "#FF0000", cfg.UI.Colors.Primary)
}

func TestLoad_NormalizesBadValues(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.toml")
	content := `
[ui]
page_size = -3
search_debounce = "-1s"
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.UI.PageSize)
	assert.Equal(t, time.Duration(0), cfg.UI.SearchDebounce)
}

func TestLoad_InvalidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[api\nendpoint = "), 0o644))

	_, err := Load(configPath)
	assert.Error(t, err)
}

func TestSave(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := defaultConfig()
	cfg.Database.Path = "/test/path.db"
	cfg.API.UserAgent = "test-save-agent"
	cfg.API.Timeout = 45 * time.Second
	cfg.UI.Colors.Primary = "#00FF00"
	cfg.Media.DefaultOpener = "test-opener"
	cfg.Keys.Modifier = "alt"
	cfg.Keys.Bindings.NextPage = "n"
	cfg.Keys.Bindings.Forward = "ctrl+f"

	savePath := filepath.Join(tmpDir, "nested", "saved-config.toml")
	require.NoError(t, Save(cfg, savePath))

	_, statErr := os.Stat(savePath)
	require.NoError(t, statErr)

	loaded, err := Load(savePath)
	require.NoError(t, err)

	assert.Equal(t, cfg.Database.Path, loaded.Database.Path)
	assert.Equal(t, cfg.API.UserAgent, loaded.API.UserAgent)
	assert.Equal(t, cfg.API.Timeout, loaded.API.Timeout)
	assert.Equal(t, "#00FF00", loaded.UI.Colors.Primary)
	assert.Equal(t, "test-opener", loaded.Media.DefaultOpener)
	assert.Equal(t, "alt", loaded.Keys.Modifier)
	assert.Equal(t, "n", loaded.Keys.Bindings.NextPage)
	assert.Equal(t, "ctrl+f", loaded.Keys.Bindings.Forward)
}

func TestGenerateDefaultConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "generated.toml")
	require.NoError(t, GenerateDefaultConfig(configPath))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "ctrl", cfg.Keys.Modifier)
	assert.Equal(t, DefaultEndpoint, cfg.API.Endpoint)
	assert.Equal(t, 300*time.Millisecond, cfg.UI.SearchDebounce)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, "", expandPath(""))
	assert.Equal(t, filepath.Join(home, "dex.db"), expandPath("~/dex.db"))
	assert.True(t, filepath.IsAbs(expandPath("relative/dex.db")))
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, "dex-test/1.0", cfg.API.UserAgent)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "off", cfg.Log.Level)
}
