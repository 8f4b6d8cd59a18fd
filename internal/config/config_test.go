package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, path string, values map[string]any) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	data, err := json.Marshal(values)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, BackendLocal, cfg.Backend)
	assert.Equal(t, "https://3.basecampapi.com", cfg.BaseURL)
	assert.Equal(t, DefaultURLTTL, cfg.URLTTL)
	assert.Equal(t, DefaultConcurrency, cfg.Concurrency)
	assert.Equal(t, "auto", cfg.Format)
	assert.NotEmpty(t, cfg.DataDir)
	assert.NotNil(t, cfg.Sources)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeConfig(t, path, map[string]any{
		"backend":     "basecamp",
		"base_url":    "http://test.example.com",
		"account_id":  12345,
		"project_id":  "67890",
		"todolist_id": "11111",
		"data_dir":    "/tmp/data",
		"format":      "json",
		"url_ttl":     "5m",
		"concurrency": 3,
		"verbose":     2,
	})

	cfg := Default()
	loadFromFile(cfg, path, SourceGlobal)

	assert.Equal(t, BackendBasecamp, cfg.Backend)
	assert.Equal(t, "http://test.example.com", cfg.BaseURL)
	assert.Equal(t, "12345", cfg.AccountID)
	assert.Equal(t, "67890", cfg.ProjectID)
	assert.Equal(t, "11111", cfg.TodolistID)
	assert.Equal(t, "/tmp/data", cfg.DataDir)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 5*time.Minute, cfg.URLTTL)
	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, 2, cfg.Verbose)

	assert.Equal(t, "global", cfg.Sources["base_url"])
	assert.Equal(t, "global", cfg.SourceOf("account_id"))
	assert.Equal(t, "default", cfg.SourceOf("cache_dir"))
}

func TestLoadFromFileSkipsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("not valid json"), 0o644))

	cfg := Default()
	loadFromFile(cfg, path, SourceGlobal)

	assert.Equal(t, BackendLocal, cfg.Backend)
}

func TestLoadFromFileSkipsMissingFile(t *testing.T) {
	cfg := Default()
	loadFromFile(cfg, "/nonexistent/path/config.json", SourceGlobal)

	assert.Equal(t, BackendLocal, cfg.Backend)
}

func TestLocalConfigCannotSetBaseURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeConfig(t, path, map[string]any{
		"base_url":   "http://evil.example.com",
		"project_id": "local-project",
	})

	cfg := Default()
	loadFromFile(cfg, path, SourceLocal)

	assert.Equal(t, "https://3.basecampapi.com", cfg.BaseURL)
	assert.Equal(t, "local-project", cfg.ProjectID)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("POCKETLIST_BACKEND", "basecamp")
	t.Setenv("POCKETLIST_ACCOUNT_ID", "env-account")
	t.Setenv("POCKETLIST_DATA_DIR", "/env/data")
	t.Setenv("POCKETLIST_URL_TTL", "30s")
	t.Setenv("POCKETLIST_CONCURRENCY", "not-a-number")

	cfg := Default()
	LoadFromEnv(cfg)

	assert.Equal(t, BackendBasecamp, cfg.Backend)
	assert.Equal(t, "env-account", cfg.AccountID)
	assert.Equal(t, "/env/data", cfg.DataDir)
	assert.Equal(t, 30*time.Second, cfg.URLTTL)
	assert.Equal(t, DefaultConcurrency, cfg.Concurrency, "unparseable values are ignored")
	assert.Equal(t, "env", cfg.Sources["backend"])
	assert.NotContains(t, cfg.Sources, "concurrency")
}

func TestApplyOverrides(t *testing.T) {
	cfg := Default()
	cfg.ProjectID = "from-file"
	cfg.Sources["project_id"] = "global"

	ApplyOverrides(cfg, FlagOverrides{
		Backend: "basecamp",
		Project: "from-flag",
		Format:  "yaml",
	})

	assert.Equal(t, BackendBasecamp, cfg.Backend)
	assert.Equal(t, "from-flag", cfg.ProjectID)
	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, "flag", cfg.Sources["project_id"])
}

func TestApplyOverridesSkipsEmpty(t *testing.T) {
	cfg := Default()
	cfg.AccountID = "original"
	cfg.Sources["account_id"] = "global"

	ApplyOverrides(cfg, FlagOverrides{})

	assert.Equal(t, "original", cfg.AccountID)
	assert.Equal(t, "global", cfg.Sources["account_id"])
}

func TestFullLayeringPrecedence(t *testing.T) {
	tmpDir := t.TempDir()
	globalConfig := filepath.Join(tmpDir, "global.json")
	localConfig := filepath.Join(tmpDir, "local.json")

	writeConfig(t, globalConfig, map[string]any{
		"account_id":  "global",
		"project_id":  "global",
		"todolist_id": "global",
	})
	writeConfig(t, localConfig, map[string]any{
		"project_id":  "local",
		"todolist_id": "local",
	})
	t.Setenv("POCKETLIST_TODOLIST_ID", "env")

	cfg := Default()
	loadFromFile(cfg, globalConfig, SourceGlobal)
	loadFromFile(cfg, localConfig, SourceLocal)
	LoadFromEnv(cfg)
	ApplyOverrides(cfg, FlagOverrides{Account: "flag"})

	assert.Equal(t, "flag", cfg.AccountID)
	assert.Equal(t, "local", cfg.ProjectID)
	assert.Equal(t, "env", cfg.TodolistID)
}

func TestLoadReadsXDGConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	writeConfig(t, filepath.Join(tmpDir, "pocketlist", "config.json"), map[string]any{
		"data_dir": "/xdg/data",
	})
	t.Chdir(t.TempDir())

	cfg, err := Load(FlagOverrides{})
	require.NoError(t, err)

	assert.Equal(t, "/xdg/data", cfg.DataDir)
	assert.Equal(t, "global", cfg.Sources["data_dir"])
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	_, err := Load(FlagOverrides{Backend: "firebase"})
	assert.ErrorContains(t, err, "unknown backend")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Concurrency = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.URLTTL = 0
	assert.Error(t, cfg.Validate())
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://example.com/", "https://example.com"},
		{"https://example.com", "https://example.com"},
		{"http://localhost:3000/", "http://localhost:3000"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeBaseURL(tt.input))
		})
	}
}
