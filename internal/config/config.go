// Package config provides layered configuration loading.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Backend names.
const (
	BackendLocal    = "local"
	BackendBasecamp = "basecamp"
)

// Config holds the resolved configuration.
type Config struct {
	// Gateway selection
	Backend string `json:"backend"`

	// basecamp backend settings
	BaseURL    string `json:"base_url"`
	AccountID  string `json:"account_id"`
	ProjectID  string `json:"project_id"`
	TodolistID string `json:"todolist_id"`

	// local backend settings
	DataDir string `json:"data_dir"`

	// Cache/log location
	CacheDir string `json:"cache_dir"`

	// Sync behaviour
	URLTTL      time.Duration `json:"-"`
	Concurrency int           `json:"concurrency"`

	// Output settings
	Format  string `json:"format"`
	Verbose int    `json:"verbose"`

	// Sources tracks where each value came from (for debugging).
	Sources map[string]string `json:"-"`
}

// Source indicates where a config value came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceSystem  Source = "system"
	SourceGlobal  Source = "global"
	SourceLocal   Source = "local"
	SourceEnv     Source = "env"
	SourceFlag    Source = "flag"
)

// FlagOverrides holds command-line flag values.
type FlagOverrides struct {
	Backend  string
	Account  string
	Project  string
	Todolist string
	DataDir  string
	Format   string
}

// DefaultURLTTL matches the usual lifetime of a presigned storage URL.
const DefaultURLTTL = 15 * time.Minute

// DefaultConcurrency bounds parallel image resolution during a fetch.
const DefaultConcurrency = 8

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Backend:     BackendLocal,
		BaseURL:     "https://3.basecampapi.com",
		DataDir:     defaultDataDir(),
		CacheDir:    defaultCacheDir(),
		URLTTL:      DefaultURLTTL,
		Concurrency: DefaultConcurrency,
		Format:      "auto",
		Sources:     make(map[string]string),
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence: flags > env > local > global > system > defaults
func Load(overrides FlagOverrides) (*Config, error) {
	cfg := Default()

	loadFromFile(cfg, systemConfigPath(), SourceSystem)
	loadFromFile(cfg, globalConfigPath(), SourceGlobal)
	if p := localConfigPath(); p != "" {
		loadFromFile(cfg, p, SourceLocal)
	}

	LoadFromEnv(cfg)
	ApplyOverrides(cfg, overrides)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late.
func (cfg *Config) Validate() error {
	switch cfg.Backend {
	case BackendLocal, BackendBasecamp:
	default:
		return fmt.Errorf("unknown backend %q (want %q or %q)", cfg.Backend, BackendLocal, BackendBasecamp)
	}
	if cfg.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", cfg.Concurrency)
	}
	if cfg.URLTTL <= 0 {
		return fmt.Errorf("url_ttl must be positive, got %s", cfg.URLTTL)
	}
	return nil
}

func loadFromFile(cfg *Config, path string, source Source) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Path is from trusted config locations
	if err != nil {
		return // File doesn't exist, skip
	}

	var fileCfg map[string]any
	if err := json.Unmarshal(data, &fileCfg); err != nil {
		fmt.Fprintf(os.Stderr, "warning: skipping malformed config at %s: %v\n", path, err)
		return
	}

	// base_url controls where tokens are sent. A config dropped into the
	// working directory must not redirect authenticated traffic.
	untrusted := source == SourceLocal

	set := func(key string, apply func()) {
		apply()
		cfg.Sources[key] = string(source)
	}

	if v, ok := fileCfg["backend"].(string); ok && v != "" {
		set("backend", func() { cfg.Backend = v })
	}
	if v, ok := fileCfg["base_url"].(string); ok && v != "" {
		if untrusted {
			fmt.Fprintf(os.Stderr, "warning: ignoring base_url %q from %s config at %s (authority keys are not trusted from local config)\n", v, source, path)
		} else {
			set("base_url", func() { cfg.BaseURL = v })
		}
	}
	if v := getStringOrNumber(fileCfg, "account_id"); v != "" {
		set("account_id", func() { cfg.AccountID = v })
	}
	if v := getStringOrNumber(fileCfg, "project_id"); v != "" {
		set("project_id", func() { cfg.ProjectID = v })
	}
	if v := getStringOrNumber(fileCfg, "todolist_id"); v != "" {
		set("todolist_id", func() { cfg.TodolistID = v })
	}
	if v, ok := fileCfg["data_dir"].(string); ok && v != "" {
		set("data_dir", func() { cfg.DataDir = expandHome(v) })
	}
	if v, ok := fileCfg["cache_dir"].(string); ok && v != "" {
		set("cache_dir", func() { cfg.CacheDir = expandHome(v) })
	}
	if v, ok := fileCfg["format"].(string); ok && v != "" {
		set("format", func() { cfg.Format = v })
	}
	if v, ok := fileCfg["url_ttl"].(string); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			set("url_ttl", func() { cfg.URLTTL = d })
		} else {
			fmt.Fprintf(os.Stderr, "warning: ignoring url_ttl %q in %s: %v\n", v, path, err)
		}
	}
	if v, ok := fileCfg["concurrency"].(float64); ok && v == float64(int(v)) {
		set("concurrency", func() { cfg.Concurrency = int(v) })
	}
	if v, ok := fileCfg["verbose"].(float64); ok {
		iv := int(v)
		if iv >= 0 && iv <= 2 && v == float64(iv) {
			set("verbose", func() { cfg.Verbose = iv })
		}
	}
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv(cfg *Config) {
	env := func(name, key string, apply func(string) bool) {
		v := os.Getenv(name)
		if v == "" {
			return
		}
		if apply(v) {
			cfg.Sources[key] = string(SourceEnv)
		}
	}

	env("POCKETLIST_BACKEND", "backend", func(v string) bool { cfg.Backend = v; return true })
	env("POCKETLIST_BASE_URL", "base_url", func(v string) bool { cfg.BaseURL = v; return true })
	env("POCKETLIST_ACCOUNT_ID", "account_id", func(v string) bool { cfg.AccountID = v; return true })
	env("POCKETLIST_PROJECT_ID", "project_id", func(v string) bool { cfg.ProjectID = v; return true })
	env("POCKETLIST_TODOLIST_ID", "todolist_id", func(v string) bool { cfg.TodolistID = v; return true })
	env("POCKETLIST_DATA_DIR", "data_dir", func(v string) bool { cfg.DataDir = expandHome(v); return true })
	env("POCKETLIST_CACHE_DIR", "cache_dir", func(v string) bool { cfg.CacheDir = expandHome(v); return true })
	env("POCKETLIST_FORMAT", "format", func(v string) bool { cfg.Format = v; return true })
	env("POCKETLIST_URL_TTL", "url_ttl", func(v string) bool {
		d, err := time.ParseDuration(v)
		if err != nil {
			return false
		}
		cfg.URLTTL = d
		return true
	})
	env("POCKETLIST_CONCURRENCY", "concurrency", func(v string) bool {
		n, err := strconv.Atoi(v)
		if err != nil {
			return false
		}
		cfg.Concurrency = n
		return true
	})
}

// getStringOrNumber extracts a value that may be either a string or number in JSON.
func getStringOrNumber(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}

// ApplyOverrides applies non-empty flag overrides to cfg.
func ApplyOverrides(cfg *Config, o FlagOverrides) {
	if o.Backend != "" {
		cfg.Backend = o.Backend
		cfg.Sources["backend"] = string(SourceFlag)
	}
	if o.Account != "" {
		cfg.AccountID = o.Account
		cfg.Sources["account_id"] = string(SourceFlag)
	}
	if o.Project != "" {
		cfg.ProjectID = o.Project
		cfg.Sources["project_id"] = string(SourceFlag)
	}
	if o.Todolist != "" {
		cfg.TodolistID = o.Todolist
		cfg.Sources["todolist_id"] = string(SourceFlag)
	}
	if o.DataDir != "" {
		cfg.DataDir = expandHome(o.DataDir)
		cfg.Sources["data_dir"] = string(SourceFlag)
	}
	if o.Format != "" {
		cfg.Format = o.Format
		cfg.Sources["format"] = string(SourceFlag)
	}
}

// SourceOf reports where key was set, or "default".
func (cfg *Config) SourceOf(key string) string {
	if s, ok := cfg.Sources[key]; ok {
		return s
	}
	return string(SourceDefault)
}

// Path helpers

func systemConfigPath() string {
	return "/etc/pocketlist/config.json"
}

func globalConfigPath() string {
	return filepath.Join(GlobalConfigDir(), "config.json")
}

// localConfigPath returns ./.pocketlist/config.json when present.
// Parent directories are not searched.
func localConfigPath() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	p := filepath.Join(dir, ".pocketlist", "config.json")
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

// GlobalConfigDir returns the global config directory path.
func GlobalConfigDir() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "pocketlist")
}

func defaultDataDir() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "pocketlist")
}

func defaultCacheDir() string {
	if cacheDir := os.Getenv("XDG_CACHE_HOME"); cacheDir != "" {
		return filepath.Join(cacheDir, "pocketlist")
	}
	if cacheDir, err := os.UserCacheDir(); err == nil && cacheDir != "" {
		return filepath.Join(cacheDir, "pocketlist")
	}
	return filepath.Join(os.TempDir(), "pocketlist")
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// NormalizeBaseURL ensures consistent URL format (no trailing slash).
func NormalizeBaseURL(url string) string {
	return strings.TrimSuffix(url, "/")
}
