// Package config loads client settings from a YAML file, a .env file and
// the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
)

type Config struct {
	APIBaseURL string         `yaml:"api_base_url"`
	WebBaseURL string         `yaml:"web_base_url"`
	Supabase   SupabaseConfig `yaml:"supabase"`
	Timeout    time.Duration  `yaml:"timeout"`
	DataDir    string         `yaml:"data_dir"`
	Search     SearchConfig   `yaml:"search"`
	Debug      bool           `yaml:"debug"`
}

type SupabaseConfig struct {
	URL     string `yaml:"url"`
	AnonKey string `yaml:"anon_key"`
	// OAuthRedirectPort is the local port the OAuth callback listens on.
	OAuthRedirectPort int `yaml:"oauth_redirect_port"`
}

type SearchConfig struct {
	Limit    int  `yaml:"limit"`
	Semantic bool `yaml:"semantic"`
}

// KeyringService is the OS keyring service the session is stored under.
const KeyringService = "recsys"

func DefaultConfig() *Config {
	dataDir := ".recsys"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".recsys")
	}
	return &Config{
		APIBaseURL: "http://localhost:8000/api",
		WebBaseURL: "http://localhost:3000",
		Supabase: SupabaseConfig{
			OAuthRedirectPort: 54321,
		},
		Timeout: 30 * time.Second,
		DataDir: dataDir,
		Search: SearchConfig{
			Limit:    core.DefaultSearchLimit,
			Semantic: true,
		},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/recsys/config.yaml or the platform
// equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "recsys", "config.yaml")
}

// Load reads configPath (DefaultPath when empty) on top of the defaults,
// then applies .env and environment overrides. A missing file is not an
// error.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultPath()
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", configPath, err)
		}
	}

	if err := cfg.overrideFromEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv loads path into the environment without overriding variables
// that are already set.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func (c *Config) overrideFromEnv() error {
	if v := firstEnv("RECSYS_API_BASE_URL", "NEXT_PUBLIC_API_URL"); v != "" {
		c.APIBaseURL = v
	}
	if v := os.Getenv("RECSYS_WEB_BASE_URL"); v != "" {
		c.WebBaseURL = v
	}
	if v := firstEnv("SUPABASE_URL", "NEXT_PUBLIC_SUPABASE_URL"); v != "" {
		c.Supabase.URL = v
	}
	if v := firstEnv("SUPABASE_ANON_KEY", "NEXT_PUBLIC_SUPABASE_ANON_KEY"); v != "" {
		c.Supabase.AnonKey = v
	}
	if v := os.Getenv("RECSYS_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("RECSYS_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := os.Getenv("RECSYS_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("RECSYS_DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("RECSYS_DEBUG: %w", err)
		}
		c.Debug = b
	}
	return nil
}

// Validate checks the settings needed to talk to the backend. Supabase
// settings are checked separately by RequireAuth since several commands
// work without them.
func (c *Config) Validate() error {
	if err := checkURL("api_base_url", c.APIBaseURL); err != nil {
		return err
	}
	if err := checkURL("web_base_url", c.WebBaseURL); err != nil {
		return err
	}
	if c.Supabase.URL != "" {
		if err := checkURL("supabase.url", c.Supabase.URL); err != nil {
			return err
		}
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Search.Limit < 1 || c.Search.Limit > core.MaxSearchLimit {
		return fmt.Errorf("search.limit must be between 1 and %d, got %d", core.MaxSearchLimit, c.Search.Limit)
	}
	if p := c.Supabase.OAuthRedirectPort; p < 0 || p > 65535 {
		return fmt.Errorf("supabase.oauth_redirect_port out of range: %d", p)
	}
	return nil
}

// ErrAuthNotConfigured is returned when the identity provider settings are
// missing.
var ErrAuthNotConfigured = errors.New("supabase.url and supabase.anon_key must be set to sign in")

// RequireAuth reports whether the identity provider is configured.
func (c *Config) RequireAuth() error {
	if c.Supabase.URL == "" || c.Supabase.AnonKey == "" {
		return ErrAuthNotConfigured
	}
	return nil
}

func checkURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", field, raw)
	}
	return nil
}

// HistoryPath is the sqlite file holding recent searches.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

func (c *Config) Save(configPath string) error {
	if configPath == "" {
		configPath = DefaultPath()
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0o600)
}
