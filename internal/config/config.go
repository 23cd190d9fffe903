package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/audiencepan/internal/privacy"
)

const (
	DefaultConfigFile       = "config.yaml"
	DefaultEnvFile          = ".env"
	DefaultFormat           = "terminal"
	DefaultLogLevel         = "info"
	DefaultSessionCookieEnv = "AUDIENCEPAN_SESSION_COOKIE"
	DefaultCSRFTokenEnv     = "AUDIENCEPAN_CSRF_TOKEN"
)

var (
	validFormats   = []string{"terminal", "html", "markdown", "json"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
)

// Duration wraps time.Duration for YAML unmarshaling from strings like "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Sources SourcesConfig `yaml:"sources"`
	Output  OutputConfig  `yaml:"output"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	BaseURL          string   `yaml:"base_url"`
	SessionCookieEnv string   `yaml:"session_cookie_env"`
	CSRFTokenEnv     string   `yaml:"csrf_token_env"`
	Timeout          Duration `yaml:"timeout"`

	// Resolved from env vars at load time.
	SessionCookie string `yaml:"-"`
	CSRFToken     string `yaml:"-"`
}

type SourcesConfig struct {
	Subreddits []string `yaml:"subreddits"`
	Page       string   `yaml:"page"`
}

type OutputConfig struct {
	Format  string `yaml:"format"`
	NoColor bool   `yaml:"no_color"`
}

type LogConfig struct {
	Level  string   `yaml:"level"`
	Redact []string `yaml:"redact"`
}

// Load reads config.yaml from dir, loads dir/.env into the environment when
// present, applies defaults, resolves env vars, and validates.
func Load(dir string) (*Config, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("config dir is required")
	}

	if err := loadEnvFile(filepath.Join(dir, DefaultEnvFile)); err != nil {
		return nil, err
	}

	path := filepath.Join(dir, DefaultConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(&cfg)
	resolveEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Existing env vars win over the file.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.SessionCookieEnv == "" {
		cfg.Server.SessionCookieEnv = DefaultSessionCookieEnv
	}
	if cfg.Server.CSRFTokenEnv == "" {
		cfg.Server.CSRFTokenEnv = DefaultCSRFTokenEnv
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = DefaultFormat
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
}

func resolveEnv(cfg *Config) {
	cfg.Server.SessionCookie = os.Getenv(cfg.Server.SessionCookieEnv)
	cfg.Server.CSRFToken = os.Getenv(cfg.Server.CSRFTokenEnv)
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Server.BaseURL) == "" {
		return errors.New("server.base_url is required")
	}
	u, err := url.Parse(cfg.Server.BaseURL)
	if err != nil {
		return fmt.Errorf("server.base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server.base_url: %q must be an http or https URL", cfg.Server.BaseURL)
	}
	if cfg.Server.Timeout.Duration < 0 {
		return fmt.Errorf("server.timeout: must not be negative (got %s)", cfg.Server.Timeout.Duration)
	}

	for i, name := range cfg.Sources.Subreddits {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("sources.subreddits[%d]: name is empty", i)
		}
	}

	if !slices.Contains(validFormats, cfg.Output.Format) {
		return fmt.Errorf("output.format: unknown format %q (want %s)", cfg.Output.Format, strings.Join(validFormats, ", "))
	}
	if !slices.Contains(validLogLevels, cfg.Log.Level) {
		return fmt.Errorf("log.level: unknown level %q (want %s)", cfg.Log.Level, strings.Join(validLogLevels, ", "))
	}
	if _, err := privacy.Compile(cfg.Log.Redact); err != nil {
		return fmt.Errorf("log.redact: %w", err)
	}

	return nil
}
