package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the CLI configuration, merged from defaults, a yaml file,
// CLASSECHAT_* environment variables and flags (in that order).
type Config struct {
	// APIBase is the API root, e.g. "http://localhost:3000/api".
	APIBase string `yaml:"api_base"`
	// Transport selects the HTTP adapter: nethttp (default) or fasthttp.
	Transport string `yaml:"transport"`
	APIKey    string `yaml:"api_key"`
	// PollInterval is the feed refresh cadence, e.g. "5s".
	PollInterval string `yaml:"poll_interval"`
	// MetricsAddr, when set, exposes /metrics on that address.
	MetricsAddr string        `yaml:"metrics_addr"`
	Logging     LoggingConfig `yaml:"logging"`
	User        UserConfig    `yaml:"user"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// UserConfig identifies the acting user.
type UserConfig struct {
	ID   int64  `yaml:"id"`
	Name string `yaml:"name"`
	Role string `yaml:"role"`
}

func Default() Config {
	return Config{
		APIBase:      "http://localhost:3000/api",
		Transport:    "nethttp",
		PollInterval: "5s",
	}
}

// Load builds the config. path may be empty, in which case
// $HOME/.classechat.yaml is used when present. A missing file is not an
// error; a malformed one is.
func Load(path string) (Config, error) {
	// .env is optional and only fills the process environment.
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			candidate := filepath.Join(home, ".classechat.yaml")
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CLASSECHAT_API_BASE"); v != "" {
		cfg.APIBase = v
	}
	if v := os.Getenv("CLASSECHAT_TRANSPORT"); v != "" {
		cfg.Transport = v
	}
	if v := os.Getenv("CLASSECHAT_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("CLASSECHAT_POLL_INTERVAL"); v != "" {
		cfg.PollInterval = v
	}
	if v := os.Getenv("CLASSECHAT_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("CLASSECHAT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("CLASSECHAT_USER_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.User.ID = id
		}
	}
	if v := os.Getenv("CLASSECHAT_USER_NAME"); v != "" {
		cfg.User.Name = v
	}
	if v := os.Getenv("CLASSECHAT_USER_ROLE"); v != "" {
		cfg.User.Role = v
	}
}

// Interval parses PollInterval, falling back to 5s on a bad value.
func (c Config) Interval() time.Duration {
	d, err := time.ParseDuration(c.PollInterval)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// Validate checks the fields every command needs.
func (c Config) Validate() error {
	if c.APIBase == "" {
		return fmt.Errorf("api_base is required")
	}
	if c.User.ID <= 0 {
		return fmt.Errorf("user id is required (set user.id, CLASSECHAT_USER_ID or --user)")
	}
	switch c.Transport {
	case "", "nethttp", "fasthttp":
	default:
		return fmt.Errorf("unknown transport %q", c.Transport)
	}
	return nil
}
