package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	LogLevel string `mapstructure:"log_level"`

	GetTimeoutSeconds    int64         `mapstructure:"get_timeout_seconds"`
	PostTimeoutSeconds   int64         `mapstructure:"post_timeout_seconds"`
	SecureTimeoutSeconds int64         `mapstructure:"secure_timeout_seconds"`
	GetTimeout           time.Duration `mapstructure:"-"`
	PostTimeout          time.Duration `mapstructure:"-"`
	SecureTimeout        time.Duration `mapstructure:"-"`

	StrictTLS       bool `mapstructure:"strict_tls"`
	FollowRedirects bool `mapstructure:"follow_redirects"`
	MaxRedirects    int  `mapstructure:"max_redirects"`
	HTTPDebug       bool `mapstructure:"http_debug"`

	RequestsFile          string        `mapstructure:"requests_file"`
	Workers               int           `mapstructure:"workers"`
	RepeatIntervalSeconds int64         `mapstructure:"repeat_interval_seconds"`
	RepeatInterval        time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "transfer-client")
	v.SetDefault("log_level", "info")
	v.SetDefault("get_timeout_seconds", 3)
	v.SetDefault("post_timeout_seconds", 6)
	v.SetDefault("secure_timeout_seconds", 3)
	v.SetDefault("strict_tls", false)
	v.SetDefault("follow_redirects", false)
	v.SetDefault("max_redirects", 10)
	v.SetDefault("http_debug", false)
	v.SetDefault("requests_file", "./configs/requests.yaml")
	v.SetDefault("workers", 4)
	v.SetDefault("repeat_interval_seconds", 0) // single pass

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.GetTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid get_timeout_seconds (must be positive seconds)")
	}
	if cfg.PostTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid post_timeout_seconds (must be positive seconds)")
	}
	if cfg.SecureTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid secure_timeout_seconds (must be positive seconds)")
	}
	cfg.GetTimeout = time.Duration(cfg.GetTimeoutSeconds) * time.Second
	cfg.PostTimeout = time.Duration(cfg.PostTimeoutSeconds) * time.Second
	cfg.SecureTimeout = time.Duration(cfg.SecureTimeoutSeconds) * time.Second

	if cfg.FollowRedirects && cfg.MaxRedirects <= 0 {
		return nil, fmt.Errorf("invalid max_redirects (must be positive when follow_redirects is set)")
	}
	if cfg.Workers <= 0 {
		return nil, fmt.Errorf("invalid workers (must be positive)")
	}
	if cfg.RepeatIntervalSeconds < 0 {
		return nil, fmt.Errorf("invalid repeat_interval_seconds (must not be negative)")
	}
	cfg.RepeatInterval = time.Duration(cfg.RepeatIntervalSeconds) * time.Second

	return &cfg, nil
}
