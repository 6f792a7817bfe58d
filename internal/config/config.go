package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultAPIBaseURL is the base address used when none is configured.
const DefaultAPIBaseURL = "http://127.0.0.1:8000/v1"

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName        string `mapstructure:"app_name"`
	Env            string `mapstructure:"app_env"`
	LogLevel       string `mapstructure:"log_level"`
	APIBaseURL     string `mapstructure:"api_base_url"`
	EndpointsFile  string `mapstructure:"endpoints_file"`
	PublishersFile string `mapstructure:"publishers_file"`
	MetricsAddr    string `mapstructure:"metrics_addr"`

	SyncIntervalSeconds int64         `mapstructure:"sync_interval"`
	SyncRequestDelayMs  int64         `mapstructure:"sync_request_delay_ms"`
	SyncInterval        time.Duration `mapstructure:"-"`
	SyncRequestDelay    time.Duration `mapstructure:"-"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	return LoadWithOverrides(nil)
}

// LoadWithOverrides is Load with explicit values (e.g. command-line flags)
// that take precedence over the environment. Overrides are validated like
// any other source.
func LoadWithOverrides(overrides map[string]any) (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "estecon-client")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("api_base_url", DefaultAPIBaseURL)
	v.SetDefault("endpoints_file", "./configs/endpoints.yaml")
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("metrics_addr", "")
	v.SetDefault("sync_interval", 900) // seconds
	v.SetDefault("sync_request_delay_ms", 500)
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/snapshots.db")
	v.SetDefault("storage_ttl_seconds", int64((24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((6*time.Hour)/time.Second))

	v.AutomaticEnv()
	for key, val := range overrides {
		v.Set(key, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validateBaseURL(cfg.APIBaseURL); err != nil {
		return nil, err
	}

	if cfg.SyncIntervalSeconds <= 0 {
		return nil, fmt.Errorf("invalid sync_interval (must be positive seconds)")
	}
	if cfg.SyncRequestDelayMs < 0 {
		return nil, fmt.Errorf("invalid sync_request_delay_ms (must not be negative)")
	}
	cfg.SyncInterval = time.Duration(cfg.SyncIntervalSeconds) * time.Second
	cfg.SyncRequestDelay = time.Duration(cfg.SyncRequestDelayMs) * time.Millisecond

	if cfg.StorageTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return &cfg, nil
}

func validateBaseURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("api_base_url is required")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api_base_url %q (expected absolute http(s) url)", raw)
	}
	return nil
}
