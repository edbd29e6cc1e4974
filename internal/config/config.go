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
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	BaseURL          string        `mapstructure:"base_url"`
	TimeoutMS        int64         `mapstructure:"timeout_ms"`
	NoticeDurationMS int64         `mapstructure:"notice_duration_ms"`
	Timeout          time.Duration `mapstructure:"-"`
	NoticeDuration   time.Duration `mapstructure:"-"`

	// APIToken and TenantID feed the static credential source when set;
	// calls stay anonymous otherwise.
	APIToken string `mapstructure:"api_token"`
	TenantID string `mapstructure:"tenant_id"`

	DownloadDir string `mapstructure:"download_dir"`

	NotifiersFile        string        `mapstructure:"notifiers_file"`
	TargetsFile          string        `mapstructure:"targets_file"`
	ProbeIntervalSeconds int64         `mapstructure:"probe_interval"`
	ProbeInterval        time.Duration `mapstructure:"-"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	NoticeTTLSeconds       int64         `mapstructure:"notice_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	NoticeTTL              time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "samvad-api-relay")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("base_url", "")
	v.SetDefault("timeout_ms", 30000)
	v.SetDefault("notice_duration_ms", 5000)
	v.SetDefault("api_token", "")
	v.SetDefault("tenant_id", "")
	v.SetDefault("download_dir", "./downloads")
	v.SetDefault("notifiers_file", "./configs/notifiers.yaml")
	v.SetDefault("targets_file", "./configs/targets.yaml")
	v.SetDefault("probe_interval", 300) // seconds
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/notices.db")
	v.SetDefault("notice_ttl_seconds", int64(time.Hour/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((10*time.Minute)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.TimeoutMS <= 0 {
		return nil, fmt.Errorf("invalid timeout_ms (must be positive milliseconds)")
	}
	if cfg.NoticeDurationMS <= 0 {
		return nil, fmt.Errorf("invalid notice_duration_ms (must be positive milliseconds)")
	}
	cfg.Timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	cfg.NoticeDuration = time.Duration(cfg.NoticeDurationMS) * time.Millisecond

	if cfg.ProbeIntervalSeconds <= 0 {
		return nil, fmt.Errorf("invalid probe_interval (must be positive seconds)")
	}
	cfg.ProbeInterval = time.Duration(cfg.ProbeIntervalSeconds) * time.Second

	if cfg.NoticeTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid notice_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.NoticeTTL = time.Duration(cfg.NoticeTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return &cfg, nil
}
