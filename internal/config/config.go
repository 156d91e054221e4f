package config

import (
	"fmt"
	"time"

	yamlenv "github.com/ifuryst/go-yaml-env"

	"github.com/Tejaswini280/creater-AI-sub008/pkg/logger"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Logger    logger.Config   `yaml:"logger"`
	Auth      AuthConfig      `yaml:"auth"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Publisher PublisherConfig `yaml:"publisher"`
}

type ServerConfig struct {
	Port     int    `yaml:"port"`
	Host     string `yaml:"host"`
	Mode     string `yaml:"mode"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
	TimeZone string `yaml:"timezone"`
}

type AuthConfig struct {
	Enabled    bool   `yaml:"enabled"`
	TOTPSecret string `yaml:"totp_secret"`
}

// SchedulerConfig is constructed once at startup and read-only thereafter.
type SchedulerConfig struct {
	Timezone          string              `yaml:"timezone"`
	OptimalTimes      map[string][]string `yaml:"optimal_times"` // platform -> ordered "HH:MM" slots
	DefaultFrequency  string              `yaml:"default_frequency"`
	AutoRetry         bool                `yaml:"auto_retry"`
	MaxRetries        int                 `yaml:"max_retries"`
	ReconcileInterval string              `yaml:"reconcile_interval"`
	PublishTimeout    string              `yaml:"publish_timeout"`
}

// Location resolves the configured IANA timezone.
func (c *SchedulerConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

type PublisherConfig struct {
	LinkedIn  PlatformCredentials `yaml:"linkedin"`
	YouTube   PlatformCredentials `yaml:"youtube"`
	Instagram PlatformCredentials `yaml:"instagram"`
	Twitter   PlatformCredentials `yaml:"twitter"`
	TikTok    PlatformCredentials `yaml:"tiktok"`
}

type PlatformCredentials struct {
	Enabled     bool   `yaml:"enabled"`
	AccessToken string `yaml:"access_token"`
	AccountID   string `yaml:"account_id"`
	BaseURL     string `yaml:"base_url"`
}

func LoadConfig(configPath string) (*Config, error) {
	cfg, err := yamlenv.LoadConfig[Config](configPath)
	if err != nil {
		return nil, err
	}

	// Set default values
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5336
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "debug"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.TimeZone == "" {
		cfg.Database.TimeZone = "UTC"
	}
	if cfg.Scheduler.Timezone == "" {
		cfg.Scheduler.Timezone = "UTC"
	}
	if cfg.Scheduler.DefaultFrequency == "" {
		cfg.Scheduler.DefaultFrequency = "daily"
	}
	if cfg.Scheduler.MaxRetries == 0 {
		cfg.Scheduler.MaxRetries = 3
	}
	if cfg.Scheduler.ReconcileInterval == "" {
		cfg.Scheduler.ReconcileInterval = "1m"
	}
	if cfg.Scheduler.PublishTimeout == "" {
		cfg.Scheduler.PublishTimeout = "60s"
	}
	if cfg.Scheduler.OptimalTimes == nil {
		cfg.Scheduler.OptimalTimes = map[string][]string{
			"linkedin":  {"08:00", "12:00", "17:00"},
			"youtube":   {"14:00", "20:00"},
			"instagram": {"11:00", "19:00"},
			"twitter":   {"09:00", "13:00", "18:00"},
			"tiktok":    {"16:00", "21:00"},
		}
	}

	if _, err := cfg.Scheduler.Location(); err != nil {
		return nil, fmt.Errorf("invalid scheduler timezone %q: %w", cfg.Scheduler.Timezone, err)
	}

	return cfg, nil
}
