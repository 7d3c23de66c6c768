package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig
	Log        LogConfig
	HTTP       HTTPConfig
	Medusa     MedusaConfig
	Resend     ResendConfig
	Compliance ComplianceConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	CORSAllowOrigins []string
	TrustedProxies   []string
}

// MedusaConfig holds commerce platform connection settings
type MedusaConfig struct {
	BaseURL        string
	APIToken       string
	TimeoutSeconds int
}

// ResendConfig holds email provider settings
type ResendConfig struct {
	APIKey       string
	From         string
	StoreDomains []string
}

// ComplianceConfig holds compliance settings and env-var fallbacks for
// values normally read from the platform store metadata
type ComplianceConfig struct {
	COADir          string
	BusinessLicense string
	BusinessState   string
	BusinessType    string
	ComplianceEmail string
	MaxOrderValue   int
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with STOREOPS_ prefix (e.g., STOREOPS_MEDUSA_API_TOKEN)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("STOREOPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Medusa: MedusaConfig{
			BaseURL:        v.GetString("medusa.base_url"),
			APIToken:       v.GetString("medusa.api_token"),
			TimeoutSeconds: v.GetInt("medusa.timeout_seconds"),
		},
		Resend: ResendConfig{
			APIKey:       v.GetString("resend.api_key"),
			From:         v.GetString("resend.from"),
			StoreDomains: v.GetStringSlice("resend.store_domains"),
		},
		Compliance: ComplianceConfig{
			COADir:          v.GetString("compliance.coa_dir"),
			BusinessLicense: v.GetString("compliance.business_license"),
			BusinessState:   v.GetString("compliance.business_state"),
			BusinessType:    v.GetString("compliance.business_type"),
			ComplianceEmail: v.GetString("compliance.compliance_email"),
			MaxOrderValue:   v.GetInt("compliance.max_order_value"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "storeops-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "9001"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		if cfg.App.Env == "production" {
			cfg.Log.Format = "json"
		} else {
			cfg.Log.Format = "console"
		}
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.Medusa.BaseURL == "" {
		cfg.Medusa.BaseURL = "http://localhost:9000"
	}
	if cfg.Medusa.TimeoutSeconds == 0 {
		cfg.Medusa.TimeoutSeconds = 30
	}
	if cfg.Resend.From == "" {
		cfg.Resend.From = "noreply@thca-multistore.com"
	}
	if cfg.Compliance.COADir == "" {
		cfg.Compliance.COADir = "uploads/coa"
	}
	if cfg.Compliance.BusinessType == "" {
		cfg.Compliance.BusinessType = "retail"
	}
	if cfg.Compliance.MaxOrderValue == 0 {
		cfg.Compliance.MaxOrderValue = 1000
	}
}

// validate checks required settings
func (c *Config) validate() error {
	if c.App.Env != "development" && c.App.Env != "staging" && c.App.Env != "production" {
		return fmt.Errorf("invalid app.env %q: must be development, staging or production", c.App.Env)
	}
	if c.App.Env == "production" && c.Medusa.APIToken == "" {
		return fmt.Errorf("medusa.api_token is required in production")
	}
	return nil
}

// IsProduction returns true when running in production
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
