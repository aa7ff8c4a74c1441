package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the example application configuration. Values are loaded
// from an optional YAML file and overridden by environment variables.
type Config struct {
	Address      string `yaml:"address"`
	Environment  string `yaml:"environment"`
	CookieSecret string `yaml:"cookie_secret"`
	CSRFSecret   string `yaml:"csrf_secret"`
	SentryDSN    string `yaml:"sentry_dsn"`

	Storage StorageConfig `yaml:"storage"`
}

// StorageConfig holds optional S3-compatible storage settings.
// Storage stays disabled when the bucket is empty.
type StorageConfig struct {
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	PublicURL string `yaml:"public_url"`
}

// LoadConfig reads the YAML config at path when it exists and applies
// environment overrides on top.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Address:     ":8080",
		Environment: "development",
	}

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	overrideString(&cfg.Address, "ADDRESS")
	overrideString(&cfg.Environment, "ENVIRONMENT")
	overrideString(&cfg.CookieSecret, "COOKIE_SECRET")
	overrideString(&cfg.CSRFSecret, "CSRF_SECRET")
	overrideString(&cfg.SentryDSN, "SENTRY_DSN")
	overrideString(&cfg.Storage.Bucket, "STORAGE_BUCKET")
	overrideString(&cfg.Storage.AccessKey, "STORAGE_ACCESS_KEY")
	overrideString(&cfg.Storage.SecretKey, "STORAGE_SECRET_KEY")
	overrideString(&cfg.Storage.Endpoint, "STORAGE_ENDPOINT")
	overrideString(&cfg.Storage.Region, "STORAGE_REGION")
	overrideString(&cfg.Storage.PublicURL, "STORAGE_PUBLIC_URL")

	if cfg.CSRFSecret == "" {
		return nil, fmt.Errorf("csrf_secret is required")
	}
	return cfg, nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
