// Package config loads runtime settings from the environment (prefix DTE_)
// and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/rezonia/dte-emitter/internal/mh"
	"github.com/rezonia/dte-emitter/internal/model"
)

// MH endpoints per environment
const (
	DefaultTestURL       = mh.TestURL
	DefaultProductionURL = mh.ProductionURL
	DefaultSignerURL     = "http://localhost:8113"
)

// Config holds all application configuration.
type Config struct {
	Environment model.Environment
	Signer      SignerConfig
	Authority   AuthorityConfig
	Log         LogConfig
	Sandbox     SandboxConfig
}

// SignerConfig holds settings of the local signing service.
type SignerConfig struct {
	URL                string
	Timeout            time.Duration
	PrivateKeyPassword string
	Active             bool
}

// AuthorityConfig holds settings of the MH identity and reception APIs.
type AuthorityConfig struct {
	TestURL          string
	ProductionURL    string
	NIT              string
	Password         string
	SubmitTimeout    time.Duration
	ProbeTimeout     time.Duration
	MaxAttempts      int
	BatchConcurrency int
	UserAgent        string
}

// BaseURL returns the API base URL of an environment.
func (c AuthorityConfig) BaseURL(env model.Environment) string {
	if env == model.EnvironmentProduction {
		return c.ProductionURL
	}
	return c.TestURL
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// SandboxConfig holds settings of the local fake signer and authority.
type SandboxConfig struct {
	Address    string
	User       string
	Password   string
	SigningKey string
}

// LoadDotEnv loads variables from .env files into the process environment.
// Missing files are not an error; variables already set are kept.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from environment variables with the DTE_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("environment", string(model.EnvironmentTest))

	// Signer defaults
	v.SetDefault("signer.url", DefaultSignerURL)
	v.SetDefault("signer.timeout", "30s")
	v.SetDefault("signer.private_key_password", "")
	v.SetDefault("signer.active", true)

	// Authority defaults
	v.SetDefault("authority.test_url", DefaultTestURL)
	v.SetDefault("authority.prod_url", DefaultProductionURL)
	v.SetDefault("authority.nit", "")
	v.SetDefault("authority.password", "")
	v.SetDefault("authority.submit_timeout", "8s")
	v.SetDefault("authority.probe_timeout", "5s")
	v.SetDefault("authority.max_attempts", 3)
	v.SetDefault("authority.batch_concurrency", 4)
	v.SetDefault("authority.user_agent", "dte-emitter")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Sandbox defaults
	v.SetDefault("sandbox.address", ":8113")
	v.SetDefault("sandbox.user", "")
	v.SetDefault("sandbox.password", "")
	v.SetDefault("sandbox.signing_key", "sandbox-signing-key")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"environment":                 "DTE_ENVIRONMENT",
		"signer.url":                  "DTE_SIGNER_URL",
		"signer.timeout":              "DTE_SIGNER_TIMEOUT",
		"signer.private_key_password": "DTE_SIGNER_PRIVATE_KEY_PASSWORD",
		"signer.active":               "DTE_SIGNER_ACTIVE",
		"authority.test_url":          "DTE_AUTHORITY_TEST_URL",
		"authority.prod_url":          "DTE_AUTHORITY_PROD_URL",
		"authority.nit":               "DTE_AUTHORITY_NIT",
		"authority.password":          "DTE_AUTHORITY_PASSWORD",
		"authority.submit_timeout":    "DTE_AUTHORITY_SUBMIT_TIMEOUT",
		"authority.probe_timeout":     "DTE_AUTHORITY_PROBE_TIMEOUT",
		"authority.max_attempts":      "DTE_AUTHORITY_MAX_ATTEMPTS",
		"authority.batch_concurrency": "DTE_AUTHORITY_BATCH_CONCURRENCY",
		"authority.user_agent":        "DTE_AUTHORITY_USER_AGENT",
		"log.level":                   "DTE_LOG_LEVEL",
		"log.format":                  "DTE_LOG_FORMAT",
		"sandbox.address":             "DTE_SANDBOX_ADDRESS",
		"sandbox.user":                "DTE_SANDBOX_USER",
		"sandbox.password":            "DTE_SANDBOX_PASSWORD",
		"sandbox.signing_key":         "DTE_SANDBOX_SIGNING_KEY",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	env, err := model.ParseEnvironment(v.GetString("environment"))
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg := &Config{Environment: env}
	cfg.Signer = SignerConfig{
		URL:                strings.TrimRight(v.GetString("signer.url"), "/"),
		Timeout:            v.GetDuration("signer.timeout"),
		PrivateKeyPassword: v.GetString("signer.private_key_password"),
		Active:             v.GetBool("signer.active"),
	}
	cfg.Authority = AuthorityConfig{
		TestURL:          strings.TrimRight(v.GetString("authority.test_url"), "/"),
		ProductionURL:    strings.TrimRight(v.GetString("authority.prod_url"), "/"),
		NIT:              model.CleanTaxID(v.GetString("authority.nit")),
		Password:         v.GetString("authority.password"),
		SubmitTimeout:    v.GetDuration("authority.submit_timeout"),
		ProbeTimeout:     v.GetDuration("authority.probe_timeout"),
		MaxAttempts:      v.GetInt("authority.max_attempts"),
		BatchConcurrency: v.GetInt("authority.batch_concurrency"),
		UserAgent:        v.GetString("authority.user_agent"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Sandbox = SandboxConfig{
		Address:    v.GetString("sandbox.address"),
		User:       model.CleanTaxID(v.GetString("sandbox.user")),
		Password:   v.GetString("sandbox.password"),
		SigningKey: v.GetString("sandbox.signing_key"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would make the clients misbehave.
func (c *Config) Validate() error {
	switch {
	case c.Signer.Timeout <= 0:
		return fmt.Errorf("config: signer.timeout must be positive")
	case c.Authority.SubmitTimeout <= 0:
		return fmt.Errorf("config: authority.submit_timeout must be positive")
	case c.Authority.ProbeTimeout <= 0:
		return fmt.Errorf("config: authority.probe_timeout must be positive")
	case c.Authority.MaxAttempts < 1:
		return fmt.Errorf("config: authority.max_attempts must be at least 1")
	case c.Authority.BatchConcurrency < 1:
		return fmt.Errorf("config: authority.batch_concurrency must be at least 1")
	}
	return nil
}
