package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	ProviderBaseURL string
	ProviderAPIKey  string
	ProviderTimeout time.Duration
	JWTSecret       string
	WebhookSecret   string
	CatalogFile     string
	SweepInterval   time.Duration
	SweepBatch      int
	ShutdownTimeout time.Duration
	LogLevel        string
}

const (
	defaultRunAddress      = ":8080"
	defaultProviderTimeout = 60 * time.Second
	defaultSweepInterval   = time.Minute
	defaultSweepBatch      = 500
	defaultShutdownTimeout = 10 * time.Second
	defaultLogLevel        = "info"
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:      getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:     getString(lookup, "DATABASE_URI", ""),
		ProviderBaseURL: getString(lookup, "PROVIDER_BASE_URL", ""),
		ProviderAPIKey:  getString(lookup, "PROVIDER_API_KEY", ""),
		ProviderTimeout: getDuration(lookup, "PROVIDER_TIMEOUT", defaultProviderTimeout),
		JWTSecret:       getString(lookup, "JWT_SECRET", ""),
		WebhookSecret:   getString(lookup, "PAYMENT_WEBHOOK_SECRET", ""),
		CatalogFile:     getString(lookup, "CATALOG_FILE", ""),
		SweepInterval:   getDuration(lookup, "EXPIRY_SWEEP_INTERVAL", defaultSweepInterval),
		SweepBatch:      getInt(lookup, "EXPIRY_SWEEP_BATCH", defaultSweepBatch),
		ShutdownTimeout: getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		LogLevel:        getString(lookup, "LOG_LEVEL", defaultLogLevel),
	}

	fs := flag.NewFlagSet("verigate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		providerTimeoutStr = cfg.ProviderTimeout.String()
		sweepIntervalStr   = cfg.SweepInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.ProviderBaseURL, "p", cfg.ProviderBaseURL, "Verification provider base URL")
	fs.StringVar(&cfg.ProviderAPIKey, "provider-key", cfg.ProviderAPIKey, "Verification provider API key")
	fs.StringVar(&providerTimeoutStr, "provider-timeout", providerTimeoutStr, "Timeout for a single provider call")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for verifying auth tokens")
	fs.StringVar(&cfg.WebhookSecret, "webhook-secret", cfg.WebhookSecret, "Shared secret of the payment webhook")
	fs.StringVar(&cfg.CatalogFile, "c", cfg.CatalogFile, "Path to check catalog YAML")
	fs.StringVar(&sweepIntervalStr, "sweep-interval", sweepIntervalStr, "Interval between expiry sweeps")
	fs.IntVar(&cfg.SweepBatch, "sweep-batch", cfg.SweepBatch, "Maximum orders expired per sweep")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ProviderTimeout, err = time.ParseDuration(providerTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid provider timeout: %w", err)
	}

	if cfg.SweepInterval, err = time.ParseDuration(sweepIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.JWTSecret, err = secretFromFile(lookup, "JWT_SECRET_FILE", cfg.JWTSecret); err != nil {
		return nil, fmt.Errorf("read jwt secret file: %w", err)
	}

	if cfg.ProviderAPIKey, err = secretFromFile(lookup, "PROVIDER_API_KEY_FILE", cfg.ProviderAPIKey); err != nil {
		return nil, fmt.Errorf("read provider key file: %w", err)
	}

	if cfg.ProviderTimeout <= 0 {
		cfg.ProviderTimeout = defaultProviderTimeout
	}

	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}

	if cfg.SweepBatch <= 0 {
		cfg.SweepBatch = defaultSweepBatch
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.ProviderBaseURL == "" {
		return nil, fmt.Errorf("provider base URL must be provided")
	}

	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, fmt.Errorf("jwt secret must be provided")
	}
	cfg.ProviderBaseURL = strings.TrimRight(cfg.ProviderBaseURL, "/")

	return cfg, nil
}

func secretFromFile(lookup envLookup, key, current string) (string, error) {
	path, ok := lookup(key)
	if !ok || path == "" {
		return current, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(content)), nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
