// Package config holds runtime configuration for the campaign service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the full set of tunables for the server and worker
// binaries. Values come from environment variables (a .env file is
// loaded by the binaries before this runs); anything unset keeps the
// defaults below.
type Config struct {
	Addr        string
	DatabaseURL string
	AMQPURL     string

	// MaxConcurrentSends bounds the dispatch fan-out per launched
	// campaign. 0 disables the bound.
	MaxConcurrentSends int

	// Simulated vendor tuning.
	VendorSuccessRate  float64
	VendorSendDelayMin time.Duration
	VendorSendDelayMax time.Duration
	ReceiptDelayMin    time.Duration
	ReceiptDelayMax    time.Duration
}

// Default returns the configuration used when nothing is set. The
// sqlite URL keeps local development free of external services.
func Default() *Config {
	return &Config{
		Addr:               ":8080",
		DatabaseURL:        "sqlite://minicrm.db",
		AMQPURL:            "",
		MaxConcurrentSends: 16,
		VendorSuccessRate:  0.9,
		VendorSendDelayMin: 20 * time.Millisecond,
		VendorSendDelayMax: 150 * time.Millisecond,
		ReceiptDelayMin:    200 * time.Millisecond,
		ReceiptDelayMax:    2 * time.Second,
	}
}

// FromEnv returns the defaults overridden by whatever environment
// variables are present.
func FromEnv() *Config {
	cfg := Default()
	cfg.Addr = getEnv("ADDR", cfg.Addr)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.AMQPURL = getEnv("AMQP_URL", cfg.AMQPURL)
	cfg.MaxConcurrentSends = getEnvInt("MAX_CONCURRENT_SENDS", cfg.MaxConcurrentSends)
	cfg.VendorSuccessRate = getEnvFloat("VENDOR_SUCCESS_RATE", cfg.VendorSuccessRate)
	cfg.VendorSendDelayMin = getEnvDuration("VENDOR_SEND_DELAY_MIN", cfg.VendorSendDelayMin)
	cfg.VendorSendDelayMax = getEnvDuration("VENDOR_SEND_DELAY_MAX", cfg.VendorSendDelayMax)
	cfg.ReceiptDelayMin = getEnvDuration("RECEIPT_DELAY_MIN", cfg.ReceiptDelayMin)
	cfg.ReceiptDelayMax = getEnvDuration("RECEIPT_DELAY_MAX", cfg.ReceiptDelayMax)
	return cfg
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
