// internal/config/config_test.go
package config_test

import (
	"testing"
	"time"

	"github.com/unclebandit/minicrm-backend/internal/config"
)

func TestDefaults(t *testing.T) {
	cfg := config.Default()
	if cfg.Addr != ":8080" {
		t.Errorf("unexpected default addr %q", cfg.Addr)
	}
	if cfg.VendorSuccessRate != 0.9 {
		t.Errorf("unexpected default success rate %v", cfg.VendorSuccessRate)
	}
	if cfg.MaxConcurrentSends <= 0 {
		t.Errorf("default fan-out bound should be positive, got %d", cfg.MaxConcurrentSends)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("ADDR", ":9999")
	t.Setenv("MAX_CONCURRENT_SENDS", "4")
	t.Setenv("VENDOR_SUCCESS_RATE", "0.5")
	t.Setenv("RECEIPT_DELAY_MAX", "750ms")

	cfg := config.FromEnv()
	if cfg.Addr != ":9999" {
		t.Errorf("addr override not applied, got %q", cfg.Addr)
	}
	if cfg.MaxConcurrentSends != 4 {
		t.Errorf("fan-out override not applied, got %d", cfg.MaxConcurrentSends)
	}
	if cfg.VendorSuccessRate != 0.5 {
		t.Errorf("success rate override not applied, got %v", cfg.VendorSuccessRate)
	}
	if cfg.ReceiptDelayMax != 750*time.Millisecond {
		t.Errorf("receipt delay override not applied, got %v", cfg.ReceiptDelayMax)
	}
}

func TestFromEnvIgnoresJunk(t *testing.T) {
	t.Setenv("MAX_CONCURRENT_SENDS", "lots")
	cfg := config.FromEnv()
	if cfg.MaxConcurrentSends != config.Default().MaxConcurrentSends {
		t.Errorf("junk value should fall back to default, got %d", cfg.MaxConcurrentSends)
	}
}
