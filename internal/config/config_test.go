package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.AppName != "samvad-api-relay" {
		t.Fatalf("unexpected app_name: %s", cfg.AppName)
	}
	if cfg.Timeout != 30*time.Second {
		t.Fatalf("unexpected default timeout: %v", cfg.Timeout)
	}
	if cfg.NoticeDuration != 5*time.Second {
		t.Fatalf("unexpected default notice duration: %v", cfg.NoticeDuration)
	}
	if cfg.ProbeInterval != 5*time.Minute {
		t.Fatalf("unexpected default probe interval: %v", cfg.ProbeInterval)
	}
	if cfg.StorageType != "bbolt" {
		t.Fatalf("unexpected default storage type: %s", cfg.StorageType)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("BASE_URL", "https://api.example.com")
	t.Setenv("NOTICE_DURATION_MS", "2500")
	t.Setenv("API_TOKEN", "tok-1")
	t.Setenv("TENANT_ID", "acme")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BaseURL != "https://api.example.com" {
		t.Fatalf("base_url override lost: %s", cfg.BaseURL)
	}
	if cfg.NoticeDuration != 2500*time.Millisecond {
		t.Fatalf("notice duration override lost: %v", cfg.NoticeDuration)
	}
	if cfg.APIToken != "tok-1" {
		t.Fatalf("api token override lost: %s", cfg.APIToken)
	}
	if cfg.TenantID != "acme" {
		t.Fatalf("tenant id override lost: %s", cfg.TenantID)
	}
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("TIMEOUT_MS", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero timeout_ms")
	}
}

func TestLoadRejectsNonPositiveProbeInterval(t *testing.T) {
	t.Setenv("PROBE_INTERVAL", "-5")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for negative probe_interval")
	}
}
