package config

import (
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so tests see pure defaults.
// envOrDefault treats empty the same as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_HOST", "APP_PORT", "APP_ENV",
		"SANITY_PROJECT_ID", "SANITY_DATASET", "SANITY_API_VERSION",
		"SANITY_API_TOKEN", "SANITY_BASE_URL", "SANITY_USE_CDN",
		"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD",
		"REVALIDATE_INTERVAL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.Env != "development" {
		t.Errorf("Env: got %q, want %q", cfg.Env, "development")
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr(): got %q, want %q", cfg.Addr(), "0.0.0.0:8080")
	}
	if cfg.RevalidateInterval != 60*time.Second {
		t.Errorf("RevalidateInterval: got %v, want %v", cfg.RevalidateInterval, 60*time.Second)
	}
	if !cfg.IsDev() {
		t.Error("IsDev() should be true by default")
	}
	if cfg.ValkeyEnabled() {
		t.Error("ValkeyEnabled() should be false with no VALKEY_HOST")
	}
}

func TestStoreBaseURLDerived(t *testing.T) {
	clearEnv(t)
	t.Setenv("SANITY_PROJECT_ID", "myproj")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.StoreBaseURL(); got != "https://myproj.api.sanity.io" {
		t.Errorf("StoreBaseURL(): got %q", got)
	}
}

func TestStoreBaseURLCDN(t *testing.T) {
	clearEnv(t)
	t.Setenv("SANITY_PROJECT_ID", "myproj")
	t.Setenv("SANITY_USE_CDN", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.StoreBaseURL(); got != "https://myproj.apicdn.sanity.io" {
		t.Errorf("StoreBaseURL(): got %q", got)
	}
}

func TestStoreBaseURLOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("SANITY_BASE_URL", "http://localhost:3999")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.StoreBaseURL(); got != "http://localhost:3999" {
		t.Errorf("StoreBaseURL(): got %q", got)
	}
}

func TestLoadRejectsBadRevalidateInterval(t *testing.T) {
	clearEnv(t)

	for _, bad := range []string{"abc", "-5", "0"} {
		t.Setenv("REVALIDATE_INTERVAL", bad)
		if _, err := Load(); err == nil {
			t.Errorf("Load() should fail for REVALIDATE_INTERVAL=%q", bad)
		}
	}
}

func TestLoadProductionRequiresProjectAndToken(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "SANITY_PROJECT_ID") {
		t.Errorf("production without project id: got err %v", err)
	}

	t.Setenv("SANITY_PROJECT_ID", "realproj")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "SANITY_API_TOKEN") {
		t.Errorf("production without token: got err %v", err)
	}

	t.Setenv("SANITY_API_TOKEN", "sk-token")
	if _, err := Load(); err != nil {
		t.Errorf("production fully configured: unexpected err %v", err)
	}
}
