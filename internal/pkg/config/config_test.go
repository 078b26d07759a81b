package config_test

import (
	"strings"
	"testing"

	"github.com/samirrijal/placemap/internal/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("placemap-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:8070" {
		t.Errorf("expected default backend URL, got %q", cfg.API.BaseURL)
	}
	if cfg.Store.Mode != config.StoreRemote {
		t.Errorf("expected remote store mode, got %q", cfg.Store.Mode)
	}
	if cfg.Map.AnimationMS != 500 {
		t.Errorf("expected 500ms animation, got %d", cfg.Map.AnimationMS)
	}
	if cfg.Map.DefaultRadius != 1500 {
		t.Errorf("expected default radius 1500, got %v", cfg.Map.DefaultRadius)
	}
	if cfg.Telemetry.ServiceName != "placemap-test" {
		t.Errorf("expected service name placemap-test, got %q", cfg.Telemetry.ServiceName)
	}
	if cfg.Server.RateLimitPerMinute != 120 {
		t.Errorf("expected 120 requests per minute, got %d", cfg.Server.RateLimitPerMinute)
	}
	if cfg.Valkey.Prefix != "placemap:" {
		t.Errorf("expected valkey prefix placemap:, got %q", cfg.Valkey.Prefix)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PLACEMAP_API_BASE_URL", "http://backend:9000")
	t.Setenv("PLACEMAP_MAP_ANIMATION_MS", "250")

	cfg, err := config.Load("placemap-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.BaseURL != "http://backend:9000" {
		t.Errorf("expected env override, got %q", cfg.API.BaseURL)
	}
	if cfg.Map.AnimationMS != 250 {
		t.Errorf("expected 250ms animation, got %d", cfg.Map.AnimationMS)
	}
}

func TestValidate_LocalStoreNeedsSecret(t *testing.T) {
	t.Setenv("PLACEMAP_STORE_MODE", "local")

	_, err := config.Load("placemap-test")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "auth.jwt_secret") {
		t.Errorf("expected jwt secret complaint, got %v", err)
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Mode: "disk"}}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"server.port", "api.base_url", "store.mode", "map.animation_ms"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}
