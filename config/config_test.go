package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr() != "0.0.0.0:9090" {
		t.Errorf("addr = %q", cfg.Server.Addr())
	}
	if cfg.Realtime.AllowAnonymous {
		t.Error("anonymous connections should be disabled by default")
	}
	if cfg.Realtime.SendBufferSize != 256 {
		t.Errorf("send buffer = %d, want 256", cfg.Realtime.SendBufferSize)
	}
	if cfg.Realtime.DedupWindow != 2*time.Minute {
		t.Errorf("dedup window = %s, want 2m", cfg.Realtime.DedupWindow)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Errorf("origins = %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("SERVER_PORT", "8088")
	t.Setenv("REALTIME_ALLOW_ANONYMOUS", "true")
	t.Setenv("REALTIME_DEDUP_WINDOW", "30s")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8088 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if !cfg.Realtime.AllowAnonymous {
		t.Error("expected anonymous mode")
	}
	if cfg.Realtime.DedupWindow != 30*time.Second {
		t.Errorf("dedup window = %s", cfg.Realtime.DedupWindow)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.CORS.AllowedOrigins) != len(want) {
		t.Fatalf("origins = %v", cfg.CORS.AllowedOrigins)
	}
	for i := range want {
		if cfg.CORS.AllowedOrigins[i] != want[i] {
			t.Errorf("origin[%d] = %q, want %q", i, cfg.CORS.AllowedOrigins[i], want[i])
		}
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("MESSAGE_RATE_WINDOW", "five seconds")

	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")

	path := filepath.Join(t.TempDir(), "realms.env")
	if err := os.WriteFile(path, []byte("JWT_SECRET=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.JWT.Secret != "from-file" {
		t.Errorf("secret = %q", cfg.JWT.Secret)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("expected error for a missing env file")
	}
}
