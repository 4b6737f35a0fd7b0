package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)
	if cfg.Port != "3000" {
		t.Fatalf("expected default port 3000, got %q", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected env production, got %q", cfg.Env)
	}
	if cfg.FreeUsageLimit != 10 {
		t.Fatalf("expected free usage limit 10, got %d", cfg.FreeUsageLimit)
	}
	if cfg.LLMProvider != "gemini" || cfg.LLMModel != "gemini-2.0-flash" {
		t.Fatalf("unexpected llm defaults: %q %q", cfg.LLMProvider, cfg.LLMModel)
	}
	if cfg.ObjectStoreType != "local" || cfg.MediaProvider != "object" {
		t.Fatalf("unexpected storage defaults: %q %q", cfg.ObjectStoreType, cfg.MediaProvider)
	}
	if len(cfg.CORSAllowOrigin) != 1 || cfg.CORSAllowOrigin[0] != "http://localhost:5173" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSAllowOrigin)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("FREE_USAGE_LIMIT", "0")
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("MEDIA_PROVIDER", "Cloudinary")
	t.Setenv("MEDIA_PUBLIC_BASE_URL", "https://cdn.example/media/")

	cfg := Load()
	if cfg.Env != "production" {
		t.Fatalf("expected production, got %q", cfg.Env)
	}
	if cfg.Port != "9090" {
		t.Fatalf("expected port 9090, got %q", cfg.Port)
	}
	if len(cfg.CORSAllowOrigin) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.CORSAllowOrigin)
	}
	if cfg.FreeUsageLimit != 10 {
		t.Fatalf("non-positive limit should fall back to 10, got %d", cfg.FreeUsageLimit)
	}
	if cfg.LLMProvider != "openai" || cfg.MediaProvider != "cloudinary" {
		t.Fatalf("providers not normalized: %q %q", cfg.LLMProvider, cfg.MediaProvider)
	}
	if cfg.MediaPublicBaseURL != "https://cdn.example/media" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.MediaPublicBaseURL)
	}
}

func TestLoadWithoutEnvIsNotDev(t *testing.T) {
	for _, raw := range []string{"", "qa", "Development "} {
		t.Setenv("ENV", raw)
		cfg := Load()
		want := raw == "Development "
		if got := IsDevLike(cfg.Env); got != want {
			t.Fatalf("ENV=%q resolved to %q, dev-like=%v", raw, cfg.Env, got)
		}
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("port: \"7070\"\nredis_url: redis://cache:6379/0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg := Load()
	if cfg.Port != "7070" {
		t.Fatalf("expected port from file, got %q", cfg.Port)
	}
	if cfg.RedisURL != "redis://cache:6379/0" {
		t.Fatalf("expected redis url from file, got %q", cfg.RedisURL)
	}
}

func TestIsDevLike(t *testing.T) {
	tests := []struct {
		env  string
		want bool
	}{
		{env: "dev", want: true},
		{env: " Local ", want: true},
		{env: "production", want: false},
		{env: "test", want: false},
	}
	for _, tt := range tests {
		if got := IsDevLike(tt.env); got != tt.want {
			t.Fatalf("IsDevLike(%q) = %v, want %v", tt.env, got, tt.want)
		}
	}
}
