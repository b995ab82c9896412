package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"MODE", "HTTP_ADDR", "QUIZ_STORE", "DEFAULT_DURATION_SEC", "AUTH_TOKEN_TTL", "ENABLE_PREVIEW"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	if c.Mode != ModeOffline {
		t.Fatalf("mode = %q, want offline", c.Mode)
	}
	if c.HTTPAddr != ":8080" || c.QuizStore != "sql" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.DefaultDurationSec != 300 {
		t.Fatalf("default duration = %d, want 300", c.DefaultDurationSec)
	}
	if c.AuthTokenTTL != 8*time.Hour {
		t.Fatalf("token ttl = %v", c.AuthTokenTTL)
	}
	if !c.EnablePreview {
		t.Fatalf("preview should be enabled by default")
	}
	if got := c.CORSOrigins(); len(got) != 1 || got[0] != "http://localhost:3000" {
		t.Fatalf("offline origins = %v", got)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MODE", "online")
	t.Setenv("PUBLIC_URL", "https://quiz.example.org/")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REDIS_TTL", "72h")
	t.Setenv("CORS_ORIGINS_ONLINE", "https://a.example, https://b.example,")
	t.Setenv("ENABLE_PREVIEW", "no")
	c := FromEnv()
	if c.PublicURL != "https://quiz.example.org" {
		t.Fatalf("public url = %q", c.PublicURL)
	}
	if c.LogEnv != "prod" {
		t.Fatalf("log env = %q, want prod in online mode", c.LogEnv)
	}
	if c.RedisDB != 3 || c.RedisTTL != 72*time.Hour {
		t.Fatalf("redis settings = %d %v", c.RedisDB, c.RedisTTL)
	}
	if got := c.CORSOrigins(); len(got) != 2 || got[1] != "https://b.example" {
		t.Fatalf("online origins = %v", got)
	}
	if c.EnablePreview {
		t.Fatalf("ENABLE_PREVIEW=no should disable preview")
	}
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "test.env")
	if err := os.WriteFile(f, []byte("EVENTS_QUEUE=from-file\nHTTP_ADDR=:9999\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HTTP_ADDR", ":7000")
	t.Setenv("EVENTS_QUEUE", "")
	os.Unsetenv("EVENTS_QUEUE")
	t.Cleanup(func() { os.Unsetenv("EVENTS_QUEUE") })

	c := Load(f)
	if c.EventsQueue != "from-file" {
		t.Fatalf("events queue = %q, want from-file", c.EventsQueue)
	}
	if c.HTTPAddr != ":7000" {
		t.Fatalf("env var should win over file, got %q", c.HTTPAddr)
	}
}
