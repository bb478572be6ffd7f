package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with defaults: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q; want 8080", cfg.Port)
	}
	if cfg.Admission.PerEventLimit != 10 || cfg.Admission.PerEventWindow != 60*time.Second {
		t.Fatalf("per-event admission defaults = %d/%v; want 10/60s",
			cfg.Admission.PerEventLimit, cfg.Admission.PerEventWindow)
	}
	if cfg.Admission.GlobalLimit != 50 || cfg.Admission.GlobalWindow != time.Hour {
		t.Fatalf("global admission defaults = %d/%v; want 50/1h",
			cfg.Admission.GlobalLimit, cfg.Admission.GlobalWindow)
	}
	if cfg.DedupTTL != 5*time.Minute {
		t.Fatalf("DedupTTL = %v; want 5m", cfg.DedupTTL)
	}
	if cfg.Digest.Retention != 7*24*time.Hour {
		t.Fatalf("Digest.Retention = %v; want 168h", cfg.Digest.Retention)
	}
	if cfg.Redis.Addr != "" {
		t.Fatalf("Redis.Addr default = %q; want empty (in-process store)", cfg.Redis.Addr)
	}
	if cfg.APIBasePath != "/api/v1" {
		t.Fatalf("APIBasePath = %q; want /api/v1", cfg.APIBasePath)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ADMIT_EVENT_LIMIT", "3")
	t.Setenv("ADMIT_EVENT_WINDOW", "30s")
	t.Setenv("DEDUP_TTL", "90s")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("LOG_LEVEL", "warning") // normalized to warn
	t.Setenv("API_BASE_PATH", "api/v2/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Admission.PerEventLimit != 3 || cfg.Admission.PerEventWindow != 30*time.Second {
		t.Fatalf("admission overrides not applied: %+v", cfg.Admission)
	}
	if cfg.DedupTTL != 90*time.Second {
		t.Fatalf("DedupTTL = %v; want 90s", cfg.DedupTTL)
	}
	if cfg.Redis.Addr != "redis:6379" {
		t.Fatalf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("LogLevel = %q; want warn", cfg.LogLevel)
	}
	if cfg.APIBasePath != "/api/v2" {
		t.Fatalf("APIBasePath = %q; want /api/v2", cfg.APIBasePath)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"bad log level", "LOG_LEVEL", "verbose", "LOG_LEVEL"},
		{"zero event limit", "ADMIT_EVENT_LIMIT", "0", "admission limits"},
		{"negative global limit", "ADMIT_GLOBAL_LIMIT", "-1", "admission limits"},
		{"bad daily hour", "DIGEST_DAILY_HOUR", "24", "boundary hours"},
		{"zero sender workers", "SENDER_WORKERS", "0", "SENDER_WORKERS"},
		{"zero burst", "RATE_BURST", "0", "RATE_BURST"},
		{"bad sample ratio", "OTEL_TRACES_SAMPLER_ARG", "1.5", "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			if err == nil {
				t.Fatalf("expected validation error for %s=%s", tc.key, tc.value)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestMustLoad_PanicsOnInvalid(t *testing.T) {
	t.Setenv("LOG_LEVEL", "nope")
	defer func() {
		if recover() == nil {
			t.Fatalf("MustLoad did not panic on invalid config")
		}
	}()
	MustLoad()
}
