package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GetTimeout != 3*time.Second || cfg.PostTimeout != 6*time.Second || cfg.SecureTimeout != 3*time.Second {
		t.Fatalf("unexpected timeouts %s/%s/%s", cfg.GetTimeout, cfg.PostTimeout, cfg.SecureTimeout)
	}
	if cfg.StrictTLS || cfg.FollowRedirects || cfg.HTTPDebug {
		t.Fatalf("unexpected boolean defaults %+v", cfg)
	}
	if cfg.MaxRedirects != 10 || cfg.Workers != 4 || cfg.RepeatInterval != 0 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.RequestsFile != "./configs/requests.yaml" {
		t.Fatalf("requests_file = %q", cfg.RequestsFile)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GET_TIMEOUT_SECONDS", "10")
	t.Setenv("STRICT_TLS", "true")
	t.Setenv("WORKERS", "8")
	t.Setenv("REPEAT_INTERVAL_SECONDS", "30")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GetTimeout != 10*time.Second {
		t.Fatalf("GetTimeout = %s", cfg.GetTimeout)
	}
	if !cfg.StrictTLS || cfg.Workers != 8 || cfg.RepeatInterval != 30*time.Second || cfg.LogLevel != "debug" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"GET_TIMEOUT_SECONDS":     "0",
		"POST_TIMEOUT_SECONDS":    "-1",
		"SECURE_TIMEOUT_SECONDS":  "0",
		"WORKERS":                 "0",
		"REPEAT_INTERVAL_SECONDS": "-5",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}
