package config

import (
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/match-schedule/internal/platform/logging"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.MatchesURL != "https://streamed.pk/api/matches/all-today" {
		t.Fatalf("unexpected MatchesURL: %q", cfg.MatchesURL)
	}
	if cfg.StreamTimeout != 6*time.Second {
		t.Fatalf("unexpected StreamTimeout: %s", cfg.StreamTimeout)
	}
	if cfg.MatchesTimeout != 15*time.Second {
		t.Fatalf("unexpected MatchesTimeout: %s", cfg.MatchesTimeout)
	}
	if cfg.StreamTimeout >= cfg.MatchesTimeout {
		t.Fatalf("stream lookups must time out before the match list fetch")
	}
	if cfg.MaxWorkers != 20 {
		t.Fatalf("unexpected MaxWorkers: %d", cfg.MaxWorkers)
	}
	if cfg.RecencyWindow != 12*time.Hour {
		t.Fatalf("unexpected RecencyWindow: %s", cfg.RecencyWindow)
	}
	if cfg.OutputFile != "matches.json" || cfg.LogFile != "match_history.log" {
		t.Fatalf("unexpected files: %q %q", cfg.OutputFile, cfg.LogFile)
	}
	if cfg.KickOffZone != time.Local {
		t.Fatalf("expected local kick-off zone")
	}
	if !cfg.StreamCircuit.Enabled || cfg.StreamCircuit.FailureThreshold != 8 {
		t.Fatalf("unexpected circuit config: %+v", cfg.StreamCircuit)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("SCHEDULE_API_URL", "http://upstream.test/matches")
	t.Setenv("STREAM_BASE_URL", "http://upstream.test/stream")
	t.Setenv("STREAM_TIMEOUT", "2s")
	t.Setenv("STREAM_MAX_WORKERS", "5")
	t.Setenv("STREAM_RATE_LIMIT", "12.5")
	t.Setenv("RECENCY_WINDOW", "6h")
	t.Setenv("KICKOFF_TIMEZONE", "UTC")
	t.Setenv("SCHEDULE_OUTPUT_FILE", "/tmp/out/matches.json")
	t.Setenv("APP_LOG_LEVEL", "debug")
	t.Setenv("STREAM_CIRCUIT_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.MatchesURL != "http://upstream.test/matches" || cfg.StreamBaseURL != "http://upstream.test/stream" {
		t.Fatalf("unexpected urls: %q %q", cfg.MatchesURL, cfg.StreamBaseURL)
	}
	if cfg.StreamTimeout != 2*time.Second || cfg.MaxWorkers != 5 || cfg.StreamRateLimit != 12.5 {
		t.Fatalf("unexpected stream settings: %+v", cfg)
	}
	if cfg.RecencyWindow != 6*time.Hour {
		t.Fatalf("unexpected RecencyWindow: %s", cfg.RecencyWindow)
	}
	if cfg.KickOffZone.String() != "UTC" {
		t.Fatalf("unexpected zone: %s", cfg.KickOffZone)
	}
	if cfg.OutputFile != "/tmp/out/matches.json" {
		t.Fatalf("unexpected OutputFile: %q", cfg.OutputFile)
	}
	if cfg.LogLevel != logging.LevelDebug {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
	if cfg.StreamCircuit.Enabled {
		t.Fatalf("expected circuit disabled")
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"bad timeout":         {"STREAM_TIMEOUT": "soon"},
		"zero timeout":        {"STREAM_TIMEOUT": "0s"},
		"bad workers":         {"STREAM_MAX_WORKERS": "many"},
		"zero workers":        {"STREAM_MAX_WORKERS": "0"},
		"too many workers":    {"STREAM_MAX_WORKERS": "1000"},
		"bad url":             {"SCHEDULE_API_URL": "not a url"},
		"negative rate":       {"STREAM_RATE_LIMIT": "-1"},
		"unknown zone":        {"KICKOFF_TIMEZONE": "Mars/Olympus"},
		"circuit threshold":   {"STREAM_CIRCUIT_FAILURE_COUNT": "0"},
		"uptrace without dsn": {"UPTRACE_ENABLED": "true"},
	}

	for name, env := range cases {
		env := env
		t.Run(name, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv("UPTRACE_DSN", "")
			t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")
			for key, value := range env {
				t.Setenv(key, value)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %v", env)
			}
		})
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `foo=bar, uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !strings.HasPrefix(cfg.UptraceDSN, "https://token@api.uptrace.dev") {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}
