package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/match-schedule/internal/platform/logging"
	"github.com/riskibarqy/match-schedule/internal/platform/resilience"
)

// Config stores runtime configuration for one updater run.
type Config struct {
	AppEnv         string `validate:"oneof=dev stage prod"`
	ServiceName    string `validate:"required"`
	ServiceVersion string

	MatchesURL     string        `validate:"required,url"`
	MatchesTimeout time.Duration `validate:"gt=0"`
	BadgeBaseURL   string        `validate:"required,url"`
	StreamBaseURL  string        `validate:"required,url"`
	StreamTimeout  time.Duration `validate:"gt=0"`
	// StreamRateLimit is lookups per second; zero disables limiting.
	StreamRateLimit float64 `validate:"gte=0"`
	StreamCircuit   resilience.CircuitBreakerConfig

	MaxWorkers    int           `validate:"min=1,max=256"`
	RecencyWindow time.Duration `validate:"gt=0"`
	KickOffZone   *time.Location `validate:"required"`

	OutputFile string `validate:"required"`
	LogFile    string `validate:"required"`

	UptraceEnabled bool
	UptraceDSN     string `validate:"required_if=UptraceEnabled true"`

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    strings.TrimSpace(getEnv("SERVICE_NAME", "match-schedule")),
		ServiceVersion: strings.TrimSpace(getEnv("SERVICE_VERSION", "dev")),
		MatchesURL:     strings.TrimSpace(getEnv("SCHEDULE_API_URL", "https://streamed.pk/api/matches/all-today")),
		BadgeBaseURL:   strings.TrimSpace(getEnv("BADGE_BASE_URL", "https://streamed.pk/api/images/badge")),
		StreamBaseURL:  strings.TrimSpace(getEnv("STREAM_BASE_URL", "https://streamed.pk/api/stream")),
		OutputFile:     strings.TrimSpace(getEnv("SCHEDULE_OUTPUT_FILE", "matches.json")),
		LogFile:        strings.TrimSpace(getEnv("SCHEDULE_LOG_FILE", "match_history.log")),
		UptraceDSN:     strings.TrimSpace(getEnv("UPTRACE_DSN", "")),
		LogLevel:       logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
	}

	if cfg.MatchesTimeout, err = time.ParseDuration(getEnv("SCHEDULE_API_TIMEOUT", "15s")); err != nil {
		return Config{}, fmt.Errorf("parse SCHEDULE_API_TIMEOUT: %w", err)
	}
	if cfg.StreamTimeout, err = time.ParseDuration(getEnv("STREAM_TIMEOUT", "6s")); err != nil {
		return Config{}, fmt.Errorf("parse STREAM_TIMEOUT: %w", err)
	}
	if cfg.StreamRateLimit, err = strconv.ParseFloat(getEnv("STREAM_RATE_LIMIT", "0"), 64); err != nil {
		return Config{}, fmt.Errorf("parse STREAM_RATE_LIMIT: %w", err)
	}
	if cfg.MaxWorkers, err = getEnvAsInt("STREAM_MAX_WORKERS", 20); err != nil {
		return Config{}, fmt.Errorf("parse STREAM_MAX_WORKERS: %w", err)
	}
	if cfg.RecencyWindow, err = time.ParseDuration(getEnv("RECENCY_WINDOW", "12h")); err != nil {
		return Config{}, fmt.Errorf("parse RECENCY_WINDOW: %w", err)
	}
	if cfg.KickOffZone, err = parseLocation(getEnv("KICKOFF_TIMEZONE", "Local")); err != nil {
		return Config{}, fmt.Errorf("parse KICKOFF_TIMEZONE: %w", err)
	}

	circuitDefaults := resilience.DefaultCircuitBreakerConfig()
	circuitEnabled, err := strconv.ParseBool(getEnv("STREAM_CIRCUIT_ENABLED", strconv.FormatBool(circuitDefaults.Enabled)))
	if err != nil {
		return Config{}, fmt.Errorf("parse STREAM_CIRCUIT_ENABLED: %w", err)
	}
	circuitFailureCount, err := getEnvAsInt("STREAM_CIRCUIT_FAILURE_COUNT", circuitDefaults.FailureThreshold)
	if err != nil {
		return Config{}, fmt.Errorf("parse STREAM_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if circuitFailureCount < 1 {
		return Config{}, fmt.Errorf("STREAM_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	circuitOpenTimeout, err := time.ParseDuration(getEnv("STREAM_CIRCUIT_OPEN_TIMEOUT", circuitDefaults.OpenTimeout.String()))
	if err != nil {
		return Config{}, fmt.Errorf("parse STREAM_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if circuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("STREAM_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	circuitHalfOpenMaxReq, err := getEnvAsInt("STREAM_CIRCUIT_HALF_OPEN_MAX_REQ", circuitDefaults.HalfOpenMaxReq)
	if err != nil {
		return Config{}, fmt.Errorf("parse STREAM_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if circuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("STREAM_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	cfg.StreamCircuit = resilience.CircuitBreakerConfig{
		Enabled:          circuitEnabled,
		FailureThreshold: circuitFailureCount,
		OpenTimeout:      circuitOpenTimeout,
		HalfOpenMaxReq:   circuitHalfOpenMaxReq,
	}

	if cfg.UptraceEnabled, err = strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate reports the first invalid field by its Go name.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("invalid config %s: failed %q (value=%v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

func parseLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
