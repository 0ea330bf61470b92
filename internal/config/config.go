package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gridironlabs/warehouse-etl/internal/platform/logging"
)

const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

// Config stores runtime configuration for the pipeline.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string

	DBURL string

	Seasons          []int
	UnresolvedPolicy string
	LoadBatchSize    int

	NflverseBaseURL       string
	NflverseTimeout       time.Duration
	NflverseMaxRetries    int
	NflverseSeasonWorkers int
	ArchiveEnabled        bool

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}

	seasons, err := parseSeasons(getEnv("ETL_SEASONS", ""))
	if err != nil {
		return Config{}, fmt.Errorf("parse ETL_SEASONS: %w", err)
	}

	batchSize, err := getEnvAsInt("ETL_LOAD_BATCH_SIZE", 500)
	if err != nil {
		return Config{}, fmt.Errorf("parse ETL_LOAD_BATCH_SIZE: %w", err)
	}

	nflverseTimeout, err := getEnvAsDuration("NFLVERSE_TIMEOUT", 120*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse NFLVERSE_TIMEOUT: %w", err)
	}

	nflverseMaxRetries, err := getEnvAsInt("NFLVERSE_MAX_RETRIES", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse NFLVERSE_MAX_RETRIES: %w", err)
	}

	nflverseSeasonWorkers, err := getEnvAsInt("NFLVERSE_SEASON_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse NFLVERSE_SEASON_WORKERS: %w", err)
	}

	archiveEnabled, err := getEnvAsBool("ETL_ARCHIVE_ENABLED", true)
	if err != nil {
		return Config{}, fmt.Errorf("parse ETL_ARCHIVE_ENABLED: %w", err)
	}

	uptraceEnabled, err := getEnvAsBool("UPTRACE_ENABLED", false)
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}

	pyroscopeEnabled, err := getEnvAsBool("PYROSCOPE_ENABLED", false)
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}

	serviceName := getEnv("SERVICE_NAME", "warehouse-etl")

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    serviceName,
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),

		DBURL: dbURL,

		Seasons:          seasons,
		UnresolvedPolicy: getEnv("ETL_UNRESOLVED_POLICY", "drop"),
		LoadBatchSize:    batchSize,

		NflverseBaseURL:       getEnv("NFLVERSE_BASE_URL", ""),
		NflverseTimeout:       nflverseTimeout,
		NflverseMaxRetries:    nflverseMaxRetries,
		NflverseSeasonWorkers: nflverseSeasonWorkers,
		ArchiveEnabled:        archiveEnabled,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     getEnv("UPTRACE_DSN", ""),

		PyroscopeEnabled:       pyroscopeEnabled,
		PyroscopeServerAddress: getEnv("PYROSCOPE_SERVER_ADDRESS", ""),
		PyroscopeAppName:       getEnv("PYROSCOPE_APP_NAME", serviceName),
		PyroscopeAuthToken:     getEnv("PYROSCOPE_AUTH_TOKEN", ""),

		LogLevel: parseLogLevel(getEnv("LOG_LEVEL", "info")),
	}

	if cfg.UptraceEnabled && strings.TrimSpace(cfg.UptraceDSN) == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if cfg.PyroscopeEnabled && strings.TrimSpace(cfg.PyroscopeServerAddress) == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}

	return cfg, nil
}

func parseAppEnv(v string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case EnvDev:
		return EnvDev, nil
	case EnvProd:
		return EnvProd, nil
	default:
		return "", fmt.Errorf("unsupported APP_ENV %q", v)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func parseSeasons(raw string) ([]int, error) {
	parts := splitCSV(raw)
	out := make([]int, 0, len(parts))
	seen := make(map[int]struct{}, len(parts))
	for _, part := range parts {
		season, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("season %q: %w", part, err)
		}
		if season < 1999 {
			return nil, fmt.Errorf("season %d predates the published feeds", season)
		}
		if _, dup := seen[season]; dup {
			continue
		}
		seen[season] = struct{}{}
		out = append(out, season)
	}
	return out, nil
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

func getEnvAsBool(key string, fallback bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseBool(value)
	if err != nil {
		return false, err
	}

	return out, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}
