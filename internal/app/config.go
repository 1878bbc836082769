package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/academy-backend/internal/data/db"
	"github.com/yungbote/academy-backend/internal/observability"
	"github.com/yungbote/academy-backend/internal/platform/envutil"
	"github.com/yungbote/academy-backend/internal/platform/logger"
)

type Config struct {
	Port     string
	LogMode  string
	DB       db.Config
	Tracing  observability.OtelConfig
	Origins  []string
	JWTKey   string
	BaseURL  string
	Redis    RedisConfig
	Attempts int
	CertIDs  int
}

type RedisConfig struct {
	Addr    string
	Channel string
}

// fileConfig is the optional YAML overlay named by APP_CONFIG_FILE. It only carries
// non-secret defaults; environment variables always win.
type fileConfig struct {
	Port     string   `yaml:"port"`
	BaseURL  string   `yaml:"public_base_url"`
	Origins  []string `yaml:"cors_allow_origins"`
	DBDriver string   `yaml:"db_driver"`
	SQLite   string   `yaml:"sqlite_path"`
	Redis    struct {
		Addr    string `yaml:"addr"`
		Channel string `yaml:"channel"`
	} `yaml:"redis"`
	Tracing struct {
		Enabled     bool    `yaml:"enabled"`
		Endpoint    string  `yaml:"endpoint"`
		SampleRatio float64 `yaml:"sample_ratio"`
	} `yaml:"tracing"`
}

func loadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig
	if strings.TrimSpace(path) == "" {
		return fc, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fc, fmt.Errorf("parse config file: %w", err)
	}
	return fc, nil
}

// LoadConfig reads .env (if present), then the YAML overlay, then the process environment.
func LoadConfig(log *logger.Logger) (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn("Could not load .env file", "error", err)
	}
	fc, err := loadFileConfig(os.Getenv("APP_CONFIG_FILE"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:    envutil.String("PORT", or(fc.Port, "8080"), log),
		LogMode: envutil.String("LOG_MODE", "development", log),
		DB: db.Config{
			Driver:           envutil.String("DB_DRIVER", or(fc.DBDriver, db.DriverPostgres), log),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost", log),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432", log),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres", log),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", "", nil),
			PostgresName:     envutil.String("POSTGRES_NAME", "academy", log),
			PostgresSSLMode:  envutil.String("POSTGRES_SSLMODE", "disable", log),
			SQLitePath:       envutil.String("SQLITE_PATH", or(fc.SQLite, "academy.db"), log),
			MaxOpenConns:     envutil.Int("DB_MAX_OPEN_CONNS", 20, log),
			MaxIdleConns:     envutil.Int("DB_MAX_IDLE_CONNS", 5, log),
		},
		Tracing: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", fc.Tracing.Enabled),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "academy-api", log),
			Environment: envutil.String("APP_ENV", "development", log),
			Version:     envutil.String("APP_VERSION", "dev", log),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", fc.Tracing.Endpoint, log),
			Headers:     observability.ParseHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS")),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", fc.Tracing.SampleRatio, log),
		},
		Origins: envutil.List("CORS_ALLOW_ORIGINS", fc.Origins),
		JWTKey:  envutil.String("JWT_SECRET_KEY", "", nil),
		BaseURL: envutil.String("PUBLIC_BASE_URL", or(fc.BaseURL, "http://localhost:8080"), log),
		Redis: RedisConfig{
			Addr:    envutil.String("REDIS_ADDR", fc.Redis.Addr, log),
			Channel: envutil.String("REDIS_NOTIFY_CHANNEL", or(fc.Redis.Channel, "notifications"), log),
		},
		Attempts: envutil.Int("ATTEMPT_CREATE_RETRIES", 3, log),
		CertIDs:  envutil.Int("CERTIFICATE_ID_RETRIES", 5, log),
	}
	if cfg.JWTKey == "" {
		return Config{}, fmt.Errorf("JWT_SECRET_KEY is required")
	}
	return cfg, nil
}

func or(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
