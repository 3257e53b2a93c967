package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/caretaker-backend/internal/clients/redis"
	"github.com/yungbote/caretaker-backend/internal/data/db"
	"github.com/yungbote/caretaker-backend/internal/observability"
	"github.com/yungbote/caretaker-backend/internal/platform/envutil"
	"github.com/yungbote/caretaker-backend/internal/platform/logger"
	"github.com/yungbote/caretaker-backend/internal/services"
)

type Config struct {
	Port         string `yaml:"port"`
	JWTSecretKey string `yaml:"jwt_secret_key"`

	DB    db.Config     `yaml:"db"`
	Redis redis.Options `yaml:"redis"`

	InsightsWindowDays int `yaml:"insights_window_days"`

	MetricsEnabled        bool          `yaml:"metrics_enabled"`
	MetricsAddr           string        `yaml:"metrics_addr"`
	MetricsScrapeInterval time.Duration `yaml:"metrics_scrape_interval"`

	Otel observability.OtelConfig `yaml:"otel"`

	AllowedOrigins []string `yaml:"cors_allowed_origins"`
}

func defaultConfig() Config {
	return Config{
		Port:         "8080",
		JWTSecretKey: "defaultsecret",
		DB: db.Config{
			Driver:       db.DriverPostgres,
			PostgresHost: "localhost",
			PostgresPort: "5432",
			PostgresUser: "postgres",
			PostgresName: "caretaker",
		},
		Redis:              redis.Options{TTL: 10 * time.Minute},
		InsightsWindowDays: services.DefaultInsightsWindowDays,
		MetricsAddr:        ":9090",
		Otel: observability.OtelConfig{
			ServiceName: "caretaker-backend",
			Environment: "development",
			SampleRatio: 1,
		},
	}
}

// LoadConfig layers defaults, the optional YAML file named by CONFIG_FILE,
// and then the environment. Environment variables win.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := defaultConfig()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
		log.Info("Loaded config file", "path", path)
	}

	cfg.Port = envutil.String("PORT", cfg.Port, log)
	cfg.JWTSecretKey = envutil.String("JWT_SECRET_KEY", cfg.JWTSecretKey, log)

	cfg.DB.Driver = envutil.String("DB_DRIVER", cfg.DB.Driver, log)
	cfg.DB.PostgresHost = envutil.String("POSTGRES_HOST", cfg.DB.PostgresHost, log)
	cfg.DB.PostgresPort = envutil.String("POSTGRES_PORT", cfg.DB.PostgresPort, log)
	cfg.DB.PostgresUser = envutil.String("POSTGRES_USER", cfg.DB.PostgresUser, log)
	cfg.DB.PostgresPassword = envutil.String("POSTGRES_PASSWORD", cfg.DB.PostgresPassword, log)
	cfg.DB.PostgresName = envutil.String("POSTGRES_NAME", cfg.DB.PostgresName, log)
	cfg.DB.PostgresSSLMode = envutil.String("POSTGRES_SSLMODE", cfg.DB.PostgresSSLMode, log)
	cfg.DB.SQLitePath = envutil.String("SQLITE_PATH", cfg.DB.SQLitePath, log)

	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr, log)
	cfg.Redis.Password = envutil.String("REDIS_PASSWORD", cfg.Redis.Password, log)
	cfg.Redis.DB = envutil.Int("REDIS_DB", cfg.Redis.DB, log)
	cfg.Redis.TTL = envutil.Duration("INSIGHTS_CACHE_TTL", cfg.Redis.TTL, log)

	cfg.InsightsWindowDays = envutil.Int("INSIGHTS_WINDOW_DAYS", cfg.InsightsWindowDays, log)

	cfg.MetricsEnabled = envutil.Bool("METRICS_ENABLED", cfg.MetricsEnabled, log)
	cfg.MetricsAddr = envutil.String("METRICS_ADDR", cfg.MetricsAddr, log)
	cfg.MetricsScrapeInterval = envutil.Duration("METRICS_SCRAPE_INTERVAL", cfg.MetricsScrapeInterval, log)

	cfg.Otel.Enabled = envutil.Bool("OTEL_ENABLED", cfg.Otel.Enabled, log)
	cfg.Otel.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.Otel.ServiceName, log)
	cfg.Otel.Environment = envutil.String("OTEL_ENVIRONMENT", cfg.Otel.Environment, log)
	cfg.Otel.Version = envutil.String("OTEL_SERVICE_VERSION", cfg.Otel.Version, log)
	cfg.Otel.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Otel.Endpoint, log)
	cfg.Otel.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Otel.Insecure, log)
	cfg.Otel.SampleRatio = envutil.Float("OTEL_SAMPLE_RATIO", cfg.Otel.SampleRatio, log)
	if raw := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); raw != "" {
		cfg.Otel.Headers = observability.ParseHeaders(raw)
	}

	cfg.AllowedOrigins = envutil.List("CORS_ALLOWED_ORIGINS", cfg.AllowedOrigins, log)

	if cfg.JWTSecretKey == "defaultsecret" {
		log.Warn("JWT_SECRET_KEY is not set; using the development secret")
	}
	return cfg, nil
}
