package config

import (
	"github.com/maxviazov/tournament-stats-service/internal/logger"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	App      AppConfig           `mapstructure:"app"`
	HTTP     HTTPConfig          `mapstructure:"http"`
	Logger   logger.LoggerConfig `mapstructure:"logger"`
	Postgres PostgresConfig      `mapstructure:"postgres"`
	Storage  StorageConfig       `mapstructure:"storage"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env"`
	Port    int    `mapstructure:"port" validate:"min=1,max=65535"`
}

// HTTPConfig tunes the public listener. Timeouts are in seconds.
type HTTPConfig struct {
	ReadTimeout     int      `mapstructure:"read_timeout" validate:"min=0"`
	WriteTimeout    int      `mapstructure:"write_timeout" validate:"min=0"`
	ShutdownTimeout int      `mapstructure:"shutdown_timeout" validate:"min=0"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	// WriteRPS limits mutating requests per client IP; zero disables the limiter.
	WriteRPS   float64 `mapstructure:"write_rps" validate:"min=0"`
	WriteBurst int     `mapstructure:"write_burst" validate:"min=0"`
}

// PostgresConfig holds connection and pool settings. Durations are in seconds.
type PostgresConfig struct {
	Host              string `mapstructure:"host" validate:"required"`
	Port              int    `mapstructure:"port" validate:"min=1,max=65535"`
	User              string `mapstructure:"user" validate:"required"`
	Password          string `mapstructure:"password" validate:"required"`
	DBName            string `mapstructure:"db_name" validate:"required"`
	SSLMode           string `mapstructure:"sslmode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	MaxConns          int32  `mapstructure:"max_conns" validate:"min=0"`
	MinConns          int32  `mapstructure:"min_conns" validate:"min=0"`
	MaxConnLifetime   int    `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   int    `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod int    `mapstructure:"health_check_period"`
}

type StorageConfig struct {
	Driver      string `mapstructure:"driver" validate:"oneof=postgres memory"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}
