package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// secretEnv lists the env names accepted for each secret, canonical APP_* first.
var secretEnv = map[string][]string{
	"postgres.user":     {"APP_POSTGRES_USER", "POSTGRES_USER", "DB_USER"},
	"postgres.password": {"APP_POSTGRES_PASSWORD", "POSTGRES_PASSWORD", "DB_PASSWORD"},
	"postgres.db_name":  {"APP_POSTGRES_DB", "POSTGRES_DB", "DB_NAME"},
	"postgres.host":     {"APP_POSTGRES_HOST", "POSTGRES_HOST", "DB_HOST"},
	"postgres.port":     {"APP_POSTGRES_PORT", "POSTGRES_PORT", "DB_PORT"},
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	for key, names := range secretEnv {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	setDefaults(v)

	var config Config
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "tournament-stats-service")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.port", 8080)

	v.SetDefault("http.read_timeout", 10)
	v.SetDefault("http.write_timeout", 10)
	v.SetDefault("http.shutdown_timeout", 15)
	v.SetDefault("http.allowed_origins", []string{"*"})
	v.SetDefault("http.write_rps", 20)
	v.SetDefault("http.write_burst", 40)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 1)
	v.SetDefault("postgres.max_conn_lifetime", 3600)
	v.SetDefault("postgres.max_conn_idle_time", 300)
	v.SetDefault("postgres.health_check_period", 30)

	v.SetDefault("storage.driver", StorageDriverPostgres)
	v.SetDefault("storage.auto_migrate", false)
}

// Validate checks the sections the selected storage driver depends on.
// Postgres credentials are only required when the postgres driver is active.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c.App); err != nil {
		return fmt.Errorf("app config validation error: %w", err)
	}
	if err := v.Struct(c.HTTP); err != nil {
		return fmt.Errorf("http config validation error: %w", err)
	}
	if err := v.Struct(c.Storage); err != nil {
		return fmt.Errorf("storage config validation error: %w", err)
	}
	if c.Storage.Driver != StorageDriverPostgres {
		return nil
	}
	if err := v.Struct(c.Postgres); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			missing := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				missing = append(missing, "postgres."+strings.ToLower(fe.Field()))
			}
			return fmt.Errorf("postgres config invalid: %s", strings.Join(missing, ", "))
		}
		return fmt.Errorf("postgres config validation error: %w", err)
	}
	return nil
}
