package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/viper"
)

var defaults = map[string]any{
	"port":      3000,
	"app_env":   "development",
	"log_level": "info",

	"database_url":         "",
	"db_host":              "localhost",
	"db_port":              5432,
	"db_user":              "postgres",
	"db_pass":              "",
	"db_name":              "tasks",
	"db_schema":            "app",
	"db_sslmode":           "disable",
	"db_query_timeout":     "5s",
	"db_max_open_conns":    25,
	"db_max_idle_conns":    10,
	"db_conn_max_lifetime": "1h",
	"db_auto_migrate":      false,

	"cors_allowed_origins": "*",
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first and never overrides variables that are
// already set.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Server.Env = strings.ToLower(cfg.Server.Env)
	cfg.Server.LogLevel = strings.ToLower(cfg.Server.LogLevel)
	cfg.CORS.AllowedOrigins = splitOrigins(cfg.CORS.AllowedOrigins)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// splitOrigins flattens comma separated entries and drops blanks.
func splitOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, entry := range in {
		for _, origin := range strings.Split(entry, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				out = append(out, origin)
			}
		}
	}
	return out
}
