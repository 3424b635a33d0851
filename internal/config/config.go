// Package config loads the API's settings from the environment.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:",squash" validate:"required"`
	Database DatabaseConfig `mapstructure:",squash" validate:"required"`
	CORS     CORSConfig     `mapstructure:",squash"`
}

// ServerConfig contains HTTP server and logging settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	Env      string `mapstructure:"app_env" validate:"required,oneof=development production test"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// IsProduction reports whether the server runs in production mode.
func (c ServerConfig) IsProduction() bool {
	return c.Env == "production"
}

// DatabaseConfig contains connection and pool settings for PostgreSQL.
type DatabaseConfig struct {
	URL      string `mapstructure:"database_url" validate:"omitempty,url"`
	Host     string `mapstructure:"db_host" validate:"required_without=URL"`
	Port     int    `mapstructure:"db_port" validate:"required_without=URL,omitempty,gt=0,lt=65536"`
	User     string `mapstructure:"db_user" validate:"required_without=URL"`
	Password string `mapstructure:"db_pass"`
	Name     string `mapstructure:"db_name" validate:"required_without=URL"`
	Schema   string `mapstructure:"db_schema"`
	SSLMode  string `mapstructure:"db_sslmode" validate:"oneof=disable allow prefer require verify-ca verify-full"`

	QueryTimeout    time.Duration `mapstructure:"db_query_timeout" validate:"gt=0"`
	MaxOpenConns    int           `mapstructure:"db_max_open_conns" validate:"gt=0"`
	MaxIdleConns    int           `mapstructure:"db_max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"db_conn_max_lifetime" validate:"gte=0"`
	AutoMigrate     bool          `mapstructure:"db_auto_migrate"`
}

// DSN returns the connection string for the database. DATABASE_URL wins
// over the individual DB_* settings.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.Name,
	}
	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Redacted returns the DSN with the password masked, for logging.
func (c DatabaseConfig) Redacted() string {
	u, err := url.Parse(c.DSN())
	if err != nil {
		return "invalid database url"
	}
	return u.Redacted()
}

// TablePrefix returns the prefix gorm uses for table names, e.g. "app.".
func (c DatabaseConfig) TablePrefix() string {
	schema := strings.TrimSpace(c.Schema)
	if schema == "" {
		return ""
	}
	return schema + "."
}

// CORSConfig lists the origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"cors_allowed_origins" validate:"min=1"`
}
