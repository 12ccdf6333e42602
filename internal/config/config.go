// Package config loads the process configuration once at startup.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the immutable application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Addr            string
	Env             string // dev or prod
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string // database name, or file path for sqlite
	SSLMode  string
}

type AuthConfig struct {
	SecretKey  []byte
	Algorithm  string
	AccessTTL  time.Duration
	BcryptCost int
}

// Load reads .env (if present), then the environment, then command-line flags.
// Missing required settings are reported together.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("social-api", flag.ContinueOnError)
	addr := fs.String("addr", getEnv("SERVER_ADDR", ":8000"), "listen address")
	driver := fs.String("db-driver", getEnv("DATABASE_DRIVER", DriverPostgres), "database driver: postgres or sqlite")
	dev := fs.Bool("dev", false, "development logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	var problems []error
	required := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			problems = append(problems, fmt.Errorf("%s is required", key))
		}
		return v
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:            *addr,
			Env:             getEnv("APP_ENV", "prod"),
			CORSOrigins:     getSliceEnv("CORS_ORIGINS", []string{"*"}),
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{Driver: *driver, SSLMode: getEnv("DATABASE_SSLMODE", "disable")},
		Auth: AuthConfig{
			SecretKey:  []byte(required("SECRET_KEY")),
			Algorithm:  required("ALGORITHM"),
			BcryptCost: bcrypt.DefaultCost,
		},
	}
	if *dev {
		cfg.Server.Env = "dev"
	}

	if v := required("ACCESS_TOKEN_EXPIRE_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			problems = append(problems, fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be a positive integer, got %q", v))
		}
		cfg.Auth.AccessTTL = time.Duration(n) * time.Minute
	}

	if v := os.Getenv("BCRYPT_COST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < bcrypt.MinCost || n > bcrypt.MaxCost {
			problems = append(problems, fmt.Errorf("BCRYPT_COST must be in [%d,%d], got %q", bcrypt.MinCost, bcrypt.MaxCost, v))
		}
		cfg.Auth.BcryptCost = n
	}

	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			problems = append(problems, fmt.Errorf("SHUTDOWN_TIMEOUT must be a positive duration, got %q", v))
		}
		cfg.Server.ShutdownTimeout = d
	}

	switch cfg.Database.Driver {
	case DriverPostgres:
		cfg.Database.Host = required("DATABASE_HOSTNAME")
		cfg.Database.Port = required("DATABASE_PORT")
		cfg.Database.User = required("DATABASE_USERNAME")
		cfg.Database.Password = required("DATABASE_PASSWORD")
		cfg.Database.Name = required("DATABASE_NAME")
	case DriverSQLite:
		cfg.Database.Name = required("DATABASE_NAME")
	default:
		problems = append(problems, fmt.Errorf("unknown database driver %q", cfg.Database.Driver))
	}

	if err := errors.Join(problems...); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// DSN returns the PostgreSQL connection URL.
func (c *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

// IsDevelopment reports whether the process runs in dev mode.
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "dev"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
