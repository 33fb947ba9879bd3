// Package config handles configuration for the server component: defaults,
// an optional JSON file, ANNIV_* environment variables and command-line
// flags, applied in that order.
package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/anniv/internal/server/credentials"
	validation "github.com/go-ozzo/ozzo-validation"
	"golang.org/x/crypto/bcrypt"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// Supported session backends.
const (
	SessionCookie = "cookie"
	SessionRedis  = "redis"
)

// Config holds runtime settings for the Anniv server.
//
// Fields:
//   - HTTPAddr / GRPCAddr: bind addresses of the public API and the health endpoint.
//   - DatabaseDriver / DatabaseDSN / DatabaseMaxConnections: the database descriptor.
//   - Features: enabled capability names ("invite", "2fa", "close").
//   - BcryptCost: cost factor for password hashing.
//   - TOTPWindow: accepted 30s steps either side of now for 2FA codes.
//   - SessionBackend / SessionSecret / SessionTTL / SessionSecureCookie / RedisURL: login sessions.
//   - SiteName / SiteDescription: reported by /api/info.
type Config struct {
	HTTPAddr               string        `env:"ANNIV_HTTP_ADDR"`
	GRPCAddr               string        `env:"ANNIV_GRPC_ADDR"`
	DatabaseDriver         string        `env:"ANNIV_DB_DRIVER"`
	DatabaseDSN            string        `env:"ANNIV_DB_DSN"`
	DatabaseMaxConnections int           `env:"ANNIV_DB_MAX_CONNECTIONS"`
	Features               []string      `env:"ANNIV_FEATURES" envSeparator:","`
	BcryptCost             int           `env:"ANNIV_BCRYPT_COST"`
	TOTPWindow             uint          `env:"ANNIV_TOTP_WINDOW"`
	SessionBackend         string        `env:"ANNIV_SESSION_BACKEND"`
	SessionSecret          string        `env:"ANNIV_SESSION_SECRET"`
	SessionTTL             time.Duration `env:"ANNIV_SESSION_TTL"`
	SessionSecureCookie    bool          `env:"ANNIV_SESSION_SECURE_COOKIE"`
	RedisURL               string        `env:"ANNIV_REDIS_URL"`
	SiteName               string        `env:"ANNIV_SITE_NAME"`
	SiteDescription        string        `env:"ANNIV_SITE_DESCRIPTION"`
	LogLevel               string        `env:"ANNIV_LOG_LEVEL"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: the session secret must be overridden in production.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":6655"
	c.GRPCAddr = ":6656"
	c.DatabaseDriver = DriverSQLite
	c.DatabaseDSN = "data/anniv.db"
	c.DatabaseMaxConnections = 5
	c.Features = []string{}
	c.BcryptCost = bcrypt.DefaultCost
	c.TOTPWindow = credentials.DefaultWindow
	c.SessionBackend = SessionCookie
	c.SessionSecret = "change-me-session-secret"
	c.SessionTTL = 7 * 24 * time.Hour
	c.RedisURL = "redis://127.0.0.1:6379/0"
	c.SiteName = "Anniv"
	c.SiteDescription = "Anniv music server"
	c.LogLevel = "info"
}

// Validate reports configuration that the server cannot start with.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.HTTPAddr, validation.Required),
		validation.Field(&c.DatabaseDriver, validation.Required, validation.In(DriverPostgres, DriverMySQL, DriverSQLite)),
		validation.Field(&c.DatabaseDSN, validation.Required),
		validation.Field(&c.DatabaseMaxConnections, validation.Required, validation.Min(1)),
		validation.Field(&c.Features, validation.By(knownFeatures)),
		validation.Field(&c.BcryptCost, validation.Required, validation.Min(bcrypt.MinCost), validation.Max(bcrypt.MaxCost)),
		validation.Field(&c.TOTPWindow, validation.Max(uint(10))),
		validation.Field(&c.SessionBackend, validation.Required, validation.In(SessionCookie, SessionRedis)),
		validation.Field(&c.SessionSecret, validation.Required, validation.Length(16, 0)),
		validation.Field(&c.SessionTTL, validation.Required, validation.Min(time.Minute)),
		validation.Field(&c.RedisURL, validation.By(func(any) error {
			if c.SessionBackend == SessionRedis && c.RedisURL == "" {
				return fmt.Errorf("required for the %s session backend", SessionRedis)
			}
			return nil
		})),
	)
}

func knownFeatures(value any) error {
	names, _ := value.([]string)
	for _, name := range names {
		switch name {
		case "invite", "2fa", "close":
		default:
			return fmt.Errorf("unknown feature %q", name)
		}
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
// args are the process arguments without the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
