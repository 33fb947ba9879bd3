package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/anniv/internal/flagx"
	"github.com/dmitrijs2005/anniv/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations
// accept both "24h" strings and integer nanoseconds.
type JsonConfig struct {
	HTTPAddr        string         `json:"http_addr"`
	GRPCAddr        string         `json:"grpc_addr"`
	Database        JsonDatabase   `json:"database"`
	Features        []string       `json:"features"`
	BcryptCost      int            `json:"bcrypt_cost"`
	TOTPWindow      uint           `json:"totp_window"`
	SessionBackend  string         `json:"session_backend"`
	SessionSecret   string         `json:"session_secret"`
	SessionTTL      timex.Duration `json:"session_ttl"`
	SecureCookie    bool           `json:"session_secure_cookie"`
	RedisURL        string         `json:"redis_url"`
	SiteName        string         `json:"site_name"`
	SiteDescription string         `json:"description"`
	LogLevel        string         `json:"log_level"`
}

// JsonDatabase is the "database" section of the configuration file.
type JsonDatabase struct {
	Driver         string `json:"driver"`
	URI            string `json:"uri"`
	MaxConnections int    `json:"max_connections"`
}

// parseJson loads the file named by -c/-config, if any. Keys missing from
// the file keep their current values.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JsonConfig{
		HTTPAddr: config.HTTPAddr,
		GRPCAddr: config.GRPCAddr,
		Database: JsonDatabase{
			Driver:         config.DatabaseDriver,
			URI:            config.DatabaseDSN,
			MaxConnections: config.DatabaseMaxConnections,
		},
		Features:        config.Features,
		BcryptCost:      config.BcryptCost,
		TOTPWindow:      config.TOTPWindow,
		SessionBackend:  config.SessionBackend,
		SessionSecret:   config.SessionSecret,
		SessionTTL:      timex.Duration{Duration: config.SessionTTL},
		SecureCookie:    config.SessionSecureCookie,
		RedisURL:        config.RedisURL,
		SiteName:        config.SiteName,
		SiteDescription: config.SiteDescription,
		LogLevel:        config.LogLevel,
	}

	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	config.HTTPAddr = c.HTTPAddr
	config.GRPCAddr = c.GRPCAddr
	config.DatabaseDriver = c.Database.Driver
	config.DatabaseDSN = c.Database.URI
	config.DatabaseMaxConnections = c.Database.MaxConnections
	config.Features = c.Features
	config.BcryptCost = c.BcryptCost
	config.TOTPWindow = c.TOTPWindow
	config.SessionBackend = c.SessionBackend
	config.SessionSecret = c.SessionSecret
	config.SessionTTL = c.SessionTTL.Duration
	config.SessionSecureCookie = c.SecureCookie
	config.RedisURL = c.RedisURL
	config.SiteName = c.SiteName
	config.SiteDescription = c.SiteDescription
	config.LogLevel = c.LogLevel
	return nil
}
