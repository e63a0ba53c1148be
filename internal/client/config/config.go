package config

import (
	"strings"

	"github.com/dmitrijs2005/yogayukt/internal/common"
)

// Config holds runtime settings for the Yogayukt auth client.
//
// Fields:
//   - ServerBaseURL: scheme://host[:port] of the backend HTTP API.
//   - StoreBackend: persistence engine behind the session store
//     (memory, sqlite, badger or redis).
//   - StorePath: file (sqlite) or directory (badger) for local state.
//   - RedisAddr: host:port of redis when StoreBackend is redis.
//   - LogLevel: debug, info, warn or error.
//   - VerifyOTPRemotely: send the OTP to the backend before entering
//     the seeker area instead of accepting it locally.
type Config struct {
	ServerBaseURL     string
	StoreBackend      string
	StorePath         string
	RedisAddr         string
	LogLevel          string
	VerifyOTPRemotely bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.StoreBackend = "sqlite"
	c.StorePath = "yogayukt.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.LogLevel = "info"
	c.VerifyOTPRemotely = false
}

// BaseAuthURL is the prefix of every authentication endpoint.
func (c *Config) BaseAuthURL() string {
	return strings.TrimRight(c.ServerBaseURL, "/") + "/" + common.APITypeAuth
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (optionally seeded from a dotenv file), JSON (if present)
// and command-line flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
