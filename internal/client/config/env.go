package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/dmitrijs2005/yogayukt/internal/flagx"
	"github.com/joho/godotenv"
)

const (
	envServerURL    = "YOGAYUKT_SERVER_URL"
	envStoreBackend = "YOGAYUKT_STORE_BACKEND"
	envStorePath    = "YOGAYUKT_STORE_PATH"
	envRedisAddr    = "YOGAYUKT_REDIS_ADDR"
	envLogLevel     = "YOGAYUKT_LOG_LEVEL"
	envVerifyOTP    = "YOGAYUKT_VERIFY_OTP"
)

const defaultEnvFile = ".env"

// parseEnv overlays Config with YOGAYUKT_* environment variables.
//
// A dotenv file is loaded first; variables already present in the process
// environment are not overridden by it. A missing default .env is ignored,
// a missing file named explicitly with -e/-env panics. Unparsable boolean
// values panic as well.
func parseEnv(cfg *Config) {
	envFile := flagx.EnvFileFlags(os.Args[1:])
	explicit := envFile != ""
	if !explicit {
		envFile = defaultEnvFile
	}

	if err := godotenv.Load(envFile); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	if v, ok := os.LookupEnv(envServerURL); ok && v != "" {
		cfg.ServerBaseURL = v
	}
	if v, ok := os.LookupEnv(envStoreBackend); ok && v != "" {
		cfg.StoreBackend = v
	}
	if v, ok := os.LookupEnv(envStorePath); ok && v != "" {
		cfg.StorePath = v
	}
	if v, ok := os.LookupEnv(envRedisAddr); ok && v != "" {
		cfg.RedisAddr = v
	}
	if v, ok := os.LookupEnv(envLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv(envVerifyOTP); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		cfg.VerifyOTPRemotely = b
	}
}
