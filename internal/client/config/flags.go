package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/yogayukt/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Only -a, -s, -p, -r, -l and -v are looked at; os.Args is filtered with
// flagx.FilterArgs so flags owned by other components do not interfere.
// Parse errors panic.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-p", "-r", "-l", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "backend base URL")
	fs.StringVar(&cfg.StoreBackend, "s", cfg.StoreBackend, "store backend: memory, sqlite, badger, redis")
	fs.StringVar(&cfg.StorePath, "p", cfg.StorePath, "sqlite file or badger directory")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.BoolVar(&cfg.VerifyOTPRemotely, "v", cfg.VerifyOTPRemotely, "verify OTP against the backend")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
