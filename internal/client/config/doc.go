// Package config loads runtime configuration for the Yogayukt auth client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, after loading a dotenv file (.env by default,
//     or the file given with -e / -env).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Environment
//
//	YOGAYUKT_SERVER_URL     backend base URL
//	YOGAYUKT_STORE_BACKEND  memory | sqlite | badger | redis
//	YOGAYUKT_STORE_PATH     sqlite file or badger directory
//	YOGAYUKT_REDIS_ADDR     redis host:port
//	YOGAYUKT_LOG_LEVEL      debug | info | warn | error
//	YOGAYUKT_VERIFY_OTP     true | false
//
// Supported flags
//
//	-a string   backend base URL
//	-s string   store backend
//	-p string   store path
//	-r string   redis address
//	-l string   log level
//	-v          verify OTP against the backend (use -v=false to disable)
//
// # JSON schema
//
//	{
//	  "server_base_url": "http://127.0.0.1:8080",
//	  "store_backend": "badger",
//	  "store_path": "./state",
//	  "redis_addr": "127.0.0.1:6379",
//	  "log_level": "debug",
//	  "verify_otp_remotely": true
//	}
//
// Empty JSON fields leave the previous value untouched.
package config
