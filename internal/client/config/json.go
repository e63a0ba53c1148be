package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/yogayukt/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. The boolean
// is a pointer so an absent key can be told apart from false.
type JsonConfig struct {
	ServerBaseURL     string `json:"server_base_url"`
	StoreBackend      string `json:"store_backend"`
	StorePath         string `json:"store_path"`
	RedisAddr         string `json:"redis_addr"`
	LogLevel          string `json:"log_level"`
	VerifyOTPRemotely *bool  `json:"verify_otp_remotely"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without such a flag it does nothing. Read or unmarshal
// errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	overlay(&cfg.ServerBaseURL, jc.ServerBaseURL)
	overlay(&cfg.StoreBackend, jc.StoreBackend)
	overlay(&cfg.StorePath, jc.StorePath)
	overlay(&cfg.RedisAddr, jc.RedisAddr)
	overlay(&cfg.LogLevel, jc.LogLevel)
	if jc.VerifyOTPRemotely != nil {
		cfg.VerifyOTPRemotely = *jc.VerifyOTPRemotely
	}
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
