package main

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the ltipd process config, populated from a .env file (if
// present) and then overridden by the real environment, matching the
// teacher's shai config loader's file-then-env layering.
type Config struct {
	ListenAddr      string `envconfig:"LTIPD_LISTEN_ADDR" default:":8080"`
	LogLevel        string `envconfig:"LTIPD_LOG_LEVEL" default:"info"`
	TokenID         string `envconfig:"LTIPD_TOKEN_ID" default:"token.sweat"`
	OwnerID         string `envconfig:"LTIPD_OWNER_ID" required:"true"`
	CliffDuration   int64  `envconfig:"LTIPD_CLIFF_DURATION" default:"31556952"`
	VestingDuration int64  `envconfig:"LTIPD_VESTING_DURATION" default:"94670856"`
	HomeDir         string `envconfig:"LTIPD_HOME" default:".ltipd"`
}

func loadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("ltipd", &cfg); err != nil {
		return Config{}, fmt.Errorf("process environment: %w", err)
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	return cfg, nil
}
