package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vancomm/minesweeper/internal/mines"
)

func lookupString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = strings.TrimSpace(v)
	}
}

func lookupBool(key string, dst *bool) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("invalid %s env variable: %w", key, err)
	}
	*dst = b
	return nil
}

func lookupDuration(key string, dst *Duration) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("invalid %s env variable: %w", key, err)
	}
	dst.Duration = d
	return nil
}

// readEnv overrides fields with the environment variables that are set.
func (c *Config) readEnv() error {
	lookupString("APP_MODE", &c.Mode)
	lookupString("APP_ADDR", &c.Addr)
	lookupString("LOG_FILE", &c.LogFile)
	lookupString("LOG_LEVEL", &c.LogLevel)

	if secret, ok := os.LookupEnv("SESSION_SECRET"); ok {
		c.Session.Secret = secret
	}
	if err := lookupDuration("SESSION_TTL", &c.Session.TTL); err != nil {
		return err
	}
	if err := lookupDuration("SESSION_SWEEP_INTERVAL", &c.Session.SweepInterval); err != nil {
		return err
	}

	if err := lookupBool("DEFAULT_POWER_CHORD", &c.Defaults.PowerChord); err != nil {
		return err
	}
	if err := lookupBool("DEFAULT_AUTO_REVEAL", &c.Defaults.AutoReveal); err != nil {
		return err
	}
	var difficulty string
	lookupString("DEFAULT_DIFFICULTY", &difficulty)
	if difficulty != "" {
		c.Defaults.Difficulty = mines.Difficulty(difficulty)
	}
	return nil
}
