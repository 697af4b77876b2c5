package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/vancomm/minesweeper/internal/mines"
)

type Duration struct{ time.Duration }

// [Duration] implements [json.Marshaler]
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		if err != nil {
			return err
		}
		return nil

	default:
		return errors.New("invalid duration")
	}
}

type SessionConfig struct {
	// HMAC key for session tickets
	Secret        string   `json:"secret"`
	TTL           Duration `json:"ttl"`
	SweepInterval Duration `json:"sweep_interval"`
}

// Defaults apply to games started without explicit parameters.
type Defaults struct {
	PowerChord bool             `json:"power_chord"`
	AutoReveal bool             `json:"auto_reveal"`
	Difficulty mines.Difficulty `json:"difficulty"`
}

type Config struct {
	Mode     string        `json:"mode"`
	Addr     string        `json:"addr"`
	LogFile  string        `json:"log_file"`
	LogLevel string        `json:"log_level"`
	Session  SessionConfig `json:"session"`
	Defaults Defaults      `json:"defaults"`
}

const developmentSecret = "minesweeper-development-secret"

func Default() *Config {
	return &Config{
		Mode: "development",
		Addr: ":8080",
		Session: SessionConfig{
			TTL:           Duration{time.Hour},
			SweepInterval: Duration{time.Minute},
		},
		Defaults: Defaults{
			Difficulty: mines.Beginner,
		},
	}
}

// Load builds the configuration in layers: defaults, the JSON file at path
// (skipped when path is empty), then the environment. Variables from
// envFiles are added to the environment first; with no envFiles a .env in
// the working directory is loaded if present.
func Load(path string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("unable to load env files: %w", err)
	}

	config := Default()
	if path != "" {
		if err := ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("unable to read config %s: %w", path, err)
		}
	}
	if err := config.readEnv(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func ReadConfig(path string, config *Config) error {
	if b, err := os.ReadFile(path); err != nil {
		return err
	} else {
		return json.Unmarshal(b, config)
	}
}

func (c *Config) Validate() error {
	if c.Mode != "development" && c.Mode != "production" {
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if c.Addr == "" {
		return errors.New("no listen address set")
	}
	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			return err
		}
	}
	if c.Session.Secret == "" {
		if c.Production() {
			return errors.New("no SESSION_SECRET env variable set")
		}
		c.Session.Secret = developmentSecret
	}
	if c.Session.TTL.Duration <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.Session.TTL)
	}
	if c.Session.SweepInterval.Duration <= 0 {
		return fmt.Errorf("session sweep interval must be positive, got %s", c.Session.SweepInterval)
	}
	if _, ok := mines.Preset(c.Defaults.Difficulty); !ok {
		return fmt.Errorf("unknown difficulty %q", c.Defaults.Difficulty)
	}
	return nil
}

// DefaultParams returns the game parameters of the configured defaults.
func (c Config) DefaultParams() mines.GameParams {
	params, _ := mines.Preset(c.Defaults.Difficulty)
	params.PowerChord = c.Defaults.PowerChord
	params.AutoReveal = c.Defaults.AutoReveal
	return params
}

func (c Config) Fields() logrus.Fields {
	return map[string]any{
		"mode":                   c.Mode,
		"addr":                   c.Addr,
		"log_file":               c.LogFile,
		"log_level":              c.LogLevel,
		"session_ttl":            c.Session.TTL.String(),
		"session_sweep_interval": c.Session.SweepInterval.String(),
		"default_power_chord":    c.Defaults.PowerChord,
		"default_auto_reveal":    c.Defaults.AutoReveal,
		"default_difficulty":     c.Defaults.Difficulty,
	}
}

func (c Config) Production() bool {
	return c.Mode == "production"
}

func (c Config) Development() bool {
	return c.Mode != "production"
}
