// Package config assembles server settings from defaults, an optional YAML
// file and the environment (including a .env file, if present).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/csg33k/employee-roster/internal/roster"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

type Config struct {
	Port       string           `yaml:"port"`
	Store      string           `yaml:"store"`
	Seed       bool             `yaml:"seed"`
	LogLevel   string           `yaml:"log_level"`
	Skills     SkillsConfig     `yaml:"skills"`
	Validation ValidationConfig `yaml:"validation"`
}

type SkillsConfig struct {
	// EmptySegments is "keep" or "drop".
	EmptySegments string `yaml:"empty_segments"`
}

type ValidationConfig struct {
	RequireFields bool `yaml:"require_fields"`
}

func Default() Config {
	return Config{
		Port:     "8080",
		Store:    StoreMemory,
		Seed:     true,
		LogLevel: "info",
		Skills:   SkillsConfig{EmptySegments: string(roster.KeepEmpty)},
	}
}

// Load reads .env (missing is fine), then the YAML file at path, then
// environment overrides, and validates the result. An empty path falls back
// to ROSTER_CONFIG, which may itself come from .env.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("error loading .env file", "err", err)
	}
	if path == "" {
		path = os.Getenv("ROSTER_CONFIG")
	}

	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		*dst = b
		return nil
	}

	str("PORT", &c.Port)
	str("ROSTER_STORE", &c.Store)
	str("LOG_LEVEL", &c.LogLevel)
	str("ROSTER_SKILLS_EMPTY_SEGMENTS", &c.Skills.EmptySegments)
	if err := boolean("ROSTER_SEED", &c.Seed); err != nil {
		return err
	}
	return boolean("ROSTER_REQUIRE_FIELDS", &c.Validation.RequireFields)
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("config: port must be set")
	}
	switch c.Store {
	case StoreMemory, StoreSQLite:
	default:
		return fmt.Errorf("config: store must be %q or %q, got %q", StoreMemory, StoreSQLite, c.Store)
	}
	if _, err := roster.ParseEmptySegments(c.Skills.EmptySegments); err != nil {
		return fmt.Errorf("config: skills.empty_segments: %w", err)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// RosterOptions converts the settings the form controller cares about.
func (c *Config) RosterOptions() roster.Options {
	mode, _ := roster.ParseEmptySegments(c.Skills.EmptySegments)
	return roster.Options{
		EmptySegments: mode,
		RequireFields: c.Validation.RequireFields,
	}
}

func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log_level: %w", err)
	}
	return lvl, nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
