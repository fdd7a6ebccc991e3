// Package config loads REPL settings from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted by FromEnv.
const (
	EnvConfigPath = "EXPRSQL_CONFIG"
	EnvDSN        = "DATABASE_URL"
	EnvAlias      = "EXPRSQL_ALIAS"
)

const (
	defaultAlias        = "a"
	defaultSchema       = "dbo"
	defaultHistoryLimit = 500
	defaultMaxRows      = 1000
	defaultFileName     = ".exprsql.yaml"
	defaultHistoryName  = ".exprsql_history"
)

// Config captures the REPL's runtime options.
type Config struct {
	// Alias is used for columns, sources and conditions that don't name one.
	// "-" disables aliasing.
	Alias string `yaml:"alias"`
	// Schema is the schema attached when connecting and used for bare
	// table names. "-" renders tables unqualified.
	Schema       string `yaml:"schema"`
	DSN          string `yaml:"dsn"`
	HistoryFile  string `yaml:"history_file"`
	HistoryLimit int    `yaml:"history_limit"`
	MaxRows      int    `yaml:"max_rows"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Alias:        defaultAlias,
		Schema:       defaultSchema,
		HistoryFile:  defaultHistoryPath(),
		HistoryLimit: defaultHistoryLimit,
		MaxRows:      defaultMaxRows,
	}
}

// Load reads configuration from a YAML file on top of the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	normalizeConfig(&cfg)
	return cfg, nil
}

// FromEnv resolves the configuration file ($EXPRSQL_CONFIG, then
// ~/.exprsql.yaml), loads it if present and applies environment overrides.
// A missing default file is not an error; a missing explicit file is.
func FromEnv() (Config, error) {
	cfg := Default()
	path := strings.TrimSpace(os.Getenv(EnvConfigPath))
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}
	if path != "" {
		loaded, err := Load(path)
		switch {
		case err == nil:
			cfg = loaded
		case !explicit && errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, err
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if dsn := strings.TrimSpace(os.Getenv(EnvDSN)); dsn != "" {
		cfg.DSN = dsn
	}
	if alias := strings.TrimSpace(os.Getenv(EnvAlias)); alias != "" {
		cfg.Alias = alias
	}
	normalizeConfig(cfg)
}

func normalizeConfig(cfg *Config) {
	cfg.Alias = strings.TrimSpace(cfg.Alias)
	cfg.Schema = strings.TrimSpace(cfg.Schema)
	if cfg.Alias == "" {
		cfg.Alias = defaultAlias
	}
	if cfg.Schema == "" {
		cfg.Schema = defaultSchema
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = defaultMaxRows
	}
	if strings.HasPrefix(cfg.HistoryFile, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.HistoryFile = filepath.Join(home, cfg.HistoryFile[2:])
		}
	}
}

// ResolvedAlias returns the alias to pass to the builder; "" means none.
func (c Config) ResolvedAlias() string {
	if c.Alias == "-" {
		return ""
	}
	return c.Alias
}

// ResolvedSchema returns the schema for bare table names; "" means none.
func (c Config) ResolvedSchema() string {
	if c.Schema == "-" {
		return ""
	}
	return c.Schema
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, defaultFileName)
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, defaultHistoryName)
}
