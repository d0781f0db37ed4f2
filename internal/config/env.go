// Package config loads environment defaults shared by the commands.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds defaults that flags may override.
type Env struct {
	DBURL         string `env:"DBSETUP_DB_URL"`
	SchemaFile    string `env:"DBSETUP_SCHEMA_FILE" envDefault:"database/schema.sql"`
	InitDataDir   string `env:"DBSETUP_INIT_DATA_DIR" envDefault:"database/init-data"`
	DataConfigDir string `env:"DBSETUP_DATA_CONFIG_DIR" envDefault:"data-config"`
	Verbose       bool   `env:"DBSETUP_VERBOSE"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads Env from environ, or from the process environment when
// environ is nil.
func Load(environ map[string]string) (Env, error) {
	var cfg Env
	if environ == nil {
		if err := ParseEnv(&cfg); err != nil {
			return Env{}, err
		}
		return cfg, nil
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
