// Package config loads command configuration from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable read through ParseEnvWithPrefix.
const EnvPrefix = "SKIRMISH_"

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseEnvWithPrefix loads configuration whose env tags omit the shared
// project prefix and an optional service segment, e.g. service "combat" reads
// `env:"PORT"` from SKIRMISH_COMBAT_PORT.
func ParseEnvWithPrefix(target any, service string) error {
	prefix := EnvPrefix
	if service = strings.TrimSpace(service); service != "" {
		prefix += strings.ToUpper(service) + "_"
	}
	if err := env.ParseWithOptions(target, env.Options{Prefix: prefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
