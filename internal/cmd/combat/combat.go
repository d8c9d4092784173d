// Package combat parses combat command flags and starts the combat server.
package combat

import (
	"context"
	"flag"

	entrypoint "github.com/louisbranch/skirmish/internal/platform/cmd"
	server "github.com/louisbranch/skirmish/internal/services/combat/app"
)

// Config holds combat command configuration. Env tags are read with the
// SKIRMISH_COMBAT_ prefix.
type Config struct {
	Port int    `env:"PORT" envDefault:"8090"`
	Addr string `env:"ADDR"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseServiceConfig(&cfg, entrypoint.ServiceCombat); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The combat server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The combat server listen address (overrides -port)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the combat API and notification feed.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceCombat, func(ctx context.Context) error {
		if cfg.Addr != "" {
			return server.RunWithAddr(ctx, cfg.Addr)
		}
		return server.Run(ctx, cfg.Port)
	})
}
