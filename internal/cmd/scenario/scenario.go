// Package scenario parses scenario command flags and runs a Lua script.
package scenario

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"time"

	entrypoint "github.com/louisbranch/skirmish/internal/platform/cmd"
	"github.com/louisbranch/skirmish/internal/tools/scenario"
)

// Config holds scenario command configuration. Env tags are read with the
// SKIRMISH_SCENARIO_ prefix.
type Config struct {
	// GRPCAddr targets a running combat server; empty runs in process.
	GRPCAddr   string        `env:"GRPC_ADDR"`
	DBPath     string        `env:"DB_PATH"`
	Scenario   string        `env:"FILE"`
	Assertions bool          `env:"ASSERT"  envDefault:"true"`
	Verbose    bool          `env:"VERBOSE"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseServiceConfig(&cfg, entrypoint.ServiceScenario); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.GRPCAddr, "grpc-addr", cfg.GRPCAddr, "combat server address (empty runs in process)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "in-process journal path (default: temporary file)")
	fs.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "path to scenario lua file")
	fs.BoolVar(&cfg.Assertions, "assert", cfg.Assertions, "enable assertions (disable to log expectations)")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable verbose logging")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "timeout per step")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the scenario command.
func Run(ctx context.Context, cfg Config, errOut io.Writer) error {
	if errOut == nil {
		errOut = io.Discard
	}
	if cfg.Scenario == "" {
		return errors.New("scenario path is required")
	}

	mode := scenario.AssertionStrict
	if !cfg.Assertions {
		mode = scenario.AssertionLogOnly
	}

	runCfg := scenario.Config{
		GRPCAddr:   cfg.GRPCAddr,
		DBPath:     cfg.DBPath,
		Timeout:    cfg.Timeout,
		Assertions: mode,
		Verbose:    cfg.Verbose,
		Logger:     log.New(errOut, "", 0),
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceScenario, func(ctx context.Context) error {
		return scenario.RunFile(ctx, runCfg, cfg.Scenario)
	})
}
