// Package cmd holds the startup plumbing shared by every command.
package cmd

import (
	"context"
	"errors"
	"flag"
	"log"
	"strings"

	"github.com/louisbranch/skirmish/internal/platform/config"
	"github.com/louisbranch/skirmish/internal/platform/otel"
	"github.com/louisbranch/skirmish/internal/platform/timeouts"
)

// Service names double as env prefixes (SKIRMISH_<SERVICE>_) and as the
// OpenTelemetry service name.
const (
	ServiceCombat   = "combat"
	ServiceScenario = "scenario"
)

// ParseServiceConfig loads env defaults whose tags omit the
// SKIRMISH_<SERVICE>_ prefix.
func ParseServiceConfig[T any](cfg *T, service string) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	if strings.TrimSpace(service) == "" {
		return errors.New("service name is required")
	}
	return config.ParseEnvWithPrefix(cfg, service)
}

// ParseArgs parses command-line flags.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// RunWithTelemetry installs tracing for service, runs the command loop and
// flushes spans when it returns.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return errors.New("service name is required")
	}
	if run == nil {
		return errors.New("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			log.Printf("%s: otel shutdown: %v", service, err)
		}
	}()
	return run(ctx)
}
