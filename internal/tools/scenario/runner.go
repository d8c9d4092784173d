// Package scenario runs Lua combat scripts against the combat API, either
// over gRPC or against an in-process engine.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	platformgrpc "github.com/louisbranch/skirmish/internal/platform/grpc"
	"github.com/louisbranch/skirmish/internal/platform/timeouts"
	combatv1 "github.com/louisbranch/skirmish/internal/services/combat/api/grpc/combat"
	"google.golang.org/grpc"
)

// Config controls scenario execution.
type Config struct {
	// GRPCAddr selects a running combat server. Empty runs in process.
	GRPCAddr string
	// DBPath is the in-process journal. Empty uses a temporary file.
	DBPath     string
	Timeout    time.Duration
	Assertions AssertionMode
	Verbose    bool
	Logger     *log.Logger
}

// DefaultConfig returns default runner configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:    timeouts.ScenarioStep,
		Assertions: AssertionStrict,
	}
}

// Runner executes Lua scenarios against the combat API.
type Runner struct {
	conn       *grpc.ClientConn
	cleanup    func()
	client     *combatv1.Client
	assertions Assertions
	logger     *log.Logger
	verbose    bool
	timeout    time.Duration
}

// NewRunner connects to the configured combat API and prepares a runner.
func NewRunner(ctx context.Context, cfg Config) (*Runner, error) {
	r := newRunner(cfg)
	if cfg.GRPCAddr == "" {
		cc, cleanup, err := newInProcessEngine(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		r.client = combatv1.NewClient(cc)
		r.cleanup = cleanup
		return r, nil
	}

	conn, err := platformgrpc.DialWithHealth(ctx, cfg.GRPCAddr, combatv1.ServiceName, timeouts.GRPCDial, r.logf)
	if err != nil {
		return nil, fmt.Errorf("dial combat server: %w", err)
	}
	r.conn = conn
	r.client = combatv1.NewClient(conn)
	return r, nil
}

// newRunner applies config defaults without connecting.
func newRunner(cfg Config) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = timeouts.ScenarioStep
	}
	return &Runner{
		assertions: Assertions{Mode: cfg.Assertions, Logger: logger},
		logger:     logger,
		verbose:    cfg.Verbose,
		timeout:    timeout,
	}
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	if r.cleanup != nil {
		r.cleanup()
		r.cleanup = nil
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// RunFile loads and executes a scenario file.
func RunFile(ctx context.Context, cfg Config, path string) error {
	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		return err
	}
	runner, err := NewRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()
	return runner.RunScenario(ctx, scenario)
}

// RunScenario executes the scenario steps in order.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) error {
	if scenario == nil {
		return errors.New("scenario is required")
	}
	r.logf("scenario start: %s (%d steps)", scenario.Name, len(scenario.Steps))
	state := &scenarioState{}

	for index, step := range scenario.Steps {
		stepNumber := index + 1
		r.logf("step %d/%d start: %s", stepNumber, len(scenario.Steps), step.Kind)
		stepStart := time.Now()
		stepCtx, cancel := context.WithTimeout(ctx, r.timeout)
		err := r.runStep(stepCtx, state, step)
		cancel()
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", stepNumber, step.Kind, err)
		}
		r.logf("step %d/%d done: %s (%s)", stepNumber, len(scenario.Steps), step.Kind, time.Since(stepStart))
	}
	r.logf("scenario done: %s", scenario.Name)
	return nil
}

func (r *Runner) logf(format string, args ...any) {
	if !r.verbose || r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}
