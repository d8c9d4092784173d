package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
)

type serviceTestConfig struct {
	Port int    `env:"PORT" envDefault:"8090"`
	Addr string `env:"ADDR"`
}

func TestParseServiceConfigUsesServicePrefix(t *testing.T) {
	t.Setenv("SKIRMISH_COMBAT_ADDR", "127.0.0.1:7000")
	t.Setenv("SKIRMISH_SCENARIO_ADDR", "127.0.0.1:7001")

	var cfg serviceTestConfig
	if err := ParseServiceConfig(&cfg, ServiceCombat); err != nil {
		t.Fatalf("parse service config: %v", err)
	}
	if cfg.Port != 8090 {
		t.Fatalf("port = %d, want 8090", cfg.Port)
	}
	if cfg.Addr != "127.0.0.1:7000" {
		t.Fatalf("addr = %q, want 127.0.0.1:7000", cfg.Addr)
	}
}

func TestParseServiceConfigThenFlags(t *testing.T) {
	t.Setenv("SKIRMISH_COMBAT_PORT", "9000")
	t.Setenv("SKIRMISH_COMBAT_ADDR", "env:9000")

	var cfg serviceTestConfig
	if err := ParseServiceConfig(&cfg, ServiceCombat); err != nil {
		t.Fatalf("parse service config: %v", err)
	}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "addr")
	if err := ParseArgs(fs, []string{"-addr", "flag:9001"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if cfg.Addr != "flag:9001" {
		t.Fatalf("addr = %q, want flag:9001", cfg.Addr)
	}
	if cfg.Port != 9000 {
		t.Fatalf("port = %d, want 9000", cfg.Port)
	}
}

func TestParseServiceConfigRejectsBadInput(t *testing.T) {
	var missing *serviceTestConfig
	if err := ParseServiceConfig(missing, ServiceCombat); err == nil {
		t.Fatal("expected error for nil target")
	}
	var cfg serviceTestConfig
	if err := ParseServiceConfig(&cfg, " "); err == nil {
		t.Fatal("expected error for blank service")
	}
}

func TestParseArgsRejectsNilParser(t *testing.T) {
	if err := ParseArgs(nil, []string{}); err == nil {
		t.Fatal("expected parse args to reject nil parser")
	}
}

func TestRunWithTelemetryRunsLoop(t *testing.T) {
	t.Setenv("SKIRMISH_OTEL_ENDPOINT", "")
	wantErr := errors.New("stop")
	called := false
	err := RunWithTelemetry(context.Background(), ServiceCombat, func(context.Context) error {
		called = true
		return wantErr
	})
	if !called {
		t.Fatal("expected run function to be called")
	}
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}

func TestRunWithTelemetryRejectsMissingInputs(t *testing.T) {
	if err := RunWithTelemetry(context.Background(), "", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected missing service error")
	}
	if err := RunWithTelemetry(context.Background(), ServiceCombat, nil); err == nil {
		t.Fatal("expected missing run function error")
	}
}
