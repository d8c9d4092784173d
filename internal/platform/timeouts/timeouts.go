// Package timeouts defines shared timeout constants for the combat server and
// its clients.
package timeouts

import "time"

// GRPCDial caps the wait for a combat server to dial and report healthy.
const GRPCDial = 2 * time.Second

// ScenarioStep bounds a single scenario step, RPC round trips included.
const ScenarioStep = 10 * time.Second

// ReadHeader limits how long the feed listener waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits graceful shutdown of listeners and telemetry flushes.
const Shutdown = 5 * time.Second
