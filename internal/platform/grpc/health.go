package grpc

import (
	"context"
	"fmt"
	"time"

	gogrpc "google.golang.org/grpc"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	healthCallTimeout    = time.Second
	healthInitialBackoff = 200 * time.Millisecond
	healthMaxBackoff     = time.Second
)

// WaitForHealth polls the gRPC health service until service reports SERVING
// or the context ends.
func WaitForHealth(ctx context.Context, conn *gogrpc.ClientConn, service string, logf func(string, ...any)) error {
	if conn == nil {
		return fmt.Errorf("gRPC connection is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}

	healthClient := grpc_health_v1.NewHealthClient(conn)
	backoff := healthInitialBackoff
	for {
		callCtx, cancel := context.WithTimeout(ctx, healthCallTimeout)
		response, err := healthClient.Check(callCtx, &grpc_health_v1.HealthCheckRequest{Service: service})
		cancel()
		switch {
		case err == nil && response.GetStatus() == grpc_health_v1.HealthCheckResponse_SERVING:
			logf("gRPC health %q is SERVING", service)
			return nil
		case err != nil:
			logf("waiting for gRPC health %q: %v", service, err)
		default:
			logf("waiting for gRPC health %q: status %s", service, response.GetStatus())
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for gRPC health: %w", ctx.Err())
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, healthMaxBackoff)
	}
}
