package otel_test

import (
	"context"
	"testing"

	"github.com/louisbranch/skirmish/internal/platform/otel"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{name: "no endpoint is a no-op"},
		{
			name: "explicitly disabled",
			env: map[string]string{
				"SKIRMISH_OTEL_ENDPOINT": "http://localhost:4318",
				"SKIRMISH_OTEL_ENABLED":  "false",
			},
		},
		{
			// 192.0.2.0/24 is reserved, so nothing is exported.
			name: "endpoint with sampling",
			env: map[string]string{
				"SKIRMISH_OTEL_ENDPOINT":     "http://192.0.2.1:4318",
				"SKIRMISH_OTEL_SAMPLE_RATIO": "0.5",
			},
		},
		{
			name:    "bad sample ratio",
			env:     map[string]string{"SKIRMISH_OTEL_SAMPLE_RATIO": "lots"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SKIRMISH_OTEL_ENDPOINT", "")
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			shutdown, err := otel.Setup(context.Background(), "combat-test")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected setup error")
				}
				return
			}
			if err != nil {
				t.Fatalf("setup: %v", err)
			}
			if err := shutdown(context.Background()); err != nil {
				t.Fatalf("shutdown: %v", err)
			}
		})
	}
}
