// Package interceptors holds the unary interceptors of the combat gRPC server.
package interceptors

import (
	"context"
	"log"
	"strings"
	"time"

	combatv1 "github.com/louisbranch/skirmish/internal/services/combat/api/grpc/combat"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// AuditEvent describes one handled unary call.
type AuditEvent struct {
	Method     string
	MethodKind string
	MatchID    string
	Code       codes.Code
	TraceID    string
	SpanID     string
	Duration   time.Duration
}

// AuditSink receives audit events.
type AuditSink interface {
	RecordAudit(ctx context.Context, evt AuditEvent) error
}

// LogSink writes audit events to the standard logger.
type LogSink struct{}

// RecordAudit logs the event on one line.
func (LogSink) RecordAudit(_ context.Context, evt AuditEvent) error {
	log.Printf("audit: method=%s kind=%s match=%s code=%s trace=%s span=%s duration=%s",
		evt.Method, evt.MethodKind, evt.MatchID, evt.Code, evt.TraceID, evt.SpanID, evt.Duration)
	return nil
}

// AuditInterceptor emits an audit event for each unary call handled by the
// combat service.
func AuditInterceptor(sink AuditSink) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		started := time.Now()
		resp, err := handler(ctx, req)
		if sink == nil {
			return resp, err
		}

		code := codes.OK
		if err != nil {
			code = status.Code(err)
		}

		var traceID, spanID string
		if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
			traceID = sc.TraceID().String()
			spanID = sc.SpanID().String()
		}

		recordErr := sink.RecordAudit(ctx, AuditEvent{
			Method:     info.FullMethod,
			MethodKind: classifyMethodKind(info.FullMethod),
			MatchID:    extractMatchID(req),
			Code:       code,
			TraceID:    traceID,
			SpanID:     spanID,
			Duration:   time.Since(started),
		})
		if recordErr != nil {
			log.Printf("audit record %s: %v", info.FullMethod, recordErr)
		}
		return resp, err
	}
}

func extractMatchID(req any) string {
	s, ok := req.(*structpb.Struct)
	if !ok || s == nil {
		return ""
	}
	return strings.TrimSpace(s.GetFields()["match_id"].GetStringValue())
}

func classifyMethodKind(fullMethod string) string {
	switch fullMethod {
	case combatv1.GetCooldownsFullMethodName,
		combatv1.GetUnitFullMethodName,
		combatv1.ListEventsFullMethodName:
		return "read"
	default:
		return "write"
	}
}
