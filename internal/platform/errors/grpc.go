package errors

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/louisbranch/skirmish/internal/platform/errors/i18n"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// LocaleMetadataKey is the incoming gRPC metadata key carrying the caller's
// preferred languages.
const LocaleMetadataKey = "accept-language"

// LocaleFromContext returns the negotiated locale for an incoming call.
func LocaleFromContext(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return i18n.BaseLocale
	}
	return i18n.MatchLocale(strings.Join(md.Get(LocaleMetadataKey), ","))
}

// HandleError converts domain errors to gRPC status for client responses,
// localizing the user-facing message.
func HandleError(err error, locale string) error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if stderrors.As(err, &appErr) {
		catalog := i18n.GetCatalog(locale)
		userMsg := catalog.Format(string(appErr.Code), appErr.Metadata)
		return appErr.ToGRPCStatus(catalog.Locale(), userMsg)
	}
	if stderrors.Is(err, context.Canceled) {
		return status.Error(codes.Canceled, err.Error())
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	return status.Error(codes.Internal, "an unexpected error occurred")
}
