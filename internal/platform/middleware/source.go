package middleware

import (
	"log/slog"
	"net/http"

	"railhook/pkg/requestcontext"
)

const sourceKeyHeader = "X-Webhook-Key"

// ResolveSource maps the inbound webhook credential to its owning client and
// records whether the credential was recognized. Unrecognized credentials are
// NOT rejected here: downstream handlers skip all mutation for them while the
// intake still answers "accepted", so callers cannot probe which credentials
// are valid.
func ResolveSource(keys map[string]string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := r.Header.Get(sourceKeyHeader)
			if clientID, ok := keys[key]; ok && key != "" {
				ctx = requestcontext.WithClientID(ctx, clientID)
				ctx = requestcontext.WithValidSource(ctx, true)
			} else {
				logger.WarnContext(ctx, "unrecognized webhook source credential",
					"request_id", requestcontext.RequestID(ctx),
				)
				ctx = requestcontext.WithValidSource(ctx, false)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
