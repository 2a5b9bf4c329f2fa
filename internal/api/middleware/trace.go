package middleware

import (
	"log/slog"
	"net/http"

	"github.com/smarttasker/api/internal/api/shared"
	"github.com/smarttasker/api/internal/platform/logger"
)

// TraceMiddleware generates a unique trace ID for each request and stores a
// request-scoped logger carrying it in the context, so handlers and error
// responses picking the logger up via logger.FromContext correlate their
// entries automatically.
func TraceMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			reqLogger := log.With(slog.String("trace_id", shared.GetTraceID(ctx)))
			ctx = logger.WithLogger(ctx, reqLogger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
