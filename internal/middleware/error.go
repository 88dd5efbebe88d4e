package middleware

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	logpkg "github.com/benvon/roadmap-api/internal/logger"
)

// ErrorHandler returns middleware that converts handler panics into 500
// responses. The panic value and stack stay in the server log; the client
// gets the generic error envelope.
func ErrorHandler(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					logger.Error("panic_recovered",
						zap.Any("panic", v),
						zap.String("method", r.Method),
						zap.String("path", logpkg.SanitizePath(r.URL.Path)),
						zap.ByteString("stack", debug.Stack()),
					)
					writeError(w, http.StatusInternalServerError, "Internal Server Error", "Request could not be processed")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
