package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// DefaultRequestTimeout bounds synchronous requests. Sync roadmap generation
// can spend most of this inside the AI call; async callers get a 202 long
// before the limit.
const DefaultRequestTimeout = 30 * time.Second

// Timeout deadlines each request's context and cuts off handlers that
// overrun, answering 503 with the shared error envelope.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	body := fmt.Sprintf(
		`{"success":false,"error":"Service Unavailable","message":"Request did not complete within %s"}`,
		timeout,
	)

	return func(next http.Handler) http.Handler {
		deadlined := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})

		return http.TimeoutHandler(deadlined, timeout, body)
	}
}
