package middleware

import (
	"net/http"
	"strings"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"go.uber.org/zap"

	logpkg "github.com/benvon/roadmap-api/internal/logger"
	"github.com/benvon/roadmap-api/internal/request"
)

// Auth creates authentication middleware that validates HS256 bearer tokens
// and attaches the caller's principal to the request context
func Auth(secret []byte, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "Unauthorized", "Missing Authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeError(w, http.StatusUnauthorized, "Unauthorized", "Invalid Authorization header format")
				return
			}

			token, err := jwt.Parse([]byte(parts[1]),
				jwt.WithKey(jwa.HS256, secret),
				jwt.WithValidate(true),
			)
			if err != nil {
				logger.Warn("token_verification_failed",
					zap.String("error", logpkg.SanitizeError(err)),
				)
				writeError(w, http.StatusUnauthorized, "Unauthorized", "Invalid or expired token")
				return
			}

			principal := &request.Principal{Subject: token.Subject()}
			ctx := request.WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
