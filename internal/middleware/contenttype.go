package middleware

import (
	"mime"
	"net/http"
)

// ContentType rejects body-carrying requests whose media type is not JSON.
// Methods without bodies pass through untouched.
func ContentType(next http.Handler) http.Handler {
	bodyMethods := map[string]bool{
		http.MethodPost:  true,
		http.MethodPut:   true,
		http.MethodPatch: true,
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !bodyMethods[r.Method] {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Content-Type")
		if header == "" {
			writeError(w, http.StatusBadRequest, "Bad Request", "Content-Type header is required")
			return
		}

		mediaType, _, err := mime.ParseMediaType(header)
		if err != nil || mediaType != "application/json" {
			writeError(w, http.StatusUnsupportedMediaType, "Unsupported Media Type", "Content-Type must be application/json")
			return
		}

		next.ServeHTTP(w, r)
	})
}
