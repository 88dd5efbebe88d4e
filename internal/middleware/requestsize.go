package middleware

import (
	"fmt"
	"net/http"
)

// DefaultMaxRequestSize caps request bodies at 1MB. Roadmap generation
// requests and feedback payloads are far below this in practice.
const DefaultMaxRequestSize int64 = 1 << 20

// MaxRequestSize bounds the request body. Declared oversized bodies are
// rejected up front; undeclared ones are cut off by MaxBytesReader and
// surface as a 413 from the JSON decode helpers.
func MaxRequestSize(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxRequestSize
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				writeError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large",
					fmt.Sprintf("Request body exceeds the %d byte limit", maxBytes))
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
