package middleware

import (
	"encoding/json"
	"net/http"
	"time"
)

// writeError emits the same JSON error envelope the handler layer uses, so
// clients see one error shape no matter which layer rejected the request
func writeError(w http.ResponseWriter, status int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":   false,
		"error":     errorType,
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
