package handler

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// generateRequestID generates a unique request ID for tracing
func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// Fallback to timestamp-based ID if random generation fails
		return hex.EncodeToString([]byte(time.Now().Format(time.RFC3339Nano)))
	}
	return hex.EncodeToString(b)
}

// logStructured logs structured JSON with request metadata
func logStructured(requestID, method, endpoint string, statusCode int, duration time.Duration) {
	logEntry := map[string]interface{}{
		"request_id":  requestID,
		"method":      method,
		"endpoint":    endpoint,
		"status_code": statusCode,
		"duration_ms": duration.Milliseconds(),
	}

	jsonBytes, err := json.Marshal(logEntry)
	if err != nil {
		log.Printf("[%s] Failed to marshal log entry: %v", requestID, err)
		return
	}

	log.Printf("%s", string(jsonBytes))
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}
