// src/utils/http_utils.go
package utils

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/username/tariffscope/src/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SendJSON writes data as a JSON response with the given status code.
func SendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		if logger.L != nil {
			logger.L.Error("Failed to encode JSON response", "error", err)
		}
	}
}

// SendJSONError is a helper function to send JSON formatted error responses.
func SendJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if logger.L != nil { // Check if logger is initialized
		logger.L.Warn("Sending JSON error to client", "message", message, "statusCode", statusCode)
	}
	// Even if logger isn't ready, still try to send the error response
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// DecodeJSONBody decodes a request body into dst, returning an error the
// caller should surface as a 400.
func DecodeJSONBody(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
