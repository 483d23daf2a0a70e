package server

import (
	"encoding/json"
	"net/http"
)

// APIError is the error body of every endpoint.
type APIError struct {
	Detail string `json:"detail"`
}

// writeJSON writes a JSON response with a given status code.
func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to write json response", "err", err)
	}
}

// writeError writes a standardized APIError response.
func (s *Server) writeError(w http.ResponseWriter, statusCode int, detail string) {
	s.writeJSON(w, statusCode, APIError{Detail: detail})
}
