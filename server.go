package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"i4.energy/across/ltecheck/check"
)

// Server handles incoming HTTP requests for triggering echo checks and
// reporting the last known result
type Server struct {
	Logger *slog.Logger
	Runner *check.Runner
}

// ServeHTTP implements the http.Handler interface for the Server struct
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /check", s.handleCheck)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.ServeHTTP(w, r)
}

func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	if message == "" {
		w.WriteHeader(statusCode)
		return
	}

	type ErrorResponse struct {
		Message string `json:"message"`
	}
	resp := ErrorResponse{Message: message}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

// handleCheck runs one echo check and returns its result
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	result := s.Runner.Check(r.Context())

	if result.Error != "" {
		s.Logger.Error("Echo check failed", "error", result.Error, "attempts", result.Attempts)
	} else {
		s.Logger.Info("Echo check completed", "ok", result.OK, "attempts", result.Attempts)
	}

	w.Header().Set("Content-Type", "application/json")
	if !result.OK {
		w.WriteHeader(http.StatusBadGateway)
	}
	json.NewEncoder(w).Encode(result)
}

// handleStatus reports the most recent echo check result
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	result, ok := s.Runner.Last()
	if !ok {
		s.sendError(w, "no check has completed yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
