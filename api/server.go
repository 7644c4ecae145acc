// Package api - Thin, deterministic API layer.
// The API is ONLY responsible for: input ingestion, engine orchestration,
// output serialization. The API NEVER performs estimation logic.
package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"sow-estimator/core/engine"
	"sow-estimator/core/types"
	"sow-estimator/internal/errors"
)

// Server is the API server
type Server struct {
	orchestrator *engine.Orchestrator
	mux          *http.ServeMux
	version      string
}

// NewServer creates a new API server around the orchestrator
func NewServer(version string, orchestrator *engine.Orchestrator) *Server {
	s := &Server{
		orchestrator: orchestrator,
		mux:          http.NewServeMux(),
		version:      version,
	}
	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	// Core endpoints
	s.mux.HandleFunc("POST /api/message", s.handleMessage)
	s.mux.HandleFunc("POST /api/followup", s.handleFollowup)

	// Administration
	s.mux.HandleFunc("GET /api/admin/ratecard", s.handleGetRateCard)
	s.mux.HandleFunc("PUT /api/admin/ratecard", s.handlePutRateCard)

	// Knowledge ingestion
	s.mux.HandleFunc("POST /api/ingest/sow", s.handleIngestSOW)
	s.mux.HandleFunc("POST /api/ingest/chat", s.handleIngestChat)

	// Supporting endpoints
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)
}

// handleMessage handles POST /api/message
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.orchestrator.ProcessClientInput(r.Context(), req.Text, req.Client)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	s.writeJSON(w, &MessageResponse{
		RequiresClarification: result.RequiresClarification,
		Questions:             result.Questions,
		Proposal:              toProposalResponse(result.Proposal),
	}, http.StatusOK)
}

// handleFollowup handles POST /api/followup
func (s *Server) handleFollowup(w http.ResponseWriter, r *http.Request) {
	var req FollowupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		s.writeError(w, "VALIDATION_ERROR", "text is required", http.StatusBadRequest)
		return
	}

	proposal, err := s.orchestrator.ProcessFollowup(r.Context(), req.Text, req.Answers, req.Structured, req.Client)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	s.writeJSON(w, toProposalResponse(proposal), http.StatusOK)
}

// handleGetRateCard handles GET /api/admin/ratecard
func (s *Server) handleGetRateCard(w http.ResponseWriter, r *http.Request) {
	card := s.orchestrator.RateCard(r.Context())

	rates := make(map[string]string, len(card))
	for role, rate := range card {
		rates[role] = rate.String()
	}
	s.writeJSON(w, &RateCardResponse{Rates: rates}, http.StatusOK)
}

// handlePutRateCard handles PUT /api/admin/ratecard
func (s *Server) handlePutRateCard(w http.ResponseWriter, r *http.Request) {
	var req RateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	card := types.RateCard{}
	for role, rate := range req.Rates {
		value, err := decimal.NewFromString(rate)
		if err != nil {
			s.writeError(w, "VALIDATION_ERROR", "invalid rate for role "+role, http.StatusBadRequest)
			return
		}
		card[role] = value
	}

	if err := s.orchestrator.UpdateRateCard(r.Context(), card); err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeJSON(w, map[string]string{"status": "updated"}, http.StatusOK)
}

// handleIngestSOW handles POST /api/ingest/sow
func (s *Server) handleIngestSOW(w http.ResponseWriter, r *http.Request) {
	var req IngestSOWRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		s.writeError(w, "VALIDATION_ERROR", "text is required", http.StatusBadRequest)
		return
	}

	if err := s.orchestrator.IngestSOW(r.Context(), req.Text, req.Filename, req.Metadata); err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeJSON(w, &IngestResponse{Status: "stored"}, http.StatusCreated)
}

// handleIngestChat handles POST /api/ingest/chat
func (s *Server) handleIngestChat(w http.ResponseWriter, r *http.Request) {
	var req IngestChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Messages) == 0 {
		s.writeError(w, "VALIDATION_ERROR", "messages are required", http.StatusBadRequest)
		return
	}

	if err := s.orchestrator.IngestChat(r.Context(), req.Messages, req.Metadata); err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeJSON(w, &IngestResponse{Status: "stored"}, http.StatusCreated)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version": s.version,
		"engine":  "sow-estimator",
	}, http.StatusOK)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, code, message string, status int) {
	s.writeJSON(w, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	}, status)
}

// writeEngineError maps the internal error taxonomy to HTTP statuses
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.IsType(err, errors.TypeInput), errors.IsType(err, errors.TypeValidation):
		s.writeError(w, "VALIDATION_ERROR", err.Error(), http.StatusBadRequest)
	case errors.IsType(err, errors.TypeNotFound):
		s.writeError(w, "NOT_FOUND", err.Error(), http.StatusNotFound)
	case errors.IsType(err, errors.TypeStorage):
		s.writeError(w, "STORAGE_ERROR", err.Error(), http.StatusServiceUnavailable)
	default:
		s.writeError(w, "ENGINE_ERROR", err.Error(), http.StatusInternalServerError)
	}
}

func encodeSOW(sow string) string {
	return base64.StdEncoding.EncodeToString([]byte(sow))
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the server
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
