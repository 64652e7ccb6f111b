// Package handlers provides HTTP handlers for reprogramming simulations.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/openquantum/nanocell/internal/modules/reprogramming"
)

// RunRecorder persists completed simulations to the run history.
type RunRecorder interface {
	RecordReprogramming(factors reprogramming.Factors, result *reprogramming.SimulationResult) (string, error)
}

// Handler handles reprogramming HTTP requests
type Handler struct {
	service  *reprogramming.Service
	recorder RunRecorder // nil disables run recording
	log      zerolog.Logger
}

// NewHandler creates a new reprogramming handler
func NewHandler(service *reprogramming.Service, recorder RunRecorder, log zerolog.Logger) *Handler {
	return &Handler{
		service:  service,
		recorder: recorder,
		log:      log.With().Str("handler", "reprogramming").Logger(),
	}
}

// SimulateRequest represents a request to run a reprogramming simulation
type SimulateRequest struct {
	reprogramming.Factors
	Seed  *int64 `json:"seed,omitempty"`
	Shots int    `json:"shots,omitempty"`
}

// OptimizeRequest represents a request to plan a transformation pathway
type OptimizeRequest struct {
	InitialState []float64 `json:"initial_state"`
	TargetState  []float64 `json:"target_state"`
	Steps        int       `json:"steps,omitempty"`
}

// HandleSimulate handles POST /api/reprogramming/simulate
func (h *Handler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	seed := reprogramming.NewSeed()
	if req.Seed != nil {
		seed = *req.Seed
	}

	result, err := h.service.Simulate(req.Factors, seed, req.Shots)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	metadata := map[string]interface{}{
		"timestamp": time.Now().Format(time.RFC3339),
	}

	if h.recorder != nil {
		runID, err := h.recorder.RecordReprogramming(req.Factors, result)
		if err != nil {
			h.log.Error().Err(err).Msg("Failed to record reprogramming run")
		} else {
			metadata["run_id"] = runID
		}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":     result,
		"metadata": metadata,
	})
}

// HandleCircuit handles POST /api/reprogramming/circuit
func (h *Handler) HandleCircuit(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	desc, err := h.service.Describe(req.Factors)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": desc,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleOptimize handles POST /api/reprogramming/optimize
func (h *Handler) HandleOptimize(w http.ResponseWriter, r *http.Request) {
	var req OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	steps := req.Steps
	if steps == 0 {
		steps = 10
	}

	result, err := h.service.Optimize(req.InitialState, req.TargetState, steps)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": result,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
