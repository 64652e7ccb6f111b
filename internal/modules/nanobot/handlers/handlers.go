// Package handlers provides HTTP handlers for nanobot design and delivery.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/openquantum/nanocell/internal/modules/nanobot"
)

// RunRecorder persists completed deliveries to the run history.
type RunRecorder interface {
	RecordDelivery(cfg nanobot.Config, result *nanobot.DeliveryResult) (string, error)
}

// Handler handles nanobot HTTP requests
type Handler struct {
	service  *nanobot.Service
	recorder RunRecorder // nil disables run recording
	log      zerolog.Logger
}

// NewHandler creates a new nanobot handler
func NewHandler(service *nanobot.Service, recorder RunRecorder, log zerolog.Logger) *Handler {
	return &Handler{
		service:  service,
		recorder: recorder,
		log:      log.With().Str("handler", "nanobot").Logger(),
	}
}

// HandleDesign handles POST /api/nanobots/design
func (h *Handler) HandleDesign(w http.ResponseWriter, r *http.Request) {
	var cfg nanobot.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	design, err := h.service.Design(cfg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": design,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleDelivery handles POST /api/nanobots/delivery
func (h *Handler) HandleDelivery(w http.ResponseWriter, r *http.Request) {
	var cfg nanobot.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.SimulateDelivery(r.Context(), cfg, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	metadata := map[string]interface{}{
		"timestamp": time.Now().Format(time.RFC3339),
	}

	if h.recorder != nil {
		runID, err := h.recorder.RecordDelivery(cfg, result)
		if err != nil {
			h.log.Error().Err(err).Msg("Failed to record delivery run")
		} else {
			metadata["run_id"] = runID
		}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":     result,
		"metadata": metadata,
	})
}

// HandlePayloads handles GET /api/nanobots/payloads
func (h *Handler) HandlePayloads(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": h.service.PayloadCatalog(),
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
