// Package handlers provides HTTP handlers for the run history.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/openquantum/nanocell/internal/modules/runs"
)

// Handler handles run history HTTP requests
type Handler struct {
	service *runs.Service
	log     zerolog.Logger
}

// NewHandler creates a new runs handler
func NewHandler(service *runs.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "runs").Logger(),
	}
}

// HandleList handles GET /api/runs
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	kind := runs.Kind(r.URL.Query().Get("kind"))
	if kind != "" && kind != runs.KindReprogramming && kind != runs.KindDelivery {
		http.Error(w, "Invalid kind filter", http.StatusBadRequest)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	infos, err := h.service.List(kind, limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list runs")
		http.Error(w, "Failed to list runs", http.StatusInternalServerError)
		return
	}
	if infos == nil {
		infos = []runs.Info{}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": infos,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
			"count":     len(infos),
		},
	})
}

// HandleGet handles GET /api/runs/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.service.Get(id)
	if err != nil {
		h.log.Error().Err(err).Str("run_id", id).Msg("Failed to get run")
		http.Error(w, "Failed to get run", http.StatusInternalServerError)
		return
	}
	if run == nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": run,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleExport handles GET /api/runs/{id}/export?format=csv|json
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.service.Get(id)
	if err != nil {
		h.log.Error().Err(err).Str("run_id", id).Msg("Failed to get run for export")
		http.Error(w, "Failed to get run", http.StatusInternalServerError)
		return
	}
	if run == nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="run_%s.csv"`, run.ID))
		if err := runs.ExportCSV(w, run); err != nil {
			h.log.Error().Err(err).Str("run_id", id).Msg("Failed to export run as CSV")
		}
	case "json":
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="run_%s.json"`, run.ID))
		h.writeJSON(w, http.StatusOK, run)
	default:
		http.Error(w, "Unsupported export format", http.StatusBadRequest)
	}
}

// HandleDelete handles DELETE /api/runs/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.service.Delete(id)
	if err != nil {
		h.log.Error().Err(err).Str("run_id", id).Msg("Failed to delete run")
		http.Error(w, "Failed to delete run", http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{"deleted": id},
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
