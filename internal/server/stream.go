package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/openquantum/nanocell/internal/modules/nanobot"
)

// streamWriteTimeout bounds a single sample write to a slow client.
const streamWriteTimeout = 5 * time.Second

// StreamMessage is one frame of the delivery stream: every integration
// step as a "sample" frame, then a final "result" frame with the
// trajectory omitted.
type StreamMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// StreamHandler streams delivery simulations over a WebSocket.
type StreamHandler struct {
	nanobots *nanobot.Service
	log      zerolog.Logger
}

// NewStreamHandler creates a delivery stream handler
func NewStreamHandler(nanobots *nanobot.Service, log zerolog.Logger) *StreamHandler {
	return &StreamHandler{
		nanobots: nanobots,
		log:      log.With().Str("handler", "delivery_stream").Logger(),
	}
}

// ServeHTTP handles GET /api/nanobots/delivery/stream.
// Query parameters mirror the delivery request body: size_nm, payload,
// and optionally seed and max_steps.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cfg, err := parseStreamConfig(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Validate before upgrading so bad requests get a plain 400.
	if err := cfg.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to accept WebSocket connection")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream aborted")

	ctx := r.Context()

	result, err := h.nanobots.SimulateDelivery(ctx, cfg, func(s nanobot.Sample) error {
		writeCtx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
		defer cancel()
		return wsjson.Write(writeCtx, conn, StreamMessage{Type: "sample", Data: s})
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("Delivery stream ended early")
		conn.Close(websocket.StatusGoingAway, "simulation aborted")
		return
	}

	// Samples were already streamed frame by frame.
	final := *result
	final.Samples = nil

	writeCtx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
	defer cancel()
	if err := wsjson.Write(writeCtx, conn, StreamMessage{Type: "result", Data: final}); err != nil {
		h.log.Warn().Err(err).Msg("Failed to write final stream frame")
		return
	}

	conn.Close(websocket.StatusNormalClosure, "")
}

func parseStreamConfig(r *http.Request) (nanobot.Config, error) {
	q := r.URL.Query()

	var cfg nanobot.Config

	size, err := strconv.ParseFloat(q.Get("size_nm"), 64)
	if err != nil {
		return cfg, errInvalidParam("size_nm")
	}
	cfg.Size = size
	cfg.Payload = nanobot.PayloadType(q.Get("payload"))

	if raw := q.Get("seed"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return cfg, errInvalidParam("seed")
		}
		cfg.Seed = &seed
	}

	if raw := q.Get("max_steps"); raw != "" {
		steps, err := strconv.Atoi(raw)
		if err != nil {
			return cfg, errInvalidParam("max_steps")
		}
		cfg.MaxSteps = steps
	}

	return cfg, nil
}

type errInvalidParam string

func (e errInvalidParam) Error() string {
	return "invalid query parameter: " + string(e)
}
