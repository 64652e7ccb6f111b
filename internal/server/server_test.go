package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openquantum/nanocell/internal/config"
	"github.com/openquantum/nanocell/internal/database"
	"github.com/openquantum/nanocell/internal/modules/nanobot"
	"github.com/openquantum/nanocell/internal/modules/reprogramming"
	"github.com/openquantum/nanocell/internal/modules/runs"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	log := zerolog.New(nil).Level(zerolog.Disabled)
	dataDir := t.TempDir()

	db, err := database.New(database.Config{
		Path: filepath.Join(dataDir, "runs.db"),
		Name: "runs",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := runs.NewRepository(db.Conn(), log)
	require.NoError(t, repo.InitSchema())

	cfg := &config.Config{
		DataDir:          dataDir,
		Port:             8001,
		DefaultShots:     100,
		MaxDeliverySteps: 1000,
		RetentionDays:    30,
	}

	return New(Config{
		Log:           log,
		RunsDB:        db,
		Config:        cfg,
		Reprogramming: reprogramming.NewService(cfg.DefaultShots, log),
		Nanobots:      nanobot.NewService(cfg.MaxDeliverySteps, log),
		Runs:          runs.NewService(repo, log),
		Port:          cfg.Port,
		DevMode:       true,
	})
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/health", "/api/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, path)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "healthy", resp["status"])
		assert.Equal(t, "nanocell", resp["service"])
	}
}

func TestSystemStatusEndpoint(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/system/status", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "running", resp["status"])
	assert.Equal(t, true, resp["database_ok"])
}

func TestSimulateRecordsRun(t *testing.T) {
	s := newTestServer(t)

	body := `{"pluripotency": 0.8, "differentiation": 0.2, "growth": 0.5, "survival": 0.9, "seed": 42}`
	req := httptest.NewRequest(http.MethodPost, "/api/reprogramming/simulate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Metadata map[string]interface{} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	runID, ok := resp.Metadata["run_id"].(string)
	require.True(t, ok, "simulate response should carry a run_id")

	// The recorded run is retrievable through the history API.
	req = httptest.NewRequest(http.MethodGet, "/api/runs/"+runID, nil)
	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeliveryThenExport(t *testing.T) {
	s := newTestServer(t)

	body := `{"size_nm": 30, "payload": "mRNA", "seed": 42}`
	req := httptest.NewRequest(http.MethodPost, "/api/nanobots/delivery", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Metadata map[string]interface{} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	runID, ok := resp.Metadata["run_id"].(string)
	require.True(t, ok)

	req = httptest.NewRequest(http.MethodGet, "/api/runs/"+runID+"/export?format=csv", nil)
	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "step,x,y,z,velocity"))
}

func TestStreamEndpoint_BadParams(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		url  string
	}{
		{"missing size", "/api/nanobots/delivery/stream?payload=mRNA"},
		{"bad size", "/api/nanobots/delivery/stream?size_nm=abc&payload=mRNA"},
		{"out of range size", "/api/nanobots/delivery/stream?size_nm=500&payload=mRNA"},
		{"bad seed", "/api/nanobots/delivery/stream?size_nm=30&payload=mRNA&seed=xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()
			s.Router().ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestPayloadsEndpoint(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/nanobots/payloads", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data map[string]nanobot.PayloadFactors `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 4)
}
