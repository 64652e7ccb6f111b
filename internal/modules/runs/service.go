package runs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/openquantum/nanocell/internal/modules/nanobot"
	"github.com/openquantum/nanocell/internal/modules/reprogramming"
)

// Service records simulation runs and serves the run history.
type Service struct {
	repo *Repository
	log  zerolog.Logger
}

// NewService creates the runs service.
func NewService(repo *Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("service", "runs").Logger(),
	}
}

// RecordReprogramming persists a completed reprogramming simulation and
// returns the new run ID.
func (s *Service) RecordReprogramming(factors reprogramming.Factors, result *reprogramming.SimulationResult) (string, error) {
	params, err := json.Marshal(ReprogrammingParams{
		Factors: factors,
		Seed:    result.Seed,
		Shots:   result.Shots,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode run params: %w", err)
	}

	summary, err := json.Marshal(ReprogrammingSummary{
		SuccessProbability: result.SuccessProbability,
		Shots:              result.Shots,
		Seed:               result.Seed,
		Histogram:          result.Histogram,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode run summary: %w", err)
	}

	run := Run{
		ID:        uuid.New().String(),
		Kind:      KindReprogramming,
		CreatedAt: time.Now().UTC(),
		Params:    params,
		Summary:   summary,
	}

	if err := s.repo.Save(run); err != nil {
		return "", err
	}

	return run.ID, nil
}

// RecordDelivery persists a completed delivery simulation, trajectory
// included, and returns the new run ID.
func (s *Service) RecordDelivery(cfg nanobot.Config, result *nanobot.DeliveryResult) (string, error) {
	params, err := json.Marshal(DeliveryParams{
		SizeNm:  cfg.Size,
		Payload: cfg.Payload,
		Target:  result.Target,
		Seed:    result.Seed,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode run params: %w", err)
	}

	summary, err := json.Marshal(DeliverySummary{
		Mechanism:         result.Design.Mechanism,
		OverallEfficiency: result.Design.Efficiency.Overall,
		Steps:             result.Steps,
		TargetReached:     result.TargetReached,
		FinalDistance:     result.FinalDistance,
		SuccessRate:       result.SuccessRate,
		Analysis:          result.Analysis,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode run summary: %w", err)
	}

	run := Run{
		ID:        uuid.New().String(),
		Kind:      KindDelivery,
		CreatedAt: time.Now().UTC(),
		Params:    params,
		Summary:   summary,
		Samples:   result.Samples,
	}

	if err := s.repo.Save(run); err != nil {
		return "", err
	}

	return run.ID, nil
}

// List returns run metadata, most recent first.
func (s *Service) List(kind Kind, limit int) ([]Info, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return s.repo.List(kind, limit)
}

// Get returns a run with its trajectory, or nil when absent.
func (s *Service) Get(id string) (*Run, error) {
	return s.repo.Get(id)
}

// Delete removes a run. Returns false when the run did not exist.
func (s *Service) Delete(id string) (bool, error) {
	return s.repo.Delete(id)
}

// PurgeOlderThan deletes runs created before the cutoff.
func (s *Service) PurgeOlderThan(cutoff time.Time) (int64, error) {
	return s.repo.PurgeOlderThan(cutoff)
}
