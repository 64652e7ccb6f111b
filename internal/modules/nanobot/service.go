package nanobot

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
)

// Service coordinates nanobot design and delivery simulation.
type Service struct {
	designer *Designer
	delivery *Delivery
	log      zerolog.Logger
}

// NewService creates the nanobot service. maxSteps caps delivery
// integrations that do not request their own limit.
func NewService(maxSteps int, log zerolog.Logger) *Service {
	return &Service{
		designer: NewDesigner(log),
		delivery: NewDelivery(maxSteps, log),
		log:      log.With().Str("service", "nanobot").Logger(),
	}
}

// Design produces a nanobot design for the config without simulating
// its delivery.
func (s *Service) Design(cfg Config) (*Design, error) {
	return s.designer.Design(cfg)
}

// PayloadCatalog returns the supported payload types with their factors.
func (s *Service) PayloadCatalog() map[PayloadType]PayloadFactors {
	catalog := make(map[PayloadType]PayloadFactors, len(payloadTable))
	for _, p := range PayloadTypes() {
		catalog[p] = payloadTable[p]
	}
	return catalog
}

// SimulateDelivery designs a nanobot and integrates its trajectory. When the
// config omits the seed it is derived from the clock; an omitted target is
// drawn uniformly from the unit cube using the seed, so runs stay
// reproducible from the seed alone. observe may be nil.
func (s *Service) SimulateDelivery(ctx context.Context, cfg Config, observe StepObserver) (*DeliveryResult, error) {
	design, err := s.designer.Design(cfg)
	if err != nil {
		return nil, err
	}

	seed := NewSeed()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}

	var target [3]float64
	if cfg.Target != nil {
		target = *cfg.Target
	} else {
		rng := rand.New(rand.NewSource(uint64(seed)))
		for i := range target {
			target[i] = rng.Float64()
		}
	}

	result, err := s.delivery.Simulate(ctx, design, target, seed, cfg.MaxSteps, observe)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Float64("size_nm", cfg.Size).
		Str("payload", string(cfg.Payload)).
		Int64("seed", seed).
		Int("steps", result.Steps).
		Bool("target_reached", result.TargetReached).
		Msg("Delivery simulation finished")

	return result, nil
}

// NewSeed derives a simulation seed from the clock.
func NewSeed() int64 {
	return time.Now().UnixNano()
}
