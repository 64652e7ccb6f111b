package nanobot

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/openquantum/nanocell/pkg/formulas"
)

const (
	// targetThreshold is the arrival distance
	targetThreshold = 1e-3

	// brownianSigma is the per-axis standard deviation of thermal noise
	brownianSigma = 0.01

	// resistanceCoeff scales the fluid drag opposing the base velocity
	resistanceCoeff = 0.05

	// interactionCoeff scales the cellular interaction term
	interactionCoeff = 0.02
)

// mechanismVelocity is the base step velocity per delivery mechanism.
var mechanismVelocity = map[Mechanism]float64{
	MechanismPassiveDiffusion: 0.05,
	MechanismActiveTransport:  0.10,
	MechanismGuidedPropulsion: 0.15,
}

// StepObserver is invoked after every integration step, e.g. to stream
// trajectory samples to a client. A non-nil error aborts the simulation.
type StepObserver func(Sample) error

// Delivery integrates nanobot trajectories through the environment.
type Delivery struct {
	maxSteps int
	log      zerolog.Logger
}

// NewDelivery creates a delivery simulator with a default step cap.
func NewDelivery(maxSteps int, log zerolog.Logger) *Delivery {
	return &Delivery{
		maxSteps: maxSteps,
		log:      log.With().Str("service", "nanobot_delivery").Logger(),
	}
}

// Simulate integrates the nanobot from the origin toward the target. Every
// step combines directed motion scaled by the design's efficiency with
// Brownian noise, fluid resistance and a cellular interaction term. The
// integration stops on arrival, at the step cap, on context cancellation,
// or when the observer rejects a sample. observe may be nil.
func (d *Delivery) Simulate(
	ctx context.Context,
	design *Design,
	target [3]float64,
	seed int64,
	maxSteps int,
	observe StepObserver,
) (*DeliveryResult, error) {
	if design == nil {
		return nil, fmt.Errorf("invalid nanobot design")
	}
	if maxSteps <= 0 || maxSteps > d.maxSteps {
		maxSteps = d.maxSteps
	}

	noise := distuv.Normal{Mu: 0, Sigma: brownianSigma, Src: rand.NewSource(uint64(seed))}
	baseVelocity := mechanismVelocity[design.Mechanism] * design.Efficiency.Overall

	var current [3]float64
	samples := []Sample{{Step: 0, Position: current, Velocity: 0}}

	velocities := make([]float64, 0, maxSteps)
	brownianMags := make([]float64, 0, maxSteps)
	resistances := make([]float64, 0, maxSteps)
	interactions := make([]float64, 0, maxSteps)

	steps := 0
	for distanceTo(current, target) >= targetThreshold && steps < maxSteps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("delivery simulation cancelled: %w", err)
		}

		direction := directionTo(current, target)
		fluidResistance := -resistanceCoeff * baseVelocity
		velocity := baseVelocity + fluidResistance

		var brownian [3]float64
		for i := range brownian {
			brownian[i] = noise.Rand()
		}
		interaction := interactionCoeff * math.Sin(current[0]+current[1]+current[2])

		for i := range current {
			current[i] += direction[i]*velocity + brownian[i] + interaction*direction[i]
		}
		steps++

		sample := Sample{Step: steps, Position: current, Velocity: velocity}
		samples = append(samples, sample)
		velocities = append(velocities, velocity)
		brownianMags = append(brownianMags, formulas.Norm(brownian[:]))
		resistances = append(resistances, fluidResistance)
		interactions = append(interactions, interaction)

		if observe != nil {
			if err := observe(sample); err != nil {
				return nil, fmt.Errorf("delivery observer aborted: %w", err)
			}
		}
	}

	finalDistance := distanceTo(current, target)
	reached := finalDistance < targetThreshold

	result := &DeliveryResult{
		Design:        design,
		Target:        target,
		Seed:          seed,
		Steps:         steps,
		TargetReached: reached,
		FinalDistance: finalDistance,
		SuccessRate:   successRate(finalDistance, target, len(samples)),
		Samples:       samples,
		Analysis:      analyzeTrajectory(samples, velocities, brownianMags, resistances, interactions),
	}

	d.log.Debug().
		Int("steps", steps).
		Bool("target_reached", reached).
		Float64("success_rate", result.SuccessRate).
		Msg("Delivery simulation completed")

	return result, nil
}

// successRate scores the delivery: 70% weighted by how close the nanobot
// ended to the target, 30% by how direct the path was.
func successRate(finalDistance float64, target [3]float64, pathLen int) float64 {
	maxExpected := formulas.Norm(target[:])

	normalized := 1.0
	if maxExpected > 0 {
		normalized = math.Min(finalDistance/maxExpected, 1.0)
	} else if finalDistance < targetThreshold {
		normalized = 0.0
	}
	distanceScore := 1.0 - normalized

	pathEfficiency := 0.0
	if pathLen > 0 {
		pathEfficiency = 1.0 / float64(pathLen)
	}

	score := 0.7*distanceScore + 0.3*pathEfficiency
	return math.Max(0, math.Min(1, score))
}

func analyzeTrajectory(samples []Sample, velocities, brownianMags, resistances, interactions []float64) TrajectoryAnalysis {
	points := make([][]float64, len(samples))
	for i, s := range samples {
		p := s.Position
		points[i] = []float64{p[0], p[1], p[2]}
	}

	return TrajectoryAnalysis{
		TotalDistance:    formulas.PathLength(points),
		AverageVelocity:  formulas.Mean(velocities),
		VelocityVariance: formulas.Variance(velocities),
		PathLinearity:    formulas.PathLinearity(points),
		EnvironmentalImpact: EnvironmentalImpact{
			BrownianIntensity:           formulas.Mean(brownianMags),
			ResistanceImpact:            formulas.Mean(resistances),
			CellularInteractionStrength: formulas.Mean(interactions),
		},
	}
}

func distanceTo(current, target [3]float64) float64 {
	return formulas.Distance(current[:], target[:])
}

// directionTo returns the unit vector pointing from current to target,
// or the zero vector when they coincide.
func directionTo(current, target [3]float64) [3]float64 {
	var dir [3]float64
	for i := range dir {
		dir[i] = target[i] - current[i]
	}
	norm := formulas.Norm(dir[:])
	if norm > 0 {
		for i := range dir {
			dir[i] /= norm
		}
	}
	return dir
}
