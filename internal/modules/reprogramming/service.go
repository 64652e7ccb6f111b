package reprogramming

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/openquantum/nanocell/internal/quantum"
)

// Service runs reprogramming simulations over the quantum engine.
type Service struct {
	defaultShots int
	log          zerolog.Logger
}

// NewService creates a new reprogramming service.
func NewService(defaultShots int, log zerolog.Logger) *Service {
	return &Service{
		defaultShots: defaultShots,
		log:          log.With().Str("service", "reprogramming").Logger(),
	}
}

// BuildCircuit constructs the reprogramming circuit for the given factors:
// Hadamard on every qubit, a CNOT entanglement chain, one Rx(π·factor)
// rotation per qubit, then measurement of the full register.
func BuildCircuit(f Factors) *quantum.Circuit {
	c := quantum.NewCircuit(NumFactors)

	// Uniform superposition over all cell states
	init := make(quantum.Moment, NumFactors)
	for q := 0; q < NumFactors; q++ {
		init[q] = quantum.Gate{Kind: quantum.GateH, Target: q, Control: -1}
	}
	c.Append(init)

	// Entangle neighbouring qubits to couple cell-state interactions
	for q := 0; q < NumFactors-1; q++ {
		c.Append(quantum.Moment{{Kind: quantum.GateCNOT, Target: q + 1, Control: q}})
	}

	// Rotate each qubit by its factor
	values := f.Values()
	rot := make(quantum.Moment, NumFactors)
	for q := 0; q < NumFactors; q++ {
		rot[q] = quantum.Gate{Kind: quantum.GateRx, Target: q, Control: -1, Theta: math.Pi * values[q]}
	}
	c.Append(rot)

	measure := make(quantum.Moment, NumFactors)
	for q := 0; q < NumFactors; q++ {
		measure[q] = quantum.Gate{Kind: quantum.GateMeasure, Target: q, Control: -1}
	}
	c.Append(measure)

	return c
}

// Describe builds the circuit for the factors and reports its shape without
// running a simulation.
func (s *Service) Describe(f Factors) (*CircuitDescription, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	c := BuildCircuit(f)
	ops := make([]string, 0, c.Depth())
	for _, m := range c.Moments {
		ops = append(ops, m.String())
	}

	return &CircuitDescription{
		QubitCount: c.Qubits,
		Depth:      c.Depth(),
		GateCount:  c.GateCount(),
		Operations: ops,
		Diagram:    c.Diagram(),
	}, nil
}

// Simulate runs the reprogramming circuit and derives the success
// probability from the measurement histogram. Shots <= 0 selects the
// configured default. The same seed always reproduces the same result.
func (s *Service) Simulate(f Factors, seed int64, shots int) (*SimulationResult, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if shots <= 0 {
		shots = s.defaultShots
	}

	circuit := BuildCircuit(f)
	sim := quantum.NewSimulator(seed)

	ev, err := sim.Evolve(circuit)
	if err != nil {
		return nil, fmt.Errorf("failed to evolve reprogramming circuit: %w", err)
	}

	counts := sim.Sample(ev.Final, shots)

	// Success: any measured state other than |0000⟩ indicates the register
	// moved off the ground state.
	success := 0
	histogram := make([]StateCount, 0, len(counts))
	for state := 0; state < 1<<NumFactors; state++ {
		n, ok := counts[state]
		if !ok {
			continue
		}
		if state > 0 {
			success += n
		}
		histogram = append(histogram, StateCount{
			State:       state,
			Bitstring:   fmt.Sprintf("%0*b", NumFactors, state),
			Count:       n,
			Probability: float64(n) / float64(shots),
		})
	}

	intermediates := make([]IntermediateState, len(ev.Steps))
	for i, step := range ev.Steps {
		intermediates[i] = IntermediateState{
			Step:          step.Moment,
			Operations:    step.Operations,
			Probabilities: step.Probabilities(),
		}
	}

	result := &SimulationResult{
		SuccessProbability: float64(success) / float64(shots),
		Shots:              shots,
		Seed:               seed,
		Histogram:          histogram,
		IntermediateStates: intermediates,
		CircuitDiagram:     circuit.Diagram(),
		QubitCount:         NumFactors,
	}

	s.log.Debug().
		Float64("success_probability", result.SuccessProbability).
		Int("shots", shots).
		Int64("seed", seed).
		Msg("Reprogramming simulation completed")

	return result, nil
}

// Optimize builds the layered transformation-pathway circuit: an initial
// superposition followed by the requested number of Rx(π/2)+CNOT layers.
func (s *Service) Optimize(initial, target []float64, steps int) (*OptimizationResult, error) {
	if len(initial) != NumFactors || len(target) != NumFactors {
		return nil, fmt.Errorf("initial and target states must have %d parameters", NumFactors)
	}
	if steps <= 0 {
		return nil, fmt.Errorf("steps must be positive, got %d", steps)
	}

	c := quantum.NewCircuit(NumFactors)

	init := make(quantum.Moment, NumFactors)
	for q := 0; q < NumFactors; q++ {
		init[q] = quantum.Gate{Kind: quantum.GateH, Target: q, Control: -1}
	}
	c.Append(init)

	optSteps := make([]OptimizationStep, steps)
	for step := 0; step < steps; step++ {
		var ops []string
		for q := 0; q < NumFactors; q++ {
			rx := quantum.Gate{Kind: quantum.GateRx, Target: q, Control: -1, Theta: math.Pi / 2}
			c.Append(quantum.Moment{rx})
			ops = append(ops, rx.String())

			if q < NumFactors-1 {
				cnot := quantum.Gate{Kind: quantum.GateCNOT, Target: q + 1, Control: q}
				c.Append(quantum.Moment{cnot})
				ops = append(ops, cnot.String())
			}
		}
		optSteps[step] = OptimizationStep{Step: step, Operations: ops}
	}

	return &OptimizationResult{
		Steps:          optSteps,
		TotalGates:     c.GateCount(),
		CircuitDepth:   c.Depth(),
		CircuitDiagram: c.Diagram(),
		InitialState:   initial,
		TargetState:    target,
	}, nil
}

// NewSeed produces a time-derived seed for requests that do not pin one.
func NewSeed() int64 {
	return time.Now().UnixNano()
}
