// Package reprogramming implements the quantum cell-reprogramming model:
// four biological factors parameterize a 4-qubit circuit whose measurement
// statistics yield a reprogramming success probability.
package reprogramming

import (
	"fmt"
	"math"
)

// NumFactors is the number of reprogramming factors and the register size.
const NumFactors = 4

// Factors holds the four bounded reprogramming factors. Each value is a
// scalar in [0,1], validated before any simulation.
type Factors struct {
	Pluripotency    float64 `json:"pluripotency"`
	Differentiation float64 `json:"differentiation"`
	Growth          float64 `json:"growth"`
	Survival        float64 `json:"survival"`
}

// Values returns the factors in qubit order.
func (f Factors) Values() [NumFactors]float64 {
	return [NumFactors]float64{f.Pluripotency, f.Differentiation, f.Growth, f.Survival}
}

// Validate checks that every factor is a finite value in [0,1].
func (f Factors) Validate() error {
	names := [NumFactors]string{"pluripotency", "differentiation", "growth", "survival"}
	for i, v := range f.Values() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s factor must be finite", names[i])
		}
		if v < 0 || v > 1 {
			return fmt.Errorf("%s factor must be between 0 and 1, got %g", names[i], v)
		}
	}
	return nil
}

// StateCount is one histogram entry of the measurement results.
type StateCount struct {
	State       int     `json:"state"`
	Bitstring   string  `json:"bitstring"`
	Count       int     `json:"count"`
	Probability float64 `json:"probability"`
}

// IntermediateState reports the basis-state probabilities after one moment
// of circuit evolution, for visualizing how the register evolves.
type IntermediateState struct {
	Step          int       `json:"step"`
	Operations    string    `json:"operations"`
	Probabilities []float64 `json:"probabilities"`
}

// SimulationResult is the full outcome of one reprogramming simulation.
type SimulationResult struct {
	SuccessProbability float64             `json:"success_probability"`
	Shots              int                 `json:"shots"`
	Seed               int64               `json:"seed"`
	Histogram          []StateCount        `json:"histogram"`
	IntermediateStates []IntermediateState `json:"intermediate_states"`
	CircuitDiagram     string              `json:"circuit_diagram"`
	QubitCount         int                 `json:"qubit_count"`
}

// CircuitDescription describes a built circuit without simulating it.
type CircuitDescription struct {
	QubitCount int      `json:"qubit_count"`
	Depth      int      `json:"depth"`
	GateCount  int      `json:"gate_count"`
	Operations []string `json:"operations"`
	Diagram    string   `json:"diagram"`
}

// OptimizationStep lists the operations applied in one pathway layer.
type OptimizationStep struct {
	Step       int      `json:"step"`
	Operations []string `json:"operations"`
}

// OptimizationResult describes a transformation-pathway circuit.
type OptimizationResult struct {
	Steps          []OptimizationStep `json:"optimization_steps"`
	TotalGates     int                `json:"total_gates"`
	CircuitDepth   int                `json:"circuit_depth"`
	CircuitDiagram string             `json:"circuit_diagram"`
	InitialState   []float64          `json:"initial_state"`
	TargetState    []float64          `json:"target_state"`
}
