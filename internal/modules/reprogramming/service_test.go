package reprogramming

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService() *Service {
	return NewService(100, zerolog.New(nil).Level(zerolog.Disabled))
}

func validFactors() Factors {
	return Factors{
		Pluripotency:    0.5,
		Differentiation: 0.3,
		Growth:          0.4,
		Survival:        0.6,
	}
}

func TestFactorsValidate(t *testing.T) {
	assert.NoError(t, validFactors().Validate())

	f := validFactors()
	f.Growth = 1.5
	err := f.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "growth")

	f = validFactors()
	f.Pluripotency = -0.1
	assert.Error(t, f.Validate())

	// Boundaries are valid
	assert.NoError(t, Factors{}.Validate())
	assert.NoError(t, Factors{1, 1, 1, 1}.Validate())
}

func TestBuildCircuit(t *testing.T) {
	c := BuildCircuit(validFactors())

	require.NoError(t, c.Validate())
	assert.Equal(t, NumFactors, c.Qubits)
	// H moment + 3 CNOT moments + Rx moment + measurement moment
	assert.Equal(t, 6, c.Depth())
	// 4 H + 3 CNOT + 4 Rx + 4 M
	assert.Equal(t, 15, c.GateCount())
	assert.True(t, c.HasMeasurement())
}

func TestSimulate(t *testing.T) {
	svc := testService()

	result, err := svc.Simulate(validFactors(), 42, 0)
	require.NoError(t, err)

	assert.Equal(t, 100, result.Shots, "zero shots falls back to default")
	assert.Equal(t, int64(42), result.Seed)
	assert.Equal(t, NumFactors, result.QubitCount)
	assert.GreaterOrEqual(t, result.SuccessProbability, 0.0)
	assert.LessOrEqual(t, result.SuccessProbability, 1.0)
	assert.NotEmpty(t, result.CircuitDiagram)

	// Histogram counts sum to the number of shots
	total := 0
	for _, entry := range result.Histogram {
		total += entry.Count
		assert.Len(t, entry.Bitstring, NumFactors)
		assert.InDelta(t, float64(entry.Count)/100.0, entry.Probability, 1e-12)
	}
	assert.Equal(t, 100, total)

	// Intermediate states cover every non-measurement moment
	require.Len(t, result.IntermediateStates, 5)
	for _, state := range result.IntermediateStates {
		require.Len(t, state.Probabilities, 1<<NumFactors)
		sum := 0.0
		for _, p := range state.Probabilities {
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestSimulate_Reproducible(t *testing.T) {
	svc := testService()

	a, err := svc.Simulate(validFactors(), 7, 200)
	require.NoError(t, err)
	b, err := svc.Simulate(validFactors(), 7, 200)
	require.NoError(t, err)

	assert.Equal(t, a.Histogram, b.Histogram)
	assert.Equal(t, a.SuccessProbability, b.SuccessProbability)
}

func TestSimulate_SuccessProbabilityBounds(t *testing.T) {
	svc := testService()

	corners := []Factors{
		{},
		{1, 1, 1, 1},
		{0, 1, 0, 1},
		{0.25, 0.5, 0.75, 1},
	}
	for _, f := range corners {
		result, err := svc.Simulate(f, 99, 100)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.SuccessProbability, 0.0)
		assert.LessOrEqual(t, result.SuccessProbability, 1.0)
	}
}

func TestSimulate_InvalidFactors(t *testing.T) {
	svc := testService()

	f := validFactors()
	f.Survival = 2.0
	_, err := svc.Simulate(f, 1, 100)
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	svc := testService()

	desc, err := svc.Describe(validFactors())
	require.NoError(t, err)

	assert.Equal(t, NumFactors, desc.QubitCount)
	assert.Equal(t, 6, desc.Depth)
	assert.Equal(t, 15, desc.GateCount)
	assert.Len(t, desc.Operations, 6)
	assert.NotEmpty(t, desc.Diagram)
}

func TestOptimize(t *testing.T) {
	svc := testService()

	initial := []float64{0, 0, 0, 0}
	target := []float64{1, 1, 1, 1}

	short, err := svc.Optimize(initial, target, 5)
	require.NoError(t, err)
	long, err := svc.Optimize(initial, target, 10)
	require.NoError(t, err)

	assert.Len(t, short.Steps, 5)
	assert.Len(t, long.Steps, 10)
	assert.Greater(t, long.CircuitDepth, short.CircuitDepth)
	assert.Greater(t, long.TotalGates, short.TotalGates)

	// Each layer applies 4 rotations and 3 entangling gates
	for _, step := range short.Steps {
		assert.Len(t, step.Operations, 7)
	}
	assert.Equal(t, initial, short.InitialState)
	assert.Equal(t, target, short.TargetState)
}

func TestOptimize_InvalidInput(t *testing.T) {
	svc := testService()

	_, err := svc.Optimize([]float64{0, 0}, []float64{1, 1, 1, 1}, 5)
	assert.Error(t, err)

	_, err = svc.Optimize([]float64{0, 0, 0, 0}, []float64{1, 1, 1, 1}, 0)
	assert.Error(t, err)
}
