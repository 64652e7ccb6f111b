package quantum

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Qubit ordering follows the convention that qubit 0 is the most
// significant bit of a basis-state index, so |q0 q1 q2 q3⟩ = |0110⟩
// is index 6 on a 4-qubit register.

// StepState captures the register state after one moment has been applied.
type StepState struct {
	Moment     int
	Operations string
	Amplitudes []complex128
}

// Probabilities returns the Born-rule probability of each basis state.
func (s StepState) Probabilities() []float64 {
	return Probabilities(s.Amplitudes)
}

// Evolution is the result of evolving a circuit: the final statevector and
// the intermediate state after each non-measurement moment.
type Evolution struct {
	Final []complex128
	Steps []StepState
}

// Simulator evolves statevectors and samples measurements. The RNG drives
// measurement sampling only; evolution itself is deterministic.
type Simulator struct {
	rng *rand.Rand
}

// NewSimulator creates a simulator seeded for reproducible sampling.
func NewSimulator(seed int64) *Simulator {
	return &Simulator{rng: rand.New(rand.NewSource(seed))}
}

// Evolve applies the circuit's moments to the |0...0⟩ state, recording the
// statevector after each moment. Measurement moments terminate evolution;
// sampling is a separate step so intermediate states stay observable.
func (s *Simulator) Evolve(c *Circuit) (*Evolution, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid circuit: %w", err)
	}

	dim := 1 << c.Qubits
	state := make([]complex128, dim)
	state[0] = 1

	ev := &Evolution{}
	for i, m := range c.Moments {
		if isMeasurement(m) {
			break
		}
		for _, g := range m {
			applyGate(state, c.Qubits, g)
		}
		step := StepState{
			Moment:     i,
			Operations: m.String(),
			Amplitudes: append([]complex128(nil), state...),
		}
		ev.Steps = append(ev.Steps, step)
	}

	ev.Final = state
	return ev, nil
}

// Sample draws shots measurements from the state's Born distribution and
// returns a histogram keyed by basis-state index.
func (s *Simulator) Sample(state []complex128, shots int) map[int]int {
	probs := Probabilities(state)

	// Cumulative distribution for inverse-transform sampling
	cdf := make([]float64, len(probs))
	sum := 0.0
	for i, p := range probs {
		sum += p
		cdf[i] = sum
	}

	counts := make(map[int]int)
	for i := 0; i < shots; i++ {
		r := s.rng.Float64() * sum
		idx := sort.SearchFloat64s(cdf, r)
		if idx >= len(probs) {
			idx = len(probs) - 1
		}
		// r landing exactly on the boundary of a zero-width interval must
		// not select a zero-probability state
		for idx < len(probs)-1 && probs[idx] == 0 {
			idx++
		}
		counts[idx]++
	}
	return counts
}

// Probabilities returns |amp|² for every amplitude.
func Probabilities(state []complex128) []float64 {
	probs := make([]float64, len(state))
	for i, amp := range state {
		re, im := real(amp), imag(amp)
		probs[i] = re*re + im*im
	}
	return probs
}

// TotalProbability sums the Born probabilities; a normalized state gives 1.
func TotalProbability(state []complex128) float64 {
	total := 0.0
	for _, p := range Probabilities(state) {
		total += p
	}
	return total
}

func isMeasurement(m Moment) bool {
	for _, g := range m {
		if g.Kind == GateMeasure {
			return true
		}
	}
	return false
}

// bitOf returns the bit position of a qubit within a basis-state index.
func bitOf(qubits, q int) int {
	return qubits - 1 - q
}

func applyGate(state []complex128, qubits int, g Gate) {
	switch g.Kind {
	case GateH:
		applySingle(state, qubits, g.Target, hadamard())
	case GateRx:
		applySingle(state, qubits, g.Target, rotationX(g.Theta))
	case GateCNOT:
		applyCNOT(state, qubits, g.Control, g.Target)
	case GateMeasure:
		// Terminal; handled by the caller via Sample.
	}
}

// single-qubit gate as a 2x2 matrix [[a,b],[c,d]]
type mat2 struct {
	a, b, c, d complex128
}

func hadamard() mat2 {
	h := complex(1/math.Sqrt2, 0)
	return mat2{a: h, b: h, c: h, d: -h}
}

// rotationX builds Rx(θ) = [[cos(θ/2), -i·sin(θ/2)], [-i·sin(θ/2), cos(θ/2)]]
func rotationX(theta float64) mat2 {
	cos := complex(math.Cos(theta/2), 0)
	isin := complex(0, -math.Sin(theta/2))
	return mat2{a: cos, b: isin, c: isin, d: cos}
}

// applySingle applies a 2x2 gate to the target qubit by pairing amplitudes
// that differ only in the target bit.
func applySingle(state []complex128, qubits, target int, m mat2) {
	bit := 1 << bitOf(qubits, target)
	for i := range state {
		if i&bit != 0 {
			continue
		}
		j := i | bit
		a0, a1 := state[i], state[j]
		state[i] = m.a*a0 + m.b*a1
		state[j] = m.c*a0 + m.d*a1
	}
}

// applyCNOT flips the target bit of every basis state whose control bit is set.
func applyCNOT(state []complex128, qubits, control, target int) {
	cbit := 1 << bitOf(qubits, control)
	tbit := 1 << bitOf(qubits, target)
	for i := range state {
		if i&cbit != 0 && i&tbit == 0 {
			j := i | tbit
			state[i], state[j] = state[j], state[i]
		}
	}
}
