// Package quantum implements a small statevector simulator for fixed-size
// qubit registers. It supports the gate set needed by the reprogramming
// model: Hadamard, CNOT, X-axis rotations and terminal measurement.
package quantum

import (
	"fmt"
	"math"
	"strings"
)

// GateKind identifies the type of a quantum gate.
type GateKind string

const (
	GateH       GateKind = "H"
	GateCNOT    GateKind = "CNOT"
	GateRx      GateKind = "Rx"
	GateMeasure GateKind = "M"
)

// Gate represents a single gate application on the register.
type Gate struct {
	Kind    GateKind
	Target  int
	Control int     // control qubit for CNOT, -1 otherwise
	Theta   float64 // rotation angle in radians, Rx only
}

// String renders the gate in operation-list form, e.g. "Rx(0.50π, q2)".
func (g Gate) String() string {
	switch g.Kind {
	case GateCNOT:
		return fmt.Sprintf("CNOT(q%d, q%d)", g.Control, g.Target)
	case GateRx:
		return fmt.Sprintf("Rx(%.2fπ, q%d)", g.Theta/math.Pi, g.Target)
	case GateMeasure:
		return fmt.Sprintf("M(q%d)", g.Target)
	default:
		return fmt.Sprintf("%s(q%d)", g.Kind, g.Target)
	}
}

// Moment is a set of gates that act in the same time step. Gates in a
// moment must touch disjoint qubits.
type Moment []Gate

// String lists the moment's operations.
func (m Moment) String() string {
	parts := make([]string, len(m))
	for i, g := range m {
		parts[i] = g.String()
	}
	return strings.Join(parts, " ")
}

// Circuit holds an ordered sequence of moments over a fixed register.
type Circuit struct {
	Qubits  int
	Moments []Moment
}

// NewCircuit creates an empty circuit over the given number of qubits.
func NewCircuit(qubits int) *Circuit {
	return &Circuit{Qubits: qubits}
}

// Append adds a moment to the end of the circuit.
func (c *Circuit) Append(m Moment) {
	c.Moments = append(c.Moments, m)
}

// Depth returns the number of moments.
func (c *Circuit) Depth() int {
	return len(c.Moments)
}

// GateCount returns the total number of gate operations.
func (c *Circuit) GateCount() int {
	n := 0
	for _, m := range c.Moments {
		n += len(m)
	}
	return n
}

// HasMeasurement reports whether any moment contains a measurement gate.
func (c *Circuit) HasMeasurement() bool {
	for _, m := range c.Moments {
		for _, g := range m {
			if g.Kind == GateMeasure {
				return true
			}
		}
	}
	return false
}

// Validate checks gate indices and per-moment qubit exclusivity.
func (c *Circuit) Validate() error {
	if c.Qubits <= 0 {
		return fmt.Errorf("circuit must have at least one qubit, got %d", c.Qubits)
	}
	for i, m := range c.Moments {
		used := make(map[int]bool)
		for _, g := range m {
			if g.Target < 0 || g.Target >= c.Qubits {
				return fmt.Errorf("moment %d: target qubit %d out of range", i, g.Target)
			}
			if used[g.Target] {
				return fmt.Errorf("moment %d: qubit %d used twice", i, g.Target)
			}
			used[g.Target] = true

			if g.Kind == GateCNOT {
				if g.Control < 0 || g.Control >= c.Qubits {
					return fmt.Errorf("moment %d: control qubit %d out of range", i, g.Control)
				}
				if g.Control == g.Target {
					return fmt.Errorf("moment %d: control and target are both qubit %d", i, g.Target)
				}
				if used[g.Control] {
					return fmt.Errorf("moment %d: qubit %d used twice", i, g.Control)
				}
				used[g.Control] = true
			}
		}
	}
	return nil
}

// columnLabels maps a moment onto per-qubit diagram labels.
func (c *Circuit) columnLabels(m Moment) []string {
	labels := make([]string, c.Qubits)
	for _, g := range m {
		switch g.Kind {
		case GateCNOT:
			labels[g.Control] = "●"
			labels[g.Target] = "X"
		case GateRx:
			labels[g.Target] = fmt.Sprintf("Rx(%.2fπ)", g.Theta/math.Pi)
		default:
			labels[g.Target] = string(g.Kind)
		}
	}
	return labels
}

// Diagram renders a text drawing of the circuit, one wire per qubit.
func (c *Circuit) Diagram() string {
	rows := make([][]string, c.Qubits)
	for q := range rows {
		rows[q] = make([]string, len(c.Moments))
	}

	for col, m := range c.Moments {
		labels := c.columnLabels(m)
		width := 1
		for _, l := range labels {
			if n := len([]rune(l)); n > width {
				width = n
			}
		}
		for q := 0; q < c.Qubits; q++ {
			label := labels[q]
			pad := width - len([]rune(label))
			rows[q][col] = label + strings.Repeat("─", pad)
		}
	}

	var sb strings.Builder
	for q := 0; q < c.Qubits; q++ {
		fmt.Fprintf(&sb, "q%d: ───", q)
		for col := range c.Moments {
			cell := rows[q][col]
			if strings.TrimRight(cell, "─") == "" {
				cell = strings.Repeat("─", len([]rune(cell)))
			}
			sb.WriteString(cell)
			sb.WriteString("───")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
