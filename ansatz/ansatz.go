// Package ansatz builds the MC-VQE circuit templates: the CIS state
// preparation for one state and the entangler shared by every state.
package ansatz

import (
	"fmt"

	"github.com/oqtopus-team/oqtopus-mcvqe/circuit"
)

const (
	StatePreparationName = "mcvqeCircuit"
	EntanglerName        = "mcvqeEntangler"

	paramsPerBlock = 4
)

// ParamName is the name of the k-th entangler variable.
func ParamName(k int) string {
	return fmt.Sprintf("x%d", k)
}

// StatePreparation loads the CIS state described by one column of gate
// angles onto len(angles) qubits.
func StatePreparation(angles []float64) *circuit.Composite {
	n := len(angles)
	c := circuit.NewComposite(StatePreparationName)
	if n == 0 {
		return c
	}
	c.AddInstruction(circuit.Ry(0, circuit.Literal(angles[0])))
	for i := 1; i < n; i++ {
		c.AddInstruction(circuit.Ry(i, circuit.Literal(-angles[i]/2)))
		c.AddInstruction(circuit.H(i))
		c.AddInstruction(circuit.CNOT(i-1, i))
		c.AddInstruction(circuit.H(i))
		c.AddInstruction(circuit.Ry(i, circuit.Literal(angles[i]/2)))
	}
	for i := n - 2; i >= 0; i-- {
		for j := n - 1; j > i; j-- {
			c.AddInstruction(circuit.CNOT(j, i))
		}
	}
	return c
}

// Entangler is the variational layer: one Ry per qubit, then two-qubit
// blocks on even pairs, odd pairs and, for cyclic aggregates, (n-1, 0).
func Entangler(n int, cyclic bool) *circuit.Composite {
	c := circuit.NewComposite(EntanglerName)
	next := 0
	for q := 0; q < n; q++ {
		next = rotation(c, q, next)
	}
	for layer := 0; layer < 2; layer++ {
		for i := layer; i+1 < n; i += 2 {
			next = block(c, i, i+1, next)
		}
	}
	if cyclic && n >= 2 {
		block(c, n-1, 0, next)
	}
	return c
}

func ParameterCount(n int, cyclic bool) int {
	if n <= 0 {
		return 0
	}
	count := n + paramsPerBlock*(n-1)
	if cyclic && n >= 2 {
		count += paramsPerBlock
	}
	return count
}

func rotation(c *circuit.Composite, q, next int) int {
	name := ParamName(next)
	c.AddVariables(name)
	c.AddInstruction(circuit.Ry(q, circuit.Variable(name)))
	return next + 1
}

func block(c *circuit.Composite, control, target, next int) int {
	c.AddInstruction(circuit.CNOT(control, target))
	next = rotation(c, control, next)
	next = rotation(c, target, next)
	c.AddInstruction(circuit.CNOT(control, target))
	next = rotation(c, control, next)
	return rotation(c, target, next)
}
