package qpu

import (
	"fmt"
	"math"
	"math/bits"
	"math/rand/v2"

	"github.com/oqtopus-team/oqtopus-mcvqe/pauli"
	"gonum.org/v1/gonum/stat/distuv"
)

// measurementGroup holds qubit-wise commuting terms that share one
// measurement basis.
type measurementGroup struct {
	basis map[int]pauli.Pauli
	terms []pauli.Term
}

func (g *measurementGroup) accepts(t pauli.Term) bool {
	for _, op := range t.Ops {
		if p, ok := g.basis[op.Qubit]; ok && p != op.Pauli {
			return false
		}
	}
	return true
}

func (g *measurementGroup) add(t pauli.Term) {
	for _, op := range t.Ops {
		g.basis[op.Qubit] = op.Pauli
	}
	g.terms = append(g.terms, t)
}

// groupTerms splits the non-identity terms greedily into measurement
// groups, keeping term order. The identity coefficient is returned apart.
func groupTerms(obs *pauli.Operator) (groups []*measurementGroup, constant float64) {
	for _, t := range obs.Terms() {
		if len(t.Ops) == 0 {
			constant += t.Coeff
			continue
		}
		placed := false
		for _, g := range groups {
			if g.accepts(t) {
				g.add(t)
				placed = true
				break
			}
		}
		if !placed {
			g := &measurementGroup{basis: map[int]pauli.Pauli{}}
			g.add(t)
			groups = append(groups, g)
		}
	}
	return groups, constant
}

// rotated returns a copy of s in which measuring Z on every qubit measures
// the group basis. Rz(-pi/2) is S-dagger up to a global phase.
func (g *measurementGroup) rotated(s *stateVector) *stateVector {
	c := &stateVector{amps: append([]complex128(nil), s.amps...), nQubits: s.nQubits}
	for q, p := range g.basis {
		switch p {
		case pauli.X:
			c.applyH(q)
		case pauli.Y:
			c.applyRz(q, -math.Pi/2)
			c.applyH(q)
		}
	}
	return c
}

// sampleCounts draws shots basis states from probs.
func sampleCounts(probs []float64, shots int, src rand.Source) map[uint64]int {
	dist := distuv.NewCategorical(probs, src)
	counts := map[uint64]int{}
	for i := 0; i < shots; i++ {
		counts[uint64(dist.Rand())]++
	}
	return counts
}

// countsExpectation is the estimate of sum_t c_t <P_t> from counts taken in
// the group basis.
func (g *measurementGroup) countsExpectation(counts map[uint64]int, shots int) float64 {
	total := 0.0
	for _, t := range g.terms {
		var mask uint64
		for _, op := range t.Ops {
			mask |= 1 << uint(op.Qubit)
		}
		sum := 0
		for idx, n := range counts {
			if bits.OnesCount64(idx&mask)%2 == 1 {
				sum -= n
			} else {
				sum += n
			}
		}
		total += t.Coeff * float64(sum) / float64(shots)
	}
	return total
}

// sampledExpectation estimates <psi|obs|psi> with shots measurements per
// group.
func (s *stateVector) sampledExpectation(obs *pauli.Operator, shots int, src rand.Source) (float64, error) {
	if shots <= 0 {
		return 0, fmt.Errorf("shots must be positive, got %d", shots)
	}
	if obs.NQubits() > s.nQubits {
		return 0, fmt.Errorf("observable acts on %d qubits, state has %d", obs.NQubits(), s.nQubits)
	}
	groups, total := groupTerms(obs)
	for _, g := range groups {
		counts := sampleCounts(g.rotated(s).probabilities(), shots, src)
		total += g.countsExpectation(counts, shots)
	}
	return total, nil
}
