package qpu

import (
	"fmt"
	"math"
	"math/bits"
	"math/cmplx"

	"github.com/oqtopus-team/oqtopus-mcvqe/circuit"
	"github.com/oqtopus-team/oqtopus-mcvqe/pauli"
)

// stateVector holds 2^n amplitudes; qubit k is bit k of the basis index.
type stateVector struct {
	amps    []complex128
	nQubits int
}

func newStateVector(nQubits int) *stateVector {
	amps := make([]complex128, 1<<nQubits)
	amps[0] = 1
	return &stateVector{amps: amps, nQubits: nQubits}
}

// run applies every instruction of a fully bound circuit.
func (s *stateVector) run(c *circuit.Composite) error {
	for _, inst := range c.Instructions() {
		if err := s.apply(inst); err != nil {
			return err
		}
	}
	return nil
}

func (s *stateVector) apply(inst *circuit.Instruction) error {
	for _, q := range inst.Qubits {
		if q < 0 || q >= s.nQubits {
			return fmt.Errorf("%s acts on qubit %d outside [0,%d)", inst, q, s.nQubits)
		}
	}
	angle := func() (float64, error) {
		if len(inst.Params) != 1 {
			return 0, fmt.Errorf("%s needs one angle", inst)
		}
		if inst.Params[0].IsVariable() {
			return 0, fmt.Errorf("%s has unbound variable %s", inst, inst.Params[0].Variable)
		}
		return inst.Params[0].Value, nil
	}
	switch inst.Name {
	case circuit.GateRy:
		theta, err := angle()
		if err != nil {
			return err
		}
		s.applyRy(inst.Qubits[0], theta)
	case circuit.GateRz:
		theta, err := angle()
		if err != nil {
			return err
		}
		s.applyRz(inst.Qubits[0], theta)
	case circuit.GateH:
		s.applyH(inst.Qubits[0])
	case circuit.GateX:
		s.applyX(inst.Qubits[0])
	case circuit.GateCNOT:
		if len(inst.Qubits) != 2 || inst.Qubits[0] == inst.Qubits[1] {
			return fmt.Errorf("%s needs two distinct qubits", inst)
		}
		s.applyCNOT(inst.Qubits[0], inst.Qubits[1])
	default:
		return fmt.Errorf("gate %s is not supported", inst.Name)
	}
	return nil
}

func (s *stateVector) applyRy(q int, theta float64) {
	c := complex(math.Cos(theta/2), 0)
	sn := complex(math.Sin(theta/2), 0)
	bit := 1 << q
	for i := range s.amps {
		if i&bit == 0 {
			j := i | bit
			a0, a1 := s.amps[i], s.amps[j]
			s.amps[i] = c*a0 - sn*a1
			s.amps[j] = sn*a0 + c*a1
		}
	}
}

func (s *stateVector) applyRz(q int, theta float64) {
	m := cmplx.Exp(complex(0, -theta/2))
	p := cmplx.Exp(complex(0, theta/2))
	bit := 1 << q
	for i := range s.amps {
		if i&bit == 0 {
			s.amps[i] *= m
		} else {
			s.amps[i] *= p
		}
	}
}

func (s *stateVector) applyH(q int) {
	h := complex(1/math.Sqrt2, 0)
	bit := 1 << q
	for i := range s.amps {
		if i&bit == 0 {
			j := i | bit
			a0, a1 := s.amps[i], s.amps[j]
			s.amps[i] = h * (a0 + a1)
			s.amps[j] = h * (a0 - a1)
		}
	}
}

func (s *stateVector) applyX(q int) {
	bit := 1 << q
	for i := range s.amps {
		if i&bit == 0 {
			j := i | bit
			s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
		}
	}
}

func (s *stateVector) applyCNOT(control, target int) {
	cbit := 1 << control
	tbit := 1 << target
	for i := range s.amps {
		if i&cbit != 0 && i&tbit == 0 {
			j := i | tbit
			s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
		}
	}
}

// expectation returns <psi|obs|psi>. A term acting on a qubit beyond the
// register is an error.
func (s *stateVector) expectation(obs *pauli.Operator) (float64, error) {
	if obs.NQubits() > s.nQubits {
		return 0, fmt.Errorf("observable acts on %d qubits, state has %d", obs.NQubits(), s.nQubits)
	}
	total := 0.0
	for _, t := range obs.Terms() {
		total += t.Coeff * s.termExpectation(t)
	}
	return total, nil
}

// P|i> = i^nY (-1)^popcount(i&phase) |i^flip>.
func (s *stateVector) termExpectation(t pauli.Term) float64 {
	flip, phase, nY := t.Masks()
	var yPhase complex128
	switch nY % 4 {
	case 0:
		yPhase = 1
	case 1:
		yPhase = 1i
	case 2:
		yPhase = -1
	default:
		yPhase = -1i
	}
	var sum complex128
	for i, a := range s.amps {
		if a == 0 {
			continue
		}
		v := a * yPhase
		if bits.OnesCount64(uint64(i)&phase)%2 == 1 {
			v = -v
		}
		sum += cmplx.Conj(s.amps[uint64(i)^flip]) * v
	}
	return real(sum)
}

func (s *stateVector) probabilities() []float64 {
	p := make([]float64, len(s.amps))
	for i, a := range s.amps {
		p[i] = real(a)*real(a) + imag(a)*imag(a)
	}
	return p
}
