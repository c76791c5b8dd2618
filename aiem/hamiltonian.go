// Package aiem builds the ab initio exciton model of an aggregate: the
// Pauli Hamiltonian over one qubit per chromophore, its projection on the
// reference and singly excited states (CIS), and the gate angles that
// prepare the CIS eigenstates.
package aiem

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/oqtopus-team/oqtopus-mcvqe/chem"
	"github.com/oqtopus-team/oqtopus-mcvqe/pauli"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

var ErrNumerical = errors.New("numerical error")

// Coupling is the dipole-dipole interaction of muA and muB separated by r.
func Coupling(muA, muB, r r3.Vec) float64 {
	d := r3.Norm(r)
	n := r3.Scale(1/d, r)
	return (r3.Dot(muA, muB) - 3*r3.Dot(muA, n)*r3.Dot(muB, n)) / (d * d * d)
}

// Coefficients of the AIEM Hamiltonian. The two-body tables hold the full
// coupling of each ordered neighbour pair and are zero elsewhere.
type Coefficients struct {
	E  float64
	Z  []float64
	X  []float64
	XX *mat.Dense
	XZ *mat.Dense
	ZX *mat.Dense
	ZZ *mat.Dense
}

// NewCoefficients expects records in atomic units.
func NewCoefficients(records []chem.Record, t Topology) (*Coefficients, error) {
	n := len(records)
	if t.N() != n {
		return nil, errors.Errorf("topology has %d chromophores but %d records were given", t.N(), n)
	}
	c := &Coefficients{
		Z:  make([]float64, n),
		X:  make([]float64, n),
		XX: mat.NewDense(n, n, nil),
		XZ: mat.NewDense(n, n, nil),
		ZX: mat.NewDense(n, n, nil),
		ZZ: mat.NewDense(n, n, nil),
	}
	sum := make([]r3.Vec, n)
	diff := make([]r3.Vec, n)
	for a, rec := range records {
		sum[a] = r3.Scale(0.5, r3.Add(rec.GroundDipole, rec.ExcitedDipole))
		diff[a] = r3.Scale(0.5, r3.Sub(rec.GroundDipole, rec.ExcitedDipole))
		c.Z[a] = (rec.GroundEnergy - rec.ExcitedEnergy) / 2
	}
	for a := 0; a < n; a++ {
		ta := records[a].TransitionDipole
		for _, b := range t.Neighbors(a) {
			rab := r3.Sub(records[a].CenterOfMass, records[b].CenterOfMass)
			if r3.Norm(rab) == 0 {
				return nil, errors.Wrapf(ErrNumerical, "chromophores %d and %d share a centre of mass", a, b)
			}
			rba := r3.Scale(-1, rab)
			tb := records[b].TransitionDipole

			c.E += 0.5 * Coupling(sum[a], sum[b], rab)
			c.X[a] += 0.5*Coupling(ta, sum[b], rab) + 0.5*Coupling(sum[b], ta, rba)
			c.Z[a] += 0.5*Coupling(diff[a], sum[b], rab) + 0.5*Coupling(sum[b], diff[a], rba)

			c.XX.Set(a, b, Coupling(ta, tb, rab))
			c.XZ.Set(a, b, Coupling(ta, diff[b], rab))
			c.ZX.Set(a, b, Coupling(diff[a], tb, rab))
			c.ZZ.Set(a, b, Coupling(diff[a], diff[b], rab))
		}
	}
	return c, nil
}

// Hamiltonian emits half of every ordered pair coefficient, so each
// interacting pair carries one full coupling per Pauli string.
func (c *Coefficients) Hamiltonian(t Topology) (*pauli.Operator, error) {
	h := pauli.New()
	for _, p := range t.Pairs() {
		for _, ab := range [][2]int{p, {p[1], p[0]}} {
			a, b := ab[0], ab[1]
			terms := []struct {
				coeff float64
				ops   []pauli.Op
			}{
				{c.XX.At(a, b), []pauli.Op{pauli.OpX(a), pauli.OpX(b)}},
				{c.XZ.At(a, b), []pauli.Op{pauli.OpX(a), pauli.OpZ(b)}},
				{c.ZX.At(a, b), []pauli.Op{pauli.OpZ(a), pauli.OpX(b)}},
				{c.ZZ.At(a, b), []pauli.Op{pauli.OpZ(a), pauli.OpZ(b)}},
			}
			for _, term := range terms {
				if err := h.Add(0.5*term.coeff, term.ops...); err != nil {
					return nil, err
				}
			}
		}
	}
	for a := 0; a < t.N(); a++ {
		if err := h.Add(c.Z[a], pauli.OpZ(a)); err != nil {
			return nil, err
		}
		if err := h.Add(c.X[a], pauli.OpX(a)); err != nil {
			return nil, err
		}
	}
	h.AddConstant(c.E)
	return h, nil
}

// CISMatrix projects the Hamiltonian on the reference state (index 0) and
// the single excitations of each chromophore (index A+1).
func CISMatrix(c *Coefficients, t Topology) *mat.SymDense {
	n := t.N()
	m := mat.NewSymDense(n+1, nil)
	ref := c.E + mat.Sum(c.ZZ)/2
	for a := 0; a < n; a++ {
		ref += c.Z[a]
	}
	m.SetSym(0, 0, ref)
	for a := 0; a < n; a++ {
		diag := ref - 2*c.Z[a]
		offRef := c.X[a]
		for _, b := range t.Neighbors(a) {
			diag -= c.ZZ.At(a, b) + c.ZZ.At(b, a)
			offRef += 0.5 * (c.XZ.At(a, b) + c.ZX.At(b, a))
			m.SetSym(a+1, b+1, c.XX.At(a, b))
		}
		m.SetSym(a+1, a+1, diag)
		m.SetSym(0, a+1, offRef)
	}
	return m
}

// Diagonalize returns ascending eigenvalues and the eigenvectors as columns.
func Diagonalize(m mat.Symmetric) ([]float64, *mat.Dense, error) {
	var es mat.EigenSym
	if ok := es.Factorize(m, true); !ok {
		return nil, nil, errors.Wrap(ErrNumerical, "eigendecomposition did not converge")
	}
	var vecs mat.Dense
	es.VectorsTo(&vecs)
	return es.Values(nil), &vecs, nil
}

type Model struct {
	// Records are in atomic units.
	Records      []chem.Record
	Cyclic       bool
	Topology     Topology
	Coefficients *Coefficients
	Hamiltonian  *pauli.Operator
	CIS          *mat.SymDense
	CISEnergies  []float64
	CISStates    *mat.Dense
	GateAngles   *mat.Dense
}

// Build converts the raw records to atomic units and derives everything
// the MC-VQE run needs from them.
func Build(records []chem.Record, cyclic bool) (*Model, error) {
	if len(records) == 0 {
		return nil, errors.New("no chromophore records")
	}
	m := &Model{
		Records:  make([]chem.Record, len(records)),
		Cyclic:   cyclic,
		Topology: NewTopology(len(records), cyclic),
	}
	for i, r := range records {
		m.Records[i] = r.Atomic()
	}
	var err error
	if m.Coefficients, err = NewCoefficients(m.Records, m.Topology); err != nil {
		return nil, err
	}
	if m.Hamiltonian, err = m.Coefficients.Hamiltonian(m.Topology); err != nil {
		return nil, err
	}
	m.CIS = CISMatrix(m.Coefficients, m.Topology)
	if m.CISEnergies, m.CISStates, err = Diagonalize(m.CIS); err != nil {
		return nil, errors.Wrap(err, "CIS matrix")
	}
	if m.GateAngles, err = GateAngles(m.CISStates); err != nil {
		return nil, err
	}
	zap.L().Debug(fmt.Sprintf("built AIEM model/chromophores:%d/terms:%d", m.N(), m.Hamiltonian.NTerms()))
	return m, nil
}

func (m *Model) N() int {
	return len(m.Records)
}

// NStates is the number of CIS states, one more than the chromophores.
func (m *Model) NStates() int {
	return m.N() + 1
}

// AngleColumn returns the state preparation angles of CIS state s.
func (m *Model) AngleColumn(s int) []float64 {
	return mat.Col(nil, s, m.GateAngles)
}
