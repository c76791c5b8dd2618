package pauli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

type Pauli byte

const (
	I Pauli = 'I'
	X Pauli = 'X'
	Y Pauli = 'Y'
	Z Pauli = 'Z'
)

func (p Pauli) valid() bool {
	return p == X || p == Y || p == Z
}

// Op is a single-qubit Pauli factor of a term.
type Op struct {
	Qubit int
	Pauli Pauli
}

func (o Op) String() string {
	return fmt.Sprintf("%c%d", o.Pauli, o.Qubit)
}

func OpX(q int) Op { return Op{Qubit: q, Pauli: X} }
func OpY(q int) Op { return Op{Qubit: q, Pauli: Y} }
func OpZ(q int) Op { return Op{Qubit: q, Pauli: Z} }

// Term is a weighted Pauli string. Ops are sorted by qubit and act on
// distinct qubits; an empty Ops is the identity.
type Term struct {
	Ops   []Op
	Coeff float64
}

// Key is the canonical text of the Pauli string, "I" for the identity.
func (t Term) Key() string {
	return key(t.Ops)
}

// Masks returns the bit masks of qubits carrying X or Y (flip) and Z or Y
// (phase), and the number of Y factors.
func (t Term) Masks() (flip, phase uint64, nY int) {
	for _, o := range t.Ops {
		bit := uint64(1) << uint(o.Qubit)
		switch o.Pauli {
		case X:
			flip |= bit
		case Y:
			flip |= bit
			phase |= bit
			nY++
		case Z:
			phase |= bit
		}
	}
	return
}

func key(ops []Op) string {
	if len(ops) == 0 {
		return string(I)
	}
	parts := make([]string, len(ops))
	for i, o := range ops {
		parts[i] = o.String()
	}
	return strings.Join(parts, " ")
}

func canonical(ops []Op) ([]Op, error) {
	sorted := make([]Op, 0, len(ops))
	for _, o := range ops {
		if o.Pauli == I {
			continue
		}
		if !o.Pauli.valid() {
			return nil, errors.Errorf("invalid pauli %q on qubit %d", o.Pauli, o.Qubit)
		}
		if o.Qubit < 0 || o.Qubit > 63 {
			return nil, errors.Errorf("qubit %d is out of range", o.Qubit)
		}
		sorted = append(sorted, o)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Qubit < sorted[j].Qubit })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Qubit == sorted[i-1].Qubit {
			return nil, errors.Errorf("qubit %d appears twice in %s", sorted[i].Qubit, key(sorted))
		}
	}
	return sorted, nil
}

// Operator is a weighted sum of Pauli strings. Adding a string that is
// already present accumulates its coefficient; insertion order is kept.
type Operator struct {
	terms map[string]*Term
	order []string
}

func New() *Operator {
	return &Operator{
		terms: make(map[string]*Term),
	}
}

func (o *Operator) Add(coeff float64, ops ...Op) error {
	c, err := canonical(ops)
	if err != nil {
		return err
	}
	k := key(c)
	if t, ok := o.terms[k]; ok {
		t.Coeff += coeff
		return nil
	}
	o.terms[k] = &Term{Ops: c, Coeff: coeff}
	o.order = append(o.order, k)
	return nil
}

func (o *Operator) AddConstant(coeff float64) {
	_ = o.Add(coeff)
}

// AddOperator merges every term of other into o.
func (o *Operator) AddOperator(other *Operator) {
	for _, k := range other.order {
		t := other.terms[k]
		_ = o.Add(t.Coeff, t.Ops...)
	}
}

// Terms returns copies of the terms in insertion order.
func (o *Operator) Terms() []Term {
	ts := make([]Term, 0, len(o.order))
	for _, k := range o.order {
		t := o.terms[k]
		ops := make([]Op, len(t.Ops))
		copy(ops, t.Ops)
		ts = append(ts, Term{Ops: ops, Coeff: t.Coeff})
	}
	return ts
}

func (o *Operator) NTerms() int {
	return len(o.order)
}

// Coefficient returns the weight of the given Pauli string, 0 when absent.
func (o *Operator) Coefficient(ops ...Op) float64 {
	c, err := canonical(ops)
	if err != nil {
		return 0
	}
	if t, ok := o.terms[key(c)]; ok {
		return t.Coeff
	}
	return 0
}

func (o *Operator) Constant() float64 {
	return o.Coefficient()
}

// NQubits is one more than the largest qubit index acted upon.
func (o *Operator) NQubits() int {
	n := 0
	for _, t := range o.terms {
		for _, op := range t.Ops {
			if op.Qubit+1 > n {
				n = op.Qubit + 1
			}
		}
	}
	return n
}

func (o *Operator) String() string {
	if len(o.order) == 0 {
		return "0"
	}
	var sb strings.Builder
	for i, k := range o.order {
		if i > 0 {
			sb.WriteString(" + ")
		}
		sb.WriteString("(")
		sb.WriteString(strconv.FormatFloat(o.terms[k].Coeff, 'g', -1, 64))
		sb.WriteString(") ")
		sb.WriteString(k)
	}
	return sb.String()
}

// MarshalJSON encodes the operator as [{"pauli":"X0 Z1","coeff":0.5},...].
func (o *Operator) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	e.ArrStart()
	for _, k := range o.order {
		e.ObjStart()
		e.FieldStart("pauli")
		e.Str(k)
		e.FieldStart("coeff")
		e.Float64(o.terms[k].Coeff)
		e.ObjEnd()
	}
	e.ArrEnd()
	return e.Bytes(), nil
}

func (o *Operator) UnmarshalJSON(data []byte) error {
	parsed := New()
	d := jx.DecodeBytes(data)
	err := d.Arr(func(d *jx.Decoder) error {
		var (
			text  string
			coeff float64
			seen  bool
		)
		if err := d.Obj(func(d *jx.Decoder, k string) error {
			switch k {
			case "pauli":
				s, err := d.Str()
				if err != nil {
					return err
				}
				text = s
				seen = true
			case "coeff":
				v, err := d.Float64()
				if err != nil {
					return err
				}
				coeff = v
			default:
				return d.Skip()
			}
			return nil
		}); err != nil {
			return err
		}
		if !seen {
			return errors.New("term without pauli string")
		}
		ops, err := ParseOps(text)
		if err != nil {
			return err
		}
		return parsed.Add(coeff, ops...)
	})
	if err != nil {
		return errors.Wrap(err, "decode operator")
	}
	*o = *parsed
	return nil
}

// ParseOps parses a Pauli string such as "X0 Z1"; "I" and "" are the identity.
func ParseOps(s string) ([]Op, error) {
	fields := strings.Fields(s)
	ops := make([]Op, 0, len(fields))
	for _, f := range fields {
		if f == string(I) {
			continue
		}
		if len(f) < 2 {
			return nil, errors.Errorf("invalid pauli factor %q", f)
		}
		p := Pauli(f[0])
		if !p.valid() {
			return nil, errors.Errorf("invalid pauli factor %q", f)
		}
		q, err := strconv.Atoi(f[1:])
		if err != nil {
			return nil, errors.Wrapf(err, "invalid qubit in %q", f)
		}
		ops = append(ops, Op{Qubit: q, Pauli: p})
	}
	return ops, nil
}
