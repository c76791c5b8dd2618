package circuit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
)

const (
	GateRy   = "Ry"
	GateRz   = "Rz"
	GateH    = "H"
	GateX    = "X"
	GateCNOT = "CNOT"
)

// Param is either a literal angle or a reference to a named variable.
type Param struct {
	Variable string
	Value    float64
}

func Literal(v float64) Param {
	return Param{Value: v}
}

func Variable(name string) Param {
	return Param{Variable: name}
}

func (p Param) IsVariable() bool {
	return p.Variable != ""
}

func (p Param) String() string {
	if p.IsVariable() {
		return p.Variable
	}
	return strconv.FormatFloat(p.Value, 'g', -1, 64)
}

type Instruction struct {
	Name   string
	Qubits []int
	Params []Param
}

func Ry(q int, p Param) *Instruction {
	return &Instruction{Name: GateRy, Qubits: []int{q}, Params: []Param{p}}
}

func Rz(q int, p Param) *Instruction {
	return &Instruction{Name: GateRz, Qubits: []int{q}, Params: []Param{p}}
}

func H(q int) *Instruction {
	return &Instruction{Name: GateH, Qubits: []int{q}}
}

func NOT(q int) *Instruction {
	return &Instruction{Name: GateX, Qubits: []int{q}}
}

func CNOT(control, target int) *Instruction {
	return &Instruction{Name: GateCNOT, Qubits: []int{control, target}}
}

func (i *Instruction) String() string {
	var sb strings.Builder
	sb.WriteString(i.Name)
	if len(i.Params) > 0 {
		ps := make([]string, len(i.Params))
		for k, p := range i.Params {
			ps[k] = p.String()
		}
		sb.WriteString("(")
		sb.WriteString(strings.Join(ps, ","))
		sb.WriteString(")")
	}
	qs := make([]string, len(i.Qubits))
	for k, q := range i.Qubits {
		qs[k] = fmt.Sprintf("q%d", q)
	}
	sb.WriteString(" ")
	sb.WriteString(strings.Join(qs, ","))
	return sb.String()
}

func (i *Instruction) equal(o *Instruction) bool {
	if i.Name != o.Name || len(i.Qubits) != len(o.Qubits) || len(i.Params) != len(o.Params) {
		return false
	}
	for k := range i.Qubits {
		if i.Qubits[k] != o.Qubits[k] {
			return false
		}
	}
	for k := range i.Params {
		if i.Params[k] != o.Params[k] {
			return false
		}
	}
	return true
}

// Composite is an ordered list of instructions with the ordered list of
// variables its parameters may refer to.
type Composite struct {
	Name         string
	variables    []string
	instructions []*Instruction
}

func NewComposite(name string) *Composite {
	return &Composite{Name: name}
}

func (c *Composite) AddInstruction(inst *Instruction) {
	c.instructions = append(c.instructions, inst)
}

// AddVariables appends names that are not declared yet, keeping order.
func (c *Composite) AddVariables(names ...string) {
	for _, n := range names {
		if c.hasVariable(n) {
			continue
		}
		c.variables = append(c.variables, n)
	}
}

func (c *Composite) hasVariable(name string) bool {
	for _, v := range c.variables {
		if v == name {
			return true
		}
	}
	return false
}

func (c *Composite) Variables() []string {
	vs := make([]string, len(c.variables))
	copy(vs, c.variables)
	return vs
}

func (c *Composite) Instructions() []*Instruction {
	return c.instructions
}

func (c *Composite) NVariables() int {
	return len(c.variables)
}

func (c *Composite) NInstructions() int {
	return len(c.instructions)
}

func (c *Composite) NQubits() int {
	n := 0
	for _, inst := range c.instructions {
		for _, q := range inst.Qubits {
			if q+1 > n {
				n = q + 1
			}
		}
	}
	return n
}

// Append composes other after c. Variables of other are merged in order.
func (c *Composite) Append(other *Composite) {
	c.AddVariables(other.variables...)
	c.instructions = append(c.instructions, other.instructions...)
}

// Depth is the number of layers when every instruction is scheduled as
// early as its qubits allow.
func (c *Composite) Depth() int {
	layer := make(map[int]int)
	depth := 0
	for _, inst := range c.instructions {
		l := 0
		for _, q := range inst.Qubits {
			if layer[q] > l {
				l = layer[q]
			}
		}
		l++
		for _, q := range inst.Qubits {
			layer[q] = l
		}
		if l > depth {
			depth = l
		}
	}
	return depth
}

// Bind returns a copy where every variable is replaced by x at the
// variable's position.
func (c *Composite) Bind(x []float64) (*Composite, error) {
	if len(x) != len(c.variables) {
		return nil, errors.Errorf("%s has %d variables but %d values were given",
			c.Name, len(c.variables), len(x))
	}
	values := make(map[string]float64, len(x))
	for i, v := range c.variables {
		values[v] = x[i]
	}
	bound := NewComposite(c.Name)
	for _, inst := range c.instructions {
		ps := make([]Param, len(inst.Params))
		for k, p := range inst.Params {
			if !p.IsVariable() {
				ps[k] = p
				continue
			}
			v, ok := values[p.Variable]
			if !ok {
				return nil, errors.Errorf("variable %s of %s is not declared", p.Variable, inst)
			}
			ps[k] = Literal(v)
		}
		qs := make([]int, len(inst.Qubits))
		copy(qs, inst.Qubits)
		bound.AddInstruction(&Instruction{Name: inst.Name, Qubits: qs, Params: ps})
	}
	return bound, nil
}

func (c *Composite) Equal(other *Composite) bool {
	if other == nil || len(c.instructions) != len(other.instructions) ||
		len(c.variables) != len(other.variables) {
		return false
	}
	for i := range c.variables {
		if c.variables[i] != other.variables[i] {
			return false
		}
	}
	for i := range c.instructions {
		if !c.instructions[i].equal(other.instructions[i]) {
			return false
		}
	}
	return true
}

func (c *Composite) String() string {
	var sb strings.Builder
	for _, inst := range c.instructions {
		sb.WriteString(inst.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
