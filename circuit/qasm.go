package circuit

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
)

const QASMVersion = "3.0"

type qasmGate struct {
	name    string
	nQubits int
	nParams int
}

var toQASM = map[string]qasmGate{
	GateRy:   {name: "ry", nQubits: 1, nParams: 1},
	GateRz:   {name: "rz", nQubits: 1, nParams: 1},
	GateH:    {name: "h", nQubits: 1},
	GateX:    {name: "x", nQubits: 1},
	GateCNOT: {name: "cx", nQubits: 2},
}

var fromQASM = func() map[string]string {
	m := make(map[string]string, len(toQASM))
	for ir, g := range toQASM {
		m[g.name] = ir
	}
	return m
}()

var (
	gateCallPattern    = regexp.MustCompile(`^([a-z]+)\s*(?:\(([^)]*)\))?\s+(.+);$`)
	operandPattern     = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\[(\d+)\]$`)
	declarationPattern = regexp.MustCompile(`^qubit\[(\d+)\]\s+([A-Za-z_][A-Za-z0-9_]*);$`)
)

// QASM exports a fully bound composite as OpenQASM 3.
func (c *Composite) QASM() (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "OPENQASM %s;\n", QASMVersion)
	sb.WriteString("include \"stdgates.inc\";\n")
	fmt.Fprintf(&sb, "qubit[%d] q;\n", c.NQubits())
	for _, inst := range c.instructions {
		g, ok := toQASM[inst.Name]
		if !ok {
			return "", errors.Errorf("%s has no OpenQASM equivalent", inst.Name)
		}
		sb.WriteString(g.name)
		if len(inst.Params) > 0 {
			ps := make([]string, len(inst.Params))
			for k, p := range inst.Params {
				if p.IsVariable() {
					return "", errors.Errorf("variable %s of %s is not bound", p.Variable, inst)
				}
				ps[k] = strconv.FormatFloat(p.Value, 'g', -1, 64)
			}
			sb.WriteString("(")
			sb.WriteString(strings.Join(ps, ", "))
			sb.WriteString(")")
		}
		qs := make([]string, len(inst.Qubits))
		for k, q := range inst.Qubits {
			qs[k] = fmt.Sprintf("q[%d]", q)
		}
		sb.WriteString(" ")
		sb.WriteString(strings.Join(qs, ", "))
		sb.WriteString(";\n")
	}
	return sb.String(), nil
}

// ParseQASM reads the OpenQASM 3 subset written by QASM.
func ParseQASM(src string) (*Composite, error) {
	c := NewComposite("qasm")
	register := ""
	size := 0
	scanner := bufio.NewScanner(strings.NewReader(src))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if i := strings.Index(line, "//"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" || strings.HasPrefix(line, "OPENQASM") || strings.HasPrefix(line, "include") {
			continue
		}
		if m := declarationPattern.FindStringSubmatch(line); m != nil {
			if register != "" {
				return nil, errors.Errorf("line %d: only one qubit register is supported", lineNo)
			}
			size, _ = strconv.Atoi(m[1])
			register = m[2]
			continue
		}
		m := gateCallPattern.FindStringSubmatch(line)
		if m == nil {
			return nil, errors.Errorf("line %d: unsupported statement %q", lineNo, line)
		}
		name, ok := fromQASM[m[1]]
		if !ok {
			return nil, errors.Errorf("line %d: unsupported gate %s", lineNo, m[1])
		}
		g := toQASM[name]
		inst := &Instruction{Name: name}
		if strings.TrimSpace(m[2]) != "" {
			for _, s := range strings.Split(m[2], ",") {
				v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
				if err != nil {
					return nil, errors.Wrapf(err, "line %d: invalid angle", lineNo)
				}
				inst.Params = append(inst.Params, Literal(v))
			}
		}
		for _, s := range strings.Split(m[3], ",") {
			om := operandPattern.FindStringSubmatch(strings.TrimSpace(s))
			if om == nil || om[1] != register {
				return nil, errors.Errorf("line %d: invalid operand %q", lineNo, strings.TrimSpace(s))
			}
			q, _ := strconv.Atoi(om[2])
			if q >= size {
				return nil, errors.Errorf("line %d: qubit %d is outside %s[%d]", lineNo, q, register, size)
			}
			inst.Qubits = append(inst.Qubits, q)
		}
		if len(inst.Qubits) != g.nQubits || len(inst.Params) != g.nParams {
			return nil, errors.Errorf("line %d: wrong arity for %s", lineNo, m[1])
		}
		c.AddInstruction(inst)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return c, nil
}
