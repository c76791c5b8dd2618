// Package chem reads the per-chromophore quantum chemistry records the
// AIEM Hamiltonian is built from.
package chem

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	AngstromToBohr = 1.8897261246
	DebyeToAU      = 0.393430307
)

var ErrDataFile = errors.New("cannot access data file")

type Record struct {
	Index            int
	Label            string
	GroundEnergy     float64
	ExcitedEnergy    float64
	CenterOfMass     r3.Vec
	GroundDipole     r3.Vec
	ExcitedDipole    r3.Vec
	TransitionDipole r3.Vec
}

// Atomic converts the centre of mass from angstrom to bohr and the static
// dipoles from debye to atomic units. The transition dipole is left as is.
func (r Record) Atomic() Record {
	r.CenterOfMass = r3.Scale(AngstromToBohr, r.CenterOfMass)
	r.GroundDipole = r3.Scale(DebyeToAU, r.GroundDipole)
	r.ExcitedDipole = r3.Scale(DebyeToAU, r.ExcitedDipole)
	return r
}

// ParseError locates a malformed field in the data file.
type ParseError struct {
	Chromophore int
	Line        int
	Field       string
	Err         error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("chromophore %d, line %d (%s): %s", e.Chromophore, e.Line, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func LoadFile(path string, n int) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to open data file/path:%s/reason:%s", path, err))
		return nil, errors.Wrapf(ErrDataFile, "%s", err)
	}
	defer f.Close()
	return Parse(f, n)
}

// Parse reads n records. The trailer line of the last record may be absent.
func Parse(r io.Reader, n int) ([]Record, error) {
	if n <= 0 {
		return nil, errors.Errorf("number of chromophores must be positive, got %d", n)
	}
	p := &lineReader{scanner: bufio.NewScanner(r)}
	records := make([]Record, 0, n)
	for a := 0; a < n; a++ {
		rec, err := p.record(a, a == n-1)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	zap.L().Debug(fmt.Sprintf("parsed %d chromophore records", len(records)))
	return records, nil
}

type lineReader struct {
	scanner *bufio.Scanner
	line    int
}

func (p *lineReader) next(a int, field string) (string, error) {
	if !p.scanner.Scan() {
		err := p.scanner.Err()
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return "", &ParseError{Chromophore: a, Line: p.line + 1, Field: field, Err: err}
	}
	p.line++
	return p.scanner.Text(), nil
}

func (p *lineReader) value(a int, field string) (string, error) {
	text, err := p.next(a, field)
	if err != nil {
		return "", err
	}
	i := strings.Index(text, ":")
	if i < 0 {
		return "", &ParseError{Chromophore: a, Line: p.line, Field: field, Err: errors.New("missing colon")}
	}
	return strings.TrimSpace(text[i+1:]), nil
}

func (p *lineReader) scalar(a int, field string) (float64, error) {
	s, err := p.value(a, field)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ParseError{Chromophore: a, Line: p.line, Field: field, Err: err}
	}
	return v, nil
}

func (p *lineReader) vector(a int, field string) (r3.Vec, error) {
	s, err := p.value(a, field)
	if err != nil {
		return r3.Vec{}, err
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return r3.Vec{}, &ParseError{Chromophore: a, Line: p.line, Field: field,
			Err: errors.Errorf("expected 3 components, got %d", len(parts))}
	}
	var xyz [3]float64
	for i, c := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return r3.Vec{}, &ParseError{Chromophore: a, Line: p.line, Field: field, Err: err}
		}
		xyz[i] = v
	}
	return r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

func (p *lineReader) record(a int, last bool) (Record, error) {
	rec := Record{Index: a}
	label, err := p.next(a, "label")
	if err != nil {
		return rec, err
	}
	rec.Label = strings.TrimSpace(label)
	if rec.GroundEnergy, err = p.scalar(a, "ground state energy"); err != nil {
		return rec, err
	}
	if rec.ExcitedEnergy, err = p.scalar(a, "excited state energy"); err != nil {
		return rec, err
	}
	if rec.CenterOfMass, err = p.vector(a, "center of mass"); err != nil {
		return rec, err
	}
	if rec.GroundDipole, err = p.vector(a, "ground state dipole"); err != nil {
		return rec, err
	}
	if rec.ExcitedDipole, err = p.vector(a, "excited state dipole"); err != nil {
		return rec, err
	}
	if rec.TransitionDipole, err = p.vector(a, "transition dipole"); err != nil {
		return rec, err
	}
	if _, err := p.next(a, "trailer"); err != nil && !last {
		return rec, err
	}
	return rec, nil
}
