//go:build unit
// +build unit

package chem

import (
	"strings"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/go-faster/errors"
	"github.com/oqtopus-team/oqtopus-mcvqe/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

var monomer = heredoc.Doc(`
	1
	Ground State Energy: -357.7873886607
	Excited State Energy: -357.5870278281
	Center of Mass: 4.1982, 2.5014, 0.4139
	Ground State Dipole: 2.4317, 1.9877, -0.1538
	Excited State Dipole: 3.0117, 2.2051, -0.2215
	Transition Dipole: 0.8751, 1.2093, 0.0512
`)

func TestParse(t *testing.T) {
	records, err := Parse(strings.NewReader(monomer), 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, 0, r.Index)
	assert.Equal(t, "1", r.Label)
	assert.Equal(t, -357.7873886607, r.GroundEnergy)
	assert.Equal(t, -357.5870278281, r.ExcitedEnergy)
	assert.Equal(t, r3.Vec{X: 4.1982, Y: 2.5014, Z: 0.4139}, r.CenterOfMass)
	assert.Equal(t, r3.Vec{X: 0.8751, Y: 1.2093, Z: 0.0512}, r.TransitionDipole)
}

func TestLoadFile(t *testing.T) {
	path, err := common.GetAssetAbsPath("tetramer.dat")
	require.NoError(t, err)
	records, err := LoadFile(path, 4)
	require.NoError(t, err)
	assert.Len(t, records, 4)
	assert.Equal(t, 3, records[3].Index)
	assert.Equal(t, -357.7870120471, records[3].GroundEnergy)

	// fewer chromophores than the file holds is fine
	records, err = LoadFile(path, 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	_, err = LoadFile(path+".missing", 4)
	assert.True(t, errors.Is(err, ErrDataFile))
}

func TestAtomic(t *testing.T) {
	r := Record{
		CenterOfMass:     r3.Vec{X: 1, Y: 2, Z: 3},
		GroundDipole:     r3.Vec{X: 1},
		ExcitedDipole:    r3.Vec{Y: 2},
		TransitionDipole: r3.Vec{Z: 1.5},
	}
	a := r.Atomic()
	assert.InDelta(t, 2*AngstromToBohr, a.CenterOfMass.Y, 1e-15)
	assert.InDelta(t, DebyeToAU, a.GroundDipole.X, 1e-15)
	assert.InDelta(t, 2*DebyeToAU, a.ExcitedDipole.Y, 1e-15)
	assert.Equal(t, r.TransitionDipole, a.TransitionDipole)
	assert.Equal(t, 1.0, r.GroundDipole.X)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		n           int
		chromophore int
		line        int
	}{
		{
			name:        "truncated second record",
			input:       monomer + "\n2\nGround State Energy: -357.7\n",
			n:           2,
			chromophore: 1,
			line:        11,
		},
		{
			name:        "missing colon",
			input:       strings.Replace(monomer, "Excited State Energy:", "Excited State Energy", 1),
			n:           1,
			chromophore: 0,
			line:        3,
		},
		{
			name:        "two components",
			input:       strings.Replace(monomer, "4.1982, 2.5014, 0.4139", "4.1982, 2.5014", 1),
			n:           1,
			chromophore: 0,
			line:        4,
		},
		{
			name:        "unparsable number",
			input:       strings.Replace(monomer, "0.8751", "0.87x1", 1),
			n:           1,
			chromophore: 0,
			line:        7,
		},
		{
			name:        "empty input",
			input:       "",
			n:           1,
			chromophore: 0,
			line:        1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), tt.n)
			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.chromophore, pe.Chromophore)
			assert.Equal(t, tt.line, pe.Line)
		})
	}

	_, err := Parse(strings.NewReader(monomer), 0)
	assert.Error(t, err)
}
