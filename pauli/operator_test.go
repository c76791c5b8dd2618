//go:build unit
// +build unit

package pauli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMergesIdenticalStrings(t *testing.T) {
	op := New()
	require.NoError(t, op.Add(0.25, OpX(0), OpX(1)))
	require.NoError(t, op.Add(0.25, OpX(1), OpX(0)))
	require.NoError(t, op.Add(1.5, OpZ(1)))
	op.AddConstant(-2)

	assert.Equal(t, 3, op.NTerms())
	assert.Equal(t, 0.5, op.Coefficient(OpX(0), OpX(1)))
	assert.Equal(t, 1.5, op.Coefficient(OpZ(1)))
	assert.Equal(t, -2.0, op.Constant())
	assert.Equal(t, 0.0, op.Coefficient(OpY(3)))
	assert.Equal(t, 2, op.NQubits())
}

func TestAddRejectsRepeatedQubit(t *testing.T) {
	op := New()
	assert.Error(t, op.Add(1, OpX(0), OpZ(0)))
	assert.Error(t, op.Add(1, Op{Qubit: 0, Pauli: 'Q'}))
	assert.Equal(t, 0, op.NTerms())
}

func TestString(t *testing.T) {
	op := New()
	require.NoError(t, op.Add(0.5, OpZ(2), OpX(0)))
	op.AddConstant(-1.25)
	assert.Equal(t, "(0.5) X0 Z2 + (-1.25) I", op.String())
	assert.Equal(t, "0", New().String())
}

func TestMasks(t *testing.T) {
	term := Term{Ops: []Op{OpX(0), OpY(1), OpZ(3)}}
	flip, phase, nY := term.Masks()
	assert.Equal(t, uint64(0b0011), flip)
	assert.Equal(t, uint64(0b1010), phase)
	assert.Equal(t, 1, nY)
}

func TestJSON(t *testing.T) {
	op := New()
	require.NoError(t, op.Add(0.5, OpX(0), OpX(1)))
	require.NoError(t, op.Add(-2.25, OpZ(1)))
	op.AddConstant(1.5)

	b, err := op.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"pauli":"X0 X1","coeff":0.5},{"pauli":"Z1","coeff":-2.25},{"pauli":"I","coeff":1.5}]`,
		string(b))

	decoded := New()
	require.NoError(t, decoded.UnmarshalJSON(b))
	assert.Equal(t, op.Terms(), decoded.Terms())
}

func TestUnmarshalJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "not an array", input: `{"pauli":"X0"}`},
		{name: "missing pauli", input: `[{"coeff":1}]`},
		{name: "bad factor", input: `[{"pauli":"Q0","coeff":1}]`},
		{name: "bad qubit", input: `[{"pauli":"Xa","coeff":1}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, New().UnmarshalJSON([]byte(tt.input)))
		})
	}
}
