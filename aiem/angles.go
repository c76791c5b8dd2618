package aiem

import (
	"math"

	"github.com/go-faster/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// Components below zeroTolerance are treated as exact zeros.
	zeroTolerance = 1e-12
	// Cosines may exceed one by roundoff up to acosTolerance.
	acosTolerance = 1e-10
	// Angles must reproduce the normalised coefficients within roundTripTolerance.
	roundTripTolerance = 1e-8
)

// GateAngles maps every column of the (N+1)-row coefficient matrix to the
// N angles of the state preparation circuit. Column signs are canonicalised
// so the first significant amplitude is positive.
func GateAngles(states mat.Matrix) (*mat.Dense, error) {
	rows, cols := states.Dims()
	n := rows - 1
	if n < 1 {
		return nil, errors.Errorf("coefficient matrix needs at least 2 rows, got %d", rows)
	}
	angles := mat.NewDense(n, cols, nil)
	for s := 0; s < cols; s++ {
		v := mat.Col(nil, s, states)
		canonicalSign(v)
		for k := 0; k < n; k++ {
			tail := floats.Norm(v[k:], 2)
			if tail < zeroTolerance {
				if k == 0 {
					return nil, errors.Wrapf(ErrNumerical, "state %d has a null coefficient vector", s)
				}
				angles.Set(k, s, 0)
				continue
			}
			ratio := v[k] / tail
			if math.Abs(ratio) > 1 {
				if math.Abs(ratio)-1 > acosTolerance {
					return nil, errors.Wrapf(ErrNumerical, "state %d angle %d: cosine %g out of range", s, k, ratio)
				}
				ratio = math.Copysign(1, ratio)
			}
			angles.Set(k, s, math.Acos(ratio))
		}
		if v[n] < 0 {
			angles.Set(n-1, s, -angles.At(n-1, s))
		}
		floats.Scale(1/floats.Norm(v, 2), v)
		if got := Amplitudes(mat.Col(nil, s, angles)); !floats.EqualApprox(got, v, roundTripTolerance) {
			return nil, errors.Wrapf(ErrNumerical, "state %d: angles reproduce %v instead of %v", s, got, v)
		}
	}
	return angles, nil
}

// Amplitudes reconstructs the normalised, sign-canonical coefficients from
// one column of gate angles.
func Amplitudes(angles []float64) []float64 {
	n := len(angles)
	v := make([]float64, n+1)
	tail := 1.0
	for k, theta := range angles {
		v[k] = tail * math.Cos(theta)
		tail *= math.Sin(theta)
	}
	v[n] = tail
	return v
}

func canonicalSign(v []float64) {
	for _, x := range v {
		if math.Abs(x) < zeroTolerance {
			continue
		}
		if x < 0 {
			floats.Scale(-1, v)
		}
		return
	}
}
