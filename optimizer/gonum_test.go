//go:build unit
// +build unit

package optimizer

import (
	"context"
	"fmt"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/oqtopus-team/oqtopus-mcvqe/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var target = []float64{0.5, -1.25, 2}

func quadratic(x, dx []float64) (float64, error) {
	v := 0.0
	for i := range x {
		d := x[i] - target[i]
		v += d * d
		if dx != nil {
			dx[i] = 2 * d
		}
	}
	return v - 3, nil
}

func TestOptimizeQuadratic(t *testing.T) {
	tests := []struct {
		method string
		delta  float64
	}{
		{method: NelderMead, delta: 1e-3},
		{method: BFGS, delta: 1e-6},
		{method: LBFGS, delta: 1e-6},
		{method: CG, delta: 1e-6},
		{method: GradientDescent, delta: 1e-3},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			s := NewSetting()
			s.Method = tt.method
			s.MaxIterations = 5000
			s.FunctionTolerance = 1e-12
			o := NewGonumOptimizerWithSetting(s)
			res, err := o.Optimize(context.Background(), &core.OptFunction{Func: quadratic, Dim: 3, Gradient: true})
			require.NoError(t, err)
			assert.InDeltaSlice(t, target, res.X, tt.delta)
			assert.InDelta(t, -3, res.F, tt.delta)
			assert.Greater(t, res.Evaluations, 0)
			assert.NotEmpty(t, res.Status)
		})
	}
}

func TestNelderMeadSkipsGradient(t *testing.T) {
	o := NewGonumOptimizerWithSetting(NewSetting())
	f := func(x, dx []float64) (float64, error) {
		assert.Nil(t, dx)
		return quadratic(x, dx)
	}
	_, err := o.Optimize(context.Background(), &core.OptFunction{Func: f, Dim: 3, Gradient: true})
	assert.NoError(t, err)
}

func TestObjectiveErrorEndsSearch(t *testing.T) {
	calls := 0
	f := func(x, dx []float64) (float64, error) {
		calls++
		if calls == 3 {
			return 0, fmt.Errorf("executor went away")
		}
		return quadratic(x, dx)
	}
	for _, m := range []string{NelderMead, BFGS} {
		calls = 0
		s := NewSetting()
		s.Method = m
		_, err := NewGonumOptimizerWithSetting(s).Optimize(context.Background(),
			&core.OptFunction{Func: f, Dim: 3, Gradient: true})
		assert.ErrorContains(t, err, "executor went away")
		assert.Equal(t, 3, calls)
	}
}

func TestOptimizeErrors(t *testing.T) {
	s := NewSetting()
	s.Method = BFGS
	_, err := NewGonumOptimizerWithSetting(s).Optimize(context.Background(),
		&core.OptFunction{Func: quadratic, Dim: 3})
	assert.ErrorIs(t, err, ErrNoGradient)

	s = NewSetting()
	s.InitialParameters = []float64{1, 2}
	_, err = NewGonumOptimizerWithSetting(s).Optimize(context.Background(),
		&core.OptFunction{Func: quadratic, Dim: 3})
	assert.ErrorContains(t, err, "initial-parameters has 2 values")

	s = NewSetting()
	s.Method = "cobyla"
	_, err = NewGonumOptimizerWithSetting(s).Optimize(context.Background(),
		&core.OptFunction{Func: quadratic, Dim: 3})
	assert.ErrorIs(t, err, ErrUnknownMethod)
	assert.ErrorContains(t, err, `"cobyla"`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewGonumOptimizerWithSetting(NewSetting()).Optimize(ctx,
		&core.OptFunction{Func: quadratic, Dim: 3})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIterationLimitIsNotAnError(t *testing.T) {
	s := NewSetting()
	s.MaxIterations = 2
	res, err := NewGonumOptimizerWithSetting(s).Optimize(context.Background(),
		&core.OptFunction{Func: quadratic, Dim: 3})
	require.NoError(t, err)
	assert.Equal(t, "IterationLimit", res.Status)
}

func TestSetup(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		conf    *core.Conf
		want    Setting
		wantErr bool
	}{
		{
			name: "defaults",
			conf: &core.Conf{},
			want: NewSetting(),
		},
		{
			name: "file",
			in: heredoc.Doc(`
				[com.optimizer]
				method = "lbfgs"
				max-evaluations = 300
				initial-parameters = [0.1, 0.2]
			`),
			conf: &core.Conf{},
			want: Setting{Method: LBFGS, MaxIterations: 1000, MaxEvaluations: 300, FunctionTolerance: 1e-8,
				InitialParameters: []float64{0.1, 0.2}},
		},
		{
			name: "flags override file",
			in:   "[com.optimizer]\nmethod = \"lbfgs\"\nmax-iterations = 10\n",
			conf: &core.Conf{OptimizerMethod: CG, MaxIterations: 42},
			want: Setting{Method: CG, MaxIterations: 42, FunctionTolerance: 1e-8},
		},
		{
			name:    "unknown method",
			in:      "[com.optimizer]\nmethod = \"cobyla\"\n",
			conf:    &core.Conf{},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core.ResetSetting()
			require.NoError(t, core.ParseSetting(tt.in))
			o := NewGonumOptimizer()
			err := o.Setup(tt.conf)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownMethod)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, o.Setting())
		})
	}
}
