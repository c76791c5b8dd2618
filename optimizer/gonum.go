// Package optimizer adapts gonum's optimize methods to core.Optimizer.
package optimizer

import (
	"context"
	"fmt"
	"math"

	"github.com/go-faster/errors"
	"github.com/oqtopus-team/oqtopus-mcvqe/core"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

const (
	SettingName = "optimizer"

	NelderMead      = "nelder-mead"
	BFGS            = "bfgs"
	LBFGS           = "lbfgs"
	GradientDescent = "gradient-descent"
	CG              = "cg"

	convergenceIterations = 20
)

type Setting struct {
	Method            string    `toml:"method"`
	MaxIterations     int       `toml:"max-iterations"`
	MaxEvaluations    int       `toml:"max-evaluations"`
	FunctionTolerance float64   `toml:"function-tolerance"`
	GradientThreshold float64   `toml:"gradient-threshold"`
	InitialParameters []float64 `toml:"initial-parameters"`
}

func NewSetting() Setting {
	return Setting{
		Method:            NelderMead,
		MaxIterations:     1000,
		FunctionTolerance: 1e-8,
	}
}

func init() {
	core.RegisterSetting(SettingName, NewSetting())
}

var (
	ErrNoGradient    = errors.New("method needs a gradient strategy")
	ErrUnknownMethod = errors.New("unknown optimizer method")
)

// NeedsGradient reports whether the method evaluates gradients.
func NeedsGradient(method string) bool {
	switch method {
	case BFGS, LBFGS, GradientDescent, CG:
		return true
	}
	return false
}

func newMethod(name string) (optimize.Method, error) {
	switch name {
	case NelderMead, "":
		return &optimize.NelderMead{}, nil
	case BFGS:
		return &optimize.BFGS{}, nil
	case LBFGS:
		return &optimize.LBFGS{}, nil
	case GradientDescent:
		return &optimize.GradientDescent{}, nil
	case CG:
		return &optimize.CG{}, nil
	}
	return nil, errors.Wrapf(ErrUnknownMethod, "%q", name)
}

type GonumOptimizer struct {
	setting Setting
}

func NewGonumOptimizer() *GonumOptimizer {
	return &GonumOptimizer{setting: NewSetting()}
}

// NewGonumOptimizerWithSetting skips the setting file.
func NewGonumOptimizerWithSetting(s Setting) *GonumOptimizer {
	return &GonumOptimizer{setting: s}
}

func (o *GonumOptimizer) Setup(conf *core.Conf) error {
	s := NewSetting()
	if _, err := core.DecodeComponentSetting(SettingName, &s); err != nil {
		return err
	}
	if conf.OptimizerMethod != "" {
		s.Method = conf.OptimizerMethod
	}
	if conf.MaxIterations > 0 {
		s.MaxIterations = conf.MaxIterations
	}
	if _, err := newMethod(s.Method); err != nil {
		return err
	}
	o.setting = s
	zap.L().Debug(fmt.Sprintf("optimizer setting:%+v", s))
	return nil
}

func (o *GonumOptimizer) Setting() Setting {
	return o.setting
}

func (o *GonumOptimizer) Optimize(ctx context.Context, f *core.OptFunction) (*core.OptResult, error) {
	method, err := newMethod(o.setting.Method)
	if err != nil {
		return nil, err
	}
	needGrad := NeedsGradient(o.setting.Method)
	if needGrad && !f.Gradient {
		return nil, errors.Wrap(ErrNoGradient, o.setting.Method)
	}
	x0, err := o.initial(f.Dim)
	if err != nil {
		return nil, err
	}

	e := &evaluator{ctx: ctx, f: f.Func, needGrad: needGrad, dim: f.Dim}
	problem := optimize.Problem{
		Func: e.fun,
		Status: func() (optimize.Status, error) {
			if e.err != nil {
				return optimize.Failure, e.err
			}
			return optimize.NotTerminated, nil
		},
	}
	if needGrad {
		problem.Grad = e.grad
	}
	settings := &optimize.Settings{
		MajorIterations:   o.setting.MaxIterations,
		FuncEvaluations:   o.setting.MaxEvaluations,
		GradientThreshold: o.setting.GradientThreshold,
		Converger: &optimize.FunctionConverge{
			Absolute:   o.setting.FunctionTolerance,
			Iterations: convergenceIterations,
		},
	}

	res, err := optimize.Minimize(problem, x0, settings, method)
	if e.err != nil {
		return nil, e.err
	}
	if err != nil && (res == nil || !acceptable(res.Status)) {
		zap.L().Error(fmt.Sprintf("failed to optimize/reason:%s", err))
		return nil, err
	}
	if !acceptable(res.Status) {
		return nil, errors.Errorf("optimization did not converge: status=%v", res.Status)
	}
	return &core.OptResult{
		F:           res.F,
		X:           res.X,
		Status:      res.Status.String(),
		Evaluations: e.evals,
		Iterations:  res.Stats.MajorIterations,
	}, nil
}

func (o *GonumOptimizer) initial(dim int) ([]float64, error) {
	x0 := make([]float64, dim)
	switch len(o.setting.InitialParameters) {
	case 0:
	case dim:
		copy(x0, o.setting.InitialParameters)
	default:
		return nil, errors.Errorf("initial-parameters has %d values, the ansatz has %d parameters",
			len(o.setting.InitialParameters), dim)
	}
	return x0, nil
}

// acceptable treats every limit as a normal end of the search.
func acceptable(s optimize.Status) bool {
	switch s {
	case optimize.Success, optimize.GradientThreshold, optimize.FunctionConvergence,
		optimize.FunctionThreshold, optimize.MethodConverge,
		optimize.IterationLimit, optimize.FunctionEvaluationLimit,
		optimize.GradientEvaluationLimit, optimize.RuntimeLimit:
		return true
	}
	return false
}

// evaluator runs the objective once per point and serves the gradient of
// the last point from cache. The first error is kept and ends the search
// through Problem.Status.
type evaluator struct {
	ctx      context.Context
	f        core.ObjectiveFunc
	needGrad bool
	dim      int

	err      error
	evals    int
	lastX    []float64
	lastGrad []float64
}

func (e *evaluator) fun(x []float64) float64 {
	if e.err != nil {
		return math.Inf(1)
	}
	if err := e.ctx.Err(); err != nil {
		e.err = err
		return math.Inf(1)
	}
	var dx []float64
	if e.needGrad {
		dx = make([]float64, e.dim)
	}
	v, err := e.f(x, dx)
	e.evals++
	if err != nil {
		e.err = err
		return math.Inf(1)
	}
	e.lastX = append(e.lastX[:0], x...)
	e.lastGrad = dx
	return v
}

func (e *evaluator) grad(grad, x []float64) {
	if e.err == nil && (e.lastGrad == nil || !floats.Equal(x, e.lastX)) {
		e.fun(x)
	}
	if e.err != nil {
		for i := range grad {
			grad[i] = 0
		}
		return
	}
	copy(grad, e.lastGrad)
}
