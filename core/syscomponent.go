package core

import (
	"context"

	"github.com/oqtopus-team/oqtopus-mcvqe/circuit"
	"github.com/oqtopus-team/oqtopus-mcvqe/pauli"
	"go.uber.org/dig"
	"go.uber.org/zap"
)

var systemComponents *SystemComponents

// ExecutionRequest asks for <kernel(params)|observable|kernel(params)>.
type ExecutionRequest struct {
	Name       string
	Kernel     *circuit.Composite
	Observable *pauli.Operator
	Params     []float64
}

type Measurement struct {
	Name             string
	ExpectationValue float64
}

//go:generate mockgen -source=syscomponent.go -destination=mock_executor.go -package=core Executor,GradientStrategy
type Executor interface {
	Setup(*Conf) error
	// Estimate returns the expectation value of obs in the state produced by
	// kernel with its variables bound to params.
	Estimate(ctx context.Context, kernel *circuit.Composite, obs *pauli.Operator, params []float64) (float64, error)
	// Execute evaluates a batch; results are returned in request order.
	Execute(ctx context.Context, reqs []*ExecutionRequest) ([]*Measurement, error)
	SetVerbose(bool)
}

// ObjectiveFunc returns f(x). When dx is non-nil it is filled with the
// gradient at x.
type ObjectiveFunc func(x, dx []float64) (float64, error)

type OptFunction struct {
	Func     ObjectiveFunc
	Dim      int
	Gradient bool
}

type OptResult struct {
	F           float64
	X           []float64
	Status      string
	Evaluations int
	Iterations  int
}

type Optimizer interface {
	Setup(*Conf) error
	Optimize(ctx context.Context, f *OptFunction) (*OptResult, error)
}

type GradientStrategy interface {
	Name() string
	Initialize(obs *pauli.Operator) error
	GradientExecutions(kernel *circuit.Composite, x []float64) ([]*ExecutionRequest, error)
	// Compute writes the gradient from the results of GradientExecutions.
	Compute(grad []float64, results []*Measurement) error
}

type ResultStore interface {
	Setup(*Conf) error
	Save(ctx context.Context, r *Result) error
	Get(ctx context.Context, id string) (*Result, error)
}

type tearDowner interface {
	TearDown()
}

type SystemComponents struct {
	*dig.Container
}

func NewSystemComponents(con *dig.Container) *SystemComponents {
	return &SystemComponents{con}
}

func GetSystemComponents() *SystemComponents {
	return systemComponents
}

func (s *SystemComponents) Setup(conf *Conf) error {
	zap.L().Debug("Setting up executor")
	err := s.Invoke(
		func(e Executor) error {
			return e.Setup(conf)
		})
	if err != nil {
		return err
	}

	zap.L().Debug("Setting up optimizer")
	err = s.Invoke(
		func(o Optimizer) error {
			return o.Setup(conf)
		})
	if err != nil {
		return err
	}

	zap.L().Debug("Setting up result store")
	err = s.Invoke(
		func(r ResultStore) error {
			return r.Setup(conf)
		})
	if err != nil {
		return err
	}
	systemComponents = s
	return nil
}

func (s *SystemComponents) TearDown() {
	_ = s.Invoke(
		func(e Executor) {
			if t, ok := e.(tearDowner); ok {
				t.TearDown()
			}
		})
	_ = s.Invoke(
		func(r ResultStore) {
			if t, ok := r.(tearDowner); ok {
				t.TearDown()
			}
		})
}

func (s *SystemComponents) Executor() Executor {
	var exe Executor
	_ = s.Invoke(
		func(e Executor) {
			exe = e
		})
	return exe
}

func (s *SystemComponents) Optimizer() Optimizer {
	var opt Optimizer
	_ = s.Invoke(
		func(o Optimizer) {
			opt = o
		})
	return opt
}

func (s *SystemComponents) ResultStore() ResultStore {
	var st ResultStore
	_ = s.Invoke(
		func(r ResultStore) {
			st = r
		})
	return st
}
