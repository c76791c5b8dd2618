package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/oqtopus-team/oqtopus-mcvqe/circuit"
	"github.com/oqtopus-team/oqtopus-mcvqe/pauli"
	"go.uber.org/dig"
)

const setupErrorMessage string = "executor setup failed"

// UnimplementedExecutor returns zero for every expectation value.
type UnimplementedExecutor struct{}

func (u *UnimplementedExecutor) Setup(*Conf) error { return nil }

func (u *UnimplementedExecutor) Estimate(context.Context, *circuit.Composite, *pauli.Operator, []float64) (float64, error) {
	return 0, nil
}

func (u *UnimplementedExecutor) Execute(_ context.Context, reqs []*ExecutionRequest) ([]*Measurement, error) {
	res := make([]*Measurement, len(reqs))
	for i, r := range reqs {
		res[i] = &Measurement{Name: r.Name}
	}
	return res, nil
}

func (u *UnimplementedExecutor) SetVerbose(bool) {}

type setupErrorExecutorForTest struct {
	UnimplementedExecutor
}

func (setupErrorExecutorForTest) Setup(*Conf) error {
	return fmt.Errorf(setupErrorMessage)
}

// constantExecutorForTest reports the observable's constant term and counts
// estimates.
type constantExecutorForTest struct {
	UnimplementedExecutor
	mu    sync.Mutex
	calls int
}

func (c *constantExecutorForTest) Estimate(_ context.Context, _ *circuit.Composite, obs *pauli.Operator, _ []float64) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return obs.Constant(), nil
}

type UnimplementedOptimizer struct{}

func (u *UnimplementedOptimizer) Setup(*Conf) error { return nil }

// Optimize evaluates the objective once at the origin.
func (u *UnimplementedOptimizer) Optimize(_ context.Context, f *OptFunction) (*OptResult, error) {
	x := make([]float64, f.Dim)
	v, err := f.Func(x, nil)
	if err != nil {
		return nil, err
	}
	return &OptResult{F: v, X: x, Status: "Success", Evaluations: 1}, nil
}

type UnimplementedResultStore struct {
	mu      sync.Mutex
	results map[string]*Result
}

func (u *UnimplementedResultStore) Setup(*Conf) error {
	u.results = make(map[string]*Result)
	return nil
}

func (u *UnimplementedResultStore) Save(_ context.Context, r *Result) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.results[r.ID] = r.Clone()
	return nil
}

func (u *UnimplementedResultStore) Get(_ context.Context, id string) (*Result, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	r, ok := u.results[id]
	if !ok {
		return nil, fmt.Errorf("failed to find %s", id)
	}
	return r.Clone(), nil
}

type tearDownStoreForTest struct {
	UnimplementedResultStore
	tornDown bool
}

func (t *tearDownStoreForTest) TearDown() { t.tornDown = true }

func SCWithUnimplementedContainer() *SystemComponents {
	c := dig.New()
	c.Provide(func() Executor { return &UnimplementedExecutor{} })
	c.Provide(func() Optimizer { return &UnimplementedOptimizer{} })
	c.Provide(func() ResultStore { return &UnimplementedResultStore{} })
	s := NewSystemComponents(c)
	s.Setup(&Conf{})
	return s
}

func SCWithExecutor(e Executor) *SystemComponents {
	c := dig.New()
	c.Provide(func() Executor { return e })
	c.Provide(func() Optimizer { return &UnimplementedOptimizer{} })
	c.Provide(func() ResultStore { return &UnimplementedResultStore{} })
	s := NewSystemComponents(c)
	s.Setup(&Conf{})
	return s
}
