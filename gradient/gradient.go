// Package gradient holds the providers that turn one kernel into the batch of
// shifted executions whose results give dE/dx.
package gradient

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/go-faster/errors"
	"github.com/oqtopus-team/oqtopus-mcvqe/circuit"
	"github.com/oqtopus-team/oqtopus-mcvqe/core"
	"github.com/oqtopus-team/oqtopus-mcvqe/pauli"
)

const (
	ParameterShift    = "parameter-shift"
	CentralDifference = "central-difference"
	ForwardDifference = "forward-difference"

	SettingName = "gradient"
)

type Setting struct {
	Step float64 `toml:"step"`
}

func NewSetting() Setting {
	return Setting{Step: 1e-4}
}

func init() {
	core.RegisterSetting(SettingName, NewSetting())
	Register(ParameterShift, func(Setting) core.GradientStrategy {
		return &shiftRule{name: ParameterShift, shift: math.Pi / 2, scale: 0.5}
	})
	Register(CentralDifference, func(s Setting) core.GradientStrategy {
		return &shiftRule{name: CentralDifference, shift: s.Step, scale: 1 / (2 * s.Step)}
	})
	Register(ForwardDifference, func(s Setting) core.GradientStrategy {
		return &forwardDifference{step: s.Step}
	})
}

type Factory func(Setting) core.GradientStrategy

var ErrUnknownStrategy = errors.New("unknown gradient strategy")

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[name] = f
}

func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for n := range factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Get builds a new provider, reading the step from [com.gradient].
func Get(name string) (core.GradientStrategy, error) {
	mu.RLock()
	f, ok := factories[name]
	mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrUnknownStrategy, "%q, available: %v", name, Names())
	}
	s := NewSetting()
	if _, err := core.DecodeComponentSetting(SettingName, &s); err != nil {
		return nil, err
	}
	if s.Step <= 0 {
		return nil, errors.Errorf("gradient step must be positive, got %g", s.Step)
	}
	return f(s), nil
}

// shiftRule evaluates E(x+h e_k) and E(x-h e_k) and returns
// scale*(E+ - E-) per parameter.
type shiftRule struct {
	name  string
	shift float64
	scale float64
	obs   *pauli.Operator
}

func (r *shiftRule) Name() string { return r.name }

func (r *shiftRule) Initialize(obs *pauli.Operator) error {
	if obs == nil {
		return errors.Errorf("%s needs an observable", r.name)
	}
	r.obs = obs
	return nil
}

func (r *shiftRule) GradientExecutions(kernel *circuit.Composite, x []float64) ([]*core.ExecutionRequest, error) {
	if r.obs == nil {
		return nil, errors.Errorf("%s is not initialized", r.name)
	}
	if kernel.NVariables() != len(x) {
		return nil, errors.Errorf("%s has %d variables but %d values were given", kernel.Name, kernel.NVariables(), len(x))
	}
	reqs := make([]*core.ExecutionRequest, 0, 2*len(x))
	for k := range x {
		reqs = append(reqs,
			&core.ExecutionRequest{Name: fmt.Sprintf("%s+%d", r.name, k), Kernel: kernel, Observable: r.obs, Params: shifted(x, k, r.shift)},
			&core.ExecutionRequest{Name: fmt.Sprintf("%s-%d", r.name, k), Kernel: kernel, Observable: r.obs, Params: shifted(x, k, -r.shift)},
		)
	}
	return reqs, nil
}

func (r *shiftRule) Compute(grad []float64, results []*core.Measurement) error {
	if len(results) != 2*len(grad) {
		return errors.Errorf("%s expects %d results, got %d", r.name, 2*len(grad), len(results))
	}
	for k := range grad {
		grad[k] = r.scale * (results[2*k].ExpectationValue - results[2*k+1].ExpectationValue)
	}
	return nil
}

// forwardDifference evaluates E(x) first and then E(x+h e_k).
type forwardDifference struct {
	step float64
	obs  *pauli.Operator
}

func (f *forwardDifference) Name() string { return ForwardDifference }

func (f *forwardDifference) Initialize(obs *pauli.Operator) error {
	if obs == nil {
		return errors.Errorf("%s needs an observable", ForwardDifference)
	}
	f.obs = obs
	return nil
}

func (f *forwardDifference) GradientExecutions(kernel *circuit.Composite, x []float64) ([]*core.ExecutionRequest, error) {
	if f.obs == nil {
		return nil, errors.Errorf("%s is not initialized", ForwardDifference)
	}
	if kernel.NVariables() != len(x) {
		return nil, errors.Errorf("%s has %d variables but %d values were given", kernel.Name, kernel.NVariables(), len(x))
	}
	base := append([]float64(nil), x...)
	reqs := make([]*core.ExecutionRequest, 0, len(x)+1)
	reqs = append(reqs, &core.ExecutionRequest{Name: ForwardDifference + "-base", Kernel: kernel, Observable: f.obs, Params: base})
	for k := range x {
		reqs = append(reqs, &core.ExecutionRequest{
			Name: fmt.Sprintf("%s+%d", ForwardDifference, k), Kernel: kernel, Observable: f.obs, Params: shifted(x, k, f.step),
		})
	}
	return reqs, nil
}

func (f *forwardDifference) Compute(grad []float64, results []*core.Measurement) error {
	if len(results) != len(grad)+1 {
		return errors.Errorf("%s expects %d results, got %d", ForwardDifference, len(grad)+1, len(results))
	}
	base := results[0].ExpectationValue
	for k := range grad {
		grad[k] = (results[k+1].ExpectationValue - base) / f.step
	}
	return nil
}

func shifted(x []float64, k int, h float64) []float64 {
	s := append([]float64(nil), x...)
	s[k] += h
	return s
}
