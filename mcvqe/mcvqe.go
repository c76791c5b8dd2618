// Package mcvqe runs the multistate contracted variational quantum
// eigensolver on an AIEM model of a chromophore aggregate.
package mcvqe

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/oqtopus-team/oqtopus-mcvqe/aiem"
	"github.com/oqtopus-team/oqtopus-mcvqe/ansatz"
	"github.com/oqtopus-team/oqtopus-mcvqe/circuit"
	"github.com/oqtopus-team/oqtopus-mcvqe/core"
	"github.com/oqtopus-team/oqtopus-mcvqe/log"
	"github.com/oqtopus-team/oqtopus-mcvqe/scheduler"
	"go.opentelemetry.io/otel/attribute"
	"gonum.org/v1/gonum/mat"
)

const (
	stageEnergy       = "energy"
	stageGradient     = "gradient"
	stageInterference = "interference"

	bestTolerance = 1e-9
)

type MCVQE struct {
	executor     core.Executor
	optimizer    core.Optimizer
	gradient     core.GradientStrategy
	model        *aiem.Model
	nStates      int
	cyclic       bool
	interference bool
	tnqvmLog     bool
	pool         *scheduler.Pool
	diag         *log.Diagnostics
	metrics      *log.IterationMetrics
	entangler    *circuit.Composite
	telemetry    *telemetry
}

func (m *MCVQE) Model() *aiem.Model { return m.model }

func (m *MCVQE) NStates() int { return m.nStates }

// NParameters is the number of entangler parameters.
func (m *MCVQE) NParameters() int { return m.entangler.NVariables() }

// kernel prepares the state described by angles and appends the entangler.
func (m *MCVQE) kernel(angles []float64) *circuit.Composite {
	k := ansatz.StatePreparation(angles)
	k.Append(m.entangler)
	return k
}

func (m *MCVQE) verbose() func() {
	if !m.tnqvmLog {
		return func() {}
	}
	m.executor.SetVerbose(true)
	return func() { m.executor.SetVerbose(false) }
}

func (m *MCVQE) estimate(ctx context.Context, stage string, kernel *circuit.Composite, x []float64) (float64, error) {
	m.telemetry.count(ctx, stage, 1)
	defer m.verbose()()
	return m.executor.Estimate(ctx, kernel, m.model.Hamiltonian, x)
}

func (m *MCVQE) stateGradient(ctx context.Context, kernel *circuit.Composite, x, grad []float64) error {
	reqs, err := m.gradient.GradientExecutions(kernel, x)
	if err != nil {
		return err
	}
	m.telemetry.count(ctx, stageGradient, len(reqs))
	restore := m.verbose()
	results, err := m.executor.Execute(ctx, reqs)
	restore()
	if err != nil {
		return err
	}
	return m.gradient.Compute(grad, results)
}

// Objective returns the average energy over the prepared states as a
// function of the entangler parameters. When dx is non-nil and a gradient
// provider is configured, dx receives the averaged gradient.
func (m *MCVQE) Objective(ctx context.Context, t *Tracker) core.ObjectiveFunc {
	return func(x, dx []float64) (float64, error) {
		start := time.Now()
		useGrad := dx != nil && m.gradient != nil
		energies := make([]float64, m.nStates)
		kernels := make([]*circuit.Composite, m.nStates)
		var grads [][]float64
		if useGrad {
			grads = make([][]float64, m.nStates)
		}

		err := m.pool.Run(ctx, m.nStates, func(ctx context.Context, s int) error {
			kernel := m.kernel(m.model.AngleColumn(s))
			kernels[s] = kernel
			if m.diag.Enabled(log.CircuitLevel) {
				m.diag.Log(log.CircuitLevel, "Printing circuit for state #%d\n%s", s, kernel)
			}
			e, err := m.estimate(ctx, stageEnergy, kernel, x)
			if err != nil {
				return errors.Wrapf(err, "%s of state %d", stageEnergy, s)
			}
			energies[s] = e
			m.diag.Log(log.IterationLevel, "State # %d energy %f", s, e)
			if !useGrad {
				return nil
			}
			g := make([]float64, len(x))
			if err := m.stateGradient(ctx, kernel, x, g); err != nil {
				return errors.Wrapf(err, "%s of state %d", stageGradient, s)
			}
			grads[s] = g
			return nil
		})
		if err != nil {
			return 0, err
		}

		n := float64(m.nStates)
		average := 0.0
		for _, e := range energies {
			average += e / n
		}
		if useGrad {
			for i := range dx {
				dx[i] = 0
				for _, g := range grads {
					dx[i] += g[i] / n
				}
			}
		}
		last := kernels[m.nStates-1]
		t.setCircuit(last.Depth(), last.NInstructions())
		committed := t.Commit(average, energies, x)
		m.metrics.Record(average, energies, x, committed)

		if m.diag.Enabled(log.IterationLevel) {
			m.diag.Log(log.IterationLevel, "Optimization iteration finished [%s]", time.Since(start))
			m.diag.Log(log.IterationLevel, "E(%s) = %.12f", joinFloats(x), average)
		}
		return average, nil
	}
}

// Interference fills the off-diagonal elements of h from the energies of
// the (|A>+|B>)/sqrt2 and (|A>-|B>)/sqrt2 states at entangler parameters x.
func (m *MCVQE) Interference(ctx context.Context, x []float64, h *mat.SymDense) error {
	ctx, span := m.telemetry.start(ctx, "mcvqe.Interference", attribute.Int("n_states", m.nStates))
	defer span.End()
	start := time.Now()
	m.diag.Log(log.PhaseLevel, "Computing Hamiltonian matrix elements in the interference state basis")

	var pairs [][2]int
	for a := 0; a < m.nStates-1; a++ {
		for b := a + 1; b < m.nStates; b++ {
			pairs = append(pairs, [2]int{a, b})
		}
	}
	values := make([]float64, len(pairs))
	err := m.pool.Run(ctx, len(pairs), func(ctx context.Context, i int) error {
		a, b := pairs[i][0], pairs[i][1]
		colA, colB := m.model.AngleColumn(a), m.model.AngleColumn(b)
		plus := make([]float64, len(colA))
		minus := make([]float64, len(colA))
		for k := range colA {
			plus[k] = (colA[k] + colB[k]) / math.Sqrt2
			minus[k] = (colA[k] - colB[k]) / math.Sqrt2
		}
		ep, err := m.estimate(ctx, stageInterference, m.kernel(plus), x)
		if err != nil {
			return errors.Wrapf(err, "%s+ of states (%d,%d)", stageInterference, a, b)
		}
		em, err := m.estimate(ctx, stageInterference, m.kernel(minus), x)
		if err != nil {
			return errors.Wrapf(err, "%s- of states (%d,%d)", stageInterference, a, b)
		}
		values[i] = (ep - em) / math.Sqrt2
		return nil
	})
	if err != nil {
		return fail(span, err)
	}
	for i, p := range pairs {
		h.SetSym(p[0], p[1], values[i])
	}
	m.diag.Log(log.PhaseLevel, "Interference basis Hamiltonian matrix elements computed [%s]", time.Since(start))
	return nil
}

// Diagonalize returns the eigenvalues of h in ascending order and the
// eigenvectors as columns.
func Diagonalize(h mat.Symmetric) ([]float64, *mat.Dense, error) {
	values, vecs, err := aiem.Diagonalize(h)
	if err != nil {
		return nil, nil, errors.Wrap(err, "entangled Hamiltonian")
	}
	return values, vecs, nil
}

// Execute optimises the entangler and, when interference is enabled,
// computes the MC-VQE spectrum at the optimised parameters.
func (m *MCVQE) Execute(ctx context.Context) (*core.Result, error) {
	ctx, span := m.telemetry.start(ctx, "mcvqe.Execute",
		attribute.Int("n_states", m.nStates), attribute.Int("n_parameters", m.NParameters()))
	defer span.End()
	start := time.Now()
	res := m.newResult(core.TrainMode)

	tracker := NewTracker(m.nStates)
	optCtx, optSpan := m.telemetry.start(ctx, "mcvqe.Optimize")
	opt, err := m.optimizer.Optimize(optCtx, &core.OptFunction{
		Func:     m.Objective(optCtx, tracker),
		Dim:      m.NParameters(),
		Gradient: m.gradient != nil,
	})
	if err != nil {
		fail(optSpan, err)
		optSpan.End()
		return nil, fail(span, errors.Wrap(err, "optimization"))
	}
	optSpan.End()
	diagonal := tracker.Diagonal()
	if diagonal == nil {
		return nil, fail(span, errors.New("optimizer finished without evaluating the objective"))
	}
	m.diag.Log(log.PhaseLevel, "MC-VQE entangler optimization finished [%s]", time.Since(start))
	m.diag.Log(log.PhaseLevel, "MC-VQE optimization complete")

	// The committed point is the one the diagonal belongs to.
	best, params := tracker.Best(), tracker.Params()
	if math.Abs(best-opt.F) > bestTolerance*math.Max(1, math.Abs(best)) {
		m.diag.Log(log.PhaseLevel, "optimizer reported E = %.12f, keeping the best evaluated E = %.12f", opt.F, best)
	}
	res.OptAverageEnergy = best
	res.OptParams = params
	res.CircuitDepth, res.NGates = tracker.Circuit()
	res.Diagonal = diagonal
	res.OptimizerStatus = opt.Status
	res.Evaluations = tracker.Evaluations()

	if m.interference {
		if err := m.spectrum(ctx, params, res); err != nil {
			return nil, fail(span, err)
		}
	}
	res.Finish()
	m.diag.Log(log.PhaseLevel, "MC-VQE simulation finished [%s]", time.Since(start))
	return res, nil
}

// Evaluate computes the state energies and, when interference is enabled,
// the spectrum at fixed entangler parameters x.
func (m *MCVQE) Evaluate(ctx context.Context, x []float64) (*core.Result, error) {
	ctx, span := m.telemetry.start(ctx, "mcvqe.Evaluate", attribute.Int("n_states", m.nStates))
	defer span.End()
	if len(x) != m.NParameters() {
		return nil, fail(span, errors.Errorf("the entangler has %d parameters but %d values were given", m.NParameters(), len(x)))
	}
	res := m.newResult(core.EvaluateMode)
	tracker := NewTracker(m.nStates)
	average, err := m.Objective(ctx, tracker)(x, nil)
	if err != nil {
		return nil, fail(span, err)
	}
	res.OptAverageEnergy = average
	res.OptParams = append([]float64(nil), x...)
	res.CircuitDepth, res.NGates = tracker.Circuit()
	res.Diagonal = tracker.Diagonal()
	res.Evaluations = 1

	if m.interference {
		if err := m.spectrum(ctx, x, res); err != nil {
			return nil, fail(span, err)
		}
	}
	res.Finish()
	return res, nil
}

func (m *MCVQE) spectrum(ctx context.Context, x []float64, res *core.Result) error {
	h := mat.NewSymDense(m.nStates, nil)
	for s, e := range res.Diagonal {
		h.SetSym(s, s, e)
	}
	if err := m.Interference(ctx, x, h); err != nil {
		return err
	}
	m.diag.Log(log.PhaseLevel, "Diagonalizing entangled Hamiltonian")
	values, vecs, err := Diagonalize(h)
	if err != nil {
		return err
	}
	res.Spectrum = values
	res.Eigenvectors = make([][]float64, len(values))
	for k := range values {
		res.Eigenvectors[k] = mat.Col(nil, k, vecs)
	}
	m.diag.Log(log.PhaseLevel, "%s", res.SpectrumString())
	return nil
}

func (m *MCVQE) newResult(mode core.Mode) *core.Result {
	res := core.NewResult(mode)
	res.NChromophores = m.model.N()
	res.NStates = m.nStates
	res.Cyclic = m.cyclic
	res.CISEnergies = append([]float64(nil), m.model.CISEnergies[:m.nStates]...)
	return res
}

func joinFloats(x []float64) string {
	parts := make([]string, len(x))
	for i, v := range x {
		parts[i] = fmt.Sprintf("%g", v)
	}
	return strings.Join(parts, ",")
}
