package mcvqe

import (
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/oqtopus-team/oqtopus-mcvqe/aiem"
	"github.com/oqtopus-team/oqtopus-mcvqe/ansatz"
	"github.com/oqtopus-team/oqtopus-mcvqe/chem"
	"github.com/oqtopus-team/oqtopus-mcvqe/core"
	"github.com/oqtopus-team/oqtopus-mcvqe/gradient"
	"github.com/oqtopus-team/oqtopus-mcvqe/log"
	"github.com/oqtopus-team/oqtopus-mcvqe/scheduler"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	KeyAccelerator      = "accelerator"
	KeyOptimizer        = "optimizer"
	KeyNChromophores    = "nChromophores"
	KeyDataPath         = "data-path"
	KeyCyclic           = "cyclic"
	KeyLogLevel         = "log-level"
	KeyTNQVMLog         = "tnqvm-log"
	KeyInterference     = "interference"
	KeyNStates          = "n-states"
	KeyGradientStrategy = "gradient-strategy"
	KeyWorkers          = "workers"
	KeyMetrics          = "metrics"
)

var (
	ErrMissingParameter = errors.New("missing required parameter")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// RequiredParameters lists the keys Initialize cannot do without.
func RequiredParameters() []string {
	return []string{KeyOptimizer, KeyAccelerator, KeyNChromophores, KeyDataPath}
}

// params reads a heterogeneous map and collects one error per bad key.
type params struct {
	m   map[string]interface{}
	err error
}

func (p *params) missing(key string) {
	p.err = multierr.Append(p.err, errors.Wrap(ErrMissingParameter, key))
}

func (p *params) invalid(key, format string, args ...interface{}) {
	p.err = multierr.Append(p.err, errors.Wrapf(ErrInvalidParameter, "%s: %s", key, fmt.Sprintf(format, args...)))
}

// int reports whether the key held an integer.
func (p *params) int(key string, required bool, def int) (int, bool) {
	v, ok := p.m[key]
	if !ok {
		if required {
			p.missing(key)
		}
		return def, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	}
	p.invalid(key, "want an integer, got %T", v)
	return def, false
}

func (p *params) bool(key string, def bool) bool {
	v, ok := p.m[key]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		p.invalid(key, "want a bool, got %T", v)
		return def
	}
	return b
}

func (p *params) string(key string, required bool) string {
	v, ok := p.m[key]
	if !ok {
		if required {
			p.missing(key)
		}
		return ""
	}
	s, ok := v.(string)
	if !ok || (required && s == "") {
		p.invalid(key, "want a non-empty string, got %T", v)
		return ""
	}
	return s
}

// Initialize validates the parameters, loads the chromophore data and
// derives the AIEM Hamiltonian and the CIS state preparation angles.
// Every bad key is reported in the returned error.
func Initialize(m map[string]interface{}) (*MCVQE, error) {
	start := time.Now()
	p := &params{m: m}

	var executor core.Executor
	if v, ok := m[KeyAccelerator]; !ok || v == nil {
		p.missing(KeyAccelerator)
	} else if executor, ok = v.(core.Executor); !ok {
		p.invalid(KeyAccelerator, "want a core.Executor, got %T", v)
	}
	var optimizer core.Optimizer
	if v, ok := m[KeyOptimizer]; !ok || v == nil {
		p.missing(KeyOptimizer)
	} else if optimizer, ok = v.(core.Optimizer); !ok {
		p.invalid(KeyOptimizer, "want a core.Optimizer, got %T", v)
	}

	n, ok := p.int(KeyNChromophores, true, 0)
	if ok && n <= 0 {
		p.invalid(KeyNChromophores, "must be positive, got %d", n)
	}
	dataPath := p.string(KeyDataPath, true)
	cyclic := p.bool(KeyCyclic, false)
	logLevel, _ := p.int(KeyLogLevel, false, 0)
	tnqvmLog := p.bool(KeyTNQVMLog, false)
	interference := p.bool(KeyInterference, true)
	nStates, ok := p.int(KeyNStates, false, n+1)
	if ok && n > 0 && (nStates < 1 || nStates > n+1) {
		p.invalid(KeyNStates, "must be in [1,%d], got %d", n+1, nStates)
	}
	workers, _ := p.int(KeyWorkers, false, 1)
	if workers < 1 {
		p.invalid(KeyWorkers, "must be at least 1, got %d", workers)
	}

	var strategy core.GradientStrategy
	switch v := m[KeyGradientStrategy].(type) {
	case nil:
	case string:
		var err error
		if strategy, err = gradient.Get(v); err != nil {
			p.invalid(KeyGradientStrategy, "%s", err)
		}
	case core.GradientStrategy:
		strategy = v
	default:
		p.invalid(KeyGradientStrategy, "want a provider name, got %T", v)
	}

	var metrics *log.IterationMetrics
	if v, ok := m[KeyMetrics]; ok && v != nil {
		if metrics, ok = v.(*log.IterationMetrics); !ok {
			p.invalid(KeyMetrics, "want *log.IterationMetrics, got %T", v)
		}
	}

	if p.err != nil {
		for _, e := range multierr.Errors(p.err) {
			zap.L().Error(fmt.Sprintf("invalid MC-VQE configuration/reason:%s", e))
		}
		return nil, p.err
	}

	records, err := chem.LoadFile(dataPath, n)
	if err != nil {
		return nil, errors.Wrap(err, KeyDataPath)
	}
	model, err := aiem.Build(records, cyclic)
	if err != nil {
		return nil, err
	}
	if strategy != nil {
		if err := strategy.Initialize(model.Hamiltonian); err != nil {
			return nil, errors.Wrap(err, KeyGradientStrategy)
		}
	}

	entangler := ansatz.Entangler(n, cyclic)
	if got, want := entangler.NVariables(), ansatz.ParameterCount(n, cyclic); got != want {
		return nil, errors.Errorf("entangler has %d parameters, expected %d", got, want)
	}

	e := &MCVQE{
		executor:     executor,
		optimizer:    optimizer,
		gradient:     strategy,
		model:        model,
		nStates:      nStates,
		cyclic:       cyclic,
		interference: interference,
		tnqvmLog:     tnqvmLog,
		pool:         scheduler.NewPool(workers),
		diag:         log.NewDiagnostics(logLevel),
		metrics:      metrics,
		entangler:    entangler,
		telemetry:    newTelemetry(),
	}
	e.diag.Log(log.PhaseLevel, "AIEM Hamiltonian and state preparation parameters [%s]", time.Since(start))
	return e, nil
}
