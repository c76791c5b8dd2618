package qpu

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"

	"github.com/oqtopus-team/oqtopus-mcvqe/circuit"
	"github.com/oqtopus-team/oqtopus-mcvqe/core"
	"github.com/oqtopus-team/oqtopus-mcvqe/pauli"
	"go.uber.org/zap"
)

const StateVectorDeviceName = "StateVectorQPU"

// StateVectorQPU evaluates expectation values on a local state vector,
// exactly or from sampled shots. It is safe for concurrent use.
type StateVectorQPU struct {
	deviceSetting *DeviceSetting
	verbose       atomic.Bool
	seed          uint64
	streams       atomic.Uint64
}

func NewStateVectorQPU() *StateVectorQPU {
	return &StateVectorQPU{deviceSetting: NewDeviceSetting(), seed: rand.Uint64()}
}

// NewStateVectorQPUWithSetting skips the setting file.
func NewStateVectorQPUWithSetting(ds *DeviceSetting) *StateVectorQPU {
	q := &StateVectorQPU{deviceSetting: ds, seed: ds.Seed}
	if q.seed == 0 {
		q.seed = rand.Uint64()
	}
	return q
}

func (q *StateVectorQPU) Setup(conf *core.Conf) error {
	zap.L().Debug("Setting up StateVector QPU")
	ds, err := LoadDeviceSetting()
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to load statevector setting/reason:%s", err))
		return err
	}
	q.deviceSetting = ds
	if ds.Seed != 0 {
		q.seed = ds.Seed
	}
	q.SetVerbose(conf.ExecutorLog)
	return nil
}

func (q *StateVectorQPU) SetVerbose(v bool) {
	q.verbose.Store(v)
}

func (q *StateVectorQPU) Estimate(ctx context.Context, kernel *circuit.Composite, obs *pauli.Operator, params []float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	bound, err := kernel.Bind(params)
	if err != nil {
		return 0, err
	}
	nQubits := bound.NQubits()
	if obs.NQubits() > nQubits {
		nQubits = obs.NQubits()
	}
	if err := validateCircuit(bound, q.deviceSetting); err != nil {
		return 0, err
	}
	if nQubits > q.deviceSetting.MaxQubits {
		return 0, fmt.Errorf("observable needs %d qubits, the simulator has %d", nQubits, q.deviceSetting.MaxQubits)
	}
	sv := newStateVector(nQubits)
	if err := sv.run(bound); err != nil {
		return 0, err
	}
	var e float64
	if shots := q.deviceSetting.Shots; shots > 0 {
		e, err = sv.sampledExpectation(obs, shots, rand.NewPCG(q.seed, q.streams.Add(1)))
	} else {
		e, err = sv.expectation(obs)
	}
	if err != nil {
		return 0, err
	}
	if q.verbose.Load() {
		zap.L().Debug(fmt.Sprintf("[%s] kernel:%s, qubits:%d, gates:%d, energy:%.12f",
			StateVectorDeviceName, kernel.Name, nQubits, bound.NInstructions(), e))
	}
	return e, nil
}

func (q *StateVectorQPU) Execute(ctx context.Context, reqs []*core.ExecutionRequest) ([]*core.Measurement, error) {
	res := make([]*core.Measurement, len(reqs))
	for i, r := range reqs {
		e, err := q.Estimate(ctx, r.Kernel, r.Observable, r.Params)
		if err != nil {
			return nil, fmt.Errorf("execution %s: %w", r.Name, err)
		}
		res[i] = &core.Measurement{Name: r.Name, ExpectationValue: e}
	}
	return res, nil
}
