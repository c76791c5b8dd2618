package qpu

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/oqtopus-team/oqtopus-mcvqe/circuit"
	"github.com/oqtopus-team/oqtopus-mcvqe/common"
	"github.com/oqtopus-team/oqtopus-mcvqe/core"
	"github.com/oqtopus-team/oqtopus-mcvqe/pauli"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	GatewaySettingName = "gateway"
	EstimateMethod     = "/mcvqe.estimator.v1.EstimatorService/Estimate"

	fieldQASM      = "qasm"
	fieldOperators = "operators"
	fieldNQubits   = "n_qubits"
	fieldExpValue  = "exp_value"
)

type GatewaySetting struct {
	Host    string        `toml:"host"`
	Port    string        `toml:"port"`
	Timeout time.Duration `toml:"timeout"`
}

func NewGatewaySetting() GatewaySetting {
	return GatewaySetting{
		Host:    "localhost",
		Port:    "50051",
		Timeout: 60 * time.Second,
	}
}

func init() {
	core.RegisterSetting(GatewaySettingName, NewGatewaySetting())
}

// GatewayQPU sends bound circuits as OpenQASM 3 to a remote estimator.
type GatewayQPU struct {
	setting GatewaySetting
	address string
	conn    grpc.ClientConnInterface
	closer  func() error
	verbose atomic.Bool
}

func NewGatewayQPU() *GatewayQPU {
	return &GatewayQPU{setting: NewGatewaySetting()}
}

func (q *GatewayQPU) Setup(conf *core.Conf) error {
	zap.L().Debug("Setting up Gateway QPU")
	s := NewGatewaySetting()
	if _, err := core.DecodeComponentSetting(GatewaySettingName, &s); err != nil {
		return err
	}
	zap.L().Debug(fmt.Sprintf("gateway setting:%+v", s))
	address, err := common.ValidAddress(s.Host, s.Port)
	if err != nil {
		return err
	}
	conn, err := common.NewGRPCClient(address)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to make connection to %s/reason:%s", address, err))
		return err
	}
	q.setting = s
	q.address = address
	q.SetConn(conn)
	q.closer = conn.Close
	q.SetVerbose(conf.ExecutorLog)
	zap.L().Debug(fmt.Sprintf("Gateway QPU is ready to use %s", address))
	return nil
}

// SetConn replaces the connection, e.g. with an in-memory one.
func (q *GatewayQPU) SetConn(conn grpc.ClientConnInterface) {
	q.conn = conn
}

func (q *GatewayQPU) SetVerbose(v bool) {
	q.verbose.Store(v)
}

func (q *GatewayQPU) GetAddress() string {
	return q.address
}

func (q *GatewayQPU) TearDown() {
	if q.closer != nil {
		_ = q.closer()
	}
}

func (q *GatewayQPU) Estimate(ctx context.Context, kernel *circuit.Composite, obs *pauli.Operator, params []float64) (float64, error) {
	if q.conn == nil {
		return 0, fmt.Errorf("Gateway QPU is not connected")
	}
	bound, err := kernel.Bind(params)
	if err != nil {
		return 0, err
	}
	qasm, err := bound.QASM()
	if err != nil {
		return 0, err
	}
	ops, err := obs.MarshalJSON()
	if err != nil {
		return 0, err
	}
	nQubits := bound.NQubits()
	if obs.NQubits() > nQubits {
		nQubits = obs.NQubits()
	}
	req, err := structpb.NewStruct(map[string]interface{}{
		fieldQASM:      qasm,
		fieldOperators: string(ops),
		fieldNQubits:   nQubits,
	})
	if err != nil {
		return 0, err
	}
	if q.setting.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.setting.Timeout)
		defer cancel()
	}
	if q.verbose.Load() {
		zap.L().Debug(fmt.Sprintf("Sending a kernel to %s/kernel:%s, qasm:%s", q.address, kernel.Name, qasm))
	}
	resp := &structpb.Struct{}
	if err := q.conn.Invoke(ctx, EstimateMethod, req, resp); err != nil {
		zap.L().Error(fmt.Sprintf("failed to estimate in %s/reason:%s", q.address, err))
		return 0, err
	}
	v, ok := resp.GetFields()[fieldExpValue]
	if !ok {
		return 0, fmt.Errorf("response from %s has no %s", q.address, fieldExpValue)
	}
	if _, isNumber := v.GetKind().(*structpb.Value_NumberValue); !isNumber {
		return 0, fmt.Errorf("%s in the response from %s is not a number", fieldExpValue, q.address)
	}
	return v.GetNumberValue(), nil
}

func (q *GatewayQPU) Execute(ctx context.Context, reqs []*core.ExecutionRequest) ([]*core.Measurement, error) {
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
