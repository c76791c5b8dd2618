//go:build unit
// +build unit

package qpu

import (
	"context"
	"math"
	"net"
	"testing"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/oqtopus-team/oqtopus-mcvqe/circuit"
	"github.com/oqtopus-team/oqtopus-mcvqe/common"
	"github.com/oqtopus-team/oqtopus-mcvqe/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

func startEstimator(t *testing.T, e core.Executor) *GatewayQPU {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	RegisterEstimatorServer(s, NewEstimatorServer(e))
	go func() {
		_ = s.Serve(lis)
	}()
	t.Cleanup(s.Stop)

	conn, err := common.NewGRPCClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	g := NewGatewayQPU()
	g.SetConn(conn)
	return g
}

func TestGatewayRoundTrip(t *testing.T) {
	g := startEstimator(t, NewStateVectorQPU())
	local := NewStateVectorQPU()
	tests := []struct {
		name   string
		kernel *circuit.Composite
		params []float64
		obs    string
	}{
		{name: "ry", kernel: ryKernel(), params: []float64{0.7}, obs: "Z0"},
		{name: "bell", kernel: bellKernel(), obs: "Y0 Y1"},
		{name: "idle qubit", kernel: ryKernel(), params: []float64{1.3}, obs: "X0 Z2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := observable(t, 0.5, tt.obs)
			want, err := local.Estimate(context.Background(), tt.kernel, obs, tt.params)
			require.NoError(t, err)
			got, err := g.Estimate(context.Background(), tt.kernel, obs, tt.params)
			assert.NoError(t, err)
			assert.InDelta(t, want, got, 1e-12)
		})
	}

	res, err := g.Execute(context.Background(), []*core.ExecutionRequest{
		{Name: "a", Kernel: ryKernel(), Observable: observable(t, 1, "Z0"), Params: []float64{math.Pi}},
	})
	require.NoError(t, err)
	assert.InDelta(t, -1, res[0].ExpectationValue, 1e-12)
}

func TestGatewayErrors(t *testing.T) {
	_, err := NewGatewayQPU().Estimate(context.Background(), bellKernel(), observable(t, 1, "Z0"), nil)
	assert.ErrorContains(t, err, "not connected")

	small := &StateVectorQPU{deviceSetting: &DeviceSetting{MaxQubits: 1, AllowList: &GateFilter{}, DenyList: &GateFilter{}}}
	g := startEstimator(t, small)
	_, err = g.Estimate(context.Background(), bellKernel(), observable(t, 1, "Z0"), nil)
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestEstimatorServerInvalidArgument(t *testing.T) {
	s := NewEstimatorServer(NewStateVectorQPU())
	tests := []struct {
		name   string
		fields map[string]interface{}
	}{
		{name: "no qasm", fields: map[string]interface{}{"operators": `[{"pauli":"Z0","coeff":1}]`, "n_qubits": 1}},
		{
			name: "broken qasm",
			fields: map[string]interface{}{
				"qasm":      "OPENQASM 3.0;\nqubit[1] q;\nu3(1) q[0];\n",
				"operators": `[{"pauli":"Z0","coeff":1}]`,
				"n_qubits":  1,
			},
		},
		{
			name: "broken operators",
			fields: map[string]interface{}{
				"qasm":      "OPENQASM 3.0;\nqubit[1] q;\nh q[0];\n",
				"operators": `{"pauli":"Z0"}`,
				"n_qubits":  1,
			},
		},
		{
			name: "register too small",
			fields: map[string]interface{}{
				"qasm":      heredoc.Doc("OPENQASM 3.0;\nqubit[2] q;\ncx q[0], q[1];\n"),
				"operators": `[{"pauli":"Z0","coeff":1}]`,
				"n_qubits":  1,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := structpb.NewStruct(tt.fields)
			require.NoError(t, err)
			_, err = s.Estimate(context.Background(), req)
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}
}

func TestGatewaySetup(t *testing.T) {
	core.ResetSetting()
	require.NoError(t, core.ParseSetting(heredoc.Doc(`
		[com.gateway]
		host = "127.0.0.1"
		port = "6001"
		timeout = "5s"
	`)))
	g := NewGatewayQPU()
	require.NoError(t, g.Setup(&core.Conf{}))
	defer g.TearDown()
	assert.Equal(t, "127.0.0.1:6001", g.GetAddress())
	assert.Equal(t, 5*time.Second, g.setting.Timeout)

	core.ResetSetting()
	require.NoError(t, core.ParseSetting("[com.gateway]\nport = \"port\"\n"))
	assert.Error(t, NewGatewayQPU().Setup(&core.Conf{}))
}
